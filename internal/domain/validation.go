package domain

import "fmt"

// Validation error kinds. The attachment-oriented kinds are kept for the
// deployment variant that validates photo submissions.
const (
	ErrMissingUserInfo   = "missing_user_info"
	ErrInvalidDateFormat = "invalid_date_format"
	ErrInvalidTimeFormat = "invalid_time_format"
	ErrNoAttachment      = "no_attachment"
	ErrFileTooLarge      = "file_too_large"
	ErrInvalidFileType   = "invalid_file_type"
)

// ValidationError describes why an inbound message cannot be processed.
type ValidationError struct {
	Kind    string
	Message string
	Context map[string]any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}
