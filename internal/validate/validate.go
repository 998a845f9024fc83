// Package validate checks inbound messages for completeness before any
// expensive downstream work. Pure text checks, no I/O.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/profwarlock/warlock/internal/domain"
)

var requiredFields = []string{"First Name:", "Last Name:", "Date of Birth:", "Place of Birth:"}

// dateValueRe matches the value that must follow "Date of Birth:".
var dateValueRe = regexp.MustCompile(`(?i)Date of Birth:\s*(\d{1,2}[-/]\d{1,2}[-/]\d{4}\s+\d{1,2}:\d{2})`)

// Validate returns nil if the message can be processed.
// Ping messages always pass.
func Validate(msg *domain.InboundMessage) *domain.ValidationError {
	if msg.IsPing() {
		return nil
	}

	var missing []string
	for _, field := range requiredFields {
		if !strings.Contains(msg.Body, field) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return &domain.ValidationError{
			Kind:    domain.ErrMissingUserInfo,
			Message: fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", ")),
			Context: map[string]any{"from_email": msg.FromEmail, "missing_fields": missing},
		}
	}

	if !dateValueRe.MatchString(msg.Body) {
		return &domain.ValidationError{
			Kind:    domain.ErrInvalidDateFormat,
			Message: "Date of Birth must be in DD-MM-YYYY HH:MM format",
			Context: map[string]any{"from_email": msg.FromEmail},
		}
	}

	return nil
}
