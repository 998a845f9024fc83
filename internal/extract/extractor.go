// Package extract turns free-form email text into a structured birth record.
//
// Extraction runs a question-answering model over the cleaned body, then a
// strict `Label: value` line pass over the original body. Structured lines
// always win over inferred answers.
package extract

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/profwarlock/warlock/internal/domain"
	"github.com/profwarlock/warlock/internal/logger"
)

const (
	fieldFirstName  = "first_name"
	fieldLastName   = "last_name"
	fieldBirthDate  = "birth_date"
	fieldBirthTime  = "birth_time"
	fieldBirthPlace = "birth_place"
)

var questions = map[string]string{
	fieldFirstName:  "What is the first name?",
	fieldLastName:   "What is the last name?",
	fieldBirthDate:  "What is the date of birth?",
	fieldBirthTime:  "What is the time of birth?",
	fieldBirthPlace: "Where was the person born?",
}

var (
	// labelRe matches strict structured lines, anchored at line start.
	labelRe = regexp.MustCompile(`(?im)^(First Name|Last Name|Date of Birth|Place of Birth):[ \t]*(.+)$`)

	// fromLineRe matches a header-style "From: Display Name <addr>" line.
	fromLineRe = regexp.MustCompile(`(?m)^From:\s*([^<\n]+?)\s*<[^>]+>`)

	digitRe = regexp.MustCompile(`\d`)

	whitespaceRe = regexp.MustCompile(`\s+`)
)

// signatureMarkers start a trailing signature block that is stripped before
// the model sees the text.
var signatureMarkers = []string{"Best regards,", "Sincerely,", "Thanks,", "Cheers,"}

// Extractor resolves birth records from email bodies. The QA client is an
// explicit dependency, constructed once at startup.
type Extractor struct {
	qa QAClient
}

func New(qa QAClient) *Extractor {
	return &Extractor{qa: qa}
}

// Extract resolves a BirthRecord from body.
// First name, date of birth and place of birth are required; last name is
// not (the sign-off may simply omit it). A QA backend failure is not fatal:
// the structured line pass still runs before completeness is judged.
func (e *Extractor) Extract(ctx context.Context, body string) (domain.BirthRecord, error) {
	cleaned := Preprocess(body)

	fields := e.askModel(ctx, cleaned)
	structured := e.applyStructuredLines(body, fields)
	e.repairLastName(body, fields, structured)

	record := domain.BirthRecord{
		FirstName:  fields[fieldFirstName],
		LastName:   fields[fieldLastName],
		BirthDate:  fields[fieldBirthDate],
		BirthPlace: fields[fieldBirthPlace],
	}

	var missing []string
	if record.FirstName == "" {
		missing = append(missing, "First Name")
	}
	if record.BirthDate == "" {
		missing = append(missing, "Date of Birth")
	}
	if record.BirthPlace == "" {
		missing = append(missing, "Place of Birth")
	}
	if len(missing) > 0 {
		return domain.BirthRecord{}, fmt.Errorf("could not extract required fields: %s", strings.Join(missing, ", "))
	}

	return record, nil
}

// Preprocess strips the trailing signature block and collapses whitespace.
func Preprocess(body string) string {
	lines := strings.Split(body, "\n")
	cut := len(lines)
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "--" {
			cut = i
			break
		}
		if hasSignatureMarker(trimmed) {
			cut = i
			break
		}
	}
	text := strings.Join(lines[:cut], "\n")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
}

func hasSignatureMarker(line string) bool {
	for _, marker := range signatureMarkers {
		if strings.HasPrefix(line, marker) {
			return true
		}
	}
	return false
}

// askModel runs the five field queries. Failures are logged and leave the
// field empty; extraction continues with the structured pass.
func (e *Extractor) askModel(ctx context.Context, passage string) map[string]string {
	fields := make(map[string]string, len(questions))
	for key, question := range questions {
		answer, err := e.qa.Answer(ctx, question, passage)
		if err != nil {
			logger.Log.Warn("qa extraction failed", "field", key, "error", err)
			continue
		}
		fields[key] = strings.TrimSpace(answer)
	}

	// First-name answers occasionally come back as a whole phrase.
	if tokens := strings.Fields(fields[fieldFirstName]); len(tokens) > 1 {
		fields[fieldFirstName] = tokens[0]
	}

	// A date answer with no digits is model noise.
	if fields[fieldBirthDate] != "" && !digitRe.MatchString(fields[fieldBirthDate]) {
		delete(fields, fieldBirthDate)
	}

	if fields[fieldBirthDate] != "" && fields[fieldBirthTime] != "" {
		fields[fieldBirthDate] = fields[fieldBirthDate] + " " + fields[fieldBirthTime]
	}
	delete(fields, fieldBirthTime)

	return fields
}

// applyStructuredLines overwrites inferred fields with strict `Label: value`
// lines found in the original body. Returns the set of overwritten fields.
func (e *Extractor) applyStructuredLines(body string, fields map[string]string) map[string]bool {
	structured := make(map[string]bool)
	for _, match := range labelRe.FindAllStringSubmatch(body, -1) {
		value := strings.TrimSpace(match[2])
		if value == "" {
			continue
		}
		switch strings.ToLower(match[1]) {
		case "first name":
			fields[fieldFirstName] = value
			structured[fieldFirstName] = true
		case "last name":
			fields[fieldLastName] = value
			structured[fieldLastName] = true
		case "date of birth":
			fields[fieldBirthDate] = value
			structured[fieldBirthDate] = true
		case "place of birth":
			fields[fieldBirthPlace] = value
			structured[fieldBirthPlace] = true
		}
	}
	return structured
}

// repairLastName replaces a single-token inferred last name with the
// multi-token display name of a quoted "From: Name <addr>" line. Structured
// last names are never touched: explicit input beats any heuristic.
func (e *Extractor) repairLastName(body string, fields map[string]string, structured map[string]bool) {
	if structured[fieldLastName] {
		return
	}
	if len(strings.Fields(fields[fieldLastName])) != 1 {
		return
	}
	match := fromLineRe.FindStringSubmatch(body)
	if match == nil {
		return
	}
	display := strings.TrimSpace(match[1])
	if len(strings.Fields(display)) > 1 {
		fields[fieldLastName] = display
	}
}
