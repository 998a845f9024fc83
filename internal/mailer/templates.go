package mailer

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/profwarlock/warlock/internal/domain"
	"github.com/profwarlock/warlock/internal/logger"
)

const signatureName = "Prof. Warlock"

var errorSubjects = map[string]string{
	domain.ErrMissingUserInfo:   "[Prof. Warlock] Missing Information",
	domain.ErrInvalidDateFormat: "[Prof. Warlock] Invalid Date Format",
	domain.ErrInvalidTimeFormat: "[Prof. Warlock] Invalid Time Format",
}

var errorBodies = map[string]string{
	domain.ErrMissingUserInfo: `<p>Dear %s,</p>

<p>Some information is missing. Please reply using the format:</p>
<p>
First Name: ...<br>
Last Name: ...<br>
Date of Birth: DD-MM-YYYY HH:MM<br>
Place of Birth: ...
</p>

<p>Best regards,<br>
Prof. Warlock</p>`,
	domain.ErrInvalidDateFormat: `<p>Dear %s,</p>

<p>The Date of Birth format is incorrect. Please use the format DD-MM-YYYY HH:MM (e.g., 01-01-1990 14:30).</p>

<p>Best regards,<br>
Prof. Warlock</p>`,
	domain.ErrInvalidTimeFormat: `<p>Dear %s,</p>

<p>The Time of Birth format is incorrect. Please use the format HH:MM in 24-hour format (e.g., 14:30 for 2:30 PM).</p>

<p>Best regards,<br>
Prof. Warlock</p>`,
}

// PongReply answers a health-check ping in the same thread.
func PongReply(in domain.InboundMessage) domain.OutboundMessage {
	subject := "PONG"
	if in.Subject != "" {
		subject = "Re: " + in.Subject
	}
	return domain.OutboundMessage{
		ToEmail:   in.FromEmail,
		Subject:   subject,
		HTMLBody:  "PONG",
		TextBody:  "PONG",
		InReplyTo: in.MessageID,
	}
}

// ErrorReply explains a validation failure, personalized where the
// sender's name allows it.
func ErrorReply(in domain.InboundMessage, verr *domain.ValidationError) domain.OutboundMessage {
	firstName := extractFirstName(in.FromName)

	subject, ok := errorSubjects[verr.Kind]
	if !ok {
		subject = "[Prof. Warlock] Submission Error"
	}
	body, ok := errorBodies[verr.Kind]
	if ok {
		body = fmt.Sprintf(body, firstName)
	} else {
		body = fmt.Sprintf(`<p>Dear %s,</p>

<p>Thank you for your submission. There was an issue processing your request: %s</p>

<p>Please check your submission and try again.</p>

<p>Best regards,<br>
Prof. Warlock</p>`, firstName, html.EscapeString(verr.Message))
	}

	return domain.OutboundMessage{
		ToEmail:   in.FromEmail,
		Subject:   subject,
		HTMLBody:  body,
		InReplyTo: in.MessageID,
	}
}

// ChartReply carries the finished poster back to the sender.
func ChartReply(in domain.InboundMessage, firstName string, poster []byte) domain.OutboundMessage {
	body := fmt.Sprintf("<p>Dear %s, your natal chart is ready! (Poster attached)</p>", html.EscapeString(firstName))
	return domain.OutboundMessage{
		ToEmail:   in.FromEmail,
		Subject:   "[Prof. Warlock] Your Natal Chart",
		HTMLBody:  body,
		InReplyTo: in.MessageID,
		Attachments: []domain.Attachment{
			domain.NewAttachment("natal_chart.png", "image/png", poster, ""),
		},
	}
}

// FallbackReply apologizes for a processing failure and includes the
// first hundred characters of the technical detail.
func FallbackReply(in domain.InboundMessage, detail string) domain.OutboundMessage {
	if len(detail) > 100 {
		detail = detail[:100]
	}
	markdown := fmt.Sprintf(`Dear %s,

Thank you for your submission. I've received your request but encountered a technical issue while processing it. Please try resubmitting, or contact me if the problem persists.

Best regards,
%s

(Technical details: %s...)`, extractFirstName(in.FromName), signatureName, detail)

	return domain.OutboundMessage{
		ToEmail:   in.FromEmail,
		Subject:   "[Prof. Warlock] Feedback for your submission",
		HTMLBody:  MarkdownToHTML(markdown),
		InReplyTo: in.MessageID,
	}
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// MarkdownToHTML renders markdown for email display, tables included.
// On conversion failure the raw text is emitted preformatted.
func MarkdownToHTML(src string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		logger.Log.Error("markdown conversion failed", "error", err)
		return "<pre>" + html.EscapeString(src) + "</pre>"
	}
	return buf.String()
}

var (
	stripTags    = bluemonday.StrictPolicy()
	manyNewlines = regexp.MustCompile(`\n{3,}`)
)

// htmlToText derives the plain-text alternative body.
func htmlToText(htmlBody string) string {
	text := strings.NewReplacer("<br>", "\n", "<br/>", "\n", "<br />", "\n", "</p>", "\n\n").Replace(htmlBody)
	text = stripTags.Sanitize(text)
	text = html.UnescapeString(text)
	text = manyNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

var nameSeparators = strings.NewReplacer(".", " ", "_", " ", "-", " ")

// extractFirstName pulls something greetable out of a display name or
// email address, falling back to a generic salutation.
func extractFirstName(fromName string) string {
	name := fromName
	if at := strings.IndexByte(name, '@'); at >= 0 {
		name = name[:at]
	}
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "Student"
	}
	cleaned := strings.Fields(nameSeparators.Replace(fields[0]))
	if len(cleaned) == 0 {
		return "Student"
	}
	return capitalize(cleaned[0])
}

func capitalize(s string) string {
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
