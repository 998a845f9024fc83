package inbound

import (
	"encoding/base64"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/profwarlock/warlock/internal/domain"
	"github.com/profwarlock/warlock/internal/logger"
)

// WebhookPayload mirrors the Postmark inbound webhook JSON.
type WebhookPayload struct {
	From        string              `json:"From"`
	FromName    string              `json:"FromName"`
	Subject     string              `json:"Subject"`
	TextBody    string              `json:"TextBody"`
	HTMLBody    string              `json:"HtmlBody"`
	MessageID   string              `json:"MessageID"`
	Attachments []WebhookAttachment `json:"Attachments"`
}

type WebhookAttachment struct {
	Name        string `json:"Name"`
	Content     string `json:"Content"` // base64
	ContentType string `json:"ContentType"`
	ContentID   string `json:"ContentID"`
}

// FromWebhook converts a provider payload into the domain message.
// Attachments that fail to decode are logged and skipped.
func FromWebhook(p WebhookPayload) domain.InboundMessage {
	fromName := p.FromName
	if fromName == "" {
		fromName = localPart(p.From)
	}

	msg := domain.InboundMessage{
		FromEmail: p.From,
		FromName:  fromName,
		Subject:   p.Subject,
		Body:      cleanBody(p.TextBody, p.HTMLBody),
		MessageID: p.MessageID,
	}

	for _, a := range p.Attachments {
		content, err := base64.StdEncoding.DecodeString(a.Content)
		if err != nil {
			logger.Log.Warn("skipping undecodable attachment", "name", a.Name, "error", err)
			continue
		}
		contentType := a.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		name := a.Name
		if name == "" {
			name = "unknown"
		}
		msg.Attachments = append(msg.Attachments, domain.NewAttachment(name, contentType, content, a.ContentID))
	}
	return msg
}

func localPart(email string) string {
	if at := strings.IndexByte(email, '@'); at >= 0 {
		return email[:at]
	}
	return email
}

// cleanBody prefers the plain-text body and falls back to stripped HTML.
func cleanBody(textBody, htmlBody string) string {
	if t := strings.TrimSpace(textBody); t != "" {
		return t
	}
	if htmlBody != "" {
		return StripHTML(htmlBody)
	}
	return ""
}

var htmlStripper = bluemonday.StrictPolicy()

// StripHTML reduces markup to readable text, preserving line structure
// so the label extractor still sees one field per line.
func StripHTML(src string) string {
	// block-level closers become line breaks before tags are dropped
	breaker := strings.NewReplacer(
		"<br>", "\n", "<br/>", "\n", "<br />", "\n",
		"</p>", "\n", "</div>", "\n", "</tr>", "\n",
		"</li>", "\n", "</h1>", "\n", "</h2>", "\n", "</h3>", "\n",
	)
	text := html.UnescapeString(htmlStripper.Sanitize(breaker.Replace(src)))

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if clean := strings.Join(strings.Fields(line), " "); clean != "" {
			lines = append(lines, clean)
		}
	}
	return strings.Join(lines, "\n")
}

// Validate rejects payloads that cannot be replied to.
func Validate(p WebhookPayload) error {
	if strings.TrimSpace(p.From) == "" {
		return fmt.Errorf("webhook payload has no sender address")
	}
	return nil
}
