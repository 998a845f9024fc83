package domain

import "strings"

// InboundMessage is a single email received through the provider webhook.
// Constructed once per webhook call, immutable afterwards.
type InboundMessage struct {
	FromEmail   string
	FromName    string
	Subject     string
	Body        string
	Attachments []Attachment
	MessageID   string
}

// IsPing reports whether the message is a PING health-check request.
func (m *InboundMessage) IsPing() bool {
	return strings.Contains(strings.ToLower(m.Subject), "ping") ||
		strings.Contains(strings.ToLower(m.Body), "ping")
}

func (m *InboundMessage) HasAttachments() bool {
	return len(m.Attachments) > 0
}

// Attachment holds opaque binary content of an email attachment.
type Attachment struct {
	Name          string
	ContentType   string
	ContentLength int
	Content       []byte
	ContentID     string
}

// NewAttachment builds an attachment with ContentLength derived from content.
func NewAttachment(name, contentType string, content []byte, contentID string) Attachment {
	return Attachment{
		Name:          name,
		ContentType:   contentType,
		ContentLength: len(content),
		Content:       content,
		ContentID:     contentID,
	}
}

// OutboundMessage is a reply to be delivered through the email provider.
type OutboundMessage struct {
	ToEmail     string
	Subject     string
	HTMLBody    string
	TextBody    string
	InReplyTo   string
	Attachments []Attachment
}
