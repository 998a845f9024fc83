package inbound

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"

	"github.com/profwarlock/warlock/internal/domain"
	"github.com/profwarlock/warlock/internal/logger"
)

// ParseRaw handles a full RFC 5322 message, the path used when email
// arrives by means other than the provider webhook.
func ParseRaw(r io.Reader) (domain.InboundMessage, error) {
	parsed, err := mail.ReadMessage(r)
	if err != nil {
		return domain.InboundMessage{}, fmt.Errorf("parse raw email: %w", err)
	}

	msg := domain.InboundMessage{
		Subject:   parsed.Header.Get("Subject"),
		MessageID: strings.Trim(parsed.Header.Get("Message-ID"), "<>"),
	}
	if addr, err := mail.ParseAddress(parsed.Header.Get("From")); err == nil {
		msg.FromEmail = addr.Address
		msg.FromName = addr.Name
	} else {
		msg.FromEmail = parsed.Header.Get("From")
	}
	if msg.FromName == "" {
		msg.FromName = localPart(msg.FromEmail)
	}

	mediaType, params, err := mime.ParseMediaType(parsed.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		body, err := decodeBody(parsed.Body, parsed.Header.Get("Content-Transfer-Encoding"))
		if err != nil {
			return domain.InboundMessage{}, err
		}
		if strings.HasPrefix(mediaType, "text/html") {
			body = StripHTML(body)
		}
		msg.Body = strings.TrimSpace(body)
		return msg, nil
	}

	var textBody, htmlBody string
	mr := multipart.NewReader(parsed.Body, params["boundary"])
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return domain.InboundMessage{}, fmt.Errorf("parse email part: %w", err)
		}

		partType, _, _ := mime.ParseMediaType(part.Header.Get("Content-Type"))
		disposition, _, _ := mime.ParseMediaType(part.Header.Get("Content-Disposition"))

		switch {
		case disposition == "attachment":
			content, err := io.ReadAll(part)
			if err != nil {
				logger.Log.Warn("skipping unreadable attachment", "name", part.FileName(), "error", err)
				continue
			}
			contentID := strings.Trim(part.Header.Get("Content-ID"), "<>")
			msg.Attachments = append(msg.Attachments, domain.NewAttachment(part.FileName(), partType, content, contentID))
		case partType == "text/plain" && textBody == "":
			if body, err := decodeBody(part, part.Header.Get("Content-Transfer-Encoding")); err == nil {
				textBody = body
			}
		case partType == "text/html" && htmlBody == "":
			if body, err := decodeBody(part, part.Header.Get("Content-Transfer-Encoding")); err == nil {
				htmlBody = body
			}
		}
	}
	msg.Body = cleanBody(textBody, htmlBody)
	return msg, nil
}

func decodeBody(r io.Reader, encoding string) (string, error) {
	if strings.EqualFold(encoding, "quoted-printable") {
		r = quotedprintable.NewReader(r)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read email body: %w", err)
	}
	return string(raw), nil
}
