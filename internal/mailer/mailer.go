package mailer

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/profwarlock/warlock/internal/domain"
	"github.com/profwarlock/warlock/internal/logger"
)

const defaultBaseURL = "https://api.postmarkapp.com"

// Sender delivers outbound replies. Implementations must not retry;
// the pipeline reports failures instead of raising them.
type Sender interface {
	Send(ctx context.Context, msg domain.OutboundMessage) error
}

// PostmarkClient sends replies through the Postmark REST API.
type PostmarkClient struct {
	baseURL    string
	token      string
	fromEmail  string
	senderName string
	client     *http.Client
}

func NewPostmarkClient(token, fromEmail, senderName string) *PostmarkClient {
	return &PostmarkClient{
		baseURL:    defaultBaseURL,
		token:      token,
		fromEmail:  fromEmail,
		senderName: senderName,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// WithBaseURL points the client at a different API host. Used in tests.
func (c *PostmarkClient) WithBaseURL(url string) *PostmarkClient {
	c.baseURL = url
	return c
}

type postmarkAttachment struct {
	Name        string `json:"Name"`
	Content     string `json:"Content"`
	ContentType string `json:"ContentType"`
}

type postmarkPayload struct {
	From        string               `json:"From"`
	To          string               `json:"To"`
	Subject     string               `json:"Subject"`
	HTMLBody    string               `json:"HtmlBody"`
	TextBody    string               `json:"TextBody"`
	InReplyTo   string               `json:"InReplyTo,omitempty"`
	Attachments []postmarkAttachment `json:"Attachments,omitempty"`
}

func (c *PostmarkClient) buildPayload(msg domain.OutboundMessage) postmarkPayload {
	text := msg.TextBody
	if text == "" {
		text = htmlToText(msg.HTMLBody)
	}
	payload := postmarkPayload{
		From:      fmt.Sprintf("%s <%s>", c.senderName, c.fromEmail),
		To:        msg.ToEmail,
		Subject:   msg.Subject,
		HTMLBody:  msg.HTMLBody,
		TextBody:  text,
		InReplyTo: msg.InReplyTo,
	}
	for _, a := range msg.Attachments {
		payload.Attachments = append(payload.Attachments, postmarkAttachment{
			Name:        a.Name,
			Content:     base64.StdEncoding.EncodeToString(a.Content),
			ContentType: a.ContentType,
		})
	}
	return payload
}

// Send posts the message to the provider. A non-200 response is an error.
func (c *PostmarkClient) Send(ctx context.Context, msg domain.OutboundMessage) error {
	body, err := json.Marshal(c.buildPayload(msg))
	if err != nil {
		return fmt.Errorf("marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/email", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Postmark-Server-Token", c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("send email: provider returned %d: %s", resp.StatusCode, detail)
	}

	logger.Log.Info("email sent", "to", msg.ToEmail, "subject", msg.Subject)
	return nil
}
