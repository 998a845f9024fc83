package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// QAClient answers a free-form question against a text passage.
type QAClient interface {
	Answer(ctx context.Context, question, passage string) (string, error)
}

// HTTPQAClient calls a hosted question-answering inference endpoint
// (HuggingFace inference protocol: {"inputs": {"question", "context"}}).
type HTTPQAClient struct {
	endpoint string
	token    string
	client   *http.Client

	warmOnce sync.Once
}

func NewHTTPQAClient(endpoint, token string) *HTTPQAClient {
	return &HTTPQAClient{
		endpoint: endpoint,
		token:    token,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Warmup issues a throwaway query so the remote model is loaded before the
// first real request arrives. Guarded so concurrent cold starts trigger at
// most one warmup call.
func (c *HTTPQAClient) Warmup(ctx context.Context) {
	c.warmOnce.Do(func() {
		_, _ = c.Answer(ctx, "What is the first name?", "First Name: Warmup")
	})
}

type qaRequest struct {
	Inputs qaInputs `json:"inputs"`
}

type qaInputs struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

type qaResponse struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
}

func (c *HTTPQAClient) Answer(ctx context.Context, question, passage string) (string, error) {
	payload, err := json.Marshal(qaRequest{Inputs: qaInputs{Question: question, Context: passage}})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("qa endpoint returned status %d", resp.StatusCode)
	}

	var out qaResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode qa response: %w", err)
	}

	return strings.TrimSpace(out.Answer), nil
}
