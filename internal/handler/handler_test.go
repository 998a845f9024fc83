package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/uuid"

	"github.com/profwarlock/warlock/internal/astro"
	"github.com/profwarlock/warlock/internal/config"
	"github.com/profwarlock/warlock/internal/domain"
	"github.com/profwarlock/warlock/internal/objstore"
	"github.com/profwarlock/warlock/internal/pipeline"
)

type mockProcessor struct {
	ProcessFunc func(ctx context.Context, msg domain.InboundMessage) pipeline.Result
	received    []domain.InboundMessage
}

func (m *mockProcessor) Process(ctx context.Context, msg domain.InboundMessage) pipeline.Result {
	m.received = append(m.received, msg)
	if m.ProcessFunc != nil {
		return m.ProcessFunc(ctx, msg)
	}
	return pipeline.Result{Status: pipeline.StatusSuccess, Action: "natal_chart_sent"}
}

type mockGeocoder struct {
	ResolveFunc func(ctx context.Context, place string) (domain.GeoCoordinate, error)
}

func (m *mockGeocoder) Resolve(ctx context.Context, place string) (domain.GeoCoordinate, error) {
	if m.ResolveFunc != nil {
		return m.ResolveFunc(ctx, place)
	}
	return domain.GeoCoordinate{Lat: 41.0082, Lon: 28.9784}, nil
}

type mockCharts struct{}

func (m *mockCharts) Compute(record domain.BirthRecord, coord domain.GeoCoordinate) (*astro.Chart, error) {
	return astro.NewService(3).Compute(record, coord)
}

type mockComposer struct {
	ComposeFunc func(record domain.BirthRecord, coord domain.GeoCoordinate, chart *astro.Chart) ([]byte, error)
}

func (m *mockComposer) Compose(record domain.BirthRecord, coord domain.GeoCoordinate, chart *astro.Chart) ([]byte, error) {
	if m.ComposeFunc != nil {
		return m.ComposeFunc(record, coord, chart)
	}
	return []byte{0x89, 'P', 'N', 'G'}, nil
}

type mockStore struct {
	UploadFunc func(ctx context.Context, name, mimeType string, content []byte) (objstore.Stored, error)
	uploaded   [][]byte
}

func (m *mockStore) Upload(ctx context.Context, name, mimeType string, content []byte) (objstore.Stored, error) {
	m.uploaded = append(m.uploaded, content)
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, name, mimeType, content)
	}
	return objstore.Stored{
		Name:         name,
		ID:           uuid.New(),
		MimeType:     mimeType,
		DownloadLink: "https://cdn.warlock.dev/" + name,
	}, nil
}

func newTestHandler(processor Processor) *Handler {
	return newTestHandlerWithStore(processor, nil)
}

func newTestHandlerWithStore(processor Processor, store objstore.Store) *Handler {
	cfg := &config.Config{}
	cfg.Private.WebhookSecret = "hook-secret"
	cfg.Private.APIKey = "api-secret"
	if processor == nil {
		processor = &mockProcessor{}
	}
	return New(cfg, processor, &mockGeocoder{}, &mockCharts{}, &mockComposer{}, store)
}

func TestRoot(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestHandler(nil).Root(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "Prof. Warlock is running!", body["message"])
	assert.Equal(t, Version, body["version"])
}

func TestHealth(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestHandler(nil).Health(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "Prof. Warlock", body["service"])
	assert.Contains(t, body["features"], "email_parsing")
}

func TestPrivacy(t *testing.T) {
	rr := httptest.NewRecorder()
	newTestHandler(nil).Privacy(rr, httptest.NewRequest(http.MethodGet, "/privacy", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "natal chart")
}

func webhookBody(t *testing.T) []byte {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"From":      "jane@example.com",
		"FromName":  "Jane Doe",
		"Subject":   "chart please",
		"TextBody":  "First Name: Jane\nLast Name: Doe\nDate of Birth: 15-06-1990 14:30\nPlace of Birth: Istanbul",
		"MessageID": "msg-123",
	})
	require.NoError(t, err)
	return raw
}

func TestWebhookAuth(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"missing token", "/webhook"},
		{"wrong token", "/webhook?token=wrong"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			processor := &mockProcessor{}
			h := newTestHandler(processor)

			rr := httptest.NewRecorder()
			h.Webhook(rr, httptest.NewRequest(http.MethodPost, tt.url, bytes.NewReader(webhookBody(t))))

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Empty(t, processor.received)
		})
	}
}

func TestWebhookStatusMapping(t *testing.T) {
	tests := []struct {
		status string
		code   int
	}{
		{pipeline.StatusSuccess, http.StatusOK},
		{pipeline.StatusPartial, http.StatusAccepted},
		{pipeline.StatusError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			h := newTestHandler(&mockProcessor{
				ProcessFunc: func(context.Context, domain.InboundMessage) pipeline.Result {
					return pipeline.Result{Status: tt.status}
				},
			})

			rr := httptest.NewRecorder()
			h.Webhook(rr, httptest.NewRequest(http.MethodPost, "/webhook?token=hook-secret", bytes.NewReader(webhookBody(t))))
			assert.Equal(t, tt.code, rr.Code)
		})
	}
}

func TestWebhookPassesParsedMessage(t *testing.T) {
	processor := &mockProcessor{}
	h := newTestHandler(processor)

	rr := httptest.NewRecorder()
	h.Webhook(rr, httptest.NewRequest(http.MethodPost, "/webhook?token=hook-secret", bytes.NewReader(webhookBody(t))))

	assert.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, processor.received, 1)
	msg := processor.received[0]
	assert.Equal(t, "jane@example.com", msg.FromEmail)
	assert.Equal(t, "msg-123", msg.MessageID)
	assert.Contains(t, msg.Body, "Place of Birth: Istanbul")
}

func TestWebhookRejectsBadPayload(t *testing.T) {
	h := newTestHandler(nil)

	t.Run("invalid json", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.Webhook(rr, httptest.NewRequest(http.MethodPost, "/webhook?token=hook-secret", bytes.NewReader([]byte("{not json"))))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing sender", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.Webhook(rr, httptest.NewRequest(http.MethodPost, "/webhook?token=hook-secret", bytes.NewReader([]byte(`{"Subject":"hi"}`))))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func apiBody(t *testing.T) []byte {
	t.Helper()
	raw, err := json.Marshal(map[string]string{
		"first_name":  "Jane",
		"last_name":   "Doe",
		"birth_date":  "15-06-1990 14:30",
		"birth_place": "Istanbul",
	})
	require.NoError(t, err)
	return raw
}

func TestNatalChart(t *testing.T) {
	h := newTestHandler(nil)

	t.Run("requires api key", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.NatalChart(rr, httptest.NewRequest(http.MethodPost, "/natal-chart", bytes.NewReader(apiBody(t))))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("returns png when storage disabled", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/natal-chart", bytes.NewReader(apiBody(t)))
		req.Header.Set("X-Api-Key", "api-secret")

		rr := httptest.NewRecorder()
		h.NatalChart(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
		assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, rr.Body.Bytes())
	})

	t.Run("uploads to storage when configured", func(t *testing.T) {
		store := &mockStore{}
		sh := newTestHandlerWithStore(nil, store)

		req := httptest.NewRequest(http.MethodPost, "/natal-chart", bytes.NewReader(apiBody(t)))
		req.Header.Set("X-Api-Key", "api-secret")

		rr := httptest.NewRecorder()
		sh.NatalChart(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

		require.Len(t, store.uploaded, 1)
		assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, store.uploaded[0])

		var body []map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		require.Len(t, body, 1)
		assert.Equal(t, "natal_chart.png", body[0]["name"])
		assert.Equal(t, "image/png", body[0]["mime_type"])
		assert.NotEmpty(t, body[0]["id"])
		assert.Equal(t, "https://cdn.warlock.dev/natal_chart.png", body[0]["download_link"])
	})

	t.Run("upload failure surfaces as 500", func(t *testing.T) {
		store := &mockStore{
			UploadFunc: func(context.Context, string, string, []byte) (objstore.Stored, error) {
				return objstore.Stored{}, assert.AnError
			},
		}
		sh := newTestHandlerWithStore(nil, store)

		req := httptest.NewRequest(http.MethodPost, "/natal-chart", bytes.NewReader(apiBody(t)))
		req.Header.Set("X-Api-Key", "api-secret")

		rr := httptest.NewRecorder()
		sh.NatalChart(rr, req)
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/natal-chart", bytes.NewReader([]byte(`{"first_name":"Jane"}`)))
		req.Header.Set("X-Api-Key", "api-secret")

		rr := httptest.NewRecorder()
		h.NatalChart(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("bad birth date", func(t *testing.T) {
		body, err := json.Marshal(map[string]string{
			"first_name":  "Jane",
			"birth_date":  "1990/06/15",
			"birth_place": "Istanbul",
		})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/natal-chart", bytes.NewReader(body))
		req.Header.Set("X-Api-Key", "api-secret")

		rr := httptest.NewRecorder()
		h.NatalChart(rr, req)
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		assert.Contains(t, rr.Body.String(), "DD-MM-YYYY HH:MM")
	})
}

func TestNatalStats(t *testing.T) {
	h := newTestHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/natal-stats", bytes.NewReader(apiBody(t)))
	req.Header.Set("X-Api-Key", "api-secret")

	rr := httptest.NewRecorder()
	h.NatalStats(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "success", body["status"])

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Jane Doe", data["name"])
	assert.Equal(t, "gemini", data["sun_sign"])
	assert.NotEmpty(t, data["rising_sign"])
	assert.NotEmpty(t, data["positions"])
	assert.NotEmpty(t, data["elements"])
	assert.Contains(t, data["full_report"], "Jane Doe")
}
