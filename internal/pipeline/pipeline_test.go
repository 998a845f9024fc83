package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/profwarlock/warlock/internal/astro"
	"github.com/profwarlock/warlock/internal/domain"
	"github.com/profwarlock/warlock/internal/objstore"
)

type mockSender struct {
	SendFunc func(ctx context.Context, msg domain.OutboundMessage) error
	sent     []domain.OutboundMessage
}

func (m *mockSender) Send(ctx context.Context, msg domain.OutboundMessage) error {
	m.sent = append(m.sent, msg)
	if m.SendFunc != nil {
		return m.SendFunc(ctx, msg)
	}
	return nil
}

type mockExtractor struct {
	ExtractFunc func(ctx context.Context, body string) (domain.BirthRecord, error)
	calls       int
}

func (m *mockExtractor) Extract(ctx context.Context, body string) (domain.BirthRecord, error) {
	m.calls++
	if m.ExtractFunc != nil {
		return m.ExtractFunc(ctx, body)
	}
	return domain.BirthRecord{
		FirstName: "Jane", LastName: "Doe",
		BirthDate: "15-06-1990 14:30", BirthPlace: "Istanbul",
	}, nil
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

type mockCharts struct {
	ComputeFunc func(record domain.BirthRecord, coord domain.GeoCoordinate) (*astro.Chart, error)
}

func (m *mockCharts) Compute(record domain.BirthRecord, coord domain.GeoCoordinate) (*astro.Chart, error) {
	if m.ComputeFunc != nil {
		return m.ComputeFunc(record, coord)
	}
	return &astro.Chart{}, nil
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

type mockDedup struct {
	IsNewFunc func(ctx context.Context, messageID string) (bool, error)
}

func (m *mockDedup) IsNew(ctx context.Context, messageID string) (bool, error) {
	if m.IsNewFunc != nil {
		return m.IsNewFunc(ctx, messageID)
	}
	return true, nil
}

type mockStore struct {
	UploadFunc func(ctx context.Context, name, mimeType string, content []byte) (objstore.Stored, error)
	calls      int
}

func (m *mockStore) Upload(ctx context.Context, name, mimeType string, content []byte) (objstore.Stored, error) {
	m.calls++
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, name, mimeType, content)
	}
	return objstore.Stored{Name: name, MimeType: mimeType, DownloadLink: "https://cdn.example.com/x"}, nil
}

func validBody() string {
	return "First Name: Jane\nLast Name: Doe\nDate of Birth: 15-06-1990 14:30\nPlace of Birth: Istanbul"
}

func validMessage() domain.InboundMessage {
	return domain.InboundMessage{
		FromEmail: "jane@example.com",
		FromName:  "Jane Doe",
		Subject:   "Natal chart please",
		Body:      validBody(),
		MessageID: "msg-123",
	}
}

func newTestPipeline(deps Deps) *Pipeline {
	if deps.Extractor == nil {
		deps.Extractor = &mockExtractor{}
	}
	if deps.Geocoder == nil {
		deps.Geocoder = &mockGeocoder{}
	}
	if deps.Charts == nil {
		deps.Charts = &mockCharts{}
	}
	if deps.Composer == nil {
		deps.Composer = &mockComposer{}
	}
	if deps.Sender == nil {
		deps.Sender = &mockSender{}
	}
	return New(deps)
}

func TestProcessPing(t *testing.T) {
	sender := &mockSender{}
	extractor := &mockExtractor{}
	p := newTestPipeline(Deps{Sender: sender, Extractor: extractor})

	msg := validMessage()
	msg.Subject = "PING"
	msg.Body = "ping"

	res := p.Process(context.Background(), msg)
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, "pong_sent", res.Action)
	assert.Zero(t, extractor.calls, "ping must not reach extraction")
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Re: PING", sender.sent[0].Subject)
}

func TestProcessDuplicate(t *testing.T) {
	sender := &mockSender{}
	p := newTestPipeline(Deps{
		Sender: sender,
		Dedup:  &mockDedup{IsNewFunc: func(context.Context, string) (bool, error) { return false, nil }},
	})

	res := p.Process(context.Background(), validMessage())
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, "duplicate_ignored", res.Action)
	assert.Empty(t, sender.sent)
}

func TestProcessDedupErrorIsAdvisory(t *testing.T) {
	sender := &mockSender{}
	p := newTestPipeline(Deps{
		Sender: sender,
		Dedup:  &mockDedup{IsNewFunc: func(context.Context, string) (bool, error) { return false, errors.New("redis down") }},
	})

	res := p.Process(context.Background(), validMessage())
	assert.Equal(t, "natal_chart_sent", res.Action)
}

func TestProcessValidationError(t *testing.T) {
	sender := &mockSender{}
	p := newTestPipeline(Deps{Sender: sender})

	msg := validMessage()
	msg.Body = "hello, I would like a chart"

	res := p.Process(context.Background(), msg)
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, "missing_user_info_response_sent", res.Action)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "[Prof. Warlock] Missing Information", sender.sent[0].Subject)
}

func TestProcessHappyPath(t *testing.T) {
	sender := &mockSender{}
	store := &mockStore{}
	p := newTestPipeline(Deps{Sender: sender, Store: store})

	res := p.Process(context.Background(), validMessage())
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, "natal_chart_sent", res.Action)
	assert.Equal(t, 1, store.calls)

	require.Len(t, sender.sent, 1)
	reply := sender.sent[0]
	assert.Equal(t, "[Prof. Warlock] Your Natal Chart", reply.Subject)
	assert.Equal(t, "msg-123", reply.InReplyTo)
	require.Len(t, reply.Attachments, 1)
	assert.Equal(t, "natal_chart.png", reply.Attachments[0].Name)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, reply.Attachments[0].Content)
}

func TestProcessStoreFailureIsBestEffort(t *testing.T) {
	sender := &mockSender{}
	store := &mockStore{UploadFunc: func(context.Context, string, string, []byte) (objstore.Stored, error) {
		return objstore.Stored{}, errors.New("bucket gone")
	}}
	p := newTestPipeline(Deps{Sender: sender, Store: store})

	res := p.Process(context.Background(), validMessage())
	assert.Equal(t, "natal_chart_sent", res.Action)
}

func TestProcessFallback(t *testing.T) {
	t.Run("extraction failure", func(t *testing.T) {
		sender := &mockSender{}
		p := newTestPipeline(Deps{
			Sender: sender,
			Extractor: &mockExtractor{ExtractFunc: func(context.Context, string) (domain.BirthRecord, error) {
				return domain.BirthRecord{}, errors.New("model unavailable")
			}},
		})

		res := p.Process(context.Background(), validMessage())
		assert.Equal(t, StatusPartial, res.Status)
		assert.Equal(t, "fallback_sent", res.Action)
		assert.Contains(t, res.Message, "model unavailable")
		require.Len(t, sender.sent, 1)
		assert.Equal(t, "[Prof. Warlock] Feedback for your submission", sender.sent[0].Subject)
	})

	t.Run("geocode failure", func(t *testing.T) {
		p := newTestPipeline(Deps{
			Geocoder: &mockGeocoder{ResolveFunc: func(context.Context, string) (domain.GeoCoordinate, error) {
				return domain.GeoCoordinate{}, errors.New("could not geocode location: Atlantis")
			}},
		})
		res := p.Process(context.Background(), validMessage())
		assert.Equal(t, "fallback_sent", res.Action)
	})

	t.Run("compose failure", func(t *testing.T) {
		p := newTestPipeline(Deps{
			Composer: &mockComposer{ComposeFunc: func(domain.BirthRecord, domain.GeoCoordinate, *astro.Chart) ([]byte, error) {
				return nil, errors.New("template broken")
			}},
		})
		res := p.Process(context.Background(), validMessage())
		assert.Equal(t, StatusPartial, res.Status)
	})

	t.Run("fallback send also fails", func(t *testing.T) {
		p := newTestPipeline(Deps{
			Sender: &mockSender{SendFunc: func(context.Context, domain.OutboundMessage) error {
				return errors.New("smtp down")
			}},
			Extractor: &mockExtractor{ExtractFunc: func(context.Context, string) (domain.BirthRecord, error) {
				return domain.BirthRecord{}, errors.New("boom")
			}},
		})
		res := p.Process(context.Background(), validMessage())
		assert.Equal(t, StatusError, res.Status)
		assert.Equal(t, "processing_failed", res.Action)
		assert.Contains(t, res.Message, "Complete failure")
	})
}

func TestProcessChartSendFailure(t *testing.T) {
	p := newTestPipeline(Deps{
		Sender: &mockSender{SendFunc: func(context.Context, domain.OutboundMessage) error {
			return errors.New("smtp down")
		}},
	})
	res := p.Process(context.Background(), validMessage())
	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, "Failed to send natal chart email", res.Message)
}
