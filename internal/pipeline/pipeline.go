// Package pipeline drives an inbound email from webhook receipt to the
// outbound reply. Every path ends in exactly one reply attempt; send
// failures are reported in the Result, never raised.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/profwarlock/warlock/internal/astro"
	"github.com/profwarlock/warlock/internal/domain"
	"github.com/profwarlock/warlock/internal/geocode"
	"github.com/profwarlock/warlock/internal/logger"
	"github.com/profwarlock/warlock/internal/mailer"
	"github.com/profwarlock/warlock/internal/middleware/metrics"
	"github.com/profwarlock/warlock/internal/objstore"
	"github.com/profwarlock/warlock/internal/validate"
)

const (
	StatusSuccess = "success"
	StatusPartial = "partial_success"
	StatusError   = "error"
)

// Result is what the webhook handler reports back to the provider.
type Result struct {
	Status  string `json:"status"`
	Action  string `json:"action,omitempty"`
	Message string `json:"message,omitempty"`
}

// processing states, logged as the submission advances
const (
	stateReceived       = "received"
	statePing           = "ping"
	stateInvalid        = "invalid"
	stateValid          = "valid"
	stateChartComputing = "chart_computing"
	stateChartComposed  = "chart_composed"
	stateReplied        = "replied"
	stateFallback       = "fallback"
)

type Extractor interface {
	Extract(ctx context.Context, body string) (domain.BirthRecord, error)
}

type ChartService interface {
	Compute(record domain.BirthRecord, coord domain.GeoCoordinate) (*astro.Chart, error)
}

type Composer interface {
	Compose(record domain.BirthRecord, coord domain.GeoCoordinate, chart *astro.Chart) ([]byte, error)
}

type Deduper interface {
	IsNew(ctx context.Context, messageID string) (bool, error)
}

// Deps wires the pipeline. Store and Dedup are optional.
type Deps struct {
	Extractor Extractor
	Geocoder  geocode.Geocoder
	Charts    ChartService
	Composer  Composer
	Sender    mailer.Sender
	Store     objstore.Store
	Dedup     Deduper

	DumpInbound bool
	DumpDir     string
}

type Pipeline struct {
	deps Deps
}

func New(deps Deps) *Pipeline {
	return &Pipeline{deps: deps}
}

// Process runs one inbound message through to its reply. There are no
// retries anywhere on this path.
func (p *Pipeline) Process(ctx context.Context, msg domain.InboundMessage) Result {
	p.logState(stateReceived, msg)
	if p.deps.DumpInbound {
		p.dump(msg)
	}

	if p.deps.Dedup != nil {
		fresh, err := p.deps.Dedup.IsNew(ctx, msg.MessageID)
		if err != nil {
			// dedup is advisory only
			logger.Log.Warn("dedup check failed, processing anyway", "error", err)
		} else if !fresh {
			logger.Log.Info("duplicate delivery ignored", "message_id", msg.MessageID)
			return Result{Status: StatusSuccess, Action: "duplicate_ignored", Message: "Duplicate delivery ignored"}
		}
	}

	if msg.IsPing() {
		p.logState(statePing, msg)
		if err := p.deps.Sender.Send(ctx, mailer.PongReply(msg)); err != nil {
			metrics.ReplySent(false)
			return Result{Status: StatusError, Action: "pong_failed", Message: err.Error()}
		}
		metrics.ReplySent(true)
		return Result{Status: StatusSuccess, Action: "pong_sent", Message: "PONG response sent"}
	}

	if verr := validate.Validate(&msg); verr != nil {
		p.logState(stateInvalid, msg)
		logger.Log.Info("validation failed", "from", msg.FromEmail, "kind", verr.Kind)
		if err := p.deps.Sender.Send(ctx, mailer.ErrorReply(msg, verr)); err != nil {
			metrics.ReplySent(false)
			return Result{Status: StatusError, Message: "Failed to send error response"}
		}
		metrics.ReplySent(true)
		return Result{
			Status:  StatusSuccess,
			Action:  fmt.Sprintf("%s_response_sent", verr.Kind),
			Message: fmt.Sprintf("Error response sent: %s", verr.Kind),
		}
	}

	p.logState(stateValid, msg)
	return p.processSubmission(ctx, msg)
}

func (p *Pipeline) processSubmission(ctx context.Context, msg domain.InboundMessage) Result {
	record, err := p.deps.Extractor.Extract(ctx, msg.Body)
	if err != nil {
		return p.fallback(ctx, msg, err)
	}

	coord, err := p.deps.Geocoder.Resolve(ctx, record.BirthPlace)
	if err != nil {
		return p.fallback(ctx, msg, err)
	}

	p.logState(stateChartComputing, msg)
	chart, err := p.deps.Charts.Compute(record, coord)
	if err != nil {
		return p.fallback(ctx, msg, err)
	}

	poster, err := p.deps.Composer.Compose(record, coord, chart)
	if err != nil {
		return p.fallback(ctx, msg, err)
	}
	p.logState(stateChartComposed, msg)
	metrics.PosterComposed()

	if p.deps.Store != nil {
		// archival is best effort; the reply carries the poster anyway
		if stored, err := p.deps.Store.Upload(ctx, "natal_chart.png", "image/png", poster); err != nil {
			logger.Log.Warn("poster archive failed", "error", err)
		} else {
			logger.Log.Info("poster archived", "link", stored.DownloadLink)
		}
	}

	if err := p.deps.Sender.Send(ctx, mailer.ChartReply(msg, record.FirstName, poster)); err != nil {
		metrics.ReplySent(false)
		return Result{Status: StatusError, Message: "Failed to send natal chart email"}
	}
	metrics.ReplySent(true)
	p.logState(stateReplied, msg)
	return Result{Status: StatusSuccess, Action: "natal_chart_sent", Message: "natal_chart.png"}
}

// fallback apologizes instead of going silent when chart work fails.
func (p *Pipeline) fallback(ctx context.Context, msg domain.InboundMessage, cause error) Result {
	p.logState(stateFallback, msg)
	logger.Log.Error("submission processing failed", "from", msg.FromEmail, "error", cause)

	if err := p.deps.Sender.Send(ctx, mailer.FallbackReply(msg, cause.Error())); err != nil {
		metrics.ReplySent(false)
		return Result{
			Status:  StatusError,
			Action:  "processing_failed",
			Message: fmt.Sprintf("Complete failure: %s", cause),
		}
	}
	metrics.ReplySent(true)
	return Result{
		Status:  StatusPartial,
		Action:  "fallback_sent",
		Message: fmt.Sprintf("Sent fallback response due to: %s", cause),
	}
}

func (p *Pipeline) logState(state string, msg domain.InboundMessage) {
	logger.Log.Debug("pipeline state", "state", state, "from", msg.FromEmail,
		"message_id", msg.MessageID, "has_attachments", msg.HasAttachments())
}

// dump writes the raw inbound message to the debug directory. Failures
// never affect processing.
func (p *Pipeline) dump(msg domain.InboundMessage) {
	dir := p.deps.DumpDir
	if dir == "" {
		dir = "inbound_emails"
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		logger.Log.Warn("inbound dump dir", "error", err)
		return
	}

	id := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' {
			return r
		}
		return '_'
	}, msg.MessageID)
	name := fmt.Sprintf("%s_%s.json", time.Now().UTC().Format("20060102T150405"), id)

	raw, err := json.MarshalIndent(msg, "", "  ")
	if err != nil {
		logger.Log.Warn("inbound dump marshal", "error", err)
		return
	}
	if err := os.WriteFile(filepath.Join(dir, name), raw, 0o640); err != nil {
		logger.Log.Warn("inbound dump write", "error", err)
	}
}
