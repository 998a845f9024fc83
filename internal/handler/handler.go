package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/profwarlock/warlock/internal/astro"
	"github.com/profwarlock/warlock/internal/config"
	"github.com/profwarlock/warlock/internal/domain"
	"github.com/profwarlock/warlock/internal/geocode"
	"github.com/profwarlock/warlock/internal/logger"
	"github.com/profwarlock/warlock/internal/objstore"
	"github.com/profwarlock/warlock/internal/pipeline"
)

// Version reported by the health endpoints.
const Version = "1.0.0"

// Processor runs one inbound message through the submission pipeline.
type Processor interface {
	Process(ctx context.Context, msg domain.InboundMessage) pipeline.Result
}

// ChartService computes a chart for the direct API endpoints.
type ChartService interface {
	Compute(record domain.BirthRecord, coord domain.GeoCoordinate) (*astro.Chart, error)
}

// Composer renders the poster for the direct API endpoints.
type Composer interface {
	Compose(record domain.BirthRecord, coord domain.GeoCoordinate, chart *astro.Chart) ([]byte, error)
}

type Handler struct {
	cfg       *config.Config
	processor Processor
	geocoder  geocode.Geocoder
	charts    ChartService
	composer  Composer
	store     objstore.Store // nil when object storage is disabled
}

func New(cfg *config.Config, processor Processor, geocoder geocode.Geocoder, charts ChartService, composer Composer, store objstore.Store) *Handler {
	return &Handler{
		cfg:       cfg,
		processor: processor,
		geocoder:  geocoder,
		charts:    charts,
		composer:  composer,
		store:     store,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}
