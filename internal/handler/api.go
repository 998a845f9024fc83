package handler

import (
	"crypto/subtle"
	"net/http"

	"github.com/profwarlock/warlock/internal/astro"
	"github.com/profwarlock/warlock/internal/domain"
	"github.com/profwarlock/warlock/internal/errors"
	"github.com/profwarlock/warlock/internal/objstore"
	"github.com/profwarlock/warlock/internal/utils"
)

// chartRequest is the direct API equivalent of an email submission.
type chartRequest struct {
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name"`
	BirthDate  string `json:"birth_date" validate:"required"`
	BirthPlace string `json:"birth_place" validate:"required"`
}

func (h *Handler) authorized(r *http.Request) bool {
	key := r.Header.Get("X-Api-Key")
	return key != "" && subtle.ConstantTimeCompare([]byte(key), []byte(h.cfg.Private.APIKey)) == 1
}

func (h *Handler) resolveChart(r *http.Request) (domain.BirthRecord, domain.GeoCoordinate, *astro.Chart, error) {
	var req chartRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		return domain.BirthRecord{}, domain.GeoCoordinate{}, nil, err
	}

	record := domain.BirthRecord{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		BirthDate:  req.BirthDate,
		BirthPlace: req.BirthPlace,
	}

	coord, err := h.geocoder.Resolve(r.Context(), record.BirthPlace)
	if err != nil {
		return record, coord, nil, errors.New(http.StatusUnprocessableEntity, err.Error())
	}

	chart, err := h.charts.Compute(record, coord)
	if err != nil {
		return record, coord, nil, errors.New(http.StatusUnprocessableEntity, err.Error())
	}
	return record, coord, chart, nil
}

// NatalChart renders a poster for the given birth data, uploads it to
// object storage and returns the stored object metadata. When storage is
// disabled the raw PNG is returned instead.
func (h *Handler) NatalChart(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"status": "error", "message": "Unauthorized"})
		return
	}

	record, coord, chart, err := h.resolveChart(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	poster, err := h.composer.Compose(record, coord, chart)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if h.store == nil {
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Disposition", `attachment; filename="natal_chart.png"`)
		w.WriteHeader(http.StatusOK)
		w.Write(poster)
		return
	}

	stored, err := h.store.Upload(r.Context(), "natal_chart.png", "image/png", poster)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	writeJSON(w, http.StatusOK, []objstore.Stored{stored})
}

type positionResponse struct {
	Body string  `json:"body"`
	Lon  float64 `json:"longitude"`
	Sign string  `json:"sign"`
}

type distributionResponse struct {
	Category string   `json:"category"`
	Bodies   []string `json:"bodies"`
}

// NatalStats returns the computed chart as JSON, without rendering.
func (h *Handler) NatalStats(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"status": "error", "message": "Unauthorized"})
		return
	}

	record, _, chart, err := h.resolveChart(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	positions := make([]positionResponse, 0, len(chart.Positions))
	for _, p := range chart.Positions {
		positions = append(positions, positionResponse{Body: string(p.Body), Lon: p.Lon, Sign: string(p.Sign)})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"data": map[string]any{
			"name":        record.FullName(),
			"sun_sign":    string(chart.SunSign),
			"moon_sign":   string(chart.MoonSign),
			"rising_sign": string(chart.AscendantSign),
			"positions":   positions,
			"elements":    toDistributions(chart.Elements),
			"modalities":  toDistributions(chart.Modalities),
			"polarities":  toDistributions(chart.Polarities),
			"hemispheres": toDistributions(chart.Hemispheres),
			"full_report": chart.FullReport(record),
		},
	})
}

func toDistributions(in []astro.Distribution) []distributionResponse {
	out := make([]distributionResponse, 0, len(in))
	for _, d := range in {
		out = append(out, distributionResponse{Category: d.Category, Bodies: d.Bodies})
	}
	return out
}
