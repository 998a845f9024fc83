// Package astro computes natal chart data: body placements, aspect grids
// and categorical distributions for a birth date, time and place.
package astro

import (
	"fmt"
	"strings"
	"time"

	"github.com/profwarlock/warlock/internal/domain"
)

// Chart is the full computed result consumed by the poster composer.
type Chart struct {
	Positions []Position

	SunSign       Sign
	MoonSign      Sign
	AscendantSign Sign

	// AspectGrid carries a trailing "sum" column that renderers strip.
	AspectGrid [][]string

	Elements    []Distribution
	Modalities  []Distribution
	Polarities  []Distribution
	Hemispheres []Distribution

	Transits []Transit
}

// Service computes charts with a fixed local-to-UTC offset.
type Service struct {
	utcOffsetHours int
	now            func() time.Time
}

func NewService(utcOffsetHours int) *Service {
	return &Service{utcOffsetHours: utcOffsetHours, now: time.Now}
}

// Compute builds a Chart for a birth record and its resolved coordinate.
// The natal configuration is computed once; a second pass against the
// current moment yields transiting aspects.
func (s *Service) Compute(record domain.BirthRecord, coord domain.GeoCoordinate) (*Chart, error) {
	local, err := ParseBirthTime(record.BirthDate)
	if err != nil {
		return nil, err
	}
	utc := ToUTC(local, s.utcOffsetHours)

	natal := Positions(utc, coord.Lat, coord.Lon)
	current := Positions(s.now().UTC(), coord.Lat, coord.Lon)

	chart := &Chart{
		Positions:   natal,
		AspectGrid:  AspectGrid(natal),
		Elements:    ElementDistribution(natal),
		Modalities:  ModalityDistribution(natal),
		Polarities:  PolarityDistribution(natal),
		Hemispheres: HemisphereDistribution(natal),
		Transits:    TransitAspects(current, natal),
	}

	for _, p := range natal {
		switch p.Body {
		case Sun:
			chart.SunSign = p.Sign
		case Moon:
			chart.MoonSign = p.Sign
		case Asc:
			chart.AscendantSign = p.Sign
		}
	}

	return chart, nil
}

// FullReport renders a plain-text summary for the stats endpoint.
func (c *Chart) FullReport(record domain.BirthRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Natal chart for %s\n\n", record.FullName())
	fmt.Fprintf(&b, "Sun: %s\nMoon: %s\nAscendant: %s\n\n", c.SunSign.Title(), c.MoonSign.Title(), c.AscendantSign.Title())

	b.WriteString("Placements:\n")
	for _, p := range c.Positions {
		fmt.Fprintf(&b, "  %s: %s (%.1f°)\n", p.Body, p.Sign.Title(), p.Lon)
	}

	b.WriteString("\nCurrent transits:\n")
	if len(c.Transits) == 0 {
		b.WriteString("  none within orb\n")
	}
	for _, t := range c.Transits {
		fmt.Fprintf(&b, "  transiting %s %s natal %s\n", t.Moving, t.Aspect.Name, t.Natal)
	}

	return b.String()
}
