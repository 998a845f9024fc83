// Package geocode resolves place names to coordinates.
package geocode

import (
	"context"
	"fmt"

	"github.com/codingsince1985/geo-golang/openstreetmap"
	"github.com/profwarlock/warlock/internal/domain"
)

// Geocoder resolves a free-form place name to a coordinate.
type Geocoder interface {
	Resolve(ctx context.Context, place string) (domain.GeoCoordinate, error)
}

// Nominatim resolves places through the OpenStreetMap Nominatim service.
// One lookup per request, no retries.
type Nominatim struct{}

func NewNominatim() *Nominatim {
	return &Nominatim{}
}

func (n *Nominatim) Resolve(ctx context.Context, place string) (domain.GeoCoordinate, error) {
	geocoder := openstreetmap.Geocoder()
	location, err := geocoder.Geocode(place)
	if err != nil {
		return domain.GeoCoordinate{}, fmt.Errorf("geocode %q: %w", place, err)
	}
	if location == nil {
		return domain.GeoCoordinate{}, fmt.Errorf("could not geocode location: %s", place)
	}
	return domain.GeoCoordinate{Lat: location.Lat, Lon: location.Lng}, nil
}
