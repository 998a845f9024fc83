package domain

// BirthRecord is the structured birth data extracted from an email body.
// BirthDate is normalized to "DD-MM-YYYY HH:MM".
type BirthRecord struct {
	FirstName  string
	LastName   string
	BirthDate  string
	BirthPlace string
}

func (r *BirthRecord) FullName() string {
	if r.LastName == "" {
		return r.FirstName
	}
	return r.FirstName + " " + r.LastName
}

// GeoCoordinate is a resolved birth place in floating point degrees.
// Produced once per BirthRecord, never mutated.
type GeoCoordinate struct {
	Lat float64
	Lon float64
}
