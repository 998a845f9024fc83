package astro

// Distribution groups chart bodies by a categorical attribute.
type Distribution struct {
	Category string
	Bodies   []string
}

var (
	elementOrder    = []string{"fire", "earth", "air", "water"}
	modalityOrder   = []string{"cardinal", "fixed", "mutable"}
	polarityOrder   = []string{"positive", "negative"}
	hemisphereOrder = []string{"←", "→", "↑", "↓"}
)

// distributionBodies excludes the chart angles: only actual bodies count
// toward element/modality/polarity tallies.
func distributionBodies(positions []Position) []Position {
	out := make([]Position, 0, len(positions))
	for _, p := range positions {
		if p.Body == Asc || p.Body == Midheaven {
			continue
		}
		out = append(out, p)
	}
	return out
}

func groupBy(positions []Position, order []string, key func(Position) string) []Distribution {
	groups := make(map[string][]string)
	for _, p := range positions {
		k := key(p)
		groups[k] = append(groups[k], string(p.Body))
	}
	out := make([]Distribution, 0, len(order))
	for _, category := range order {
		out = append(out, Distribution{Category: category, Bodies: groups[category]})
	}
	return out
}

// ElementDistribution groups bodies by fire/earth/air/water.
func ElementDistribution(positions []Position) []Distribution {
	return groupBy(distributionBodies(positions), elementOrder, func(p Position) string {
		return p.Sign.Element()
	})
}

// ModalityDistribution groups bodies by cardinal/fixed/mutable.
func ModalityDistribution(positions []Position) []Distribution {
	return groupBy(distributionBodies(positions), modalityOrder, func(p Position) string {
		return p.Sign.Modality()
	})
}

// PolarityDistribution groups bodies by positive/negative.
func PolarityDistribution(positions []Position) []Distribution {
	return groupBy(distributionBodies(positions), polarityOrder, func(p Position) string {
		return p.Sign.Polarity()
	})
}

// HemisphereDistribution groups bodies by chart hemisphere relative to the
// ascendant, using equal houses: ← east (houses 1-3, 10-12), → west
// (houses 4-9), ↑ above the horizon (houses 7-12), ↓ below (houses 1-6).
// Each body lands in exactly one left/right and one above/below bucket.
func HemisphereDistribution(positions []Position) []Distribution {
	var ascLon float64
	for _, p := range positions {
		if p.Body == Asc {
			ascLon = p.Lon
		}
	}

	groups := make(map[string][]string)
	for _, p := range distributionBodies(positions) {
		house := int(normalizeDeg(p.Lon-ascLon)/30) + 1 // 1..12
		if house <= 3 || house >= 10 {
			groups["←"] = append(groups["←"], string(p.Body))
		} else {
			groups["→"] = append(groups["→"], string(p.Body))
		}
		if house >= 7 {
			groups["↑"] = append(groups["↑"], string(p.Body))
		} else {
			groups["↓"] = append(groups["↓"], string(p.Body))
		}
	}

	out := make([]Distribution, 0, len(hemisphereOrder))
	for _, category := range hemisphereOrder {
		out = append(out, Distribution{Category: category, Bodies: groups[category]})
	}
	return out
}
