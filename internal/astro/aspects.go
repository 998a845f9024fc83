package astro

import (
	"math"
	"strconv"
)

// Aspect is a defined angular relationship between two bodies.
type Aspect struct {
	Name   string
	Symbol string
	Angle  float64
	Orb    float64
}

// Aspects checked in order; the first within orb wins.
var Aspects = []Aspect{
	{"conjunction", "☌", 0, 8},
	{"opposition", "☍", 180, 8},
	{"trine", "△", 120, 8},
	{"square", "□", 90, 7},
	{"sextile", "⚹", 60, 6},
	{"quincunx", "⚺", 150, 2},
	{"sesquiquadrate", "⚼", 135, 2},
	{"semisquare", "∠", 45, 2},
	{"semisextile", "⚻", 30, 1},
}

// BodySymbols maps body names to their glyph codes.
var BodySymbols = map[Body]string{
	Sun:       "☉",
	Moon:      "☽",
	Mercury:   "☿",
	Venus:     "♀",
	Mars:      "♂",
	Jupiter:   "♃",
	Saturn:    "♄",
	Uranus:    "♅",
	Neptune:   "♆",
	Pluto:     "♇",
	AscNode:   "☊",
	Asc:       "Asc",
	Midheaven: "MC",
}

// angularSeparation returns the smallest angle between two longitudes.
func angularSeparation(a, b float64) float64 {
	diff := math.Abs(normalizeDeg(a) - normalizeDeg(b))
	if diff > 180 {
		diff = 360 - diff
	}
	return diff
}

// AspectBetween returns the aspect linking two longitudes, or nil.
func AspectBetween(lonA, lonB float64) *Aspect {
	sep := angularSeparation(lonA, lonB)
	for i := range Aspects {
		if math.Abs(sep-Aspects[i].Angle) <= Aspects[i].Orb {
			return &Aspects[i]
		}
	}
	return nil
}

// AspectGrid builds the cross-reference grid: header row of body symbols,
// rows labeled by body symbol, cells holding aspect symbols for the pair,
// and a trailing per-row "sum" column. The sum column is presentation
// baggage and is stripped by the renderer.
func AspectGrid(positions []Position) [][]string {
	n := len(positions)
	grid := make([][]string, 0, n+1)

	header := make([]string, 0, n+2)
	header = append(header, "")
	for _, p := range positions {
		header = append(header, BodySymbols[p.Body])
	}
	header = append(header, "sum")
	grid = append(grid, header)

	for i, row := range positions {
		cells := make([]string, 0, n+2)
		cells = append(cells, BodySymbols[row.Body])
		count := 0
		for j, col := range positions {
			if j >= i {
				cells = append(cells, "")
				continue
			}
			symbol := ""
			if aspect := AspectBetween(row.Lon, col.Lon); aspect != nil {
				symbol = aspect.Symbol
				count++
			}
			cells = append(cells, symbol)
		}
		cells = append(cells, strconv.Itoa(count))
		grid = append(grid, cells)
	}

	return grid
}

// StripSumColumn removes the trailing "sum" column if present.
func StripSumColumn(grid [][]string) [][]string {
	if len(grid) == 0 || len(grid[0]) == 0 || grid[0][len(grid[0])-1] != "sum" {
		return grid
	}
	out := make([][]string, len(grid))
	for i, row := range grid {
		out[i] = row[:len(row)-1]
	}
	return out
}

// TransitAspects lists aspects between current positions and natal ones.
type Transit struct {
	Moving Body
	Natal  Body
	Aspect Aspect
}

func TransitAspects(current, natal []Position) []Transit {
	var transits []Transit
	for _, c := range current {
		if c.Body == Asc || c.Body == Midheaven {
			continue
		}
		for _, n := range natal {
			if aspect := AspectBetween(c.Lon, n.Lon); aspect != nil {
				transits = append(transits, Transit{Moving: c.Body, Natal: n.Body, Aspect: *aspect})
			}
		}
	}
	return transits
}
