package poster

import (
	"image"
	"math"
	"sort"

	"github.com/fogleman/gg"

	"github.com/profwarlock/warlock/internal/astro"
)

const (
	inkColor   = "#393939"
	paperColor = "#fcf2de"
)

// wheelPoint maps an ecliptic longitude to screen coordinates at the
// given radius. The ascendant sits on the left and longitudes grow
// counterclockwise, the usual chart orientation.
func wheelPoint(lon, ascLon, cx, cy, radius float64) (float64, float64) {
	a := gg.Radians(180 + ascLon - lon)
	return cx + radius*math.Cos(a), cy - radius*math.Sin(a)
}

// RenderWheel draws the natal wheel on a transparent square canvas:
// zodiac ring, house spokes, planet glyphs and aspect lines.
func RenderWheel(chart *astro.Chart, size int, icons *IconSet, fonts *FontSet) image.Image {
	dc := gg.NewContext(size, size)
	cx, cy := float64(size)/2, float64(size)/2
	outer := float64(size)/2 - 8
	signRing := outer - 110
	glyphRing := signRing - 90
	inner := glyphRing - 80

	ascLon := chartAscendant(chart)

	dc.SetHexColor(inkColor)
	dc.SetLineWidth(5)
	dc.DrawCircle(cx, cy, outer)
	dc.Stroke()
	dc.SetLineWidth(2)
	dc.DrawCircle(cx, cy, signRing)
	dc.Stroke()
	dc.DrawCircle(cx, cy, inner)
	dc.Stroke()

	// sign boundaries and names
	dc.SetFontFace(fonts.Small)
	for i, sign := range astro.Signs {
		lon := float64(i) * 30
		x1, y1 := wheelPoint(lon, ascLon, cx, cy, signRing)
		x2, y2 := wheelPoint(lon, ascLon, cx, cy, outer)
		dc.SetLineWidth(2)
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()

		mid := lon + 15
		tx, ty := wheelPoint(mid, ascLon, cx, cy, (signRing+outer)/2)
		// keep sign names readable across the wheel
		rot := math.Mod(90-(180+ascLon-mid)+720, 360)
		if rot > 90 && rot < 270 {
			rot -= 180
		}
		drawRotatedText(dc, fonts.Small, sign.Title(), tx, ty, rot)
	}

	// degree ticks every 10 degrees
	dc.SetLineWidth(1.5)
	for d := 0; d < 360; d += 10 {
		x1, y1 := wheelPoint(float64(d), ascLon, cx, cy, signRing)
		x2, y2 := wheelPoint(float64(d), ascLon, cx, cy, signRing-16)
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()
	}

	// horizon and meridian axes
	drawAxes(dc, chart, ascLon, cx, cy, inner, signRing)

	// aspect lines inside the inner circle
	drawAspectLines(dc, chart, ascLon, cx, cy, inner)

	// planet glyphs, staggered when crowded
	drawBodies(dc, chart, ascLon, cx, cy, glyphRing, icons)

	return dc.Image()
}

func chartAscendant(chart *astro.Chart) float64 {
	for _, p := range chart.Positions {
		if p.Body == astro.Asc {
			return p.Lon
		}
	}
	return 0
}

func drawAxes(dc *gg.Context, chart *astro.Chart, ascLon, cx, cy, inner, outer float64) {
	for _, p := range chart.Positions {
		if p.Body != astro.Asc && p.Body != astro.Midheaven {
			continue
		}
		x1, y1 := wheelPoint(p.Lon, ascLon, cx, cy, inner)
		x2, y2 := wheelPoint(p.Lon, ascLon, cx, cy, outer)
		dc.SetLineWidth(3)
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()
		x3, y3 := wheelPoint(p.Lon+180, ascLon, cx, cy, inner)
		x4, y4 := wheelPoint(p.Lon+180, ascLon, cx, cy, outer)
		dc.SetLineWidth(1.5)
		dc.DrawLine(x3, y3, x4, y4)
		dc.Stroke()
	}
}

func drawAspectLines(dc *gg.Context, chart *astro.Chart, ascLon, cx, cy, inner float64) {
	bodies := planetPositions(chart)
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			aspect := astro.AspectBetween(bodies[i].Lon, bodies[j].Lon)
			if aspect == nil || aspect.Name == "conjunction" {
				continue
			}
			x1, y1 := wheelPoint(bodies[i].Lon, ascLon, cx, cy, inner)
			x2, y2 := wheelPoint(bodies[j].Lon, ascLon, cx, cy, inner)
			switch aspect.Name {
			case "square", "opposition":
				dc.SetHexColor("#8c4a3c")
			case "trine", "sextile":
				dc.SetHexColor("#3c6e58")
			default:
				dc.SetHexColor("#8a8374")
			}
			dc.SetLineWidth(2)
			dc.DrawLine(x1, y1, x2, y2)
			dc.Stroke()
		}
	}
	dc.SetHexColor(inkColor)
}

func drawBodies(dc *gg.Context, chart *astro.Chart, ascLon, cx, cy, ring float64, icons *IconSet) {
	bodies := planetPositions(chart)
	sort.Slice(bodies, func(i, j int) bool { return bodies[i].Lon < bodies[j].Lon })

	const glyphSize = 72
	prev := math.Inf(-1)
	offset := 0.0
	for _, p := range bodies {
		// nudge glyphs apart when bodies cluster
		if p.Lon-prev < 6 {
			offset = math.Mod(offset+glyphSize*0.9, glyphSize*1.8)
		} else {
			offset = 0
		}
		prev = p.Lon

		x, y := wheelPoint(p.Lon, ascLon, cx, cy, ring-offset)
		if img := icons.Render(astro.BodySymbols[p.Body], glyphSize, inkColor); img != nil {
			pasteCentered(dc, img, x, y)
		}
	}
}

func planetPositions(chart *astro.Chart) []astro.Position {
	out := make([]astro.Position, 0, len(chart.Positions))
	for _, p := range chart.Positions {
		if p.Body == astro.Asc || p.Body == astro.Midheaven {
			continue
		}
		out = append(out, p)
	}
	return out
}
