package poster

import (
	"image"
	"strings"

	"github.com/fogleman/gg"

	"github.com/profwarlock/warlock/internal/astro"
)

// elementRotations turn each corner grid into a diamond pointing at the
// wheel.
var elementRotations = map[string]float64{
	"fire":  135,
	"earth": 45,
	"air":   -45,
	"water": -135,
}

const (
	gridCell  = 70
	gridGlyph = 50
)

// renderElementGrid draws one element's bodies in a bordered 3x3 grid
// with the element name beneath, glyphs pre-rotated to stay upright
// once the grid itself is turned.
func renderElementGrid(dist astro.Distribution, icons *IconSet, fonts *FontSet) image.Image {
	rotation := elementRotations[dist.Category]
	side := gridCell * 3
	dc := gg.NewContext(side, side+50)

	dc.SetHexColor(inkColor)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			x, y := float64(col*gridCell), float64(row*gridCell)
			dc.SetLineWidth(2)
			dc.DrawRectangle(x, y, gridCell, gridCell)
			dc.Stroke()

			idx := row*3 + col
			if idx >= len(dist.Bodies) {
				continue
			}
			symbol := astro.BodySymbols[astro.Body(dist.Bodies[idx])]
			glyph := icons.Render(symbol, gridGlyph, inkColor)
			if glyph == nil {
				continue
			}
			pasteCentered(dc, rotateImage(glyph, -rotation), x+gridCell/2, y+gridCell/2)
		}
	}

	label := rotateImage(renderLabel(strings.ToUpper(dist.Category), fonts), -rotation)
	pasteCentered(dc, label, float64(side)/2, float64(side)+22)

	return rotateImage(dc.Image(), rotation)
}

func renderLabel(text string, fonts *FontSet) image.Image {
	dc := gg.NewContext(1, 1)
	dc.SetFontFace(fonts.Grid)
	w, h := dc.MeasureString(text)

	dc = gg.NewContext(int(w)+8, int(h)+12)
	dc.SetHexColor(inkColor)
	dc.SetFontFace(fonts.Grid)
	dc.DrawStringAnchored(text, float64(dc.Width())/2, float64(dc.Height())/2, 0.5, 0.5)
	return dc.Image()
}

// renderStatGrid draws a dark labeled tile for a modality, polarity or
// hemisphere bucket: category name on top, body glyphs in a 3x3 grid.
func renderStatGrid(label string, dist astro.Distribution, size int, icons *IconSet, fonts *FontSet) image.Image {
	header := 46
	dc := gg.NewContext(size, size+header)

	dc.SetHexColor(inkColor)
	dc.DrawRoundedRectangle(0, 0, float64(size), float64(size+header), 10)
	dc.Fill()

	dc.SetHexColor(paperColor)
	dc.SetFontFace(fonts.Grid)
	dc.DrawStringAnchored(strings.ToUpper(label), float64(size)/2, float64(header)/2+4, 0.5, 0.5)

	cell := float64(size) / 3
	glyphSize := int(cell) - 14
	for i, body := range dist.Bodies {
		if i >= 9 {
			break
		}
		row, col := i/3, i%3
		glyph := icons.Render(astro.BodySymbols[astro.Body(body)], glyphSize, paperColor)
		if glyph == nil {
			continue
		}
		cx := float64(col)*cell + cell/2
		cy := float64(header) + float64(row)*cell + cell/2
		pasteCentered(dc, glyph, cx, cy)
	}

	return dc.Image()
}
