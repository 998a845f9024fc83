package poster

import (
	"image"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

// rotateImage draws src rotated by degrees (clockwise) onto a fresh
// transparent canvas large enough to hold the rotated bounds.
func rotateImage(src image.Image, degrees float64) image.Image {
	if degrees == 0 {
		return src
	}
	b := src.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	rad := gg.Radians(degrees)
	sin, cos := math.Abs(math.Sin(rad)), math.Abs(math.Cos(rad))
	nw := int(math.Ceil(w*cos + h*sin))
	nh := int(math.Ceil(w*sin + h*cos))

	dc := gg.NewContext(nw, nh)
	dc.RotateAbout(rad, float64(nw)/2, float64(nh)/2)
	dc.DrawImageAnchored(src, nw/2, nh/2, 0.5, 0.5)
	return dc.Image()
}

// pasteCentered draws img with its center at (cx, cy).
func pasteCentered(dc *gg.Context, img image.Image, cx, cy float64) {
	if img == nil {
		return
	}
	dc.DrawImageAnchored(img, int(cx), int(cy), 0.5, 0.5)
}

// drawRotatedText renders text centered on (cx, cy), rotated by degrees.
func drawRotatedText(dc *gg.Context, face font.Face, text string, cx, cy, degrees float64) {
	dc.Push()
	dc.SetFontFace(face)
	if degrees != 0 {
		dc.RotateAbout(gg.Radians(degrees), cx, cy)
	}
	dc.DrawStringAnchored(text, cx, cy, 0.5, 0.5)
	dc.Pop()
}

// drawArcText lays text glyph by glyph along the lower arc of the
// circle centered at (cx, cy), each glyph rotated to follow the curve.
func drawArcText(dc *gg.Context, face font.Face, text string, cx, cy, radius float64) {
	if text == "" || radius <= 0 {
		return
	}
	dc.SetFontFace(face)

	glyphs := []rune(text)
	spans := make([]float64, len(glyphs))
	var total float64
	for i, r := range glyphs {
		w, _ := dc.MeasureString(string(r))
		spans[i] = (w + 4) / radius
		total += spans[i]
	}

	angle := -total / 2
	for i, r := range glyphs {
		center := angle + spans[i]/2
		px := cx + radius*math.Sin(center)
		py := cy + radius*math.Cos(center)
		drawRotatedText(dc, face, string(r), px, py, -center*180/math.Pi)
		angle += spans[i]
	}
}

// fitFace shrinks the headline face until text fits within maxWidth,
// never going below 40px.
func fitFace(dc *gg.Context, fonts *FontSet, text string, maxWidth float64) font.Face {
	for size := 140.0; size > 40; size -= 10 {
		face, err := fonts.NameFace(size)
		if err != nil {
			break
		}
		dc.SetFontFace(face)
		if w, _ := dc.MeasureString(text); w <= maxWidth {
			return face
		}
	}
	face, err := fonts.NameFace(40)
	if err != nil {
		return fonts.Name
	}
	return face
}
