package poster

import (
	"bytes"
	_ "embed"
	"fmt"
	"image"
	"math"
	"os"
	"regexp"
	"strconv"

	"github.com/beevik/etree"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

//go:embed assets/template.svg
var defaultTemplate []byte

// Placeholder is a named slot recovered from the template's hidden
// geometry group. CX/CY are the slot's center in canvas coordinates
// after applying the rect's own transform; Rotation is in degrees,
// clockwise in screen space.
type Placeholder struct {
	ID       string
	W, H     float64
	CX, CY   float64
	Rotation float64
}

// Template is a parsed poster background. The placeholder group only
// donates geometry and is hidden before rasterization.
type Template struct {
	doc          *etree.Document
	placeholders map[string]Placeholder
}

var (
	translateRe = regexp.MustCompile(`translate\(\s*(-?[\d.]+)[\s,]+(-?[\d.]+)\s*\)`)
	rotateRe    = regexp.MustCompile(`rotate\(\s*(-?[\d.]+)\s*\)`)
)

// LoadTemplate parses the poster template at path, or the embedded
// default when path is empty.
func LoadTemplate(path string) (*Template, error) {
	raw := defaultTemplate
	if path != "" {
		var err error
		raw, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read poster template: %w", err)
		}
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("parse poster template: %w", err)
	}

	group := doc.FindElement("//g[@id='placeholders']")
	if group == nil {
		return nil, fmt.Errorf("poster template has no placeholders group")
	}

	placeholders := make(map[string]Placeholder)
	for _, rect := range group.SelectElements("rect") {
		ph, err := parsePlaceholder(rect)
		if err != nil {
			return nil, err
		}
		placeholders[ph.ID] = ph
	}
	return &Template{doc: doc, placeholders: placeholders}, nil
}

func parsePlaceholder(rect *etree.Element) (Placeholder, error) {
	id := rect.SelectAttrValue("id", "")
	if id == "" {
		return Placeholder{}, fmt.Errorf("placeholder rect without id")
	}

	attr := func(name string) float64 {
		v, _ := strconv.ParseFloat(rect.SelectAttrValue(name, "0"), 64)
		return v
	}
	x, y := attr("x"), attr("y")
	w, h := attr("width"), attr("height")
	if w <= 0 || h <= 0 {
		return Placeholder{}, fmt.Errorf("placeholder %q has no area", id)
	}

	var tx, ty, angle float64
	transform := rect.SelectAttrValue("transform", "")
	if m := translateRe.FindStringSubmatch(transform); m != nil {
		tx, _ = strconv.ParseFloat(m[1], 64)
		ty, _ = strconv.ParseFloat(m[2], 64)
	}
	if m := rotateRe.FindStringSubmatch(transform); m != nil {
		angle, _ = strconv.ParseFloat(m[1], 64)
	}

	// Local center rotated by the transform angle, then translated.
	cx, cy := x+w/2, y+h/2
	rad := angle * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)

	return Placeholder{
		ID:       id,
		W:        w,
		H:        h,
		CX:       tx + cx*cos - cy*sin,
		CY:       ty + cx*sin + cy*cos,
		Rotation: angle,
	}, nil
}

// Placeholder returns the named slot.
func (t *Template) Placeholder(id string) (Placeholder, bool) {
	ph, ok := t.placeholders[id]
	return ph, ok
}

// Rasterize renders the template background at the given pixel size
// with the placeholder group zeroed out.
func (t *Template) Rasterize(w, h int) (image.Image, error) {
	if group := t.doc.FindElement("//g[@id='placeholders']"); group != nil {
		group.CreateAttr("opacity", "0")
	}

	var buf bytes.Buffer
	if _, err := t.doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("serialize poster template: %w", err)
	}

	icon, err := oksvg.ReadIconStream(&buf)
	if err != nil {
		return nil, fmt.Errorf("rasterize poster template: %w", err)
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)
	return img, nil
}
