package poster

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"
	"strings"

	"github.com/fogleman/gg"

	"github.com/profwarlock/warlock/internal/astro"
	"github.com/profwarlock/warlock/internal/config"
	"github.com/profwarlock/warlock/internal/domain"
	"github.com/profwarlock/warlock/internal/logger"
)

// A3 at 300 DPI. Every poster comes out at exactly this size.
const (
	PosterWidth  = 2480
	PosterHeight = 3508
)

// Composer lays birth data and a computed chart onto the poster
// template. Safe for concurrent use once constructed.
type Composer struct {
	template   *Template
	icons      *IconSet
	fonts      *FontSet
	background image.Image
}

// NewComposer loads all assets up front so a bad template or font
// surfaces at startup rather than on the first email.
func NewComposer(assets config.Assets) (*Composer, error) {
	tmpl, err := LoadTemplate(assets.TemplatePath)
	if err != nil {
		return nil, err
	}
	icons, err := LoadIcons(assets.IconsDir)
	if err != nil {
		return nil, err
	}
	fonts, err := LoadFonts(assets.FontPath, assets.FontBoldPath)
	if err != nil {
		return nil, err
	}
	background, err := tmpl.Rasterize(PosterWidth, PosterHeight)
	if err != nil {
		return nil, err
	}
	return &Composer{template: tmpl, icons: icons, fonts: fonts, background: background}, nil
}

// Compose renders the finished poster PNG for a birth record, its
// resolved coordinate and the computed chart.
func (c *Composer) Compose(record domain.BirthRecord, coord domain.GeoCoordinate, chart *astro.Chart) ([]byte, error) {
	dc := gg.NewContextForImage(c.background)
	dc.SetHexColor(inkColor)

	c.drawHeadline(dc, record, coord)
	c.drawWheel(dc, chart)
	c.drawMatrix(dc, chart)
	c.drawElementGrids(dc, chart)
	c.drawStatGrids(dc, chart)
	c.drawFooter(dc, record, chart)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("encode poster: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *Composer) drawHeadline(dc *gg.Context, record domain.BirthRecord, coord domain.GeoCoordinate) {
	if ph, ok := c.template.Placeholder("name"); ok {
		name := strings.ToUpper(record.FullName())
		face := fitFace(dc, c.fonts, name, ph.W)
		drawRotatedText(dc, face, name, ph.CX, ph.CY, ph.Rotation)
	}
	if ph, ok := c.template.Placeholder("coords"); ok {
		drawRotatedText(dc, c.fonts.Small, formatCoordinate(coord), ph.CX, ph.CY, ph.Rotation)
	}
}

func (c *Composer) drawWheel(dc *gg.Context, chart *astro.Chart) {
	ph, ok := c.template.Placeholder("wheel")
	if !ok {
		logger.Log.Warn("template has no wheel slot")
		return
	}
	wheel := RenderWheel(chart, int(ph.W), c.icons, c.fonts)
	pasteCentered(dc, wheel, ph.CX, ph.CY)
}

func (c *Composer) drawMatrix(dc *gg.Context, chart *astro.Chart) {
	ph, ok := c.template.Placeholder("matrix")
	if !ok {
		return
	}
	grid := astro.StripSumColumn(chart.AspectGrid)
	matrix := renderAspectMatrix(grid, c.icons)
	if matrix == nil {
		return
	}
	// scale the rotated matrix down to its slot when needed
	if b := matrix.Bounds(); float64(b.Dx()) > ph.W {
		scale := ph.W / float64(b.Dx())
		sc := gg.NewContext(int(ph.W), int(float64(b.Dy())*scale))
		sc.Scale(scale, scale)
		sc.DrawImage(matrix, 0, 0)
		matrix = sc.Image()
	}
	pasteCentered(dc, matrix, ph.CX, ph.CY)
}

func (c *Composer) drawElementGrids(dc *gg.Context, chart *astro.Chart) {
	for _, dist := range chart.Elements {
		ph, ok := c.template.Placeholder(dist.Category)
		if !ok {
			continue
		}
		pasteCentered(dc, renderElementGrid(dist, c.icons, c.fonts), ph.CX, ph.CY)
	}
}

// hemisphere buckets carry arrow categories; the template names slots
// by direction words.
var hemisphereSlots = map[string]struct{ slot, label string }{
	"←": {"hemi_left", "east"},
	"→": {"hemi_right", "west"},
	"↑": {"hemi_above", "south"},
	"↓": {"hemi_below", "north"},
}

func (c *Composer) drawStatGrids(dc *gg.Context, chart *astro.Chart) {
	for _, dist := range append(append([]astro.Distribution{}, chart.Modalities...), chart.Polarities...) {
		ph, ok := c.template.Placeholder(dist.Category)
		if !ok {
			continue
		}
		pasteCentered(dc, renderStatGrid(dist.Category, dist, int(ph.W), c.icons, c.fonts), ph.CX, ph.CY)
	}
	for _, dist := range chart.Hemispheres {
		names, ok := hemisphereSlots[dist.Category]
		if !ok {
			continue
		}
		ph, ok := c.template.Placeholder(names.slot)
		if !ok {
			continue
		}
		pasteCentered(dc, renderStatGrid(names.label, dist, int(ph.W), c.icons, c.fonts), ph.CX, ph.CY)
	}
}

func (c *Composer) drawFooter(dc *gg.Context, record domain.BirthRecord, chart *astro.Chart) {
	if ph, ok := c.template.Placeholder("birth_date"); ok {
		drawRotatedText(dc, c.fonts.Label, record.BirthDate, ph.CX, ph.CY, ph.Rotation)
	}
	if ph, ok := c.template.Placeholder("birth_place"); ok {
		drawRotatedText(dc, c.fonts.Label, record.BirthPlace, ph.CX, ph.CY, ph.Rotation)
	}
	if ph, ok := c.template.Placeholder("location_arc"); ok {
		dc.SetHexColor(inkColor)
		drawArcText(dc, c.fonts.Arc, strings.ToUpper(record.BirthPlace), ph.CX, ph.CY, ph.W/2)
	}

	signs := []struct {
		slot   string
		symbol string
		sign   astro.Sign
	}{
		{"sun_sign", astro.BodySymbols[astro.Sun], chart.SunSign},
		{"moon_sign", astro.BodySymbols[astro.Moon], chart.MoonSign},
		{"asc_sign", astro.BodySymbols[astro.Asc], chart.AscendantSign},
	}
	for _, s := range signs {
		ph, ok := c.template.Placeholder(s.slot)
		if !ok {
			continue
		}
		text := s.sign.Title()
		dc.SetFontFace(c.fonts.Label)
		tw, _ := dc.MeasureString(text)
		if glyph := c.icons.Render(s.symbol, 60, inkColor); glyph != nil {
			pasteCentered(dc, glyph, ph.CX-tw/2-44, ph.CY)
		}
		drawRotatedText(dc, c.fonts.Label, text, ph.CX, ph.CY, ph.Rotation)
	}
}

func formatCoordinate(coord domain.GeoCoordinate) string {
	latHemi, lonHemi := "N", "E"
	if coord.Lat < 0 {
		latHemi = "S"
	}
	if coord.Lon < 0 {
		lonHemi = "W"
	}
	return fmt.Sprintf("%.4f° %s, %.4f° %s", math.Abs(coord.Lat), latHemi, math.Abs(coord.Lon), lonHemi)
}
