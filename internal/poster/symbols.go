package poster

import (
	"embed"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/profwarlock/warlock/internal/logger"
)

//go:embed assets/icons/*.svg
var iconAssets embed.FS

// symbolFiles maps chart glyphs to icon asset names. Glyphs without an
// entry here are skipped when drawing.
var symbolFiles = map[string]string{
	"☉":   "sun",
	"☽":   "moon",
	"☿":   "mercury",
	"♀":   "venus",
	"♂":   "mars",
	"♃":   "jupiter",
	"♄":   "saturn",
	"♅":   "uranus",
	"♆":   "neptune",
	"♇":   "pluto",
	"☊":   "asc_node",
	"Asc": "asc",
	"MC":  "mc",
	"☌":   "conjunction",
	"☍":   "opposition",
	"△":   "trine",
	"□":   "square",
	"⚹":   "sextile",
	"⚺":   "quincunx",
	"⚼":   "sesquiquadrate",
	"∠":   "semisquare",
	"⚻":   "semisextile",
}

// filledSymbols are authored as closed outlines and painted with fill
// rather than stroke.
var filledSymbols = map[string]bool{
	"Asc": true,
	"MC":  true,
}

const (
	strokedIconTemplate = `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 50 50">` +
		`<g transform="translate(2,2) scale(2,2)" stroke="%s" stroke-width="1.5" fill="none" stroke-linecap="round" stroke-linejoin="round">%s</g></svg>`
	filledIconTemplate = `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 50 50">` +
		`<g transform="translate(2,2) scale(2,2)" fill="%s" stroke="none" fill-rule="evenodd">%s</g></svg>`
)

// IconSet holds the raw SVG path fragments for every known glyph. The
// table is built once at construction and never mutated afterwards, so
// it is safe for concurrent renders.
type IconSet struct {
	fragments map[string]string
}

// LoadIcons reads every mapped icon fragment, from dir when given or
// from the embedded assets otherwise. Unreadable icons are logged and
// left out of the set.
func LoadIcons(dir string) (*IconSet, error) {
	fragments := make(map[string]string, len(symbolFiles))
	for symbol, name := range symbolFiles {
		var (
			raw []byte
			err error
		)
		if dir != "" {
			raw, err = os.ReadFile(filepath.Join(dir, name+".svg"))
		} else {
			raw, err = iconAssets.ReadFile("assets/icons/" + name + ".svg")
		}
		if err != nil {
			logger.Log.Warn("icon unavailable, glyph will be skipped", "symbol", symbol, "icon", name, "error", err)
			continue
		}
		fragments[symbol] = strings.TrimSpace(string(raw))
	}
	if len(fragments) == 0 {
		return nil, fmt.Errorf("no icons could be loaded from %q", dir)
	}
	return &IconSet{fragments: fragments}, nil
}

// Render rasterizes the glyph into a size x size image painted with the
// given CSS color. It returns nil for glyphs the set does not know.
func (s *IconSet) Render(symbol string, size int, color string) image.Image {
	fragment, ok := s.fragments[symbol]
	if !ok {
		return nil
	}
	tmpl := strokedIconTemplate
	if filledSymbols[symbol] {
		tmpl = filledIconTemplate
	}
	svg := fmt.Sprintf(tmpl, size, size, color, fragment)

	icon, err := oksvg.ReadIconStream(strings.NewReader(svg))
	if err != nil {
		logger.Log.Warn("failed to parse icon", "symbol", symbol, "error", err)
		return nil
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(size, size, scanner), 1.0)
	return img
}

// Has reports whether the set can draw the glyph.
func (s *IconSet) Has(symbol string) bool {
	_, ok := s.fragments[symbol]
	return ok
}
