package poster

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontSet carries the faces the composer draws with. Sizes follow the
// poster layout and are fixed relative to the A3 canvas.
type FontSet struct {
	regular *opentype.Font
	bold    *opentype.Font

	Name  font.Face
	Label font.Face
	Small font.Face
	Arc   font.Face
	Grid  font.Face
}

// LoadFonts builds the face set from the given TTF files, falling back
// to the bundled Go fonts when a path is empty.
func LoadFonts(regularPath, boldPath string) (*FontSet, error) {
	regular, err := loadFont(regularPath, goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("load regular font: %w", err)
	}
	bold, err := loadFont(boldPath, gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("load bold font: %w", err)
	}

	fs := &FontSet{regular: regular, bold: bold}
	if fs.Name, err = newFace(bold, 140); err != nil {
		return nil, err
	}
	if fs.Label, err = newFace(regular, 64); err != nil {
		return nil, err
	}
	if fs.Small, err = newFace(regular, 44); err != nil {
		return nil, err
	}
	if fs.Arc, err = newFace(regular, 52); err != nil {
		return nil, err
	}
	if fs.Grid, err = newFace(bold, 36); err != nil {
		return nil, err
	}
	return fs, nil
}

// NameFace returns a bold face at the given pixel size, used when the
// headline has to shrink to fit its slot.
func (fs *FontSet) NameFace(size float64) (font.Face, error) {
	return newFace(fs.bold, size)
}

func loadFont(path string, fallback []byte) (*opentype.Font, error) {
	raw := fallback
	if path != "" {
		var err error
		raw, err = os.ReadFile(path)
		if err != nil {
			return nil, err
		}
	}
	return opentype.Parse(raw)
}

func newFace(f *opentype.Font, size float64) (font.Face, error) {
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("build font face: %w", err)
	}
	return face, nil
}
