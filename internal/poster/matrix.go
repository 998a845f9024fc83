package poster

import (
	"image"

	"github.com/fogleman/gg"
)

const (
	matrixCell   = 75
	matrixBorder = 2
	matrixGlyph  = 48
)

// renderAspectMatrix builds the lower-triangular aspect table as a
// diamond: glyphs are pre-rotated so they read upright after the whole
// matrix is turned 135 degrees counterclockwise.
func renderAspectMatrix(grid [][]string, icons *IconSet) image.Image {
	n := len(grid)
	if n == 0 {
		return nil
	}

	side := n * matrixCell
	dc := gg.NewContext(side, side)

	for row := 0; row < n; row++ {
		for col := 0; col < len(grid[row]); col++ {
			symbol := grid[row][col]
			x := float64(col * matrixCell)
			y := float64(row * matrixCell)

			// only the triangle and its headers get cells
			if col <= row {
				dc.SetHexColor(inkColor)
				dc.SetLineWidth(matrixBorder)
				dc.DrawRectangle(x, y, matrixCell, matrixCell)
				dc.Stroke()
			}
			if symbol == "" || symbol == " " {
				continue
			}

			rotation := 135.0
			switch {
			case row == 0:
				rotation = 180
			case col == 0:
				rotation = 90
			}
			glyph := icons.Render(symbol, matrixGlyph, inkColor)
			if glyph == nil {
				continue
			}
			pasteCentered(dc, rotateImage(glyph, rotation), x+matrixCell/2, y+matrixCell/2)
		}
	}

	return rotateImage(dc.Image(), -135)
}
