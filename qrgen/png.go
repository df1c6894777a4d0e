package qrgen

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// renderPNG rasterizes the module matrix into a square PNG sized boxSize
// pixels per module with border modules of quiet zone on each side.
func renderPNG(bitmap [][]bool, boxSize, border int, logoPath string) ([]byte, error) {
	modules := len(bitmap)
	side := (modules + 2*border) * boxSize

	dc := gg.NewContext(side, side)
	dc.SetColor(color.White)
	dc.Clear()

	dc.SetColor(color.Black)
	for y := 0; y < modules; y++ {
		for x := 0; x < modules; x++ {
			if bitmap[y][x] {
				dc.DrawRectangle(
					float64((x+border)*boxSize),
					float64((y+border)*boxSize),
					float64(boxSize),
					float64(boxSize),
				)
			}
		}
	}
	dc.Fill()

	img := dc.Image()
	if logoPath != "" {
		overlaid, err := overlayLogo(img, logoPath, modules*boxSize, side)
		if err != nil {
			return nil, err
		}
		img = overlaid
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// overlayLogo composites the image at logoPath over the symbol center. The
// logo is capped at a quarter of the symbol side so level-H redundancy can
// still recover the covered modules.
func overlayLogo(img image.Image, logoPath string, symbolSide, side int) (image.Image, error) {
	logo, err := imaging.Open(logoPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open logo %s: %v", ErrInvalidInput, logoPath, err)
	}

	maxSide := symbolSide / 4
	if maxSide < 1 {
		maxSide = 1
	}
	logo = imaging.Fit(logo, maxSide, maxSide, imaging.Lanczos)

	b := logo.Bounds()
	at := image.Pt((side-b.Dx())/2, (side-b.Dy())/2)
	return imaging.Overlay(img, logo, at, 1.0), nil
}
