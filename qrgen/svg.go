package qrgen

import (
	"fmt"
	"strings"
)

const (
	xmlDeclaration = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"
	svgNamespace   = "http://www.w3.org/2000/svg"
)

// renderSVG assembles vector markup for the module matrix. Geometry is the
// same for every method: boxSize user units per module, border modules of
// quiet zone, white background, black modules.
func renderSVG(bitmap [][]bool, boxSize, border int, method SVGMethod) []byte {
	modules := len(bitmap)
	side := (modules + 2*border) * boxSize

	var sb strings.Builder
	if method != SVGFragment {
		sb.WriteString(xmlDeclaration)
	}
	fmt.Fprintf(&sb, `<svg xmlns=%q width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		svgNamespace, side, side, side, side)
	fmt.Fprintf(&sb, `<rect width="%d" height="%d" fill="#ffffff"/>`+"\n", side, side)

	if method == SVGPath {
		writeModulePath(&sb, bitmap, boxSize, border)
	} else {
		writeModuleRects(&sb, bitmap, boxSize, border)
	}

	sb.WriteString("</svg>\n")
	return []byte(sb.String())
}

// writeModuleRects emits one rect per dark module.
func writeModuleRects(sb *strings.Builder, bitmap [][]bool, boxSize, border int) {
	for y, row := range bitmap {
		for x, dark := range row {
			if dark {
				fmt.Fprintf(sb, `<rect x="%d" y="%d" width="%d" height="%d" fill="#000000"/>`+"\n",
					(x+border)*boxSize, (y+border)*boxSize, boxSize, boxSize)
			}
		}
	}
}

// writeModulePath merges each row's dark runs into one path element, so
// adjacent modules share edges exactly and no hairline gaps appear when the
// image is scaled.
func writeModulePath(sb *strings.Builder, bitmap [][]bool, boxSize, border int) {
	sb.WriteString(`<path fill="#000000" d="`)
	for y, row := range bitmap {
		x := 0
		for x < len(row) {
			if !row[x] {
				x++
				continue
			}
			run := 0
			for x+run < len(row) && row[x+run] {
				run++
			}
			fmt.Fprintf(sb, "M%d %dh%dv%dh-%dz",
				(x+border)*boxSize, (y+border)*boxSize, run*boxSize, boxSize, run*boxSize)
			x += run
		}
	}
	sb.WriteString(`"/>` + "\n")
}
