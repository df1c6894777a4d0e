// Package qrgen is the core of qrtool: it validates a generation request and
// dispatches it to exactly one output renderer. QR symbol encoding is
// delegated to github.com/skip2/go-qrcode; this package never touches
// Reed-Solomon codes or module placement itself.
package qrgen

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the generation taxonomy. Callers match them with
// errors.Is; library causes are attached with errors.Join.
var (
	// ErrInvalidInput is returned for malformed request fields: empty
	// payload, non-positive box size, negative border.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupportedOption is returned for an unknown output format,
	// error-correction level, or SVG method.
	ErrUnsupportedOption = errors.New("unsupported option")
	// ErrCapacityExceeded is returned when the payload does not fit a QR
	// symbol at the requested error-correction level.
	ErrCapacityExceeded = errors.New("payload exceeds QR capacity")
)

// Level is a QR error-correction level.
type Level string

const (
	LevelL Level = "L"
	LevelM Level = "M"
	LevelQ Level = "Q"
	LevelH Level = "H"
)

// Format selects the output encoding.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// SVGMethod selects how SVG markup is assembled. It is only meaningful when
// the format is SVG and is ignored otherwise.
type SVGMethod string

const (
	// SVGPath merges all dark modules into a single <path> element. Best
	// for zooming; no hairline gaps between modules.
	SVGPath SVGMethod = "path"
	// SVGBasic emits one <rect> per dark module in a full XML document.
	SVGBasic SVGMethod = "basic"
	// SVGFragment emits the same geometry as SVGBasic but as a bare <svg>
	// fragment without an XML declaration, suitable for inlining in HTML.
	SVGFragment SVGMethod = "fragment"
)

// Defaults applied by the CLI and web surfaces when the user leaves a field
// unset. Generate itself only defaults Level and SVGMethod; numeric fields
// must be explicit.
const (
	DefaultBoxSize = 10
	DefaultBorder  = 4
)

const (
	DefaultLevel     = LevelM
	DefaultFormat    = FormatPNG
	DefaultSVGMethod = SVGPath
)

// Request describes one QR generation. It is a plain value, constructed once
// and consumed by a single Generate call.
type Request struct {
	// Payload is the text to encode. Must be non-empty.
	Payload string
	// Level is the error-correction level. Empty means LevelM.
	Level Level
	// BoxSize is the rendered size of one module, in pixels (PNG) or user
	// units (SVG). Must be positive.
	BoxSize int
	// Border is the quiet-zone width in modules on each side. Must be
	// non-negative.
	Border int
	// Format selects PNG or SVG output. Empty means FormatPNG.
	Format Format
	// SVGMethod selects the SVG writer. Empty means SVGPath.
	SVGMethod SVGMethod
	// LogoPath optionally names an image composited over the symbol
	// center. PNG output only, and Level must be H so that the covered
	// modules stay recoverable.
	LogoPath string
}

// ParseLevel maps a user-supplied string to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "L":
		return LevelL, nil
	case "M", "":
		return LevelM, nil
	case "Q":
		return LevelQ, nil
	case "H":
		return LevelH, nil
	}
	return "", fmt.Errorf("%w: error-correction level %q (want L, M, Q or H)", ErrUnsupportedOption, s)
}

// ParseFormat maps a user-supplied string to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png", "":
		return FormatPNG, nil
	case "svg":
		return FormatSVG, nil
	}
	return "", fmt.Errorf("%w: output format %q (want png or svg)", ErrUnsupportedOption, s)
}

// ParseSVGMethod maps a user-supplied string to an SVGMethod.
func ParseSVGMethod(s string) (SVGMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "path", "":
		return SVGPath, nil
	case "basic":
		return SVGBasic, nil
	case "fragment":
		return SVGFragment, nil
	}
	return "", fmt.Errorf("%w: svg method %q (want path, basic or fragment)", ErrUnsupportedOption, s)
}

// normalized returns a copy with the enum zero values replaced by defaults.
func (r Request) normalized() Request {
	if r.Level == "" {
		r.Level = DefaultLevel
	}
	if r.Format == "" {
		r.Format = DefaultFormat
	}
	if r.SVGMethod == "" {
		r.SVGMethod = DefaultSVGMethod
	}
	return r
}

// validate checks every field before any encoding or rendering starts.
func (r Request) validate() error {
	if strings.TrimSpace(r.Payload) == "" {
		return fmt.Errorf("%w: payload is empty", ErrInvalidInput)
	}
	if r.BoxSize <= 0 {
		return fmt.Errorf("%w: box size %d (must be positive)", ErrInvalidInput, r.BoxSize)
	}
	if r.Border < 0 {
		return fmt.Errorf("%w: border %d (must be non-negative)", ErrInvalidInput, r.Border)
	}
	switch r.Level {
	case LevelL, LevelM, LevelQ, LevelH:
	default:
		return fmt.Errorf("%w: error-correction level %q", ErrUnsupportedOption, string(r.Level))
	}
	switch r.Format {
	case FormatPNG:
		if r.LogoPath != "" && r.Level != LevelH {
			return fmt.Errorf("%w: logo overlay requires error-correction level H", ErrInvalidInput)
		}
	case FormatSVG:
		switch r.SVGMethod {
		case SVGPath, SVGBasic, SVGFragment:
		default:
			return fmt.Errorf("%w: svg method %q", ErrUnsupportedOption, string(r.SVGMethod))
		}
		if r.LogoPath != "" {
			return fmt.Errorf("%w: logo overlay is only supported for png output", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: output format %q", ErrUnsupportedOption, string(r.Format))
	}
	return nil
}
