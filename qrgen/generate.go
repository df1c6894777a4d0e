package qrgen

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"
)

// Artifact is the result of one generation: the encoded image bytes plus the
// geometry needed by callers (preview sizing, history records).
type Artifact struct {
	// Format the bytes are encoded in.
	Format Format
	// Modules is the symbol side length in modules, quiet zone excluded.
	Modules int
	// Side is the rendered side length: (Modules + 2*border) * boxSize.
	Side int

	data []byte
}

// Bytes returns the encoded artifact. The returned slice must not be
// modified.
func (a *Artifact) Bytes() []byte { return a.data }

// ContentType returns the MIME type matching the artifact's format.
func (a *Artifact) ContentType() string {
	if a.Format == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// WriteTo writes the artifact bytes to w.
func (a *Artifact) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(a.data)
	return int64(n), err
}

// Save writes the artifact to path, creating parent directories as needed.
// The bytes already exist in full, so a failed write never leaves a partial
// symbol behind a successful return.
func (a *Artifact) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, a.data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Generate validates req and produces an Artifact by delegating symbol
// encoding to skip2/go-qrcode and rendering to the format-specific writer.
// It is deterministic: identical requests yield byte-identical artifacts.
func Generate(req Request) (*Artifact, error) {
	req = req.normalized()
	if err := req.validate(); err != nil {
		return nil, err
	}

	bitmap, err := encode(req.Payload, req.Level)
	if err != nil {
		return nil, err
	}
	modules := len(bitmap)
	side := (modules + 2*req.Border) * req.BoxSize

	var data []byte
	switch req.Format {
	case FormatSVG:
		data = renderSVG(bitmap, req.BoxSize, req.Border, req.SVGMethod)
	default:
		data, err = renderPNG(bitmap, req.BoxSize, req.Border, req.LogoPath)
		if err != nil {
			return nil, err
		}
	}

	return &Artifact{Format: req.Format, Modules: modules, Side: side, data: data}, nil
}

// encode builds the module matrix for payload at the given level. The
// library's own quiet zone is disabled; renderers draw the border themselves
// so that any width is supported.
func encode(payload string, level Level) ([][]bool, error) {
	q, err := qrcode.New(payload, recoveryLevel(level))
	if err != nil {
		// The only runtime failure skip2 reports for valid options is
		// the payload not fitting any symbol version.
		return nil, errors.Join(ErrCapacityExceeded, err)
	}
	q.DisableBorder = true
	return q.Bitmap(), nil
}

func recoveryLevel(level Level) qrcode.RecoveryLevel {
	switch level {
	case LevelL:
		return qrcode.Low
	case LevelQ:
		return qrcode.High
	case LevelH:
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}
