package qrgen_test

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/D4v4N/qrtool/qrgen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wellFormed walks every XML token in markup and fails on the first error.
func wellFormed(t *testing.T, markup []byte) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(string(markup)))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return
		}
		require.NoError(t, err, "markup should be well-formed XML")
	}
}

func svgRequest(method qrgen.SVGMethod) qrgen.Request {
	return qrgen.Request{
		Payload:   "https://example.com",
		Level:     qrgen.LevelM,
		BoxSize:   10,
		Border:    4,
		Format:    qrgen.FormatSVG,
		SVGMethod: method,
	}
}

func TestGenerateSVG(t *testing.T) {
	t.Parallel()

	t.Run("basic emits a full document with one rect per module", func(t *testing.T) {
		t.Parallel()
		artifact, err := qrgen.Generate(svgRequest(qrgen.SVGBasic))

		require.NoError(t, err)
		markup := string(artifact.Bytes())
		assert.True(t, strings.HasPrefix(markup, "<?xml"))
		assert.Greater(t, strings.Count(markup, "<rect"), artifact.Modules,
			"one rect per dark module plus the background")
		assert.NotContains(t, markup, "<path")
		wellFormed(t, artifact.Bytes())
	})

	t.Run("fragment omits the xml declaration", func(t *testing.T) {
		t.Parallel()
		artifact, err := qrgen.Generate(svgRequest(qrgen.SVGFragment))

		require.NoError(t, err)
		markup := string(artifact.Bytes())
		assert.True(t, strings.HasPrefix(markup, "<svg"))
		assert.NotContains(t, markup, "<?xml")
		wellFormed(t, artifact.Bytes())
	})

	t.Run("path merges all modules into a single path element", func(t *testing.T) {
		t.Parallel()
		artifact, err := qrgen.Generate(svgRequest(qrgen.SVGPath))

		require.NoError(t, err)
		markup := string(artifact.Bytes())
		assert.True(t, strings.HasPrefix(markup, "<?xml"))
		assert.Equal(t, 1, strings.Count(markup, "<path"))
		wellFormed(t, artifact.Bytes())
	})

	t.Run("declares the svg viewport from geometry", func(t *testing.T) {
		t.Parallel()
		req := svgRequest(qrgen.SVGBasic)
		artifact, err := qrgen.Generate(req)

		require.NoError(t, err)
		assert.Equal(t, (artifact.Modules+2*req.Border)*req.BoxSize, artifact.Side)
		assert.Contains(t, string(artifact.Bytes()), `viewBox="0 0`)
		assert.Equal(t, "image/svg+xml", artifact.ContentType())
	})

	t.Run("is deterministic for identical requests", func(t *testing.T) {
		t.Parallel()
		first, err := qrgen.Generate(svgRequest(qrgen.SVGPath))
		require.NoError(t, err)
		second, err := qrgen.Generate(svgRequest(qrgen.SVGPath))
		require.NoError(t, err)

		assert.Equal(t, first.Bytes(), second.Bytes())
	})

	t.Run("rejects logo overlay for svg output", func(t *testing.T) {
		t.Parallel()
		req := svgRequest(qrgen.SVGPath)
		req.Level = qrgen.LevelH
		req.LogoPath = "logo.png"

		_, err := qrgen.Generate(req)

		require.Error(t, err)
		assert.True(t, errors.Is(err, qrgen.ErrInvalidInput))
	})
}
