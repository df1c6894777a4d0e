package qrgen_test

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/D4v4N/qrtool/qrgen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() qrgen.Request {
	return qrgen.Request{
		Payload: "https://example.com",
		Level:   qrgen.LevelM,
		BoxSize: 10,
		Border:  4,
		Format:  qrgen.FormatPNG,
	}
}

func TestGenerateValidation(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty payload", func(t *testing.T) {
		t.Parallel()
		req := validRequest()
		req.Payload = ""

		artifact, err := qrgen.Generate(req)

		require.Error(t, err)
		require.Nil(t, artifact)
		assert.True(t, errors.Is(err, qrgen.ErrInvalidInput))
	})

	t.Run("rejects whitespace-only payload", func(t *testing.T) {
		t.Parallel()
		req := validRequest()
		req.Payload = "   \t\n"

		_, err := qrgen.Generate(req)

		require.Error(t, err)
		assert.True(t, errors.Is(err, qrgen.ErrInvalidInput))
	})

	t.Run("rejects zero box size", func(t *testing.T) {
		t.Parallel()
		req := validRequest()
		req.BoxSize = 0

		_, err := qrgen.Generate(req)

		require.Error(t, err)
		assert.True(t, errors.Is(err, qrgen.ErrInvalidInput))
	})

	t.Run("rejects negative box size", func(t *testing.T) {
		t.Parallel()
		req := validRequest()
		req.BoxSize = -3

		_, err := qrgen.Generate(req)

		require.Error(t, err)
		assert.True(t, errors.Is(err, qrgen.ErrInvalidInput))
	})

	t.Run("rejects negative border", func(t *testing.T) {
		t.Parallel()
		req := validRequest()
		req.Border = -1

		_, err := qrgen.Generate(req)

		require.Error(t, err)
		assert.True(t, errors.Is(err, qrgen.ErrInvalidInput))
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		t.Parallel()
		req := validRequest()
		req.Format = qrgen.Format("gif")

		_, err := qrgen.Generate(req)

		require.Error(t, err)
		assert.True(t, errors.Is(err, qrgen.ErrUnsupportedOption))
	})

	t.Run("rejects unknown svg method for svg output", func(t *testing.T) {
		t.Parallel()
		req := validRequest()
		req.Format = qrgen.FormatSVG
		req.SVGMethod = qrgen.SVGMethod("spiral")

		_, err := qrgen.Generate(req)

		require.Error(t, err)
		assert.True(t, errors.Is(err, qrgen.ErrUnsupportedOption))
	})

	t.Run("ignores svg method for png output", func(t *testing.T) {
		t.Parallel()
		req := validRequest()
		req.SVGMethod = qrgen.SVGMethod("spiral")

		artifact, err := qrgen.Generate(req)

		require.NoError(t, err)
		require.NotEmpty(t, artifact.Bytes())
	})

	t.Run("rejects logo without level H", func(t *testing.T) {
		t.Parallel()
		req := validRequest()
		req.LogoPath = "logo.png"

		_, err := qrgen.Generate(req)

		require.Error(t, err)
		assert.True(t, errors.Is(err, qrgen.ErrInvalidInput))
	})

	t.Run("reports capacity exceeded for oversized payload", func(t *testing.T) {
		t.Parallel()
		req := validRequest()
		req.Level = qrgen.LevelH
		req.Payload = strings.Repeat("a", 4000)

		_, err := qrgen.Generate(req)

		require.Error(t, err)
		assert.True(t, errors.Is(err, qrgen.ErrCapacityExceeded))
	})
}

func TestGeneratePNG(t *testing.T) {
	t.Parallel()

	t.Run("produces a square image sized by modules, border and box size", func(t *testing.T) {
		t.Parallel()
		req := qrgen.Request{
			Payload: "HELLO",
			Level:   qrgen.LevelM,
			BoxSize: 10,
			Border:  4,
			Format:  qrgen.FormatPNG,
		}

		artifact, err := qrgen.Generate(req)

		require.NoError(t, err)
		require.NotEmpty(t, artifact.Bytes())
		assert.Equal(t, qrgen.FormatPNG, artifact.Format)
		assert.Equal(t, "image/png", artifact.ContentType())

		wantSide := (artifact.Modules + 2*req.Border) * req.BoxSize
		assert.Equal(t, wantSide, artifact.Side)

		img, err := png.Decode(bytes.NewReader(artifact.Bytes()))
		require.NoError(t, err, "artifact should be a valid PNG image")
		assert.Equal(t, wantSide, img.Bounds().Dx())
		assert.Equal(t, wantSide, img.Bounds().Dy())
	})

	t.Run("supports a zero border", func(t *testing.T) {
		t.Parallel()
		req := validRequest()
		req.Border = 0
		req.BoxSize = 3

		artifact, err := qrgen.Generate(req)

		require.NoError(t, err)
		img, err := png.Decode(bytes.NewReader(artifact.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, artifact.Modules*3, img.Bounds().Dx())
	})

	t.Run("defaults level and format when unset", func(t *testing.T) {
		t.Parallel()
		req := qrgen.Request{Payload: "HELLO", BoxSize: 4, Border: 1}

		artifact, err := qrgen.Generate(req)

		require.NoError(t, err)
		assert.Equal(t, qrgen.FormatPNG, artifact.Format)
		_, err = png.Decode(bytes.NewReader(artifact.Bytes()))
		require.NoError(t, err)
	})

	t.Run("is deterministic for identical requests", func(t *testing.T) {
		t.Parallel()
		req := validRequest()

		first, err := qrgen.Generate(req)
		require.NoError(t, err)
		second, err := qrgen.Generate(req)
		require.NoError(t, err)

		assert.Equal(t, first.Bytes(), second.Bytes())
	})
}

func TestArtifactSave(t *testing.T) {
	t.Parallel()

	t.Run("writes the artifact bytes to disk", func(t *testing.T) {
		t.Parallel()
		artifact, err := qrgen.Generate(validRequest())
		require.NoError(t, err)

		path := filepath.Join(t.TempDir(), "out", "qr.png")
		require.NoError(t, artifact.Save(path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, artifact.Bytes(), data)
	})

	t.Run("writes via WriteTo", func(t *testing.T) {
		t.Parallel()
		artifact, err := qrgen.Generate(validRequest())
		require.NoError(t, err)

		var buf bytes.Buffer
		n, err := artifact.WriteTo(&buf)

		require.NoError(t, err)
		assert.Equal(t, int64(len(artifact.Bytes())), n)
		assert.Equal(t, artifact.Bytes(), buf.Bytes())
	})
}
