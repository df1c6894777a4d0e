package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/D4v4N/qrtool/qrgen"
	"github.com/D4v4N/qrtool/store"
)

// requestFromValues builds a generation request from form-style parameters,
// filling unset fields from the configured defaults.
func (s *Server) requestFromValues(get func(string) string) (qrgen.Request, error) {
	req := qrgen.Request{
		Payload: get("text"),
		BoxSize: s.Defaults.BoxSize,
		Border:  s.Defaults.Border,
	}

	level, err := qrgen.ParseLevel(firstNonEmpty(get("level"), s.Defaults.Level))
	if err != nil {
		return qrgen.Request{}, err
	}
	req.Level = level

	format, err := qrgen.ParseFormat(firstNonEmpty(get("format"), s.Defaults.Format))
	if err != nil {
		return qrgen.Request{}, err
	}
	req.Format = format

	// svg_method is only meaningful for svg output; for png whatever the
	// form sent is ignored.
	if format == qrgen.FormatSVG {
		method, err := qrgen.ParseSVGMethod(firstNonEmpty(get("svg_method"), s.Defaults.SVGMethod))
		if err != nil {
			return qrgen.Request{}, err
		}
		req.SVGMethod = method
	}

	if v := get("box_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return qrgen.Request{}, fmt.Errorf("%w: box_size %q is not a number", qrgen.ErrInvalidInput, v)
		}
		req.BoxSize = n
	}
	if v := get("border"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return qrgen.Request{}, fmt.Errorf("%w: border %q is not a number", qrgen.ErrInvalidInput, v)
		}
		req.Border = n
	}

	return req, nil
}

// handlePreview renders the requested QR in memory and streams it back with
// the matching image Content-Type. Nothing is written to disk.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req, err := s.requestFromValues(q.Get)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	artifact, err := qrgen.Generate(req)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	w.Header().Set("Content-Type", artifact.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	artifact.WriteTo(w)
}

type generateRequest struct {
	Text      string `json:"text"`
	Level     string `json:"level"`
	BoxSize   int    `json:"box_size"`
	Border    *int   `json:"border"`
	Format    string `json:"format"`
	SVGMethod string `json:"svg_method"`
	Filename  string `json:"filename"`
}

type generateResponse struct {
	ID      string `json:"id,omitempty"`
	Path    string `json:"path"`
	Modules int    `json:"modules"`
	Side    int    `json:"side"`
}

// handleGenerate renders the requested QR and saves it under the configured
// output directory, recording the generation in history when enabled.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var body generateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	req, err := s.requestFromValues(func(key string) string {
		switch key {
		case "text":
			return body.Text
		case "level":
			return body.Level
		case "format":
			return body.Format
		case "svg_method":
			return body.SVGMethod
		case "box_size":
			if body.BoxSize != 0 {
				return strconv.Itoa(body.BoxSize)
			}
		case "border":
			if body.Border != nil {
				return strconv.Itoa(*body.Border)
			}
		}
		return ""
	})
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	artifact, err := qrgen.Generate(req)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	name := body.Filename
	if name == "" {
		name = "qr_output"
	}
	// Keep the file inside OutputDir regardless of what the client sent.
	name = filepath.Base(name)
	path := filepath.Join(s.OutputDir, ensureExtension(name, req.Format))

	if err := artifact.Save(path); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := generateResponse{Path: path, Modules: artifact.Modules, Side: artifact.Side}
	if s.Store != nil {
		rec := store.Generation{
			Payload:    req.Payload,
			Level:      string(req.Level),
			Format:     string(req.Format),
			BoxSize:    req.BoxSize,
			Border:     req.Border,
			Side:       artifact.Side,
			OutputPath: path,
		}
		if req.Format == qrgen.FormatSVG {
			rec.SVGMethod = string(req.SVGMethod)
		}
		if err := s.Store.Add(&rec); err != nil {
			s.Log.Warn("record generation", "error", err)
		} else {
			resp.ID = rec.ID
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// ensureExtension forces the file extension to match the output format, as
// a mismatched extension would save one encoding under the other's name.
func ensureExtension(name string, format qrgen.Format) string {
	want := "." + string(format)
	if strings.EqualFold(filepath.Ext(name), want) {
		return name
	}
	return strings.TrimSuffix(name, filepath.Ext(name)) + want
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
