package api

import (
	"net/http"
	"strconv"

	"github.com/D4v4N/qrtool/store"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// handleHistory returns recent generations, newest first. Supports
// ?limit=N and ?q=substring.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		writeError(w, http.StatusNotFound, "history is disabled")
		return
	}

	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	var (
		gens []store.Generation
		err  error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		gens, err = s.Store.Search(q, limit)
	} else {
		gens, err = s.Store.Recent(limit)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if gens == nil {
		gens = []store.Generation{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":       len(gens),
		"generations": gens,
	})
}
