package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dgallion1/clausetree/internal/doctree"
	"github.com/dgallion1/clausetree/internal/outline"
)

// outlineRequest is the body of POST /api/outline.
type outlineRequest struct {
	Lines  []doctree.Line  `json:"lines"`
	Tables []doctree.Table `json:"tables"`
}

// handleOutline reconstructs an outline synchronously from extracted lines.
// With ?flat=true the response is the flattened clause rows instead of the tree.
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var req outlineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	doc, err := s.orchestrator.Reconstructor().Reconstruct(req.Lines, req.Tables)
	if errors.Is(err, outline.ErrPageOrder) {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		jsonError(w, "reconstruct: "+err.Error(), http.StatusInternalServerError)
		return
	}
	s.orchestrator.Stats().Record(time.Since(start))

	if r.URL.Query().Get("flat") == "true" {
		writeJSON(w, http.StatusOK, map[string]any{"rows": outline.Flatten(doc)})
		return
	}
	writeJSON(w, http.StatusOK, doc)
}
