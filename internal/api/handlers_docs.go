package api

import (
	"net/http"

	"github.com/dgallion1/clausetree/internal/pipeline"
	"github.com/go-chi/chi/v5"
)

// handleListDocuments lists the stored document metadata for a user.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		jsonError(w, "user_id query parameter is required", http.StatusBadRequest)
		return
	}

	keys := pipeline.Keys{Prefix: s.cfg.PathstorePrefix, UserID: userID}
	children, err := s.orchestrator.PathstoreClient().ListChildren(r.Context(), keys.Docs(), 10000)
	if err != nil {
		jsonError(w, "failed to list documents: "+err.Error(), http.StatusInternalServerError)
		return
	}

	docs := make([]map[string]any, 0)
	for _, child := range children {
		if pipeline.LastSegment(child.Key) == "meta" {
			docs = append(docs, map[string]any{
				"key":   child.Key,
				"value": child.Value,
			})
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

// handleDeleteDocument deletes a document's clauses, chunks, glossary, meta
// and hash index entry.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		jsonError(w, "user_id query parameter is required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	ps := s.orchestrator.PathstoreClient()
	keys := pipeline.Keys{Prefix: s.cfg.PathstorePrefix, UserID: userID}

	meta, err := ps.GetNode(ctx, keys.Meta(docID))
	if err != nil {
		jsonError(w, "failed to read document: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if meta == nil {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}

	if err := ps.DeleteNode(ctx, keys.Doc(docID), true); err != nil {
		jsonError(w, "failed to delete document: "+err.Error(), http.StatusInternalServerError)
		return
	}

	hashDeleted := false
	if m, ok := meta.Value.(map[string]any); ok {
		if hash, _ := m["content_hash"].(string); hash != "" {
			if err := ps.DeleteNode(ctx, keys.HashEntry(hash, docID), false); err != nil {
				s.log.Warn("hash index delete failed", "doc_id", docID, "error", err)
			} else {
				hashDeleted = true
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"doc_id":             docID,
		"deleted":            true,
		"hash_index_deleted": hashDeleted,
	})
}
