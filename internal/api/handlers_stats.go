package api

import (
	"net/http"

	"github.com/dgallion1/clausetree/internal/pipeline"
)

func (s *Server) handleOutlineStats(w http.ResponseWriter, r *http.Request) {
	byStatus := make(map[pipeline.JobStatus]int)
	for _, j := range s.orchestrator.Jobs() {
		byStatus[j.Status]++
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reconstruct": s.orchestrator.Stats().Snapshot(),
		"queue_depth": s.orchestrator.QueueDepth(),
		"jobs":        byStatus,
	})
}
