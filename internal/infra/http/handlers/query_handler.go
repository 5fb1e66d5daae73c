package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/kundanj/leadpilot/internal/infra/http/middleware"
)

// QueryAgent is the natural-language-to-SQL collaborator.
type QueryAgent interface {
	Run(ctx context.Context, question string) ([]map[string]any, error)
}

type QueryHandler struct {
	Agent QueryAgent
}

func NewQueryHandler(agent QueryAgent) *QueryHandler {
	return &QueryHandler{Agent: agent}
}

type queryRequest struct {
	Query string `json:"query"`
}

// HandleQuery always answers 200; failures are reported in the body so the
// client gets a uniform envelope.
func (h *QueryHandler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.RecordQuery("error")
		writeJSON(w, http.StatusOK, map[string]any{"status": "error", "message": "invalid JSON: " + err.Error()})
		return
	}
	if req.Query == "" {
		middleware.RecordQuery("error")
		writeJSON(w, http.StatusOK, map[string]any{"status": "error", "message": "query is required"})
		return
	}

	rows, err := h.Agent.Run(r.Context(), req.Query)
	if err != nil {
		zap.L().Warn("query agent failed", zap.Error(err))
		middleware.RecordQuery("error")
		writeJSON(w, http.StatusOK, map[string]any{"status": "error", "message": err.Error()})
		return
	}

	middleware.RecordQuery("success")
	writeJSON(w, http.StatusOK, map[string]any{"status": "success", "data": rows})
}
