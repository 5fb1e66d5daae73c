package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kundanj/leadpilot/internal/infra/http/middleware"
	"github.com/kundanj/leadpilot/internal/usecase"
)

type LeadHandler struct {
	UC          *usecase.ProcessLeadUseCase
	rateLimiter *RateLimiter
}

func NewLeadHandler(uc *usecase.ProcessLeadUseCase) *LeadHandler {
	return &LeadHandler{
		UC:          uc,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 req/min per IP
	}
}

type extractLeadResponse struct {
	LeadData       any    `json:"lead_data"`
	EmailMessageID string `json:"email_message_id"`
	CRMResponse    any    `json:"crm_response"`
}

type validationResponse struct {
	Error         string   `json:"error"`
	MissingFields []string `json:"missing_fields"`
	LeadData      any      `json:"lead_data"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

// HandleExtract drives the full pipeline for one request.
func (h *LeadHandler) HandleExtract(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(getClientIP(r)) {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Detail: "too many requests, please try again later"})
		return
	}

	var input usecase.ProcessLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "invalid JSON: " + err.Error()})
		return
	}
	if input.UserText == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: "user_text is required"})
		return
	}

	result, err := h.UC.Execute(r.Context(), input)
	if err != nil {
		if se, ok := usecase.AsStageError(err); ok {
			zap.L().Warn("lead pipeline failed",
				zap.String("stage", se.Stage),
				zap.String("message", se.Message),
			)
			middleware.RecordLeadProcessed(se.Stage + "_error")
			writeJSON(w, http.StatusBadRequest, errorResponse{Detail: se.Error()})
			return
		}
		zap.L().Error("lead pipeline failed unexpectedly", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: "internal error"})
		return
	}

	if len(result.MissingFields) > 0 {
		middleware.RecordLeadProcessed("validation_gap")
		writeJSON(w, http.StatusOK, validationResponse{
			Error:         "Missing required fields in lead data",
			MissingFields: result.MissingFields,
			LeadData:      result.Lead,
		})
		return
	}

	middleware.RecordLeadProcessed("ok")
	writeJSON(w, http.StatusOK, extractLeadResponse{
		LeadData:       result.Lead,
		EmailMessageID: result.EmailMessageID,
		CRMResponse:    result.CRMResponse,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
