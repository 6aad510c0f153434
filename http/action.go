package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fwojciec/doctext"
)

// ActionHandler exposes the pipeline as a host-style action endpoint:
//
//	POST /api/3/action/process_document {"resource_id": "..."}
//
// The response is always {"success": bool, "message": string}; internal
// failures become a single descriptive message, never a stack trace.
type ActionHandler struct {
	processor doctext.Processor
	logger    *slog.Logger
}

// NewActionHandler creates an ActionHandler around the given processor.
func NewActionHandler(processor doctext.Processor, logger *slog.Logger) *ActionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActionHandler{processor: processor, logger: logger}
}

// Router returns the HTTP routes of the action API.
func (h *ActionHandler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post("/api/3/action/process_document", h.processDocument)
	return r
}

type actionRequest struct {
	ResourceID string `json:"resource_id"`
}

type actionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *ActionHandler) processDocument(w http.ResponseWriter, r *http.Request) {
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ResourceID == "" {
		writeJSON(w, http.StatusBadRequest, actionResponse{
			Success: false,
			Message: "Missing 'resource_id' in request data.",
		})
		return
	}

	err := h.processor.ProcessResource(r.Context(), req.ResourceID)
	switch doctext.ErrorCode(err) {
	case "":
		writeJSON(w, http.StatusOK, actionResponse{
			Success: true,
			Message: "Text extraction completed for resource " + req.ResourceID + ".",
		})
	case doctext.EUNSUPPORTED:
		// An intentional skip, not a failure.
		writeJSON(w, http.StatusOK, actionResponse{
			Success: true,
			Message: "Resource " + req.ResourceID + " skipped: " + doctext.ErrorMessage(err),
		})
	case doctext.ENOTFOUND:
		writeJSON(w, http.StatusNotFound, actionResponse{
			Success: false,
			Message: doctext.ErrorMessage(err),
		})
	default:
		h.logger.Error("process action failed", "resource_id", req.ResourceID, "err", err)
		writeJSON(w, http.StatusConflict, actionResponse{
			Success: false,
			Message: doctext.ErrorMessage(err),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
