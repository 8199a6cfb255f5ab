package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/linkrift/linkrift/internal/audit"
	"github.com/linkrift/linkrift/internal/links"
	"github.com/linkrift/linkrift/internal/messaging"
	"github.com/linkrift/linkrift/internal/quota"
	"go.uber.org/zap"
)

// LinkHandler handles link creation and management operations.
type LinkHandler struct {
	service            *links.Service
	baseURL            string
	publishCreated     messaging.Publish[audit.LinkCreatedEvent]
	publishDeactivated messaging.Publish[audit.LinkDeactivatedEvent]
	logger             *zap.Logger
}

// NewLinkHandler creates a new link handler.
func NewLinkHandler(
	service *links.Service,
	baseURL string,
	publishCreated messaging.Publish[audit.LinkCreatedEvent],
	publishDeactivated messaging.Publish[audit.LinkDeactivatedEvent],
	logger *zap.Logger,
) *LinkHandler {
	return &LinkHandler{
		service:            service,
		baseURL:            baseURL,
		publishCreated:     publishCreated,
		publishDeactivated: publishDeactivated,
		logger:             logger,
	}
}

// CreateLink implements POST /api/links.
//
// This endpoint writes its JSON bodies directly instead of going through
// the API framework: the response contract is fixed, including the exact
// 400 error body, and clients match on it.
func (h *LinkHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	var req createLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})

		return
	}

	if req.OriginalURL == "" || req.UserID == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "originalUrl and userId are required"})

		return
	}

	result, err := h.service.Create(r.Context(), req.UserID, req.OriginalURL)
	if err != nil {
		h.writeCreateError(w, r, err)

		return
	}

	status := http.StatusCreated
	if result.Existing {
		status = http.StatusOK
	}

	if result.Counted {
		h.auditCreated(r, req, result)
	}

	writeJSON(w, status, createLinkResponse{
		ShortCode: string(result.Code),
		Existing:  result.Existing,
		Counted:   result.Counted,
	})
}

func (h *LinkHandler) writeCreateError(w http.ResponseWriter, r *http.Request, err error) {
	var exceeded *quota.ExceededError

	switch {
	case errors.Is(err, links.ErrMissingInput):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "originalUrl and userId are required"})
	case errors.As(err, &exceeded):
		writeJSON(w, http.StatusTooManyRequests, errorResponse{
			Error: "monthly link limit reached",
			Limit: exceeded.Limit,
		})
	case errors.Is(err, links.ErrStorageUnavailable):
		h.logger.Error("link creation failed, storage unavailable",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	default:
		h.logger.Error("link creation failed",
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func (h *LinkHandler) auditCreated(r *http.Request, req createLinkRequest, result *links.Result) {
	meta := RequestMetaFromContext(r.Context())

	event := &audit.LinkCreatedEvent{
		UserID:      req.UserID,
		ShortCode:   string(result.Code),
		OriginalURL: req.OriginalURL,
		CreatedAt:   time.Now(),
		ClientIP:    meta.ClientIP,
		UserAgent:   meta.UserAgent,
	}

	if err := h.publishCreated(event); err != nil {
		h.logger.Error("failed to publish audit event",
			zap.String("short_code", event.ShortCode),
			zap.Error(err),
		)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
