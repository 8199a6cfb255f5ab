package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/linkrift/linkrift/internal/audit"
	"github.com/linkrift/linkrift/internal/links"
	"go.uber.org/zap"
)

// Redirect resolves a short code to its original URL. Deactivated and
// expired links answer 404.
func (h *LinkHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	link, err := h.service.Resolve(ctx, links.Code(req.Code))
	if err != nil {
		if errors.Is(err, links.ErrNotFound) {
			return nil, huma.Error404NotFound("short link not found")
		}

		return nil, huma.Error500InternalServerError("failed to resolve short link")
	}

	resp := &RedirectResponse{
		Status: http.StatusMovedPermanently,
	}
	resp.Headers.Location = link.OriginalURL

	return resp, nil
}

// ListLinks returns all links owned by a user, newest first.
func (h *LinkHandler) ListLinks(ctx context.Context, req *ListLinksRequest) (*ListLinksResponse, error) {
	owned, err := h.service.Links(ctx, req.UserID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list links")
	}

	resp := &ListLinksResponse{}
	resp.Body.Links = make([]LinkSummary, 0, len(owned))

	for _, link := range owned {
		resp.Body.Links = append(resp.Body.Links, LinkSummary{
			ID:          link.ID.String(),
			ShortCode:   string(link.Code),
			ShortURL:    fmt.Sprintf("%s/%s", h.baseURL, link.Code),
			OriginalURL: link.OriginalURL,
			CreatedAt:   link.CreatedAt,
			ExpiresAt:   link.ExpiresAt,
			Active:      link.Active,
		})
	}

	return resp, nil
}

// DeactivateLink clears the active flag on a link the user owns.
func (h *LinkHandler) DeactivateLink(
	ctx context.Context, req *DeactivateLinkRequest,
) (*DeactivateLinkResponse, error) {
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid link id")
	}

	if err := h.service.Deactivate(ctx, req.Body.UserID, id); err != nil {
		if errors.Is(err, links.ErrNotFound) {
			return nil, huma.Error404NotFound("link not found")
		}

		return nil, huma.Error500InternalServerError("failed to deactivate link")
	}

	meta := RequestMetaFromContext(ctx)
	event := &audit.LinkDeactivatedEvent{
		UserID:        req.Body.UserID,
		LinkID:        req.ID,
		DeactivatedAt: time.Now(),
		ClientIP:      meta.ClientIP,
	}

	if err := h.publishDeactivated(event); err != nil {
		h.logger.Error("failed to publish audit event",
			zap.String("link_id", req.ID),
			zap.Error(err),
		)
	}

	resp := &DeactivateLinkResponse{}
	resp.Body.Deactivated = true

	return resp, nil
}

// ExtendExpiry sets a new expiry timestamp on a link. PRO plan only.
func (h *LinkHandler) ExtendExpiry(
	ctx context.Context, req *ExtendExpiryRequest,
) (*ExtendExpiryResponse, error) {
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("invalid link id")
	}

	err = h.service.ExtendExpiry(ctx, req.Body.UserID, id, req.Body.ExpiresAt)

	switch {
	case err == nil:
	case errors.Is(err, links.ErrInvalidExpiry):
		return nil, huma.Error400BadRequest("expiry timestamp must be in the future")
	case errors.Is(err, links.ErrPlanRequired):
		return nil, huma.Error403Forbidden("expiry extension requires the PRO plan")
	case errors.Is(err, links.ErrNotFound):
		return nil, huma.Error404NotFound("link not found")
	default:
		return nil, huma.Error500InternalServerError("failed to extend expiry")
	}

	resp := &ExtendExpiryResponse{}
	resp.Body.ExpiresAt = req.Body.ExpiresAt

	return resp, nil
}

// Usage reports a user's link creation quota for the current month.
func (h *LinkHandler) Usage(ctx context.Context, req *UsageRequest) (*UsageResponse, error) {
	usage, err := h.service.UsageFor(ctx, req.UserID)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to read usage")
	}

	resp := &UsageResponse{}
	resp.Body.Used = usage.Used
	resp.Body.Limit = usage.Limit
	resp.Body.Remaining = usage.Remaining
	resp.Body.Plan = string(usage.Plan)

	return resp, nil
}
