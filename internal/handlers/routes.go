package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all link routes.
//
// POST /api/links is a plain chi route (see LinkHandler.CreateLink); the
// writeLimit middleware rate limits it per client. Everything else goes
// through the API framework.
func RegisterRoutes(
	api huma.API,
	router chi.Router,
	h *LinkHandler,
	writeLimit func(http.Handler) http.Handler,
) {
	router.With(writeLimit).Post("/api/links", h.CreateLink)

	huma.Register(api, huma.Operation{
		OperationID: "redirect",
		Method:      http.MethodGet,
		Path:        "/{code}",
		Summary:     "Redirect to original URL",
		Description: "Redirects to the original URL behind an active, unexpired short code.",
		Tags:        []string{"Links"},
	}, h.Redirect)

	huma.Register(api, huma.Operation{
		OperationID: "list-links",
		Method:      http.MethodGet,
		Path:        "/api/users/{userId}/links",
		Summary:     "List a user's links",
		Tags:        []string{"Links"},
	}, h.ListLinks)

	huma.Register(api, huma.Operation{
		OperationID: "deactivate-link",
		Method:      http.MethodPost,
		Path:        "/api/links/{id}/deactivate",
		Summary:     "Deactivate a link",
		Tags:        []string{"Links"},
	}, h.DeactivateLink)

	huma.Register(api, huma.Operation{
		OperationID: "extend-expiry",
		Method:      http.MethodPost,
		Path:        "/api/links/{id}/expiry",
		Summary:     "Extend a link's expiry",
		Description: "Sets a new expiry timestamp on a link. Available on the PRO plan.",
		Tags:        []string{"Links"},
	}, h.ExtendExpiry)

	huma.Register(api, huma.Operation{
		OperationID: "quota-usage",
		Method:      http.MethodGet,
		Path:        "/api/users/{userId}/usage",
		Summary:     "Monthly quota usage",
		Tags:        []string{"Quota"},
	}, h.Usage)
}
