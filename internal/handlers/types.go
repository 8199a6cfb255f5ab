package handlers

import "time"

// createLinkRequest is the JSON body of POST /api/links.
type createLinkRequest struct {
	OriginalURL string `json:"originalUrl"`
	UserID      string `json:"userId"`
}

// createLinkResponse is the JSON body of a successful POST /api/links.
type createLinkResponse struct {
	ShortCode string `json:"shortCode"`
	Existing  bool   `json:"existing"`
	Counted   bool   `json:"counted"`
}

// errorResponse is the JSON body of a failed POST /api/links. Limit is set
// only on quota-exceeded responses so the client can prompt an upgrade.
type errorResponse struct {
	Error string `json:"error"`
	Limit int    `json:"limit,omitempty"`
}

// RedirectRequest is the request for redirecting a short code.
type RedirectRequest struct {
	Code string `doc:"The short code" example:"V1StGXR8" path:"code"`
}

// RedirectResponse redirects to the original URL.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The original URL" header:"Location"`
	}
}

// LinkSummary is one link in a user's link listing.
type LinkSummary struct {
	ID          string     `doc:"Link identifier"            json:"id"`
	ShortCode   string     `doc:"The short code"             json:"shortCode"`
	ShortURL    string     `doc:"The full short URL"         json:"shortUrl"`
	OriginalURL string     `doc:"The original URL"           json:"originalUrl"`
	CreatedAt   time.Time  `doc:"Creation timestamp"         json:"createdAt"`
	ExpiresAt   *time.Time `doc:"Optional expiry timestamp"  json:"expiresAt,omitempty"`
	Active      bool       `doc:"Whether the link is active" json:"active"`
}

// ListLinksRequest is the request for listing a user's links.
type ListLinksRequest struct {
	UserID string `doc:"The owning user" path:"userId"`
}

// ListLinksResponse is the response for a user's link listing.
type ListLinksResponse struct {
	Body struct {
		Links []LinkSummary `doc:"Links owned by the user, newest first" json:"links"`
	}
}

// DeactivateLinkRequest is the request for deactivating a link.
type DeactivateLinkRequest struct {
	ID   string `doc:"Link identifier" path:"id"`
	Body struct {
		UserID string `doc:"The owning user" json:"userId"`
	}
}

// DeactivateLinkResponse confirms a deactivation.
type DeactivateLinkResponse struct {
	Body struct {
		Deactivated bool `json:"deactivated"`
	}
}

// ExtendExpiryRequest is the request for extending a link's expiry.
type ExtendExpiryRequest struct {
	ID   string `doc:"Link identifier" path:"id"`
	Body struct {
		UserID    string    `doc:"The owning user"          json:"userId"`
		ExpiresAt time.Time `doc:"New expiry, RFC 3339"     json:"expiresAt"`
	}
}

// ExtendExpiryResponse confirms an expiry extension.
type ExtendExpiryResponse struct {
	Body struct {
		ExpiresAt time.Time `json:"expiresAt"`
	}
}

// UsageRequest is the request for a user's monthly quota usage.
type UsageRequest struct {
	UserID string `doc:"The user" path:"userId"`
}

// UsageResponse reports a user's monthly quota consumption.
type UsageResponse struct {
	Body struct {
		Used      int64  `doc:"Links created this month"        json:"used"`
		Limit     int    `doc:"Monthly limit for the plan"      json:"limit"`
		Remaining int64  `doc:"Creations left this month"       json:"remaining"`
		Plan      string `doc:"Subscription plan"               json:"plan"`
	}
}
