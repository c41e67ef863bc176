package mastodon

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// FavouritesEndpoint is the endpoint for the authenticated user's favourites
	FavouritesEndpoint = "/api/v1/favourites"

	// BookmarksEndpoint is the endpoint for the authenticated user's bookmarks
	BookmarksEndpoint = "/api/v1/bookmarks"

	// DefaultPageLimit is the default number of statuses to fetch per request
	DefaultPageLimit = 40

	// MaxPageLimit is the maximum page size the Mastodon API allows
	MaxPageLimit = 40
)

// TimelineURL constructs the URL for a paginated timeline fetch. maxID is the
// exclusive lower bound ("return results older than this id"); empty means the
// newest page.
func TimelineURL(baseURL, endpoint, maxID string, limit int) string {
	if limit <= 0 {
		limit = DefaultPageLimit
	} else if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	params := url.Values{}
	params.Set("limit", fmt.Sprintf("%d", limit))
	if maxID != "" {
		params.Set("max_id", maxID)
	}

	return fmt.Sprintf("%s%s?%s", strings.TrimRight(baseURL, "/"), endpoint, params.Encode())
}
