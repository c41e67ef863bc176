package mastodon

import (
	"strings"
	"testing"
)

func TestTimelineURLFirstPage(t *testing.T) {
	url := TimelineURL("https://mastodon.example", FavouritesEndpoint, "", 40)
	want := "https://mastodon.example/api/v1/favourites?limit=40"
	if url != want {
		t.Errorf("TimelineURL = %q, want %q", url, want)
	}
}

func TestTimelineURLWithCursor(t *testing.T) {
	url := TimelineURL("https://mastodon.example", BookmarksEndpoint, "123456", 40)
	if !strings.Contains(url, "/api/v1/bookmarks?") {
		t.Errorf("expected bookmarks endpoint in %q", url)
	}
	if !strings.Contains(url, "max_id=123456") {
		t.Errorf("expected max_id cursor in %q", url)
	}
	if !strings.Contains(url, "limit=40") {
		t.Errorf("expected limit in %q", url)
	}
}

func TestTimelineURLTrimsTrailingSlash(t *testing.T) {
	url := TimelineURL("https://mastodon.example/", FavouritesEndpoint, "", 40)
	if strings.Contains(url, "example//api") {
		t.Errorf("base URL trailing slash not trimmed: %q", url)
	}
}

func TestTimelineURLLimitBounds(t *testing.T) {
	tests := []struct {
		limit int
		want  string
	}{
		{0, "limit=40"},
		{-5, "limit=40"},
		{100, "limit=40"},
		{20, "limit=20"},
	}

	for _, tt := range tests {
		url := TimelineURL("https://mastodon.example", FavouritesEndpoint, "", tt.limit)
		if !strings.Contains(url, tt.want) {
			t.Errorf("TimelineURL(limit=%d) = %q, want %s", tt.limit, url, tt.want)
		}
	}
}
