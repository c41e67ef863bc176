package archive

import (
	"time"

	"mastoarchiver/pkg/ledger"
	"mastoarchiver/pkg/mastodon"
)

// MediaFile maps one media attachment to its archived location. LocalPath is
// the archive-relative path of the downloaded blob, or the original remote
// URL when the download failed.
type MediaFile struct {
	OriginalURL string `json:"original_url"`
	LocalPath   string `json:"local_path"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// RebloggedPost is the summary of the inner status kept when a boost is archived
type RebloggedPost struct {
	ID        string           `json:"id"`
	URL       string           `json:"url"`
	Account   mastodon.Account `json:"account"`
	Content   string           `json:"content"`
	CreatedAt string           `json:"created_at"`
}

// ArchivedPost is the structured record persisted for each archived post,
// one JSON file under posts/. Created once, never rewritten after the
// ledger commit.
type ArchivedPost struct {
	ID               string                     `json:"id"`
	Type             string                     `json:"type"`
	ArchivedAt       time.Time                  `json:"archived_at"`
	URL              string                     `json:"url"`
	URI              string                     `json:"uri"`
	CreatedAt        string                     `json:"created_at"`
	Account          mastodon.Account           `json:"account"`
	Content          string                     `json:"content"`
	SpoilerText      string                     `json:"spoiler_text"`
	Visibility       string                     `json:"visibility"`
	Language         string                     `json:"language"`
	RepliesCount     int                        `json:"replies_count"`
	ReblogsCount     int                        `json:"reblogs_count"`
	FavouritesCount  int                        `json:"favourites_count"`
	MediaAttachments []mastodon.MediaAttachment `json:"media_attachments"`
	MediaFiles       []MediaFile                `json:"media_files"`
	Reblog           *RebloggedPost             `json:"reblog,omitempty"`
}

// NewArchivedPost builds the persisted record for a status. Media fields are
// filled in by the archiver after the downloads have finished.
func NewArchivedPost(status *mastodon.Status, category ledger.Category, archivedAt time.Time) *ArchivedPost {
	post := &ArchivedPost{
		ID:               status.ID,
		Type:             string(category),
		ArchivedAt:       archivedAt,
		URL:              status.URL,
		URI:              status.URI,
		CreatedAt:        status.CreatedAt,
		Account:          status.Account,
		Content:          status.Content,
		SpoilerText:      status.SpoilerText,
		Visibility:       status.Visibility,
		Language:         status.Language,
		RepliesCount:     status.RepliesCount,
		ReblogsCount:     status.ReblogsCount,
		FavouritesCount:  status.FavouritesCount,
		MediaAttachments: []mastodon.MediaAttachment{},
		MediaFiles:       []MediaFile{},
	}

	if post.Visibility == "" {
		post.Visibility = "public"
	}

	if status.Reblog != nil {
		post.Reblog = &RebloggedPost{
			ID:        status.Reblog.ID,
			URL:       status.Reblog.URL,
			Account:   status.Reblog.Account,
			Content:   status.Reblog.Content,
			CreatedAt: status.Reblog.CreatedAt,
		}
	}

	return post
}

// LedgerRecord derives the dedup ledger row for this record
func (p *ArchivedPost) LedgerRecord() ledger.Record {
	return ledger.Record{
		PostID:      p.ID,
		Category:    ledger.Category(p.Type),
		PostURL:     p.URL,
		AccountAcct: p.Account.Acct,
		CreatedAt:   p.CreatedAt,
	}
}
