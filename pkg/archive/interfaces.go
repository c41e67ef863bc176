package archive

import (
	"mastoarchiver/internal/downloader"
	"mastoarchiver/pkg/ledger"
	"mastoarchiver/pkg/mastodon"
)

// FeedFetcher fetches one page of a newest-first timeline
type FeedFetcher interface {
	FetchTimeline(endpoint, maxID string, limit int) ([]mastodon.Status, error)
}

// Ledger is the dedup and boundary state consulted and committed by the engine
type Ledger interface {
	Exists(postID string, category ledger.Category) (bool, error)
	MostRecentID(category ledger.Category) (string, error)
	Commit(rec ledger.Record) error
}

// RecordStore persists structured post records and resolves media paths
type RecordStore interface {
	MediaRelPath(filename string) string
	SaveRecord(postID string, record interface{}) error
}

// MediaDownloader runs all attachment downloads for one post to completion
type MediaDownloader interface {
	Run(jobs []downloader.Job) []downloader.Result
}
