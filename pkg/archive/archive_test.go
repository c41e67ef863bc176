package archive

import (
	"fmt"
	"strconv"

	"mastoarchiver/internal/downloader"
	archerrors "mastoarchiver/pkg/errors"
	"mastoarchiver/pkg/ledger"
	"mastoarchiver/pkg/mastodon"
)

// fakeFeed serves a fixed newest-first feed the way the Mastodon API pages it
type fakeFeed struct {
	statuses   []mastodon.Status // newest first
	fetchCalls int
	failAfter  int   // fail fetches after this many calls (0 = never)
	err        error // error to return when failing
	infinite   bool  // serve synthetic full pages forever
}

func (f *fakeFeed) FetchTimeline(endpoint, maxID string, limit int) ([]mastodon.Status, error) {
	f.fetchCalls++
	if f.failAfter > 0 && f.fetchCalls > f.failAfter {
		err := f.err
		if err == nil {
			err = archerrors.New(archerrors.ErrorTypeServerError, "injected failure")
		}
		return nil, err
	}

	if f.infinite {
		page := make([]mastodon.Status, limit)
		base := (f.fetchCalls - 1) * limit
		for i := range page {
			page[i] = mastodon.Status{ID: fmt.Sprintf("inf-%d", base+i)}
		}
		return page, nil
	}

	start := 0
	if maxID != "" {
		for i, s := range f.statuses {
			if s.ID == maxID {
				start = i + 1
				break
			}
		}
	}
	if start >= len(f.statuses) {
		return nil, nil
	}

	end := start + limit
	if end > len(f.statuses) {
		end = len(f.statuses)
	}
	return f.statuses[start:end], nil
}

// fakeLedger is an in-memory ledger with injectable failures
type fakeLedger struct {
	rows         map[string]ledger.Record // key: id|category
	commits      []string
	existsErr    error
	recentErr    error
	recentID     string // forced MostRecentID, "" = derive from rows
	commitErr    error
	commitErrFor map[string]bool // fail commit for specific post ids
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		rows:         make(map[string]ledger.Record),
		commitErrFor: make(map[string]bool),
	}
}

func key(postID string, category ledger.Category) string {
	return postID + "|" + string(category)
}

func (l *fakeLedger) Exists(postID string, category ledger.Category) (bool, error) {
	if l.existsErr != nil {
		return false, l.existsErr
	}
	_, ok := l.rows[key(postID, category)]
	return ok, nil
}

func (l *fakeLedger) MostRecentID(category ledger.Category) (string, error) {
	if l.recentErr != nil {
		return "", l.recentErr
	}
	if l.recentID != "" {
		return l.recentID, nil
	}
	// Highest numeric id stands in for "latest archived_at" in tests
	best := ""
	for _, rec := range l.rows {
		if rec.Category != category {
			continue
		}
		if best == "" || numericLess(best, rec.PostID) {
			best = rec.PostID
		}
	}
	return best, nil
}

func numericLess(a, b string) bool {
	ai, _ := strconv.Atoi(a)
	bi, _ := strconv.Atoi(b)
	return ai < bi
}

func (l *fakeLedger) Commit(rec ledger.Record) error {
	if l.commitErr != nil {
		return l.commitErr
	}
	if l.commitErrFor[rec.PostID] {
		return archerrors.New(archerrors.ErrorTypeLedger, "injected commit failure")
	}
	k := key(rec.PostID, rec.Category)
	if _, ok := l.rows[k]; ok {
		return nil // idempotent insert
	}
	l.rows[k] = rec
	l.commits = append(l.commits, rec.PostID)
	return nil
}

// fakeStore records persisted post records in memory
type fakeStore struct {
	records map[string]*ArchivedPost
	saveErr map[string]bool // fail saves for specific post ids
	saves   []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		records: make(map[string]*ArchivedPost),
		saveErr: make(map[string]bool),
	}
}

func (s *fakeStore) MediaRelPath(filename string) string {
	return "media/" + filename
}

func (s *fakeStore) SaveRecord(postID string, record interface{}) error {
	if s.saveErr[postID] {
		return fmt.Errorf("disk full")
	}
	s.records[postID] = record.(*ArchivedPost)
	s.saves = append(s.saves, postID)
	return nil
}

// fakePool resolves downloads instantly, failing the URLs told to fail
type fakePool struct {
	failURLs map[string]bool
	jobs     []downloader.Job
}

func newFakePool() *fakePool {
	return &fakePool{failURLs: make(map[string]bool)}
}

func (p *fakePool) Run(jobs []downloader.Job) []downloader.Result {
	p.jobs = append(p.jobs, jobs...)
	results := make([]downloader.Result, len(jobs))
	for i, job := range jobs {
		results[i] = downloader.Result{Job: job, Success: true}
		if p.failURLs[job.URL] {
			results[i].Success = false
			results[i].Error = archerrors.New(archerrors.ErrorTypeNetwork, "timeout")
		}
	}
	return results
}

// newestFirst builds a feed of numeric-id statuses from high to low
func newestFirst(from, to int) []mastodon.Status {
	var out []mastodon.Status
	for id := from; id >= to; id-- {
		out = append(out, mastodon.Status{
			ID:      strconv.Itoa(id),
			URL:     fmt.Sprintf("https://mastodon.example/@alice/%d", id),
			Account: mastodon.Account{Acct: "alice"},
		})
	}
	return out
}

func ids(statuses []mastodon.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = s.ID
	}
	return out
}
