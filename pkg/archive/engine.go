package archive

import (
	"time"

	"mastoarchiver/internal/downloader"
	"mastoarchiver/pkg/config"
	"mastoarchiver/pkg/ledger"
	"mastoarchiver/pkg/logger"
	"mastoarchiver/pkg/mastodon"
	"mastoarchiver/pkg/ratelimit"
	"mastoarchiver/pkg/retry"
	"mastoarchiver/pkg/storage"
)

// downloadsPerMinute caps media fetches against the remote instance
const downloadsPerMinute = 60

// CategoryResult holds the per-category outcome of a run
type CategoryResult struct {
	Category ledger.Category
	Archived int
	Failed   int
}

// Summary aggregates the outcome of a whole run
type Summary struct {
	Results []CategoryResult
}

// TotalArchived returns the number of newly archived posts across categories
func (s Summary) TotalArchived() int {
	total := 0
	for _, r := range s.Results {
		total += r.Archived
	}
	return total
}

// TotalFailed returns the number of posts that failed to archive this run
func (s Summary) TotalFailed() int {
	total := 0
	for _, r := range s.Results {
		total += r.Failed
	}
	return total
}

// Engine runs the incremental sync: pagination then per-item archiving, one
// category after the other. Everything is sequential by design; the ledger
// boundary logic assumes a single writer.
type Engine struct {
	paginator *Paginator
	archiver  *Archiver
	logger    logger.Logger
}

// NewEngine composes the sync engine from its collaborators
func NewEngine(paginator *Paginator, archiver *Archiver, log logger.Logger) *Engine {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Engine{
		paginator: paginator,
		archiver:  archiver,
		logger:    log,
	}
}

// New wires a complete engine from configuration, an API client, an open
// ledger and a storage manager
func New(cfg *config.Config, client *mastodon.Client, ldg *ledger.Ledger, store *storage.Manager, log logger.Logger) *Engine {
	if log == nil {
		log = logger.GetLogger()
	}

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = cfg.Download.RetryAttempts
	retryCfg.Logger = log

	pool := downloader.NewPool(
		cfg.Download.ConcurrentDownloads,
		client,
		store,
		ratelimit.NewTokenBucket(downloadsPerMinute, time.Minute),
		retryCfg,
		log,
	)

	paginator := NewPaginator(
		client,
		ldg,
		cfg.Pagination.PageSize,
		cfg.Pagination.MaxPages,
		cfg.Pagination.PageDelay,
		log,
	)

	archiver := NewArchiver(ldg, store, pool, log)

	return NewEngine(paginator, archiver, log)
}

// endpointFor maps a category to its API endpoint
func endpointFor(category ledger.Category) string {
	if category == ledger.CategoryBookmark {
		return mastodon.BookmarksEndpoint
	}
	return mastodon.FavouritesEndpoint
}

// Run synchronizes every tracked category and returns the aggregate summary.
// Per-item failures are logged and skipped; an error return means the run
// could not proceed at all (ledger unavailable).
func (e *Engine) Run() (Summary, error) {
	e.logger.Info("starting archival process")

	var summary Summary
	for _, category := range ledger.Categories {
		result, err := e.runCategory(category)
		if err != nil {
			return summary, err
		}
		summary.Results = append(summary.Results, result)
	}

	if total := summary.TotalArchived(); total > 0 {
		e.logger.InfoWithFields("archive complete", map[string]interface{}{
			"new_posts": total,
			"failed":    summary.TotalFailed(),
		})
	} else {
		e.logger.Info("no new posts to archive")
	}

	return summary, nil
}

// runCategory archives all new posts of one category
func (e *Engine) runCategory(category ledger.Category) (CategoryResult, error) {
	result := CategoryResult{Category: category}

	e.logger.InfoWithFields("checking for new posts", map[string]interface{}{
		"category": string(category),
	})

	newPosts, err := e.paginator.CollectNew(endpointFor(category), category)
	if err != nil {
		return result, err
	}

	for i := range newPosts {
		archived, err := e.archiver.Archive(&newPosts[i], category)
		if err != nil {
			// Recoverable: the post stays uncommitted and is retried on
			// the next run
			e.logger.ErrorWithFields("failed to archive post, skipping", map[string]interface{}{
				"category": string(category),
				"post_id":  newPosts[i].ID,
				"error":    err.Error(),
			})
			result.Failed++
			continue
		}
		if archived {
			result.Archived++
		}
	}

	e.logger.InfoWithFields("category sync finished", map[string]interface{}{
		"category": string(category),
		"archived": result.Archived,
		"failed":   result.Failed,
	})

	return result, nil
}
