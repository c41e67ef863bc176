package archive

import (
	"time"

	"mastoarchiver/pkg/ledger"
	"mastoarchiver/pkg/logger"
	"mastoarchiver/pkg/mastodon"
)

// Paginator walks a newest-first timeline page by page and collects the posts
// that lie above the previously-archived boundary.
type Paginator struct {
	fetcher   FeedFetcher
	ledger    Ledger
	pageSize  int
	maxPages  int
	pageDelay time.Duration
	logger    logger.Logger
}

// NewPaginator creates a boundary-aware paginator
func NewPaginator(fetcher FeedFetcher, ldg Ledger, pageSize, maxPages int, pageDelay time.Duration, log logger.Logger) *Paginator {
	if pageSize <= 0 {
		pageSize = mastodon.DefaultPageLimit
	}
	if maxPages <= 0 {
		maxPages = 100
	}
	if log == nil {
		log = logger.GetLogger()
	}

	return &Paginator{
		fetcher:   fetcher,
		ledger:    ldg,
		pageSize:  pageSize,
		maxPages:  maxPages,
		pageDelay: pageDelay,
		logger:    log,
	}
}

// CollectNew returns the posts newer than the last sync boundary for a
// category, ordered oldest-first so archiving advances the boundary
// monotonically. A fetch failure or the end of the feed ends collection
// gracefully; only ledger errors are returned, because without the ledger
// the boundary cannot be trusted.
func (p *Paginator) CollectNew(endpoint string, category ledger.Category) ([]mastodon.Status, error) {
	boundaryID, err := p.ledger.MostRecentID(category)
	if err != nil {
		return nil, err
	}

	p.logger.InfoWithFields("starting pagination", map[string]interface{}{
		"category":    string(category),
		"boundary_id": boundaryID,
	})

	var collected []mastodon.Status
	maxID := ""
	pagesProcessed := 0

	for pagesProcessed < p.maxPages {
		page, err := p.fetcher.FetchTimeline(endpoint, maxID, p.pageSize)
		if err != nil {
			// Transport and decode failures end the walk; whatever was
			// collected so far is still archived this run.
			p.logger.WarnWithFields("page fetch failed, stopping pagination", map[string]interface{}{
				"category": string(category),
				"max_id":   maxID,
				"error":    err.Error(),
			})
			break
		}
		if len(page) == 0 {
			p.logger.InfoWithFields("no more posts returned, stopping pagination", map[string]interface{}{
				"category": string(category),
			})
			break
		}

		pagesProcessed++
		p.logger.DebugWithFields("processing page", map[string]interface{}{
			"category": string(category),
			"page":     pagesProcessed,
			"count":    len(page),
		})

		reachedBoundary := false
		for _, status := range page {
			if boundaryID != "" && status.ID == boundaryID {
				p.logger.InfoWithFields("reached previously archived post, stopping", map[string]interface{}{
					"category": string(category),
					"post_id":  status.ID,
				})
				reachedBoundary = true
				break
			}

			// The boundary marker can miss posts archived out of order, e.g.
			// after a partial prior run; the per-post ledger check keeps those
			// from being collected twice.
			exists, err := p.ledger.Exists(status.ID, category)
			if err != nil {
				return nil, err
			}
			if !exists {
				collected = append(collected, status)
			}
		}

		if reachedBoundary {
			break
		}

		if len(page) < p.pageSize {
			p.logger.InfoWithFields("received partial page, reached end of feed", map[string]interface{}{
				"category": string(category),
				"count":    len(page),
			})
			break
		}

		maxID = page[len(page)-1].ID

		if p.pageDelay > 0 {
			time.Sleep(p.pageDelay)
		}
	}

	if pagesProcessed >= p.maxPages {
		p.logger.WarnWithFields("reached pagination safety cap", map[string]interface{}{
			"category":  string(category),
			"max_pages": p.maxPages,
			"collected": len(collected),
		})
	}

	p.logger.InfoWithFields("pagination complete", map[string]interface{}{
		"category":  string(category),
		"pages":     pagesProcessed,
		"new_posts": len(collected),
	})

	// Reverse so the oldest post is archived first
	for i, j := 0, len(collected)-1; i < j; i, j = i+1, j-1 {
		collected[i], collected[j] = collected[j], collected[i]
	}

	return collected, nil
}
