// Package downloader runs the media downloads for a single post through a
// bounded worker pool. All attachments of a post are finished (or recorded as
// failed) before the caller persists the post record, so a record never
// references a download still in flight.
package downloader

import (
	"fmt"
	"io"
	"sync"
	"time"

	"mastoarchiver/pkg/logger"
	"mastoarchiver/pkg/ratelimit"
	"mastoarchiver/pkg/retry"
)

// Job represents one attachment download for a post
type Job struct {
	URL      string
	Filename string
	Index    int
}

// Result represents the outcome of a single attachment download
type Result struct {
	Job      Job
	Success  bool
	Skipped  bool
	Error    error
	Duration time.Duration
}

// MediaFetcher downloads a media file as a stream
type MediaFetcher interface {
	DownloadMedia(url string) (io.ReadCloser, error)
}

// MediaStore persists media files and answers existence checks
type MediaStore interface {
	MediaExists(filename string) bool
	SaveMedia(r io.Reader, filename string) error
}

// Pool downloads a post's attachments with bounded concurrency
type Pool struct {
	numWorkers  int
	client      MediaFetcher
	store       MediaStore
	rateLimiter ratelimit.Limiter
	retryCfg    *retry.Config
	logger      logger.Logger
}

// NewPool creates an attachment download pool
func NewPool(
	numWorkers int,
	client MediaFetcher,
	store MediaStore,
	rateLimiter ratelimit.Limiter,
	retryCfg *retry.Config,
	log logger.Logger,
) *Pool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if log == nil {
		log = logger.GetLogger()
	}

	return &Pool{
		numWorkers:  numWorkers,
		client:      client,
		store:       store,
		rateLimiter: rateLimiter,
		retryCfg:    retryCfg,
		logger:      log,
	}
}

// Run downloads all jobs and blocks until every one has finished. Results are
// returned in job order; a failed download is reported in its Result, never as
// an error from Run itself.
func (p *Pool) Run(jobs []Job) []Result {
	results := make([]Result, len(jobs))
	if len(jobs) == 0 {
		return results
	}

	workers := p.numWorkers
	if workers > len(jobs) {
		workers = len(jobs)
	}

	jobCh := make(chan int)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for idx := range jobCh {
				results[idx] = p.processJob(jobs[idx], workerID)
			}
		}(i)
	}

	for idx := range jobs {
		jobCh <- idx
	}
	close(jobCh)
	wg.Wait()

	return results
}

// processJob handles a single attachment download
func (p *Pool) processJob(job Job, workerID int) Result {
	start := time.Now()
	result := Result{Job: job}

	// Deterministic filenames make prior runs' downloads reusable
	if p.store.MediaExists(job.Filename) {
		p.logger.DebugWithFields("media already downloaded", map[string]interface{}{
			"worker_id": workerID,
			"filename":  job.Filename,
		})
		result.Success = true
		result.Skipped = true
		result.Duration = time.Since(start)
		return result
	}

	err := retry.Do(func() error {
		if p.rateLimiter != nil && !p.rateLimiter.Allow() {
			p.rateLimiter.Wait()
		}

		body, err := p.client.DownloadMedia(job.URL)
		if err != nil {
			return fmt.Errorf("download failed: %w", err)
		}
		defer body.Close()

		if err := p.store.SaveMedia(body, job.Filename); err != nil {
			return fmt.Errorf("save failed: %w", err)
		}
		return nil
	}, p.retryCfg)

	result.Duration = time.Since(start)
	if err != nil {
		result.Error = err
		p.logger.WarnWithFields("attachment download failed", map[string]interface{}{
			"worker_id": workerID,
			"url":       job.URL,
			"filename":  job.Filename,
			"error":     err.Error(),
			"duration":  result.Duration,
		})
		return result
	}

	result.Success = true
	p.logger.DebugWithFields("attachment downloaded", map[string]interface{}{
		"worker_id": workerID,
		"filename":  job.Filename,
		"duration":  result.Duration,
	})

	return result
}
