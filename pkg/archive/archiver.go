package archive

import (
	"fmt"
	"time"

	"mastoarchiver/internal/downloader"
	"mastoarchiver/pkg/errors"
	"mastoarchiver/pkg/ledger"
	"mastoarchiver/pkg/logger"
	"mastoarchiver/pkg/mastodon"
	"mastoarchiver/pkg/storage"
)

// Archiver persists a single post: media first, then the structured record,
// then the ledger commit. The ledger is only ever committed after the record
// is durably on disk, so a crash in between re-archives harmlessly instead of
// losing content.
type Archiver struct {
	ledger ledgerWithCommit
	store  RecordStore
	pool   MediaDownloader
	logger logger.Logger
	now    func() time.Time
}

// ledgerWithCommit is the subset of Ledger the archiver touches
type ledgerWithCommit interface {
	Exists(postID string, category ledger.Category) (bool, error)
	Commit(rec ledger.Record) error
}

// NewArchiver creates an item archiver
func NewArchiver(ldg Ledger, store RecordStore, pool MediaDownloader, log logger.Logger) *Archiver {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Archiver{
		ledger: ldg,
		store:  store,
		pool:   pool,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Archive archives one post with all its media. It returns false when the
// post was already archived. A returned error means the post was not
// committed and will be retried on a future run.
func (a *Archiver) Archive(status *mastodon.Status, category ledger.Category) (bool, error) {
	// The collected batch can contain a duplicate when pages overlap; the
	// ledger re-check keeps the operation idempotent.
	exists, err := a.ledger.Exists(status.ID, category)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	a.logger.InfoWithFields("archiving post", map[string]interface{}{
		"category": string(category),
		"post_id":  status.ID,
		"account":  status.Account.Acct,
	})

	record := NewArchivedPost(status, category, a.now())

	// A boost carries no media of its own; the reblogged post does
	source := status.MediaSource()

	var jobs []downloader.Job
	var attachments []mastodon.MediaAttachment
	for i, attachment := range source.MediaAttachments {
		if attachment.URL == "" {
			continue
		}
		attachments = append(attachments, attachment)
		jobs = append(jobs, downloader.Job{
			URL:      attachment.URL,
			Filename: storage.MediaFilename(attachment.URL, status.ID, i),
			Index:    i,
		})
	}

	results := a.pool.Run(jobs)

	for i, attachment := range attachments {
		res := results[i]

		localPath := a.store.MediaRelPath(res.Job.Filename)
		if !res.Success {
			// Keep the remote URL as a fallback reference; one broken
			// attachment must not sink the whole post.
			a.logger.WarnWithFields("media download failed, keeping remote URL", map[string]interface{}{
				"post_id": status.ID,
				"url":     attachment.URL,
				"error":   res.Error.Error(),
			})
			localPath = attachment.URL
		}

		record.MediaAttachments = append(record.MediaAttachments, attachment)
		record.MediaFiles = append(record.MediaFiles, MediaFile{
			OriginalURL: attachment.URL,
			LocalPath:   localPath,
			Type:        attachment.Type,
			Description: attachment.Description,
		})
	}

	if err := a.store.SaveRecord(status.ID, record); err != nil {
		a.logger.ErrorWithFields("failed to save post record", map[string]interface{}{
			"post_id": status.ID,
			"error":   err.Error(),
		})
		return false, &errors.Error{
			Type:    errors.ErrorTypeStorage,
			Message: fmt.Sprintf("failed to save post %s: %v", status.ID, err),
		}
	}

	// Commit order matters: the record is durable, now the dedup entry may
	// exist. The reverse order could lose a post forever.
	if err := a.ledger.Commit(record.LedgerRecord()); err != nil {
		a.logger.ErrorWithFields("failed to commit post to ledger", map[string]interface{}{
			"post_id": status.ID,
			"error":   err.Error(),
		})
		return false, err
	}

	a.logger.InfoWithFields("successfully archived post", map[string]interface{}{
		"category": string(category),
		"post_id":  status.ID,
		"media":    len(record.MediaFiles),
	})

	return true, nil
}
