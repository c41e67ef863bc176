// Package ledger tracks which posts have already been archived. It is the
// single source of truth for dedup decisions and for the pagination boundary.
package ledger

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	archerrors "mastoarchiver/pkg/errors"
)

// Category identifies which interaction feed a post came from
type Category string

const (
	CategoryFavorite Category = "favorite"
	CategoryBookmark Category = "bookmark"
)

// Categories lists all tracked categories in processing order
var Categories = []Category{CategoryFavorite, CategoryBookmark}

// Record is one row of the dedup ledger. Rows are append-only: once a
// (PostID, Category) pair is committed it is never updated or deleted.
type Record struct {
	PostID      string
	Category    Category
	ArchivedAt  time.Time
	PostURL     string
	AccountAcct string
	CreatedAt   string
}

// Ledger is a durable sqlite-backed record of archived posts
type Ledger struct {
	db *sql.DB
}

// Open opens (and if necessary initializes) the ledger database at path
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, ledgerError("failed to open database: %v", err)
	}

	l := &Ledger{db: db}
	if err := l.init(); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

func (l *Ledger) init() error {
	_, err := l.db.Exec(`
		CREATE TABLE IF NOT EXISTS archived_posts (
			post_id TEXT NOT NULL,
			post_type TEXT NOT NULL,
			archived_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			post_url TEXT,
			account_acct TEXT,
			created_at TEXT,
			PRIMARY KEY (post_id, post_type)
		)
	`)
	if err != nil {
		return ledgerError("failed to create archived_posts table: %v", err)
	}

	_, err = l.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_post_type
		ON archived_posts(post_type)
	`)
	if err != nil {
		return ledgerError("failed to create post_type index: %v", err)
	}

	return nil
}

// Exists reports whether a post has already been archived in the given category
func (l *Ledger) Exists(postID string, category Category) (bool, error) {
	var exists bool
	err := l.db.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM archived_posts WHERE post_id = ? AND post_type = ?
		)
	`, postID, string(category)).Scan(&exists)
	if err != nil {
		return false, ledgerError("failed to check archived state: %v", err)
	}
	return exists, nil
}

// MostRecentID returns the post id of the most recently archived record for
// the category, used to seed the pagination boundary. An empty string means
// nothing has been archived yet. Equal timestamps tie-break on post_id so the
// result is deterministic.
func (l *Ledger) MostRecentID(category Category) (string, error) {
	var postID string
	err := l.db.QueryRow(`
		SELECT post_id FROM archived_posts
		WHERE post_type = ?
		ORDER BY archived_at DESC, post_id DESC
		LIMIT 1
	`, string(category)).Scan(&postID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", ledgerError("failed to query most recent id: %v", err)
	}
	return postID, nil
}

// Commit inserts a new record. Committing an already-present key is a no-op,
// not an error: a crash between record write and ledger commit on a previous
// run leaves the retried insert harmless.
func (l *Ledger) Commit(rec Record) error {
	_, err := l.db.Exec(`
		INSERT OR IGNORE INTO archived_posts
		(post_id, post_type, post_url, account_acct, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, rec.PostID, string(rec.Category), rec.PostURL, rec.AccountAcct, rec.CreatedAt)
	if err != nil {
		return ledgerError("failed to commit record: %v", err)
	}
	return nil
}

// Count returns the number of archived posts in a category
func (l *Ledger) Count(category Category) (int, error) {
	var count int
	err := l.db.QueryRow(`
		SELECT COUNT(*) FROM archived_posts WHERE post_type = ?
	`, string(category)).Scan(&count)
	if err != nil {
		return 0, ledgerError("failed to count records: %v", err)
	}
	return count, nil
}

// Close closes the underlying database
func (l *Ledger) Close() error {
	return l.db.Close()
}

func ledgerError(format string, args ...interface{}) error {
	return &archerrors.Error{
		Type:    archerrors.ErrorTypeLedger,
		Message: fmt.Sprintf(format, args...),
	}
}
