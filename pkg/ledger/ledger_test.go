package ledger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "archiver.db"))
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestExistsAndCommit(t *testing.T) {
	l := openTestLedger(t)

	exists, err := l.Exists("100", CategoryFavorite)
	require.NoError(t, err)
	assert.False(t, exists)

	err = l.Commit(Record{
		PostID:      "100",
		Category:    CategoryFavorite,
		PostURL:     "https://mastodon.example/@alice/100",
		AccountAcct: "alice",
		CreatedAt:   "2024-05-01T12:00:00Z",
	})
	require.NoError(t, err)

	exists, err = l.Exists("100", CategoryFavorite)
	require.NoError(t, err)
	assert.True(t, exists)

	// Same id under the other category is an independent key
	exists, err = l.Exists("100", CategoryBookmark)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCommitIsIdempotent(t *testing.T) {
	l := openTestLedger(t)

	rec := Record{PostID: "7", Category: CategoryBookmark, AccountAcct: "bob"}
	require.NoError(t, l.Commit(rec))
	require.NoError(t, l.Commit(rec), "re-committing an existing key must not error")

	count, err := l.Count(CategoryBookmark)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "duplicate commit must not create a second row")
}

func TestMostRecentIDEmpty(t *testing.T) {
	l := openTestLedger(t)

	id, err := l.MostRecentID(CategoryFavorite)
	require.NoError(t, err)
	assert.Equal(t, "", id, "empty ledger has no boundary")
}

func TestMostRecentIDPerCategory(t *testing.T) {
	l := openTestLedger(t)

	require.NoError(t, l.Commit(Record{PostID: "3", Category: CategoryFavorite}))
	require.NoError(t, l.Commit(Record{PostID: "5", Category: CategoryFavorite}))
	require.NoError(t, l.Commit(Record{PostID: "4", Category: CategoryBookmark}))

	// All inserts land within the same timestamp granularity; the post_id
	// tie-break keeps the result deterministic.
	id, err := l.MostRecentID(CategoryFavorite)
	require.NoError(t, err)
	assert.Equal(t, "5", id)

	id, err = l.MostRecentID(CategoryBookmark)
	require.NoError(t, err)
	assert.Equal(t, "4", id)
}

func TestReopenPersists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "archiver.db")

	l, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, l.Commit(Record{PostID: "42", Category: CategoryFavorite}))
	require.NoError(t, l.Close())

	l2, err := Open(path)
	require.NoError(t, err)
	defer l2.Close()

	exists, err := l2.Exists("42", CategoryFavorite)
	require.NoError(t, err)
	assert.True(t, exists, "ledger state must survive process restarts")
}
