// Package storage owns the on-disk archive layout: media blobs under
// media/, one structured JSON record per post under posts/.
package storage

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
)

const (
	mediaDir = "media"
	postsDir = "posts"

	// LedgerFile is the ledger database filename inside the archive root
	LedgerFile = "archiver.db"

	// LogFile is the run log filename inside the archive root
	LogFile = "archiver.log"
)

// Manager handles archive file storage operations
type Manager struct {
	rootDir string
}

// NewManager creates a storage manager rooted at rootDir, creating the
// directory structure if it does not exist
func NewManager(rootDir string) (*Manager, error) {
	for _, dir := range []string{rootDir, filepath.Join(rootDir, mediaDir), filepath.Join(rootDir, postsDir)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create archive directory %s: %w", dir, err)
		}
	}

	return &Manager{rootDir: rootDir}, nil
}

// RootDir returns the archive root directory
func (m *Manager) RootDir() string {
	return m.rootDir
}

// LedgerPathIn returns the ledger path inside an archive root without
// creating any directories
func LedgerPathIn(rootDir string) string {
	return filepath.Join(rootDir, LedgerFile)
}

// LedgerPath returns the path of the ledger database inside the archive
func (m *Manager) LedgerPath() string {
	return filepath.Join(m.rootDir, LedgerFile)
}

// LogPath returns the path of the run log inside the archive
func (m *Manager) LogPath() string {
	return filepath.Join(m.rootDir, LogFile)
}

// MediaFilename derives the deterministic local filename for a media URL of a
// post. The same (postID, url, index) always yields the same name, which makes
// re-runs skip files that already exist.
func MediaFilename(mediaURL, postID string, index int) string {
	ext := ".jpg" // default fallback
	if parsed, err := url.Parse(mediaURL); err == nil {
		if e := path.Ext(parsed.Path); e != "" {
			ext = e
		}
	}

	sum := md5.Sum([]byte(mediaURL))
	urlHash := hex.EncodeToString(sum[:])[:8]

	if index > 0 {
		return fmt.Sprintf("%s_%s_%d%s", postID, urlHash, index, ext)
	}
	return fmt.Sprintf("%s_%s%s", postID, urlHash, ext)
}

// MediaPath returns the absolute path for a media filename
func (m *Manager) MediaPath(filename string) string {
	return filepath.Join(m.rootDir, mediaDir, filename)
}

// MediaRelPath returns the archive-relative path recorded for a media file
func (m *Manager) MediaRelPath(filename string) string {
	return path.Join(mediaDir, filename)
}

// MediaExists reports whether a media file has already been downloaded
func (m *Manager) MediaExists(filename string) bool {
	_, err := os.Stat(m.MediaPath(filename))
	return err == nil
}

// SaveMedia streams media data to its archive location. The write goes to a
// temporary file first and is renamed into place, so a crash mid-download
// never leaves a truncated blob under the final name.
func (m *Manager) SaveMedia(r io.Reader, filename string) error {
	finalPath := m.MediaPath(filename)
	tempPath := finalPath + ".tmp"

	out, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	_, err = io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save media data: %w", err)
	}
	if closeErr != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close file: %w", closeErr)
	}

	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// RecordPath returns the path of the structured record for a post id
func (m *Manager) RecordPath(postID string) string {
	return filepath.Join(m.rootDir, postsDir, postID+".json")
}

// SaveRecord writes the structured record for a post as pretty-printed UTF-8
// JSON, preserving non-ASCII text as-is. An existing record is overwritten;
// records are immutable after the ledger commit, so an overwrite only happens
// when a prior run crashed before committing.
func (m *Manager) SaveRecord(postID string, record interface{}) error {
	finalPath := m.RecordPath(postID)
	tempPath := finalPath + ".tmp"

	out, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create record file: %w", err)
	}

	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	err = enc.Encode(record)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to encode record: %w", err)
	}
	if closeErr != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close record file: %w", closeErr)
	}

	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename record file: %w", err)
	}

	return nil
}
