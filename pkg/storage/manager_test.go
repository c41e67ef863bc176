package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewManagerCreatesLayout(t *testing.T) {
	root := filepath.Join(t.TempDir(), "archive")

	m, err := NewManager(root)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	for _, dir := range []string{root, filepath.Join(root, "media"), filepath.Join(root, "posts")} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("expected directory %s to exist", dir)
		}
	}

	if m.LedgerPath() != filepath.Join(root, "archiver.db") {
		t.Errorf("unexpected ledger path %s", m.LedgerPath())
	}
	if m.LogPath() != filepath.Join(root, "archiver.log") {
		t.Errorf("unexpected log path %s", m.LogPath())
	}
}

func TestMediaFilenameDeterministic(t *testing.T) {
	url := "https://files.mastodon.example/media_attachments/original/photo.png"

	first := MediaFilename(url, "12345", 0)
	second := MediaFilename(url, "12345", 0)
	if first != second {
		t.Errorf("filename derivation not deterministic: %s vs %s", first, second)
	}

	if !strings.HasPrefix(first, "12345_") {
		t.Errorf("expected post id prefix in %s", first)
	}
	if !strings.HasSuffix(first, ".png") {
		t.Errorf("expected source extension preserved in %s", first)
	}

	indexed := MediaFilename(url, "12345", 2)
	if indexed == first {
		t.Error("different attachment index must yield a different filename")
	}
	if !strings.Contains(indexed, "_2.png") {
		t.Errorf("expected index in %s", indexed)
	}
}

func TestMediaFilenameFallbackExtension(t *testing.T) {
	name := MediaFilename("https://files.mastodon.example/media/noext", "9", 0)
	if !strings.HasSuffix(name, ".jpg") {
		t.Errorf("expected .jpg fallback, got %s", name)
	}
}

func TestSaveMediaAndExists(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	filename := MediaFilename("https://files.mastodon.example/a.jpg", "1", 0)
	if m.MediaExists(filename) {
		t.Error("expected MediaExists false before save")
	}

	data := []byte("media payload")
	if err := m.SaveMedia(bytes.NewReader(data), filename); err != nil {
		t.Fatalf("SaveMedia failed: %v", err)
	}

	if !m.MediaExists(filename) {
		t.Error("expected MediaExists true after save")
	}

	saved, err := os.ReadFile(m.MediaPath(filename))
	if err != nil {
		t.Fatalf("failed to read saved media: %v", err)
	}
	if !bytes.Equal(saved, data) {
		t.Error("saved media content mismatch")
	}

	// No leftover temp file
	if _, err := os.Stat(m.MediaPath(filename) + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file should have been renamed away")
	}
}

func TestSaveRecordPrettyPrintedUTF8(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	record := map[string]string{
		"id":      "77",
		"content": "<p>héllo wörld 日本語</p>",
	}
	if err := m.SaveRecord("77", record); err != nil {
		t.Fatalf("SaveRecord failed: %v", err)
	}

	data, err := os.ReadFile(m.RecordPath("77"))
	if err != nil {
		t.Fatalf("failed to read record: %v", err)
	}
	text := string(data)

	if !strings.Contains(text, "日本語") {
		t.Error("non-ASCII text must be preserved, not escaped")
	}
	if !strings.Contains(text, "<p>") {
		t.Error("HTML must not be escaped in records")
	}
	if !strings.Contains(text, "\n  ") {
		t.Error("record should be pretty-printed")
	}
}

func TestMediaRelPath(t *testing.T) {
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	if got := m.MediaRelPath("x.jpg"); got != "media/x.jpg" {
		t.Errorf("MediaRelPath = %s, want media/x.jpg", got)
	}
}
