package voicecache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/heartmarshall/instant-voices/pkg/voiceclient"
)

// ErrQuotaExceeded means a snapshot did not fit in the configured quota.
var ErrQuotaExceeded = errors.New("voicecache: snapshot quota exceeded")

// DefaultQuota matches the usual per-origin budget of browser local storage.
const DefaultQuota = 5 << 20

// FileSnapshot stores the cache as one JSON document. Writes replace the
// file atomically.
type FileSnapshot struct {
	path  string
	quota int64
}

// NewFileSnapshot stores snapshots at path. quota <= 0 means DefaultQuota.
func NewFileSnapshot(path string, quota int64) *FileSnapshot {
	if quota <= 0 {
		quota = DefaultQuota
	}
	return &FileSnapshot{path: path, quota: quota}
}

// Path is where the snapshot lives.
func (s *FileSnapshot) Path() string { return s.path }

// Load reads the snapshot. A missing file is an empty snapshot. A corrupt
// file is removed and reported.
func (s *FileSnapshot) Load() (map[string]voiceclient.Record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]voiceclient.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	entries := make(map[string]voiceclient.Record)
	if err := json.Unmarshal(data, &entries); err != nil {
		_ = os.Remove(s.path)
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return entries, nil
}

// Save writes entries, or returns ErrQuotaExceeded without touching the
// previous snapshot.
func (s *FileSnapshot) Save(entries map[string]voiceclient.Record) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if int64(len(data)) > s.quota {
		return fmt.Errorf("%d bytes over %d: %w", len(data), s.quota, ErrQuotaExceeded)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
