package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/msharif/salat-cli-go/internal/core"
)

// FilesystemStore keeps slot files on disk.
// Directory layout: <root>/YYYY/MM/YYYY-MM_<lat>_<lon>.json
type FilesystemStore struct {
	root      string
	writeLock sync.Mutex
}

// NewFilesystemStore creates a filesystem-backed store rooted at root.
// An empty root means the default cache directory.
func NewFilesystemStore(root string) *FilesystemStore {
	if root == "" {
		root = core.CacheRoot()
	}
	return &FilesystemStore{root: root}
}

// Path returns the slot file path for the given key.
func (s *FilesystemStore) Path(key Key) string {
	name := fmt.Sprintf("%04d-%02d_%.2f_%.2f.json", key.Year, key.Month, key.Latitude, key.Longitude)
	return filepath.Join(
		s.root,
		fmt.Sprintf("%04d", key.Year),
		fmt.Sprintf("%02d", key.Month),
		name,
	)
}

// Load returns the slot for the key, or (nil, nil) when absent. A present
// but unreadable slot is removed and reported so the caller can warn.
func (s *FilesystemStore) Load(key Key) (*MonthlyRecord, error) {
	return s.loadFile(s.Path(key))
}

func (s *FilesystemStore) loadFile(path string) (*MonthlyRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	record, err := decodeRecord(data)
	if err != nil {
		// Corrupt file; drop it so the next save starts clean.
		os.Remove(path)
		return nil, fmt.Errorf("corrupt cache slot %s: %w", path, err)
	}
	return record, nil
}

// LoadLatest scans every slot and returns the most recently fetched one,
// or (nil, nil) on an empty cache. Unreadable slots are skipped.
func (s *FilesystemStore) LoadLatest() (*MonthlyRecord, error) {
	var latest *MonthlyRecord

	yearDirs, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	for _, yearDir := range yearDirs {
		if !yearDir.IsDir() || len(yearDir.Name()) != 4 {
			continue
		}
		yearPath := filepath.Join(s.root, yearDir.Name())
		monthDirs, err := os.ReadDir(yearPath)
		if err != nil {
			continue
		}
		for _, monthDir := range monthDirs {
			if !monthDir.IsDir() || len(monthDir.Name()) != 2 {
				continue
			}
			monthPath := filepath.Join(yearPath, monthDir.Name())
			files, err := os.ReadDir(monthPath)
			if err != nil {
				continue
			}
			for _, file := range files {
				if !strings.HasSuffix(file.Name(), ".json") {
					continue
				}
				record, err := s.loadFile(filepath.Join(monthPath, file.Name()))
				if err != nil || record == nil {
					continue
				}
				if latest == nil || record.FetchedAt.After(latest.FetchedAt) {
					latest = record
				}
			}
		}
	}

	return latest, nil
}

// Save persists the record atomically under its own key using a temp file
// and rename, so a failed write leaves any previous slot untouched.
func (s *FilesystemStore) Save(record *MonthlyRecord) error {
	data, err := encodeRecord(record)
	if err != nil {
		return err
	}

	path := s.Path(KeyOf(record))

	s.writeLock.Lock()
	defer s.writeLock.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmpPath := fmt.Sprintf("%s.%d.tmp", path, time.Now().UnixNano())
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		os.Remove(tmpPath)
		return err
	}

	return os.Rename(tmpPath, path)
}
