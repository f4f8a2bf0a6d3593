package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

const (
	fileExt  = ".json"
	dirPerm  = 0o755
	filePerm = 0o644
)

// FileCache stores one JSON file per key under dir, sharded by the first
// two hex digits of the key's hash. Writes go through a temporary file and
// a rename, so concurrent readers never see a partial entry.
type FileCache struct {
	dir string
}

var _ Cache = (*FileCache)(nil)

// NewFileCache opens (and if needed creates) a file cache rooted at dir.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

type fileEntry struct {
	Data    []byte    `json:"data"`
	Expires time.Time `json:"expires_at,omitzero"`
}

func (e fileEntry) expired(now time.Time) bool {
	return !e.Expires.IsZero() && now.After(e.Expires)
}

// Get returns the entry for key. Expired and unreadable entries are removed
// and reported as misses.
func (c *FileCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var e fileEntry
	if json.Unmarshal(raw, &e) != nil || e.expired(time.Now()) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return e.Data, true, nil
}

func (c *FileCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	e := fileEntry{Data: data}
	if ttl > 0 {
		e.Expires = time.Now().Add(ttl)
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}

	path := c.path(key)
	shard := filepath.Dir(path)
	if err := os.MkdirAll(shard, dirPerm); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(shard, ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // no-op once renamed
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), filePerm); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (c *FileCache) Delete(_ context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (c *FileCache) Close() error { return nil }

// Dir returns the cache root.
func (c *FileCache) Dir() string { return c.dir }

// Clear removes every shard but keeps the root directory.
func (c *FileCache) Clear() error {
	shards, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}
	for _, s := range shards {
		if err := os.RemoveAll(filepath.Join(c.dir, s.Name())); err != nil {
			return err
		}
	}
	return nil
}

// Stats counts stored entries and their size on disk.
func (c *FileCache) Stats() (entries int, size int64, err error) {
	err = filepath.WalkDir(c.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != fileExt {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		entries++
		size += info.Size()
		return nil
	})
	return entries, size, err
}

func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:]+fileExt)
}
