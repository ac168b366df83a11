package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"mexpand/internal/project"
)

// diskCacheSchemaVersion increments whenever CachedFile changes shape.
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит результаты раскрытия по ключу файла на диске.
// Safe for concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedFile is the on-disk form of one file's expansion result. Spans are
// stored as byte offsets and file paths because FileIDs differ between runs.
type CachedFile struct {
	Schema      uint16
	Path        string
	Expansions  []CachedExpansion
	Diagnostics []CachedDiagnostic
}

type CachedExpansion struct {
	Name       string
	Path       string
	Start, End uint32
	Kind       uint8
	Output     string
	Err        string
}

type CachedDiagnostic struct {
	Severity   uint8
	Code       uint16
	Message    string
	Path       string
	Start, End uint32
	Notes      []CachedNote
}

type CachedNote struct {
	Path       string
	Start, End uint32
	Message    string
}

// OpenDiskCache opens the cache under $XDG_CACHE_HOME/app (or ~/.cache/app).
func OpenDiskCache(app string) (*DiskCache, error) {
	dir, err := DefaultCacheDir(app)
	if err != nil {
		return nil, err
	}
	return NewDiskCache(dir)
}

// DefaultCacheDir returns the directory OpenDiskCache uses.
func DefaultCacheDir(app string) (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, app), nil
}

// NewDiskCache opens a cache rooted at dir, creating it if needed.
func NewDiskCache(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) Dir() string { return c.dir }

func (c *DiskCache) pathFor(key project.Digest) string {
	return filepath.Join(c.dir, "files", key.String()+".mp")
}

// Put serializes and writes a payload, replacing any previous entry atomically.
func (c *DiskCache) Put(key project.Digest, payload *CachedFile) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		// после Rename файла уже нет
		if rmErr := os.Remove(tmp); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "mexpand: failed to remove temp file: %v\n", rmErr)
		}
	}()

	payload.Schema = diskCacheSchemaVersion
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

// Get reads a payload. Entries written with another schema are misses.
func (c *DiskCache) Get(key project.Digest, out *CachedFile) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != diskCacheSchemaVersion {
		*out = CachedFile{}
		return false, nil
	}
	return true, nil
}

// DropAll removes every entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405.000000000")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}
