// Package diskcache provides a durable read-through byte cache.
//
// Payloads live under data/ named by the escaped key; a sidecar checksum
// under sum/ detects corruption. Entries never expire; deleting the files
// is the only eviction.
package diskcache

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/irs990"
	"golang.org/x/sync/singleflight"
)

var _ irs990.Cache = (*Cache)(nil)

// Cache implements irs990.Cache on the local filesystem.
type Cache struct {
	dir   string
	group singleflight.Group
}

// New returns a cache rooted at dir. The directory tree is created lazily
// on first write.
func New(dir string) *Cache {
	return &Cache{dir: dir}
}

// GetOrFetch returns the cached bytes for key, invoking fn on a miss.
// Concurrent callers of the same key share a single fn invocation. A
// failed fn leaves the cache unchanged and its error is returned as-is.
func (c *Cache) GetOrFetch(ctx context.Context, key string, fn irs990.FetchFunc) ([]byte, error) {
	if key == "" {
		return nil, irs990.Errorf(irs990.EINVALID, "cache key required")
	}

	if data, ok := c.read(key); ok {
		return data, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Re-check after joining the flight: a concurrent caller may
		// have just written the entry.
		if data, ok := c.read(key); ok {
			return data, nil
		}

		data, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.write(key, data); err != nil {
			return nil, err
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// entryName escapes key into a filename. Escaping is injective, so
// distinct keys never share an entry, and the keys this tool generates
// (annual-2019, bmf-mt, filing-<objectid>) pass through unchanged.
func entryName(key string) string {
	return url.PathEscape(key)
}

func (c *Cache) dataPath(key string) string {
	return filepath.Join(c.dir, "data", entryName(key))
}

func (c *Cache) sumPath(key string) string {
	return filepath.Join(c.dir, "sum", entryName(key))
}

// read returns the entry for key, reporting a miss for anything not fully
// intact: missing payload, missing checksum, or a checksum mismatch.
func (c *Cache) read(key string) ([]byte, bool) {
	data, err := os.ReadFile(c.dataPath(key))
	if err != nil {
		return nil, false
	}
	sum, err := os.ReadFile(c.sumPath(key))
	if err != nil {
		return nil, false
	}
	if string(sum) != checksum(data) {
		return nil, false
	}
	return data, true
}

// write persists the entry atomically: each file is written to a temp
// name and renamed into place, payload first, checksum last. A crash in
// between leaves a checksum-less payload, which read treats as a miss.
func (c *Cache) write(key string, data []byte) error {
	for _, sub := range []string{"data", "sum"} {
		if err := os.MkdirAll(filepath.Join(c.dir, sub), 0o755); err != nil {
			return irs990.Errorf(irs990.EINTERNAL, "create cache directory: %s", err)
		}
	}
	if err := writeFileAtomic(c.dataPath(key), data); err != nil {
		return irs990.Errorf(irs990.EINTERNAL, "write cache entry %q: %s", key, err)
	}
	if err := writeFileAtomic(c.sumPath(key), []byte(checksum(data))); err != nil {
		return irs990.Errorf(irs990.EINTERNAL, "write cache checksum %q: %s", key, err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func checksum(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}
