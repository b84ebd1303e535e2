package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Store is the durable verification cache. It keeps every namespace in
// memory for fast hits and mirrors each write to disk so results survive
// process restarts. Callers construct a Store explicitly and pass it where
// needed; there is no package-level instance.
//
// Entries never expire: a verification outcome for a fixed (claim, span)
// pair does not go stale. Invalidation is explicit via Clear.
type Store struct {
	dir     string
	persist bool

	mu  sync.Mutex
	mem map[Namespace]*nsCache
}

// nsCache holds one namespace's memory layer and its lazy disk load
type nsCache struct {
	cache *gocache.Cache
	load  sync.Once
}

// entry is the on-disk envelope for one cached value
type entry struct {
	SavedAt time.Time       `json:"saved_at"`
	Value   json.RawMessage `json:"value"`
}

// NewStore creates a store rooted at dir. When persist is false the store
// is memory-only and dir is ignored.
func NewStore(dir string, persist bool) (*Store, error) {
	if persist {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}
	return &Store{
		dir:     dir,
		persist: persist,
		mem:     make(map[Namespace]*nsCache),
	}, nil
}

// Get retrieves the raw value for key, loading the namespace from disk on
// first touch. Undecodable disk entries are misses, never errors.
func (s *Store) Get(ns Namespace, key string) ([]byte, bool) {
	nc := s.namespace(ns)
	if val, found := nc.cache.Get(key); found {
		return val.([]byte), true
	}
	return nil, false
}

// GetJSON retrieves the value for key and unmarshals it into v.
// A value that no longer decodes is treated as a miss.
func (s *Store) GetJSON(ns Namespace, key string, v interface{}) bool {
	data, found := s.Get(ns, key)
	if !found {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false
	}
	return true
}

// Set stores value under key in both layers. value must be valid JSON;
// the disk envelope embeds it verbatim.
func (s *Store) Set(ns Namespace, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("cache value for %s is not valid JSON", ns)
	}
	nc := s.namespace(ns)
	nc.cache.Set(key, value, gocache.NoExpiration)

	if !s.persist {
		return nil
	}
	return s.writeEntry(ns, key, value)
}

// SetJSON marshals v and stores it under key.
func (s *Store) SetJSON(ns Namespace, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	return s.Set(ns, key, data)
}

// Delete removes key from both layers.
func (s *Store) Delete(ns Namespace, key string) error {
	nc := s.namespace(ns)
	nc.cache.Delete(key)
	if s.persist {
		if err := os.Remove(s.entryPath(ns, key)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Stats reports the entry count per namespace.
func (s *Store) Stats() map[Namespace]int {
	stats := make(map[Namespace]int, len(Namespaces()))
	for _, ns := range Namespaces() {
		stats[ns] = s.namespace(ns).cache.ItemCount()
	}
	return stats
}

// Clear drops every entry in one namespace, memory and disk.
func (s *Store) Clear(ns Namespace) error {
	nc := s.namespace(ns)
	nc.cache.Flush()
	if s.persist {
		if err := os.RemoveAll(filepath.Join(s.dir, string(ns))); err != nil {
			return fmt.Errorf("clear %s: %w", ns, err)
		}
	}
	return nil
}

// ClearAll drops every entry in every namespace.
func (s *Store) ClearAll() error {
	for _, ns := range Namespaces() {
		if err := s.Clear(ns); err != nil {
			return err
		}
	}
	return nil
}

// namespace returns the memory layer for ns, loading persisted entries
// exactly once.
func (s *Store) namespace(ns Namespace) *nsCache {
	s.mu.Lock()
	nc, ok := s.mem[ns]
	if !ok {
		nc = &nsCache{cache: gocache.New(gocache.NoExpiration, 0)}
		s.mem[ns] = nc
	}
	s.mu.Unlock()

	nc.load.Do(func() {
		if s.persist {
			s.loadNamespace(ns, nc.cache)
		}
	})
	return nc
}

// loadNamespace reads every entry file under the namespace directory into
// memory. Files that fail to decode are skipped; the next Set for their
// key overwrites them.
func (s *Store) loadNamespace(ns Namespace, mem *gocache.Cache) {
	dir := filepath.Join(s.dir, string(ns))
	files, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, f.Name()))
		if err != nil {
			continue
		}
		var e entry
		if err := json.Unmarshal(data, &e); err != nil || len(e.Value) == 0 {
			continue
		}
		key := strings.TrimSuffix(f.Name(), ".json")
		mem.Set(key, []byte(e.Value), gocache.NoExpiration)
	}
}

// writeEntry persists one entry atomically: write to a temp file in the
// namespace directory, then rename over the final path. A crash mid-write
// leaves the old entry intact instead of a truncated file.
func (s *Store) writeEntry(ns Namespace, key string, value []byte) error {
	dir := filepath.Join(s.dir, string(ns))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create namespace dir: %w", err)
	}

	data, err := json.Marshal(entry{SavedAt: time.Now().UTC(), Value: value})
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp entry: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close entry: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.entryPath(ns, key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("commit entry: %w", err)
	}
	return nil
}

// entryPath generates the file path for one cached entry
func (s *Store) entryPath(ns Namespace, key string) string {
	return filepath.Join(s.dir, string(ns), key+".json")
}
