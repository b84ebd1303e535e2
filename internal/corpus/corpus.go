package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Sentinel errors distinguish "no such document" from "document exists but
// the cited page does not". Both mean a span cannot be resolved.
var (
	ErrUnknownSource  = errors.New("unknown source")
	ErrPageOutOfRange = errors.New("page out of range")
)

// Document is the on-disk shape of one ingested source: page texts in
// reading order, pages numbered from 1.
type Document struct {
	SourceID   string    `json:"source_id"`
	Title      string    `json:"title,omitempty"`
	URL        string    `json:"url,omitempty"`
	IngestedAt time.Time `json:"ingested_at,omitempty"`
	Pages      []string  `json:"pages"`
}

// PageStore resolves (source id, page) to extracted page text. Documents
// live as <source_id>.json under one directory and are cached in memory
// after first read.
type PageStore struct {
	dir string

	mu   sync.RWMutex
	docs map[string]Document
}

// NewPageStore creates a store over dir. The directory is created on the
// first write, not here, so read-only use of a missing corpus just
// reports unknown sources.
func NewPageStore(dir string) *PageStore {
	return &PageStore{
		dir:  dir,
		docs: make(map[string]Document),
	}
}

// PageText returns the text of one page. Pages are 1-based.
func (s *PageStore) PageText(sourceID string, page int) (string, error) {
	doc, err := s.Load(sourceID)
	if err != nil {
		return "", err
	}
	if page < 1 || page > len(doc.Pages) {
		return "", fmt.Errorf("%s page %d of %d: %w", sourceID, page, len(doc.Pages), ErrPageOutOfRange)
	}
	return doc.Pages[page-1], nil
}

// Load returns the full document for sourceID, reading it from disk on
// first access.
func (s *PageStore) Load(sourceID string) (Document, error) {
	if err := checkSourceID(sourceID); err != nil {
		return Document{}, err
	}

	s.mu.RLock()
	doc, ok := s.docs[sourceID]
	s.mu.RUnlock()
	if ok {
		return doc, nil
	}

	data, err := os.ReadFile(s.path(sourceID))
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", sourceID, ErrUnknownSource)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("decode source %s: %w", sourceID, err)
	}
	if doc.SourceID == "" {
		doc.SourceID = sourceID
	}

	s.mu.Lock()
	s.docs[sourceID] = doc
	s.mu.Unlock()
	return doc, nil
}

// Put writes a document to the corpus and caches it.
func (s *PageStore) Put(doc Document) error {
	if err := checkSourceID(doc.SourceID); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create corpus dir: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal source %s: %w", doc.SourceID, err)
	}
	if err := os.WriteFile(s.path(doc.SourceID), data, 0644); err != nil {
		return fmt.Errorf("write source %s: %w", doc.SourceID, err)
	}

	s.mu.Lock()
	s.docs[doc.SourceID] = doc
	s.mu.Unlock()
	return nil
}

// Sources lists the source ids present on disk, sorted by filename.
func (s *PageStore) Sources() ([]string, error) {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read corpus dir: %w", err)
	}

	var ids []string
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(f.Name(), ".json"))
	}
	return ids, nil
}

func (s *PageStore) path(sourceID string) string {
	return filepath.Join(s.dir, sourceID+".json")
}

// checkSourceID rejects ids that would escape the corpus directory.
func checkSourceID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("invalid source id %q", id)
	}
	return nil
}
