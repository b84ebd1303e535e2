package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/psethzp/rosti/internal/corpus"
	"github.com/psethzp/rosti/internal/model"
	"github.com/psethzp/rosti/internal/util"
	"github.com/psethzp/rosti/internal/worker"
)

// Ingester populates the page corpus from local files and remote URLs
type Ingester struct {
	corpus        *corpus.PageStore
	fetcher       *Fetcher
	robots        *util.RobotsChecker
	limiter       *worker.Limiter
	respectRobots bool
}

// NewIngester creates an ingester writing into store.
func NewIngester(store *corpus.PageStore, cfg model.HTTPConfig) *Ingester {
	fetcher := NewFetcher(cfg)

	return &Ingester{
		corpus:        store,
		fetcher:       fetcher,
		robots:        util.NewRobotsChecker(fetcher.Client(), cfg.UserAgent),
		limiter:       worker.NewLimiter(cfg.RequestsPerSecond, cfg.Burst),
		respectRobots: cfg.RespectRobots,
	}
}

// Ingest dispatches on the argument: URLs are fetched, anything else is
// read as a local file. An empty sourceID derives one from the name.
func (in *Ingester) Ingest(ctx context.Context, arg, sourceID string) (*corpus.Document, error) {
	if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
		return in.IngestURL(ctx, arg, sourceID)
	}
	return in.IngestFile(arg, sourceID)
}

// IngestFile reads a local source document into the corpus. Plain text
// becomes a single page, a JSON page array keeps its pagination, and
// HTML is reduced to its visible text.
func (in *Ingester) IngestFile(path, sourceID string) (*corpus.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	if sourceID == "" {
		sourceID = SourceIDFromPath(path)
	}

	var pages []string
	title := ""

	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		pages = []string{strings.TrimSpace(string(data))}
	case ".json":
		pages, title, err = pagesFromJSON(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".html", ".htm":
		text, docTitle, err := VisibleText(string(data))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		pages = []string{text}
		title = docTitle
	default:
		return nil, fmt.Errorf("unsupported source type %q (want .txt, .md, .json or .html)", filepath.Ext(path))
	}

	if title == "" {
		title = subjectFromName(filepath.Base(path))
	}

	return in.store(corpus.Document{
		SourceID:   sourceID,
		Title:      title,
		IngestedAt: time.Now().UTC(),
		Pages:      pages,
	})
}

// IngestURL fetches a remote source into the corpus, honoring
// robots.txt and the per-host rate limit.
func (in *Ingester) IngestURL(ctx context.Context, rawURL, sourceID string) (*corpus.Document, error) {
	if in.respectRobots {
		allowed, crawlDelay, err := in.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("robots check: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("robots.txt disallows fetching %s", rawURL)
		}
		if err := in.limiter.WaitWithDelay(ctx, rawURL, crawlDelay); err != nil {
			return nil, err
		}
	} else if err := in.limiter.Wait(ctx, rawURL); err != nil {
		return nil, err
	}

	res, err := in.fetcher.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	var pages []string
	title := ""
	if isHTML(res.ContentType, res.Body) {
		text, docTitle, err := VisibleText(res.Body)
		if err != nil {
			return nil, fmt.Errorf("parse html: %w", err)
		}
		pages = []string{text}
		title = docTitle
	} else {
		pages = []string{strings.TrimSpace(res.Body)}
	}

	if sourceID == "" {
		sourceID = SourceIDFromURL(res.FinalURL)
	}
	if title == "" {
		title = subjectFromURL(res.FinalURL)
	}

	return in.store(corpus.Document{
		SourceID:   sourceID,
		Title:      title,
		URL:        res.FinalURL,
		IngestedAt: time.Now().UTC(),
		Pages:      pages,
	})
}

// IngestResult is the outcome of ingesting one source
type IngestResult struct {
	Arg      string
	Document *corpus.Document
	Err      error
}

// IngestAll ingests multiple sources concurrently with derived ids.
func (in *Ingester) IngestAll(ctx context.Context, args []string, workers int) []IngestResult {
	if len(args) == 0 {
		return []IngestResult{}
	}

	pool := worker.NewPool[IngestResult](ctx, workers)
	pool.Start()

	for _, arg := range args {
		arg := arg
		pool.Submit(func(ctx context.Context) IngestResult {
			doc, err := in.Ingest(ctx, arg, "")
			return IngestResult{Arg: arg, Document: doc, Err: err}
		})
	}

	return pool.Wait()
}

func (in *Ingester) store(doc corpus.Document) (*corpus.Document, error) {
	if strings.TrimSpace(strings.Join(doc.Pages, "")) == "" {
		return nil, fmt.Errorf("no text extracted for source %q", doc.SourceID)
	}

	if err := in.corpus.Put(doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// pagesFromJSON accepts either a full document object or a bare page
// array.
func pagesFromJSON(data []byte) ([]string, string, error) {
	var doc corpus.Document
	if err := json.Unmarshal(data, &doc); err == nil && len(doc.Pages) > 0 {
		return doc.Pages, doc.Title, nil
	}

	var pages []string
	if err := json.Unmarshal(data, &pages); err == nil && len(pages) > 0 {
		return pages, "", nil
	}

	return nil, "", fmt.Errorf("expected a page array or a document object with pages")
}

// SourceIDFromPath derives a corpus source id from a file name.
func SourceIDFromPath(path string) string {
	base := filepath.Base(path)
	return slugify(strings.TrimSuffix(base, filepath.Ext(base)))
}

// SourceIDFromURL derives a corpus source id from the last URL segment.
func SourceIDFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return slugify(rawURL)
	}

	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return slugify(parsed.Host)
	}

	segments := strings.Split(path, "/")
	last := segments[len(segments)-1]
	if idx := strings.LastIndex(last, "."); idx > 0 {
		last = last[:idx]
	}
	return slugify(last)
}

// slugify lowercases and maps anything outside [a-z0-9._-] to '-'.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}

	slug := strings.Trim(b.String(), "-.")
	if slug == "" {
		return "source"
	}
	return slug
}

// subjectFromName turns a file name into a readable title
func subjectFromName(name string) string {
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return strings.TrimSpace(name)
}

// subjectFromURL extracts a readable subject from a URL
func subjectFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return parsed.Host
	}

	segments := strings.Split(path, "/")
	return subjectFromName(segments[len(segments)-1])
}
