package corpus

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestPageStoreRoundTrip(t *testing.T) {
	store := NewPageStore(t.TempDir())

	doc := Document{
		SourceID: "laksa-history",
		Title:    "A History of Laksa",
		Pages:    []string{"page one text", "page two text"},
	}
	if err := store.Put(doc); err != nil {
		t.Fatalf("Put: %v", err)
	}

	text, err := store.PageText("laksa-history", 2)
	if err != nil {
		t.Fatalf("PageText: %v", err)
	}
	if text != "page two text" {
		t.Errorf("got %q", text)
	}

	ids, err := store.Sources()
	if err != nil {
		t.Fatalf("Sources: %v", err)
	}
	if len(ids) != 1 || ids[0] != "laksa-history" {
		t.Errorf("sources = %v", ids)
	}
}

func TestPageStoreUnknownSource(t *testing.T) {
	store := NewPageStore(t.TempDir())

	_, err := store.PageText("nope", 1)
	if !errors.Is(err, ErrUnknownSource) {
		t.Errorf("want ErrUnknownSource, got %v", err)
	}
}

func TestPageStorePageOutOfRange(t *testing.T) {
	store := NewPageStore(t.TempDir())
	if err := store.Put(Document{SourceID: "doc", Pages: []string{"only page"}}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	for _, page := range []int{0, 2, 99} {
		_, err := store.PageText("doc", page)
		if !errors.Is(err, ErrPageOutOfRange) {
			t.Errorf("page %d: want ErrPageOutOfRange, got %v", page, err)
		}
	}
}

func TestPageStoreRejectsPathEscapes(t *testing.T) {
	store := NewPageStore(t.TempDir())
	for _, id := range []string{"", "..", "a/b", `a\b`} {
		if err := store.Put(Document{SourceID: id, Pages: []string{"x"}}); err == nil {
			t.Errorf("Put(%q): expected error", id)
		}
	}
}

func TestPageStoreBadDocumentFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}

	store := NewPageStore(dir)
	if _, err := store.PageText("broken", 1); err == nil {
		t.Error("expected decode error for malformed document")
	}
}
