package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/psethzp/rosti/internal/model"
)

func TestStoreSetGet(t *testing.T) {
	store, err := NewStore(t.TempDir(), true)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	key := Key("search", "laksa origin")
	if err := store.Set(NamespaceSearches, key, []byte(`["p1","p2"]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	val, found := store.Get(NamespaceSearches, key)
	if !found {
		t.Fatal("expected hit after Set")
	}
	if string(val) != `["p1","p2"]` {
		t.Errorf("got %q", val)
	}

	// Same key in a different namespace must not collide
	if _, found := store.Get(NamespaceEmbeddings, key); found {
		t.Error("key leaked across namespaces")
	}
}

func TestStoreRejectsNonJSON(t *testing.T) {
	store, err := NewStore(t.TempDir(), true)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.Set(NamespaceSearches, Key("q"), []byte("not json")); err == nil {
		t.Error("expected error for non-JSON value")
	}
}

func TestStoreSurvivesRestart(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir, true)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	key := OracleKey("the dish originated in Penang", "records first mention it in Penang")
	if err := store.SetJSON(NamespaceOracle, key, map[string]string{"verdict": "Supported"}); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}

	// A second store over the same directory simulates a new process
	reopened, err := NewStore(dir, true)
	if err != nil {
		t.Fatalf("NewStore reopen: %v", err)
	}
	var out map[string]string
	if !reopened.GetJSON(NamespaceOracle, key, &out) {
		t.Fatal("expected persisted entry after reopen")
	}
	if out["verdict"] != "Supported" {
		t.Errorf("got %v", out)
	}
}

func TestStoreCorruptEntryIsMiss(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir, true)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	key := Key("embedding", "some text")
	if err := store.Set(NamespaceEmbeddings, key, []byte(`[0.1,0.2]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// Truncate the entry on disk to simulate a partial write
	path := filepath.Join(dir, string(NamespaceEmbeddings), key+".json")
	if err := os.WriteFile(path, []byte(`{"saved_at":"20`), 0644); err != nil {
		t.Fatalf("corrupt entry: %v", err)
	}

	reopened, err := NewStore(dir, true)
	if err != nil {
		t.Fatalf("NewStore reopen: %v", err)
	}
	if _, found := reopened.Get(NamespaceEmbeddings, key); found {
		t.Fatal("corrupt entry should read as a miss")
	}

	// The next Set overwrites the corrupt file and the key works again
	if err := reopened.Set(NamespaceEmbeddings, key, []byte(`[0.3]`)); err != nil {
		t.Fatalf("Set after corruption: %v", err)
	}
	val, found := reopened.Get(NamespaceEmbeddings, key)
	if !found || string(val) != `[0.3]` {
		t.Errorf("got %q found=%v", val, found)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read entry: %v", err)
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		t.Errorf("entry still corrupt after overwrite: %v", err)
	}
}

func TestStoreStatsAndClear(t *testing.T) {
	store, err := NewStore(t.TempDir(), true)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	store.Set(NamespaceSearches, Key("a"), []byte(`1`))
	store.Set(NamespaceSearches, Key("b"), []byte(`2`))
	store.Set(NamespaceValidations, Key("c"), []byte(`3`))

	stats := store.Stats()
	if stats[NamespaceSearches] != 2 || stats[NamespaceValidations] != 1 {
		t.Errorf("stats = %v", stats)
	}
	if stats[NamespaceEmbeddings] != 0 || stats[NamespaceOracle] != 0 {
		t.Errorf("empty namespaces should report zero, got %v", stats)
	}

	if err := store.Clear(NamespaceSearches); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	stats = store.Stats()
	if stats[NamespaceSearches] != 0 {
		t.Errorf("searches not cleared: %v", stats)
	}
	if stats[NamespaceValidations] != 1 {
		t.Errorf("clear touched another namespace: %v", stats)
	}

	if err := store.ClearAll(); err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	for ns, n := range store.Stats() {
		if n != 0 {
			t.Errorf("%s still has %d entries after ClearAll", ns, n)
		}
	}
}

func TestStoreMemoryOnly(t *testing.T) {
	store, err := NewStore("", false)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	key := Key("x")
	if err := store.Set(NamespaceValidations, key, []byte(`{"ok":true}`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, found := store.Get(NamespaceValidations, key); !found {
		t.Fatal("expected memory hit")
	}
}

func TestKeyDerivation(t *testing.T) {
	if Key("a", "bc") == Key("ab", "c") {
		t.Error("part boundaries must affect the key")
	}
	if Key("same") != Key("same") {
		t.Error("key derivation must be deterministic")
	}

	span := model.EvidenceSpan{SourceID: "doc", Page: 2, CharStart: 10, CharEnd: 30, Quote: "original quote"}
	k1 := ValidationKey("claim text", span)

	edited := span
	edited.Quote = "edited quote"
	if ValidationKey("claim text", edited) == k1 {
		t.Error("editing the quote must change the validation key")
	}

	if SearchKey("q", 6) == SearchKey("q", 12) {
		t.Error("result depth must affect the search key")
	}
}
