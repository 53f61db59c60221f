package crawlstore

import (
	"path/filepath"
	"reflect"
	"testing"

	"siteplan/internal/inventory"
)

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "crawl.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestUpsertAndPagesRoundTrip(t *testing.T) {
	store := openTestStore(t)

	full := inventory.Item{
		ID:                       "home",
		URL:                      "https://example.com/",
		AuditScore:               fp(82.5),
		WordCount:                ip(1400),
		InternalLinkCount:        ip(12),
		ExternalLinkCount:        ip(3),
		SchemaTypes:              []string{"Organization", "WebSite"},
		GSCClicks:                ip(230),
		GSCImpressions:           ip(5400),
		GSCPosition:              fp(8.2),
		StrikingDistanceKeywords: []string{"widget platform"},
		CWVAssessment:            inventory.CWVGood,
		CORScore:                 fp(42),
		DOMSizeKB:                fp(980),
		TTFBMs:                   fp(410),
		MatchConfidence:          fp(0.92),
		GoogleCanonical:          "https://example.com/",
		IndexStatus:              "indexed",
	}
	sparse := inventory.Item{ID: "about", URL: "https://example.com/about"}

	if err := store.UpsertPage(full); err != nil {
		t.Fatal(err)
	}
	if err := store.UpsertPage(sparse); err != nil {
		t.Fatal(err)
	}

	pages, err := store.Pages()
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(pages))
	}

	// Ordered by id: about before home.
	gotSparse, gotFull := pages[0], pages[1]
	if !reflect.DeepEqual(gotFull, full) {
		t.Fatalf("full page mismatch:\nwrote %+v\nread  %+v", full, gotFull)
	}
	if gotSparse.AuditScore != nil || gotSparse.WordCount != nil || gotSparse.GSCClicks != nil {
		t.Fatalf("sparse page grew values: %+v", gotSparse)
	}
	if gotSparse.SchemaTypes != nil || gotSparse.StrikingDistanceKeywords != nil {
		t.Fatalf("sparse page grew slices: %+v", gotSparse)
	}
}

func TestUpsertReplacesExistingRow(t *testing.T) {
	store := openTestStore(t)

	item := inventory.Item{ID: "home", URL: "https://example.com/", AuditScore: fp(50)}
	if err := store.UpsertPage(item); err != nil {
		t.Fatal(err)
	}
	item.AuditScore = fp(75)
	item.WordCount = ip(900)
	if err := store.UpsertPage(item); err != nil {
		t.Fatal(err)
	}

	pages, err := store.Pages()
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 1 {
		t.Fatalf("got %d pages, want 1", len(pages))
	}
	if pages[0].AuditScore == nil || *pages[0].AuditScore != 75 {
		t.Fatalf("audit score = %v, want 75", pages[0].AuditScore)
	}
}

func TestUpsertRequiresIdentity(t *testing.T) {
	store := openTestStore(t)
	if err := store.UpsertPage(inventory.Item{URL: "https://example.com/"}); err == nil {
		t.Fatal("page without id accepted")
	}
	if err := store.UpsertPage(inventory.Item{ID: "x"}); err == nil {
		t.Fatal("page without url accepted")
	}
}

func TestOpenReopensExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crawl.sqlite")
	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.UpsertPage(inventory.Item{ID: "a", URL: "https://example.com/a"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = reopened.Close()
	}()
	pages, err := reopened.Pages()
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 1 || pages[0].ID != "a" {
		t.Fatalf("pages after reopen = %+v", pages)
	}
}
