package signals

import (
	"testing"

	"siteplan/internal/inventory"
)

func TestComputeSiteAverages(t *testing.T) {
	items := []inventory.Item{
		{WordCount: ip(1000)},
		{InternalLinkCount: ip(10)},
		{},
	}
	// The page with neither field present is excluded from the denominator;
	// an absent field on an included page counts as zero.
	got := ComputeSiteAverages(items)
	if want := (SiteAverages{AvgInternalLinks: 5, AvgWordCount: 500}); got != want {
		t.Fatalf("averages = %+v, want %+v", got, want)
	}
}

func TestComputeSiteAveragesRounds(t *testing.T) {
	items := []inventory.Item{
		{InternalLinkCount: ip(1)},
		{InternalLinkCount: ip(2)},
	}
	got := ComputeSiteAverages(items)
	if got.AvgInternalLinks != 2 {
		t.Fatalf("avg internal links = %d, want 2", got.AvgInternalLinks)
	}
}

func TestComputeSiteAveragesEmpty(t *testing.T) {
	if got := ComputeSiteAverages(nil); got != (SiteAverages{}) {
		t.Fatalf("empty inventory averages = %+v, want zero", got)
	}
	items := []inventory.Item{{AuditScore: fp(50)}}
	if got := ComputeSiteAverages(items); got != (SiteAverages{}) {
		t.Fatalf("no-crawl-data averages = %+v, want zero", got)
	}
}
