package catalog

import (
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/atsu-uapmd/pluginhost/pkg/format"
)

type fakeScanner struct {
	entries []Entry
	failAt  int // index within entries to report as an error instead of skipping
}

func (s fakeScanner) Scan(ctx context.Context) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		for i, e := range s.entries {
			if i == s.failAt {
				if !yield(Entry{}, errors.New("bad bundle")) {
					return
				}
				continue
			}
			if !yield(e, nil) {
				return
			}
		}
	}
}

func TestScanAllMergesEntriesAcrossScanners(t *testing.T) {
	c := New()
	v3cScanner := fakeScanner{entries: []Entry{{Format: format.FamilyV3C, PluginID: "v3c.gain"}}, failAt: -1}
	cfeScanner := fakeScanner{entries: []Entry{{Format: format.FamilyCFE, PluginID: "cfe.gain"}}, failAt: -1}

	session := c.ScanAll(context.Background(), []Scanner{v3cScanner, cfeScanner})

	if len(session.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", session.Errors)
	}
	if len(c.All()) != 2 {
		t.Fatalf("expected 2 merged entries, got %d", len(c.All()))
	}
	if c.Find("v3c.gain") == nil || c.Find("cfe.gain") == nil {
		t.Fatal("expected both entries findable by plugin id")
	}
}

func TestScanAllSkipsBadBundleWithoutAborting(t *testing.T) {
	c := New()
	s := fakeScanner{entries: []Entry{
		{Format: format.FamilyV3C, PluginID: "good.one"},
		{}, // will be reported as error via failAt
		{Format: format.FamilyV3C, PluginID: "good.two"},
	}, failAt: 1}

	session := c.ScanAll(context.Background(), []Scanner{s})

	if len(session.Errors) != 1 {
		t.Fatalf("expected 1 recorded error, got %d", len(session.Errors))
	}
	if len(c.All()) != 2 {
		t.Fatalf("expected the two good entries to still be collected, got %d", len(c.All()))
	}
}

func TestByFormatFiltersEntries(t *testing.T) {
	c := New()
	s := fakeScanner{entries: []Entry{
		{Format: format.FamilyV3C, PluginID: "a"},
		{Format: format.FamilyCFE, PluginID: "b"},
		{Format: format.FamilyV3C, PluginID: "c"},
	}, failAt: -1}
	c.ScanAll(context.Background(), []Scanner{s})

	v3cEntries := c.ByFormat(format.FamilyV3C)
	if len(v3cEntries) != 2 {
		t.Fatalf("expected 2 V3C entries, got %d", len(v3cEntries))
	}
}
