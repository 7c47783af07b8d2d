// Package catalog models the discoverable-plugin directory an external
// scanner populates: one Entry per installed bundle, enough metadata to
// decide whether to load it without opening the bundle itself. Filesystem
// discovery and metadata caching are out of core (see package fsscan for
// the reference implementation); this package only holds the narrow
// Scanner interface and the aggregate view the host consumes it through.
package catalog

import (
	"context"
	"iter"

	"github.com/google/uuid"

	"github.com/atsu-uapmd/pluginhost/pkg/format"
)

// Entry is one discovered plugin bundle on disk — immutable after
// construction, consumed by adapters at instantiation.
type Entry struct {
	Format      format.Family
	PluginID    string
	BundlePath  string
	DisplayName string
	Vendor      string
	ProductURL  string
}

// Scanner discovers installed plugin bundles, yielding entries (or scan
// errors) lazily so a caller can stop early and so one bad bundle never
// aborts the whole scan. Implemented externally; the reference
// implementation is package fsscan.
type Scanner interface {
	Scan(ctx context.Context) iter.Seq2[Entry, error]
}

// Catalog aggregates entries from one or more Scanners, tagging each scan
// pass with a surrogate session id for log correlation.
type Catalog struct {
	entries []Entry
}

// New returns an empty Catalog.
func New() *Catalog { return &Catalog{} }

// ScanSession is the surrogate id assigned to one ScanAll invocation.
type ScanSession struct {
	ID     uuid.UUID
	Errors []error
}

// ScanAll runs every scanner over ctx and merges their results. A
// scanner's per-entry error is recorded and skipped rather than aborting
// the scan, per the "scanning never aborts on one bad bundle" contract.
func (c *Catalog) ScanAll(ctx context.Context, scanners []Scanner) ScanSession {
	session := ScanSession{ID: uuid.New()}
	for _, s := range scanners {
		for entry, err := range s.Scan(ctx) {
			if err != nil {
				session.Errors = append(session.Errors, err)
				continue
			}
			c.entries = append(c.entries, entry)
		}
	}
	return session
}

// All returns every entry currently in the catalog.
func (c *Catalog) All() []Entry { return c.entries }

// ByFormat returns entries matching the given format family.
func (c *Catalog) ByFormat(f format.Family) []Entry {
	var out []Entry
	for _, e := range c.entries {
		if e.Format == f {
			out = append(out, e)
		}
	}
	return out
}

// Find returns the entry with the given plugin id, or nil if not found.
func (c *Catalog) Find(pluginID string) *Entry {
	for i := range c.entries {
		if c.entries[i].PluginID == pluginID {
			return &c.entries[i]
		}
	}
	return nil
}
