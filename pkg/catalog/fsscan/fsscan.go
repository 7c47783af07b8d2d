// Package fsscan is the reference filesystem catalog.Scanner: it walks a
// set of platform-conventional search directories looking for bundle
// directories with a format-specific extension, yielding one
// catalog.Entry per bundle found. This is explicitly a reference
// implementation of an out-of-core external interface, not part of the
// hosting core itself.
package fsscan

import (
	"context"
	"iter"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/atsu-uapmd/pluginhost/pkg/catalog"
	"github.com/atsu-uapmd/pluginhost/pkg/format"
)

// DefaultSearchPaths returns the platform-conventional bundle directories
// for family, per the host's catalog discovery path conventions.
func DefaultSearchPaths(family format.Family) []string {
	home, _ := os.UserHomeDir()
	switch family {
	case format.FamilyV3C:
		switch runtime.GOOS {
		case "windows":
			return []string{
				os.ExpandEnv(`$LOCALAPPDATA\Programs\Common\VST3`),
				os.ExpandEnv(`$PROGRAMFILES\Common Files\VST3`),
			}
		case "darwin":
			return []string{
				filepath.Join(home, "Library/Audio/Plug-Ins/VST3"),
				"/Library/Audio/Plug-Ins/VST3",
			}
		default:
			return []string{
				filepath.Join(home, ".vst3"),
				"/usr/lib/vst3",
				"/usr/local/lib/vst3",
			}
		}
	case format.FamilyCFE:
		switch runtime.GOOS {
		case "windows":
			return []string{os.ExpandEnv(`$COMMONPROGRAMFILES\CLAP`)}
		case "darwin":
			return []string{
				"/Library/Audio/Plug-Ins/CLAP",
				filepath.Join(home, "Library/Audio/Plug-Ins/CLAP"),
			}
		default:
			return []string{
				filepath.Join(home, ".clap"),
				"/usr/lib/clap",
			}
		}
	default:
		return nil
	}
}

// bundleExtension is the directory-bundle suffix a format uses on disk.
func bundleExtension(family format.Family) string {
	switch family {
	case format.FamilyV3C:
		return ".vst3"
	case format.FamilyCFE:
		return ".clap"
	default:
		return ""
	}
}

// Scanner is catalog.Scanner for one format family over a fixed set of
// search paths (falling back to DefaultSearchPaths when unset).
type Scanner struct {
	Family      format.Family
	SearchPaths []string

	// MetadataReader extracts (pluginID, displayName, vendor, productURL)
	// from a bundle path. Scanning the bundle's manifest/metadata is
	// format-specific and out of core; callers supply it. When nil, the
	// scanner falls back to deriving the plugin id from the bundle's file
	// name.
	MetadataReader func(bundlePath string) (pluginID, displayName, vendor, productURL string, err error)
}

// New returns a Scanner for family, using DefaultSearchPaths unless
// overridden.
func New(family format.Family, searchPaths ...string) *Scanner {
	if len(searchPaths) == 0 {
		searchPaths = DefaultSearchPaths(family)
	}
	return &Scanner{Family: family, SearchPaths: searchPaths}
}

// Scan walks every search path one level deep looking for directories
// with this scanner's bundle extension, yielding a catalog.Entry per
// bundle found. A directory that can't be read is yielded as an error
// and scanning continues with the next search path — one bad directory
// never aborts discovery of the rest.
func (s *Scanner) Scan(ctx context.Context) iter.Seq2[catalog.Entry, error] {
	return func(yield func(catalog.Entry, error) bool) {
		ext := bundleExtension(s.Family)
		for _, root := range s.SearchPaths {
			if ctx.Err() != nil {
				return
			}
			items, err := os.ReadDir(root)
			if err != nil {
				if !yield(catalog.Entry{}, err) {
					return
				}
				continue
			}
			for _, item := range items {
				if ctx.Err() != nil {
					return
				}
				if !item.IsDir() || !strings.EqualFold(filepath.Ext(item.Name()), ext) {
					continue
				}
				bundlePath := filepath.Join(root, item.Name())
				entry := s.buildEntry(bundlePath)
				if !yield(entry, nil) {
					return
				}
			}
		}
	}
}

func (s *Scanner) buildEntry(bundlePath string) catalog.Entry {
	name := strings.TrimSuffix(filepath.Base(bundlePath), bundleExtension(s.Family))
	entry := catalog.Entry{
		Format:      s.Family,
		PluginID:    name,
		BundlePath:  bundlePath,
		DisplayName: name,
	}
	if s.MetadataReader == nil {
		return entry
	}
	if id, display, vendor, url, err := s.MetadataReader(bundlePath); err == nil {
		entry.PluginID = id
		entry.DisplayName = display
		entry.Vendor = vendor
		entry.ProductURL = url
	}
	return entry
}
