package pricing

import (
	"context"
	_ "embed"
	"log/slog"
	"os"
	"path/filepath"

	"tokencost/internal/cache"
	"tokencost/internal/core"
)

// SnapshotFileName is the file name probed for a local catalog snapshot.
const SnapshotFileName = "model_prices.json"

// bundledSnapshot ships a catalog inside the binary so offline mode works on
// a fresh install with no snapshot file and no prior fetch.
//
//go:embed model_prices.json
var bundledSnapshot []byte

// OfflineLoader supplies a catalog without network access. Candidates are
// probed in order; the first one that exists and parses wins:
//
//  1. each configured snapshot path,
//  2. SnapshotFileName next to the running executable,
//  3. SnapshotFileName in the working directory,
//  4. the persistent snapshot cache, if one is attached,
//  5. the bundled dataset, unless disabled.
type OfflineLoader struct {
	candidates []string
	snapCache  cache.SnapshotCache
	bundled    []byte
}

// NewOfflineLoader builds a loader with the default candidate order.
// extraPaths are probed first, in the order given. snapCache may be nil.
func NewOfflineLoader(snapCache cache.SnapshotCache, extraPaths ...string) *OfflineLoader {
	candidates := make([]string, 0, len(extraPaths)+2)
	for _, p := range extraPaths {
		if p != "" {
			candidates = append(candidates, p)
		}
	}
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), SnapshotFileName))
	}
	candidates = append(candidates, SnapshotFileName)

	return &OfflineLoader{
		candidates: candidates,
		snapCache:  snapCache,
		bundled:    bundledSnapshot,
	}
}

// DisableBundled drops the embedded dataset from the candidate chain, leaving
// only filesystem and cache candidates. Used by tests and by deployments that
// must fail loudly rather than price from stale bundled data.
func (l *OfflineLoader) DisableBundled() {
	l.bundled = nil
}

// Load returns the first usable catalog from the candidate chain, along with
// a description of where it came from. Entries are schema-validated the same
// way as in a remote fetch. Fails with not_found_error only when no candidate
// yields usable data.
func (l *OfflineLoader) Load() (core.Catalog, string, error) {
	for _, path := range l.candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				slog.Debug("skipping unreadable snapshot candidate", "path", path, "error", err)
			}
			continue
		}

		catalog, skipped, err := ParseCatalog(data)
		if err != nil {
			slog.Warn("skipping unparseable snapshot candidate", "path", path, "error", err)
			continue
		}
		if skipped > 0 {
			slog.Debug("dropped snapshot entries failing schema validation", "path", path, "skipped", skipped)
		}
		return catalog, "file:" + path, nil
	}

	if l.snapCache != nil {
		if catalog, src, ok := l.loadFromCache(); ok {
			return catalog, src, nil
		}
	}

	if len(l.bundled) > 0 {
		catalog, _, err := ParseCatalog(l.bundled)
		if err == nil {
			return catalog, "bundled", nil
		}
		slog.Warn("bundled snapshot failed to parse", "error", err)
	}

	return nil, "", core.NewNotFoundError("no usable pricing snapshot at any candidate location")
}

func (l *OfflineLoader) loadFromCache() (core.Catalog, string, bool) {
	// The cache backends take a context for Redis round trips; the loader
	// itself has no caller-supplied deadline.
	snap, err := l.snapCache.Get(context.Background())
	if err != nil {
		slog.Warn("failed to read snapshot cache", "error", err)
		return nil, "", false
	}
	if snap == nil || len(snap.Catalog) == 0 {
		return nil, "", false
	}

	catalog, _, err := ParseCatalog(snap.Catalog)
	if err != nil {
		slog.Warn("cached snapshot failed to parse", "error", err)
		return nil, "", false
	}
	return catalog, "cache:" + snap.FetchedAt.Format("2006-01-02T15:04:05Z07:00"), true
}
