package pricing

import (
	"context"
	"log/slog"
	"sync"

	"tokencost/internal/cache"
	"tokencost/internal/core"
)

// CatalogSource fetches a pricing catalog from a remote endpoint.
// *Source is the production implementation; tests substitute fakes.
type CatalogSource interface {
	Fetch(ctx context.Context) (core.Catalog, []byte, error)
}

// ServiceConfig wires a Service together.
type ServiceConfig struct {
	// Source fetches the remote catalog. Ignored in offline mode.
	Source CatalogSource
	// Offline supplies the catalog when the network is unavailable or
	// disabled. Required.
	Offline *OfflineLoader
	// OfflineMode skips the network entirely and loads from Offline.
	OfflineMode bool
	// SnapCache persists successful fetches for later offline use.
	// May be nil.
	SnapCache cache.SnapshotCache
	// Prefixes are the provider prefixes tried during model resolution.
	// Defaults to DefaultProviderPrefixes when empty.
	Prefixes []string
	// TierThreshold is the token count where tiered rates take over.
	// Defaults to DefaultTierThreshold when zero.
	TierThreshold int64
}

// Service resolves model names against the pricing catalog and prices token
// usage. The catalog is loaded once, on first use, and held in memory until
// ClearCache; every lookup after the first load is pure in-memory work.
type Service struct {
	mu      sync.Mutex
	catalog core.Catalog
	loaded  bool
	source  string

	remote      CatalogSource
	offline     *OfflineLoader
	offlineMode bool
	snapCache   cache.SnapshotCache
	prefixes    []string
	threshold   int64
}

// NewService builds a Service from cfg. No I/O happens until the first
// catalog access.
func NewService(cfg ServiceConfig) *Service {
	prefixes := cfg.Prefixes
	if len(prefixes) == 0 {
		prefixes = DefaultProviderPrefixes
	}
	threshold := cfg.TierThreshold
	if threshold <= 0 {
		threshold = DefaultTierThreshold
	}
	return &Service{
		remote:      cfg.Source,
		offline:     cfg.Offline,
		offlineMode: cfg.OfflineMode,
		snapCache:   cfg.SnapCache,
		prefixes:    prefixes,
		threshold:   threshold,
	}
}

// TierThreshold returns the configured tier boundary in tokens.
func (s *Service) TierThreshold() int64 { return s.threshold }

// FetchCatalog returns the in-memory catalog, loading it first if needed.
// Loading tries the network (unless in offline mode), then the offline
// chain. When every source fails, the service degrades to an empty catalog
// with a warning rather than failing: callers then see every model as
// unpriced, which the cost path reports explicitly.
//
// The returned map must be treated as read-only; it is shared across
// callers until the next ClearCache.
func (s *Service) FetchCatalog(ctx context.Context) (core.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalogLocked(ctx), nil
}

// catalogLocked returns the loaded catalog, performing the load on first
// call. Holding the mutex across the load gives single-flight behavior:
// concurrent callers block and then reuse the one loaded catalog instead of
// racing duplicate fetches.
func (s *Service) catalogLocked(ctx context.Context) core.Catalog {
	if s.loaded {
		return s.catalog
	}

	catalog, source := s.load(ctx)
	s.catalog = catalog
	s.source = source
	s.loaded = true
	return s.catalog
}

func (s *Service) load(ctx context.Context) (core.Catalog, string) {
	if !s.offlineMode && s.remote != nil {
		catalog, raw, err := s.remote.Fetch(ctx)
		if err == nil {
			slog.Info("loaded pricing catalog from network", "models", len(catalog))
			s.persistSnapshot(ctx, raw)
			return catalog, "network"
		}
		slog.Warn("catalog fetch failed, falling back to offline sources", "error", err)
	}

	catalog, source, err := s.offline.Load()
	if err == nil {
		slog.Info("loaded pricing catalog from offline source", "source", source, "models", len(catalog))
		return catalog, source
	}

	slog.Warn("no pricing data available, all costs will be reported as unpriced", "error", err)
	return core.Catalog{}, "none"
}

// persistSnapshot stores the raw catalog body for later offline use. Writes
// are skipped when the body checksum matches the stored snapshot.
func (s *Service) persistSnapshot(ctx context.Context, raw []byte) {
	if s.snapCache == nil || len(raw) == 0 {
		return
	}

	sum := cache.Checksum(raw)
	if prev, err := s.snapCache.Get(ctx); err == nil && prev != nil && prev.Checksum == sum {
		return
	}

	if err := s.snapCache.Set(ctx, cache.NewSnapshot(raw)); err != nil {
		slog.Warn("failed to persist catalog snapshot", "error", err)
	}
}

// GetModelPricing resolves modelName to a catalog entry. Returns the matched
// catalog key alongside the entry. Fails with model_not_priced when no key
// matches.
func (s *Service) GetModelPricing(ctx context.Context, modelName string) (string, core.ModelPricing, error) {
	s.mu.Lock()
	catalog := s.catalogLocked(ctx)
	s.mu.Unlock()

	key, entry, ok := Resolve(catalog, modelName, s.prefixes)
	if !ok {
		return "", core.ModelPricing{}, core.NewModelNotPricedError(modelName)
	}
	return key, entry, nil
}

// GetModelContextLimit returns the context window for modelName. Fails with
// model_not_priced when the model does not resolve, and with not_found_error
// when the entry carries no limit fields.
func (s *Service) GetModelContextLimit(ctx context.Context, modelName string) (int64, error) {
	_, entry, err := s.GetModelPricing(ctx, modelName)
	if err != nil {
		return 0, err
	}
	limit, ok := entry.ContextLimit()
	if !ok {
		return 0, core.NewNotFoundError("no context limit published for model " + modelName)
	}
	return limit, nil
}

// CalculateCostFromTokens resolves modelName and prices the given usage.
// Fails with model_not_priced when the model does not resolve; callers that
// prefer a zero cost over an error handle that themselves.
func (s *Service) CalculateCostFromTokens(ctx context.Context, modelName string, tokens core.TokenUsage) (core.CostResult, error) {
	_, entry, err := s.GetModelPricing(ctx, modelName)
	if err != nil {
		return core.CostResult{}, err
	}
	return CalculateCost(tokens, entry, s.threshold), nil
}

// CalculateCostFromPricing prices usage against an already-resolved entry,
// with no catalog access. Useful for batch pricing where the caller resolves
// once and prices many records.
func (s *Service) CalculateCostFromPricing(tokens core.TokenUsage, entry core.ModelPricing) core.CostResult {
	return CalculateCost(tokens, entry, s.threshold)
}

// CatalogOrigin reports where the in-memory catalog came from: "network",
// "file:<path>", "cache:<time>", "bundled", or "none". Empty until the first
// load.
func (s *Service) CatalogOrigin() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// ModelCount returns the number of entries in the loaded catalog, or zero
// before the first load.
func (s *Service) ModelCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.catalog)
}

// ClearCache drops the in-memory catalog. The next access reloads from the
// configured sources. The persistent snapshot cache is left intact so a
// reload without network still has data.
func (s *Service) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = nil
	s.loaded = false
	s.source = ""
}

// Close drops the in-memory catalog and releases the snapshot cache, if any.
func (s *Service) Close() error {
	s.ClearCache()
	if s.snapCache == nil {
		return nil
	}
	return s.snapCache.Close()
}
