// Package cache provides persistent storage for the most recently fetched
// pricing-catalog snapshot. Supports a local file backend for single-host use
// and a Redis backend for shared deployments.
package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Snapshot is the stored form of one fetched catalog: the raw JSON body plus
// metadata. The body is kept opaque so the schema filter decides validity at
// load time, not at store time.
type Snapshot struct {
	Version   int             `json:"version"`
	FetchedAt time.Time       `json:"fetched_at"`
	Checksum  string          `json:"checksum"`
	Catalog   json.RawMessage `json:"catalog"`
}

// SnapshotVersion is the current snapshot format version.
const SnapshotVersion = 1

// NewSnapshot builds a snapshot around raw catalog bytes, stamping the fetch
// time and content checksum.
func NewSnapshot(raw []byte) *Snapshot {
	return &Snapshot{
		Version:   SnapshotVersion,
		FetchedAt: time.Now().UTC(),
		Checksum:  Checksum(raw),
		Catalog:   json.RawMessage(raw),
	}
}

// Checksum returns the content hash used for change detection between
// successive catalog fetches.
func Checksum(raw []byte) string {
	return strconv.FormatUint(xxhash.Sum64(raw), 16)
}

// SnapshotCache stores and retrieves the catalog snapshot.
// Implementations must be safe for concurrent use.
type SnapshotCache interface {
	// Get retrieves the stored snapshot.
	// Returns nil, nil if no snapshot exists yet.
	Get(ctx context.Context) (*Snapshot, error)

	// Set stores the snapshot, replacing any previous one.
	Set(ctx context.Context, snap *Snapshot) error

	// Close releases any resources held by the cache.
	Close() error
}
