package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const testCatalogBody = `{"claude-sonnet-4": {"input_cost_per_token": 3e-06}}`

func TestLocalCache(t *testing.T) {
	t.Run("GetSetRoundTrip", func(t *testing.T) {
		tmpDir := t.TempDir()
		cacheFile := filepath.Join(tmpDir, "catalog.json")

		cache := NewLocalCache(cacheFile)
		ctx := context.Background()

		// Initially empty
		result, err := cache.Get(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != nil {
			t.Fatalf("expected nil result for empty cache, got %v", result)
		}

		snap := NewSnapshot([]byte(testCatalogBody))
		if err := cache.Set(ctx, snap); err != nil {
			t.Fatalf("unexpected error on set: %v", err)
		}

		result, err = cache.Get(ctx)
		if err != nil {
			t.Fatalf("unexpected error on get: %v", err)
		}
		if result == nil {
			t.Fatal("expected result, got nil")
		}
		if result.Version != SnapshotVersion {
			t.Errorf("expected version %d, got %d", SnapshotVersion, result.Version)
		}
		if string(result.Catalog) != testCatalogBody {
			t.Errorf("catalog bytes changed in round trip: %s", result.Catalog)
		}
		if result.Checksum != Checksum([]byte(testCatalogBody)) {
			t.Errorf("checksum mismatch: %s", result.Checksum)
		}
	})

	t.Run("CreateDirectoryIfNeeded", func(t *testing.T) {
		tmpDir := t.TempDir()
		cacheFile := filepath.Join(tmpDir, "nested", "dir", "catalog.json")

		cache := NewLocalCache(cacheFile)
		if err := cache.Set(context.Background(), NewSnapshot([]byte(`{}`))); err != nil {
			t.Fatalf("unexpected error on set: %v", err)
		}
		if _, err := os.Stat(cacheFile); err != nil {
			t.Errorf("expected snapshot file to exist: %v", err)
		}
	})

	t.Run("EmptyPathIsNoop", func(t *testing.T) {
		cache := NewLocalCache("")
		ctx := context.Background()

		if err := cache.Set(ctx, NewSnapshot([]byte(`{}`))); err != nil {
			t.Fatalf("unexpected error on set: %v", err)
		}
		result, err := cache.Get(ctx)
		if err != nil {
			t.Fatalf("unexpected error on get: %v", err)
		}
		if result != nil {
			t.Error("expected nil result for no-op cache")
		}
	})

	t.Run("CorruptFileIsAnError", func(t *testing.T) {
		tmpDir := t.TempDir()
		cacheFile := filepath.Join(tmpDir, "catalog.json")
		if err := os.WriteFile(cacheFile, []byte("not json"), 0o644); err != nil {
			t.Fatal(err)
		}

		cache := NewLocalCache(cacheFile)
		if _, err := cache.Get(context.Background()); err == nil {
			t.Error("expected error for corrupt snapshot file")
		}
	})
}

func TestChecksum_ChangeDetection(t *testing.T) {
	a := Checksum([]byte(testCatalogBody))
	b := Checksum([]byte(testCatalogBody))
	if a != b {
		t.Errorf("checksum not stable: %s vs %s", a, b)
	}
	if Checksum([]byte(`{}`)) == a {
		t.Error("different bodies should produce different checksums")
	}
}
