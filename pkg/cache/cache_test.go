package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	// Miss before set
	_, hit, err := c.Get(ctx, "trace:abc")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("Get before Set should miss")
	}

	// Roundtrip
	want := []byte(`{"nodes":[],"edges":[]}`)
	if err := c.Set(ctx, "trace:abc", want, time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	got, hit, err := c.Get(ctx, "trace:abc")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("Get after Set should hit")
	}
	if string(got) != string(want) {
		t.Errorf("Get = %q, want %q", got, want)
	}

	// Delete removes the entry
	if err := c.Delete(ctx, "trace:abc"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "trace:abc")
	if hit {
		t.Error("Get after Delete should miss")
	}

	// Deleting a missing key is not an error
	if err := c.Delete(ctx, "trace:missing"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheLayerLayout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	keyer := NewDefaultKeyer()
	traceKey := keyer.TraceKey("app/main", "cfg", TraceKeyOpts{})
	artifactKey := keyer.ArtifactKey("hash", ArtifactKeyOpts{Format: "svg"})

	if err := c.Set(ctx, traceKey, []byte("t"), 0); err != nil {
		t.Fatalf("Set trace key: %v", err)
	}
	if err := c.Set(ctx, artifactKey, []byte("a"), 0); err != nil {
		t.Fatalf("Set artifact key: %v", err)
	}
	if err := c.Set(ctx, "plain key", []byte("k"), 0); err != nil {
		t.Fatalf("Set plain key: %v", err)
	}

	for _, layer := range []string{"trace", "artifact", "kv"} {
		entries, err := os.ReadDir(filepath.Join(dir, layer))
		if err != nil {
			t.Errorf("layer dir %s: %v", layer, err)
			continue
		}
		if len(entries) == 0 {
			t.Errorf("layer dir %s is empty", layer)
		}
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	_, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("expired entry should miss")
	}
}

func TestFileCacheZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	_, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Error("zero-ttl entry should not expire")
	}
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	defer c.Close()

	// Miss before set
	_, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("Get before Set should miss")
	}

	// Roundtrip
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	got, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("Get after Set should hit")
	}
	if string(got) != "value" {
		t.Errorf("Get = %q, want value", got)
	}

	// Expiry
	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	_, hit, _ = c.Get(ctx, "short")
	if hit {
		t.Error("expired entry should miss")
	}

	// Delete
	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("Get after Delete should miss")
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// TraceKey should include options in hash
	tk1 := k.TraceKey("app/main", "cfg1", TraceKeyOpts{BaseDir: "/srv/app"})
	tk2 := k.TraceKey("app/main", "cfg1", TraceKeyOpts{BaseDir: "/srv/other"})
	if tk1 == tk2 {
		t.Error("Different TraceKeyOpts should produce different keys")
	}

	// Different config hashes produce different keys
	tk3 := k.TraceKey("app/main", "cfg2", TraceKeyOpts{BaseDir: "/srv/app"})
	if tk1 == tk3 {
		t.Error("Different config hashes should produce different keys")
	}

	// Same inputs produce the same key
	if tk1 != k.TraceKey("app/main", "cfg1", TraceKeyOpts{BaseDir: "/srv/app"}) {
		t.Error("TraceKey should be deterministic")
	}
	if !strings.HasPrefix(tk1, "trace:") {
		t.Errorf("TraceKey should carry trace prefix: %s", tk1)
	}

	// ArtifactKey
	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "png"})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
	ak3 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg", Detailed: true})
	if ak1 == ak3 {
		t.Error("Detailed flag should produce a different key")
	}
	if !strings.HasPrefix(ak1, "artifact:") {
		t.Errorf("ArtifactKey should carry artifact prefix: %s", ak1)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "proj:webapp:")

	// All keys should be prefixed
	traceKey := scoped.TraceKey("app/main", "cfg1", TraceKeyOpts{})
	if !strings.HasPrefix(traceKey, "proj:webapp:trace:") {
		t.Errorf("ScopedKeyer TraceKey should be prefixed: %s", traceKey)
	}

	artifactKey := scoped.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg"})
	if !strings.HasPrefix(artifactKey, "proj:webapp:artifact:") {
		t.Errorf("ScopedKeyer ArtifactKey should be prefixed: %s", artifactKey)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.TraceKey("app/main", "cfg", TraceKeyOpts{})
	if !strings.HasPrefix(key, "prefix:trace:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}
