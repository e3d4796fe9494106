package cache

import (
	"strings"
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	k1 := Key("some fragment content")
	k2 := Key("some fragment content")
	k3 := Key("different content")

	if k1 != k2 {
		t.Error("identical content must produce identical keys")
	}
	if k1 == k3 {
		t.Error("different content must produce different keys")
	}
	if !strings.HasPrefix(k1, "memsieve:v1:") {
		t.Errorf("unexpected key prefix: %s", k1)
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("expected miss for unknown key")
	}

	if err := c.Set("k", []byte("value"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	val, found := c.Get("k")
	if !found || string(val) != "value" {
		t.Errorf("expected hit with %q, got %q found=%v", "value", val, found)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("expected miss after delete")
	}
}

func TestDiskCache(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)

	if err := c.Set(Key("content"), []byte("embedding"), 0); err != nil {
		t.Fatalf("set: %v", err)
	}
	val, found := c.Get(Key("content"))
	if !found || string(val) != "embedding" {
		t.Errorf("expected hit, got %q found=%v", val, found)
	}

	// Expired entries are treated as misses
	if err := c.Set("expired", []byte("old"), -time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, found := c.Get("expired"); found {
		t.Error("expected miss for expired entry")
	}
}

func TestLayeredCache(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Minute)

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	val, found := c.Get("k")
	if !found || string(val) != "v" {
		t.Errorf("expected layered hit, got %q found=%v", val, found)
	}

	// Disk survives a fresh memory layer and promotes on read
	fresh := NewLayeredCache(time.Minute, dir, time.Minute)
	val, found = fresh.Get("k")
	if !found || string(val) != "v" {
		t.Errorf("expected disk hit through fresh layered cache, got %q found=%v", val, found)
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("expected miss after clear")
	}
}

func TestLayeredCache_MemoryOnly(t *testing.T) {
	c := NewLayeredCache(time.Minute, "", time.Minute)

	if err := c.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if val, found := c.Get("k"); !found || string(val) != "v" {
		t.Errorf("expected memory-only hit, got %q found=%v", val, found)
	}
	if err := c.Delete("k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("expected miss after delete")
	}
}
