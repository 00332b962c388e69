package cache

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/pedigraph/pkg/observability"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache.Get should always return miss")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	ik1 := k.InbreedingKey("abc", InbreedingKeyOpts{Method: "meuwissen-luo"})
	ik2 := k.InbreedingKey("abc", InbreedingKeyOpts{Method: "tabular"})
	ik3 := k.InbreedingKey("def", InbreedingKeyOpts{Method: "meuwissen-luo"})
	if ik1 == ik2 || ik1 == ik3 {
		t.Error("method and pedigree hash should both change the key")
	}
	if !strings.HasPrefix(ik1, "inbreeding:") {
		t.Errorf("InbreedingKey should be prefixed with 'inbreeding:', got %s", ik1)
	}
	if ik1 != k.InbreedingKey("abc", InbreedingKeyOpts{Method: "meuwissen-luo"}) {
		t.Error("InbreedingKey should be deterministic")
	}

	dk1 := k.DistributionKey("abc", DistributionKeyOpts{SampleSize: 10, MaxDepth: 20, Seed: 1})
	dk2 := k.DistributionKey("abc", DistributionKeyOpts{SampleSize: 10, MaxDepth: 20, Seed: 2})
	if dk1 == dk2 {
		t.Error("Different seeds should produce different keys")
	}
	if !strings.HasPrefix(dk1, "distribution:") {
		t.Errorf("DistributionKey should be prefixed with 'distribution:', got %s", dk1)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	k := NewScopedKeyer(inner, "herd:a:")
	opts := InbreedingKeyOpts{Method: "meuwissen-luo"}

	got := k.InbreedingKey("abc", opts)
	if got != "herd:a:"+inner.InbreedingKey("abc", opts) {
		t.Errorf("scoped key = %s", got)
	}
	if NewScopedKeyer(nil, "x:").DistributionKey("abc", DistributionKeyOpts{}) == "" {
		t.Error("nil inner keyer should fall back to the default")
	}
}

func TestKeyType(t *testing.T) {
	k := NewDefaultKeyer()
	tests := []struct {
		key  string
		want string
	}{
		{k.InbreedingKey("h", InbreedingKeyOpts{}), "inbreeding"},
		{NewScopedKeyer(k, "herd:a:").DistributionKey("h", DistributionKeyOpts{}), "distribution"},
		{"plain", "unknown"},
	}
	for _, tt := range tests {
		if got := keyType(tt.key); got != tt.want {
			t.Errorf("keyType(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Error("Get on empty cache should miss")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || !hit {
		t.Fatalf("Get after Set: hit=%v err=%v", hit, err)
	}
	if string(data) != "value" {
		t.Errorf("Get = %q, want value", data)
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete of missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "key", []byte("value"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("expired entry should miss")
	}
	if _, err := os.Stat(c.path("key")); !os.IsNotExist(err) {
		t.Error("expired entry should be removed")
	}

	if err := c.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("ttl 0 should not expire")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	path := c.path("key")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "key"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v, want miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	_ = c.Set(ctx, "a", []byte("1"), 0)
	_ = c.Set(ctx, "b", []byte("2"), 0)

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("Clear should remove entries")
	}
	if _, err := os.Stat(c.Dir()); err != nil {
		t.Errorf("Clear should keep the directory: %v", err)
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	want := []float64{0, 0.25, 0.125}
	if err := SetJSON(ctx, c, "inbreeding:x", want, time.Hour); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	var got []float64
	if err := GetJSON(ctx, c, "inbreeding:x", &got); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if len(got) != 3 || got[1] != 0.25 {
		t.Errorf("GetJSON = %v, want %v", got, want)
	}

	if err := GetJSON(ctx, c, "inbreeding:missing", &got); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("missing key: err = %v, want ErrCacheMiss", err)
	}

	_ = c.Set(ctx, "inbreeding:bad", []byte("not json"), 0)
	if err := GetJSON(ctx, c, "inbreeding:bad", &got); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("undecodable value: err = %v, want ErrCacheMiss", err)
	}
}

type countingHooks struct {
	observability.NoopCacheHooks
	hits, misses, sets map[string]int
}

func (h *countingHooks) OnCacheHit(_ context.Context, k string)     { h.hits[k]++ }
func (h *countingHooks) OnCacheMiss(_ context.Context, k string)    { h.misses[k]++ }
func (h *countingHooks) OnCacheSet(_ context.Context, k string, _ int) { h.sets[k]++ }

func TestWithHooks(t *testing.T) {
	ctx := context.Background()
	h := &countingHooks{hits: map[string]int{}, misses: map[string]int{}, sets: map[string]int{}}
	observability.SetCacheHooks(h)
	defer observability.Reset()

	fc, _ := NewFileCache(t.TempDir())
	c := WithHooks(fc)
	if WithHooks(c) != c {
		t.Error("WithHooks should not wrap twice")
	}

	key := NewDefaultKeyer().InbreedingKey("h", InbreedingKeyOpts{})
	_, _, _ = c.Get(ctx, key)
	_ = c.Set(ctx, key, []byte("[]"), time.Hour)
	_, _, _ = c.Get(ctx, key)

	if h.misses["inbreeding"] != 1 || h.sets["inbreeding"] != 1 || h.hits["inbreeding"] != 1 {
		t.Errorf("hooks: hits=%v misses=%v sets=%v", h.hits, h.misses, h.sets)
	}
}

func TestNewRedisCacheUnavailable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := NewRedisCache(ctx, RedisConfig{}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("empty addr: err = %v, want ErrUnavailable", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	if _, err := NewRedisCache(ctx, RedisConfig{Addr: addr}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("closed port: err = %v, want ErrUnavailable", err)
	}
}

func TestClassify(t *testing.T) {
	if classify(nil) != nil {
		t.Error("classify(nil) should be nil")
	}
	plain := errors.New("WRONGTYPE")
	if IsRetryable(classify(plain)) {
		t.Error("non-network errors should not be retryable")
	}
	netErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	if err := classify(netErr); !IsRetryable(err) || !errors.Is(err, ErrUnavailable) {
		t.Errorf("classify(net error) = %v, want retryable ErrUnavailable", err)
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}
	inner := errors.New("boom")
	err := Retryable(inner)
	if !IsRetryable(err) {
		t.Error("IsRetryable should detect wrapped error")
	}
	if !errors.Is(err, inner) {
		t.Error("Retryable should unwrap to the inner error")
	}
	if err.Error() != "boom" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestRetryWithBackoff(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	defer func() { retryDelay = old }()
	ctx := context.Background()

	t.Run("succeeds after retry", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			if calls < 2 {
				return Retryable(errors.New("transient"))
			}
			return nil
		})
		if err != nil || calls != 2 {
			t.Errorf("err=%v calls=%d, want nil/2", err, calls)
		}
	})

	t.Run("non-retryable stops", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			return errors.New("fatal")
		})
		if err == nil || calls != 1 {
			t.Errorf("err=%v calls=%d, want error/1", err, calls)
		}
	})

	t.Run("gives up after three attempts", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			return Retryable(errors.New("down"))
		})
		if err == nil || calls != 3 {
			t.Errorf("err=%v calls=%d, want error/3", err, calls)
		}
	})

	t.Run("context cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := RetryWithBackoff(cctx, func() error {
			return Retryable(errors.New("down"))
		})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	})
}
