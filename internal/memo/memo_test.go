package memo

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestDoRunsOncePerKey(t *testing.T) {
	c := New()
	var calls int32

	for i := 0; i < 5; i++ {
		v, err := c.Do("k", func() (any, error) {
			atomic.AddInt32(&calls, 1)
			return "value", nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v != "value" {
			t.Fatalf("unexpected value: %v", v)
		}
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestDoConcurrentCallersShareOneCall(t *testing.T) {
	c := New()
	var calls int32
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Do("shared", func() (any, error) {
				atomic.AddInt32(&calls, 1)
				return 42, nil
			})
		}()
	}
	wg.Wait()

	if calls != 1 {
		t.Fatalf("expected a single in-flight call, got %d", calls)
	}
}

func TestDoMemoizesErrors(t *testing.T) {
	c := New()
	sentinel := errors.New("upstream down")
	var calls int32

	for i := 0; i < 3; i++ {
		_, err := c.Do("fail", func() (any, error) {
			atomic.AddInt32(&calls, 1)
			return nil, sentinel
		})
		if !errors.Is(err, sentinel) {
			t.Fatalf("expected sentinel error, got %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestNilCacheRunsDirectly(t *testing.T) {
	var c *Cache
	v, err := c.Do("k", func() (any, error) { return 7, nil })
	if err != nil || v != 7 {
		t.Fatalf("nil cache should pass through, got (%v, %v)", v, err)
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) != nil {
		t.Fatal("expected nil cache for bare context")
	}
	ctx := With(context.Background())
	if FromContext(ctx) == nil {
		t.Fatal("expected cache after With")
	}
}

func TestKey(t *testing.T) {
	if Key("popular-movies", 1, "US") != "popular-movies|1|US" {
		t.Fatalf("unexpected key: %s", Key("popular-movies", 1, "US"))
	}
	if Key("a") == Key("a", "") {
		t.Fatal("keys with different arity must differ")
	}
}
