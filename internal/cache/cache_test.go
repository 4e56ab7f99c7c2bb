package cache

import (
	"testing"
	"time"
)

func TestSetGet(t *testing.T) {
	c := New(time.Minute)
	c.Set("banners", []int{1, 2, 3})

	v, ok := c.Get("banners")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got := v.([]int); len(got) != 3 {
		t.Errorf("got %v, want 3 elements", got)
	}
}

func TestMiss(t *testing.T) {
	c := New(time.Minute)
	if _, ok := c.Get("nope"); ok {
		t.Error("expected cache miss")
	}
}

func TestExpiry(t *testing.T) {
	c := New(-time.Second) // everything is already stale
	c.Set("banners", "x")
	if _, ok := c.Get("banners"); ok {
		t.Error("expected expired entry to miss")
	}
}

func TestInvalidate(t *testing.T) {
	c := New(time.Minute)
	c.Set("banners", "x")
	c.Invalidate("banners")
	if _, ok := c.Get("banners"); ok {
		t.Error("expected invalidated entry to miss")
	}
}
