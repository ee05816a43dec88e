package render

import (
	"fmt"
	"sync"
	"testing"

	"github.com/charmbracelet/glamour"
)

func TestBucketWidth(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{0, 0},
		{5, 5},
		{8, 8},
		{70, 64},
		{79, 72},
		{80, 80},
		{121, 120},
	}

	for _, tt := range tests {
		if got := bucketWidth(tt.width); got != tt.want {
			t.Errorf("bucketWidth(%d) = %d, want %d", tt.width, got, tt.want)
		}
	}
}

func TestKeyFor(t *testing.T) {
	base := DefaultOptions()

	if keyFor(base.WithWidth(81)) != keyFor(base.WithWidth(87)) {
		t.Error("widths in the same bucket should share a key")
	}
	if keyFor(base) == keyFor(base.WithWidth(100)) {
		t.Error("different width buckets should produce different keys")
	}
	if keyFor(base) == keyFor(base.WithStyle(StyleLight)) {
		t.Error("different styles should produce different keys")
	}
}

func TestCache_Reuse(t *testing.T) {
	ClearCache()
	defer ClearCache()

	key := keyFor(DefaultOptions())
	renderer, err := renderers.borrow(key)
	if err != nil {
		t.Fatalf("borrow() error: %v", err)
	}
	if renderer == nil {
		t.Fatal("expected renderer")
	}
	renderers.giveBack(key, renderer)
	if renderers.idleCount(key) != 1 {
		t.Errorf("idleCount() = %d, want 1", renderers.idleCount(key))
	}

	again, err := renderers.borrow(key)
	if err != nil {
		t.Fatalf("second borrow() error: %v", err)
	}
	if again != renderer {
		t.Error("expected the idle renderer to be reused")
	}
	if CacheSize() != 1 {
		t.Errorf("CacheSize() = %d, want 1", CacheSize())
	}

	if _, err := renderers.borrow(keyFor(DefaultOptions().WithWidth(40))); err != nil {
		t.Fatalf("borrow() error: %v", err)
	}
	if CacheSize() != 2 {
		t.Errorf("CacheSize() = %d, want 2", CacheSize())
	}
}

func TestCache_IdleLimit(t *testing.T) {
	ClearCache()
	defer ClearCache()

	key := keyFor(DefaultOptions())
	borrowed := make([]*glamour.TermRenderer, 0, maxIdle+2)
	for i := 0; i < maxIdle+2; i++ {
		r, err := renderers.borrow(key)
		if err != nil {
			t.Fatalf("borrow() error: %v", err)
		}
		borrowed = append(borrowed, r)
	}
	for _, r := range borrowed {
		renderers.giveBack(key, r)
	}

	if renderers.idleCount(key) != maxIdle {
		t.Errorf("idleCount() = %d, want %d", renderers.idleCount(key), maxIdle)
	}
}

func TestCache_KeyLimit(t *testing.T) {
	ClearCache()
	defer ClearCache()

	for i := 0; i < maxKeys; i++ {
		if _, err := renderers.borrow(rendererKey{style: StyleDark, width: 16 + i*widthStep}); err != nil {
			t.Fatalf("borrow() error: %v", err)
		}
	}
	if CacheSize() != maxKeys {
		t.Fatalf("CacheSize() = %d, want %d", CacheSize(), maxKeys)
	}

	if _, err := renderers.borrow(rendererKey{style: StyleLight, width: 40}); err != nil {
		t.Fatalf("borrow() error: %v", err)
	}
	if CacheSize() != 1 {
		t.Errorf("CacheSize() = %d after overflow, want 1", CacheSize())
	}
}

func TestCache_GiveBackNil(t *testing.T) {
	ClearCache()
	defer ClearCache()

	renderers.giveBack(keyFor(DefaultOptions()), nil)
	if CacheSize() != 0 {
		t.Errorf("giveBack(nil) should not create an entry, CacheSize() = %d", CacheSize())
	}
}

func TestMarkdown_Concurrent(t *testing.T) {
	ClearCache()
	defer ClearCache()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			opts := DefaultOptions().WithWidth(60 + i%3)
			if _, err := Markdown(fmt.Sprintf("**Refunds** take %d days.", i), opts); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Markdown() error: %v", err)
	}
}
