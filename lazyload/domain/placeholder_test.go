package domain

import (
	"sync"
	"testing"
)

func TestPlaceholder_MarkLoadedOnlyOnce(t *testing.T) {
	p := NewPlaceholder("mini-chart-0", "mini-chart", Target{})
	if !p.Transition(StateUnloaded, StateQueued) || !p.Transition(StateQueued, StateLoading) {
		t.Fatalf("expected unloaded -> queued -> loading")
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if p.MarkLoaded("<div></div>") {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("expected exactly one MarkLoaded to win, got %d", wins)
	}
	if p.State() != StateLoaded {
		t.Fatalf("expected loaded, got %s", p.State())
	}
	if p.MarkFailed() {
		t.Fatalf("expected loaded to be terminal")
	}
}

func TestPlaceholder_MarkupEmptyUntilLoaded(t *testing.T) {
	p := NewPlaceholder("x", "symbol-info", Target{})
	if p.MarkLoaded("<b>") {
		t.Fatalf("expected MarkLoaded to require loading state")
	}
	if p.Markup() != "" {
		t.Fatalf("expected empty markup, got %q", p.Markup())
	}
}
