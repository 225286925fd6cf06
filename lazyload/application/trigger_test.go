package application

import (
	"sync"
	"testing"

	"widget-showcase/lazyload/domain"
)

var desktop = domain.Viewport{Width: 1280, Height: 800}

func TestTrigger_FiresOnceWhenEnteringMargin(t *testing.T) {
	calls := 0
	trg := NewTrigger(TriggerOptions{}, func(domain.Region, domain.Viewport) { calls++ })

	// 100px abaixo do viewport: fora da margem de 50px
	if trg.Observe(domain.Region{Top: 900, Width: 400, Height: 300}, desktop) {
		t.Fatalf("expected no fire outside margin")
	}
	// 30px abaixo: 20px dentro da margem, 20/300 < 0.1
	if trg.Observe(domain.Region{Top: 830, Width: 400, Height: 300}, desktop) {
		t.Fatalf("expected no fire below threshold")
	}
	// topo em 790: 60px visíveis na área expandida, 60/300 = 0.2
	if !trg.Observe(domain.Region{Top: 790, Width: 400, Height: 300}, desktop) {
		t.Fatalf("expected fire once threshold is crossed")
	}
	if trg.Observe(domain.Region{Top: 100, Width: 400, Height: 300}, desktop) {
		t.Fatalf("expected no second fire")
	}
	if calls != 1 {
		t.Fatalf("expected callback once, got %d", calls)
	}
	if !trg.Done() {
		t.Fatalf("expected trigger done after firing")
	}
}

func TestTrigger_ConcurrentObserveFiresOnce(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	trg := NewTrigger(TriggerOptions{}, func(domain.Region, domain.Viewport) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			trg.Observe(domain.Region{Top: 10, Width: 100, Height: 100}, desktop)
		}()
	}
	wg.Wait()

	if calls != 1 {
		t.Fatalf("expected exactly one fire, got %d", calls)
	}
}

func TestTrigger_StopPreventsFire(t *testing.T) {
	fired := false
	trg := NewTrigger(TriggerOptions{}, func(domain.Region, domain.Viewport) { fired = true })
	trg.Stop()

	if trg.Observe(domain.Region{Top: 0, Width: 10, Height: 10}, desktop) || fired {
		t.Fatalf("expected stopped trigger not to fire")
	}
}

func TestTrigger_CustomThreshold(t *testing.T) {
	trg := NewTrigger(TriggerOptions{Margin: -1, Threshold: 0.5}, nil)

	// sem margem: 100 de 300px visíveis
	if trg.Observe(domain.Region{Top: 700, Width: 100, Height: 300}, desktop) {
		t.Fatalf("expected no fire at 1/3 visible with threshold 0.5")
	}
	if !trg.Observe(domain.Region{Top: 600, Width: 100, Height: 300}, desktop) {
		t.Fatalf("expected fire at 2/3 visible")
	}
}

func TestIntersectionRatio_ZeroAreaRegion(t *testing.T) {
	if got := IntersectionRatio(domain.Region{Top: 820, Width: 100}, desktop, 50); got != 1 {
		t.Fatalf("expected ratio 1 for empty region inside margin, got %v", got)
	}
	if got := IntersectionRatio(domain.Region{Top: 900, Width: 100}, desktop, 50); got != 0 {
		t.Fatalf("expected ratio 0 for empty region outside, got %v", got)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		top  float64
		want domain.Priority
	}{
		{0, domain.PriorityHigh},
		{799, domain.PriorityHigh},
		{800, domain.PriorityMedium},
		{1599, domain.PriorityMedium},
		{1600, domain.PriorityLow},
		{-200, domain.PriorityHigh},
	}
	for _, c := range cases {
		if got := Classify(c.top, 800); got != c.want {
			t.Fatalf("Classify(%v): expected %d, got %d", c.top, c.want, got)
		}
	}
}
