package application

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"widget-showcase/lazyload/domain"
)

func newTestFactory(loader domain.Loader) SessionFactory {
	return SessionFactory{
		Loader: loader,
		Pool:   func() domain.SlotPool { return newCountingPool(2) },
		NewID:  func() string { return "sess-1" },
	}
}

func TestSession_RepeatedVisibilityLoadsOnce(t *testing.T) {
	var calls atomic.Int32
	loader := domain.LoaderFunc(func(ctx context.Context, p *domain.Placeholder) (string, error) {
		calls.Add(1)
		return "<div class=\"tradingview-widget-container\"></div>", nil
	})

	p := newPlaceholder("mini-chart-0")
	s, err := newTestFactory(loader).New([]*domain.Placeholder{p})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()

	region := domain.Region{Top: 100, Width: 300, Height: 220}
	fired := 0
	for range 5 {
		ok, err := s.ReportVisibility("mini-chart-0", region, desktop)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok {
			fired++
		}
	}
	if fired != 1 {
		t.Fatalf("expected one fire, got %d", fired)
	}

	waitFor(t, "loaded", func() bool { return p.State() == domain.StateLoaded })
	if calls.Load() != 1 {
		t.Fatalf("expected one load, got %d", calls.Load())
	}
	waitFor(t, "monitor", func() bool { return s.Metrics().Loaded == 1 })
}

func TestSession_UnknownPlaceholder(t *testing.T) {
	s, err := newTestFactory(newGatedLoader()).New([]*domain.Placeholder{newPlaceholder("a")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()

	_, err = s.ReportVisibility("nope", domain.Region{}, desktop)
	if !errors.Is(err, ErrUnknownPlaceholder) {
		t.Fatalf("expected ErrUnknownPlaceholder, got %v", err)
	}
}

func TestSession_EmptyLayout(t *testing.T) {
	if _, err := newTestFactory(newGatedLoader()).New(nil); !errors.Is(err, ErrEmptyLayout) {
		t.Fatalf("expected ErrEmptyLayout, got %v", err)
	}
}

func TestSession_PriorityComesFromPositionAtFire(t *testing.T) {
	loader := newGatedLoader()
	f := newTestFactory(loader)
	f.Pool = func() domain.SlotPool { return newCountingPool(1) }

	blocker, low, high := newPlaceholder("blocker"), newPlaceholder("low"), newPlaceholder("high")
	s, err := f.New([]*domain.Placeholder{blocker, low, high})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()

	tall := domain.Viewport{Width: 1280, Height: 800}
	s.ReportVisibility("blocker", domain.Region{Top: 0, Width: 100, Height: 100}, tall)
	waitStarted(t, loader)

	// low dispara com um viewport minúsculo e fica baixa
	s.ReportVisibility("low", domain.Region{Top: 10, Width: 100, Height: 100}, domain.Viewport{Width: 100, Height: 4})
	s.ReportVisibility("high", domain.Region{Top: 10, Width: 100, Height: 100}, tall)

	loader.finish("blocker")
	if got := waitStarted(t, loader); got != "high" {
		t.Fatalf("expected high priority admitted first, got %q", got)
	}
	loader.finish("high")
	if got := waitStarted(t, loader); got != "low" {
		t.Fatalf("expected low next, got %q", got)
	}
	loader.finish("low")
}

func TestSession_SubscribeReceivesEvents(t *testing.T) {
	loader := domain.LoaderFunc(func(ctx context.Context, p *domain.Placeholder) (string, error) {
		return "ok", nil
	})
	s, err := newTestFactory(loader).New([]*domain.Placeholder{newPlaceholder("a")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	events, cancel := s.Subscribe()
	defer cancel()

	s.ReportVisibility("a", domain.Region{Top: 0, Width: 100, Height: 100}, desktop)

	var got []domain.EventType
	timeout := time.After(time.Second)
	for len(got) < 2 {
		select {
		case ev := <-events:
			got = append(got, ev.Type)
		case <-timeout:
			t.Fatalf("timeout waiting events, got %v", got)
		}
	}
	if got[0] != domain.EventWidgetLoaded || got[1] != domain.EventStatsUpdate {
		t.Fatalf("unexpected event order %v", got)
	}

	s.Close()
	if _, open := <-events; open {
		t.Fatalf("expected events channel closed after session close")
	}
}
