package application

import (
	"context"
	"sync"
	"sync/atomic"

	"widget-showcase/lazyload/domain"
)

// countingPool é um semáforo simples que registra o pico de uso.
type countingPool struct {
	mu   sync.Mutex
	max  int
	used int
	peak int
}

func newCountingPool(max int) *countingPool { return &countingPool{max: max} }

func (p *countingPool) TryAcquire() (func(), bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.used >= p.max {
		return nil, false
	}
	p.used++
	if p.used > p.peak {
		p.peak = p.used
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			p.used--
			p.mu.Unlock()
		})
	}, true
}

func (p *countingPool) InUse() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.used
}

func (p *countingPool) Cap() int { return p.max }

func (p *countingPool) Peak() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.peak
}

// gatedLoader avisa em started quando um load começa e só termina quando o
// teste libera o gate daquele placeholder.
type gatedLoader struct {
	started chan string

	mu    sync.Mutex
	gates map[string]chan error

	active atomic.Int32
	peak   atomic.Int32
}

func newGatedLoader() *gatedLoader {
	return &gatedLoader{started: make(chan string, 64), gates: make(map[string]chan error)}
}

func (l *gatedLoader) gate(id string) chan error {
	l.mu.Lock()
	defer l.mu.Unlock()
	g, ok := l.gates[id]
	if !ok {
		g = make(chan error, 1)
		l.gates[id] = g
	}
	return g
}

func (l *gatedLoader) Load(ctx context.Context, p *domain.Placeholder) (string, error) {
	n := l.active.Add(1)
	for {
		old := l.peak.Load()
		if n <= old || l.peak.CompareAndSwap(old, n) {
			break
		}
	}
	defer l.active.Add(-1)

	l.started <- p.ID
	select {
	case err := <-l.gate(p.ID):
		if err != nil {
			return "", err
		}
		return "<div>" + p.ID + "</div>", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (l *gatedLoader) finish(id string) { l.gate(id) <- nil }
func (l *gatedLoader) fail(id string, err error) { l.gate(id) <- err }

// recordingSink guarda os eventos publicados.
type recordingSink struct {
	mu     sync.Mutex
	events []domain.Event
	signal chan domain.Event
}

func newRecordingSink() *recordingSink {
	return &recordingSink{signal: make(chan domain.Event, 64)}
}

func (s *recordingSink) Publish(ev domain.Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
	s.signal <- ev
}

type memStats struct {
	mu     sync.Mutex
	events []domain.LoadEvent
}

func (m *memStats) Record(_ context.Context, ev domain.LoadEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return nil
}

func (m *memStats) snapshot() []domain.LoadEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.LoadEvent(nil), m.events...)
}

// blockingStats segura cada Record até unblock ou até o contexto vencer.
type blockingStats struct {
	gate   chan struct{}
	once   sync.Once
	done   atomic.Int32
	ctxErr chan error
}

func newBlockingStats() *blockingStats {
	return &blockingStats{gate: make(chan struct{}), ctxErr: make(chan error, 16)}
}

func (b *blockingStats) Record(ctx context.Context, _ domain.LoadEvent) error {
	select {
	case <-b.gate:
		b.done.Add(1)
		return nil
	case <-ctx.Done():
		b.ctxErr <- ctx.Err()
		return ctx.Err()
	}
}

func (b *blockingStats) unblock() { b.once.Do(func() { close(b.gate) }) }

func (b *blockingStats) count() int { return int(b.done.Load()) }
