package application

import (
	"sync"
	"time"

	"widget-showcase/lazyload/domain"
)

// Monitor agrega o tempo de conclusão dos widgets de uma sessão.
// Serve só para exibição; não é estado autoritativo.
type Monitor struct {
	start time.Time

	mu       sync.RWMutex
	metrics  domain.Metrics
	hasFirst bool
}

func NewMonitor(start time.Time) *Monitor {
	return &Monitor{start: start}
}

// Publish implementa domain.EventSink; ignora eventos que não são widget-loaded.
func (m *Monitor) Publish(ev domain.Event) {
	if ev.Type != domain.EventWidgetLoaded {
		return
	}
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	elapsed := at.Sub(m.start)

	m.mu.Lock()
	defer m.mu.Unlock()

	// cargas concorrentes podem publicar fora de ordem: First é o menor, Last o maior
	m.metrics.Loaded++
	if !m.hasFirst || elapsed < m.metrics.First {
		m.metrics.First = elapsed
	}
	if !m.hasFirst || elapsed > m.metrics.Last {
		m.metrics.Last = elapsed
	}
	m.hasFirst = true
}

func (m *Monitor) Snapshot() domain.Metrics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.metrics
}
