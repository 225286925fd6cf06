package infra

import (
	"context"
	"sync"
	"time"

	"widget-showcase/lazyload/domain"
)

type Counters struct {
	Loaded int64
	Failed int64
	// LoadTime é a soma das durações, para média.
	LoadTime time.Duration
}

// Average devolve o tempo médio por carregamento concluído ou falho.
func (c Counters) Average() time.Duration {
	n := c.Loaded + c.Failed
	if n == 0 {
		return 0
	}
	return c.LoadTime / time.Duration(n)
}

// MemoryStatsStore é uma implementação simples em memória.
// Útil para testes e desenvolvimento; zera quando o processo reinicia.
type MemoryStatsStore struct {
	mu     sync.Mutex
	total  Counters
	byType map[string]Counters
}

func NewMemoryStatsStore() *MemoryStatsStore {
	return &MemoryStatsStore{byType: make(map[string]Counters)}
}

func (s *MemoryStatsStore) Record(_ context.Context, ev domain.LoadEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.byType[ev.WidgetType]
	if ev.Loaded {
		s.total.Loaded++
		c.Loaded++
	} else {
		s.total.Failed++
		c.Failed++
	}
	s.total.LoadTime += ev.Duration
	c.LoadTime += ev.Duration
	s.byType[ev.WidgetType] = c
	return nil
}

func (s *MemoryStatsStore) Total() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *MemoryStatsStore) ByType() map[string]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Counters, len(s.byType))
	for k, v := range s.byType {
		out[k] = v
	}
	return out
}
