package infra

import (
	"sync"

	"widget-showcase/lazyload/domain"
)

// DefaultMaxConcurrent é quantos widgets carregam ao mesmo tempo quando nada é configurado.
const DefaultMaxConcurrent = 2

type chanPool struct {
	sem chan struct{}
}

// NewSlotPool cria um pool baseado em channel com capacidade `max`.
// max <= 0 usa DefaultMaxConcurrent.
func NewSlotPool(max int) domain.SlotPool {
	if max <= 0 {
		max = DefaultMaxConcurrent
	}
	return &chanPool{sem: make(chan struct{}, max)}
}

func (p *chanPool) TryAcquire() (func(), bool) {
	select {
	case p.sem <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-p.sem }) }, true
	default:
		return nil, false
	}
}

func (p *chanPool) InUse() int { return len(p.sem) }
func (p *chanPool) Cap() int { return cap(p.sem) }
