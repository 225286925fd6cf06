package domain

import (
	"sync"
	"sync/atomic"
)

// State é o estágio de um placeholder no ciclo de carregamento.
//
//	Unloaded -> Queued -> Loading -> Loaded
//	                         \-> Failed
//
// Loaded e Failed são terminais: não há retry.
type State int32

const (
	StateUnloaded State = iota
	StateQueued
	StateLoading
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateQueued:
		return "queued"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Target é o destino remoto de um widget: o script de terceiros e os settings
// que vão no corpo da tag script.
type Target struct {
	ScriptURL string
	Settings  map[string]any
}

// Placeholder representa um widget ainda não carregado na página.
// É criado na renderização da página e nunca recriado.
type Placeholder struct {
	ID         string
	WidgetType string
	Target     Target

	state atomic.Int32

	mu     sync.RWMutex
	markup string
}

func NewPlaceholder(id, widgetType string, target Target) *Placeholder {
	return &Placeholder{ID: id, WidgetType: widgetType, Target: target}
}

func (p *Placeholder) State() State { return State(p.state.Load()) }

// Transition troca o estado de from para to. Retorna false se o estado atual
// não for from (outro caminho já avançou o placeholder).
func (p *Placeholder) Transition(from, to State) bool {
	return p.state.CompareAndSwap(int32(from), int32(to))
}

// MarkLoaded é a única forma de chegar em StateLoaded; acontece no máximo uma vez.
func (p *Placeholder) MarkLoaded(markup string) bool {
	if !p.Transition(StateLoading, StateLoaded) {
		return false
	}
	p.mu.Lock()
	p.markup = markup
	p.mu.Unlock()
	return true
}

// MarkFailed leva um placeholder em carregamento para o estado terminal Failed.
func (p *Placeholder) MarkFailed() bool {
	return p.Transition(StateLoading, StateFailed)
}

// Markup devolve o HTML real do widget, vazio enquanto não estiver Loaded.
func (p *Placeholder) Markup() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.markup
}
