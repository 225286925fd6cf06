package application

import (
	"sync"

	"widget-showcase/lazyload/domain"
)

const (
	DefaultTriggerMargin    = 50.0
	DefaultTriggerThreshold = 0.1
)

// TriggerOptions configura o gatilho: Margin expande o viewport em pixels
// (carrega um pouco antes de aparecer) e Threshold é a fração mínima visível.
type TriggerOptions struct {
	Margin    float64
	Threshold float64
}

func (o TriggerOptions) withDefaults() TriggerOptions {
	// zero vale o padrão; margem negativa desliga a expansão
	switch {
	case o.Margin == 0:
		o.Margin = DefaultTriggerMargin
	case o.Margin < 0:
		o.Margin = 0
	}
	if o.Threshold <= 0 || o.Threshold > 1 {
		o.Threshold = DefaultTriggerThreshold
	}
	return o
}

// Trigger é um detector de visibilidade de disparo único para um placeholder.
type Trigger struct {
	opts TriggerOptions

	mu        sync.Mutex
	onVisible func(domain.Region, domain.Viewport)
	done      bool
}

func NewTrigger(opts TriggerOptions, onVisible func(domain.Region, domain.Viewport)) *Trigger {
	return &Trigger{opts: opts.withDefaults(), onVisible: onVisible}
}

// Observe avalia uma leitura de geometria. Retorna true apenas na chamada que
// disparou; depois disso o gatilho para de observar e solta o callback.
func (t *Trigger) Observe(region domain.Region, vp domain.Viewport) bool {
	t.mu.Lock()
	if t.done || IntersectionRatio(region, vp, t.opts.Margin) < t.opts.Threshold {
		t.mu.Unlock()
		return false
	}
	fn := t.onVisible
	t.onVisible = nil
	t.done = true
	t.mu.Unlock()

	if fn != nil {
		fn(region, vp)
	}
	return true
}

// Stop desconecta sem disparar.
func (t *Trigger) Stop() {
	t.mu.Lock()
	t.done = true
	t.onVisible = nil
	t.mu.Unlock()
}

func (t *Trigger) Done() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

// IntersectionRatio é a fração da região dentro do viewport expandido por margin.
// Região de área zero vale 1 quando encosta no viewport e 0 caso contrário.
func IntersectionRatio(region domain.Region, vp domain.Viewport, margin float64) float64 {
	root := vp.Region().Expand(margin)
	in, ok := region.Intersect(root)
	if !ok {
		return 0
	}
	area := region.Area()
	if area <= 0 {
		return 1
	}
	return in.Area() / area
}
