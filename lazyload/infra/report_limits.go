package infra

import (
	"sync"

	"golang.org/x/time/rate"
)

// ReportLimits dá a cada sessão de página um token bucket para os relatórios
// de visibilidade que o navegador manda durante o scroll.
//
// Os buckets acompanham o SessionStore (WithSessionObserver): nascem no Put e
// somem quando a sessão expira ou é despejada, então o mapa nunca passa do
// número de sessões vivas.
type ReportLimits struct {
	limit rate.Limit
	burst int

	mu      sync.RWMutex
	buckets map[string]*rate.Limiter
}

func NewReportLimits(rps float64, burst int) *ReportLimits {
	if burst <= 0 {
		burst = 1
	}
	return &ReportLimits{
		limit:   rate.Limit(rps),
		burst:   burst,
		buckets: make(map[string]*rate.Limiter),
	}
}

func (l *ReportLimits) RPS() float64 { return float64(l.limit) }
func (l *ReportLimits) Burst() int { return l.burst }

// SessionOpened cria o bucket da sessão; um segundo Put não zera o bucket.
func (l *ReportLimits) SessionOpened(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.buckets[id]; !ok {
		l.buckets[id] = rate.NewLimiter(l.limit, l.burst)
	}
}

func (l *ReportLimits) SessionClosed(id string) {
	l.mu.Lock()
	delete(l.buckets, id)
	l.mu.Unlock()
}

// Allow consome um relatório da sessão. Sessão sem bucket passa direto: o
// handler responde 404 e nenhum bucket é criado para ids inventados.
func (l *ReportLimits) Allow(id string) bool {
	l.mu.RLock()
	b := l.buckets[id]
	l.mu.RUnlock()
	if b == nil {
		return true
	}
	return b.Allow()
}

func (l *ReportLimits) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.buckets)
}
