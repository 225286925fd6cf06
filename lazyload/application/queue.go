package application

import (
	"container/heap"
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"widget-showcase/lazyload/domain"
)

// Queue admite carregamentos por prioridade, respeitando a capacidade do SlotPool.
//
// Não há retry, cancelamento nem timeout por item: um Loader que nunca retorna
// ocupa a vaga até Close.
type Queue struct {
	pool    domain.SlotPool
	loader  domain.Loader
	sink    domain.EventSink
	stats   domain.StatsStore
	session string
	now     func() time.Time

	statsTimeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	items  entryHeap
	seq    uint64
	loaded int
	closed bool
}

type QueueOptions struct {
	// Session identifica a sessão nos eventos de estatística.
	Session string
	Sink    domain.EventSink
	Stats   domain.StatsStore
	Now     func() time.Time

	// StatsTimeout limita cada gravação de estatística (padrão 5s).
	StatsTimeout time.Duration
}

func NewQueue(pool domain.SlotPool, loader domain.Loader, opts QueueOptions) *Queue {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.StatsTimeout <= 0 {
		opts.StatsTimeout = 5 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Queue{
		pool:    pool,
		loader:  loader,
		sink:    opts.Sink,
		stats:   opts.Stats,
		session: opts.Session,
		now:     opts.Now,
		ctx:     ctx,
		cancel:  cancel,

		statsTimeout: opts.StatsTimeout,
	}
}

// Enqueue coloca o placeholder na fila e tenta admitir imediatamente.
// Retorna false se o placeholder já saiu de Unloaded ou se a fila foi fechada.
func (q *Queue) Enqueue(p *domain.Placeholder, prio domain.Priority) bool {
	q.mu.Lock()
	if q.closed || !p.Transition(domain.StateUnloaded, domain.StateQueued) {
		q.mu.Unlock()
		return false
	}
	heap.Push(&q.items, entry{p: p, prio: prio, seq: q.seq})
	q.seq++
	q.mu.Unlock()

	q.admit()
	return true
}

// admit retira entradas de maior prioridade enquanto houver vaga.
func (q *Queue) admit() {
	for {
		q.mu.Lock()
		if q.closed || q.items.Len() == 0 {
			q.mu.Unlock()
			return
		}
		release, ok := q.pool.TryAcquire()
		if !ok {
			q.mu.Unlock()
			return
		}
		e := heap.Pop(&q.items).(entry)
		q.mu.Unlock()

		go q.run(e, release)
	}
}

func (q *Queue) run(e entry, release func()) {
	// a vaga volta assim que o carregamento termina; estatística fica fora dela
	free := sync.OnceFunc(func() {
		release()
		q.admit()
	})
	defer free()

	p := e.p
	if !p.Transition(domain.StateQueued, domain.StateLoading) {
		return
	}

	started := q.now()
	markup, err := q.load(p)
	finished := q.now()

	if err != nil || !p.MarkLoaded(markup) {
		if err == nil {
			err = fmt.Errorf("%w: placeholder %s left loading state", domain.ErrLoadFailed, p.ID)
		}
		p.MarkFailed()
		free()
		log.Printf("widget load failed: session=%s placeholder=%s type=%s err=%v", q.session, p.ID, p.WidgetType, err)
		go q.record(p, false, finished.Sub(started), finished)
		return
	}

	q.mu.Lock()
	q.loaded++
	count := q.loaded
	q.mu.Unlock()

	if q.sink != nil {
		q.sink.Publish(domain.Event{Type: domain.EventWidgetLoaded, WidgetType: p.WidgetType, PlaceholderID: p.ID, At: finished})
		q.sink.Publish(domain.Event{Type: domain.EventStatsUpdate, LoadedCount: count, At: finished})
	}
	free()
	go q.record(p, true, finished.Sub(started), finished)
}

// load chama o Loader convertendo panic em erro; a falha de um widget não
// derruba a fila.
func (q *Queue) load(p *domain.Placeholder) (markup string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", domain.ErrLoadFailed, r)
		}
	}()
	markup, err = q.loader.Load(q.ctx, p)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrLoadFailed, err)
	}
	return markup, nil
}

// record grava a estatística com prazo próprio (StatsTimeout), fora da vaga.
// Falhas causadas por Close também são gravadas.
func (q *Queue) record(p *domain.Placeholder, loaded bool, d time.Duration, at time.Time) {
	if q.stats == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), q.statsTimeout)
	defer cancel()

	err := q.stats.Record(ctx, domain.LoadEvent{
		Session:       q.session,
		PlaceholderID: p.ID,
		WidgetType:    p.WidgetType,
		Loaded:        loaded,
		Duration:      d,
		At:            at,
	})
	if err != nil {
		log.Printf("load stats record error: %v", err)
	}
}

// Pending é o número de entradas aguardando vaga.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

func (q *Queue) InFlight() int { return q.pool.InUse() }

// Loaded é o contador de carregamentos concluídos com sucesso.
func (q *Queue) Loaded() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.loaded
}

// Close para a admissão e cancela o contexto passado aos Loaders.
// Entradas pendentes permanecem Queued.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cancel()
}

type entry struct {
	p    *domain.Placeholder
	prio domain.Priority
	seq  uint64
}

// entryHeap implementa heap.Interface: prioridade decrescente, empate por ordem de chegada.
type entryHeap []entry

func (h entryHeap) Len() int { return len(h) }
func (h entryHeap) Less(i, j int) bool {
	if h[i].prio != h[j].prio {
		return h[i].prio > h[j].prio
	}
	return h[i].seq < h[j].seq
}
func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *entryHeap) Push(x any) { *h = append(*h, x.(entry)) }
func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = entry{}
	*h = old[:n-1]
	return e
}
