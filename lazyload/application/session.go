package application

import (
	"errors"
	"time"

	"widget-showcase/lazyload/domain"

	"github.com/google/uuid"
)

var (
	ErrUnknownPlaceholder = errors.New("unknown placeholder")
	ErrEmptyLayout        = errors.New("layout has no placeholders")
)

// Session é uma visualização de página: seus placeholders, um gatilho por
// placeholder, a fila e o monitor. Recarregar a página cria outra sessão.
type Session struct {
	ID      string
	Started time.Time

	order        []*domain.Placeholder
	placeholders map[string]*domain.Placeholder
	triggers     map[string]*Trigger

	queue   *Queue
	monitor *Monitor
	events  *Broadcaster
}

// SessionFactory monta sessões com as dependências injetadas.
type SessionFactory struct {
	Loader  domain.Loader
	Pool    func() domain.SlotPool
	Stats   domain.StatsStore
	Trigger TriggerOptions
	Now     func() time.Time
	NewID   func() string
}

func (f SessionFactory) New(placeholders []*domain.Placeholder) (*Session, error) {
	if len(placeholders) == 0 {
		return nil, ErrEmptyLayout
	}
	if f.Now == nil {
		f.Now = time.Now
	}
	if f.NewID == nil {
		f.NewID = uuid.NewString
	}
	if f.Pool == nil {
		return nil, errors.New("session factory: Pool is required")
	}
	if f.Loader == nil {
		return nil, errors.New("session factory: Loader is required")
	}

	s := &Session{
		ID:           f.NewID(),
		Started:      f.Now(),
		order:        placeholders,
		placeholders: make(map[string]*domain.Placeholder, len(placeholders)),
		triggers:     make(map[string]*Trigger, len(placeholders)),
		events:       NewBroadcaster(0),
	}
	s.monitor = NewMonitor(s.Started)
	s.queue = NewQueue(f.Pool(), f.Loader, QueueOptions{
		Session: s.ID,
		Sink:    domain.Sinks{s.monitor, s.events},
		Stats:   f.Stats,
		Now:     f.Now,
	})

	for _, p := range placeholders {
		s.placeholders[p.ID] = p
		s.triggers[p.ID] = NewTrigger(f.Trigger, func(r domain.Region, vp domain.Viewport) {
			s.queue.Enqueue(p, Classify(r.Top, vp.Height))
		})
	}
	return s, nil
}

// ReportVisibility entrega uma leitura de geometria ao gatilho do placeholder.
// Quando o gatilho dispara, o placeholder entra na fila com a prioridade da
// posição atual.
func (s *Session) ReportVisibility(placeholderID string, region domain.Region, vp domain.Viewport) (bool, error) {
	if _, ok := s.placeholders[placeholderID]; !ok {
		return false, ErrUnknownPlaceholder
	}
	return s.triggers[placeholderID].Observe(region, vp), nil
}

func (s *Session) Placeholder(id string) (*domain.Placeholder, bool) {
	p, ok := s.placeholders[id]
	return p, ok
}

// Placeholders devolve os placeholders na ordem da página.
func (s *Session) Placeholders() []*domain.Placeholder {
	out := make([]*domain.Placeholder, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Session) Metrics() domain.Metrics { return s.monitor.Snapshot() }
func (s *Session) Queue() *Queue { return s.queue }

// Subscribe assina os eventos widget-loaded e widgets-stats-update da sessão.
func (s *Session) Subscribe() (<-chan domain.Event, func()) {
	return s.events.Subscribe()
}

// Close desliga gatilhos e fila e encerra as assinaturas.
func (s *Session) Close() {
	for _, t := range s.triggers {
		t.Stop()
	}
	s.queue.Close()
	s.events.Close()
}
