package infra

import (
	"sync"
	"time"

	"widget-showcase/lazyload/application"
)

// DefaultMaxSessions limita quantas páginas abertas o processo acompanha.
const DefaultMaxSessions = 10000

// SessionObserver é avisado quando uma sessão entra ou sai do SessionStore.
type SessionObserver interface {
	SessionOpened(id string)
	SessionClosed(id string)
}

// SessionStore guarda as sessões de página ativas com limpeza por inatividade.
// Cada leitura (Get) conta como atividade. Cheio, o Put despeja a sessão há
// mais tempo sem atividade.
type SessionStore struct {
	mu           sync.Mutex
	entries      map[string]*sessionEntry
	idleTTL      time.Duration
	cleanupEvery time.Duration
	maxSessions  int
	observer     SessionObserver
	now          func() time.Time
}

type sessionEntry struct {
	s        *application.Session
	lastSeen time.Time
}

type SessionStoreOption func(*SessionStore)

func WithSessionIdleTTL(d time.Duration) SessionStoreOption {
	return func(s *SessionStore) { s.idleTTL = d }
}

func WithSessionCleanupEvery(d time.Duration) SessionStoreOption {
	return func(s *SessionStore) { s.cleanupEvery = d }
}

// WithMaxSessions define o teto de sessões (n <= 0 usa DefaultMaxSessions).
func WithMaxSessions(n int) SessionStoreOption {
	return func(s *SessionStore) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

func WithSessionObserver(o SessionObserver) SessionStoreOption {
	return func(s *SessionStore) { s.observer = o }
}

func NewSessionStore(opts ...SessionStoreOption) *SessionStore {
	s := &SessionStore{
		entries:      make(map[string]*sessionEntry),
		idleTTL:      30 * time.Minute,
		cleanupEvery: time.Minute,
		maxSessions:  DefaultMaxSessions,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SessionStore) Put(sess *application.Session) {
	s.mu.Lock()
	var evicted *application.Session
	if _, exists := s.entries[sess.ID]; !exists && len(s.entries) >= s.maxSessions {
		evicted = s.evictOldestLocked()
	}
	s.entries[sess.ID] = &sessionEntry{s: sess, lastSeen: s.now()}
	s.mu.Unlock()

	if evicted != nil {
		s.closeSession(evicted)
	}
	if s.observer != nil {
		s.observer.SessionOpened(sess.ID)
	}
}

func (s *SessionStore) evictOldestLocked() *application.Session {
	var oldest string
	var at time.Time
	for id, ent := range s.entries {
		if oldest == "" || ent.lastSeen.Before(at) {
			oldest, at = id, ent.lastSeen
		}
	}
	if oldest == "" {
		return nil
	}
	ent := s.entries[oldest]
	delete(s.entries, oldest)
	return ent.s
}

func (s *SessionStore) Get(id string) (*application.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ent, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	ent.lastSeen = s.now()
	return ent.s, true
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Cleanup remove e fecha as sessões inativas há mais de idleTTL.
// Retorna quantas foram removidas.
func (s *SessionStore) Cleanup() int {
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	var expired []*application.Session
	for id, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) {
			expired = append(expired, ent.s)
			delete(s.entries, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		s.closeSession(sess)
	}
	return len(expired)
}

// CloseAll fecha todas as sessões (shutdown).
func (s *SessionStore) CloseAll() {
	s.mu.Lock()
	all := s.entries
	s.entries = make(map[string]*sessionEntry)
	s.mu.Unlock()

	for _, ent := range all {
		s.closeSession(ent.s)
	}
}

func (s *SessionStore) closeSession(sess *application.Session) {
	sess.Close()
	if s.observer != nil {
		s.observer.SessionClosed(sess.ID)
	}
}

// StartJanitor inicia uma goroutine que expira sessões periodicamente.
// Pare cancelando o contexto.
func (s *SessionStore) StartJanitor(ctx DoneContext) {
	startJanitor(ctx, s.cleanupEvery, func() { s.Cleanup() })
}

// DoneContext aceita o context.Context do main; o janitor só precisa de Done.
type DoneContext interface {
	Done() <-chan struct{}
}

func startJanitor(ctx DoneContext, every time.Duration, fn func()) {
	if every <= 0 {
		return
	}

	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				fn()
			}
		}
	}()
}
