package lazyload

import (
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"
	"time"

	"widget-showcase/lazyload/application"
	"widget-showcase/lazyload/domain"
	"widget-showcase/widgets"
)

// SessionStore é o que o handler precisa do armazenamento de sessões.
type SessionStore interface {
	Put(*application.Session)
	Get(id string) (*application.Session, bool)
}

// LayoutFunc decide os placeholders de uma página a partir da requisição
// (ex.: símbolo em ?tvwidgetsymbol=).
type LayoutFunc func(r *http.Request) ([]*domain.Placeholder, error)

type Options struct {
	Sessions SessionStore
	Factory  application.SessionFactory
	Layout   LayoutFunc
	Title    string

	// Reports limita POST .../visibility por cliente. Nil desliga.
	Reports *LimitOptions
}

// TableLayout usa a tabela de widgets e o símbolo da query.
func TableLayout(t widgets.Table) LayoutFunc {
	return func(r *http.Request) ([]*domain.Placeholder, error) {
		return t.Placeholders(t.PageLayout(widgets.SymbolFromQuery(r.URL.Query())))
	}
}

type handler struct {
	opts Options
}

func NewHandler(opts Options) http.Handler {
	h := &handler{opts: opts}

	var visibility http.Handler = http.HandlerFunc(h.visibility)
	if opts.Reports != nil {
		visibility = LimitMiddleware(*opts.Reports)(visibility)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.page)
	mux.Handle("POST /api/sessions/{sid}/visibility", visibility)
	mux.HandleFunc("GET /api/sessions/{sid}/widgets/{pid}", h.widget)
	mux.HandleFunc("GET /api/sessions/{sid}/stats", h.stats)
	mux.HandleFunc("GET /api/sessions/{sid}/events", h.events)
	return mux
}

func (h *handler) page(w http.ResponseWriter, r *http.Request) {
	placeholders, err := h.opts.Layout(r)
	if err != nil {
		log.Printf("layout error: %v", err)
		http.Error(w, "bad layout", http.StatusInternalServerError)
		return
	}
	sess, err := h.opts.Factory.New(placeholders)
	if err != nil {
		log.Printf("session error: %v", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.opts.Sessions.Put(sess)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	err = widgets.RenderPage(w, widgets.PageData{
		Title:        h.opts.Title,
		SessionID:    sess.ID,
		Placeholders: sess.Placeholders(),
	})
	if err != nil {
		log.Printf("render page error: session=%s err=%v", sess.ID, err)
	}
}

type visibilityRequest struct {
	Placeholder string          `json:"placeholder"`
	Region      domain.Region   `json:"region"`
	Viewport    domain.Viewport `json:"viewport"`
}

type visibilityResponse struct {
	Fired bool   `json:"fired"`
	State string `json:"state"`
}

func (h *handler) visibility(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req visibilityRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10)).Decode(&req); err != nil {
		http.Error(w, "invalid visibility report", http.StatusBadRequest)
		return
	}
	if req.Viewport.Width <= 0 || req.Viewport.Height <= 0 {
		http.Error(w, "viewport must have positive size", http.StatusBadRequest)
		return
	}

	fired, err := sess.ReportVisibility(req.Placeholder, req.Region, req.Viewport)
	if errors.Is(err, application.ErrUnknownPlaceholder) {
		http.Error(w, "unknown placeholder", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	p, _ := sess.Placeholder(req.Placeholder)
	writeJSON(w, http.StatusOK, visibilityResponse{Fired: fired, State: p.State().String()})
}

type widgetResponse struct {
	ID         string `json:"id"`
	WidgetType string `json:"widgetType"`
	State      string `json:"state"`
	Markup     string `json:"markup,omitempty"`
}

func (h *handler) widget(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	p, ok := sess.Placeholder(r.PathValue("pid"))
	if !ok {
		http.Error(w, "unknown placeholder", http.StatusNotFound)
		return
	}

	state := p.State()
	status := http.StatusAccepted
	switch state {
	case domain.StateLoaded:
		status = http.StatusOK
	case domain.StateFailed:
		status = http.StatusConflict
	}
	writeJSON(w, status, widgetResponse{
		ID:         p.ID,
		WidgetType: p.WidgetType,
		State:      state.String(),
		Markup:     p.Markup(),
	})
}

type statsResponse struct {
	WidgetsLoaded int   `json:"widgetsLoaded"`
	FirstWidgetMs int64 `json:"firstWidgetMs"`
	LastWidgetMs  int64 `json:"lastWidgetMs"`
	Pending       int   `json:"pending"`
	InFlight      int   `json:"inFlight"`
}

func (h *handler) stats(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	m := sess.Metrics()
	writeJSON(w, http.StatusOK, statsResponse{
		WidgetsLoaded: m.Loaded,
		FirstWidgetMs: roundMs(m.First),
		LastWidgetMs:  roundMs(m.Last),
		Pending:       sess.Queue().Pending(),
		InFlight:      sess.Queue().InFlight(),
	})
}

func (h *handler) session(w http.ResponseWriter, r *http.Request) (*application.Session, bool) {
	sess, ok := h.opts.Sessions.Get(r.PathValue("sid"))
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return nil, false
	}
	return sess, true
}

func roundMs(d time.Duration) int64 {
	return int64(math.Round(float64(d) / float64(time.Millisecond)))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
