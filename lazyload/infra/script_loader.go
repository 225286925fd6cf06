package infra

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"widget-showcase/lazyload/domain"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

var (
	ErrNoScriptURL  = errors.New("placeholder has no script url")
	ErrScriptStatus = errors.New("unexpected script status")
)

// RenderFunc gera o markup real de um placeholder já com o script disponível.
type RenderFunc func(p *domain.Placeholder) (string, error)

// ScriptLoader implementa domain.Loader: confirma que o script de terceiros
// responde e então renderiza o embed do widget.
//
// Fetches simultâneos da mesma URL viram um só (singleflight) e sucessos ficam
// em cache por cacheTTL, compartilhado entre sessões.
type ScriptLoader struct {
	client   *http.Client
	limiter  *rate.Limiter
	render   RenderFunc
	cacheTTL time.Duration
	maxBody  int64
	now      func() time.Time

	group singleflight.Group

	mu    sync.Mutex
	cache map[string]time.Time
}

type ScriptLoaderOption func(*ScriptLoader)

func WithHTTPClient(c *http.Client) ScriptLoaderOption {
	return func(l *ScriptLoader) { l.client = c }
}

// WithFetchRate limita as buscas de saída (rps <= 0 desliga o limite).
func WithFetchRate(rps float64, burst int) ScriptLoaderOption {
	return func(l *ScriptLoader) {
		if rps <= 0 {
			l.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		l.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithCacheTTL(d time.Duration) ScriptLoaderOption {
	return func(l *ScriptLoader) { l.cacheTTL = d }
}

func WithMaxScriptBytes(n int64) ScriptLoaderOption {
	return func(l *ScriptLoader) { l.maxBody = n }
}

func NewScriptLoader(render RenderFunc, opts ...ScriptLoaderOption) *ScriptLoader {
	l := &ScriptLoader{
		client:   &http.Client{Timeout: 15 * time.Second},
		limiter:  rate.NewLimiter(5, 5),
		render:   render,
		cacheTTL: 10 * time.Minute,
		maxBody:  2 << 20,
		now:      time.Now,
		cache:    make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *ScriptLoader) Load(ctx context.Context, p *domain.Placeholder) (string, error) {
	if err := l.Fetch(ctx, p.Target.ScriptURL); err != nil {
		return "", err
	}
	if l.render == nil {
		return "", errors.New("script loader: no renderer")
	}
	return l.render(p)
}

// Fetch busca a URL (ou usa o cache) e descarta o corpo.
func (l *ScriptLoader) Fetch(ctx context.Context, url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return ErrNoScriptURL
	}
	if l.cached(url) {
		return nil
	}

	// a busca compartilhada não herda o cancelamento de quem chegou primeiro;
	// o prazo dela é o Timeout do http.Client. Cada chamador desiste pelo seu ctx.
	shared := context.WithoutCancel(ctx)
	ch := l.group.DoChan(url, func() (any, error) {
		return nil, l.fetch(shared, url)
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *ScriptLoader) fetch(ctx context.Context, url string) error {
	if l.cached(url) {
		return nil
	}
	if l.limiter != nil {
		if err := l.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("fetch %s: %w", url, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, l.maxBody))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("fetch %s: %w: %d", url, ErrScriptStatus, resp.StatusCode)
	}
	l.store(url)
	return nil
}

// Warm busca as URLs com no máximo `parallel` requisições ao mesmo tempo.
// Falhas são logadas e devolvidas juntas; uma falha não interrompe as outras.
func (l *ScriptLoader) Warm(ctx context.Context, urls []string, parallel int) error {
	if parallel <= 0 {
		parallel = 4
	}

	var g errgroup.Group
	g.SetLimit(parallel)

	var mu sync.Mutex
	var errs []error
	for _, u := range urls {
		g.Go(func() error {
			if err := l.Fetch(ctx, u); err != nil {
				log.Printf("script warmup failed: %v", err)
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

func (l *ScriptLoader) cached(url string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	at, ok := l.cache[url]
	if !ok {
		return false
	}
	if l.cacheTTL > 0 && l.now().Sub(at) > l.cacheTTL {
		delete(l.cache, url)
		return false
	}
	return true
}

func (l *ScriptLoader) store(url string) {
	l.mu.Lock()
	l.cache[url] = l.now()
	l.mu.Unlock()
}
