package lazyload

import (
	"net"
	"net/http"
	"strings"
	"time"
)

type KeyFunc func(r *http.Request) string

// Limits decide se o cliente `key` pode enviar mais um relatório agora.
type Limits interface {
	Allow(key string) bool
}

type rateInfo interface {
	RPS() float64
	Burst() int
}

type LimitOptions struct {
	Limits             Limits
	KeyFn              KeyFunc
	KeyHeader          string
	TrustXForwardedFor bool
	RetryAfter         time.Duration
	AddLimitHeaders    bool
}

func DefaultKeyFunc(keyHeader string, trustXFF bool) KeyFunc {
	return func(r *http.Request) string {
		if keyHeader != "" {
			if v := strings.TrimSpace(r.Header.Get(keyHeader)); v != "" {
				return v
			}
		}

		if trustXFF {
			// primeiro IP do X-Forwarded-For é o cliente original
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				first, _, _ := strings.Cut(xff, ",")
				if ip := strings.TrimSpace(first); ip != "" {
					return ip
				}
			}
		}

		host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
		if err == nil && host != "" {
			return host
		}
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "unknown"
	}
}

// SessionKey usa a sessão de página do caminho /api/sessions/{sid}/... como
// chave; fora dessas rotas cai no DefaultKeyFunc.
func SessionKey(r *http.Request) string {
	if sid := strings.TrimSpace(r.PathValue("sid")); sid != "" {
		return sid
	}
	return DefaultKeyFunc("", false)(r)
}

// LimitMiddleware responde 429 com Retry-After quando o cliente estoura o limite.
// Sem Limits configurado, deixa tudo passar.
func LimitMiddleware(opts LimitOptions) func(next http.Handler) http.Handler {
	if opts.Limits == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.RetryAfter <= 0 {
		opts.RetryAfter = 1 * time.Second
	}
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc(opts.KeyHeader, opts.TrustXForwardedFor)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := opts.KeyFn(r)

			if opts.AddLimitHeaders {
				w.Header().Set("X-RateLimit-Key", key)
				if ri, ok := opts.Limits.(rateInfo); ok {
					w.Header().Set("X-RateLimit-RPS", formatFloat(ri.RPS()))
					w.Header().Set("X-RateLimit-Burst", formatInt(ri.Burst()))
				}
			}

			if !opts.Limits.Allow(key) {
				w.Header().Set("Retry-After", formatInt(retryAfterSeconds(opts.RetryAfter)))
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// retryAfterSeconds arredonda para baixo, mas nunca devolve 0.
func retryAfterSeconds(d time.Duration) int {
	s := int(d.Seconds())
	if s < 1 {
		return 1
	}
	return s
}
