package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
)

// Servidor de scripts falso para testar a fila sem depender da TradingView.
// Aponte SCRIPT_BASE_URL do showcase para ele.
//
//	STUB_DELAY=300ms           atraso de todos os scripts
//	STUB_SLOW=mini-symbol-overview:2s,ticker-tape:1s
//	STUB_FAIL=symbol-profile   responde 500
//	STUB_HANG=technical-analysis  nunca responde (até o cliente desistir)
func main() {
	addr := ":8081"
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		addr = v
	}

	stub := stubConfig{
		delay: getenvDuration("STUB_DELAY"),
		slow:  parseSlow(os.Getenv("STUB_SLOW")),
		fail:  parseSet(os.Getenv("STUB_FAIL")),
		hang:  parseSet(os.Getenv("STUB_HANG")),
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := &http.Server{
		Addr:              addr,
		Handler:           newStubHandler(stub),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("stub scripts listening on %s delay=%s slow=%v fail=%v hang=%v", addr, stub.delay, stub.slow, keys(stub.fail), keys(stub.hang))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}

type stubConfig struct {
	delay time.Duration
	slow  map[string]time.Duration
	fail  map[string]bool
	hang  map[string]bool
}

func newStubHandler(cfg stubConfig) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /external-embedding/{file}", func(w http.ResponseWriter, r *http.Request) {
		name, ok := widgetName(r.PathValue("file"))
		if !ok {
			http.NotFound(w, r)
			return
		}

		if cfg.hang[name] {
			log.Printf("stub: hang widget=%s", name)
			<-r.Context().Done()
			return
		}

		wait := cfg.delay
		if d, ok := cfg.slow[name]; ok {
			wait = d
		}
		if wait > 0 {
			select {
			case <-time.After(wait):
			case <-r.Context().Done():
				return
			}
		}

		if cfg.fail[name] {
			log.Printf("stub: fail widget=%s", name)
			http.Error(w, "stub failure", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/javascript")
		_, _ = w.Write([]byte("/* stub " + name + " */\n"))
		log.Printf("stub: served widget=%s wait=%s", name, wait)
	})
	return mux
}

// widgetName extrai "ticker-tape" de "embed-widget-ticker-tape.js".
func widgetName(file string) (string, bool) {
	name, ok := strings.CutSuffix(file, ".js")
	if !ok {
		return "", false
	}
	name = strings.TrimPrefix(name, "embed-widget-")
	return name, name != ""
}

func parseSet(v string) map[string]bool {
	out := map[string]bool{}
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out[s] = true
		}
	}
	return out
}

func parseSlow(v string) map[string]time.Duration {
	out := map[string]time.Duration{}
	for _, s := range strings.Split(v, ",") {
		name, dur, ok := strings.Cut(strings.TrimSpace(s), ":")
		if !ok {
			continue
		}
		d, err := time.ParseDuration(dur)
		if err != nil {
			log.Printf("stub: invalid STUB_SLOW entry %q: %v", s, err)
			continue
		}
		out[name] = d
	}
	return out
}

func getenvDuration(k string) time.Duration {
	d, err := time.ParseDuration(os.Getenv(k))
	if err != nil {
		return 0
	}
	return d
}

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
