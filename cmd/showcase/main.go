package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"widget-showcase/lazyload"
	"widget-showcase/lazyload/application"
	"widget-showcase/lazyload/domain"
	"widget-showcase/lazyload/infra"
	"widget-showcase/widgets"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// .env é opcional; variáveis já exportadas têm precedência
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("dotenv error: %v", err)
	}

	cfg, err := readConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	table := widgets.Builtin()
	if cfg.widgetsFile != "" {
		table, err = widgets.LoadFile(cfg.widgetsFile)
		if err != nil {
			log.Fatalf("widgets file error: %v", err)
		}
	}
	table = table.WithScriptBase(cfg.scriptBaseURL)

	var stats domain.StatsStore
	memStats := infra.NewMemoryStatsStore()
	stats = memStats
	if cfg.statsEnabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.statsRedisAddr,
			Password: cfg.statsRedisPassword,
			DB:       cfg.statsRedisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		cancel()
		if err != nil {
			log.Fatalf("redis stats ping error: %v", err)
		}

		stats = infra.NewRedisStatsStore(
			rdb,
			infra.WithStatsPrefix(cfg.statsPrefix),
			infra.WithStatsTTL(cfg.statsTTL),
			infra.WithStatsBucket(cfg.statsBucket),
		)
	}

	loader := infra.NewScriptLoader(
		widgets.RenderEmbed,
		infra.WithHTTPClient(&http.Client{Timeout: cfg.fetchTimeout}),
		infra.WithFetchRate(cfg.fetchRPS, cfg.fetchBurst),
		infra.WithCacheTTL(cfg.cacheTTL),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.warmup {
		warmCtx, warmCancel := context.WithTimeout(ctx, cfg.fetchTimeout)
		if err := loader.Warm(warmCtx, table.ScriptURLs(), cfg.concurrency); err != nil {
			log.Printf("warmup error: %v", err)
		}
		warmCancel()
	}

	storeOpts := []infra.SessionStoreOption{
		infra.WithSessionIdleTTL(cfg.sessionTTL),
		infra.WithMaxSessions(cfg.maxSessions),
	}

	// relatórios de visibilidade limitados por sessão de página
	var reports *lazyload.LimitOptions
	if cfg.reportRPS > 0 {
		limits := infra.NewReportLimits(cfg.reportRPS, cfg.reportBurst)
		storeOpts = append(storeOpts, infra.WithSessionObserver(limits))
		reports = &lazyload.LimitOptions{
			Limits:     limits,
			KeyFn:      lazyload.SessionKey,
			RetryAfter: time.Second,
		}
	}

	sessions := infra.NewSessionStore(storeOpts...)
	sessions.StartJanitor(ctx)
	defer sessions.CloseAll()

	concurrency := cfg.concurrency
	h := lazyload.NewHandler(lazyload.Options{
		Sessions: sessions,
		Factory: application.SessionFactory{
			Loader: loader,
			Pool:   func() domain.SlotPool { return infra.NewSlotPool(concurrency) },
			Stats:  stats,
			Trigger: application.TriggerOptions{
				Margin:    cfg.triggerMargin,
				Threshold: cfg.triggerThreshold,
			},
		},
		Layout:  lazyload.TableLayout(table),
		Title:   cfg.title,
		Reports: reports,
	})

	srv := &http.Server{
		Addr:              cfg.listenAddr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("showcase listening on %s", cfg.listenAddr)
	log.Printf("load: concurrency=%d margin=%.0f threshold=%.2f sessionTTL=%s maxSessions=%d", cfg.concurrency, cfg.triggerMargin, cfg.triggerThreshold, cfg.sessionTTL, cfg.maxSessions)
	log.Printf("reports: rps=%.3f burst=%d per session", cfg.reportRPS, cfg.reportBurst)
	log.Printf("scripts: base=%q rps=%.3f burst=%d timeout=%s cacheTTL=%s warmup=%v", cfg.scriptBaseURL, cfg.fetchRPS, cfg.fetchBurst, cfg.fetchTimeout, cfg.cacheTTL, cfg.warmup)
	log.Printf("stats: redis=%v addr=%q bucket=%q ttl=%s", cfg.statsEnabled, cfg.statsRedisAddr, cfg.statsBucket, cfg.statsTTL)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}

	if !cfg.statsEnabled {
		total := memStats.Total()
		log.Printf("stats: loaded=%d failed=%d avg=%s", total.Loaded, total.Failed, total.Average())
		for typ, c := range memStats.ByType() {
			log.Printf("stats: type=%s loaded=%d failed=%d avg=%s", typ, c.Loaded, c.Failed, c.Average())
		}
	}
}
