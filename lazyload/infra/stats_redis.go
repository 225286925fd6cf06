package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"widget-showcase/lazyload/domain"

	"github.com/redis/go-redis/v9"
)

// RedisStatsStore grava as estatísticas de carregamento em hashes do Redis.
//
// Chaves (com o prefixo padrão):
//
//	widgets:stats:total              loaded/failed/load_ms
//	widgets:stats:minute:YYYYMMDDhhmm loaded/failed   (expira após ttl)
//	widgets:stats:type               <tipo>:loaded / <tipo>:failed
type RedisStatsStore struct {
	rdb *redis.Client

	prefix string
	// ttl vale só para os buckets por minuto; total e tipo são cumulativos.
	ttl time.Duration

	bucket string // "minute" (padrão) ou "none"
}

type RedisStatsOption func(*RedisStatsStore)

func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisStatsStore) {
		s.prefix = strings.Trim(prefix, ":")
	}
}

func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisStatsStore) { s.ttl = d }
}

func WithStatsBucket(bucket string) RedisStatsOption {
	return func(s *RedisStatsStore) { s.bucket = strings.ToLower(strings.TrimSpace(bucket)) }
}

func NewRedisStatsStore(rdb *redis.Client, opts ...RedisStatsOption) *RedisStatsStore {
	s := &RedisStatsStore{
		rdb:    rdb,
		prefix: "widgets:stats",
		ttl:    24 * time.Hour,
		bucket: "minute",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStatsStore) Record(ctx context.Context, ev domain.LoadEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}

	field := outcomeField(ev.Loaded)
	totalKey := s.prefix + ":total"

	pipe := s.rdb.Pipeline()
	pipe.HIncrBy(ctx, totalKey, field, 1)
	pipe.HIncrBy(ctx, totalKey, "load_ms", ev.Duration.Milliseconds())

	if s.bucket == "minute" {
		bucketKey := fmt.Sprintf("%s:minute:%s", s.prefix, at.UTC().Format("200601021504"))
		pipe.HIncrBy(ctx, bucketKey, field, 1)
		if s.ttl > 0 {
			pipe.Expire(ctx, bucketKey, s.ttl)
		}
	}

	if wt := strings.TrimSpace(ev.WidgetType); wt != "" {
		pipe.HIncrBy(ctx, s.prefix+":type", wt+":"+field, 1)
	}

	_, err := pipe.Exec(ctx)
	return err
}

func outcomeField(loaded bool) string {
	if loaded {
		return "loaded"
	}
	return "failed"
}
