package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/park285/pente-server/internal/domain"
	"github.com/redis/go-redis/v9"
)

const defaultResultTTL = 24 * time.Hour

// RedisStore keeps per-result JSON with a TTL, running counters and a
// capped list of recent results.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = defaultResultTTL
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) keyResult(r *domain.GameResult) string { return "pente:result:" + resultKey(r) }
func (s *RedisStore) keyStats() string                       { return "pente:stats" }
func (s *RedisStore) keyRecent() string                      { return "pente:results" }

// Record stores r once; repeated calls for the same run and game id are
// no-ops so counters are not inflated.
func (s *RedisStore) Record(ctx context.Context, r *domain.GameResult) error {
	if s == nil || s.rdb == nil || r == nil {
		return nil
	}
	raw, err := json.Marshal(toRecord(r))
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	fresh, err := s.rdb.SetNX(ctx, s.keyResult(r), raw, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("store result: %w", err)
	}
	if !fresh {
		return nil
	}

	pipe := s.rdb.TxPipeline()
	pipe.HIncrBy(ctx, s.keyStats(), "games", 1)
	if r.Winner != "" {
		pipe.HIncrBy(ctx, s.keyStats(), "wins:"+r.Winner, 1)
		if r.WinnerIsHuman() {
			pipe.HIncrBy(ctx, s.keyStats(), "wins:human", 1)
		} else {
			pipe.HIncrBy(ctx, s.keyStats(), "wins:computer", 1)
		}
	}
	if r.Method != "" {
		pipe.HIncrBy(ctx, s.keyStats(), "method:"+r.Method, 1)
	}
	pipe.LPush(ctx, s.keyRecent(), raw)
	pipe.LTrim(ctx, s.keyRecent(), 0, maxRecent-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("update stats: %w", err)
	}
	return nil
}

// Stats reads the counters hash. Missing fields count as zero.
func (s *RedisStore) Stats(ctx context.Context) (*Stats, error) {
	vals, err := s.rdb.HGetAll(ctx, s.keyStats()).Result()
	if err != nil {
		return nil, fmt.Errorf("read stats: %w", err)
	}
	n := func(field string) int64 {
		v, _ := strconv.ParseInt(vals[field], 10, 64)
		return v
	}
	return &Stats{
		Games:        n("games"),
		WinsX:        n("wins:X"),
		WinsO:        n("wins:O"),
		ByLine:       n("method:line"),
		ByCapture:    n("method:capture"),
		HumanWins:    n("wins:human"),
		ComputerWins: n("wins:computer"),
	}, nil
}

// Recent returns up to limit results, newest first.
func (s *RedisStore) Recent(ctx context.Context, limit int) ([]*domain.GameResult, error) {
	if limit <= 0 {
		limit = defaultRecent
	}
	if limit > maxRecent {
		limit = maxRecent
	}
	items, err := s.rdb.LRange(ctx, s.keyRecent(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read recent: %w", err)
	}
	out := make([]*domain.GameResult, 0, len(items))
	for _, raw := range items {
		var rec record
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			continue
		}
		out = append(out, rec.result())
	}
	return out, nil
}
