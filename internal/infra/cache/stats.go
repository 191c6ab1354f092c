package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/peluqueriacool/PC-ReservationService/internal/domain"
)

const statsKey = "reservations:stats"

var (
	// ErrCacheMiss возвращается, когда значения нет в кеше
	ErrCacheMiss = errors.New("cache: miss")
)

// StatsCache короткоживущий кеш счетчиков дашборда в Redis
// Статистика пересчитывается из четырех запросов к базе; 30-секундный TTL
// гасит повторные пересчеты при частом обновлении дашборда
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatsCache создает кеш поверх Redis клиента
func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

// Get возвращает закешированные счетчики или ErrCacheMiss
func (c *StatsCache) Get(ctx context.Context) (*domain.Stats, error) {
	raw, err := c.client.Get(ctx, statsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache: get stats: %w", err)
	}

	var stats domain.Stats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, fmt.Errorf("cache: unmarshal stats: %w", err)
	}

	return &stats, nil
}

// Set сохраняет счетчики с TTL
func (c *StatsCache) Set(ctx context.Context, stats *domain.Stats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("cache: marshal stats: %w", err)
	}

	if err := c.client.Set(ctx, statsKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: set stats: %w", err)
	}

	return nil
}
