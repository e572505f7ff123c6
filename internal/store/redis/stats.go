package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/navdeck/internal/domain"
)

// DefaultStatsTTL bounds how long statistics of an unused source are kept.
const DefaultStatsTTL = 7 * 24 * time.Hour

// ErrStatsNotFound is returned when a source has no statistics yet.
var ErrStatsNotFound = errors.New("stats not found")

// Store keeps operational statistics about upstream fetches. It never
// stores fetched records.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
		ttl:    DefaultStatsTTL,
	}
}

// RecordFetch folds one fetch outcome into the source's statistics.
// Concurrent writers may lose an increment; the numbers are indicative.
func (s *Store) RecordFetch(ctx context.Context, o domain.FetchOutcome) error {
	stats, err := s.GetSourceStats(ctx, o.SourceID)
	if err != nil && !errors.Is(err, ErrStatsNotFound) {
		return err
	}
	stats.Apply(o)

	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, SourceStatsKey(o.SourceID), data, s.ttl)
	pipe.SAdd(ctx, AllSourcesKey(), o.SourceID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save stats: %w", err)
	}
	return nil
}

// GetSourceStats returns the statistics of one source.
func (s *Store) GetSourceStats(ctx context.Context, sourceID string) (domain.SourceStats, error) {
	data, err := s.client.Get(ctx, SourceStatsKey(sourceID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.SourceStats{SourceID: sourceID}, fmt.Errorf("%w: %s", ErrStatsNotFound, sourceID)
		}
		return domain.SourceStats{}, fmt.Errorf("failed to get stats: %w", err)
	}

	var stats domain.SourceStats
	if err := json.Unmarshal(data, &stats); err != nil {
		return domain.SourceStats{}, fmt.Errorf("failed to unmarshal stats: %w", err)
	}
	return stats, nil
}

// GetAllSourceStats returns the statistics of every known source. Sources
// whose entry expired are pruned from the index.
func (s *Store) GetAllSourceStats(ctx context.Context) ([]domain.SourceStats, error) {
	ids, err := s.client.SMembers(ctx, AllSourcesKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get source ids: %w", err)
	}

	out := make([]domain.SourceStats, 0, len(ids))
	for _, id := range ids {
		stats, err := s.GetSourceStats(ctx, id)
		if errors.Is(err, ErrStatsNotFound) {
			_ = s.client.SRem(ctx, AllSourcesKey(), id).Err()
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, stats)
	}
	return out, nil
}

// IncrementRoleView counts one rendered view for role.
func (s *Store) IncrementRoleView(ctx context.Context, role string) error {
	if err := s.client.HIncrBy(ctx, RoleViewsKey(), role, 1).Err(); err != nil {
		return fmt.Errorf("failed to increment role views: %w", err)
	}
	return nil
}

// GetRoleViews returns the view count per role.
func (s *Store) GetRoleViews(ctx context.Context) (map[string]int64, error) {
	raw, err := s.client.HGetAll(ctx, RoleViewsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get role views: %w", err)
	}

	views := make(map[string]int64, len(raw))
	for role, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		views[role] = n
	}
	return views, nil
}
