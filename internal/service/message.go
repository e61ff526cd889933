package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/Pratham1708/lyftr-ai-backend/internal/cache"
	domain "github.com/Pratham1708/lyftr-ai-backend/internal/domain/message"
)

// statsKey is the cache key under which the aggregate snapshot lives.
var statsKey = cache.Stats.Key("snapshot")

type MessageService interface {
	// Ingest stores the message idempotently and reports whether it was
	// created or was already present.
	Ingest(ctx context.Context, m *domain.Message) (domain.InsertOutcome, error)

	// List returns the filtered page plus the total match count.
	List(ctx context.Context, f domain.Filter, p domain.Page) ([]*domain.Message, int64, error)

	// Stats returns the aggregate snapshot, served from cache when fresh.
	Stats(ctx context.Context) (*domain.Stats, error)

	// RefreshStats recomputes the snapshot and rewrites the cache entry.
	RefreshStats(ctx context.Context) error

	// Ping reports whether the storage backend is reachable.
	Ping(ctx context.Context) error
}

type messageService struct {
	repo     domain.Repository
	cache    cache.Cache
	statsTTL time.Duration
}

// NewMessageService creates a message service with the given repository and
// optional cache. A nil cache disables snapshot caching; every Stats call
// then hits the repository directly.
func NewMessageService(repo domain.Repository, c cache.Cache, statsTTL time.Duration) MessageService {
	if statsTTL <= 0 {
		statsTTL = 30 * time.Second
	}

	return &messageService{
		repo:     repo,
		cache:    c,
		statsTTL: statsTTL,
	}
}

func (s *messageService) Ingest(ctx context.Context, m *domain.Message) (domain.InsertOutcome, error) {
	outcome, err := s.repo.Insert(ctx, m)
	if err != nil {
		return outcome, fmt.Errorf("insert message %s: %w", m.MessageID, err)
	}

	// A new record invalidates the cached snapshot. Duplicates change
	// nothing, so the cache stays valid. Best-effort only.
	if outcome == domain.OutcomeCreated && s.cache != nil {
		if cErr := s.cache.Del(ctx, statsKey); cErr != nil {
			log.Printf("[Service] Failed to invalidate stats cache: %v", cErr)
		}
	}

	return outcome, nil
}

func (s *messageService) List(ctx context.Context, f domain.Filter, p domain.Page) ([]*domain.Message, int64, error) {
	return s.repo.List(ctx, f, p)
}

func (s *messageService) Stats(ctx context.Context) (*domain.Stats, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, statsKey); err == nil && raw != "" {
			var cached domain.Stats
			if uErr := json.Unmarshal([]byte(raw), &cached); uErr == nil {
				return &cached, nil
			}
			// Unreadable entry: drop it and recompute.
			_ = s.cache.Del(ctx, statsKey)
		}
	}

	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("compute stats: %w", err)
	}

	s.cacheStats(ctx, stats)
	return stats, nil
}

func (s *messageService) RefreshStats(ctx context.Context) error {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return fmt.Errorf("refresh stats: %w", err)
	}
	s.cacheStats(ctx, stats)
	return nil
}

// cacheStats writes the snapshot as one cache entry, so readers always see
// counts and the leaderboard from the same computation.
func (s *messageService) cacheStats(ctx context.Context, stats *domain.Stats) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(stats)
	if err != nil {
		log.Printf("[Service] Failed to serialize stats snapshot: %v", err)
		return
	}
	if err := s.cache.Set(ctx, statsKey, string(raw), s.statsTTL); err != nil {
		log.Printf("[Service] Failed to cache stats snapshot: %v", err)
	}
}

func (s *messageService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// compile-time interface check
var _ MessageService = (*messageService)(nil)
