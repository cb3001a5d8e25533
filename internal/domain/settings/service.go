package settings

import (
	"context"

	"github.com/washbay/washbay/internal/platform/cache"
)

const cacheKey = "schedule_config"

// Service reads and updates the schedule configuration. The config is
// re-read per request; the optional cache in front of it keeps a short TTL so
// closures and capacity changes take effect within seconds.
type Service struct {
	repo  Repository
	cache *cache.Cache
}

func NewService(repo Repository, c *cache.Cache) *Service {
	return &Service{repo: repo, cache: c}
}

func (s *Service) Get(ctx context.Context) (*ScheduleConfig, error) {
	var cached ScheduleConfig
	if s.cache.Get(ctx, cacheKey, &cached) {
		return &cached, nil
	}
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, cacheKey, cfg)
	return cfg, nil
}

func (s *Service) Update(ctx context.Context, cfg *ScheduleConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, cfg); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, cacheKey)
	return nil
}
