package settings

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/washbay/washbay/internal/platform/cache"
)

type mockRepo struct {
	cfg      *ScheduleConfig
	getCalls int
}

func (m *mockRepo) Get(_ context.Context) (*ScheduleConfig, error) {
	m.getCalls++
	if m.cfg == nil {
		m.cfg = DefaultScheduleConfig()
	}
	return m.cfg, nil
}

func (m *mockRepo) Update(_ context.Context, cfg *ScheduleConfig) error {
	m.cfg = cfg
	return nil
}

func TestGet_LazyDefaults(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, nil)

	cfg, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if cfg.WorkStartHour != 8 || cfg.WorkEndHour != 18 {
		t.Errorf("expected default hours 8-18, got %d-%d", cfg.WorkStartHour, cfg.WorkEndHour)
	}
}

func TestUpdate_RejectsInvalid(t *testing.T) {
	svc := NewService(&mockRepo{}, nil)

	bad := DefaultScheduleConfig()
	bad.WorkStartHour = 20
	bad.WorkEndHour = 8
	if err := svc.Update(context.Background(), bad); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestGet_CachesAndInvalidates(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	repo := &mockRepo{}
	svc := NewService(repo, cache.New(client, time.Minute))
	ctx := context.Background()

	if _, err := svc.Get(ctx); err != nil {
		t.Fatalf("first get: %v", err)
	}
	if _, err := svc.Get(ctx); err != nil {
		t.Fatalf("second get: %v", err)
	}
	if repo.getCalls != 1 {
		t.Errorf("expected 1 repo read with warm cache, got %d", repo.getCalls)
	}

	upd := DefaultScheduleConfig()
	upd.WorkEndHour = 20
	if err := svc.Update(ctx, upd); err != nil {
		t.Fatalf("update: %v", err)
	}

	cfg, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if cfg.WorkEndHour != 20 {
		t.Errorf("expected cache invalidated on update, got end hour %d", cfg.WorkEndHour)
	}
}
