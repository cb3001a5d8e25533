package settings

import "context"

type Repository interface {
	// Get returns the singleton config, inserting the defaults if no row
	// exists yet.
	Get(ctx context.Context) (*ScheduleConfig, error)
	Update(ctx context.Context, cfg *ScheduleConfig) error
}
