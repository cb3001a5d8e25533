package settings

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/washbay/washbay/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Querier {
	if q := db.QuerierFromContext(ctx); q != nil {
		return q
	}
	return r.pool
}

const configCols = `work_start_hour, work_end_hour, work_days, closed_dates,
	max_concurrent_bookings, multi_worker_enabled, updated_at`

func (r *repoPG) Get(ctx context.Context) (*ScheduleConfig, error) {
	var cfg ScheduleConfig
	err := r.conn(ctx).QueryRow(ctx, `SELECT `+configCols+` FROM schedule_settings WHERE id = 1`).
		Scan(&cfg.WorkStartHour, &cfg.WorkEndHour, &cfg.WorkDays, &cfg.ClosedDates,
			&cfg.MaxConcurrentBookings, &cfg.MultiWorkerEnabled, &cfg.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return r.seed(ctx)
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// seed inserts the default singleton row. ON CONFLICT covers the race where
// two first reads arrive together.
func (r *repoPG) seed(ctx context.Context) (*ScheduleConfig, error) {
	cfg := DefaultScheduleConfig()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO schedule_settings (id, work_start_hour, work_end_hour, work_days, closed_dates,
			max_concurrent_bookings, multi_worker_enabled)
		VALUES (1,$1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO NOTHING`,
		cfg.WorkStartHour, cfg.WorkEndHour, cfg.WorkDays, cfg.ClosedDates,
		cfg.MaxConcurrentBookings, cfg.MultiWorkerEnabled)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx)
}

func (r *repoPG) Update(ctx context.Context, cfg *ScheduleConfig) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO schedule_settings (id, work_start_hour, work_end_hour, work_days, closed_dates,
			max_concurrent_bookings, multi_worker_enabled, updated_at)
		VALUES (1,$1,$2,$3,$4,$5,$6,NOW())
		ON CONFLICT (id) DO UPDATE SET
			work_start_hour=EXCLUDED.work_start_hour,
			work_end_hour=EXCLUDED.work_end_hour,
			work_days=EXCLUDED.work_days,
			closed_dates=EXCLUDED.closed_dates,
			max_concurrent_bookings=EXCLUDED.max_concurrent_bookings,
			multi_worker_enabled=EXCLUDED.multi_worker_enabled,
			updated_at=NOW()`,
		cfg.WorkStartHour, cfg.WorkEndHour, cfg.WorkDays, cfg.ClosedDates,
		cfg.MaxConcurrentBookings, cfg.MultiWorkerEnabled)
	return err
}
