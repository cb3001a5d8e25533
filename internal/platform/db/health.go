package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

const healthPingTimeout = 3 * time.Second

// DBStats is the database section of the health payload. Saturated means
// every connection is acquired; sustained saturation is the first symptom of
// bookings queueing behind slow transactions.
type DBStats struct {
	InUse        int32  `json:"in_use"`
	Idle         int32  `json:"idle"`
	Total        int32  `json:"total"`
	Max          int32  `json:"max"`
	WaitCount    int64  `json:"wait_count"`
	WaitDuration string `json:"wait_duration"`
	Saturated    bool   `json:"saturated"`
}

func poolDBStats(pool *pgxpool.Pool) DBStats {
	s := pool.Stat()
	return buildDBStats(s.AcquiredConns(), s.IdleConns(), s.TotalConns(), s.MaxConns(),
		s.EmptyAcquireCount(), s.AcquireDuration())
}

func buildDBStats(inUse, idle, total, max int32, waitCount int64, waitDur time.Duration) DBStats {
	return DBStats{
		InUse:        inUse,
		Idle:         idle,
		Total:        total,
		Max:          max,
		WaitCount:    waitCount,
		WaitDuration: waitDur.String(),
		Saturated:    inUse >= max,
	}
}

// HealthHandler reports liveness: it pings the database with a short
// deadline and exposes pool pressure alongside the verdict.
func HealthHandler(pool *pgxpool.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthPingTimeout)
		defer cancel()

		stats := poolDBStats(pool)
		if err := pool.Ping(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
				"status":   "degraded",
				"error":    err.Error(),
				"database": stats,
			})
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":   "ok",
			"database": stats,
		})
	}
}
