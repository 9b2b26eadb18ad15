package usecase

import (
	"context"
	"database/sql"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	HealthOK       = "ok"
	HealthDown     = "down"
	HealthDisabled = "disabled"
)

type HealthUsecase interface {
	// Check reports per-component status and whether the service can take traffic.
	Check(ctx context.Context) (map[string]string, bool)
}

type healthUsecase struct {
	db      *sql.DB
	redis   *goredis.Client
	timeout time.Duration
}

// NewHealthUsecase checks the database and, when configured, Redis.
// Redis being down degrades rate limiting but does not fail the check.
func NewHealthUsecase(db *sql.DB, redis *goredis.Client) HealthUsecase {
	return &healthUsecase{db: db, redis: redis, timeout: 2 * time.Second}
}

func (u *healthUsecase) Check(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	status := map[string]string{"status": HealthOK}
	healthy := true

	switch {
	case u.db == nil:
		status["database"] = HealthDisabled
	case u.db.PingContext(ctx) != nil:
		status["database"] = HealthDown
		healthy = false
	default:
		status["database"] = HealthOK
	}

	switch {
	case u.redis == nil:
		status["redis"] = HealthDisabled
	case u.redis.Ping(ctx).Err() != nil:
		status["redis"] = HealthDown
	default:
		status["redis"] = HealthOK
	}

	if !healthy {
		status["status"] = HealthDown
	}
	return status, healthy
}
