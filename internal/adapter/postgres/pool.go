package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/instant-voices/internal/config"
	"github.com/heartmarshall/instant-voices/internal/domain"
)

const (
	applicationName = "instant-voices"
	pingTimeout     = 5 * time.Second
)

// NewPool opens the voice store pool from cfg and pings it once so a bad DSN
// fails at startup. The DSN may set application_name; otherwise the service
// name is used so connections are identifiable in pg_stat_activity.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	if _, ok := poolCfg.ConnConfig.RuntimeParams["application_name"]; !ok {
		poolCfg.ConnConfig.RuntimeParams["application_name"] = applicationName
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		if isUnavailable(err) {
			return nil, fmt.Errorf("ping database: %w: %w", domain.ErrUnavailable, err)
		}
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}
