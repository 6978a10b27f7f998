package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// Postgres bundles the two database handles the repositories use: a pgx pool
// for the core entities and an sqlx wrapper (over the pgx stdlib driver) for
// the tracker and master-data family.
type Postgres struct {
	Pool *pgxpool.Pool
	DB   *sqlx.DB
}

func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	sqlxDB, err := sqlx.Open("pgx", databaseURL)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to open sqlx DB: %w", err)
	}
	if err := sqlxDB.PingContext(pingCtx); err != nil {
		pool.Close()
		sqlxDB.Close()
		return nil, fmt.Errorf("failed to ping sqlx DB: %w", err)
	}

	return &Postgres{Pool: pool, DB: sqlxDB}, nil
}

func (p *Postgres) Close() {
	if p.Pool != nil {
		p.Pool.Close()
	}
	if p.DB != nil {
		p.DB.Close()
	}
}
