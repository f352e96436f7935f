package postgres

import (
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"propfolio/internal/config"
)

// NewDB creates a new PostgreSQL connection pool. Connect pings once, so a
// bad DSN fails at startup instead of on the first query.
func NewDB(cfg *config.DBConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpen)
	db.SetMaxIdleConns(cfg.MaxIdle)
	// Recycle connections so idle ones do not outlive load balancer timeouts.
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}
