// Package postgres supplies pool lifecycle callbacks backed by pgx.
package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jasonkayzk/respool/pool"
)

const defaultConnectTimeout = 10 * time.Second

// Config for the postgres adapter
type Config struct {
	// Conn string in pgx URL or DSN form
	ConnString string

	// Upper bound for connect, close and ping round-trips
	ConnectTimeout time.Duration
}

// Options fills the lifecycle callbacks of base with pgx connections:
// create dials, destroy closes, validate pings. base may be nil.
func Options(cfg Config, base *pool.Options[*pgx.Conn]) *pool.Options[*pgx.Conn] {
	if base == nil {
		base = &pool.Options[*pgx.Conn]{}
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	base.Factory = func(ctx context.Context) (*pgx.Conn, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return pgx.Connect(ctx, cfg.ConnString)
	}
	base.Close = func(conn *pgx.Conn) error {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return conn.Close(ctx)
	}
	base.Ping = func(conn *pgx.Conn) error {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return conn.Ping(ctx)
	}
	return base
}
