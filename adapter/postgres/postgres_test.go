package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasonkayzk/respool/pool"
)

func TestOptionsWiresCallbacks(t *testing.T) {
	base := &pool.Options[*pgx.Conn]{MinCap: 1, MaxCap: 4}
	opts := Options(Config{ConnString: "postgres://app@localhost:5432/app"}, base)

	assert.Same(t, base, opts)
	assert.NotNil(t, opts.Factory)
	assert.NotNil(t, opts.Close)
	assert.NotNil(t, opts.Ping)
	assert.Equal(t, 1, opts.MinCap)
	assert.Equal(t, 4, opts.MaxCap)
}

func TestOptionsNilBase(t *testing.T) {
	opts := Options(Config{ConnString: "postgres://app@localhost:5432/app"}, nil)
	require.NotNil(t, opts)
	assert.NotNil(t, opts.Factory)
}

func TestFactoryRejectsBadConnString(t *testing.T) {
	opts := Options(Config{
		ConnString:     "postgres://app@localhost:notaport/app",
		ConnectTimeout: time.Second,
	}, nil)

	_, err := opts.Factory(context.Background())
	require.Error(t, err, "an unparseable conn string must fail without dialing")
}
