package pool

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jasonkayzk/respool/errs"
)

// Default wait time for a resource when Options.WaitTimeout is left zero
const defaultWaitTimeout = time.Second * 3

// Configs for pool
type Options[T comparable] struct {
	// The least number of resources the health sweep keeps alive.
	// The sweep never destroys an idle-expired resource below this floor
	MinCap int

	// Max resource number in the pool
	MaxCap int

	// The method to build one resource
	Factory func(ctx context.Context) (T, error)

	// The method to close one resource
	Close func(T) error

	// Check resource health, nil means always healthy.
	// Any returned error counts as unhealthy
	Ping func(T) error

	// Max time to get a resource from the pool
	// Else Acquire will return an errs.AcquireTimeoutErr
	WaitTimeout time.Duration

	// Max idle time before the sweep evicts a resource, 0 disables eviction
	IdleTimeout time.Duration

	// Period of the background health sweep, 0 disables sweeping
	HealthCheckInterval time.Duration

	// Debug lowers the pool logger to debug level
	Debug bool

	// Logger overrides the pool's own logrus instance
	Logger logrus.FieldLogger
}

func (o *Options[T]) validate() error {
	if o.Factory == nil {
		return errs.NewConfigErr("invalid factory func settings")
	}
	if o.Close == nil {
		return errs.NewConfigErr("invalid close func settings")
	}
	if o.MinCap < 0 || o.MaxCap <= 0 || o.MinCap > o.MaxCap {
		return errs.NewConfigErr("invalid capacity settings")
	}
	if o.WaitTimeout < 0 {
		return errs.NewConfigErr("invalid wait timeout settings")
	}
	if o.IdleTimeout < 0 {
		return errs.NewConfigErr("invalid idle timeout settings")
	}
	if o.HealthCheckInterval < 0 {
		return errs.NewConfigErr("invalid health check interval settings")
	}
	return nil
}

func (o *Options[T]) logger() logrus.FieldLogger {
	if o.Logger != nil {
		return o.Logger
	}
	l := logrus.New()
	if o.Debug {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}
