package pool

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/jasonkayzk/respool/errs"
)

// The pool interface
type Pool[T comparable] interface {
	// Acquire returns a usable resource, creating one when the pool is
	// below MaxCap. It fails with errs.ClosedErr on a closed pool and
	// with errs.AcquireTimeoutErr when no resource shows up in time.
	Acquire(ctx context.Context) (T, error)

	// Release puts a previously acquired resource back. Releasing an
	// unknown or already released value is a no-op.
	Release(v T)

	// Close shuts the pool down, waiting up to drainTimeout for
	// checked-out resources to come back before destroying everything.
	// A second Close is a no-op.
	Close(drainTimeout time.Duration)

	// IsClosed reports whether Close has been called.
	IsClosed() bool

	// Stats returns a point-in-time snapshot of the pool counters.
	Stats() Stats

	// Len returns the current number of idle resources in the pool.
	Len() int
}

// How often Close re-checks for checked-out resources during the drain
const drainPollInterval = 50 * time.Millisecond

type resourcePool[T comparable] struct {
	mu        sync.Mutex
	resources []*pooledResource[T]
	waiting   []*acquireReq[T]
	closed    bool
	done      chan struct{}

	factory func(ctx context.Context) (T, error)
	closeFn func(T) error
	ping    func(T) error

	minCap      int
	maxCap      int
	waitTimeout time.Duration
	idleTimeout time.Duration

	// createGate serializes the room-check-then-create sequence so two
	// racing Acquire calls cannot both create past MaxCap.
	createGate *semaphore.Weighted

	log logrus.FieldLogger

	// lifetime counters, guarded by mu
	created   int64
	destroyed int64
	acquired  int64
	released  int64
	timedOut  int64
}

// Build pool
func NewPool[T comparable](opts *Options[T]) (Pool[T], error) {
	if opts == nil {
		return nil, errs.NewConfigErr("nil options")
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	waitTimeout := opts.WaitTimeout
	if waitTimeout == 0 {
		waitTimeout = defaultWaitTimeout
	}

	p := &resourcePool[T]{
		done:        make(chan struct{}),
		factory:     opts.Factory,
		closeFn:     opts.Close,
		ping:        opts.Ping,
		minCap:      opts.MinCap,
		maxCap:      opts.MaxCap,
		waitTimeout: waitTimeout,
		idleTimeout: opts.IdleTimeout,
		createGate:  semaphore.NewWeighted(1),
		log:         opts.logger(),
	}

	if opts.HealthCheckInterval > 0 {
		go p.sweepLoop(opts.HealthCheckInterval)
	}

	return p, nil
}

func (p *resourcePool[T]) Acquire(ctx context.Context) (T, error) {
	var zero T

	if p.IsClosed() {
		return zero, errs.NewDefaultClosedErr()
	}

	// Fast path: reuse an idle resource. One pass only; when the pick
	// fails validation it is destroyed and a fresh resource is created
	// or the caller waits, never a rescan.
	if rec := p.pickIdle(); rec != nil {
		if err := p.validate(rec.value); err != nil {
			p.log.WithField("resource", rec.id).Debugf("idle resource failed validation: %v", err)
			p.destroy(rec)
		} else {
			p.mu.Lock()
			rec.lastUsedAt = time.Now()
			p.acquired++
			p.mu.Unlock()
			return rec.value, nil
		}
	}

	v, created, err := p.tryCreate(ctx)
	if err != nil {
		return zero, err
	}
	if created {
		return v, nil
	}

	return p.wait(ctx)
}

// pickIdle marks the first idle record in-use and returns it, so nothing
// else can grab it while the caller runs the ping outside the lock.
func (p *resourcePool[T]) pickIdle() *pooledResource[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, rec := range p.resources {
		if !rec.inUse {
			rec.inUse = true
			return rec
		}
	}
	return nil
}

// tryCreate builds a new resource when there is room. The whole
// check-then-create sequence holds the width-1 creation gate; the gate is
// always released, factory failure included, so later callers never hang.
func (p *resourcePool[T]) tryCreate(ctx context.Context) (T, bool, error) {
	var zero T

	if err := p.createGate.Acquire(ctx, 1); err != nil {
		return zero, false, err
	}
	defer p.createGate.Release(1)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return zero, false, errs.NewDefaultClosedErr()
	}
	if len(p.resources) >= p.maxCap {
		p.mu.Unlock()
		return zero, false, nil
	}
	p.mu.Unlock()

	v, err := p.factory(ctx)
	if err != nil {
		return zero, false, errs.NewCreationErr(err)
	}

	rec := newPooledResource(v)
	rec.inUse = true

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		// Raced with Close; the record never joined the pool.
		if cerr := p.closeFn(v); cerr != nil {
			p.log.WithField("resource", rec.id).Warnf("close resource err: %v", cerr)
		}
		return zero, false, errs.NewDefaultClosedErr()
	}
	p.resources = append(p.resources, rec)
	size := len(p.resources)
	p.created++
	p.acquired++
	p.mu.Unlock()

	p.log.WithField("resource", rec.id).Debugf("created resource %d/%d", size, p.maxCap)
	return v, true, nil
}

// wait parks the caller in the waiting registry until a release hands a
// resource over, the wait timeout fires, the caller's context ends, or
// the pool closes.
func (p *resourcePool[T]) wait(ctx context.Context) (T, error) {
	var zero T

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return zero, errs.NewDefaultClosedErr()
	}
	req := p.enqueueWaiterLocked()
	p.mu.Unlock()

	timer := time.NewTimer(p.waitTimeout)
	defer timer.Stop()

	select {
	case rec, ok := <-req.ready:
		if !ok {
			return zero, errs.NewDefaultClosedErr()
		}
		return rec.value, nil

	case <-timer.C:
		p.mu.Lock()
		if p.removeWaiterLocked(req) {
			p.timedOut++
			p.mu.Unlock()
			return zero, errs.NewAcquireTimeoutErr("get resource timeout")
		}
		p.mu.Unlock()
		// Lost the race against a fulfillment or against Close; the
		// channel tells which.
		rec, ok := <-req.ready
		if !ok {
			return zero, errs.NewDefaultClosedErr()
		}
		return rec.value, nil

	case <-ctx.Done():
		p.mu.Lock()
		if p.removeWaiterLocked(req) {
			p.mu.Unlock()
			return zero, ctx.Err()
		}
		p.mu.Unlock()
		// A hand-off was already in flight; pass it on so the resource
		// is not lost with the abandoned request.
		if rec, ok := <-req.ready; ok {
			p.Release(rec.value)
		}
		return zero, ctx.Err()
	}
}

func (p *resourcePool[T]) Release(v T) {
	p.mu.Lock()
	rec := p.findCheckedOutLocked(v)
	if rec == nil {
		p.mu.Unlock()
		p.log.Debugf("release of unknown or idle resource, ignored")
		return
	}
	rec.releasing = true
	p.released++
	p.mu.Unlock()

	// Ping before the record can go back to idle or to a waiter; an
	// unhealthy resource is never handed out again.
	if err := p.validate(rec.value); err != nil {
		p.log.WithField("resource", rec.id).Debugf("released resource failed validation: %v", err)
		p.destroy(rec)
		return
	}

	p.mu.Lock()
	rec.releasing = false
	if req := p.popWaiterLocked(); req != nil {
		// Hand straight to the oldest waiter, still marked in-use; the
		// record is never visible as idle in between. The channel is
		// buffered so the send cannot block under the lock.
		rec.lastUsedAt = time.Now()
		p.acquired++
		req.ready <- rec
		p.mu.Unlock()
		return
	}
	rec.inUse = false
	rec.lastUsedAt = time.Now()
	p.mu.Unlock()
}

func (p *resourcePool[T]) findCheckedOutLocked(v T) *pooledResource[T] {
	for _, rec := range p.resources {
		if rec.inUse && !rec.releasing && rec.value == v {
			return rec
		}
	}
	return nil
}

// validate runs the ping callback; a nil callback always passes.
func (p *resourcePool[T]) validate(v T) error {
	if p.ping == nil {
		return nil
	}
	return p.ping(v)
}

// destroy removes rec from the pool and closes the underlying value.
// Removal and the destroyed counter come first, under the lock, so a
// record is destroyed at most once; the close callback then runs outside
// the lock and its error is only logged.
func (p *resourcePool[T]) destroy(rec *pooledResource[T]) {
	p.mu.Lock()
	found := p.removeLocked(rec)
	if found {
		p.destroyed++
	}
	p.mu.Unlock()

	if !found {
		return
	}
	if err := p.closeFn(rec.value); err != nil {
		p.log.WithField("resource", rec.id).Warnf("close resource err: %v", err)
	}
}

func (p *resourcePool[T]) removeLocked(rec *pooledResource[T]) bool {
	for i, r := range p.resources {
		if r == rec {
			p.resources = append(p.resources[:i], p.resources[i+1:]...)
			return true
		}
	}
	return false
}

func (p *resourcePool[T]) Close(drainTimeout time.Duration) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	waiters := p.waiting
	p.waiting = nil
	p.mu.Unlock()

	// Stop the sweep, then fail everyone still waiting.
	close(p.done)
	for _, req := range waiters {
		close(req.ready)
	}

	p.drain(drainTimeout)

	p.mu.Lock()
	remaining := p.resources
	p.resources = nil
	p.destroyed += int64(len(remaining))
	p.mu.Unlock()

	for _, rec := range remaining {
		if err := p.closeFn(rec.value); err != nil {
			p.log.WithField("resource", rec.id).Warnf("close resource err: %v", err)
		}
	}
}

// drain gives in-flight callers a bounded grace period to Release before
// Close destroys whatever is left.
func (p *resourcePool[T]) drain(drainTimeout time.Duration) {
	if drainTimeout <= 0 {
		return
	}
	deadline := time.Now().Add(drainTimeout)
	ticker := time.NewTicker(drainPollInterval)
	defer ticker.Stop()

	for p.anyInUse() && time.Now().Before(deadline) {
		<-ticker.C
	}
}

func (p *resourcePool[T]) anyInUse() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, rec := range p.resources {
		if rec.inUse {
			return true
		}
	}
	return false
}

func (p *resourcePool[T]) IsClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *resourcePool[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, rec := range p.resources {
		if !rec.inUse {
			n++
		}
	}
	return n
}
