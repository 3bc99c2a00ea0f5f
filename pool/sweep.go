package pool

import (
	"time"
)

// sweepLoop drives the periodic health sweep until the pool closes.
func (p *resourcePool[T]) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.done:
			return
		case <-ticker.C:
			p.sweep()
		}
	}
}

// sweep walks the currently idle records once. Records idle past
// IdleTimeout are evicted while the pool stays above MinCap; everything
// else is pinged and destroyed on failure. In-flight records are never
// touched, and the sweep never creates replacements; that happens lazily
// on the next Acquire.
func (p *resourcePool[T]) sweep() {
	p.mu.Lock()
	idle := make([]*pooledResource[T], 0, len(p.resources))
	for _, rec := range p.resources {
		if !rec.inUse {
			idle = append(idle, rec)
		}
	}
	p.mu.Unlock()

	for _, rec := range idle {
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return
		}
		if rec.inUse || !p.containsLocked(rec) {
			// Grabbed by an Acquire or already destroyed since the snapshot.
			p.mu.Unlock()
			continue
		}

		// Pin before unlocking so a concurrent Acquire cannot take the
		// record while it is being evicted or pinged.
		rec.inUse = true
		evict := p.idleTimeout > 0 && rec.idleFor(time.Now()) > p.idleTimeout && len(p.resources) > p.minCap
		p.mu.Unlock()

		if evict {
			p.log.WithField("resource", rec.id).
				WithField("age", time.Since(rec.createdAt)).
				Debugf("evicting idle resource")
			p.destroy(rec)
			continue
		}

		if err := p.validate(rec.value); err != nil {
			p.log.WithField("resource", rec.id).Debugf("idle resource failed validation: %v", err)
			p.destroy(rec)
			continue
		}

		p.mu.Lock()
		if req := p.popWaiterLocked(); req != nil {
			// Someone queued up while the record was pinned; the oldest
			// waiter beats returning it to the idle set.
			rec.lastUsedAt = time.Now()
			p.acquired++
			req.ready <- rec
		} else {
			rec.inUse = false
		}
		p.mu.Unlock()
	}
}

func (p *resourcePool[T]) containsLocked(rec *pooledResource[T]) bool {
	for _, r := range p.resources {
		if r == rec {
			return true
		}
	}
	return false
}
