package pool

// Stats is a point-in-time snapshot of pool state.
type Stats struct {
	// Current counts
	Total   int // resources tracked by the pool
	Active  int // checked out right now
	Idle    int // held by the pool, ready for reuse
	Waiting int // callers parked in the waiting registry

	// Lifetime counters, monotonic for the life of the pool
	Created   int64
	Destroyed int64
	Acquired  int64
	Released  int64
	TimedOut  int64
}

func (p *resourcePool[T]) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := Stats{
		Total:     len(p.resources),
		Waiting:   len(p.waiting),
		Created:   p.created,
		Destroyed: p.destroyed,
		Acquired:  p.acquired,
		Released:  p.released,
		TimedOut:  p.timedOut,
	}
	for _, rec := range p.resources {
		if rec.inUse {
			s.Active++
		} else {
			s.Idle++
		}
	}
	return s
}
