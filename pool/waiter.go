package pool

// acquireReq is one unfulfilled promise of a future resource.
// ready carries at most one record; the pool closes the channel instead
// when it shuts down, so a waiter can tell hand-off from shutdown.
type acquireReq[T comparable] struct {
	ready chan *pooledResource[T]
}

// All registry mutation below runs under resourcePool.mu.

func (p *resourcePool[T]) enqueueWaiterLocked() *acquireReq[T] {
	req := &acquireReq[T]{ready: make(chan *pooledResource[T], 1)}
	p.waiting = append(p.waiting, req)
	return req
}

// popWaiterLocked removes and returns the oldest waiter, FIFO.
func (p *resourcePool[T]) popWaiterLocked() *acquireReq[T] {
	l := len(p.waiting)
	if l == 0 {
		return nil
	}
	req := p.waiting[0]
	copy(p.waiting, p.waiting[1:])
	p.waiting = p.waiting[:l-1]
	return req
}

// removeWaiterLocked drops req wherever it sits and reports whether it
// was still registered. A request that is gone has either been handed a
// resource already or failed by Close.
func (p *resourcePool[T]) removeWaiterLocked(req *acquireReq[T]) bool {
	for i, w := range p.waiting {
		if w == req {
			p.waiting = append(p.waiting[:i], p.waiting[i+1:]...)
			return true
		}
	}
	return false
}
