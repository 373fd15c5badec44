package session

import "sync/atomic"

// CancelToken is the one piece of state written from outside the loop
// thread: signal delivery requests termination, the loop observes it once
// per iteration. Only eventual visibility is needed, which atomic.Bool
// gives for free.
type CancelToken struct {
	requested atomic.Bool
}

func NewCancelToken() *CancelToken {
	return &CancelToken{}
}

func (t *CancelToken) Request() {
	t.requested.Store(true)
}

func (t *CancelToken) Requested() bool {
	return t != nil && t.requested.Load()
}
