package ml

import "sync/atomic"

// Handle is the process-wide reference to the current bundle.
// Readers never lock; a swap replaces the whole bundle at once.
type Handle struct {
	current atomic.Pointer[Bundle]
}

func NewHandle() *Handle {
	return &Handle{}
}

// Current returns the active bundle, or nil if none has been loaded.
func (h *Handle) Current() *Bundle {
	return h.current.Load()
}

// Swap installs b and returns the bundle it replaced.
func (h *Handle) Swap(b *Bundle) *Bundle {
	return h.current.Swap(b)
}

// CompareAndSwap installs b only if the current bundle is still old.
func (h *Handle) CompareAndSwap(old, b *Bundle) bool {
	return h.current.CompareAndSwap(old, b)
}
