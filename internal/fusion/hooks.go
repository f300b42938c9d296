package fusion

import "sync"

// Hookable is a model whose prediction entry point can be swapped out.
// Implementations expose the current entry point and accept a replacement;
// the engine itself never rewrites model internals (it takes its predict
// function at construction), but orchestrators that still route through a
// shared model object use these hooks.
type Hookable interface {
	PredictFunc() PredictFunc
	SetPredictFunc(PredictFunc)
}

// Hook installs and restores a model's prediction entry point.
// Attach is idempotent; Detach restores the exact original function and is
// a no-op on an unattached model. A run-completion notification triggers
// automatic detach exactly once, even if multiple notifications fire.
type Hook struct {
	mu       sync.Mutex
	original PredictFunc
	attached bool // marker: set on attach, cleared on detach
	notified bool
}

// Attach routes the model's predictions through the replacement function,
// keeping the original for restoration. Attaching an already-attached
// model is a no-op.
func (h *Hook) Attach(m Hookable, replacement PredictFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.attached {
		return
	}
	h.original = m.PredictFunc()
	m.SetPredictFunc(replacement)
	h.attached = true
	h.notified = false
}

// Detach restores the model's original prediction entry point.
// Detaching an unattached model is a no-op, never an error.
func (h *Hook) Detach(m Hookable) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detachLocked(m)
}

func (h *Hook) detachLocked(m Hookable) {
	if !h.attached {
		return
	}
	m.SetPredictFunc(h.original)
	h.original = nil
	h.attached = false
}

// Attached reports whether the hook currently holds the model's entry point.
func (h *Hook) Attached() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.attached
}

// NotifyRunComplete is the lifecycle notification fired when a generation
// run's final image is produced. The first notification after an attach
// detaches the model; later notifications are no-ops.
func (h *Hook) NotifyRunComplete(m Hookable) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.notified {
		return
	}
	h.notified = true
	h.detachLocked(m)
}
