package fusion

import "sync/atomic"

// Interrupt is a shared cancellation flag, polled cooperatively by the
// uniform-tile phase before each batch. There is no timeout mechanism; an
// external supervisor owns that.
type Interrupt struct {
	flag atomic.Bool
}

// Set raises the interrupt flag.
func (i *Interrupt) Set() {
	i.flag.Store(true)
}

// Clear lowers the interrupt flag.
func (i *Interrupt) Clear() {
	i.flag.Store(false)
}

// Interrupted reports whether the flag is raised. Safe on a nil receiver,
// which reports false (no interrupt source configured).
func (i *Interrupt) Interrupted() bool {
	if i == nil {
		return false
	}
	return i.flag.Load()
}
