package core

// guard is an interrupt critical section around one read-modify-write.
// Acquire with lock and release with defer g.unlock().
type guard struct {
	state  State
	active bool
}

// lock opens a critical section when the register update could be split by
// an interrupt. Otherwise it returns an inactive guard.
func lock(needed bool) guard {
	if !needed {
		return guard{}
	}
	return guard{state: disableInterrupts(), active: true}
}

// unlock restores the interrupt state saved by lock. It never enables
// interrupts that were disabled on entry.
func (g guard) unlock() {
	if g.active {
		restoreInterrupts(g.state)
	}
}

// Critical runs fn with interrupts disabled and restores the previous state
// on every exit path, including a panic in fn.
func Critical(fn func()) {
	defer lock(true).unlock()
	fn()
}
