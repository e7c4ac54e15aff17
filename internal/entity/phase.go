package entity

import "time"

// Phase is one named, time-boxed mode of an entity's machine.
type Phase string

// PhaseDef describes one row of a machine's transition table. A zero
// Duration (with no DurationFn) makes the phase indefinite: it only leaves
// via an explicit Set. DurationFn, when present, resolves the duration on
// every entry, which is how the mole randomizes its idle dwell.
type PhaseDef struct {
	Duration   time.Duration
	DurationFn func() time.Duration
	Next       Phase
	OnEnter    func()
	OnExit     func()
}

// Machine drives a phase table from a single time-in-state accumulator.
// Advance is called once per frame with the frame delta; expired phases
// chain into their successors within the same call, carrying the overshoot
// so long frames do not stretch phase boundaries.
type Machine struct {
	table    map[Phase]PhaseDef
	current  Phase
	elapsed  time.Duration
	duration time.Duration
}

func NewMachine(initial Phase, table map[Phase]PhaseDef) *Machine {
	m := &Machine{table: table}
	m.enter(initial)
	return m
}

func (m *Machine) Current() Phase {
	return m.current
}

// TimeIn reports how long the machine has been in the current phase.
func (m *Machine) TimeIn() time.Duration {
	return m.elapsed
}

// Set performs an event-driven transition, running OnExit and OnEnter and
// resetting the accumulator.
func (m *Machine) Set(next Phase) {
	if def, ok := m.table[m.current]; ok && def.OnExit != nil {
		def.OnExit()
	}
	m.enter(next)
}

// Resume re-enters a phase with a pre-existing accumulator value, used to
// pick a timed phase back up after a transient overlay.
func (m *Machine) Resume(next Phase, elapsed time.Duration) {
	m.Set(next)
	if elapsed > 0 && elapsed < m.duration {
		m.elapsed = elapsed
	}
}

func (m *Machine) enter(next Phase) {
	m.current = next
	m.elapsed = 0
	def := m.table[next]
	m.duration = def.Duration
	if def.DurationFn != nil {
		m.duration = def.DurationFn()
	}
	if def.OnEnter != nil {
		def.OnEnter()
	}
}

// Advance accumulates dt and follows expiry transitions. Indefinite phases
// absorb all remaining time.
func (m *Machine) Advance(dt time.Duration) {
	for dt > 0 {
		if m.duration <= 0 {
			m.elapsed += dt
			return
		}
		remaining := m.duration - m.elapsed
		if dt < remaining {
			m.elapsed += dt
			return
		}
		dt -= remaining
		next := m.table[m.current].Next
		if def, ok := m.table[m.current]; ok && def.OnExit != nil {
			def.OnExit()
		}
		m.enter(next)
	}
}
