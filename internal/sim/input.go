package sim

import "sync"

// InputKind identifies a control signal delivered by the presentation layer.
type InputKind string

const (
	InputMove       InputKind = "move"
	InputStop       InputKind = "stop"
	InputAttack     InputKind = "attack"
	InputHarvest    InputKind = "harvest"
	InputDrop       InputKind = "drop"
	InputMoveRandom InputKind = "move_random"
	InputRestart    InputKind = "restart"
)

// Input is one buffered control signal. Move carries a direction vector,
// Drop carries an inventory slot index.
type Input struct {
	Kind InputKind
	DirX float64
	DirY float64
	Slot int
}

// InputBuffer accumulates inputs between frames. The presentation layer
// pushes from its own goroutines and the frame loop drains once per step.
type InputBuffer struct {
	mu      sync.Mutex
	pending []Input
}

func NewInputBuffer() *InputBuffer {
	return &InputBuffer{pending: make([]Input, 0, 16)}
}

func (b *InputBuffer) Push(in Input) {
	if b == nil || in.Kind == "" {
		return
	}
	b.mu.Lock()
	b.pending = append(b.pending, in)
	b.mu.Unlock()
}

// Drain returns all buffered inputs in arrival order and resets the buffer.
func (b *InputBuffer) Drain() []Input {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.pending) == 0 {
		return nil
	}
	drained := make([]Input, len(b.pending))
	copy(drained, b.pending)
	b.pending = b.pending[:0]
	return drained
}

// Len reports the number of buffered inputs.
func (b *InputBuffer) Len() int {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}
