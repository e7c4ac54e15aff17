package sim

import "testing"

func TestInputBufferDrainPreservesOrder(t *testing.T) {
	buf := NewInputBuffer()
	buf.Push(Input{Kind: InputMove, DirX: 1})
	buf.Push(Input{Kind: InputAttack})
	buf.Push(Input{Kind: InputStop})

	drained := buf.Drain()
	if len(drained) != 3 {
		t.Fatalf("expected 3 inputs, got %d", len(drained))
	}
	if drained[0].Kind != InputMove || drained[1].Kind != InputAttack || drained[2].Kind != InputStop {
		t.Fatalf("unexpected order: %v", drained)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected empty buffer after drain, got %d", buf.Len())
	}
}

func TestInputBufferIgnoresEmptyKind(t *testing.T) {
	buf := NewInputBuffer()
	buf.Push(Input{})
	if got := buf.Len(); got != 0 {
		t.Fatalf("expected empty buffer, got %d", got)
	}
}

func TestInputBufferDrainEmptyReturnsNil(t *testing.T) {
	buf := NewInputBuffer()
	if drained := buf.Drain(); drained != nil {
		t.Fatalf("expected nil, got %v", drained)
	}
}
