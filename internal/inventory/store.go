package inventory

import "sync"

// SlotRecord is the persisted form of one occupied slot.
type SlotRecord struct {
	Item string `json:"item"`
	Qty  int    `json:"qty"`
}

// State is the single durable document: the slot array (nil = empty slot)
// plus the active slot index.
type State struct {
	Slots      [NumSlots]*SlotRecord `json:"slots"`
	ActiveSlot int                   `json:"activeSlot"`
}

// Store persists the inventory document. Save runs on every mutation; Load
// runs once at session start.
type Store interface {
	Load() (State, bool, error)
	Save(State) error
	Close() error
}

// MemoryStore keeps the document in memory, for tests and ephemeral runs.
type MemoryStore struct {
	mu     sync.Mutex
	state  State
	loaded bool
	saves  int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Seed preloads a document so Load reports it as present.
func (s *MemoryStore) Seed(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.loaded = true
}

func (s *MemoryStore) Load() (State, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.loaded, nil
}

func (s *MemoryStore) Save(state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.loaded = true
	s.saves++
	return nil
}

// Saves reports how many times Save has run.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func (s *MemoryStore) Close() error {
	return nil
}
