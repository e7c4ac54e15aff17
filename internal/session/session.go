// Package session holds the cross-component run context: the current game
// and world identifiers, the local participant slot, and the per-run stats.
// Components borrow read/write access through this object at construction;
// nothing here is ambient or global.
package session

import "time"

const (
	// BaseTimeLimit is the unupgraded session countdown.
	BaseTimeLimit = 20 * time.Second

	// TimeExtensionStep is the countdown gained per upgrade level.
	TimeExtensionStep = 10 * time.Second
)

// Stats are the per-run counters shown on the HUD and reset on restart.
type Stats struct {
	CoinsCollected int
	CropsHarvested int
	MolesKilled    int
}

// Session is owned by the app and mutated only from the frame-loop context.
type Session struct {
	gameID        string
	worldID       string
	participant   int
	playerAddress string

	extensionLevel int
	stats          Stats
}

func New(gameID, worldID string, participant int, playerAddress string) *Session {
	return &Session{
		gameID:        gameID,
		worldID:       worldID,
		participant:   participant,
		playerAddress: playerAddress,
	}
}

func (s *Session) GameID() string { return s.gameID }
func (s *Session) WorldID() string { return s.worldID }
func (s *Session) Participant() int { return s.participant }
func (s *Session) PlayerAddress() string { return s.playerAddress }

// TimeLimit derives the countdown from the base limit and the upgrade level
// last read from the mirror.
func (s *Session) TimeLimit() time.Duration {
	return BaseTimeLimit + time.Duration(s.extensionLevel)*TimeExtensionStep
}

func (s *Session) TimeExtensionLevel() int {
	return s.extensionLevel
}

func (s *Session) SetTimeExtensionLevel(level int) {
	if level < 0 {
		level = 0
	}
	s.extensionLevel = level
}

func (s *Session) Stats() Stats {
	return s.stats
}

func (s *Session) AddCoins(n int) {
	s.stats.CoinsCollected += n
}

func (s *Session) AddCrops(n int) {
	s.stats.CropsHarvested += n
}

func (s *Session) AddMoleKill() {
	s.stats.MolesKilled++
}

// ResetStats clears the per-run counters on restart. The upgrade level is
// account-scoped and survives.
func (s *Session) ResetStats() {
	s.stats = Stats{}
}
