package mirror

import (
	"context"
	"sync"
	"time"

	"harvest-heist/client/internal/geom"
	"harvest-heist/client/internal/telemetry"
	"harvest-heist/client/logging"
)

const (
	positionsInterval = time.Second
	sessionInterval   = 2 * time.Second
)

// Snapshot is the last-known row set from the mirror. It may be seconds
// stale and momentarily inconsistent with just-submitted transactions;
// readers must treat it as advisory.
type Snapshot struct {
	Positions []PositionRow
	Games     []GameRow
	Worlds    []WorldRow
	Assets    []AssetRow
	Upgrades  []UpgradeRow
	UpdatedAt time.Time
}

// Mirror owns the poll schedule and the last-value cache. The position poll
// runs every second; the slower session poll covers games, worlds, assets,
// and upgrades.
type Mirror struct {
	client    Querier
	logger    telemetry.Logger
	publisher logging.Publisher
	clock     logging.Clock

	positions *Poller
	session   *Poller

	mu       sync.RWMutex
	snapshot Snapshot
}

func New(client Querier, logger telemetry.Logger, metrics telemetry.Metrics, publisher logging.Publisher) *Mirror {
	if logger == nil {
		logger = telemetry.NopLogger()
	}
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	m := &Mirror{
		client:    client,
		logger:    logger,
		publisher: publisher,
		clock:     logging.SystemClock{},
	}
	m.positions = NewPoller("positions", positionsInterval, m.fetchPositions, logger, metrics)
	m.session = NewPoller("session", sessionInterval, m.fetchSession, logger, metrics)
	return m
}

func (m *Mirror) Start(ctx context.Context) {
	m.positions.Start(ctx)
	m.session.Start(ctx)
}

func (m *Mirror) Stop() {
	m.positions.Stop()
	m.session.Stop()
}

// Snapshot returns a copy of the last-known state.
func (m *Mirror) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

func (m *Mirror) fetchPositions(ctx context.Context) error {
	data, err := m.client.Query(ctx, queryPositions, nil)
	if err != nil {
		m.publishFailure("positions", err)
		return err
	}
	rows, err := decodeNodes[PositionRow](data, "diPositionModels")
	if err != nil {
		m.publishFailure("positions", err)
		return err
	}
	if rows == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot.Positions = rows
	m.snapshot.UpdatedAt = m.clock.Now()
	return nil
}

func (m *Mirror) fetchSession(ctx context.Context) error {
	games, err := fetchRows[GameRow](ctx, m.client, queryGames, "diGameModels")
	if err != nil {
		m.publishFailure("games", err)
		return err
	}
	worlds, err := fetchRows[WorldRow](ctx, m.client, queryWorlds, "diWorldModels")
	if err != nil {
		m.publishFailure("worlds", err)
		return err
	}
	assets, err := fetchRows[AssetRow](ctx, m.client, queryAssets, "diCollectedAssetModels")
	if err != nil {
		m.publishFailure("assets", err)
		return err
	}
	upgrades, err := fetchRows[UpgradeRow](ctx, m.client, queryUpgrades, "diUpgradeModels")
	if err != nil {
		m.publishFailure("upgrades", err)
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if games != nil {
		m.snapshot.Games = games
	}
	if worlds != nil {
		m.snapshot.Worlds = worlds
	}
	if assets != nil {
		m.snapshot.Assets = assets
	}
	if upgrades != nil {
		m.snapshot.Upgrades = upgrades
	}
	m.snapshot.UpdatedAt = m.clock.Now()
	return nil
}

func fetchRows[T any](ctx context.Context, client Querier, query, key string) ([]T, error) {
	data, err := client.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}
	return decodeNodes[T](data, key)
}

func (m *Mirror) publishFailure(name string, err error) {
	m.publisher.Publish(context.Background(), logging.Event{
		Type:     logging.EventMirrorPollFailed,
		Severity: logging.SeverityWarn,
		Payload:  map[string]any{"poll": name, "error": err.Error()},
	})
}

// RemotePosition returns the last polled position of the other participant
// in gameID, filtering client-side by game id and excluding the local slot
// and the sentinel.
func (m *Mirror) RemotePosition(gameID string, localParticipant int) (geom.Vec2, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, row := range m.snapshot.Positions {
		if !SameGameID(row.GameID, gameID) {
			continue
		}
		p := row.Player.Int()
		if p == localParticipant || p == SentinelParticipant {
			continue
		}
		return geom.Vec2{X: float64(row.X.Int()), Y: float64(row.Y.Int())}, true
	}
	return geom.Vec2{}, false
}

// AssetCounts aggregates the cached collected-asset rows for gameID.
func (m *Mirror) AssetCounts(gameID string) map[int]map[int]int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return AssetCounts(m.snapshot.Assets, gameID)
}

// TimeExtensionLevel reads the upgrade level for a player address, 0 when
// absent.
func (m *Mirror) TimeExtensionLevel(player string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, row := range m.snapshot.Upgrades {
		if row.Player == player {
			return row.TimeExtensionLevel.Int()
		}
	}
	return 0
}
