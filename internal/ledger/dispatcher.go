package ledger

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"harvest-heist/client/internal/telemetry"
	"harvest-heist/client/logging"
)

// Direction encodes the cardinal move variant index. The numeric values are
// part of the wire contract and must not change.
type Direction int

const (
	DirLeft  Direction = 0
	DirRight Direction = 1
	DirUp    Direction = 2
	DirDown  Direction = 3
)

// AssetID maps an item kind to its on-chain asset id.
func AssetID(item string) int {
	switch {
	case item == "coin":
		return 1
	case strings.HasPrefix(item, "crop"):
		n, err := strconv.Atoi(strings.TrimPrefix(item, "crop"))
		if err != nil {
			return 4
		}
		switch {
		case n >= 1 && n <= 6:
			return 2
		case n >= 7 && n <= 12:
			return 3
		default:
			return 4
		}
	default:
		return 4
	}
}

// Dispatcher maps game actions onto ledger calls. Every method submits from
// its own goroutine and never blocks the frame loop; failures are logged
// and published, never retried, and no local state is rolled back.
type Dispatcher struct {
	account     Account
	actionsAddr string
	gameAddr    string
	vrfAddr     string
	logger      telemetry.Logger
	metrics     telemetry.Metrics
	publisher   logging.Publisher
	wg          sync.WaitGroup
}

type DispatcherConfig struct {
	Account   Account
	Manifest  Manifest
	VRFAddr   string
	Logger    telemetry.Logger
	Metrics   telemetry.Metrics
	Publisher logging.Publisher
}

func NewDispatcher(cfg DispatcherConfig) (*Dispatcher, error) {
	actions, ok := cfg.Manifest.Address(TagActions)
	if !ok {
		return nil, errMissingContract(TagActions)
	}
	game, ok := cfg.Manifest.Address(TagGameSystem)
	if !ok {
		return nil, errMissingContract(TagGameSystem)
	}
	vrf := cfg.VRFAddr
	if vrf == "" {
		vrf = VRFProviderAddress
	}
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.NopLogger()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = telemetry.NopMetrics()
	}
	publisher := cfg.Publisher
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	return &Dispatcher{
		account:     cfg.Account,
		actionsAddr: actions,
		gameAddr:    game,
		vrfAddr:     vrf,
		logger:      logger,
		metrics:     metrics,
		publisher:   publisher,
	}, nil
}

// Spawn places the local player on chain.
func (d *Dispatcher) Spawn() {
	d.dispatch("spawn", []Call{{
		ContractAddress: d.actionsAddr,
		Entrypoint:      "spawn",
		Calldata:        []string{},
	}})
}

// Move submits a cardinal step using the fixed variant index.
func (d *Dispatcher) Move(dir Direction) {
	d.dispatch("move", []Call{{
		ContractAddress: d.actionsAddr,
		Entrypoint:      "move",
		Calldata:        []string{strconv.Itoa(int(dir))},
	}})
}

// MoveRandom submits the oracle sandwich: the randomness request, then the
// consuming move, as one submission. The oracle's consumption contract
// requires this exact ordering; never reorder or split it.
func (d *Dispatcher) MoveRandom() {
	d.dispatch("move_random", []Call{
		{
			ContractAddress: d.vrfAddr,
			Entrypoint:      "request_random",
			Calldata:        []string{d.actionsAddr, "0", d.account.Address()},
		},
		{
			ContractAddress: d.actionsAddr,
			Entrypoint:      "move_random",
			Calldata:        []string{},
		},
	})
}

func (d *Dispatcher) CreateWorld(worldID string) {
	d.gameCall("create_world", worldID)
}

func (d *Dispatcher) CreateGame(worldID string) {
	d.gameCall("create_game", worldID)
}

func (d *Dispatcher) JoinGame(gameID string) {
	d.gameCall("join_game", gameID)
}

func (d *Dispatcher) StartGame(gameID string) {
	d.gameCall("start_game", gameID)
}

func (d *Dispatcher) EndGame(gameID string) {
	d.gameCall("end_game", gameID)
}

func (d *Dispatcher) EnterSafeArea(gameID string) {
	d.gameCall("enter_safe_area", gameID)
}

func (d *Dispatcher) CollectAsset(gameID string, assetID int) {
	d.gameCall("collect_asset", gameID, strconv.Itoa(assetID))
}

// MovePlayer broadcasts the local position, rounded to whole pixels.
func (d *Dispatcher) MovePlayer(gameID string, x, y float64) {
	d.gameCall("move_player", gameID,
		strconv.Itoa(int(x+0.5)),
		strconv.Itoa(int(y+0.5)),
	)
}

// Hit reports damage dealt to a participant slot.
func (d *Dispatcher) Hit(gameID string, participant, amount int) {
	d.gameCall("hit", gameID, strconv.Itoa(participant), strconv.Itoa(amount))
}

func (d *Dispatcher) gameCall(entrypoint string, calldata ...string) {
	d.dispatch(entrypoint, []Call{{
		ContractAddress: d.gameAddr,
		Entrypoint:      entrypoint,
		Calldata:        calldata,
	}})
}

func (d *Dispatcher) dispatch(action string, calls []Call) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		tx, err := d.account.Execute(context.Background(), calls)
		if err != nil {
			d.metrics.Add(telemetry.MetricLedgerRejected, 1)
			d.logger.Printf("ledger %s rejected: %v", action, err)
			d.publisher.Publish(context.Background(), logging.Event{
				Type:     logging.EventLedgerRejected,
				Severity: logging.SeverityWarn,
				Payload:  map[string]any{"action": action, "error": err.Error()},
			})
			return
		}
		d.metrics.Add(telemetry.MetricLedgerDispatched, 1)
		d.publisher.Publish(context.Background(), logging.Event{
			Type:     logging.EventLedgerDispatched,
			Severity: logging.SeverityDebug,
			Payload:  map[string]any{"action": action, "tx": tx},
		})
	}()
}

// Wait blocks until in-flight dispatches finish, used in teardown and tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

type errMissingContract string

func (e errMissingContract) Error() string {
	return "manifest is missing contract tag " + string(e)
}
