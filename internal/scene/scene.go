// Package scene owns every entity and runs the per-frame cycle: input,
// state-machine advancement, spatial interaction resolution, side-effect
// dispatch, position broadcast, and presentation sync, in that fixed order.
package scene

import (
	"math/rand"
	"time"

	"harvest-heist/client/internal/entity"
	"harvest-heist/client/internal/event"
	"harvest-heist/client/internal/geom"
	"harvest-heist/client/internal/inventory"
	"harvest-heist/client/internal/ledger"
	"harvest-heist/client/internal/session"
	"harvest-heist/client/internal/sim"
	"harvest-heist/client/internal/telemetry"
)

// Map geometry: 40x20 tiles of 16px.
const (
	MapWidth  = 640.0
	MapHeight = 320.0
	TileSize  = 16.0
)

const (
	initialCrops = 15
	initialCoins = 8
)

var playerSpawn = geom.Vec2{X: MapWidth / 2, Y: MapHeight / 2}

// RemoteView is the slice of the mirror the scene reads each frame.
type RemoteView interface {
	RemotePosition(gameID string, localParticipant int) (geom.Vec2, bool)
	TimeExtensionLevel(player string) int
}

type Config struct {
	Session    *session.Session
	Inventory  *inventory.Inventory
	Ledger     *ledger.Dispatcher
	Dispatcher *event.Dispatcher
	Remote     RemoteView
	View       ViewSink
	Logger     telemetry.Logger
	Metrics    telemetry.Metrics
	Rand       *rand.Rand
	Inputs     *sim.InputBuffer
}

type Scene struct {
	session    *session.Session
	inventory  *inventory.Inventory
	ledger     *ledger.Dispatcher
	dispatcher *event.Dispatcher
	remoteView RemoteView
	view       ViewSink
	logger     telemetry.Logger
	metrics    telemetry.Metrics
	rng        *rand.Rand

	inputs *sim.InputBuffer
	queue  *event.Queue

	player      *entity.Player
	remote      *entity.RemotePlayer
	moles       []*entity.Mole
	projectiles []*entity.Projectile
	arrows      []*entity.Projectile
	coins       []*entity.Coin
	crops       []*entity.Crop

	timer *Timer
	cast  *Broadcaster

	collectedCoins []entity.ID
	harvestedCrops []entity.ID

	lastMoveDir    ledger.Direction
	hasMoved       bool
	doorArmed      bool
	doorSinceFire  time.Duration
	moleSpawnClock time.Duration
}

func New(cfg Config) *Scene {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.NopLogger()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = telemetry.NopMetrics()
	}
	view := cfg.View
	if view == nil {
		view = NopViewSink{}
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	inputs := cfg.Inputs
	if inputs == nil {
		inputs = sim.NewInputBuffer()
	}
	s := &Scene{
		session:    cfg.Session,
		inventory:  cfg.Inventory,
		ledger:     cfg.Ledger,
		dispatcher: cfg.Dispatcher,
		remoteView: cfg.Remote,
		view:       view,
		logger:     logger,
		metrics:    metrics,
		rng:        rng,
		inputs:     inputs,
		queue:      event.NewQueue(),
		doorArmed:  true,
	}
	s.timer = NewTimer(cfg.Session.TimeLimit())
	s.cast = NewBroadcaster(func(x, y float64) {
		s.ledger.MovePlayer(s.session.GameID(), x, y)
	}, metrics)
	s.populate()
	return s
}

// Inputs exposes the buffer the presentation layer pushes into.
func (s *Scene) Inputs() *sim.InputBuffer {
	return s.inputs
}

func (s *Scene) Player() *entity.Player {
	return s.player
}

func (s *Scene) Timer() *Timer {
	return s.timer
}

func (s *Scene) populate() {
	s.player = entity.NewPlayer(playerSpawn)
	s.remote = entity.NewRemotePlayer()
	s.moles = nil
	s.projectiles = nil
	s.arrows = nil
	s.coins = nil
	s.crops = nil
	for i := 0; i < initialCrops; i++ {
		kind := inventory.CropItem(1 + s.rng.Intn(inventory.CropCount))
		s.crops = append(s.crops, entity.NewCrop(s.randomPoint(), kind))
	}
	for i := 0; i < initialCoins; i++ {
		s.coins = append(s.coins, entity.NewCoin(s.randomPoint()))
	}
	s.doorArmed = true
	s.doorSinceFire = doorDebounce
	s.moleSpawnClock = 0
	s.hasMoved = false
}

func (s *Scene) randomPoint() geom.Vec2 {
	margin := 2 * TileSize
	return geom.Vec2{
		X: margin + s.rng.Float64()*(MapWidth-2*margin),
		Y: margin + s.rng.Float64()*(MapHeight-2*margin),
	}
}

// Step implements sim.Frame. Within a frame, state-machine advancement
// always precedes interaction resolution, which precedes HUD sync; the
// resolver reads post-advancement positions and the HUD reads
// post-interaction health.
func (s *Scene) Step(tick uint64, dt time.Duration) {
	s.applyInputs()
	s.syncSession()

	playerPos := s.player.Position()
	s.player.Advance(dt, s.queue)
	for _, m := range s.moles {
		m.Advance(dt, playerPos, s.queue)
	}
	for _, p := range s.projectiles {
		p.Advance(dt)
	}
	for _, a := range s.arrows {
		a.Advance(dt)
	}
	for _, c := range s.coins {
		c.Advance(dt)
	}
	s.advanceRemote(dt)
	if !s.player.IsDead() {
		s.timer.Advance(dt, s.queue)
	}

	s.resolve(dt)
	s.drainEvents(tick)

	if !s.player.IsDead() {
		s.cast.Advance(dt, s.player.Position())
	}

	s.metrics.Store(telemetry.MetricEntitiesActive, float64(s.entityCount()))
	s.metrics.Store(telemetry.MetricTimerSeconds, s.timer.Remaining())
	s.view.PushFrame(s.buildFrame(tick))
}

func (s *Scene) entityCount() int {
	return 2 + len(s.moles) + len(s.projectiles) + len(s.arrows) + len(s.coins) + len(s.crops)
}

func (s *Scene) advanceRemote(dt time.Duration) {
	if s.remoteView != nil {
		if pos, ok := s.remoteView.RemotePosition(s.session.GameID(), s.session.Participant()); ok {
			s.remote.SetTarget(pos)
		}
	}
	s.remote.Advance(dt)
}

func (s *Scene) syncSession() {
	if s.remoteView == nil {
		return
	}
	level := s.remoteView.TimeExtensionLevel(s.session.PlayerAddress())
	if level != s.session.TimeExtensionLevel() {
		s.session.SetTimeExtensionLevel(level)
	}
}

func (s *Scene) applyInputs() {
	for _, in := range s.inputs.Drain() {
		switch in.Kind {
		case sim.InputMove:
			dir := geom.Vec2{X: in.DirX, Y: in.DirY}
			s.player.SetMoveInput(dir)
			s.noteMoveDirection(dir)
		case sim.InputStop:
			s.player.SetMoveInput(geom.Vec2{})
		case sim.InputAttack:
			s.player.StartBowAttack()
		case sim.InputHarvest:
			s.player.StartSickleAttack()
		case sim.InputDrop:
			s.dropFromSlot(in.Slot)
		case sim.InputMoveRandom:
			if !s.player.IsDead() {
				s.ledger.MoveRandom()
			}
		case sim.InputRestart:
			if s.player.IsDead() {
				s.restart()
			}
		}
	}
}

// noteMoveDirection mirrors discrete direction changes on chain using the
// fixed variant encoding. Only changes dispatch, never held movement.
func (s *Scene) noteMoveDirection(dir geom.Vec2) {
	if dir.IsZero() || s.player.IsDead() {
		return
	}
	variant := cardinalVariant(dir)
	if s.hasMoved && variant == s.lastMoveDir {
		return
	}
	s.hasMoved = true
	s.lastMoveDir = variant
	s.ledger.Move(variant)
}

func cardinalVariant(dir geom.Vec2) ledger.Direction {
	ax, ay := dir.X, dir.Y
	if ax < 0 {
		ax = -ax
	}
	if ay < 0 {
		ay = -ay
	}
	if ax >= ay {
		if dir.X < 0 {
			return ledger.DirLeft
		}
		return ledger.DirRight
	}
	if dir.Y < 0 {
		return ledger.DirUp
	}
	return ledger.DirDown
}

// dropFromSlot takes one item out of the inventory and spawns it in front
// of the player. Only coins exist as droppable world entities.
func (s *Scene) dropFromSlot(slot int) {
	if s.player.IsDead() {
		return
	}
	item := s.inventory.Slot(slot)
	if item.Empty() || item.Item != inventory.ItemCoin {
		return
	}
	if !s.inventory.RemoveItem(slot, 1) {
		return
	}
	pos := s.player.AttackPoint()
	s.coins = append(s.coins, entity.NewCoin(pos))
	s.queue.Emit(event.ItemDropped{Item: item.Item, Qty: 1, Pos: pos})
}

func (s *Scene) restart() {
	s.inventory.Clear()
	s.session.ResetStats()
	s.timer.Reset(s.session.TimeLimit())
	s.cast.Reset()
	s.populate()
	s.queue.Emit(event.SceneRestarted{})
	s.ledger.Spawn()
}

// drainEvents consumes the frame's events. Spawn-type events are handled
// here because the scene owns the entity lists; everything else goes to the
// dispatcher. Handling may emit follow-up events, so drain until quiet.
func (s *Scene) drainEvents(tick uint64) {
	for pass := 0; pass < 8; pass++ {
		events := s.queue.Drain()
		if len(events) == 0 {
			return
		}
		for _, e := range events {
			switch ev := e.(type) {
			case event.ArrowFired:
				s.arrows = append(s.arrows, entity.NewArrow(ev.Origin, ev.Dir))
			case event.ProjectileFired:
				s.projectiles = append(s.projectiles, entity.NewEnemyProjectile(ev.Origin, ev.Target))
			case event.HarvestSwung:
				s.resolveHarvest(ev.Point)
			case event.TimerExpired:
				s.dispatcher.Handle(tick, ev)
				s.player.TakeDamage(s.player.MaxHealth(), s.queue)
			default:
				s.dispatcher.Handle(tick, e)
			}
		}
	}
	s.logger.Printf("event drain did not settle, %d left", s.queue.Len())
}
