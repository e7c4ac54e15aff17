package scene

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"harvest-heist/client/internal/entity"
	"harvest-heist/client/internal/event"
	"harvest-heist/client/internal/geom"
	"harvest-heist/client/internal/inventory"
	"harvest-heist/client/internal/ledger"
	"harvest-heist/client/internal/session"
	"harvest-heist/client/internal/sim"
)

type recordingAccount struct {
	mu          sync.Mutex
	submissions [][]ledger.Call
}

func (a *recordingAccount) Execute(_ context.Context, calls []ledger.Call) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.submissions = append(a.submissions, calls)
	return "0xtx", nil
}

func (a *recordingAccount) Address() string { return "0xcaller" }

func (a *recordingAccount) entrypoints() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	var names []string
	for _, calls := range a.submissions {
		for _, c := range calls {
			names = append(names, c.Entrypoint)
		}
	}
	return names
}

func (a *recordingAccount) count(entrypoint string) int {
	n := 0
	for _, name := range a.entrypoints() {
		if name == entrypoint {
			n++
		}
	}
	return n
}

type staticRemote struct {
	pos   geom.Vec2
	ok    bool
	level int
}

func (r *staticRemote) RemotePosition(string, int) (geom.Vec2, bool) { return r.pos, r.ok }
func (r *staticRemote) TimeExtensionLevel(string) int { return r.level }

type testRig struct {
	scene   *Scene
	account *recordingAccount
	ledger  *ledger.Dispatcher
	inv     *inventory.Inventory
	sess    *session.Session
	remote  *staticRemote
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()
	account := &recordingAccount{}
	manifest, err := ledger.ParseManifest([]byte(`{
		"contracts": [
			{"tag": "di-actions", "address": "0xaaa1"},
			{"tag": "di-game_system", "address": "0xbbb2"}
		]
	}`))
	if err != nil {
		t.Fatalf("manifest: %v", err)
	}
	led, err := ledger.NewDispatcher(ledger.DispatcherConfig{Account: account, Manifest: manifest})
	if err != nil {
		t.Fatalf("dispatcher: %v", err)
	}
	sess := session.New("42", "1", 0, "0xcaller")
	inv := inventory.New(inventory.NewMemoryStore(), nil)
	remote := &staticRemote{}
	s := New(Config{
		Session:    sess,
		Inventory:  inv,
		Ledger:     led,
		Dispatcher: event.NewDispatcher(inv, led, sess, nil, nil, nil),
		Remote:     remote,
		Rand:       rand.New(rand.NewSource(7)),
	})
	// Clear the randomly placed pickups so proximity tests control layout.
	s.coins = nil
	s.crops = nil
	return &testRig{scene: s, account: account, ledger: led, inv: inv, sess: sess, remote: remote}
}

func step(s *Scene, d time.Duration) {
	frame := 16 * time.Millisecond
	var tick uint64
	for elapsed := time.Duration(0); elapsed < d; elapsed += frame {
		s.Step(tick, frame)
		tick++
	}
}

func TestDoorTriggerDebounce(t *testing.T) {
	rig := newTestRig(t)
	s := rig.scene

	s.player.SetPosition(doorCenter)
	s.Step(0, 16*time.Millisecond)
	rig.ledger.Wait()
	if got := rig.account.count("enter_safe_area"); got != 1 {
		t.Fatalf("expected one zone trigger, got %d", got)
	}

	// Staying inside within the cooldown never re-fires.
	step(s, 1500*time.Millisecond)
	rig.ledger.Wait()
	if got := rig.account.count("enter_safe_area"); got != 1 {
		t.Fatalf("trigger re-fired while inside: %d", got)
	}

	// Leaving and re-entering before the cooldown elapses does not fire.
	s.player.SetPosition(geom.Vec2{X: 100, Y: 300})
	s.Step(0, 16*time.Millisecond)
	s.player.SetPosition(doorCenter)
	s.Step(0, 16*time.Millisecond)
	rig.ledger.Wait()
	if got := rig.account.count("enter_safe_area"); got != 1 {
		t.Fatalf("trigger fired inside the cooldown: %d", got)
	}

	// Leaving and re-entering after the cooldown fires again.
	s.player.SetPosition(geom.Vec2{X: 100, Y: 300})
	step(s, 2100*time.Millisecond)
	s.player.SetPosition(doorCenter)
	s.Step(0, 16*time.Millisecond)
	rig.ledger.Wait()
	if got := rig.account.count("enter_safe_area"); got != 2 {
		t.Fatalf("expected a second trigger after cooldown, got %d", got)
	}
}

func TestCoinPickupMutatesInventoryAndDispatches(t *testing.T) {
	rig := newTestRig(t)
	s := rig.scene

	coin := entity.NewCoin(s.player.Position().Add(geom.Vec2{X: 10}))
	coin.Advance(entity.CoinGrace)
	s.coins = append(s.coins, coin)

	s.Step(0, 16*time.Millisecond)
	rig.ledger.Wait()

	if got := rig.inv.Count(inventory.ItemCoin); got != 1 {
		t.Fatalf("inventory coins = %d, want 1", got)
	}
	if len(s.coins) != 0 {
		t.Fatalf("coin entity not removed: %d left", len(s.coins))
	}
	if got := rig.account.count("collect_asset"); got != 1 {
		t.Fatalf("collect_asset dispatches = %d, want 1", got)
	}
	if got := rig.sess.Stats().CoinsCollected; got != 1 {
		t.Fatalf("session coin stat = %d, want 1", got)
	}
}

func TestCoinPickupRespectsGrace(t *testing.T) {
	rig := newTestRig(t)
	s := rig.scene

	s.coins = append(s.coins, entity.NewCoin(s.player.Position().Add(geom.Vec2{X: 5})))
	s.Step(0, 16*time.Millisecond)
	if got := rig.inv.Count(inventory.ItemCoin); got != 0 {
		t.Fatalf("coin collected inside its grace period: %d", got)
	}
	if len(s.coins) != 1 {
		t.Fatal("coin removed inside its grace period")
	}
}

func TestSickleHarvestCollectsNearbyCrops(t *testing.T) {
	rig := newTestRig(t)
	s := rig.scene

	point := s.player.AttackPoint()
	s.crops = append(s.crops,
		entity.NewCrop(point.Add(geom.Vec2{X: 5}), "crop3"),
		entity.NewCrop(point.Add(geom.Vec2{X: 200}), "crop9"),
	)

	if !s.player.StartSickleAttack() {
		t.Fatal("sickle attack refused")
	}
	step(s, 200*time.Millisecond)
	rig.ledger.Wait()

	if got := rig.inv.Count("crop3"); got != 1 {
		t.Fatalf("crop3 count = %d, want 1", got)
	}
	if got := rig.inv.Count("crop9"); got != 0 {
		t.Fatalf("distant crop harvested: %d", got)
	}
	if len(s.crops) != 1 {
		t.Fatalf("expected 1 crop left, got %d", len(s.crops))
	}
	if got := rig.sess.Stats().CropsHarvested; got != 1 {
		t.Fatalf("session crop stat = %d, want 1", got)
	}
}

func TestProjectileHitDamagesPlayerAndReports(t *testing.T) {
	rig := newTestRig(t)
	s := rig.scene

	// A projectile inbound from just outside the hit radius.
	s.projectiles = append(s.projectiles,
		entity.NewEnemyProjectile(s.player.Position().Add(geom.Vec2{X: 60}), s.player.Position()))

	step(s, 500*time.Millisecond)
	rig.ledger.Wait()

	if got := s.player.Health(); got != entity.PlayerMaxHealth-entity.EnemyProjectileDamage {
		t.Fatalf("player health = %d, want %d", got, entity.PlayerMaxHealth-entity.EnemyProjectileDamage)
	}
	if got := rig.account.count("hit"); got != 1 {
		t.Fatalf("hit dispatches = %d, want 1", got)
	}
	if len(s.projectiles) != 0 {
		t.Fatal("projectile survived its hit")
	}
}

func TestArrowHitKillsMoleAfterThreeHits(t *testing.T) {
	rig := newTestRig(t)
	s := rig.scene

	mole := entity.NewMole(geom.Vec2{X: 500, Y: 160}, rand.New(rand.NewSource(3)))
	s.moles = append(s.moles, mole)

	for i := 0; i < entity.MoleMaxHealth; i++ {
		s.arrows = append(s.arrows, entity.NewArrow(mole.Position().Add(geom.Vec2{X: -5}), geom.Vec2{X: 1}))
		s.Step(uint64(i), 16*time.Millisecond)
	}
	if !mole.IsDead() {
		t.Fatalf("mole alive after %d hits, health %d", entity.MoleMaxHealth, mole.Health())
	}
	if got := rig.sess.Stats().MolesKilled; got != 1 {
		t.Fatalf("mole kill stat = %d, want 1", got)
	}

	// Terminal invariant: a dead mole is excluded from further arrow hits.
	arrow := entity.NewArrow(mole.Position().Add(geom.Vec2{X: -5}), geom.Vec2{X: 1})
	s.arrows = append(s.arrows, arrow)
	s.Step(99, 16*time.Millisecond)
	if arrow.Done() && len(s.moles) > 0 {
		t.Fatal("arrow connected with a dead mole")
	}
}

func TestMoleSpawnCadenceAndCap(t *testing.T) {
	rig := newTestRig(t)
	s := rig.scene

	step(s, 3100*time.Millisecond)
	if len(s.moles) != 1 {
		t.Fatalf("expected 1 mole after one interval, got %d", len(s.moles))
	}
	step(s, 10*time.Second)
	live := 0
	for _, m := range s.moles {
		if !m.IsDead() {
			live++
		}
	}
	if live > moleCap {
		t.Fatalf("live moles %d exceed cap %d", live, moleCap)
	}
}

func TestTimerExpiryKillsPlayer(t *testing.T) {
	rig := newTestRig(t)
	s := rig.scene

	step(s, 21*time.Second)
	if !s.player.IsDead() {
		t.Fatalf("player alive after timer expiry, health %d", s.player.Health())
	}
}

func TestRestartResetsRun(t *testing.T) {
	rig := newTestRig(t)
	s := rig.scene

	rig.inv.AddItem(inventory.ItemCoin, 3)
	rig.sess.AddCoins(3)
	oldID := s.player.ID()
	step(s, 21*time.Second)
	if !s.player.IsDead() {
		t.Fatal("player should be dead before restart")
	}

	s.Inputs().Push(sim.Input{Kind: sim.InputRestart})
	s.Step(0, 16*time.Millisecond)

	if s.player.IsDead() {
		t.Fatal("restart did not recreate the player")
	}
	if s.player.ID() == oldID {
		t.Fatal("restart reused the old player entity")
	}
	if got := rig.inv.Count(inventory.ItemCoin); got != 0 {
		t.Fatalf("inventory not cleared on restart: %d coins", got)
	}
	if rig.sess.Stats() != (session.Stats{}) {
		t.Fatalf("stats not reset: %+v", rig.sess.Stats())
	}
	if s.timer.Expired() {
		t.Fatal("timer not reset")
	}
	if len(s.crops) != initialCrops {
		t.Fatalf("crops not respawned: %d", len(s.crops))
	}
}

func TestRestartIgnoredWhileAlive(t *testing.T) {
	rig := newTestRig(t)
	s := rig.scene
	oldID := s.player.ID()

	s.Inputs().Push(sim.Input{Kind: sim.InputRestart})
	s.Step(0, 16*time.Millisecond)
	if s.player.ID() != oldID {
		t.Fatal("restart fired while the player was alive")
	}
}

func TestUpgradeLevelExtendsNextRun(t *testing.T) {
	rig := newTestRig(t)
	s := rig.scene
	rig.remote.level = 1

	s.Step(0, 16*time.Millisecond)
	if got := rig.sess.TimeExtensionLevel(); got != 1 {
		t.Fatalf("extension level = %d, want 1", got)
	}

	// The running countdown keeps its original limit; the extension takes
	// effect when the timer is next reset.
	step(s, 21*time.Second)
	if !s.player.IsDead() {
		t.Fatal("player should die at the original limit")
	}
	s.Inputs().Push(sim.Input{Kind: sim.InputRestart})
	s.Step(0, 16*time.Millisecond)

	step(s, 25*time.Second)
	if s.player.IsDead() {
		t.Fatal("player died before the extended limit")
	}
	step(s, 6*time.Second)
	if !s.player.IsDead() {
		t.Fatal("player should die at the extended limit")
	}
}

func TestPlayerClampedToMapBounds(t *testing.T) {
	rig := newTestRig(t)
	s := rig.scene

	s.player.SetPosition(geom.Vec2{X: -50, Y: 900})
	s.Step(0, 16*time.Millisecond)
	pos := s.player.Position()
	if pos.X != entity.PlayerHalfSize || pos.Y != MapHeight-entity.PlayerHalfSize {
		t.Fatalf("player not clamped: %v", pos)
	}
}
