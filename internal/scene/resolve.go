package scene

import (
	"time"

	"harvest-heist/client/internal/entity"
	"harvest-heist/client/internal/event"
	"harvest-heist/client/internal/geom"
	"harvest-heist/client/internal/inventory"
)

const (
	pickupRadius  = 20.0
	harvestRadius = 24.0
	hitRadius     = 16.0

	doorDebounce   = 2 * time.Second
	doorNearRadius = 100.0

	moleSpawnInterval = 3 * time.Second
	moleCap           = 3
)

// Door trigger placement, derived from the tile map.
var (
	doorCenter = geom.Vec2{X: 26.5*TileSize - 8.6667, Y: 2.5 * TileSize}
	doorZone   = geom.RectAround(doorCenter, TileSize, TileSize, TileSize)
)

// resolve runs the frame's proximity checks in a fixed order. An entity
// killed by an earlier check is still visited by later checks in the same
// pass; its own isDead guards make further damage a no-op.
func (s *Scene) resolve(dt time.Duration) {
	s.clampPlayer()
	s.resolveDoor(dt)
	s.resolveCoinPickup()
	s.resolveMoleSpawns(dt)
	s.resolveArrowHits()
	s.resolveProjectileHits()
	s.compact()
}

func (s *Scene) clampPlayer() {
	pos := s.player.Position()
	clamped := geom.Vec2{
		X: geom.Clamp(pos.X, entity.PlayerHalfSize, MapWidth-entity.PlayerHalfSize),
		Y: geom.Clamp(pos.Y, entity.PlayerHalfSize, MapHeight-entity.PlayerHalfSize),
	}
	if clamped != pos {
		s.player.SetPosition(clamped)
	}
}

func (s *Scene) inDoorZone(pos geom.Vec2) bool {
	return doorZone.Contains(pos) || pos.Distance(doorCenter) < doorNearRadius
}

// resolveDoor fires the zone trigger at most once per debounce window while
// the player stays inside; leaving the zone re-arms it.
func (s *Scene) resolveDoor(dt time.Duration) {
	s.doorSinceFire += dt
	pos := s.player.Position()
	if !s.inDoorZone(pos) {
		s.doorArmed = true
		return
	}
	if s.player.IsDead() || !s.doorArmed || s.doorSinceFire < doorDebounce {
		return
	}
	s.doorArmed = false
	s.doorSinceFire = 0
	s.queue.Emit(event.ZoneEntered{Pos: pos})
}

func (s *Scene) resolveCoinPickup() {
	if s.player.IsDead() {
		return
	}
	pos := s.player.Position()
	for _, c := range s.coins {
		if !c.Collectible() {
			continue
		}
		if pos.Distance(c.Position()) < pickupRadius {
			s.collectedCoins = append(s.collectedCoins, c.ID())
			s.queue.Emit(event.ItemCollected{Item: inventory.ItemCoin, Qty: 1})
		}
	}
}

// resolveHarvest collects every crop within the harvest radius of the
// sickle's attack point.
func (s *Scene) resolveHarvest(point geom.Vec2) {
	for _, c := range s.crops {
		if point.Distance(c.Position()) < harvestRadius {
			s.harvestedCrops = append(s.harvestedCrops, c.ID())
			s.queue.Emit(event.ItemCollected{Item: c.Item(), Qty: 1})
		}
	}
}

func (s *Scene) resolveMoleSpawns(dt time.Duration) {
	s.moleSpawnClock += dt
	if s.moleSpawnClock < moleSpawnInterval {
		return
	}
	s.moleSpawnClock = 0
	live := 0
	for _, m := range s.moles {
		if !m.IsDead() {
			live++
		}
	}
	if live >= moleCap {
		return
	}
	s.moles = append(s.moles, entity.NewMole(s.randomPoint(), s.rng))
}

// resolveArrowHits tests every live arrow against every non-dead mole. All
// simultaneous hits apply; there is no single-hit-per-frame cap.
func (s *Scene) resolveArrowHits() {
	for _, a := range s.arrows {
		if a.Done() {
			continue
		}
		for _, m := range s.moles {
			if m.IsDead() {
				continue
			}
			if a.Position().Distance(m.Position()) < hitRadius {
				m.TakeDamage(a.Damage(), s.queue)
				a.Destroy()
				break
			}
		}
	}
}

func (s *Scene) resolveProjectileHits() {
	playerPos := s.player.Position()
	for _, p := range s.projectiles {
		if p.Done() {
			continue
		}
		if playerPos.Distance(p.Position()) < hitRadius {
			p.Destroy()
			s.ledger.Hit(s.session.GameID(), s.session.Participant(), p.Damage())
			s.player.TakeDamage(p.Damage(), s.queue)
		}
	}
}

// compact removes entities no longer attached to the scene from every
// tracked collection.
func (s *Scene) compact() {
	if len(s.collectedCoins) > 0 {
		taken := make(map[entity.ID]bool, len(s.collectedCoins))
		for _, id := range s.collectedCoins {
			taken[id] = true
		}
		kept := s.coins[:0]
		for _, c := range s.coins {
			if !taken[c.ID()] {
				kept = append(kept, c)
			}
		}
		s.coins = kept
		s.collectedCoins = s.collectedCoins[:0]
	}
	if len(s.harvestedCrops) > 0 {
		taken := make(map[entity.ID]bool, len(s.harvestedCrops))
		for _, id := range s.harvestedCrops {
			taken[id] = true
		}
		kept := s.crops[:0]
		for _, c := range s.crops {
			if !taken[c.ID()] {
				kept = append(kept, c)
			}
		}
		s.crops = kept
		s.harvestedCrops = s.harvestedCrops[:0]
	}

	moles := s.moles[:0]
	for _, m := range s.moles {
		if !m.Expired() {
			moles = append(moles, m)
		}
	}
	s.moles = moles

	projectiles := s.projectiles[:0]
	for _, p := range s.projectiles {
		if !p.Done() {
			projectiles = append(projectiles, p)
		}
	}
	s.projectiles = projectiles

	arrows := s.arrows[:0]
	for _, a := range s.arrows {
		if !a.Done() {
			arrows = append(arrows, a)
		}
	}
	s.arrows = arrows
}
