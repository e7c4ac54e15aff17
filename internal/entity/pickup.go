package entity

import (
	"time"

	"harvest-heist/client/internal/geom"
)

// CoinGrace prevents a just-spawned coin (including one the player dropped)
// from being vacuumed back up in the same instant.
const CoinGrace = 500 * time.Millisecond

type Coin struct {
	id  ID
	pos geom.Vec2
	age time.Duration
}

func NewCoin(pos geom.Vec2) *Coin {
	return &Coin{id: NewID(), pos: pos}
}

func (c *Coin) ID() ID { return c.id }
func (c *Coin) Position() geom.Vec2 { return c.pos }

func (c *Coin) Advance(dt time.Duration) {
	c.age += dt
}

// Collectible reports whether the post-spawn grace period has elapsed.
func (c *Coin) Collectible() bool {
	return c.age >= CoinGrace
}

// Crop is a stationary harvestable. Item names the inventory kind
// (crop1..crop18).
type Crop struct {
	id   ID
	pos  geom.Vec2
	item string
}

func NewCrop(pos geom.Vec2, item string) *Crop {
	return &Crop{id: NewID(), pos: pos, item: item}
}

func (c *Crop) ID() ID { return c.id }
func (c *Crop) Position() geom.Vec2 { return c.pos }
func (c *Crop) Item() string { return c.item }
