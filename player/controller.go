package player

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/platforming/collision"
	"github.com/milk9111/platforming/config"
)

// Controller is the per-tick frame orchestrator. It owns the body and runs
// the components in the fixed dependency order every tick: sensors, ability
// read, movement, jump, combat, resolver. Single-threaded; one Tick per
// physics step.
type Controller struct {
	cfg       config.Tuning
	abilities Abilities

	body     Body
	ground   *GroundSensor
	walls    *WallSensor
	movement *Movement
	jump     *Jump
	combat   *Combat
	resolver *Resolver

	tick         int64
	dashDebounce int
	groundState  GroundState
	wallState    WallState
	snap         Snapshot
}

// New builds a controller at the given spawn point. The tuning is validated
// up front; a bad config is a startup error, never a runtime crash.
func New(cfg config.Tuning, space *collision.Space, spawn cp.Vector) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("player: %w", err)
	}
	c := &Controller{
		cfg: cfg,
		body: Body{
			Pos:          spawn,
			Facing:       FacingRight,
			GravityScale: 1,
			Width:        cfg.BodyWidth,
			Height:       cfg.BodyHeight,
		},
	}
	c.ground = NewGroundSensor(&c.cfg, space)
	c.walls = NewWallSensor(&c.cfg, space)
	c.movement = NewMovement(&c.cfg, c.walls)
	c.jump = NewJump(&c.cfg)
	c.combat = NewCombat(&c.cfg)
	c.resolver = NewResolver(&c.cfg)
	return c, nil
}

// Body exposes the physical actor for the host to read and render.
func (c *Controller) Body() *Body { return &c.body }

// Snapshot returns the presentation state published by the last tick.
func (c *Controller) Snapshot() Snapshot { return c.snap }

// Abilities returns the current gate.
func (c *Controller) Abilities() Abilities { return c.abilities }

// SetAbilities swaps the ability gate. Safe between any two ticks; gates are
// re-read fresh every tick.
func (c *Controller) SetAbilities(ab Abilities) { c.abilities = ab }

// SetPlatformDelta hands the controller the frame translation of a tracked
// moving platform under the character.
func (c *Controller) SetPlatformDelta(delta cp.Vector) {
	c.movement.SetPlatformDelta(delta)
}

// Combat exposes the attack state machine, mainly for the host to deliver
// end-of-animation notifications.
func (c *Controller) Combat() *Combat { return c.combat }

// GroundState returns the ground sensing from the last tick.
func (c *Controller) GroundState() GroundState { return c.groundState }

// WallState returns the wall sensing from the last tick.
func (c *Controller) WallState() WallState { return c.wallState }

// Tick advances the controller one fixed step.
func (c *Controller) Tick(in Input) {
	c.tick++
	ab := c.abilities
	dt := c.cfg.Dt()

	// Duplicate dash presses inside the debounce window are dropped.
	if c.dashDebounce > 0 {
		c.dashDebounce--
		in.DashPressed = false
	}

	// Gravity scale resets each tick; stick and the unclamped jump hold
	// re-apply their overrides below.
	c.body.GravityScale = 1

	// Sensing phase.
	ground := c.ground.Sense(&c.body, in)
	wall := c.walls.Sense(&c.body, in, ground)

	if ground.JustLanded {
		c.movement.OnLanding()
		c.jump.OnLanding()
		c.combat.OnLanding()
	}

	// Movement phase.
	if in.DashPressed {
		c.dashDebounce = c.cfg.Ticks(c.cfg.DashDebounce)
		c.movement.HandleDash(&c.body, ground, ab, c.resolver, c.jump.RecentWallJump(c.tick), c.tick)
	}
	c.movement.Update(&c.body, in, ground, wall, ab, c.combat, c.jump, c.resolver, c.tick)
	if c.movement.ConsumeDashEnded() {
		c.combat.OnDashEnd(ground, ab)
	}

	// Jump phase.
	c.jump.Update(&c.body, in, ground, wall, ab, c.ground, c.walls, c.movement, c.combat, c.resolver, c.tick)
	if c.jump.ConsumeDoubleJumped() {
		c.combat.OnDoubleJump()
	}

	// Combat phase.
	if in.AttackPressed {
		c.combat.HandleAttackInput(ground, ab, c.movement, c.tick)
	}
	c.combat.Update(ground, ab, c.movement, c.tick)

	// Resolution. The stick-enter edge zeroes residual upward velocity the
	// same tick, so a high-speed dash jump can't overshoot the stick point.
	snap, stickEntered := c.resolver.Resolve(&c.body, in, ground, wall, ab, c.movement, c.combat)
	if stickEntered {
		c.body.Vel = cp.Vector{}
		c.body.GravityScale = 0
		snap = c.refreshSnapshot()
	}

	// Integration. The host engine owns real physics; this is the minimal
	// deterministic step the core and its tests run on: gravity while
	// airborne, ground support while standing (slope descent excepted so
	// reprojected velocity survives).
	if ground.Grounded {
		if c.body.Vel.Y > 0 && !(ground.OnSlope && in.MoveX != 0) {
			c.body.Vel.Y = 0
		}
	} else if !c.movement.Dashing() && !snap.WallSticking {
		c.body.Vel.Y += c.cfg.Gravity * c.body.GravityScale * dt
	}
	c.body.Pos = c.body.Pos.Add(c.body.Vel.Mult(dt))

	c.groundState = ground
	c.wallState = wall
	c.snap = snap
}

// refreshSnapshot re-reads velocity-dependent fields after a same-tick side
// effect mutated the body.
func (c *Controller) refreshSnapshot() Snapshot {
	snap := c.resolver.Snapshot()
	snap.VelX = c.body.Vel.X
	snap.VelY = c.body.Vel.Y
	snap.Jumping = false
	snap.Falling = false
	c.resolver.snap = snap
	return snap
}
