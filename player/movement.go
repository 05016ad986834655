package player

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/platforming/config"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const neverTick = math.MinInt64 / 4

// Movement owns horizontal locomotion, slope alignment, and the dash
// execution/charge economy.
type Movement struct {
	cfg   *config.Tuning
	walls *WallSensor

	dashesRemaining int
	airDashUsed     bool
	cooldownTicks   int

	dashTicksTotal  int
	dashTicks       int
	dashDir         float64
	dashTween       *gween.Tween
	lastDashEndTick int64
	dashEndedEdge   bool

	dashJumpMomentumTicks int

	platformDelta cp.Vector
}

func NewMovement(cfg *config.Tuning, walls *WallSensor) *Movement {
	return &Movement{
		cfg:             cfg,
		walls:           walls,
		dashesRemaining: cfg.MaxDashes,
		lastDashEndTick: neverTick,
	}
}

// SetPlatformDelta records the frame translation of the platform the
// character is standing on. The host supplies it before each tick; it is
// consumed (zeroed) by Update.
func (m *Movement) SetPlatformDelta(delta cp.Vector) {
	m.platformDelta = delta
}

func (m *Movement) Dashing() bool        { return m.dashTicks > 0 }
func (m *Movement) DashesRemaining() int { return m.dashesRemaining }
func (m *Movement) AirDashUsed() bool    { return m.airDashUsed }
func (m *Movement) CooldownTicks() int   { return m.cooldownTicks }

// DashElapsedTicks is how far into the active dash we are, zero when idle.
func (m *Movement) DashElapsedTicks() int {
	if !m.Dashing() {
		return 0
	}
	return m.dashTicksTotal - m.dashTicks
}

// TicksSinceDashEnd is the age of the last completed dash.
func (m *Movement) TicksSinceDashEnd(now int64) int64 {
	return now - m.lastDashEndTick
}

// InDashJumpWindow reports whether a jump request still qualifies as a dash
// jump: mid-dash, or within the short post-dash grace.
func (m *Movement) InDashJumpWindow(now int64) bool {
	if m.Dashing() {
		return true
	}
	return m.TicksSinceDashEnd(now) <= int64(m.cfg.Ticks(m.cfg.DashJumpWindow))
}

// CancelDashForJump ends an active dash without the collision-stop velocity
// zeroing, so the dash jump keeps its horizontal thrust.
func (m *Movement) CancelDashForJump(now int64) {
	if m.Dashing() {
		m.finishDash(now)
	}
}

// StartDashJumpMomentum opens the window during which neutral input cannot
// cancel dash-jump horizontal thrust.
func (m *Movement) StartDashJumpMomentum() {
	m.dashJumpMomentumTicks = m.cfg.Ticks(m.cfg.DashJumpMomentum)
}

// ConsumeDashEnded reports (once) that a dash finished this tick, so the
// orchestrator can notify combat about queued dash attacks.
func (m *Movement) ConsumeDashEnded() bool {
	ended := m.dashEndedEdge
	m.dashEndedEdge = false
	return ended
}

// OnLanding resets the full dash economy.
func (m *Movement) OnLanding() {
	m.dashesRemaining = m.cfg.MaxDashes
	m.airDashUsed = false
	m.cooldownTicks = 0
}

// CanDash checks the dash gate without consuming anything.
func (m *Movement) CanDash(ground GroundState, ab Abilities, res *Resolver, recentWallJump bool) bool {
	if !ab.Dash || m.Dashing() || ground.BufferClimbing {
		return false
	}
	// A dash out of an active stick or slide would immediately collide with
	// the same wall. Flags left stale by a wall jump this instant don't
	// count.
	if (res.WallSticking() || res.WallSliding()) && !recentWallJump {
		return false
	}
	if !ground.Grounded {
		// Airborne dashes are capped at one per airborne session no matter
		// what max_air_dashes says for the ground analogue.
		return !m.airDashUsed
	}
	return m.dashesRemaining > 0 || m.cooldownTicks == 0
}

// HandleDash resolves a dash request, mutating the charge economy and
// launching the dash when the gate passes. Returns whether a dash started.
func (m *Movement) HandleDash(body *Body, ground GroundState, ab Abilities, res *Resolver, recentWallJump bool, now int64) bool {
	if !m.CanDash(ground, ab, res, recentWallJump) {
		return false
	}

	if !ground.Grounded {
		m.airDashUsed = true
	} else if m.dashesRemaining > 0 {
		m.dashesRemaining--
		if m.dashesRemaining == 0 {
			m.cooldownTicks = m.cfg.Ticks(m.cfg.DashCooldown)
		}
	} else {
		// Cooldown fully elapsed with an empty pool: restore the pool minus
		// the charge this dash consumes, so the "used a dash to re-enter
		// cooldown" feel is preserved rather than a free full refill.
		m.dashesRemaining = m.cfg.MaxDashes - 1
		if m.dashesRemaining == 0 {
			m.cooldownTicks = m.cfg.Ticks(m.cfg.DashCooldown)
		}
	}

	m.dashTicksTotal = m.cfg.Ticks(m.cfg.DashDuration)
	m.dashTicks = m.dashTicksTotal
	m.dashDir = body.Facing.Sign()
	m.dashTween = gween.New(float32(m.cfg.DashSpeed), float32(m.cfg.DashEndSpeed), float32(m.cfg.DashDuration), ease.OutQuad)
	body.Vel = cp.Vector{X: m.dashDir * m.cfg.DashSpeed, Y: 0}
	return true
}

// Update applies the per-tick movement priority chain.
func (m *Movement) Update(body *Body, in Input, ground GroundState, wall WallState, ab Abilities, combat *Combat, jump *Jump, res *Resolver, now int64) {
	if m.cooldownTicks > 0 {
		m.cooldownTicks--
	}
	if m.dashJumpMomentumTicks > 0 {
		m.dashJumpMomentumTicks--
	}

	// 1. Wall-stick freezes everything.
	if res.WallSticking() {
		body.Vel = cp.Vector{}
		body.GravityScale = 0
		return
	}

	// 2. Moving platform translation first, so input is additive to the
	// platform's motion instead of being overridden by it.
	if ground.Grounded && (m.platformDelta != cp.Vector{}) {
		body.Pos = body.Pos.Add(m.platformDelta)
	}
	m.platformDelta = cp.Vector{}

	// 3. Mantle assist overrides normal control for the tick.
	if ground.BufferClimbing {
		if body.Vel.Y > -m.cfg.ClimbBoostY {
			body.Vel.Y = -m.cfg.ClimbBoostY
		}
		body.Vel.X = body.Facing.Sign() * m.cfg.ClimbBoostX
		return
	}

	// 4. Active dash: eased velocity, early end on hard wall contact.
	if m.Dashing() {
		m.dashTicks--
		speed := m.cfg.DashEndSpeed
		if m.dashTween != nil {
			v, _ := m.dashTween.Update(float32(m.cfg.Dt()))
			speed = float64(v)
		}
		body.Vel = cp.Vector{X: m.dashDir * speed, Y: 0}

		// Stricter than the movement block: two of three rays at short
		// range means we are about to bury into a wall. Drop straight
		// down instead of grinding along it.
		if m.walls.ProbeContacts(body, m.cfg.WallEndProbeLength) >= 2 {
			m.finishDash(now)
			body.Vel.X = 0
			return
		}
		if m.dashTicks == 0 {
			m.finishDash(now)
		}
		return
	}

	if in.MoveX != 0 {
		if in.MoveX > 0 {
			body.Facing = FacingRight
		} else {
			body.Facing = FacingLeft
		}
	}

	// 5. Air/dash attacks preserve momentum entirely; combat may contribute
	// an explicit movement vector instead.
	if combat.AirAttacking() || combat.DashAttacking() {
		if mv, ok := combat.AttackMovement(body.Facing); ok {
			body.Vel.X = mv.X
			if mv.Y != 0 {
				body.Vel.Y = mv.Y
			}
		}
		m.clampWallSlide(body, res)
		return
	}

	// 6. Run. Suppressed while dash-jump momentum is live.
	if m.dashJumpMomentumTicks == 0 {
		desired := in.MoveX * m.cfg.RunSpeed
		if combat.GroundComboActive() && ground.Grounded {
			desired *= m.cfg.AttackRunScale
		}
		desired = m.applyWallBlock(desired, in, body, wall, ab)

		if ground.Grounded && ground.OnSlope && in.MoveX != 0 {
			// Reproject along the slope tangent instead of world-horizontal.
			n := ground.SlopeNormal
			tangent := cp.Vector{X: -n.Y, Y: n.X}
			body.Vel = tangent.Mult(desired)
		} else {
			body.Vel.X = desired
		}
	}

	// 7. Wall slide clamps descent.
	m.clampWallSlide(body, res)

	// 8. Anti-slide: idle on a slope holds position via a counter-force
	// equal to the gravity component along the tangent.
	if ground.Grounded && ground.OnSlope && in.MoveX == 0 && m.dashJumpMomentumTicks == 0 {
		m.holdSlope(body, ground, jump)
	}
}

// applyWallBlock zeroes horizontal input into a wall. With wall-stick locked
// the block is unconditional; unlocked, only marginal contact (exactly one
// ray) blocks, so the character can't wedge into a state where it neither
// sticks nor slides.
func (m *Movement) applyWallBlock(desired float64, in Input, body *Body, wall WallState, ab Abilities) float64 {
	if desired == 0 || wall.ContactCount == 0 {
		return desired
	}
	if in.MoveX*body.Facing.Sign() <= 0 {
		return desired
	}
	if !ab.WallStick {
		return 0
	}
	if wall.ContactCount == 1 {
		return 0
	}
	return desired
}

func (m *Movement) clampWallSlide(body *Body, res *Resolver) {
	if res.WallSliding() && body.Vel.Y > m.cfg.WallSlideSpeed {
		body.Vel.Y = m.cfg.WallSlideSpeed
	}
}

// holdSlope cancels the slope-parallel component of this tick's gravity so
// the idle character neither slides down nor gets lifted off.
func (m *Movement) holdSlope(body *Body, ground GroundState, jump *Jump) {
	n := ground.SlopeNormal
	tangent := cp.Vector{X: -n.Y, Y: n.X}
	gravity := cp.Vector{X: 0, Y: m.cfg.Gravity * body.GravityScale}
	along := gravity.Dot(tangent)
	body.Vel = body.Vel.Sub(tangent.Mult(along * m.cfg.Dt()))
	body.Vel.X = 0
	// Never let the correction produce net lift outside an active variable
	// jump.
	if body.Vel.Y < 0 && !jump.VariableJumpActive() {
		body.Vel.Y = 0
	}
}

func (m *Movement) finishDash(now int64) {
	m.dashTicks = 0
	m.dashTween = nil
	m.lastDashEndTick = now
	m.dashEndedEdge = true
}
