package player

import (
	"github.com/milk9111/platforming/common"
	"github.com/milk9111/platforming/config"
)

// Jump owns every vertical launch: ground, coyote, wall, double (with the
// forced-fall deferral), and dash jumps, plus the variable-height hold.
type Jump struct {
	cfg *config.Tuning

	jumpsRemaining   int
	lastJumpTick     int64
	lastWallJumpTick int64
	bufferTicks      int

	jumpHeld         bool
	variableActive   bool
	variableTicks    int
	launchedThisTick bool
	launchMin        float64
	launchMax        float64

	forcedFallTicks int
	pendingDouble   bool

	doubleJumpedEdge bool
}

func NewJump(cfg *config.Tuning) *Jump {
	return &Jump{
		cfg:              cfg,
		jumpsRemaining:   cfg.ExtraJumps,
		lastJumpTick:     neverTick,
		lastWallJumpTick: neverTick,
	}
}

func (j *Jump) VariableJumpActive() bool { return j.variableActive }
func (j *Jump) ForcedFalling() bool      { return j.forcedFallTicks > 0 || j.pendingDouble }
func (j *Jump) JumpsRemaining() int      { return j.jumpsRemaining }

// RecentWallJump reports a wall jump within the dash-jump grace, used to let
// a dash through stale wall-stick flags.
func (j *Jump) RecentWallJump(now int64) bool {
	return now-j.lastWallJumpTick <= int64(j.cfg.Ticks(j.cfg.DashJumpWindow))
}

// ConsumeDoubleJumped reports (once) that a double jump fired this tick so
// the orchestrator can notify combat.
func (j *Jump) ConsumeDoubleJumped() bool {
	fired := j.doubleJumpedEdge
	j.doubleJumpedEdge = false
	return fired
}

// OnLanding refills the extra-jump counter and clears any in-flight phases.
func (j *Jump) OnLanding() {
	j.jumpsRemaining = j.cfg.ExtraJumps
	j.variableActive = false
	j.forcedFallTicks = 0
	j.pendingDouble = false
}

// Update resolves jump requests and advances the variable/forced-fall
// phases. Runs after movement in the tick order, so launches overwrite the
// velocity movement just wrote.
func (j *Jump) Update(body *Body, in Input, ground GroundState, wall WallState, ab Abilities, sensor *GroundSensor, walls *WallSensor, movement *Movement, combat *Combat, res *Resolver, now int64) {
	if in.JumpPressed {
		j.jumpHeld = true
	}
	if in.JumpReleased {
		j.jumpHeld = false
		j.cutJump(body)
	}

	if j.bufferTicks > 0 {
		j.bufferTicks--
	}

	// Forced-fall phase: velocity pinned to the configured fall speed until
	// the deferral elapses, then the double jump fires on its own.
	if j.forcedFallTicks > 0 {
		body.Vel.Y = j.cfg.ForcedFallSpeed
		j.forcedFallTicks--
		if j.forcedFallTicks == 0 && j.pendingDouble {
			j.pendingDouble = false
			j.fireDoubleJump(body, now)
		}
		return
	}

	requested := in.JumpPressed
	if !requested && j.bufferTicks > 0 && (ground.Grounded || sensor.CoyoteActive()) {
		requested = true
		j.bufferTicks = 0
	}

	if requested {
		j.resolveJump(body, in, ground, wall, ab, sensor, walls, movement, combat, res, now)
	}

	j.updateVariablePhase(body)
}

// resolveJump walks the strict priority order for a jump request.
func (j *Jump) resolveJump(body *Body, in Input, ground GroundState, wall WallState, ab Abilities, sensor *GroundSensor, walls *WallSensor, movement *Movement, combat *Combat, res *Resolver, now int64) {
	// Global blocks: never jump out of an air attack, or out of a grounded
	// dash attack's commitment.
	if combat.AirAttacking() {
		return
	}
	if combat.DashAttacking() && ground.Grounded {
		return
	}

	// 1. Dash jump.
	if ab.DashJump && ground.Grounded && movement.InDashJumpWindow(now) {
		movement.CancelDashForJump(now)
		body.Vel.X = body.Facing.Sign() * j.cfg.DashJumpSpeedX
		body.Vel.Y = -j.cfg.DashJumpSpeedY
		movement.StartDashJumpMomentum()
		movement.OnLanding()
		j.jumpsRemaining = j.cfg.ExtraJumps
		j.lastJumpTick = now
		return
	}

	// 2. Ground jump, including the coyote-extended grounded-equivalent.
	if ground.Grounded || sensor.CoyoteActive() {
		j.launchGroundJump(body, in, ground, walls, movement, now)
		if !ground.Grounded {
			sensor.ConsumeCoyote()
		}
		return
	}

	// 3. Wall jump.
	if ab.WallStick && (wall.ContactCount > 0 || res.WallSticking() || res.WallSliding()) {
		j.launchWallJump(body, movement, now)
		return
	}

	// 4. Double jump, possibly deferred through a forced fall.
	if ab.DoubleJump && j.jumpsRemaining > 0 &&
		now-j.lastJumpTick >= int64(j.cfg.Ticks(j.cfg.DoubleJumpDelay)) {
		if body.Ascending() {
			j.pendingDouble = true
			j.forcedFallTicks = j.cfg.Ticks(j.cfg.ForcedFallDuration)
			j.variableActive = false
			body.Vel.Y = j.cfg.ForcedFallSpeed
		} else {
			j.fireDoubleJump(body, now)
		}
		return
	}

	// Nothing fired: remember the press briefly so landing can honor it.
	j.bufferTicks = j.cfg.Ticks(j.cfg.JumpBuffer)
}

func (j *Jump) launchGroundJump(body *Body, in Input, ground GroundState, walls *WallSensor, movement *Movement, now int64) {
	minV, maxV := j.launchRange(body, walls)

	boost := 0.0
	if ground.OnSlope && in.MoveX != 0 {
		// Launching while running up-slope gets an additive boost
		// proportional to the slope angle. The normal tilts away from the
		// rise, so up-slope input opposes the normal's x sign.
		n := ground.SlopeNormal
		if n.X != 0 && common.Sign(in.MoveX) == -common.Sign(n.X) {
			boost = j.cfg.SlopeJumpBoost * ground.SlopeAngle
		}
	}

	body.Vel.Y = -(minV + boost)
	j.beginVariablePhase(minV+boost, maxV+boost)
	j.jumpsRemaining = j.cfg.ExtraJumps
	movement.OnLanding()
	j.lastJumpTick = now
}

func (j *Jump) launchWallJump(body *Body, movement *Movement, now int64) {
	// Push away from the wall and flip to face the travel direction.
	if body.Facing == FacingRight {
		body.Facing = FacingLeft
	} else {
		body.Facing = FacingRight
	}
	body.Vel.X = body.Facing.Sign() * j.cfg.WallJumpSpeedX
	body.Vel.Y = -j.cfg.WallJumpSpeedY
	movement.StartDashJumpMomentum()
	movement.OnLanding()
	j.jumpsRemaining = j.cfg.ExtraJumps
	j.beginVariablePhase(j.cfg.WallJumpSpeedY, j.cfg.WallJumpSpeedY)
	j.lastJumpTick = now
	j.lastWallJumpTick = now
}

func (j *Jump) fireDoubleJump(body *Body, now int64) {
	j.jumpsRemaining--
	body.Vel.Y = -j.cfg.MinJumpVelocity
	j.beginVariablePhase(j.cfg.MinJumpVelocity, j.cfg.MaxJumpVelocity)
	j.lastJumpTick = now
	j.doubleJumpedEdge = true
}

// launchRange returns the min/max launch speeds, with the near-wall
// compensation multiplier applied when a wall is close enough to sap energy.
func (j *Jump) launchRange(body *Body, walls *WallSensor) (float64, float64) {
	minV, maxV := j.cfg.MinJumpVelocity, j.cfg.MaxJumpVelocity
	if maxV < minV {
		// Misconfigured range degrades to no variable height.
		maxV = minV
	}
	if walls.ProbeContacts(body, j.cfg.WallRayLength) > 0 {
		minV *= j.cfg.NearWallJumpBoost
		maxV *= j.cfg.NearWallJumpBoost
	}
	return minV, maxV
}

func (j *Jump) beginVariablePhase(minV, maxV float64) {
	j.launchMin = minV
	j.launchMax = maxV
	j.variableActive = true
	j.launchedThisTick = true
	j.variableTicks = j.cfg.Ticks(j.cfg.JumpHoldDuration)
}

// updateVariablePhase extends apparent jump height while the button stays
// held, the character still ascends, and budget remains.
func (j *Jump) updateVariablePhase(body *Body) {
	if !j.variableActive {
		return
	}
	// The launch tick already wrote the minimum velocity; holding starts
	// raising it next tick.
	if j.launchedThisTick {
		j.launchedThisTick = false
		return
	}
	if !j.jumpHeld || !body.Ascending() || j.variableTicks <= 0 {
		j.endVariablePhase(body)
		return
	}
	j.variableTicks--
	if j.cfg.VariableJumpClamped {
		target := -j.launchMax
		if body.Vel.Y > target {
			body.Vel.Y = target
		}
	} else {
		body.GravityScale = j.cfg.JumpHoldGravity
	}
}

func (j *Jump) endVariablePhase(body *Body) {
	j.variableActive = false
	if !j.cfg.VariableJumpClamped && body.GravityScale == j.cfg.JumpHoldGravity {
		body.GravityScale = 1
	}
}

// cutJump clamps upward speed on release so a tap stays short.
func (j *Jump) cutJump(body *Body) {
	if j.variableActive {
		j.endVariablePhase(body)
	}
	if body.Ascending() && body.Vel.Y < -j.cfg.JumpCutVelocity {
		body.Vel.Y = -j.cfg.JumpCutVelocity
	}
}
