package player

import "github.com/milk9111/platforming/config"

// Snapshot is the flat presentation-facing view published once per tick.
// Consumers treat it as read-only.
type Snapshot struct {
	Grounded       bool
	BufferClimbing bool
	Running        bool
	Jumping        bool
	Falling        bool
	Dashing        bool
	WallSticking   bool
	WallSliding    bool
	Attacking      bool
	AirAttacking   bool
	DashAttacking  bool
	Combo          int
	FacingLeft     bool
	VelX           float64
	VelY           float64
}

// Resolver derives the snapshot each tick and owns the wall-stick/slide
// sequencing: sliding is only reachable through a stick transition, and the
// eligibility resets the instant wall contact is lost.
type Resolver struct {
	cfg *config.Tuning

	sticking      bool
	stickTicks    int
	stickOccurred bool

	snap Snapshot
}

func NewResolver(cfg *config.Tuning) *Resolver {
	return &Resolver{cfg: cfg}
}

// WallSticking reports the stick state as of the last resolve.
func (r *Resolver) WallSticking() bool { return r.sticking }

// WallSliding reports the slide state as of the last resolve.
func (r *Resolver) WallSliding() bool { return r.snap.WallSliding }

// Snapshot returns the last resolved presentation state.
func (r *Resolver) Snapshot() Snapshot { return r.snap }

// Resolve recomputes the snapshot. The second return is the edge-triggered
// stick-enter event, true exactly once per idle->stick transition; the
// orchestrator consumes it synchronously to zero residual upward velocity.
func (r *Resolver) Resolve(body *Body, in Input, ground GroundState, wall WallState, ab Abilities, movement *Movement, combat *Combat) (Snapshot, bool) {
	stickEntered := false

	if ground.Grounded || wall.ContactCount == 0 {
		// Contact lost (or back on the ground): slide eligibility resets
		// and must be re-earned through a fresh stick.
		r.sticking = false
		r.stickTicks = 0
		r.stickOccurred = false
	} else {
		if r.sticking {
			if r.stickTicks > 0 {
				r.stickTicks--
			}
			if r.stickTicks == 0 || !wall.StickAllowed {
				r.sticking = false
			}
		} else if ab.WallStick && wall.StickAllowed && !movement.Dashing() && !r.stickOccurred {
			r.sticking = true
			r.stickOccurred = true
			r.stickTicks = r.cfg.Ticks(r.cfg.WallStickDuration)
			stickEntered = true
		}
	}

	sliding := !ground.Grounded && !r.sticking && r.stickOccurred &&
		wall.OnWall && body.Descending()

	airborne := !ground.Grounded
	climbing := ground.BufferClimbing

	snap := Snapshot{
		Grounded:       ground.Grounded,
		BufferClimbing: climbing,
		Dashing:        movement.Dashing(),
		WallSticking:   r.sticking,
		WallSliding:    sliding,
		Attacking:      combat.GroundComboActive(),
		AirAttacking:   combat.AirAttacking(),
		DashAttacking:  combat.DashAttacking(),
		Combo:          combat.Combo(),
		FacingLeft:     body.Facing == FacingLeft,
		VelX:           body.Vel.X,
		VelY:           body.Vel.Y,
	}

	snap.Running = ground.Grounded && in.MoveX != 0 &&
		!snap.Dashing && !snap.DashAttacking && !snap.WallSliding

	if airborne && !climbing && !snap.AirAttacking && !r.sticking {
		if body.Ascending() {
			snap.Jumping = true
		} else if body.Descending() {
			snap.Falling = true
		}
	}

	r.snap = snap
	return snap, stickEntered
}
