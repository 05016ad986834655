package player

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/platforming/collision"
	"github.com/milk9111/platforming/common"
	"github.com/milk9111/platforming/config"
)

// GroundState is recomputed from spatial queries every tick. When Grounded is
// true exactly one of GroundedByPlatform/GroundedByBuffer/GroundedBySlope is
// set, in priority order buffer, slope, then plain platform overlap. Slope
// info is also reported independently so movement can reproject along the
// tangent whatever the grounding source.
type GroundState struct {
	Grounded           bool
	GroundedByPlatform bool
	GroundedByBuffer   bool
	GroundedBySlope    bool

	OnSlope     bool
	SlopeNormal cp.Vector
	SlopeAngle  float64

	BufferClimbing bool

	CoyoteTicks         int
	LeftGroundByJumping bool

	// JustLanded is the false->true grounding edge for this tick.
	JustLanded bool
}

// GroundSensor owns grounding, slope, and mantle detection plus the coyote
// grace window.
type GroundSensor struct {
	cfg   *config.Tuning
	space *collision.Space

	coyoteMax   int
	coyoteTicks int
	leftByJump  bool
	wasGrounded bool
}

func NewGroundSensor(cfg *config.Tuning, space *collision.Space) *GroundSensor {
	return &GroundSensor{
		cfg:       cfg,
		space:     space,
		coyoteMax: cfg.Ticks(cfg.CoyoteTime),
	}
}

var slopeRayDirs = []cp.Vector{
	{X: 0, Y: 1},
	{X: -math.Sqrt2 / 2, Y: math.Sqrt2 / 2},
	{X: math.Sqrt2 / 2, Y: math.Sqrt2 / 2},
}

// Sense recomputes the ground state from the current body position and
// input. Call exactly once per tick.
func (g *GroundSensor) Sense(body *Body, in Input) GroundState {
	feet := body.Feet()

	onPlatform := g.space.Overlap(feet, g.cfg.GroundProbeRadius, collision.Solid)

	// A one-way lip only counts while not ascending, so the buffer can't
	// catch the character on the way up through it.
	bufferContact := false
	if !body.Ascending() {
		bufferContact = g.space.Overlap(feet, g.cfg.GroundProbeRadius, collision.OneWay)
	}

	st := GroundState{}
	g.senseSlope(feet, &st)
	st.BufferClimbing = g.senseBufferClimb(body, in, bufferContact)

	slopeGrounded := st.OnSlope
	st.Grounded = st.BufferClimbing || onPlatform || bufferContact || slopeGrounded
	switch {
	case bufferContact || st.BufferClimbing:
		st.GroundedByBuffer = st.Grounded
	case slopeGrounded:
		st.GroundedBySlope = true
	case onPlatform:
		st.GroundedByPlatform = true
	}

	st.JustLanded = st.Grounded && !g.wasGrounded

	if st.Grounded {
		g.coyoteTicks = g.coyoteMax
		g.leftByJump = false
	} else {
		if g.wasGrounded && body.Ascending() {
			// Already moving up when ground was lost: this was a jump, not
			// a walk-off. Coyote time must not subsidize it twice.
			g.coyoteTicks = 0
		} else if g.coyoteTicks > 0 {
			g.coyoteTicks--
		}
	}
	g.wasGrounded = st.Grounded

	st.CoyoteTicks = g.coyoteTicks
	st.LeftGroundByJumping = g.leftByJump
	return st
}

func (g *GroundSensor) senseSlope(feet cp.Vector, st *GroundState) {
	bestAngle := 0.0
	var bestNormal cp.Vector
	found := false
	for _, dir := range slopeRayDirs {
		hit, ok := g.space.Raycast(feet, dir, g.cfg.SlopeRayLength, collision.Solid)
		if !ok {
			continue
		}
		// Reject hits far below the feet so a long diagonal ray can't
		// ghost-ground us over a drop.
		if math.Abs(hit.Point.Y-feet.Y) > g.cfg.SlopeTolerance {
			continue
		}
		angle := collision.SlopeAngle(hit.Normal)
		if !found || angle > bestAngle {
			found = true
			bestAngle = angle
			bestNormal = hit.Normal
		}
	}
	if !found {
		return
	}
	st.SlopeNormal = bestNormal
	st.SlopeAngle = bestAngle
	st.OnSlope = bestAngle > 1 && bestAngle <= g.cfg.MaxSlopeAngle
}

// senseBufferClimb detects the assisted mantle: buffer contact, input pushing
// into the platform edge, a lip just above the feet, an edge ahead, and near
// zero vertical speed. When all hold the character is forced grounded and
// climbing so it can carry over the corner without snagging.
func (g *GroundSensor) senseBufferClimb(body *Body, in Input, bufferContact bool) bool {
	if !bufferContact {
		return false
	}
	forward := body.Facing.Sign()
	if in.MoveX == 0 || common.Sign(in.MoveX) != forward {
		return false
	}
	if math.Abs(body.Vel.Y) > g.cfg.ClimbMaxFallSpeed {
		return false
	}

	feet := body.Feet()
	probe := g.cfg.ClimbLipProbe

	// Lip just above the feet: a short downward ray ahead and above must
	// strike the platform surface no deeper than the feet line.
	lipOrigin := cp.Vector{X: feet.X + forward*probe, Y: feet.Y - probe}
	lip, ok := g.space.Raycast(lipOrigin, cp.Vector{X: 0, Y: 1}, probe*2, collision.OneWay|collision.Solid)
	if !ok || lip.Point.Y > feet.Y+g.cfg.SlopeTolerance {
		return false
	}

	// Edge ahead: the platform side under the lip must read like a wall.
	edgeOrigin := cp.Vector{X: feet.X, Y: feet.Y + probe}
	_, edge := g.space.Raycast(edgeOrigin, cp.Vector{X: forward, Y: 0}, body.Width/2+probe, collision.OneWay|collision.Solid)
	return edge
}

// CoyoteActive reports whether a jump may still treat the character as
// grounded.
func (g *GroundSensor) CoyoteActive() bool {
	return g.coyoteTicks > 0 && !g.leftByJump
}

// ConsumeCoyote burns the grace window the moment a jump fires during it.
func (g *GroundSensor) ConsumeCoyote() {
	g.coyoteTicks = 0
	g.leftByJump = true
}
