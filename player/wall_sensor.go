package player

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/platforming/collision"
	"github.com/milk9111/platforming/common"
	"github.com/milk9111/platforming/config"
)

// WallState is recomputed every tick. Wall contact requires the character to
// be airborne and not buffer-climbing; while mantling, wall flags are
// suppressed outright so the climb assist and wall states can't fight.
type WallState struct {
	// OnWall is slide-eligible contact: the player is actively pressing
	// toward the wall.
	OnWall bool
	// StickAllowed is the more permissive gate used right after jumping
	// toward a wall: contact without input pressing away.
	StickAllowed bool
	Normal       cp.Vector
	// ContactCount is how many of the three probe rays hit (0-3).
	ContactCount int
}

// WallSensor casts three short horizontal rays toward the facing direction at
// top, middle, and bottom body heights.
type WallSensor struct {
	cfg   *config.Tuning
	space *collision.Space
}

func NewWallSensor(cfg *config.Tuning, space *collision.Space) *WallSensor {
	return &WallSensor{cfg: cfg, space: space}
}

// Sense recomputes wall adjacency for this tick.
func (w *WallSensor) Sense(body *Body, in Input, ground GroundState) WallState {
	if ground.Grounded || ground.BufferClimbing {
		return WallState{}
	}

	count, normal := w.probe(body, w.cfg.WallRayLength)
	if count == 0 {
		return WallState{}
	}

	toward := in.MoveX * body.Facing.Sign()
	return WallState{
		OnWall:       toward > 0,
		StickAllowed: toward >= 0,
		Normal:       normal,
		ContactCount: count,
	}
}

// ProbeContacts recounts ray hits at a custom reach. Movement uses a shorter
// reach than Sense for the dash early-end check.
func (w *WallSensor) ProbeContacts(body *Body, reach float64) int {
	count, _ := w.probe(body, reach)
	return count
}

func (w *WallSensor) probe(body *Body, reach float64) (int, cp.Vector) {
	forward := body.Facing.Sign()
	dir := cp.Vector{X: forward, Y: 0}
	dist := body.Width/2 + reach

	heights := []float64{
		body.Pos.Y - body.Height*0.4,
		body.Pos.Y,
		body.Pos.Y + body.Height*0.4,
	}

	count := 0
	var normal cp.Vector
	for _, y := range heights {
		origin := cp.Vector{X: body.Pos.X, Y: y}
		hit, ok := w.space.Raycast(origin, dir, dist, collision.Solid)
		if !ok {
			continue
		}
		if !w.wallNormal(hit.Normal, forward) {
			continue
		}
		count++
		if normal == (cp.Vector{}) {
			normal = hit.Normal
		}
	}
	return count, normal
}

// wallNormal accepts only near-horizontal surface normals opposing the
// facing direction, so slopes and ceilings never read as walls.
func (w *WallSensor) wallNormal(n cp.Vector, forward float64) bool {
	if n.X*forward >= 0 {
		return false
	}
	deviation := common.Degrees(math.Atan2(math.Abs(n.Y), math.Abs(n.X)))
	return deviation <= w.cfg.WallNormalTol
}
