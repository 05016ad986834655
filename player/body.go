package player

import "github.com/jakecoffman/cp"

// Facing is the sprite-facing direction.
type Facing int

const (
	FacingLeft  Facing = -1
	FacingRight Facing = 1
)

// Sign returns -1 for left, +1 for right.
func (f Facing) Sign() float64 {
	if f == FacingLeft {
		return -1
	}
	return 1
}

// Body is the physical actor: position is the center of the collision box,
// velocity is pixels per second, y grows downward. GravityScale is zeroed
// during wall-stick and scaled down during an unclamped variable jump.
type Body struct {
	Pos          cp.Vector
	Vel          cp.Vector
	Facing       Facing
	GravityScale float64
	Width        float64
	Height       float64
}

// Feet returns the bottom-center point of the collision box.
func (b *Body) Feet() cp.Vector {
	return cp.Vector{X: b.Pos.X, Y: b.Pos.Y + b.Height/2}
}

// Ascending reports upward motion (negative y in screen coordinates).
func (b *Body) Ascending() bool {
	return b.Vel.Y < 0
}

// Descending reports downward motion.
func (b *Body) Descending() bool {
	return b.Vel.Y > 0
}
