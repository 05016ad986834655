// Package collision wraps a chipmunk space behind the two query shapes the
// character controller needs: layer-masked raycasts and overlap checks.
// The controller never steps this space; geometry is static and the host
// engine owns real physics integration.
package collision

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Layer is a collision category bitmask.
type Layer uint

const (
	// Solid is ground, slopes, and walls.
	Solid Layer = 1 << iota
	// OneWay is the one-way landing buffer on platform lips.
	OneWay
)

// Hit describes the nearest surface struck by a raycast.
type Hit struct {
	Point    cp.Vector
	Normal   cp.Vector
	Distance float64
}

// Space holds static level geometry and answers spatial queries against it.
type Space struct {
	space *cp.Space
}

func NewSpace() *Space {
	return &Space{space: cp.NewSpace()}
}

func shapeFilter(layer Layer) cp.ShapeFilter {
	return cp.NewShapeFilter(cp.NO_GROUP, uint(layer), cp.ALL_CATEGORIES)
}

func queryFilter(mask Layer) cp.ShapeFilter {
	return cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, uint(mask))
}

// AddBox adds a static axis-aligned box. l,t are the top-left corner in
// screen coordinates (y grows downward).
func (s *Space) AddBox(l, t, w, h float64, layer Layer) {
	bb := cp.BB{L: l, B: t, R: l + w, T: t + h}
	shape := cp.NewBox2(s.space.StaticBody, bb, 0)
	shape.SetFriction(0.8)
	shape.SetFilter(shapeFilter(layer))
	s.space.AddShape(shape)
}

// AddSegment adds a static segment, used for slopes and thin ledges.
func (s *Space) AddSegment(a, b cp.Vector, layer Layer) {
	shape := cp.NewSegment(s.space.StaticBody, a, b, 1)
	shape.SetFriction(0.8)
	shape.SetFilter(shapeFilter(layer))
	s.space.AddShape(shape)
}

// Raycast returns the nearest hit along dir (normalized internally) within
// dist against shapes matching mask.
func (s *Space) Raycast(origin, dir cp.Vector, dist float64, mask Layer) (Hit, bool) {
	if dist <= 0 {
		return Hit{}, false
	}
	length := dir.Length()
	if length == 0 {
		return Hit{}, false
	}
	end := origin.Add(dir.Mult(dist / length))
	info := s.space.SegmentQueryFirst(origin, end, 0, queryFilter(mask))
	if info.Shape == nil {
		return Hit{}, false
	}
	return Hit{
		Point:    info.Point,
		Normal:   info.Normal,
		Distance: info.Point.Sub(origin).Length(),
	}, true
}

// Overlap reports whether any shape matching mask lies within radius of
// point.
func (s *Space) Overlap(point cp.Vector, radius float64, mask Layer) bool {
	info := s.space.PointQueryNearest(point, radius, queryFilter(mask))
	return info != nil && info.Shape != nil
}

// SlopeSegment adds a slope rising from a to b. Convenience for level
// builders and tests; identical to AddSegment on the Solid layer.
func (s *Space) SlopeSegment(a, b cp.Vector) {
	s.AddSegment(a, b, Solid)
}

// SlopeAngle returns the angle in degrees between a surface normal and
// straight up (screen-down coordinates, so up is -Y).
func SlopeAngle(normal cp.Vector) float64 {
	up := cp.Vector{X: 0, Y: -1}
	d := normal.Dot(up)
	if d > 1 {
		d = 1
	} else if d < -1 {
		d = -1
	}
	return math.Acos(d) * 180 / math.Pi
}
