package player

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/platforming/collision"
	"github.com/milk9111/platforming/config"
)

// wallSpace is a solid wall with its left face at x=414.
func wallSpace() *collision.Space {
	s := collision.NewSpace()
	s.AddBox(414, 400, 40, 200, collision.Solid)
	return s
}

func TestWallSensorContact(t *testing.T) {
	cfg := config.Default()
	w := NewWallSensor(&cfg, wallSpace())
	body := testBody(cfg, cp.Vector{X: 400, Y: 500}) // facing right, wall in reach

	st := w.Sense(body, Input{MoveX: 1}, GroundState{})
	if st.ContactCount != 3 {
		t.Fatalf("expected all three rays to hit, got %d", st.ContactCount)
	}
	if !st.OnWall || !st.StickAllowed {
		t.Errorf("pressing toward the wall should set OnWall and StickAllowed, got %+v", st)
	}
	if st.Normal.X >= 0 {
		t.Errorf("wall normal should oppose facing, got %v", st.Normal)
	}

	// Neutral input keeps contact stick-eligible but not slide-eligible.
	st = w.Sense(body, Input{}, GroundState{})
	if st.OnWall || !st.StickAllowed {
		t.Errorf("neutral input: want OnWall=false StickAllowed=true, got %+v", st)
	}

	// Pressing away forfeits both.
	st = w.Sense(body, Input{MoveX: -1}, GroundState{})
	if st.OnWall || st.StickAllowed {
		t.Errorf("pressing away: want no wall flags, got %+v", st)
	}

	// Facing away from the wall sees nothing.
	body.Facing = FacingLeft
	if st = w.Sense(body, Input{MoveX: -1}, GroundState{}); st.ContactCount != 0 {
		t.Errorf("rays point away from the wall, got %d contacts", st.ContactCount)
	}
}

func TestWallSensorSuppressed(t *testing.T) {
	cfg := config.Default()
	w := NewWallSensor(&cfg, wallSpace())
	body := testBody(cfg, cp.Vector{X: 400, Y: 500})

	if st := w.Sense(body, Input{MoveX: 1}, GroundState{Grounded: true}); st != (WallState{}) {
		t.Errorf("grounded should suppress wall sensing, got %+v", st)
	}
	if st := w.Sense(body, Input{MoveX: 1}, GroundState{Grounded: true, BufferClimbing: true}); st != (WallState{}) {
		t.Errorf("mantling should suppress wall sensing, got %+v", st)
	}
}

func TestWallNormalTolerance(t *testing.T) {
	cfg := config.Default() // 25 degree tolerance
	w := NewWallSensor(&cfg, collision.NewSpace())

	cases := []struct {
		name    string
		normal  cp.Vector
		forward float64
		want    bool
	}{
		{"flat_wall", cp.Vector{X: -1, Y: 0}, 1, true},
		{"slightly_tilted", cp.Vector{X: -0.95, Y: -0.31}, 1, true},
		{"too_tilted", cp.Vector{X: -0.89, Y: -0.45}, 1, false},
		{"floor", cp.Vector{X: 0, Y: -1}, 1, false},
		{"behind", cp.Vector{X: 1, Y: 0}, 1, false},
		{"left_wall", cp.Vector{X: 1, Y: 0}, -1, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := w.wallNormal(c.normal, c.forward); got != c.want {
				t.Errorf("wallNormal(%v, %v) = %v, want %v", c.normal, c.forward, got, c.want)
			}
		})
	}
}

func TestProbeContactsReach(t *testing.T) {
	cfg := config.Default()
	w := NewWallSensor(&cfg, wallSpace())
	body := testBody(cfg, cp.Vector{X: 400, Y: 500}) // face 14px from center

	if n := w.ProbeContacts(body, 6); n != 3 {
		t.Errorf("reach 6 (18px total) should hit, got %d", n)
	}
	if n := w.ProbeContacts(body, 1); n != 0 {
		t.Errorf("reach 1 (13px total) should miss, got %d", n)
	}
}
