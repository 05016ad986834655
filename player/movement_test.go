package player

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/platforming/collision"
	"github.com/milk9111/platforming/config"
)

// movementRig bundles the components Movement.Update needs.
type movementRig struct {
	cfg      config.Tuning
	body     *Body
	movement *Movement
	jump     *Jump
	combat   *Combat
	resolver *Resolver
	walls    *WallSensor
	tick     int64
}

func newMovementRig(cfg config.Tuning, space *collision.Space) *movementRig {
	walls := NewWallSensor(&cfg, space)
	return &movementRig{
		cfg:      cfg,
		body:     testBody(cfg, cp.Vector{X: 100, Y: 580}),
		movement: NewMovement(&cfg, walls),
		jump:     NewJump(&cfg),
		combat:   NewCombat(&cfg),
		resolver: NewResolver(&cfg),
		walls:    walls,
	}
}

func (r *movementRig) update(in Input, ground GroundState, wall WallState, ab Abilities) {
	r.tick++
	r.movement.Update(r.body, in, ground, wall, ab, r.combat, r.jump, r.resolver, r.tick)
}

var grounded = GroundState{Grounded: true, GroundedByPlatform: true}

func TestRunSpeed(t *testing.T) {
	cfg := config.Default()
	r := newMovementRig(cfg, collision.NewSpace())
	ab := Abilities{}

	r.update(Input{MoveX: 1}, grounded, WallState{}, ab)
	if r.body.Vel.X != cfg.RunSpeed {
		t.Errorf("Vel.X = %v, want %v", r.body.Vel.X, cfg.RunSpeed)
	}
	if r.body.Facing != FacingRight {
		t.Errorf("expected facing right")
	}

	r.update(Input{MoveX: -1}, grounded, WallState{}, ab)
	if r.body.Vel.X != -cfg.RunSpeed {
		t.Errorf("Vel.X = %v, want %v", r.body.Vel.X, -cfg.RunSpeed)
	}
	if r.body.Facing != FacingLeft {
		t.Errorf("expected facing left")
	}

	r.update(Input{}, grounded, WallState{}, ab)
	if r.body.Vel.X != 0 {
		t.Errorf("neutral input should stop, got %v", r.body.Vel.X)
	}
}

func TestRunScaledDuringCombo(t *testing.T) {
	cfg := config.Default()
	r := newMovementRig(cfg, collision.NewSpace())
	ab := AllAbilities()

	r.combat.HandleAttackInput(grounded, ab, r.movement, 1)
	if !r.combat.GroundComboActive() {
		t.Fatalf("expected ground combo active")
	}
	r.update(Input{MoveX: 1}, grounded, WallState{}, ab)
	want := cfg.RunSpeed * cfg.AttackRunScale
	if r.body.Vel.X != want {
		t.Errorf("Vel.X = %v, want scaled %v", r.body.Vel.X, want)
	}
}

// Dash charge economy with a single charge: the first dash spends it and
// starts the cooldown, re-dashing mid-cooldown is rejected, and the first
// dash after expiry spends the restored pool straight back into cooldown.
func TestDashChargeEconomy(t *testing.T) {
	cfg := config.Default()
	cfg.MaxDashes = 1
	cfg.DashCooldown = 0.5
	r := newMovementRig(cfg, collision.NewSpace())
	ab := Abilities{Dash: true}

	if !r.movement.HandleDash(r.body, grounded, ab, r.resolver, false, r.tick) {
		t.Fatalf("first dash should start")
	}
	if r.body.Vel.X != cfg.DashSpeed {
		t.Errorf("dash launch Vel.X = %v, want %v", r.body.Vel.X, cfg.DashSpeed)
	}
	if r.movement.DashesRemaining() != 0 {
		t.Errorf("charge not spent: %d remaining", r.movement.DashesRemaining())
	}
	cooldown := cfg.Ticks(cfg.DashCooldown)
	if r.movement.CooldownTicks() != cooldown {
		t.Errorf("cooldown = %d, want %d", r.movement.CooldownTicks(), cooldown)
	}

	if r.movement.HandleDash(r.body, grounded, ab, r.resolver, false, r.tick) {
		t.Fatalf("re-dash while dashing must be rejected")
	}

	// Tick just short of cooldown expiry: still rejected.
	for i := 0; i < cooldown-1; i++ {
		r.update(Input{}, grounded, WallState{}, ab)
	}
	if r.movement.HandleDash(r.body, grounded, ab, r.resolver, false, r.tick) {
		t.Fatalf("dash mid-cooldown must be rejected")
	}

	// One more tick expires the cooldown; the next dash restores the pool
	// minus the charge it consumes and re-enters cooldown.
	r.update(Input{}, grounded, WallState{}, ab)
	if !r.movement.HandleDash(r.body, grounded, ab, r.resolver, false, r.tick) {
		t.Fatalf("dash after cooldown expiry should start")
	}
	if r.movement.DashesRemaining() != 0 {
		t.Errorf("restored pool should be max-1 = 0, got %d", r.movement.DashesRemaining())
	}
	if r.movement.CooldownTicks() != cooldown {
		t.Errorf("expected cooldown re-entered, got %d", r.movement.CooldownTicks())
	}
}

func TestDashLandingReset(t *testing.T) {
	cfg := config.Default()
	cfg.MaxDashes = 3
	r := newMovementRig(cfg, collision.NewSpace())
	ab := Abilities{Dash: true}

	for i := 0; i < 2; i++ {
		if !r.movement.HandleDash(r.body, grounded, ab, r.resolver, false, r.tick) {
			t.Fatalf("dash %d should start", i+1)
		}
		for r.movement.Dashing() {
			r.update(Input{}, grounded, WallState{}, ab)
		}
	}
	if r.movement.DashesRemaining() != 1 {
		t.Fatalf("expected 1 charge left, got %d", r.movement.DashesRemaining())
	}

	r.movement.OnLanding()
	if r.movement.DashesRemaining() != cfg.MaxDashes {
		t.Errorf("landing should restore the full pool, got %d", r.movement.DashesRemaining())
	}
	if r.movement.CooldownTicks() != 0 {
		t.Errorf("landing should clear the cooldown")
	}
	if r.movement.AirDashUsed() {
		t.Errorf("landing should clear the air dash")
	}
}

// The airborne dash is once per airborne session regardless of the ground
// pool or the configured air dash count.
func TestAirDashCap(t *testing.T) {
	cfg := config.Default()
	cfg.MaxAirDashes = 2
	r := newMovementRig(cfg, collision.NewSpace())
	ab := Abilities{Dash: true}
	airborne := GroundState{}

	if !r.movement.HandleDash(r.body, airborne, ab, r.resolver, false, r.tick) {
		t.Fatalf("first air dash should start")
	}
	for r.movement.Dashing() {
		r.update(Input{}, airborne, WallState{}, ab)
	}
	if r.movement.HandleDash(r.body, airborne, ab, r.resolver, false, r.tick) {
		t.Fatalf("second air dash must be rejected")
	}
	if r.movement.DashesRemaining() != cfg.MaxDashes {
		t.Errorf("air dash must not touch the ground pool, got %d", r.movement.DashesRemaining())
	}

	r.movement.OnLanding()
	if !r.movement.HandleDash(r.body, airborne, ab, r.resolver, false, r.tick) {
		t.Errorf("air dash should be available again after landing")
	}
}

func TestDashBlockedOnWall(t *testing.T) {
	cfg := config.Default()
	r := newMovementRig(cfg, collision.NewSpace())
	ab := Abilities{Dash: true, WallStick: true}
	airborne := GroundState{}

	r.resolver.sticking = true
	if r.movement.CanDash(airborne, ab, r.resolver, false) {
		t.Errorf("dash out of a wall stick must be rejected")
	}
	if !r.movement.CanDash(airborne, ab, r.resolver, true) {
		t.Errorf("a fresh wall jump overrides the stale stick flag")
	}

	r.resolver.sticking = false
	r.resolver.snap.WallSliding = true
	if r.movement.CanDash(airborne, ab, r.resolver, false) {
		t.Errorf("dash out of a wall slide must be rejected")
	}
}

func TestDashEased(t *testing.T) {
	cfg := config.Default()
	r := newMovementRig(cfg, collision.NewSpace())
	ab := Abilities{Dash: true}

	r.movement.HandleDash(r.body, grounded, ab, r.resolver, false, r.tick)
	r.update(Input{}, grounded, WallState{}, ab)
	if r.body.Vel.X >= cfg.DashSpeed || r.body.Vel.X < cfg.DashEndSpeed {
		t.Errorf("dash speed should ease between %v and %v, got %v", cfg.DashEndSpeed, cfg.DashSpeed, r.body.Vel.X)
	}
	if r.body.Vel.Y != 0 {
		t.Errorf("dash should pin vertical velocity to 0, got %v", r.body.Vel.Y)
	}

	total := cfg.Ticks(cfg.DashDuration)
	for i := 1; i < total; i++ {
		r.update(Input{}, grounded, WallState{}, ab)
	}
	if r.movement.Dashing() {
		t.Errorf("dash should have finished after %d ticks", total)
	}
	if !r.movement.ConsumeDashEnded() {
		t.Errorf("dash end edge should fire once")
	}
	if r.movement.ConsumeDashEnded() {
		t.Errorf("dash end edge must not fire twice")
	}
}

func TestDashEndsEarlyAtWall(t *testing.T) {
	cfg := config.Default()
	r := newMovementRig(cfg, wallSpace()) // wall face at x=414
	ab := Abilities{Dash: true}
	r.body.Pos = cp.Vector{X: 402, Y: 500} // face 12px ahead, within end-probe reach

	r.movement.HandleDash(r.body, grounded, ab, r.resolver, false, r.tick)
	r.update(Input{}, grounded, WallState{}, ab)
	if r.movement.Dashing() {
		t.Fatalf("dash should end early against the wall")
	}
	if r.body.Vel.X != 0 {
		t.Errorf("early end should zero horizontal velocity, got %v", r.body.Vel.X)
	}
}

func TestWallBlock(t *testing.T) {
	cfg := config.Default()

	cases := []struct {
		name    string
		wall    WallState
		ab      Abilities
		blocked bool
	}{
		{"no_contact", WallState{}, Abilities{}, false},
		{"locked_always_blocks", WallState{ContactCount: 3}, Abilities{}, true},
		{"unlocked_marginal_blocks", WallState{ContactCount: 1}, Abilities{WallStick: true}, true},
		{"unlocked_full_contact_passes", WallState{ContactCount: 3}, Abilities{WallStick: true}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := newMovementRig(cfg, collision.NewSpace())
			r.update(Input{MoveX: 1}, GroundState{}, c.wall, c.ab)
			if c.blocked && r.body.Vel.X != 0 {
				t.Errorf("expected input into the wall blocked, got Vel.X=%v", r.body.Vel.X)
			}
			if !c.blocked && r.body.Vel.X != cfg.RunSpeed {
				t.Errorf("expected full speed, got Vel.X=%v", r.body.Vel.X)
			}
		})
	}
}

func TestWallStickFreezes(t *testing.T) {
	cfg := config.Default()
	r := newMovementRig(cfg, collision.NewSpace())
	r.resolver.sticking = true
	r.body.Vel = cp.Vector{X: 100, Y: 200}

	r.update(Input{MoveX: 1}, GroundState{}, WallState{ContactCount: 3}, Abilities{WallStick: true})
	if r.body.Vel != (cp.Vector{}) {
		t.Errorf("stick should zero velocity, got %v", r.body.Vel)
	}
	if r.body.GravityScale != 0 {
		t.Errorf("stick should zero gravity, got %v", r.body.GravityScale)
	}
}

func TestWallSlideClamp(t *testing.T) {
	cfg := config.Default()
	r := newMovementRig(cfg, collision.NewSpace())
	r.resolver.snap.WallSliding = true
	r.body.Vel.Y = 300

	r.update(Input{}, GroundState{}, WallState{OnWall: true, ContactCount: 3}, Abilities{WallStick: true})
	if r.body.Vel.Y != cfg.WallSlideSpeed {
		t.Errorf("slide should clamp descent to %v, got %v", cfg.WallSlideSpeed, r.body.Vel.Y)
	}
}

func TestMantleBoost(t *testing.T) {
	cfg := config.Default()
	r := newMovementRig(cfg, collision.NewSpace())
	r.body.Vel.Y = 30

	r.update(Input{MoveX: 1}, GroundState{Grounded: true, GroundedByBuffer: true, BufferClimbing: true}, WallState{}, Abilities{})
	if r.body.Vel.Y != -cfg.ClimbBoostY {
		t.Errorf("mantle should boost upward to %v, got %v", -cfg.ClimbBoostY, r.body.Vel.Y)
	}
	if r.body.Vel.X != cfg.ClimbBoostX {
		t.Errorf("mantle should carry forward at %v, got %v", cfg.ClimbBoostX, r.body.Vel.X)
	}
}

func TestSlopeReprojection(t *testing.T) {
	cfg := config.Default()
	r := newMovementRig(cfg, collision.NewSpace())
	// ~31 degree slope rising to the right.
	n := cp.Vector{X: -0.514, Y: -0.857}
	st := GroundState{Grounded: true, GroundedBySlope: true, OnSlope: true, SlopeNormal: n, SlopeAngle: 31}

	r.update(Input{MoveX: 1}, st, WallState{}, Abilities{})
	if r.body.Vel.X <= 0 || r.body.Vel.Y >= 0 {
		t.Errorf("running up-slope should move right and up, got %v", r.body.Vel)
	}
	speed := r.body.Vel.Length()
	if diff := speed - cfg.RunSpeed; diff > 1 || diff < -1 {
		t.Errorf("slope speed should stay ~%v, got %v", cfg.RunSpeed, speed)
	}

	r.update(Input{MoveX: -1}, st, WallState{}, Abilities{})
	if r.body.Vel.X >= 0 || r.body.Vel.Y <= 0 {
		t.Errorf("running down-slope should move left and down, got %v", r.body.Vel)
	}
}

func TestSlopeHold(t *testing.T) {
	cfg := config.Default()
	r := newMovementRig(cfg, collision.NewSpace())
	n := cp.Vector{X: -0.514, Y: -0.857}
	st := GroundState{Grounded: true, GroundedBySlope: true, OnSlope: true, SlopeNormal: n, SlopeAngle: 31}

	for i := 0; i < 10; i++ {
		r.update(Input{}, st, WallState{}, Abilities{})
	}
	if r.body.Vel.X != 0 {
		t.Errorf("idle on a slope should not drift, got Vel.X=%v", r.body.Vel.X)
	}
	if r.body.Vel.Y < 0 {
		t.Errorf("the anti-slide correction must not produce lift, got Vel.Y=%v", r.body.Vel.Y)
	}
}

func TestPlatformDeltaConsumed(t *testing.T) {
	cfg := config.Default()
	r := newMovementRig(cfg, collision.NewSpace())
	start := r.body.Pos

	r.movement.SetPlatformDelta(cp.Vector{X: 5, Y: -2})
	r.update(Input{}, grounded, WallState{}, Abilities{})
	if r.body.Pos.X != start.X+5 || r.body.Pos.Y != start.Y-2 {
		t.Errorf("platform delta not applied: %v", r.body.Pos)
	}

	moved := r.body.Pos
	r.update(Input{}, grounded, WallState{}, Abilities{})
	if r.body.Pos != moved {
		t.Errorf("platform delta must be consumed after one tick")
	}
}
