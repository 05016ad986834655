package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning is the full numeric surface of the character controller. Speeds are
// pixels per second, durations are seconds, angles are degrees. Loaded once at
// startup; never mutated mid-run.
type Tuning struct {
	TicksPerSecond float64 `yaml:"ticks_per_second"`
	Gravity        float64 `yaml:"gravity"`

	BodyWidth  float64 `yaml:"body_width"`
	BodyHeight float64 `yaml:"body_height"`

	// movement
	RunSpeed          float64 `yaml:"run_speed"`
	AttackRunScale    float64 `yaml:"attack_run_scale"`
	MaxSlopeAngle     float64 `yaml:"max_slope_angle"`
	ClimbBoostX       float64 `yaml:"climb_boost_x"`
	ClimbBoostY       float64 `yaml:"climb_boost_y"`
	ClimbMaxFallSpeed float64 `yaml:"climb_max_fall_speed"`
	WallSlideSpeed    float64 `yaml:"wall_slide_speed"`
	WallStickDuration float64 `yaml:"wall_stick_duration"`

	// dash
	DashSpeed        float64 `yaml:"dash_speed"`
	DashEndSpeed     float64 `yaml:"dash_end_speed"`
	DashDuration     float64 `yaml:"dash_duration"`
	DashCooldown     float64 `yaml:"dash_cooldown"`
	DashDebounce     float64 `yaml:"dash_debounce"`
	MaxDashes        int     `yaml:"max_dashes"`
	MaxAirDashes     int     `yaml:"max_air_dashes"`
	DashJumpWindow   float64 `yaml:"dash_jump_window"`
	DashJumpSpeedX   float64 `yaml:"dash_jump_speed_x"`
	DashJumpSpeedY   float64 `yaml:"dash_jump_speed_y"`
	DashJumpMomentum float64 `yaml:"dash_jump_momentum"`

	// jump
	MinJumpVelocity     float64 `yaml:"min_jump_velocity"`
	MaxJumpVelocity     float64 `yaml:"max_jump_velocity"`
	JumpHoldDuration    float64 `yaml:"jump_hold_duration"`
	VariableJumpClamped bool    `yaml:"variable_jump_clamped"`
	JumpHoldGravity     float64 `yaml:"jump_hold_gravity"`
	JumpCutVelocity     float64 `yaml:"jump_cut_velocity"`
	ExtraJumps          int     `yaml:"extra_jumps"`
	DoubleJumpDelay     float64 `yaml:"double_jump_delay"`
	ForcedFallSpeed     float64 `yaml:"forced_fall_speed"`
	ForcedFallDuration  float64 `yaml:"forced_fall_duration"`
	CoyoteTime          float64 `yaml:"coyote_time"`
	JumpBuffer          float64 `yaml:"jump_buffer"`
	WallJumpSpeedX      float64 `yaml:"wall_jump_speed_x"`
	WallJumpSpeedY      float64 `yaml:"wall_jump_speed_y"`
	NearWallJumpBoost   float64 `yaml:"near_wall_jump_boost"`
	SlopeJumpBoost      float64 `yaml:"slope_jump_boost"`

	// combat
	AttackDuration        float64 `yaml:"attack_duration"`
	ComboWindowStart      float64 `yaml:"combo_window_start"`
	ComboResetDelay       float64 `yaml:"combo_reset_delay"`
	AttackInputBuffer     float64 `yaml:"attack_input_buffer"`
	AirAttackDuration     float64 `yaml:"air_attack_duration"`
	DashAttackDuration    float64 `yaml:"dash_attack_duration"`
	DashAttackEarlyWindow float64 `yaml:"dash_attack_early_window"`
	DashAttackGrace       float64 `yaml:"dash_attack_grace"`
	AttackWatchdogPeriod  float64 `yaml:"attack_watchdog_period"`

	// sensing
	GroundProbeRadius  float64 `yaml:"ground_probe_radius"`
	SlopeRayLength     float64 `yaml:"slope_ray_length"`
	SlopeTolerance     float64 `yaml:"slope_tolerance"`
	WallRayLength      float64 `yaml:"wall_ray_length"`
	WallEndProbeLength float64 `yaml:"wall_end_probe_length"`
	WallNormalTol      float64 `yaml:"wall_normal_tolerance"`
	ClimbLipProbe      float64 `yaml:"climb_lip_probe"`
}

// Default returns the tuning used by the demo and most tests.
func Default() Tuning {
	return Tuning{
		TicksPerSecond: 60,
		Gravity:        1400,

		BodyWidth:  24,
		BodyHeight: 40,

		RunSpeed:          220,
		AttackRunScale:    0.35,
		MaxSlopeAngle:     50,
		ClimbBoostX:       90,
		ClimbBoostY:       180,
		ClimbMaxFallSpeed: 40,
		WallSlideSpeed:    80,
		WallStickDuration: 0.4,

		DashSpeed:        520,
		DashEndSpeed:     260,
		DashDuration:     0.18,
		DashCooldown:     0.9,
		DashDebounce:     0.05,
		MaxDashes:        2,
		MaxAirDashes:     1,
		DashJumpWindow:   0.12,
		DashJumpSpeedX:   380,
		DashJumpSpeedY:   430,
		DashJumpMomentum: 0.25,

		MinJumpVelocity:     360,
		MaxJumpVelocity:     360,
		JumpHoldDuration:    0.22,
		VariableJumpClamped: true,
		JumpHoldGravity:     0.45,
		JumpCutVelocity:     120,
		ExtraJumps:          1,
		DoubleJumpDelay:     0.1,
		ForcedFallSpeed:     160,
		ForcedFallDuration:  0.09,
		CoyoteTime:          0.1,
		JumpBuffer:          0.12,
		WallJumpSpeedX:      260,
		WallJumpSpeedY:      380,
		NearWallJumpBoost:   1.08,
		SlopeJumpBoost:      1.2,

		AttackDuration:        0.3,
		ComboWindowStart:      0.18,
		ComboResetDelay:       0.05,
		AttackInputBuffer:     0.2,
		AirAttackDuration:     0.28,
		DashAttackDuration:    0.32,
		DashAttackEarlyWindow: 0.05,
		DashAttackGrace:       0.1,
		AttackWatchdogPeriod:  0.5,

		GroundProbeRadius:  3,
		SlopeRayLength:     10,
		SlopeTolerance:     6,
		WallRayLength:      6,
		WallEndProbeLength: 4,
		WallNormalTol:      25,
		ClimbLipProbe:      12,
	}
}

// Load reads tuning from a yaml file, starting from defaults so a partial
// file only overrides what it names.
func Load(path string) (Tuning, error) {
	t := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("config: %s: %w", path, err)
	}
	return t, nil
}

// Validate fails fast on contradictory tuning. The runtime still tolerates a
// Tuning that skipped validation, but degrades (e.g. an inverted jump
// velocity range means no variable jump height) instead of crashing.
func (t Tuning) Validate() error {
	if t.TicksPerSecond <= 0 {
		return fmt.Errorf("ticks_per_second must be positive, got %v", t.TicksPerSecond)
	}
	if t.RunSpeed < 0 || t.DashSpeed < 0 {
		return fmt.Errorf("speeds must be non-negative")
	}
	if t.MaxJumpVelocity < t.MinJumpVelocity {
		return fmt.Errorf("max_jump_velocity %v < min_jump_velocity %v", t.MaxJumpVelocity, t.MinJumpVelocity)
	}
	if t.MaxDashes < 1 {
		return fmt.Errorf("max_dashes must be at least 1, got %d", t.MaxDashes)
	}
	if t.DashDuration <= 0 {
		return fmt.Errorf("dash_duration must be positive, got %v", t.DashDuration)
	}
	if t.AttackDuration <= 0 || t.AirAttackDuration <= 0 || t.DashAttackDuration <= 0 {
		return fmt.Errorf("attack durations must be positive")
	}
	if t.ComboWindowStart >= t.AttackDuration {
		return fmt.Errorf("combo_window_start %v must open before attack_duration %v", t.ComboWindowStart, t.AttackDuration)
	}
	if t.MaxSlopeAngle <= 1 || t.MaxSlopeAngle >= 90 {
		return fmt.Errorf("max_slope_angle must be in (1, 90), got %v", t.MaxSlopeAngle)
	}
	if t.BodyWidth <= 0 || t.BodyHeight <= 0 {
		return fmt.Errorf("body size must be positive")
	}
	return nil
}

// Dt returns the fixed timestep in seconds.
func (t Tuning) Dt() float64 {
	if t.TicksPerSecond <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / t.TicksPerSecond
}

// Ticks converts a duration in seconds to a whole tick count, rounding up so
// short windows never collapse to zero.
func (t Tuning) Ticks(seconds float64) int {
	if seconds <= 0 {
		return 0
	}
	n := int(seconds*t.TicksPerSecond + 0.999999)
	if n < 1 {
		n = 1
	}
	return n
}
