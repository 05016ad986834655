package player

import (
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/platforming/config"
)

const maxAirAttacks = 2

// Combat owns the attack state machine: the three-hit ground combo, air
// attacks, dash attacks, input buffering, and the air-attack slot economy.
type Combat struct {
	cfg *config.Tuning

	combo         int // 0 when idle, 1..3 during the ground combo
	attacking     bool
	airAttacking  bool
	dashAttacking bool

	airAttacksUsed int
	canSecondAir   bool

	attackTicks     int
	comboWindowOpen bool
	comboGapTicks   int
	bufferTicks     int

	queuedDashAttack bool
	dashAttackAge    int
	watchdogTicks    int
}

func NewCombat(cfg *config.Tuning) *Combat {
	return &Combat{
		cfg:           cfg,
		watchdogTicks: cfg.Ticks(cfg.AttackWatchdogPeriod),
	}
}

func (c *Combat) Attacking() bool     { return c.attacking }
func (c *Combat) AirAttacking() bool  { return c.airAttacking }
func (c *Combat) DashAttacking() bool { return c.dashAttacking }
func (c *Combat) Combo() int          { return c.combo }
func (c *Combat) AirAttacksUsed() int { return c.airAttacksUsed }

// AnyAttackActive reports whether any branch currently drives a hitbox.
func (c *Combat) AnyAttackActive() bool {
	return c.attacking || c.airAttacking || c.dashAttacking
}

// GroundComboActive gates the "weighty" horizontal control scaling.
func (c *Combat) GroundComboActive() bool {
	return c.attacking && !c.airAttacking && !c.dashAttacking
}

// AttackMovement returns the explicit movement vector for attacks that drive
// their own motion. Dash attacks lunge forward through their first half; air
// attacks contribute nothing and simply preserve momentum.
func (c *Combat) AttackMovement(facing Facing) (cp.Vector, bool) {
	if c.dashAttacking {
		total := c.cfg.Ticks(c.cfg.DashAttackDuration)
		if c.attackTicks > total/2 {
			return cp.Vector{X: facing.Sign() * c.cfg.DashEndSpeed}, true
		}
		return cp.Vector{X: 0}, true
	}
	return cp.Vector{}, false
}

// HandleAttackInput resolves one attack press by priority. Inputs are always
// accepted; an input that can't act now is buffered for a short window.
func (c *Combat) HandleAttackInput(ground GroundState, ab Abilities, movement *Movement, now int64) {
	// (a) Mid-dash and past the too-early pre-window: queue for dash end.
	if ab.DashAttack && movement.Dashing() {
		if movement.DashElapsedTicks() > c.cfg.Ticks(c.cfg.DashAttackEarlyWindow) {
			c.queuedDashAttack = true
		} else {
			c.buffer()
		}
		return
	}

	// (b) Just after a dash ended: fire immediately.
	if ab.DashAttack && !c.AnyAttackActive() &&
		movement.TicksSinceDashEnd(now) <= int64(c.cfg.Ticks(c.cfg.DashAttackGrace)) {
		c.tryDashAttack(ground)
		return
	}

	// (c) Airborne with an air-attack slot available.
	if !ground.Grounded && ab.AirAttack && !c.AnyAttackActive() {
		if c.airSlotAvailable() {
			c.startAirAttack()
		} else {
			c.buffer()
		}
		return
	}

	// (d) Grounded and idle (or inside an open combo window): swing.
	if ground.Grounded && !c.airAttacking && !c.dashAttacking {
		if !c.attacking {
			c.startComboStep(1)
			return
		}
		if c.comboWindowOpen && ab.ComboAttack {
			c.advanceCombo()
			return
		}
	}

	// (e) Everything else: buffer so a release-then-repress mid-attack still
	// lands the next step.
	c.buffer()
}

// Update advances attack timers, chains buffered inputs, and runs the
// stuck-state watchdog. Call once per tick.
func (c *Combat) Update(ground GroundState, ab Abilities, movement *Movement, now int64) {
	if c.bufferTicks > 0 {
		c.bufferTicks--
	}

	if c.comboGapTicks > 0 {
		c.comboGapTicks--
		if c.comboGapTicks == 0 {
			c.startComboStep(1)
		}
	}

	if c.dashAttacking {
		c.dashAttackAge++
	}

	if c.AnyAttackActive() && c.attackTicks > 0 {
		c.attackTicks--

		if c.GroundComboActive() {
			elapsed := c.cfg.Ticks(c.cfg.AttackDuration) - c.attackTicks
			if !c.comboWindowOpen && elapsed >= c.cfg.Ticks(c.cfg.ComboWindowStart) {
				c.comboWindowOpen = true
			}
			if c.comboWindowOpen && c.bufferTicks > 0 && ab.ComboAttack {
				c.bufferTicks = 0
				c.advanceCombo()
				return
			}
		}

		if c.attackTicks == 0 {
			c.endCurrentAttack()
		}
	}

	// Buffered post-dash attack: the grace window is checked every tick so
	// a press buffered during the too-early window still fires.
	if c.bufferTicks > 0 && !c.AnyAttackActive() && ab.DashAttack &&
		!movement.Dashing() &&
		movement.TicksSinceDashEnd(now) <= int64(c.cfg.Ticks(c.cfg.DashAttackGrace)) {
		c.bufferTicks = 0
		c.tryDashAttack(ground)
	}

	c.runWatchdog()
}

// OnDashEnd fires a queued dash attack the instant the dash finishes.
func (c *Combat) OnDashEnd(ground GroundState, ab Abilities) {
	if !c.queuedDashAttack {
		return
	}
	c.queuedDashAttack = false
	if ab.DashAttack {
		c.tryDashAttack(ground)
	}
}

// OnDoubleJump unlocks the second air-attack slot for this airborne session.
func (c *Combat) OnDoubleJump() {
	c.canSecondAir = true
}

// OnLanding clears the air economy and cancels an in-flight air attack.
func (c *Combat) OnLanding() {
	c.airAttacksUsed = 0
	c.canSecondAir = false
	if c.airAttacking {
		c.ResetAttackSystem()
	}
}

// OnAttackAnimationEnd is the host's end-of-animation notification; either
// this or the duration timer terminates an attack, whichever lands first.
func (c *Combat) OnAttackAnimationEnd() {
	if c.AnyAttackActive() {
		c.endCurrentAttack()
	}
}

// ResetAttackSystem clears every attack flag and timer. Idempotent and safe
// from any state; it is the landing pad for stuck-state recovery.
func (c *Combat) ResetAttackSystem() {
	c.combo = 0
	c.attacking = false
	c.airAttacking = false
	c.dashAttacking = false
	c.attackTicks = 0
	c.comboWindowOpen = false
	c.comboGapTicks = 0
	c.bufferTicks = 0
	c.queuedDashAttack = false
	c.dashAttackAge = 0
}

func (c *Combat) buffer() {
	c.bufferTicks = c.cfg.Ticks(c.cfg.AttackInputBuffer)
}

func (c *Combat) airSlotAvailable() bool {
	if c.airAttacksUsed == 0 {
		return true
	}
	return c.airAttacksUsed == 1 && c.canSecondAir
}

func (c *Combat) startAirAttack() {
	c.airAttacksUsed++
	c.airAttacking = true
	c.attacking = false
	c.dashAttacking = false
	c.attackTicks = c.cfg.Ticks(c.cfg.AirAttackDuration)
}

// tryDashAttack starts a dash attack. Airborne it shares the air-attack slot
// pool and is blocked outright once both slots are spent.
func (c *Combat) tryDashAttack(ground GroundState) {
	if !ground.Grounded {
		if !c.airSlotAvailable() {
			return
		}
		c.airAttacksUsed++
	}
	c.dashAttacking = true
	c.attacking = false
	c.airAttacking = false
	c.dashAttackAge = 0
	c.attackTicks = c.cfg.Ticks(c.cfg.DashAttackDuration)
}

func (c *Combat) startComboStep(step int) {
	c.combo = step
	c.attacking = true
	c.airAttacking = false
	c.dashAttacking = false
	c.comboWindowOpen = false
	c.attackTicks = c.cfg.Ticks(c.cfg.AttackDuration)
}

func (c *Combat) advanceCombo() {
	if c.combo >= 3 {
		// Loop back to step 1 through a very short gap so animation state
		// resets cleanly.
		c.attacking = false
		c.combo = 0
		c.comboWindowOpen = false
		c.attackTicks = 0
		c.comboGapTicks = c.cfg.Ticks(c.cfg.ComboResetDelay)
		return
	}
	c.startComboStep(c.combo + 1)
}

func (c *Combat) endCurrentAttack() {
	c.attacking = false
	c.airAttacking = false
	c.dashAttacking = false
	c.combo = 0
	c.comboWindowOpen = false
	c.attackTicks = 0
	c.dashAttackAge = 0
}

// runWatchdog periodically force-resets a dash attack that blew well past
// its expected duration; the only timeout-style recovery in the system.
func (c *Combat) runWatchdog() {
	if c.watchdogTicks > 0 {
		c.watchdogTicks--
		return
	}
	c.watchdogTicks = c.cfg.Ticks(c.cfg.AttackWatchdogPeriod)
	if c.dashAttacking && c.dashAttackAge > 2*c.cfg.Ticks(c.cfg.DashAttackDuration) {
		log.Printf("combat: dash attack exceeded %d ticks, force resetting", c.dashAttackAge)
		c.ResetAttackSystem()
	}
}
