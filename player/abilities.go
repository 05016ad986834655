package player

// Abilities is the set of unlockable mechanics. An external progression
// system flips these between ticks; every gate re-reads them fresh each tick
// so an unlock takes effect on the next tick without transitional glitches.
type Abilities struct {
	DoubleJump  bool
	Dash        bool
	WallStick   bool
	LedgeGrab   bool
	AirAttack   bool
	DashAttack  bool
	ComboAttack bool
	DashJump    bool
}

// AllAbilities returns a gate with everything unlocked, the same shortcut the
// demo exposes behind its -ab flag.
func AllAbilities() Abilities {
	return Abilities{
		DoubleJump:  true,
		Dash:        true,
		WallStick:   true,
		LedgeGrab:   true,
		AirAttack:   true,
		DashAttack:  true,
		ComboAttack: true,
		DashJump:    true,
	}
}
