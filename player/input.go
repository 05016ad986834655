package player

// Input is the per-tick snapshot of player intent. The host polls devices
// however it likes (see cmd/demo) and hands the controller one of these each
// tick. Pressed/Released fields are edge events, true only on the tick the
// transition happened; Jump is the held state tracked between edges.
type Input struct {
	// MoveX is the horizontal axis in [-1, 1].
	MoveX float64
	// Jump is true while the jump button is logically held.
	Jump bool
	// JumpPressed is true on the tick the jump button went down.
	JumpPressed bool
	// JumpReleased is true on the tick the jump button went up.
	JumpReleased bool
	// DashPressed is true on the tick the dash button went down. The
	// controller debounces duplicate presses internally.
	DashPressed bool
	// AttackPressed is true on the tick the attack button went down.
	AttackPressed bool
}
