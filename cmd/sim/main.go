// Command sim runs the character controller headless against a scripted
// input sequence, printing state transitions. Useful for tuning passes and
// regression diffing without a window.
//
// The script is tengo and must define input(t) returning a map:
//
//	input := func(t) {
//	    return {move_x: 1.0, jump: t > 30 && t < 40, dash: t == 90, attack: false}
//	}
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/platforming/collision"
	"github.com/milk9111/platforming/config"
	"github.com/milk9111/platforming/player"
)

const dispatchScript = `
__out = input(__tick)
`

func main() {
	scriptPath := flag.String("script", "", "tengo input script (required)")
	ticks := flag.Int("ticks", 600, "number of ticks to simulate")
	tuningPath := flag.String("tuning", "", "tuning yaml (defaults when empty)")
	allAbilities := flag.Bool("ab", true, "unlock all abilities")
	flag.Parse()

	if *scriptPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	tuning := config.Default()
	if *tuningPath != "" {
		loaded, err := config.Load(*tuningPath)
		if err != nil {
			log.Fatalf("sim: %v", err)
		}
		tuning = loaded
	}

	compiled, err := compileScript(*scriptPath)
	if err != nil {
		log.Fatalf("sim: %v", err)
	}

	spec := simLevel()
	ctrl, err := player.New(tuning, spec.Build(), cp.Vector{X: spec.SpawnX, Y: spec.SpawnY})
	if err != nil {
		log.Fatalf("sim: %v", err)
	}
	if *allAbilities {
		ctrl.SetAbilities(player.AllAbilities())
	}

	var prev player.Snapshot
	var prevIn player.Input
	for t := 0; t < *ticks; t++ {
		in, err := scriptInput(compiled, t, prevIn)
		if err != nil {
			log.Fatalf("sim: tick %d: %v", t, err)
		}
		ctrl.Tick(in)
		prevIn = in

		snap := ctrl.Snapshot()
		if diff := describeTransitions(prev, snap); diff != "" {
			body := ctrl.Body()
			fmt.Printf("tick %4d  pos=(%6.1f,%6.1f)  %s\n", t, body.Pos.X, body.Pos.Y, diff)
		}
		prev = snap
	}
}

func compileScript(path string) (*tengo.Compiled, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	script := tengo.NewScript(append(src, []byte(dispatchScript)...))
	_ = script.Add("__tick", 0)
	_ = script.Add("__out", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile script: %w", err)
	}
	return compiled, nil
}

// scriptInput runs one script tick and derives edge events from the held
// states the script returns, the same way a device poller would.
func scriptInput(compiled *tengo.Compiled, tick int, prev player.Input) (player.Input, error) {
	if err := compiled.Set("__tick", tick); err != nil {
		return player.Input{}, err
	}
	if err := compiled.Run(); err != nil {
		return player.Input{}, err
	}
	out := compiled.Get("__out").Map()

	in := player.Input{
		MoveX: toFloat(out["move_x"]),
		Jump:  toBool(out["jump"]),
	}
	in.JumpPressed = in.Jump && !prev.Jump
	in.JumpReleased = !in.Jump && prev.Jump
	in.DashPressed = toBool(out["dash"])
	in.AttackPressed = toBool(out["attack"])
	return in, nil
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}

func toBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func describeTransitions(prev, cur player.Snapshot) string {
	var out string
	add := func(name string, was, is bool) {
		if was == is {
			return
		}
		if is {
			out += "+" + name + " "
		} else {
			out += "-" + name + " "
		}
	}
	add("grounded", prev.Grounded, cur.Grounded)
	add("running", prev.Running, cur.Running)
	add("jumping", prev.Jumping, cur.Jumping)
	add("falling", prev.Falling, cur.Falling)
	add("dashing", prev.Dashing, cur.Dashing)
	add("stick", prev.WallSticking, cur.WallSticking)
	add("slide", prev.WallSliding, cur.WallSliding)
	add("climb", prev.BufferClimbing, cur.BufferClimbing)
	add("attack", prev.Attacking, cur.Attacking)
	add("air_attack", prev.AirAttacking, cur.AirAttacking)
	add("dash_attack", prev.DashAttacking, cur.DashAttacking)
	if prev.Combo != cur.Combo {
		out += fmt.Sprintf("combo=%d ", cur.Combo)
	}
	return out
}

// simLevel mirrors the demo's builtin playground.
func simLevel() collision.LevelSpec {
	return collision.LevelSpec{
		SpawnX: 200,
		SpawnY: 560,
		Boxes: []collision.BoxSpec{
			{X: 0, Y: 600, W: 1280, H: 120},
			{X: 0, Y: 0, W: 40, H: 720},
			{X: 1240, Y: 0, W: 40, H: 720},
			{X: 760, Y: 360, W: 40, H: 240},
		},
		Slopes: []collision.SlopeSpec{
			{X1: 420, Y1: 600, X2: 620, Y2: 480},
		},
		Ledges: []collision.BoxSpec{
			{X: 260, Y: 420, W: 140, H: 10},
		},
	}
}
