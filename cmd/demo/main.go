package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/platforming/collision"
	"github.com/milk9111/platforming/config"
)

func main() {
	allAbilities := flag.Bool("ab", false, "start with all abilities unlocked")
	tuningPath := flag.String("tuning", "", "tuning yaml (defaults used when empty); edits are hot-applied")
	levelPath := flag.String("level", "", "level yaml (builtin test level when empty)")
	flag.Parse()

	spec := builtinLevel()
	if *levelPath != "" {
		loaded, err := collision.LoadLevel(*levelPath)
		if err != nil {
			log.Fatalf("demo: %v", err)
		}
		spec = loaded
	}

	tuning := config.Default()
	if *tuningPath != "" {
		loaded, err := config.Load(*tuningPath)
		if err != nil {
			log.Fatalf("demo: %v", err)
		}
		tuning = loaded
	}

	game, err := NewGame(tuning, spec, *tuningPath, *allAbilities)
	if err != nil {
		log.Fatalf("demo: %v", err)
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("platforming demo")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

// builtinLevel is a small playground exercising every surface type: flat
// ground, a wall, a slope, and a one-way ledge.
func builtinLevel() collision.LevelSpec {
	return collision.LevelSpec{
		SpawnX: 200,
		SpawnY: 560,
		Boxes: []collision.BoxSpec{
			{X: 0, Y: 600, W: 1280, H: 120},    // floor
			{X: 0, Y: 0, W: 40, H: 720},        // left wall
			{X: 1240, Y: 0, W: 40, H: 720},     // right wall
			{X: 760, Y: 360, W: 40, H: 240},    // mid wall
			{X: 1000, Y: 440, W: 240, H: 160},  // raised block
		},
		Slopes: []collision.SlopeSpec{
			{X1: 420, Y1: 600, X2: 620, Y2: 480},
		},
		Ledges: []collision.BoxSpec{
			{X: 260, Y: 420, W: 140, H: 10},
		},
	}
}
