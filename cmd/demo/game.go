package main

import (
	"fmt"
	"image/color"
	"log"

	"github.com/fsnotify/fsnotify"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/platforming/collision"
	"github.com/milk9111/platforming/config"
	"github.com/milk9111/platforming/player"
	"golang.org/x/image/colornames"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

type Game struct {
	frames int

	spec   collision.LevelSpec
	ctrl   *player.Controller
	poller *Poller

	tuningPath string
	watcher    *fsnotify.Watcher
	reload     chan struct{}
}

func NewGame(tuning config.Tuning, spec collision.LevelSpec, tuningPath string, allAbilities bool) (*Game, error) {
	ctrl, err := player.New(tuning, spec.Build(), cp.Vector{X: spec.SpawnX, Y: spec.SpawnY})
	if err != nil {
		return nil, err
	}
	if allAbilities {
		ctrl.SetAbilities(player.AllAbilities())
	}

	g := &Game{
		spec:       spec,
		ctrl:       ctrl,
		poller:     NewPoller(),
		tuningPath: tuningPath,
		reload:     make(chan struct{}, 1),
	}

	if tuningPath != "" {
		if err := g.watchTuning(); err != nil {
			log.Printf("demo: tuning watch disabled: %v", err)
		}
	}
	return g, nil
}

// watchTuning rebuilds the controller when the tuning file changes. The core
// itself never hot-reloads; the harness constructs a fresh controller from
// the new numbers at the character's current position.
func (g *Game) watchTuning() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(g.tuningPath); err != nil {
		_ = w.Close()
		return err
	}
	g.watcher = w
	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					select {
					case g.reload <- struct{}{}:
					default:
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("demo: tuning watch: %v", err)
			}
		}
	}()
	return nil
}

func (g *Game) applyReload() {
	tuning, err := config.Load(g.tuningPath)
	if err != nil {
		log.Printf("demo: tuning reload rejected: %v", err)
		return
	}
	ab := g.ctrl.Abilities()
	pos := g.ctrl.Body().Pos
	ctrl, err := player.New(tuning, g.spec.Build(), pos)
	if err != nil {
		log.Printf("demo: tuning reload rejected: %v", err)
		return
	}
	ctrl.SetAbilities(ab)
	g.ctrl = ctrl
	log.Printf("demo: tuning reloaded from %s", g.tuningPath)
}

func (g *Game) Update() error {
	g.frames++

	select {
	case <-g.reload:
		g.applyReload()
	default:
	}

	in := g.poller.Poll()
	g.ctrl.Tick(in)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 24, G: 26, B: 33, A: 255})

	for _, b := range g.spec.Boxes {
		vector.DrawFilledRect(screen, float32(b.X), float32(b.Y), float32(b.W), float32(b.H), colornames.Slategray, false)
	}
	for _, l := range g.spec.Ledges {
		vector.DrawFilledRect(screen, float32(l.X), float32(l.Y), float32(l.W), float32(l.H), colornames.Darkkhaki, false)
	}
	for _, s := range g.spec.Slopes {
		vector.StrokeLine(screen, float32(s.X1), float32(s.Y1), float32(s.X2), float32(s.Y2), 3, colornames.Slategray, false)
	}

	body := g.ctrl.Body()
	snap := g.ctrl.Snapshot()

	c := colornames.Cornflowerblue
	switch {
	case snap.Dashing:
		c = colornames.Gold
	case snap.WallSticking:
		c = colornames.Mediumpurple
	case snap.WallSliding:
		c = colornames.Orchid
	case snap.AirAttacking, snap.DashAttacking, snap.Attacking:
		c = colornames.Indianred
	}
	vector.DrawFilledRect(screen,
		float32(body.Pos.X-body.Width/2), float32(body.Pos.Y-body.Height/2),
		float32(body.Width), float32(body.Height), c, false)

	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"FPS: %.0f\ngrounded=%v run=%v jump=%v fall=%v dash=%v\nstick=%v slide=%v climb=%v\nattack=%v combo=%d air=%v dashatk=%v\nvel=(%.0f, %.0f)",
		ebiten.ActualFPS(),
		snap.Grounded, snap.Running, snap.Jumping, snap.Falling, snap.Dashing,
		snap.WallSticking, snap.WallSliding, snap.BufferClimbing,
		snap.Attacking, snap.Combo, snap.AirAttacking, snap.DashAttacking,
		snap.VelX, snap.VelY,
	))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}
