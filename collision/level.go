package collision

import (
	"fmt"
	"os"

	"github.com/jakecoffman/cp"
	"gopkg.in/yaml.v3"
)

// LevelSpec is a minimal static-geometry description shared by the demo and
// integration tests.
type LevelSpec struct {
	SpawnX float64     `yaml:"spawn_x"`
	SpawnY float64     `yaml:"spawn_y"`
	Boxes  []BoxSpec   `yaml:"boxes"`
	Slopes []SlopeSpec `yaml:"slopes"`
	Ledges []BoxSpec   `yaml:"ledges"`
}

type BoxSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

type SlopeSpec struct {
	X1 float64 `yaml:"x1"`
	Y1 float64 `yaml:"y1"`
	X2 float64 `yaml:"x2"`
	Y2 float64 `yaml:"y2"`
}

// LoadLevel reads a LevelSpec from a yaml file.
func LoadLevel(path string) (LevelSpec, error) {
	var spec LevelSpec
	data, err := os.ReadFile(path)
	if err != nil {
		return spec, fmt.Errorf("level: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return spec, fmt.Errorf("level: parse %s: %w", path, err)
	}
	return spec, nil
}

// Build populates a fresh Space from the spec. Ledges land on the OneWay
// layer; everything else is Solid.
func (spec LevelSpec) Build() *Space {
	s := NewSpace()
	for _, b := range spec.Boxes {
		s.AddBox(b.X, b.Y, b.W, b.H, Solid)
	}
	for _, sl := range spec.Slopes {
		s.AddSegment(cp.Vector{X: sl.X1, Y: sl.Y1}, cp.Vector{X: sl.X2, Y: sl.Y2}, Solid)
	}
	for _, l := range spec.Ledges {
		s.AddBox(l.X, l.Y, l.W, l.H, OneWay)
	}
	return s
}
