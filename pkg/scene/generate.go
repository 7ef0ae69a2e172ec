package scene

import (
	"math"
	"math/rand"

	"cogentcore.org/core/math32"
)

// GenConfig tunes procedural generation.
type GenConfig struct {
	// AssetCount is how many primitives to scatter.
	AssetCount int
	// ScatterRadius bounds asset positions in the ground plane.
	ScatterRadius float32
	// MinScale and MaxScale bound the uniform per-asset scale.
	MinScale float32
	MaxScale float32
	// FloatChance is the probability an asset hovers above the ground
	// instead of sitting on it.
	FloatChance float32
	// FloatHeight is the maximum hover height.
	FloatHeight float32
	// GridExtent is the half-width of the ground grid.
	GridExtent float32
	// GridStep is the spacing between grid lines.
	GridStep float32
	// Palette is the set of asset colors, as #RRGGBB strings.
	Palette []string
}

// DefaultGenConfig returns the demo look: two dozen shapes inside an
// 8-unit grid with a muted eight-color palette.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		AssetCount:    24,
		ScatterRadius: 6,
		MinScale:      0.3,
		MaxScale:      1.1,
		FloatChance:   0.25,
		FloatHeight:   2.5,
		GridExtent:    8,
		GridStep:      1,
		Palette: []string{
			"#4F8FBA", "#73BED3", "#A8CA58", "#DE9E41",
			"#A23E8C", "#C65197", "#E8C170", "#DA863E",
		},
	}
}

var kinds = []Kind{KindCube, KindSphere, KindCylinder, KindCone}

// Generate builds a scene from a seed. The same seed and config always
// produce the same scene.
func Generate(cfg GenConfig, seed int64) *Scene {
	rng := rand.New(rand.NewSource(seed))

	sc := &Scene{Seed: seed}
	sc.Grid = generateGrid(cfg)
	sc.Assets = make([]Asset, 0, cfg.AssetCount)

	for i := 0; i < cfg.AssetCount; i++ {
		kind := kinds[rng.Intn(len(kinds))]
		scale := cfg.MinScale + rng.Float32()*(cfg.MaxScale-cfg.MinScale)

		// Scatter in a disc so the corners of the grid stay clear.
		angle := rng.Float64() * 2 * math.Pi
		radius := math32.Sqrt(rng.Float32()) * cfg.ScatterRadius
		x := radius * float32(math.Cos(angle))
		z := radius * float32(math.Sin(angle))

		y := scale / 2
		if rng.Float32() < cfg.FloatChance {
			y += rng.Float32() * cfg.FloatHeight
		}

		sc.Assets = append(sc.Assets, Asset{
			Kind:     kind,
			Position: math32.Vec3(x, y, z),
			Scale:    scale,
			Rotation: math32.Vec3(0, rng.Float32()*2*math32.Pi, 0),
			Color:    cfg.Palette[rng.Intn(len(cfg.Palette))],
		})
	}
	return sc
}

// generateGrid lays out the ground lines in both directions.
func generateGrid(cfg GenConfig) []Segment {
	var grid []Segment
	for v := -cfg.GridExtent; v <= cfg.GridExtent; v += cfg.GridStep {
		grid = append(grid,
			Segment{From: math32.Vec3(v, 0, -cfg.GridExtent), To: math32.Vec3(v, 0, cfg.GridExtent)},
			Segment{From: math32.Vec3(-cfg.GridExtent, 0, v), To: math32.Vec3(cfg.GridExtent, 0, v)},
		)
	}
	return grid
}
