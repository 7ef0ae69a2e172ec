package scene

import (
	"testing"

	"cogentcore.org/core/math32"
)

func TestGenerateDeterministicForSeed(t *testing.T) {
	cfg := DefaultGenConfig()

	a := Generate(cfg, 42)
	b := Generate(cfg, 42)

	if len(a.Assets) != len(b.Assets) {
		t.Fatalf("asset counts differ: %d vs %d", len(a.Assets), len(b.Assets))
	}
	for i := range a.Assets {
		if a.Assets[i] != b.Assets[i] {
			t.Fatalf("asset %d differs between identical seeds:\n%+v\n%+v", i, a.Assets[i], b.Assets[i])
		}
	}
}

func TestGenerateDiffersAcrossSeeds(t *testing.T) {
	cfg := DefaultGenConfig()

	a := Generate(cfg, 1)
	b := Generate(cfg, 2)

	same := true
	for i := range a.Assets {
		if a.Assets[i] != b.Assets[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical scenes")
	}
}

func TestGenerateRespectsBounds(t *testing.T) {
	cfg := DefaultGenConfig()
	sc := Generate(cfg, 7)

	if len(sc.Assets) != cfg.AssetCount {
		t.Fatalf("expected %d assets, got %d", cfg.AssetCount, len(sc.Assets))
	}
	for i, a := range sc.Assets {
		r := math32.Sqrt(a.Position.X*a.Position.X + a.Position.Z*a.Position.Z)
		if r > cfg.ScatterRadius+1e-3 {
			t.Errorf("asset %d outside scatter radius: %f", i, r)
		}
		if a.Scale < cfg.MinScale || a.Scale > cfg.MaxScale {
			t.Errorf("asset %d scale out of range: %f", i, a.Scale)
		}
		if a.Position.Y < a.Scale/2-1e-3 {
			t.Errorf("asset %d sunk below the ground: %+v", i, a.Position)
		}
		if a.Color == "" {
			t.Errorf("asset %d has no color", i)
		}
	}
}

func TestGenerateGridCoversBothDirections(t *testing.T) {
	cfg := DefaultGenConfig()
	sc := Generate(cfg, 7)

	if len(sc.Grid) == 0 {
		t.Fatal("expected grid segments")
	}
	var alongX, alongZ int
	for _, s := range sc.Grid {
		if s.From.X == s.To.X {
			alongZ++
		}
		if s.From.Z == s.To.Z {
			alongX++
		}
	}
	if alongX == 0 || alongZ == 0 {
		t.Errorf("grid should run in both directions, got %d along x and %d along z", alongX, alongZ)
	}
}

func TestFacingIdentityRotationSelectsFront(t *testing.T) {
	side := Facing(math32.Vector3{}, math32.Vector3{}, math32.Vec3(0, 0, 10), DefaultCenterThreshold)
	if side != SideFront {
		t.Errorf("identity rotation with the camera on +z should face front, got %s", side)
	}
}

func TestFacingRotatedSides(t *testing.T) {
	cam := math32.Vec3(0, 0, 10)

	tests := []struct {
		name     string
		rotation math32.Vector3
		want     Side
	}{
		{"quarter turn left", math32.Vec3(0, math32.Pi/2, 0), SideLeft},
		{"quarter turn right", math32.Vec3(0, -math32.Pi/2, 0), SideRight},
		{"half turn", math32.Vec3(0, math32.Pi, 0), SideBack},
		{"tipped forward", math32.Vec3(math32.Pi/2, 0, 0), SideTop},
		{"tipped back", math32.Vec3(-math32.Pi/2, 0, 0), SideBottom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Facing(tt.rotation, math32.Vector3{}, cam, DefaultCenterThreshold)
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFacingDiagonalReadsCenter(t *testing.T) {
	// Tilted ~35deg and turned ~45deg, no face normal reaches 0.6
	// alignment with the view direction.
	rot := math32.Vec3(0.61, 0.79, 0)
	got := Facing(rot, math32.Vector3{}, math32.Vec3(0, 0, 10), DefaultCenterThreshold)
	if got != SideCenter {
		t.Errorf("edge-on orientation should read center, got %s", got)
	}
}

func TestFacingZeroDistance(t *testing.T) {
	got := Facing(math32.Vector3{}, math32.Vec3(1, 2, 3), math32.Vec3(1, 2, 3), DefaultCenterThreshold)
	if got != SideCenter {
		t.Errorf("camera at the group position should read center, got %s", got)
	}
}
