package render

import (
	"image/color"
	"math"
	"testing"

	"cogentcore.org/core/math32"
	"github.com/fogleman/fauxgl"

	"github.com/lumascene/handwave/pkg/gesture"
	"github.com/lumascene/handwave/pkg/scene"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Width = 96
	cfg.Height = 80
	return cfg
}

func TestRenderProducesPopulatedFrame(t *testing.T) {
	r := NewSoft(testConfig())
	defer r.Close()

	sc := scene.Generate(scene.DefaultGenConfig(), 42)
	img := r.Render(sc, gesture.Identity(), scene.DefaultCamera())

	b := img.Bounds()
	if b.Dx() != 96 || b.Dy() != 80 {
		t.Fatalf("unexpected frame size %dx%d", b.Dx(), b.Dy())
	}

	bg := color.NRGBAModel.Convert(img.At(0, 0))
	drawn := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if color.NRGBAModel.Convert(img.At(x, y)) != bg {
				drawn++
			}
		}
	}
	if drawn == 0 {
		t.Error("render produced only background pixels")
	}
}

func TestRenderEmptySceneIsBackgroundOnly(t *testing.T) {
	r := NewSoft(testConfig())
	defer r.Close()

	img := r.Render(&scene.Scene{}, gesture.Identity(), scene.DefaultCamera())

	b := img.Bounds()
	first := img.At(b.Min.X, b.Min.Y)
	for y := b.Min.Y; y < b.Max.Y; y += 7 {
		for x := b.Min.X; x < b.Max.X; x += 7 {
			if img.At(x, y) != first {
				t.Fatalf("empty scene should render uniformly, pixel %d,%d differs", x, y)
			}
		}
	}
}

func TestGroupMatrixScalesThenTranslates(t *testing.T) {
	tr := gesture.Identity()
	tr.Zoom = 2
	tr.Pan.X = 1

	got := groupMatrix(tr).MulPosition(fauxgl.V(1, 0, 0))
	if math.Abs(got.X-3) > 1e-9 || math.Abs(got.Y) > 1e-9 || math.Abs(got.Z) > 1e-9 {
		t.Errorf("zoom should apply before pan: got %+v, want (3,0,0)", got)
	}
}

func TestSegmentBoxSpansEndpoints(t *testing.T) {
	seg := scene.Segment{
		From: math32.Vec3(-4, 0, 1),
		To:   math32.Vec3(4, 0, 1),
	}
	box := segmentBox(seg).BoundingBox()

	if box.Min.X > -4+1e-6 || box.Max.X < 4-1e-6 {
		t.Errorf("bar should span x from -4 to 4, got %+v", box)
	}
	if math.Abs(box.Min.Z-1) > gridThickness*2 || math.Abs(box.Max.Z-1) > gridThickness*2 {
		t.Errorf("bar should hug z=1, got %+v", box)
	}
}

func TestCopyMeshLeavesBaseUntouched(t *testing.T) {
	base := fauxgl.NewCube()
	before := base.BoundingBox()

	m := copyMesh(base)
	m.Transform(fauxgl.Identity().Scale(fauxgl.V(10, 10, 10)))

	after := base.BoundingBox()
	if before != after {
		t.Errorf("transforming a copy must not move the base mesh: %+v -> %+v", before, after)
	}
}
