package render

import (
	"image"
	"math"

	"github.com/fogleman/fauxgl"

	"github.com/lumascene/handwave/pkg/gesture"
	"github.com/lumascene/handwave/pkg/scene"
)

const (
	sphereDetail  = 2
	cylinderStep  = 24
	gridThickness = 0.015
)

// Soft renders with the fauxgl software rasterizer. Not safe for
// concurrent use; the session renders from its loop goroutine only.
type Soft struct {
	cfg    Config
	ctx    *fauxgl.Context
	shapes map[scene.Kind]*fauxgl.Mesh

	gridSeed int64
	gridMesh *fauxgl.Mesh
}

// NewSoft builds the rasterizer context and the base primitive meshes.
// Primitives are kept in a unit [-1,1] bounding volume with y up, so
// an asset scale of s produces a shape about s units tall.
func NewSoft(cfg Config) *Soft {
	upright := fauxgl.Rotate(fauxgl.V(1, 0, 0), -math.Pi/2)

	cylinder := fauxgl.NewCylinder(cylinderStep, true)
	cylinder.Transform(upright)
	cone := fauxgl.NewCone(cylinderStep, true)
	cone.Transform(upright)

	return &Soft{
		cfg: cfg,
		ctx: fauxgl.NewContext(cfg.Width, cfg.Height),
		shapes: map[scene.Kind]*fauxgl.Mesh{
			scene.KindCube:     fauxgl.NewCube(),
			scene.KindSphere:   fauxgl.NewSphere(sphereDetail),
			scene.KindCylinder: cylinder,
			scene.KindCone:     cone,
		},
		gridSeed: -1,
	}
}

// Render draws one frame: grid first, then every asset, all under the
// group transform t.
func (r *Soft) Render(sc *scene.Scene, t gesture.Transform, cam scene.Camera) image.Image {
	r.ctx.ClearColorBufferWith(fauxgl.HexColor(r.cfg.Background))
	r.ctx.ClearDepthBuffer()

	eye := fauxgl.V(float64(cam.Position.X), float64(cam.Position.Y), float64(cam.Position.Z))
	center := fauxgl.V(float64(cam.LookAt.X), float64(cam.LookAt.Y), float64(cam.LookAt.Z))
	up := fauxgl.V(float64(cam.Up.X), float64(cam.Up.Y), float64(cam.Up.Z))
	aspect := float64(r.cfg.Width) / float64(r.cfg.Height)
	camera := fauxgl.LookAt(eye, center, up).Perspective(float64(cam.FOV), aspect, float64(cam.Near), float64(cam.Far))

	group := groupMatrix(t)

	if grid := r.grid(sc); grid != nil {
		r.draw(grid, group, camera, eye, r.cfg.GridColor)
	}

	for i := range sc.Assets {
		a := &sc.Assets[i]
		base, ok := r.shapes[a.Kind]
		if !ok {
			continue
		}
		s := float64(a.Scale) / 2
		local := fauxgl.Identity().
			Scale(fauxgl.V(s, s, s)).
			Rotate(fauxgl.V(0, 1, 0), float64(a.Rotation.Y)).
			Translate(fauxgl.V(float64(a.Position.X), float64(a.Position.Y), float64(a.Position.Z)))
		world := group.Mul(local)

		m := copyMesh(base)
		m.Transform(world)
		r.drawMesh(m, camera, eye, a.Color)
	}

	return r.ctx.Image()
}

// Close releases nothing today; the rasterizer is pure memory.
func (r *Soft) Close() error { return nil }

// groupMatrix builds translate * rotateXYZ * scale, so zoom applies
// first and pan last, matching how the gestures are meant to feel.
func groupMatrix(t gesture.Transform) fauxgl.Matrix {
	z := float64(t.Zoom)
	return fauxgl.Identity().
		Scale(fauxgl.V(z, z, z)).
		Rotate(fauxgl.V(0, 0, 1), float64(t.Rotation.Z)).
		Rotate(fauxgl.V(0, 1, 0), float64(t.Rotation.Y)).
		Rotate(fauxgl.V(1, 0, 0), float64(t.Rotation.X)).
		Translate(fauxgl.V(float64(t.Pan.X), float64(t.Pan.Y), float64(t.Pan.Z)))
}

func (r *Soft) draw(base *fauxgl.Mesh, group, camera fauxgl.Matrix, eye fauxgl.Vector, color string) {
	m := copyMesh(base)
	m.Transform(group)
	r.drawMesh(m, camera, eye, color)
}

func (r *Soft) drawMesh(m *fauxgl.Mesh, camera fauxgl.Matrix, eye fauxgl.Vector, color string) {
	shader := fauxgl.NewPhongShader(camera, fauxgl.V(0.45, 1, 0.65).Normalize(), eye)
	shader.ObjectColor = fauxgl.HexColor(color)
	r.ctx.Shader = shader
	r.ctx.DrawMesh(m)
}

// grid lazily builds the ground grid mesh, realized as thin stretched
// boxes since the rasterizer draws triangles. Rebuilt only when the
// scene changes.
func (r *Soft) grid(sc *scene.Scene) *fauxgl.Mesh {
	if len(sc.Grid) == 0 {
		return nil
	}
	if r.gridMesh != nil && r.gridSeed == sc.Seed {
		return r.gridMesh
	}

	mesh := fauxgl.NewEmptyMesh()
	for _, seg := range sc.Grid {
		mesh.Add(segmentBox(seg))
	}
	r.gridMesh = mesh
	r.gridSeed = sc.Seed
	return mesh
}

// segmentBox stretches a unit cube into a thin bar between the
// segment endpoints. Grid segments are axis-aligned so a scale plus
// translate is enough.
func segmentBox(seg scene.Segment) *fauxgl.Mesh {
	mx := (float64(seg.From.X) + float64(seg.To.X)) / 2
	my := (float64(seg.From.Y) + float64(seg.To.Y)) / 2
	mz := (float64(seg.From.Z) + float64(seg.To.Z)) / 2

	sx := math.Abs(float64(seg.To.X-seg.From.X))/2 + gridThickness
	sy := gridThickness
	sz := math.Abs(float64(seg.To.Z-seg.From.Z))/2 + gridThickness

	box := fauxgl.NewCube()
	box.Transform(fauxgl.Identity().
		Scale(fauxgl.V(sx, sy, sz)).
		Translate(fauxgl.V(mx, my, mz)))
	return box
}

// copyMesh clones triangles so per-frame transforms never touch the
// cached base shapes.
func copyMesh(m *fauxgl.Mesh) *fauxgl.Mesh {
	triangles := make([]*fauxgl.Triangle, len(m.Triangles))
	for i, t := range m.Triangles {
		c := *t
		triangles[i] = &c
	}
	return fauxgl.NewTriangleMesh(triangles)
}
