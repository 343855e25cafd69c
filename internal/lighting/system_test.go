package lighting

import (
	"errors"
	"image"
	"reflect"
	"testing"

	"chosenoffset.com/lumen2d/internal/core/shadows"
	"chosenoffset.com/lumen2d/internal/render"
)

func square(x, y, size float64) shadows.Polygon {
	return shadows.Polygon{
		{X: x, Y: y},
		{X: x + size, Y: y},
		{X: x + size, Y: y + size},
		{X: x, Y: y + size},
	}
}

// newTestSystem returns a system whose images are named atlas, light, scene
// and screen in allocation order.
func newTestSystem(t *testing.T, opts *Options) (*System, *recorder, render.Image) {
	t.Helper()
	rec := newRecorder("atlas", "light", "scene", "screen")
	res, err := NewResources(rec)
	if err != nil {
		t.Fatalf("NewResources() error = %v", err)
	}
	sys := NewSystem(rec, res, opts)
	sys.Setup()
	screen := rec.NewImage(100, 100)
	rec.calls = nil
	return sys, rec, screen
}

func TestSystem_DrawBlendOrder(t *testing.T) {
	sys, rec, screen := newTestSystem(t, &Options{Viewport: image.Pt(100, 100)})

	sys.AddLight(NewLight())
	sys.AddShape(NewShape(square(10, 10, 10)))
	sys.AddShape(NewShape(square(30, 30, 10)))
	sys.Update()
	sys.Draw(screen)

	want := []call{
		{dst: "scene", op: "Clear"},
		{dst: "light", op: "Clear"},
		{dst: "light", op: "DrawTrianglesShader", src: "shader", blend: render.BlendSourceOver, n: glowSegments + 2},
		{dst: "light", op: "DrawTriangles", src: "atlas/sub", blend: render.BlendMultiply, n: 6},
		{dst: "light", op: "DrawTriangles", src: "atlas/sub", blend: render.BlendMultiply, n: 6},
		{dst: "scene", op: "DrawImage", src: "light", blend: render.BlendAdd},
		{dst: "screen", op: "DrawImage", src: "scene", blend: render.BlendSourceOver},
	}
	if !reflect.DeepEqual(rec.calls, want) {
		t.Errorf("Draw() calls:\n got %v\nwant %v", rec.calls, want)
	}

	if got, want := sys.Stats(), (Stats{Lights: 1, Masks: 2}); got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
}

func TestSystem_DrawShapesAfterLights(t *testing.T) {
	sys, rec, screen := newTestSystem(t, &Options{Viewport: image.Pt(100, 100), DrawShapes: true})

	sys.AddLight(NewLight())
	sys.AddLight(NewLight())
	sys.AddShape(NewShape(square(10, 10, 10)))
	sys.Draw(screen)

	var ops []string
	for _, c := range rec.callsOn("scene") {
		ops = append(ops, c.op+" "+c.blend.String())
	}
	want := []string{
		"Clear source-over",
		"DrawImage add",
		"DrawImage add",
		"DrawTriangles source-over",
	}
	if !reflect.DeepEqual(ops, want) {
		t.Errorf("scene ops = %v, want %v", ops, want)
	}
}

func TestSystem_DuplicatesAndRemoval(t *testing.T) {
	sys, _, screen := newTestSystem(t, &Options{Viewport: image.Pt(64, 64)})

	l := NewLight()
	sh := NewShape(square(10, 10, 10))
	sys.AddLight(l)
	sys.AddShapes([]*Shape{sh, sh})

	sys.Draw(screen)
	if got := sys.Stats().Masks; got != 2 {
		t.Errorf("masks with duplicate shape = %d, want 2", got)
	}

	sys.RemoveShape(sh)
	if got := len(sys.Shapes()); got != 1 {
		t.Fatalf("len(Shapes()) after one removal = %d, want 1", got)
	}

	sys.RemoveShape(NewShape(square(0, 0, 1)))
	sys.RemoveLight(NewLight())
	if len(sys.Shapes()) != 1 || len(sys.Lights()) != 1 {
		t.Errorf("removing non-members changed the system: %d lights, %d shapes", len(sys.Lights()), len(sys.Shapes()))
	}

	sys.RemoveShapes([]*Shape{sh})
	sys.RemoveLights([]*Light{l})
	if len(sys.Shapes()) != 0 || len(sys.Lights()) != 0 {
		t.Errorf("system not empty: %d lights, %d shapes", len(sys.Lights()), len(sys.Shapes()))
	}
}

func TestSystem_RemoveFirstOccurrence(t *testing.T) {
	sys := NewSystem(newRecorder(), nil, nil)
	a, b := NewLight(), NewLight()
	sys.AddLights([]*Light{a, b, a})

	sys.RemoveLight(a)
	if got, want := sys.Lights(), []*Light{b, a}; !reflect.DeepEqual(got, want) {
		t.Errorf("Lights() = %v, want %v", got, want)
	}
}

func TestSystem_ListsAreCopies(t *testing.T) {
	sys := NewSystem(newRecorder(), nil, nil)
	sys.AddShape(NewShape(square(0, 0, 1)))

	shapes := sys.Shapes()
	shapes[0] = nil
	if sys.Shapes()[0] == nil {
		t.Error("Shapes() exposed the internal slice")
	}

	sys.ClearShapes()
	sys.ClearLights()
	if len(sys.Shapes()) != 0 || len(sys.Lights()) != 0 {
		t.Error("Clear did not empty the system")
	}
}

func TestSystem_EntitiesLightsThenShapes(t *testing.T) {
	sys, _, _ := newTestSystem(t, nil)
	l1, l2 := NewLight(), NewLight()
	sh := NewShape(square(0, 0, 10))
	sys.AddShape(sh)
	sys.AddLights([]*Light{l1, l2})

	var got []Entity
	for e := range sys.Entities() {
		got = append(got, e)
	}
	if want := []Entity{l1, l2, sh}; !reflect.DeepEqual(got, want) {
		t.Errorf("Entities() = %v, want %v", got, want)
	}

	for range sys.Entities() {
		break
	}
}

func TestSystem_UpdateRebuildsStaleMeshes(t *testing.T) {
	sys, _, _ := newTestSystem(t, nil)
	l := NewLight()
	sh := NewShape(square(0, 0, 10))
	sys.AddLight(l)
	sys.AddShape(sh)

	l.SetRadius(40)
	sh.SetShape(square(5, 5, 10))
	sys.Update()
	if l.meshDirty || sh.meshDirty {
		t.Errorf("after Update: light dirty %v, shape dirty %v, want both clean", l.meshDirty, sh.meshDirty)
	}
}

func TestSystem_WindowResized(t *testing.T) {
	rec := newRecorder("l1", "s1", "l2", "s2")
	sys := NewSystem(rec, nil, nil)

	sys.WindowResized(100, 50)
	if w, h := sys.Size(); w != 100 || h != 50 {
		t.Fatalf("Size() = %d, %d, want 100, 50", w, h)
	}

	sys.WindowResized(200, 80)
	if w, h := sys.Size(); w != 200 || h != 80 {
		t.Errorf("Size() = %d, %d, want 200, 80", w, h)
	}
	if want := []string{"l1", "s1"}; !reflect.DeepEqual(rec.disposed, want) {
		t.Errorf("disposed = %v, want %v", rec.disposed, want)
	}

	sys.WindowResized(0, 80)
	sys.WindowResized(10, -1)
	if w, h := sys.Size(); w != 200 || h != 80 {
		t.Errorf("non-positive resize changed Size() to %d, %d", w, h)
	}
	if rec.created != 4 {
		t.Errorf("created %d images, want 4", rec.created)
	}

	sys.Dispose()
	if w, h := sys.Size(); w != 0 || h != 0 {
		t.Errorf("Size() after Dispose = %d, %d", w, h)
	}
}

func TestSystem_DrawAllocatesFromDestination(t *testing.T) {
	rec := newRecorder("atlas", "screen", "light", "scene")
	res, err := NewResources(rec)
	if err != nil {
		t.Fatal(err)
	}
	screen := rec.NewImage(320, 240)

	sys := NewSystem(rec, res, nil)
	sys.Setup()
	if w, _ := sys.Size(); w != 0 {
		t.Fatalf("Setup() without viewport allocated layers")
	}

	sys.Draw(screen)
	if w, h := sys.Size(); w != 320 || h != 240 {
		t.Errorf("Size() after Draw = %d, %d, want 320, 240", w, h)
	}
}

func TestSystem_CullOutOfRange(t *testing.T) {
	sys, _, screen := newTestSystem(t, &Options{Viewport: image.Pt(100, 100), CullOutOfRange: true})

	l := NewLight()
	l.SetRadius(50)
	sys.AddLight(l)
	sys.AddShape(NewShape(square(10, 10, 10)))
	sys.AddShape(NewShape(square(400, 400, 10)))
	sys.Draw(screen)

	if got, want := sys.Stats(), (Stats{Lights: 1, Masks: 1, Culled: 1}); got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
}

func TestSystem_EmptyMaskSkipped(t *testing.T) {
	sys, rec, screen := newTestSystem(t, &Options{Viewport: image.Pt(100, 100)})

	l := NewLight()
	l.SetPosition(Vec3{X: 15, Y: 15})
	sys.AddLight(l)
	sys.AddShape(NewShape(square(10, 10, 10)))
	sys.Draw(screen)

	if got := sys.Stats().EmptyMasks; got != 1 {
		t.Errorf("EmptyMasks = %d, want 1", got)
	}
	for _, c := range rec.callsOn("light") {
		if c.op == "DrawTriangles" {
			t.Errorf("mask drawn for a light inside its shape: %v", c)
		}
	}
}

func TestSystem_Ambient(t *testing.T) {
	sys, rec, screen := newTestSystem(t, &Options{
		Viewport: image.Pt(10, 10),
		Ambient:  DefaultShapeColor,
	})
	sys.Draw(screen)

	got := rec.callsOn("scene")
	if len(got) < 2 || got[0].op != "Clear" || got[1].op != "Fill" {
		t.Errorf("scene ops = %v, want Clear then Fill", got)
	}
}

func TestNewResources(t *testing.T) {
	rec := registeringRecorder{newRecorder()}
	res, err := NewResources(rec)
	if err != nil {
		t.Fatalf("NewResources() error = %v", err)
	}
	if _, ok := rec.registered[string(GlowShaderSource)]; !ok {
		t.Error("glow program not registered")
	}
	if w, h := res.White.Size(); w != 1 || h != 1 {
		t.Errorf("White size = %d, %d, want 1, 1", w, h)
	}

	res.Dispose()
	if !res.Glow.(*fakeShader).disposed {
		t.Error("Dispose() did not release the shader")
	}
}

func TestNewResources_CompileError(t *testing.T) {
	rec := newRecorder()
	rec.compileErr = errCompile
	if _, err := NewResources(rec); !errors.Is(err, errCompile) {
		t.Errorf("NewResources() error = %v, want wrapped %v", err, errCompile)
	}
}
