package lighting

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"chosenoffset.com/lumen2d/internal/render"
)

// call is one recorded draw operation.
type call struct {
	dst   string
	op    string
	src   string
	blend render.Blend
	n     int // vertex count
}

func (c call) String() string {
	return fmt.Sprintf("%s.%s(%s, %v, %d)", c.dst, c.op, c.src, c.blend, c.n)
}

// recorder is a render.Renderer that logs every operation instead of drawing.
type recorder struct {
	names      []string
	created    int
	calls      []call
	disposed   []string
	compileErr error
	registered map[string]render.FragmentProgram
}

func newRecorder(names ...string) *recorder {
	return &recorder{names: names}
}

func (r *recorder) NewImage(width, height int) render.Image {
	name := fmt.Sprintf("img%d", r.created)
	if r.created < len(r.names) {
		name = r.names[r.created]
	}
	r.created++
	return &fakeImage{rec: r, name: name, bounds: image.Rect(0, 0, width, height)}
}

func (r *recorder) CompileShader(src []byte) (render.Shader, error) {
	if r.compileErr != nil {
		return nil, r.compileErr
	}
	return &fakeShader{}, nil
}

func (r *recorder) FillCircle(dst render.Image, x, y, radius float32, clr color.Color) {}

func (r *recorder) StrokeCircle(dst render.Image, x, y, radius, strokeWidth float32, clr color.Color) {}

func (r *recorder) DrawText(dst render.Image, text string, x, y int, clr color.Color, scale float64) {}

func (r *recorder) MeasureText(text string, scale float64) (int, int) { return 0, 0 }

// calls on the named image only
func (r *recorder) callsOn(name string) []call {
	var out []call
	for _, c := range r.calls {
		if c.dst == name {
			out = append(out, c)
		}
	}
	return out
}

// registeringRecorder also accepts Go fragment programs.
type registeringRecorder struct {
	*recorder
}

func (r registeringRecorder) RegisterFragment(src []byte, p render.FragmentProgram) {
	if r.registered == nil {
		r.registered = make(map[string]render.FragmentProgram)
	}
	r.registered[string(src)] = p
}

type fakeShader struct{ disposed bool }

func (s *fakeShader) Dispose() { s.disposed = true }

type fakeImage struct {
	rec    *recorder
	name   string
	bounds image.Rectangle
}

func (i *fakeImage) Bounds() image.Rectangle { return i.bounds }
func (i *fakeImage) Size() (int, int)        { return i.bounds.Dx(), i.bounds.Dy() }

func (i *fakeImage) SubImage(r image.Rectangle) render.Image {
	return &fakeImage{rec: i.rec, name: i.name + "/sub", bounds: r.Intersect(i.bounds)}
}

func (i *fakeImage) Fill(clr color.Color) {
	i.rec.calls = append(i.rec.calls, call{dst: i.name, op: "Fill"})
}

func (i *fakeImage) Clear() {
	i.rec.calls = append(i.rec.calls, call{dst: i.name, op: "Clear"})
}

func (i *fakeImage) DrawImage(src render.Image, opts *render.DrawImageOptions) {
	c := call{dst: i.name, op: "DrawImage", src: src.(*fakeImage).name}
	if opts != nil {
		c.blend = opts.Blend
	}
	i.rec.calls = append(i.rec.calls, c)
}

func (i *fakeImage) DrawTriangles(vertices []render.Vertex, indices []uint16, img render.Image, opts *render.DrawTrianglesOptions) {
	c := call{dst: i.name, op: "DrawTriangles", src: img.(*fakeImage).name, n: len(vertices)}
	if opts != nil {
		c.blend = opts.Blend
	}
	i.rec.calls = append(i.rec.calls, c)
}

func (i *fakeImage) DrawTrianglesShader(vertices []render.Vertex, indices []uint16, shader render.Shader, opts *render.DrawTrianglesShaderOptions) {
	c := call{dst: i.name, op: "DrawTrianglesShader", src: "shader", n: len(vertices)}
	if opts != nil {
		c.blend = opts.Blend
	}
	i.rec.calls = append(i.rec.calls, c)
}

func (i *fakeImage) Dispose() {
	i.rec.disposed = append(i.rec.disposed, i.name)
}

var errCompile = errors.New("bad shader")
