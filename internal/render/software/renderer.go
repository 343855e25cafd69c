// Package software implements render.Renderer on the CPU. It needs no
// window or GPU, which makes it the backend for tests and headless
// snapshots. Shaders cannot be compiled; instead a Go fragment program is
// registered for each shader source.
package software

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"chosenoffset.com/lumen2d/internal/render"
)

// ErrNoProgram is returned by CompileShader for sources without a
// registered fragment program.
var ErrNoProgram = errors.New("no fragment program registered")

// circleSegments is the number of chords used to approximate a circle.
const circleSegments = 64

// Renderer implements render.Renderer on the CPU.
type Renderer struct {
	mu       sync.RWMutex
	programs map[string]render.FragmentProgram
}

// NewRenderer creates a software renderer.
func NewRenderer() *Renderer {
	return &Renderer{programs: make(map[string]render.FragmentProgram)}
}

var (
	_ render.Renderer          = (*Renderer)(nil)
	_ render.FragmentRegistrar = (*Renderer)(nil)
)

// RegisterFragment associates a Go program with a shader source.
func (r *Renderer) RegisterFragment(src []byte, program render.FragmentProgram) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.programs[string(src)] = program
}

// CompileShader looks up the program registered for src.
func (r *Renderer) CompileShader(src []byte) (render.Shader, error) {
	r.mu.RLock()
	program, ok := r.programs[string(src)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("software: compile %d-byte shader: %w", len(src), ErrNoProgram)
	}
	return &Shader{program: program}, nil
}

// NewImage creates a new transparent image.
func (r *Renderer) NewImage(width, height int) render.Image {
	return NewImage(width, height)
}

// FillCircle draws an antialiased filled circle.
func (r *Renderer) FillCircle(dst render.Image, x, y, radius float32, clr color.Color) {
	d := mustImage(dst)
	d.drawPath(clr, func(z *vector.Rasterizer, ox, oy float32) {
		circle(z, x-ox, y-oy, radius, false)
	}, circleBounds(x, y, radius))
}

// StrokeCircle draws an antialiased circle outline centred on the radius.
func (r *Renderer) StrokeCircle(dst render.Image, x, y, radius float32, strokeWidth float32, clr color.Color) {
	d := mustImage(dst)
	outer := radius + strokeWidth/2
	inner := max(radius-strokeWidth/2, 0)
	d.drawPath(clr, func(z *vector.Rasterizer, ox, oy float32) {
		circle(z, x-ox, y-oy, outer, false)
		if inner > 0 {
			circle(z, x-ox, y-oy, inner, true)
		}
	}, circleBounds(x, y, outer))
}

// DrawText draws text with its top-left corner at (x, y) using a fixed
// 7x13 bitmap font. The scale is ignored.
func (r *Renderer) DrawText(dst render.Image, text string, x, y int, clr color.Color, scale float64) {
	d := mustImage(dst)
	face := basicfont.Face7x13
	drawer := &font.Drawer{
		Dst:  d.RGBA(),
		Src:  image.NewUniform(clr),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	drawer.DrawString(text)
}

// MeasureText returns the size of text in the 7x13 font.
func (r *Renderer) MeasureText(text string, scale float64) (width, height int) {
	advance := font.MeasureString(basicfont.Face7x13, text)
	return int(float64(advance.Ceil()) * scale), int(13 * scale)
}

// Shader is a registered fragment program.
type Shader struct {
	program render.FragmentProgram
}

// Dispose is a no-op.
func (s *Shader) Dispose() {}

// drawPath rasterises a path over the given area and composites clr
// through it with source-over.
func (i *Image) drawPath(clr color.Color, path func(z *vector.Rasterizer, ox, oy float32), bounds image.Rectangle) {
	area := bounds.Intersect(i.rect)
	if area.Empty() {
		return
	}
	z := vector.NewRasterizer(area.Dx(), area.Dy())
	z.DrawOp = draw.Over
	path(z, float32(area.Min.X), float32(area.Min.Y))
	z.Draw(i.pix, area, image.NewUniform(clr), image.Point{})
}

// circle adds a closed polygon approximating a circle. Reversed circles
// cut holes out of forward ones.
func circle(z *vector.Rasterizer, cx, cy, radius float32, reverse bool) {
	for k := 0; k <= circleSegments; k++ {
		step := k
		if reverse {
			step = circleSegments - k
		}
		a := 2 * math.Pi * float64(step) / circleSegments
		px := cx + radius*float32(math.Cos(a))
		py := cy + radius*float32(math.Sin(a))
		if k == 0 {
			z.MoveTo(px, py)
		} else {
			z.LineTo(px, py)
		}
	}
	z.ClosePath()
}

func circleBounds(x, y, radius float32) image.Rectangle {
	r := float64(radius)
	return image.Rect(
		int(math.Floor(float64(x)-r)), int(math.Floor(float64(y)-r)),
		int(math.Ceil(float64(x)+r)), int(math.Ceil(float64(y)+r)),
	)
}
