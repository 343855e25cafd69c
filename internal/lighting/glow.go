package lighting

import (
	_ "embed"
	"math"

	"github.com/gogpu/gg"

	"chosenoffset.com/lumen2d/internal/render"
)

// GlowShaderSource is the Kage fragment shader that paints a light's glow.
//
//go:embed glow.kage
var GlowShaderSource []byte

// glowSegments is the number of fan slices in a full circle.
const glowSegments = 32

// minDistSq keeps the bleed term finite at the light's own position.
const minDistSq = 1e-4

// Attenuation returns the glow intensity in [0, 1] at distance dist from a
// light. It is zero at and beyond the radius.
func Attenuation(dist, radius, bleed, linearize float64) float64 {
	if radius <= 0 {
		return 0
	}
	a := (radius - dist) * (bleed/math.Max(dist*dist, minDistSq) + linearize/radius)
	return math.Min(math.Max(a, 0), 1)
}

// glowMesh builds the triangle fan covering the light's cone. The rim is
// pushed out so its chords stay outside the radius, and the last slice is
// shortened to end exactly at the view angle.
func glowMesh(pos Vec3, angle, viewAngle, radius float64, clr gg.RGBA) render.Mesh {
	if radius <= 0 || viewAngle <= 0 {
		return render.Mesh{Mode: render.MeshTriangleFan}
	}
	viewAngle = math.Min(viewAngle, 2*math.Pi)

	steps := max(1, int(math.Ceil(viewAngle/(2*math.Pi/glowSegments)-1e-9)))
	step := viewAngle / float64(steps)
	outer := radius / math.Cos(step/2)
	start := angle - viewAngle/2

	c := clr.Premultiply()
	vertices := make([]render.Vertex, 0, steps+2)
	vertices = append(vertices, render.Vertex{
		DstX:   float32(pos.X),
		DstY:   float32(pos.Y),
		ColorR: float32(c.R),
		ColorG: float32(c.G),
		ColorB: float32(c.B),
		ColorA: float32(c.A),
	})
	for i := 0; i <= steps; i++ {
		a := start + float64(i)*step
		vertices = append(vertices, render.Vertex{
			DstX: float32(pos.X + outer*math.Cos(a)),
			DstY: float32(pos.Y + outer*math.Sin(a)),
		})
	}
	return render.Mesh{Mode: render.MeshTriangleFan, Vertices: vertices}
}

// glowUniforms returns the shader uniforms for a light. The colour is
// premultiplied.
func glowUniforms(pos Vec3, radius float64, clr gg.RGBA, bleed, linearize float64) map[string]any {
	c := clr.Premultiply()
	return map[string]any{
		"LightPos":        []float32{float32(pos.X), float32(pos.Y), float32(pos.Z)},
		"LightColor":      []float32{float32(c.R), float32(c.G), float32(c.B), float32(c.A)},
		"Radius":          float32(radius),
		"Bleed":           float32(bleed),
		"LinearizeFactor": float32(linearize),
	}
}

// GlowProgram evaluates the glow shader on the CPU. It reads the same
// uniforms as GlowShaderSource.
func GlowProgram(uniforms map[string]any) render.Fragment {
	pos := uniformVec(uniforms, "LightPos", 3)
	clr := uniformVec(uniforms, "LightColor", 4)
	radius := uniformFloat(uniforms, "Radius")
	bleed := uniformFloat(uniforms, "Bleed")
	linearize := uniformFloat(uniforms, "LinearizeFactor")

	return func(x, y float64) gg.RGBA {
		dx, dy, dz := x-pos[0], y-pos[1], pos[2]
		a := Attenuation(math.Sqrt(dx*dx+dy*dy+dz*dz), radius, bleed, linearize)
		return gg.RGBA{R: clr[0] * a, G: clr[1] * a, B: clr[2] * a, A: clr[3] * a}
	}
}

func uniformFloat(uniforms map[string]any, name string) float64 {
	switch v := uniforms[name].(type) {
	case float32:
		return float64(v)
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

func uniformVec(uniforms map[string]any, name string, n int) []float64 {
	out := make([]float64, n)
	switch v := uniforms[name].(type) {
	case []float32:
		for i := 0; i < n && i < len(v); i++ {
			out[i] = float64(v[i])
		}
	case []float64:
		copy(out, v)
	}
	return out
}
