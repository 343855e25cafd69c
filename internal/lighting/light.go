package lighting

import (
	"math"

	"github.com/gogpu/gg"

	"chosenoffset.com/lumen2d/internal/core/shadows"
	"chosenoffset.com/lumen2d/internal/render"
)

// DefaultRadius is the radius of a newly created light, in pixels.
const DefaultRadius = 500

// Light is a point or cone light. Its glow is drawn as a triangle fan
// evaluated by the glow shader, and it casts shadows from every Shape in the
// System it is added to.
//
// Radius must be positive and the view angle must lie in (0, 2π]. Neither is
// enforced.
type Light struct {
	position        Vec3
	angle           float64
	viewAngle       float64
	radius          float64
	color           gg.RGBA
	bleed           float64
	linearizeFactor float64

	mesh      render.Mesh
	meshDirty bool
}

// NewLight returns an omnidirectional white light at the origin.
func NewLight() *Light {
	return &Light{
		viewAngle:       2 * math.Pi,
		radius:          DefaultRadius,
		color:           gg.White,
		linearizeFactor: 1,
		meshDirty:       true,
	}
}

// Position returns the light position.
func (l *Light) Position() Vec3 { return l.position }

// SetPosition moves the light.
func (l *Light) SetPosition(p Vec3) {
	l.position = p
	l.meshDirty = true
}

// Angle returns the direction the light faces, in radians.
func (l *Light) Angle() float64 { return l.angle }

// SetAngle sets the facing direction in radians. The value is stored as
// given; see WrapAngle.
func (l *Light) SetAngle(angle float64) {
	l.angle = angle
	l.meshDirty = true
}

// ViewAngle returns the width of the light cone, in radians.
func (l *Light) ViewAngle() float64 { return l.viewAngle }

// SetViewAngle sets the width of the light cone. 2π makes the light
// omnidirectional.
func (l *Light) SetViewAngle(viewAngle float64) {
	l.viewAngle = viewAngle
	l.meshDirty = true
}

// Radius returns the distance at which the glow reaches zero.
func (l *Light) Radius() float64 { return l.radius }

// SetRadius sets the glow radius. It also sets the length of shadow rays.
func (l *Light) SetRadius(radius float64) {
	l.radius = radius
	l.meshDirty = true
}

// Color returns the light colour (straight alpha).
func (l *Light) Color() gg.RGBA { return l.color }

// SetColor sets the light colour (straight alpha).
func (l *Light) SetColor(c gg.RGBA) {
	l.color = c
	l.meshDirty = true
}

// Bleed returns the inverse-square falloff coefficient.
func (l *Light) Bleed() float64 { return l.bleed }

// SetBleed sets the inverse-square falloff coefficient.
func (l *Light) SetBleed(bleed float64) { l.bleed = bleed }

// LinearizeFactor returns the linear falloff coefficient.
func (l *Light) LinearizeFactor() float64 { return l.linearizeFactor }

// SetLinearizeFactor sets the linear falloff coefficient.
func (l *Light) SetLinearizeFactor(f float64) { l.linearizeFactor = f }

// Update rebuilds the glow mesh if a setter changed it.
func (l *Light) Update() {
	if l.meshDirty {
		l.rebuildMesh()
	}
}

// Mesh returns the glow fan, rebuilding it first if it is stale.
func (l *Light) Mesh() render.Mesh {
	l.Update()
	return l.mesh
}

func (l *Light) rebuildMesh() {
	l.mesh = glowMesh(l.position, l.angle, l.viewAngle, l.radius, l.color)
	l.meshDirty = false
}

// Uniforms returns the glow shader inputs for the current state.
func (l *Light) Uniforms() map[string]any {
	return glowUniforms(l.position, l.radius, l.color, l.bleed, l.linearizeFactor)
}

// Draw paints the glow onto dst with normal blending.
func (l *Light) Draw(dst render.Image, res *Resources) {
	render.DrawMeshShader(dst, l.Mesh(), res.Glow, &render.DrawTrianglesShaderOptions{
		Uniforms: l.Uniforms(),
		Blend:    render.BlendSourceOver,
	})
}

// Reaches reports whether any part of the shape's bounding box lies within
// the light radius.
func (l *Light) Reaches(s *Shape) bool {
	if len(s.vertices) == 0 {
		return false
	}
	return shadows.DistanceToRect(l.position.XY(), s.Bounds()) < l.radius
}
