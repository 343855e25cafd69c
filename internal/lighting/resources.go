package lighting

import (
	"fmt"
	"image"
	"image/color"

	"chosenoffset.com/lumen2d/internal/render"
)

// Resources are the GPU objects shared by every light and shape: the glow
// shader and a one-pixel white texture that solid-colour meshes sample.
type Resources struct {
	Glow  render.Shader
	White render.Image

	whiteAtlas     render.Image
	whiteU, whiteV float32
}

// NewResources compiles the glow shader and creates the white texture.
// Backends that cannot compile Kage get GlowProgram registered first.
func NewResources(r render.Renderer) (*Resources, error) {
	if reg, ok := r.(render.FragmentRegistrar); ok {
		reg.RegisterFragment(GlowShaderSource, GlowProgram)
	}

	glow, err := r.CompileShader(GlowShaderSource)
	if err != nil {
		return nil, fmt.Errorf("lighting: compile glow shader: %w", err)
	}
	Logger().Info("glow shader compiled")

	// Sampling the centre of an interior pixel keeps filtering away from
	// the atlas edge.
	atlas := r.NewImage(3, 3)
	atlas.Fill(color.White)
	white := atlas.SubImage(image.Rect(1, 1, 2, 2))

	return &Resources{
		Glow:       glow,
		White:      white,
		whiteAtlas: atlas,
		whiteU:     1.5,
		whiteV:     1.5,
	}, nil
}

// solid points every vertex of the mesh at the white pixel.
func (res *Resources) solid(m render.Mesh) render.Mesh {
	vertices := make([]render.Vertex, len(m.Vertices))
	for i, v := range m.Vertices {
		v.SrcX, v.SrcY = res.whiteU, res.whiteV
		vertices[i] = v
	}
	return render.Mesh{Mode: m.Mode, Vertices: vertices}
}

// DrawSolid draws a mesh of vertex colours onto dst.
func (res *Resources) DrawSolid(dst render.Image, m render.Mesh, opts *render.DrawTrianglesOptions) {
	render.DrawMesh(dst, res.solid(m), res.White, opts)
}

// Dispose releases the shader and texture.
func (res *Resources) Dispose() {
	if res.Glow != nil {
		res.Glow.Dispose()
	}
	if res.whiteAtlas != nil {
		res.whiteAtlas.Dispose()
	}
}
