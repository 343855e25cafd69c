package render

// MeshMode describes how a Mesh's vertices form triangles.
type MeshMode int

const (
	// MeshTriangles uses every three vertices as one triangle.
	MeshTriangles MeshMode = iota
	// MeshTriangleFan shares vertex 0 between all triangles.
	MeshTriangleFan
	// MeshTriangleStrip forms a triangle from every run of three consecutive vertices.
	MeshTriangleStrip
)

// MaxMeshVertices is the largest vertex count that can be indexed with uint16.
const MaxMeshVertices = 1 << 16

// Mesh is a list of vertices together with the primitive mode that joins them.
type Mesh struct {
	Mode     MeshMode
	Vertices []Vertex
}

// Indices returns the triangle list for the mesh. It returns nil when the
// mesh has fewer than three vertices or too many to index.
func (m Mesh) Indices() []uint16 {
	n := len(m.Vertices)
	if n < 3 || n > MaxMeshVertices {
		return nil
	}

	var indices []uint16
	switch m.Mode {
	case MeshTriangles:
		indices = make([]uint16, 0, n-n%3)
		for i := 0; i+2 < n; i += 3 {
			indices = append(indices, uint16(i), uint16(i+1), uint16(i+2))
		}
	case MeshTriangleFan:
		indices = make([]uint16, 0, 3*(n-2))
		for i := 1; i+1 < n; i++ {
			indices = append(indices, 0, uint16(i), uint16(i+1))
		}
	case MeshTriangleStrip:
		indices = make([]uint16, 0, 3*(n-2))
		for i := 0; i+2 < n; i++ {
			indices = append(indices, uint16(i), uint16(i+1), uint16(i+2))
		}
	}
	return indices
}

// DrawMesh draws the mesh onto dst, sampling src for vertex texture coordinates.
func DrawMesh(dst Image, m Mesh, src Image, opts *DrawTrianglesOptions) {
	indices := m.Indices()
	if len(indices) == 0 {
		return
	}
	dst.DrawTriangles(m.Vertices, indices, src, opts)
}

// DrawMeshShader draws the mesh onto dst with a shader.
func DrawMeshShader(dst Image, m Mesh, shader Shader, opts *DrawTrianglesShaderOptions) {
	indices := m.Indices()
	if len(indices) == 0 {
		return
	}
	dst.DrawTrianglesShader(m.Vertices, indices, shader, opts)
}
