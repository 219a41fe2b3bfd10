// Package mesh implements harmonic analysis on triangle meshes: a
// cotangent Laplace-Beltrami operator with a lumped mass matrix, its
// low-frequency eigenbasis, and forward/inverse transforms between vertex
// fields and basis coefficients.
package mesh

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrInvalidMesh is returned for meshes that reference missing vertices
// or contain degenerate triangles.
var ErrInvalidMesh = errors.New("mesh: invalid mesh")

// degenerateArea is the triangle area below which a face is rejected.
const degenerateArea = 1e-14

// Mesh is a triangulated surface.
type Mesh struct {
	Vertices [][3]float64
	Faces    [][3]int
}

// New validates and wraps the given geometry.
func New(vertices [][3]float64, faces [][3]int) (*Mesh, error) {
	if len(vertices) == 0 || len(faces) == 0 {
		return nil, fmt.Errorf("%w: %d vertices, %d faces", ErrInvalidMesh, len(vertices), len(faces))
	}
	m := &Mesh{Vertices: vertices, Faces: faces}
	for f, face := range faces {
		for _, v := range face {
			if v < 0 || v >= len(vertices) {
				return nil, fmt.Errorf("%w: face %d references vertex %d", ErrInvalidMesh, f, v)
			}
		}
		if m.area(face) < degenerateArea {
			return nil, fmt.Errorf("%w: face %d is degenerate", ErrInvalidMesh, f)
		}
	}
	return m, nil
}

// Grid returns a flat nx×ny grid of squares in the z=0 plane spanning
// [0, width]×[0, height], each square split into two triangles.
func Grid(nx, ny int, width, height float64) (*Mesh, error) {
	if nx < 1 || ny < 1 || width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: grid %dx%d of size %gx%g", ErrInvalidMesh, nx, ny, width, height)
	}
	vertices := make([][3]float64, 0, (nx+1)*(ny+1))
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			vertices = append(vertices, [3]float64{
				width * float64(i) / float64(nx),
				height * float64(j) / float64(ny),
				0,
			})
		}
	}
	at := func(i, j int) int { return j*(nx+1) + i }
	faces := make([][3]int, 0, 2*nx*ny)
	for j := range ny {
		for i := range nx {
			faces = append(faces,
				[3]int{at(i, j), at(i+1, j), at(i+1, j+1)},
				[3]int{at(i, j), at(i+1, j+1), at(i, j+1)},
			)
		}
	}
	return New(vertices, faces)
}

// NumVertices returns the vertex count.
func (m *Mesh) NumVertices() int { return len(m.Vertices) }

// Mass returns the lumped (barycentric) mass matrix diagonal: each vertex
// receives a third of the area of every incident triangle.
func (m *Mesh) Mass() []float64 {
	mass := make([]float64, len(m.Vertices))
	for _, face := range m.Faces {
		a := m.area(face) / 3
		for _, v := range face {
			mass[v] += a
		}
	}
	return mass
}

// Stiffness returns the cotangent Laplacian
//
//	S_ij = -(cot α_ij + cot β_ij)/2,  S_ii = -Σ_j S_ij
//
// where α_ij, β_ij are the angles opposite edge ij. S is symmetric
// positive semi-definite with the constants in its kernel.
func (m *Mesh) Stiffness() *mat.SymDense {
	n := len(m.Vertices)
	s := mat.NewSymDense(n, nil)
	for _, face := range m.Faces {
		for c := range 3 {
			i, j, k := face[c], face[(c+1)%3], face[(c+2)%3]
			w := m.cot(k, i, j) / 2
			s.SetSym(i, j, s.At(i, j)-w)
			s.SetSym(i, i, s.At(i, i)+w)
			s.SetSym(j, j, s.At(j, j)+w)
		}
	}
	return s
}

// Area returns the total surface area.
func (m *Mesh) Area() float64 {
	var total float64
	for _, face := range m.Faces {
		total += m.area(face)
	}
	return total
}

func (m *Mesh) area(face [3]int) float64 {
	u := sub(m.Vertices[face[1]], m.Vertices[face[0]])
	v := sub(m.Vertices[face[2]], m.Vertices[face[0]])
	return norm(cross(u, v)) / 2
}

// cot returns the cotangent of the angle at vertex k between edges k→i
// and k→j.
func (m *Mesh) cot(k, i, j int) float64 {
	u := sub(m.Vertices[i], m.Vertices[k])
	v := sub(m.Vertices[j], m.Vertices[k])
	return dot(u, v) / norm(cross(u, v))
}

func sub(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func norm(a [3]float64) float64 {
	return math.Sqrt(dot(a, a))
}
