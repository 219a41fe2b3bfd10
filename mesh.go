package slepian

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"sync"

	"github.com/tphakala/go-slepian/internal/mesh"
)

// Mesh is a triangulated surface on which Slepian functions are built
// from the low-frequency Laplace-Beltrami eigenbasis. Bases are computed
// once per size and shared. A Mesh is safe for concurrent use.
type Mesh struct {
	m *mesh.Mesh

	mu     sync.Mutex
	bases  map[int]*mesh.Basis
	digest string
}

// NewMesh validates vertices and triangles.
func NewMesh(vertices [][3]float64, faces [][3]int) (*Mesh, error) {
	m, err := mesh.New(vertices, faces)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return wrapMesh(m), nil
}

// NewGridMesh returns a flat nx×ny grid spanning width×height.
func NewGridMesh(nx, ny int, width, height float64) (*Mesh, error) {
	m, err := mesh.Grid(nx, ny, width, height)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return wrapMesh(m), nil
}

// ReadMeshOFF reads a mesh in Object File Format.
func ReadMeshOFF(r io.Reader) (*Mesh, error) {
	m, err := mesh.ReadOFF(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return wrapMesh(m), nil
}

func wrapMesh(m *mesh.Mesh) *Mesh {
	return &Mesh{m: m, bases: make(map[int]*mesh.Basis)}
}

// NumVertices returns the vertex count.
func (m *Mesh) NumVertices() int { return m.m.NumVertices() }

// Vertex returns the coordinates of vertex i.
func (m *Mesh) Vertex(i int) [3]float64 { return m.m.Vertices[i] }

// Transform returns the harmonic transform onto the k lowest-frequency
// eigenfunctions.
func (m *Mesh) Transform(k int) (*MeshTransform, error) {
	b, err := m.basis(k)
	if err != nil {
		return nil, err
	}
	return &MeshTransform{basis: b}, nil
}

func (m *Mesh) basis(k int) (*mesh.Basis, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.bases[k]; ok {
		return b, nil
	}
	b, err := mesh.NewBasis(m.m, k)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	m.bases[k] = b
	return b, nil
}

// fingerprint hashes the geometry for cache keys.
func (m *Mesh) fingerprint() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.digest != "" {
		return m.digest
	}
	h := sha256.New()
	var buf [8]byte
	for _, v := range m.m.Vertices {
		for _, x := range v {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(x))
			h.Write(buf[:])
		}
	}
	for _, f := range m.m.Faces {
		for _, i := range f {
			binary.LittleEndian.PutUint64(buf[:], uint64(i))
			h.Write(buf[:])
		}
	}
	m.digest = hex.EncodeToString(h.Sum(nil)[:8])
	return m.digest
}

// MeshTransform maps vertex fields to and from eigenbasis coefficients:
// u_i = Σ_v M_v φ_i(v) u(v) and u(v) = Σ_i u_i φ_i(v).
type MeshTransform struct {
	basis *mesh.Basis
}

// Size returns the number of basis functions.
func (t *MeshTransform) Size() int { return t.basis.Size() }

// Eigenvalues returns the Laplace-Beltrami eigenvalues, ascending.
func (t *MeshTransform) Eigenvalues() []float64 { return t.basis.Eigenvalues }

// Forward projects a vertex field onto the basis.
func (t *MeshTransform) Forward(field []complex128) ([]complex128, error) {
	if n := t.basis.Mesh.NumVertices(); len(field) != n {
		return nil, fmt.Errorf("%w: %d values, mesh has %d vertices", ErrDimensionMismatch, len(field), n)
	}
	return t.basis.Forward(field), nil
}

// Inverse synthesizes a vertex field from basis coefficients.
func (t *MeshTransform) Inverse(coeffs []complex128) ([]complex128, error) {
	if len(coeffs) != t.basis.Size() {
		return nil, fmt.Errorf("%w: %d coefficients, basis has %d", ErrDimensionMismatch, len(coeffs), t.basis.Size())
	}
	return t.basis.Inverse(coeffs), nil
}

// MeshRegion is a named subset of mesh vertices.
type MeshRegion struct {
	Name     string
	Vertices []int
}

// RegionFromBox selects every vertex inside the axis-aligned box [lo, hi].
func RegionFromBox(m *Mesh, name string, lo, hi [3]float64) MeshRegion {
	r := MeshRegion{Name: name}
	for i, v := range m.m.Vertices {
		inside := true
		for c := range 3 {
			if v[c] < lo[c] || v[c] > hi[c] {
				inside = false
				break
			}
		}
		if inside {
			r.Vertices = append(r.Vertices, i)
		}
	}
	return r
}

// Key implements Region.
func (r MeshRegion) Key() string {
	sorted := slices.Clone(r.Vertices)
	slices.Sort(sorted)
	h := sha256.New()
	var buf [8]byte
	for _, v := range sorted {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}
	return "mesh_" + r.Name + "_n" + strconv.Itoa(len(sorted)) + "_" + hex.EncodeToString(h.Sum(nil)[:8])
}

func (r MeshRegion) validate(int) error {
	if len(r.Vertices) == 0 {
		return fmt.Errorf("%w: mesh region %q is empty", ErrInvalidRegion, r.Name)
	}
	return nil
}

// Weighting returns the region indicator over the mesh vertices.
func (r MeshRegion) Weighting(m *Mesh) ([]float64, error) {
	out := make([]float64, m.NumVertices())
	for _, v := range r.Vertices {
		if v < 0 || v >= len(out) {
			return nil, fmt.Errorf("%w: vertex %d outside mesh of %d vertices", ErrInvalidRegion, v, len(out))
		}
		out[v] = 1
	}
	return out, nil
}
