package mesh

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadOFF parses a triangle mesh in the Object File Format. Polygons
// with more than three vertices are fan-triangulated.
func ReadOFF(r io.Reader) (*Mesh, error) {
	sc := bufio.NewScanner(r)
	next := func() ([]string, error) {
		for sc.Scan() {
			line := sc.Text()
			if i := strings.IndexByte(line, '#'); i >= 0 {
				line = line[:i]
			}
			if fields := strings.Fields(line); len(fields) > 0 {
				return fields, nil
			}
		}
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, io.ErrUnexpectedEOF
	}

	header, err := next()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMesh, err)
	}
	if header[0] != "OFF" {
		return nil, fmt.Errorf("%w: missing OFF header", ErrInvalidMesh)
	}
	counts := header[1:]
	if len(counts) == 0 {
		if counts, err = next(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidMesh, err)
		}
	}
	if len(counts) < 2 {
		return nil, fmt.Errorf("%w: malformed counts line", ErrInvalidMesh)
	}
	nv, err1 := strconv.Atoi(counts[0])
	nf, err2 := strconv.Atoi(counts[1])
	if err1 != nil || err2 != nil || nv <= 0 || nf <= 0 {
		return nil, fmt.Errorf("%w: malformed counts %v", ErrInvalidMesh, counts)
	}

	vertices := make([][3]float64, nv)
	for i := range vertices {
		fields, err := next()
		if err != nil || len(fields) < 3 {
			return nil, fmt.Errorf("%w: vertex %d", ErrInvalidMesh, i)
		}
		for c := range 3 {
			if vertices[i][c], err = strconv.ParseFloat(fields[c], 64); err != nil {
				return nil, fmt.Errorf("%w: vertex %d: %v", ErrInvalidMesh, i, err)
			}
		}
	}

	faces := make([][3]int, 0, nf)
	for f := range nf {
		fields, err := next()
		if err != nil {
			return nil, fmt.Errorf("%w: face %d", ErrInvalidMesh, f)
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil || n < 3 || len(fields) < n+1 {
			return nil, fmt.Errorf("%w: face %d", ErrInvalidMesh, f)
		}
		idx := make([]int, n)
		for i := range n {
			if idx[i], err = strconv.Atoi(fields[i+1]); err != nil {
				return nil, fmt.Errorf("%w: face %d: %v", ErrInvalidMesh, f, err)
			}
		}
		for i := 1; i+1 < n; i++ {
			faces = append(faces, [3]int{idx[0], idx[i], idx[i+1]})
		}
	}
	return New(vertices, faces)
}
