// Package formats implements import/export of mesh file formats.
package formats

import (
	"bufio"
	"fmt"
	"io"
	"os"

	math "github.com/voxelforge/vrpaint/pkg/math"
)

// WriteOBJ writes an indexed triangle mesh as Wavefront OBJ. The attribute
// slices must be the same length; indices must come in triples. OBJ has no
// vertex colors or tangents, so those attributes are not represented.
func WriteOBJ(w io.Writer, positions, normals []math.Vec3, uvs []math.Vec2, indices []uint32) error {
	if len(normals) != len(positions) || len(uvs) != len(positions) {
		return fmt.Errorf("obj: attribute lengths differ: %d positions, %d normals, %d uvs",
			len(positions), len(normals), len(uvs))
	}
	if len(indices)%3 != 0 {
		return fmt.Errorf("obj: index count %d is not a multiple of 3", len(indices))
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# vrpaint stroke: %d vertices, %d triangles\n", len(positions), len(indices)/3)

	for _, p := range positions {
		fmt.Fprintf(bw, "v %g %g %g\n", p.X, p.Y, p.Z)
	}
	for _, uv := range uvs {
		fmt.Fprintf(bw, "vt %g %g\n", uv.X, uv.Y)
	}
	for _, n := range normals {
		fmt.Fprintf(bw, "vn %g %g %g\n", n.X, n.Y, n.Z)
	}

	nVerts := uint32(len(positions))
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if a >= nVerts || b >= nVerts || c >= nVerts {
			return fmt.Errorf("obj: face %d references vertex beyond %d", i/3, nVerts)
		}
		// OBJ indices are 1-based; position, uv, and normal share an index.
		fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a+1, a+1, a+1, b+1, b+1, b+1, c+1, c+1, c+1)
	}

	return bw.Flush()
}

// WriteOBJFile writes the mesh to a file at path.
func WriteOBJFile(path string, positions, normals []math.Vec3, uvs []math.Vec2, indices []uint32) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("obj: %w", err)
	}
	defer f.Close()

	if err := WriteOBJ(f, positions, normals, uvs, indices); err != nil {
		return err
	}
	return f.Close()
}
