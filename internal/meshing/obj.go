package meshing

import (
	"bufio"
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// WriteOBJ writes an unwelded triangle list as a Wavefront OBJ object.
// normals may be nil; otherwise it must match positions one to one.
func WriteOBJ(w io.Writer, name string, positions, normals []mgl32.Vec3) error {
	if normals != nil && len(normals) != len(positions) {
		return errors.Errorf("obj %q: %d normals for %d positions", name, len(normals), len(positions))
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "o %s\n", name)
	for _, p := range positions {
		fmt.Fprintf(bw, "v %g %g %g\n", p.X(), p.Y(), p.Z())
	}
	for _, n := range normals {
		fmt.Fprintf(bw, "vn %g %g %g\n", n.X(), n.Y(), n.Z())
	}
	for i := 1; i+2 <= len(positions); i += 3 {
		if normals != nil {
			fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d\n", i, i, i+1, i+1, i+2, i+2)
		} else {
			fmt.Fprintf(bw, "f %d %d %d\n", i, i+1, i+2)
		}
	}
	return bw.Flush()
}
