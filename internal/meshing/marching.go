// Package meshing turns density lattices into triangle meshes with marching cubes.
package meshing

import (
	"github.com/go-gl/mathgl/mgl32"

	"voxel-lod/internal/voxel"
)

// DensityFunc returns the density at integer lattice coordinates.
type DensityFunc func(x, y, z int) float32

// Polygonize runs marching cubes over the lattice 0..cells on every axis.
//
// A corner is inside when its value is below isoLevel. The result is an unwelded
// triangle list in lattice units, three vertices per triangle, wound so that
// (p1-p0) x (p2-p1) points from solid toward empty space.
func Polygonize(density DensityFunc, cells int, isoLevel float32) []mgl32.Vec3 {
	var (
		out    []mgl32.Vec3
		values [8]float32
		verts  [12]mgl32.Vec3
	)
	for x := range cells {
		for y := range cells {
			for z := range cells {
				var mask uint8
				for c, o := range cornerOffsets {
					v := density(x+o[0], y+o[1], z+o[2])
					values[c] = v
					if v < isoLevel {
						mask |= 1 << c
					}
				}
				tris := triTable[mask]
				if len(tris) == 0 {
					continue
				}

				edges := edgeTable[mask]
				for e, pair := range edgeLowHigh {
					if edges&(1<<e) == 0 {
						continue
					}
					a, b := cornerOffsets[pair[0]], cornerOffsets[pair[1]]
					t := edgeT(isoLevel, values[pair[0]], values[pair[1]])
					verts[e] = mgl32.Vec3{
						float32(x+a[0]) + t*float32(b[0]-a[0]),
						float32(y+a[1]) + t*float32(b[1]-a[1]),
						float32(z+a[2]) + t*float32(b[2]-a[2]),
					}
				}
				for _, e := range tris {
					out = append(out, verts[e])
				}
			}
		}
	}
	return out
}

// PolygonizeGrid polygonizes every cell of a voxel grid.
func PolygonizeGrid(g *voxel.Grid, isoLevel float32) []mgl32.Vec3 {
	return Polygonize(g.At, voxel.Cells, isoLevel)
}

// edgeT is the interpolation parameter of the iso crossing between two samples.
func edgeT(isoLevel, v0, v1 float32) float32 {
	if v0 == v1 {
		return 0.5
	}
	return mgl32.Clamp((isoLevel-v0)/(v1-v0), 0, 1)
}
