package meshing

import "github.com/go-gl/mathgl/mgl32"

// faceNormal returns normalize((v1-v0) x (v2-v1)), or zero for a degenerate triangle.
func faceNormal(v0, v1, v2 mgl32.Vec3) mgl32.Vec3 {
	n := v1.Sub(v0).Cross(v2.Sub(v1))
	if l := n.Len(); l > 1e-12 {
		return n.Mul(1 / l)
	}
	return mgl32.Vec3{}
}

// ComputeNormals returns one normal per vertex of an unwelded triangle list.
func ComputeNormals(positions []mgl32.Vec3) []mgl32.Vec3 {
	normals := make([]mgl32.Vec3, len(positions))
	for i := 0; i+2 < len(positions); i += 3 {
		n := faceNormal(positions[i], positions[i+1], positions[i+2])
		normals[i], normals[i+1], normals[i+2] = n, n, n
	}
	return normals
}

// ComputeIndexedNormals folds face normals into shared vertices. The first face touching
// a vertex sets its normal; each later face blends in at half weight.
func ComputeIndexedNormals(positions []mgl32.Vec3, indices []uint32) []mgl32.Vec3 {
	normals := make([]mgl32.Vec3, len(positions))
	seen := make([]bool, len(positions))
	for i := 0; i+2 < len(indices); i += 3 {
		tri := [3]uint32{indices[i], indices[i+1], indices[i+2]}
		if int(tri[0]) >= len(positions) || int(tri[1]) >= len(positions) || int(tri[2]) >= len(positions) {
			continue
		}
		n := faceNormal(positions[tri[0]], positions[tri[1]], positions[tri[2]])
		for _, idx := range tri {
			if !seen[idx] {
				normals[idx] = n
				seen[idx] = true
				continue
			}
			normals[idx] = lerp(n, normals[idx], 0.5)
		}
	}
	return normals
}

func lerp(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
