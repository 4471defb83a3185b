package meshing

// Cube corner numbering, in lattice offsets from the cell's minimum corner.
var cornerOffsets = [8][3]int{
	{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
}

// edgeCorners lists the two corners joined by each of the 12 cube edges.
var edgeCorners = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// faceLoops walks the corners of each cube face so that (c1-c0) x (c2-c1) points out
// of the cube: -z, +z, -y, +y, -x, +x.
var faceLoops = [6][4]int{
	{0, 3, 2, 1},
	{4, 5, 6, 7},
	{0, 1, 5, 4},
	{3, 7, 6, 2},
	{0, 4, 7, 3},
	{1, 2, 6, 5},
}

var edgeIndex = buildEdgeIndex()

// edgeFaces[e] has bit f set when edge e borders face f of faceLoops.
var edgeFaces = buildEdgeFaces()

// edgeLowHigh orders each edge from its lower to its higher lattice corner, so cells
// sharing an edge interpolate it with identical arithmetic.
var edgeLowHigh = buildEdgeLowHigh()

var (
	// edgeTable[mask] has bit e set when edge e crosses the surface.
	edgeTable [256]uint16
	// triTable[mask] lists edge indices, three per triangle.
	triTable [256][]int8
)

func init() {
	for mask := range 256 {
		edgeTable[mask], triTable[mask] = buildCase(uint8(mask))
	}
}

func buildEdgeIndex() [8][8]int8 {
	var idx [8][8]int8
	for a := range idx {
		for b := range idx[a] {
			idx[a][b] = -1
		}
	}
	for e, c := range edgeCorners {
		idx[c[0]][c[1]] = int8(e)
		idx[c[1]][c[0]] = int8(e)
	}
	return idx
}

func buildEdgeFaces() [12]uint8 {
	var out [12]uint8
	for f, loop := range faceLoops {
		for i := range 4 {
			out[edgeIndex[loop[i]][loop[(i+1)%4]]] |= 1 << f
		}
	}
	return out
}

func buildEdgeLowHigh() [12][2]int {
	var out [12][2]int
	for e, c := range edgeCorners {
		a, b := cornerOffsets[c[0]], cornerOffsets[c[1]]
		if a[0]+a[1]+a[2] > b[0]+b[1]+b[2] {
			out[e] = [2]int{c[1], c[0]}
		} else {
			out[e] = c
		}
	}
	return out
}

// buildCase derives the crossing edges and triangles for one corner mask.
//
// On every face the surface enters across an out->in edge and leaves across the next
// crossing edge in loop order. Because each cube edge is walked in opposite directions
// by its two faces, these face segments chain into closed polygons around the solid
// corners; each polygon is fanned into triangles. Ambiguous faces always separate the
// solid corners, and neighbouring cells see the same face corners, so the resulting
// surface has no cracks between cells.
//
// The fan root is chosen so that no diagonal joins two edges of one face. The only mesh
// edges on a cell face are then the face segments, each shared with the neighbouring
// cell, and the surface stays manifold.
func buildCase(mask uint8) (uint16, []int8) {
	inside := func(c int) bool { return mask&(1<<c) != 0 }

	var edges uint16
	for e, c := range edgeCorners {
		if inside(c[0]) != inside(c[1]) {
			edges |= 1 << e
		}
	}
	if edges == 0 {
		return 0, nil
	}

	var next [12]int8
	for i := range next {
		next[i] = -1
	}
	for _, loop := range faceLoops {
		var crossing []int
		for i := range 4 {
			if inside(loop[i]) != inside(loop[(i+1)%4]) {
				crossing = append(crossing, i)
			}
		}
		for j, i := range crossing {
			a, b := loop[i], loop[(i+1)%4]
			if inside(a) || !inside(b) {
				continue
			}
			f := crossing[(j+1)%len(crossing)]
			next[edgeIndex[a][b]] = edgeIndex[loop[f]][loop[(f+1)%4]]
		}
	}

	var tris []int8
	var visited uint16
	for start := range int8(12) {
		if edges&(1<<start) == 0 || visited&(1<<start) != 0 {
			continue
		}
		var cycle []int8
		for e := start; e >= 0 && visited&(1<<e) == 0; e = next[e] {
			visited |= 1 << e
			cycle = append(cycle, e)
		}
		r := fanRoot(cycle)
		for i := 1; i+1 < len(cycle); i++ {
			tris = append(tris, cycle[r], cycle[(r+i)%len(cycle)], cycle[(r+i+1)%len(cycle)])
		}
	}
	return edges, tris
}

// fanRoot returns the first cycle position whose diagonals all cross the cell interior.
// Every case has one; 0 is returned if none did.
func fanRoot(cycle []int8) int {
	n := len(cycle)
	for r := range n {
		ok := true
		for i := 2; i < n-1; i++ {
			if edgeFaces[cycle[r]]&edgeFaces[cycle[(r+i)%n]] != 0 {
				ok = false
				break
			}
		}
		if ok {
			return r
		}
	}
	return 0
}
