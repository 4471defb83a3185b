package octree

// Corner identifies one of the 8 child octants of a node.
//
// The ordering is canonical: splitting, descent, LOD refinement and population all
// index children with it. Letters read left/right (-x/+x), top/bottom (+y/-y),
// back/front (-z/+z).
type Corner uint8

const (
	LTB Corner = iota // -x +y -z
	RTB               // +x +y -z
	RTF               // +x +y +z
	LTF               // -x +y +z
	LBB               // -x -y -z
	RBB               // +x -y -z
	RBF               // +x -y +z
	LBF               // -x -y +z
)

var cornerSigns = [8][3]int32{
	LTB: {-1, 1, -1},
	RTB: {1, 1, -1},
	RTF: {1, 1, 1},
	LTF: {-1, 1, 1},
	LBB: {-1, -1, -1},
	RBB: {1, -1, -1},
	RBF: {1, -1, 1},
	LBF: {-1, -1, 1},
}

// cornerByBits maps (right | top<<1 | front<<2) to the canonical corner.
var cornerByBits = [8]Corner{LBB, RBB, LTB, RTB, LBF, RBF, LTF, RTF}

var cornerNames = [8]string{"LTB", "RTB", "RTF", "LTF", "LBB", "RBB", "RBF", "LBF"}

func (c Corner) String() string {
	if int(c) < len(cornerNames) {
		return cornerNames[c]
	}
	return "Corner(?)"
}

// Signs returns the -1/+1 offset direction of the corner on each axis.
func (c Corner) Signs() [3]int32 {
	return cornerSigns[c&7]
}

// ChildKeys returns the centers of the 8 children of parent in canonical order.
// offset is the child half-extent, i.e. half of the parent's.
func ChildKeys(parent Key, offset int32) [8]Key {
	var out [8]Key
	for i, s := range cornerSigns {
		out[i] = Key{
			X: parent.X + s[0]*offset,
			Y: parent.Y + s[1]*offset,
			Z: parent.Z + s[2]*offset,
		}
	}
	return out
}

// cornerOf returns the octant of center containing target.
// A coordinate equal to the center belongs to the + side, the same answer as
// floor((target - min) / childSize) on each axis.
func cornerOf(center, target Key) Corner {
	var bits uint8
	if target.X >= center.X {
		bits |= 1
	}
	if target.Y >= center.Y {
		bits |= 2
	}
	if target.Z >= center.Z {
		bits |= 4
	}
	return cornerByBits[bits]
}

// childToward returns the child center of center (child half-extent offset) containing target.
func childToward(center Key, offset int32, target Key) Key {
	s := cornerSigns[cornerOf(center, target)]
	return Key{
		X: center.X + s[0]*offset,
		Y: center.Y + s[1]*offset,
		Z: center.Z + s[2]*offset,
	}
}
