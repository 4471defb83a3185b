package density

import (
	"image"
	"image/color"
	"io"

	"golang.org/x/image/bmp"

	"voxel-lod/internal/voxel"
)

// Slice renders the horizontal plane at height y as a size x size image, one pixel per
// step world units starting at (minX, minZ). Solid cells are dark green, empty cells are
// sky blue, and brightness fades with distance from the surface.
func Slice(s voxel.Sampler, y, minX, minZ float32, size int, step float32) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for px := range size {
		x := minX + float32(px)*step
		for pz := range size {
			z := minZ + float32(pz)*step
			img.SetRGBA(px, pz, shade(s.Density(x, y, z), step))
		}
	}
	return img
}

func shade(v, step float32) color.RGBA {
	// 8 pixels from the surface reach the darkest shade
	t := min(abs(v)/(8*step), 1)
	k := 1 - 0.7*t
	if v < 0 {
		return color.RGBA{R: uint8(60 * k), G: uint8(160 * k), B: uint8(60 * k), A: 255}
	}
	return color.RGBA{R: uint8(140 * k), G: uint8(190 * k), B: uint8(240 * k), A: 255}
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// WriteSliceBMP encodes a density slice as a BMP image.
func WriteSliceBMP(w io.Writer, s voxel.Sampler, y, minX, minZ float32, size int, step float32) error {
	return bmp.Encode(w, Slice(s, y, minX, minZ, size, step))
}
