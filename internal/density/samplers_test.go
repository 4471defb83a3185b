package density

import (
	"bytes"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/bmp"

	"voxel-lod/internal/config"
)

func TestHeightfieldSign(t *testing.T) {
	h := Heightfield{Noise: DefaultNoise(7), Scale: 32, Amplitude: 4, Base: 10}
	for _, p := range [][2]float32{{0, 0}, {13.5, -40}, {100, 3}} {
		height := h.Height(p[0], p[1])
		if height < 10 || height > 18 {
			t.Fatalf("Height%v = %v outside [10, 18]", p, height)
		}
		if d := h.Density(p[0], height-1, p[1]); d >= 0 {
			t.Errorf("below surface at %v: density %v, want solid", p, d)
		}
		if d := h.Density(p[0], height+1, p[1]); d < 0 {
			t.Errorf("above surface at %v: density %v, want empty", p, d)
		}
	}
}

func TestCavesAltitudeBias(t *testing.T) {
	c := Caves{Noise: DefaultNoise(3), Scale: 16, BaseHeight: 0, Gradient: 8}
	// |noise| <= 1 so the bias decides far from BaseHeight
	if d := c.Density(5, -20, 5); d >= 0 {
		t.Errorf("deep point density %v, want solid", d)
	}
	if d := c.Density(5, 20, 5); d < 0 {
		t.Errorf("high point density %v, want empty", d)
	}
}

func TestHalfSpaceAndSphere(t *testing.T) {
	hs := HalfSpace{Normal: mgl32.Vec3{0, 1, 0}}
	if hs.Density(3, -1, 9) != -1 || hs.Density(3, 0, 9) != 0 {
		t.Error("half-space density is not y")
	}
	s := Sphere{Center: mgl32.Vec3{1, 2, 3}, Radius: 2}
	if d := s.Density(1, 2, 3); d != -2 {
		t.Errorf("sphere center density %v, want -2", d)
	}
	if d := s.Density(1, 6, 3); d != 2 {
		t.Errorf("sphere outside density %v, want 2", d)
	}
}

func TestEditableBrushes(t *testing.T) {
	e := NewEditable(HalfSpace{Normal: mgl32.Vec3{0, 1, 0}})

	e.Apply(Brush{Center: mgl32.Vec3{0, 10, 0}, Radius: 3})
	if d := e.Density(0, 10, 0); d >= 0 {
		t.Errorf("added sphere center density %v, want solid", d)
	}
	if d := e.Density(0, 20, 0); d < 0 {
		t.Errorf("far point made solid by brush: %v", d)
	}

	e.Apply(Brush{Center: mgl32.Vec3{0, -5, 0}, Radius: 2, Subtract: true})
	if d := e.Density(0, -5, 0); d != 2 {
		t.Errorf("carved center density %v, want 2", d)
	}
	if d := e.Density(0, -20, 0); d >= 0 {
		t.Errorf("deep point emptied by carve: %v", d)
	}

	if n := len(e.Strokes()); n != 2 {
		t.Fatalf("Strokes() has %d entries, want 2", n)
	}
	e.Reset()
	if d := e.Density(0, 10, 0); d != 10 {
		t.Errorf("after Reset density %v, want 10", d)
	}
}

func TestBrushBounds(t *testing.T) {
	lo, hi := Brush{Center: mgl32.Vec3{1, 2, 3}, Radius: 4}.Bounds()
	if lo != (mgl32.Vec3{-3, -2, -1}) || hi != (mgl32.Vec3{5, 6, 7}) {
		t.Fatalf("Bounds = %v, %v", lo, hi)
	}
}

func TestSliceBMP(t *testing.T) {
	var buf bytes.Buffer
	s := Sphere{Radius: 8}
	if err := WriteSliceBMP(&buf, s, 0, -16, -16, 32, 1); err != nil {
		t.Fatalf("WriteSliceBMP: %v", err)
	}
	img, err := bmp.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 32 {
		t.Fatalf("image size %v", b)
	}
	// center pixel is inside the sphere (green dominant), corner is outside (blue dominant)
	_, g, bl, _ := img.At(16, 16).RGBA()
	if g <= bl {
		t.Errorf("center pixel not solid colored")
	}
	_, g, bl, _ = img.At(0, 0).RGBA()
	if bl <= g {
		t.Errorf("corner pixel not empty colored")
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default().Noise
	for _, kind := range []string{config.KindHeightfield, config.KindCaves, config.KindHalfSpace, config.KindSphere} {
		cfg.Kind = kind
		s, err := FromConfig(cfg)
		if err != nil || s == nil {
			t.Errorf("FromConfig(%s) = %v, %v", kind, s, err)
		}
	}
	cfg.Kind = "perlin"
	if _, err := FromConfig(cfg); err == nil {
		t.Error("unknown kind accepted")
	}
}
