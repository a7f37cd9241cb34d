package raylens

import (
	"errors"
	"math"
	"testing"
)

// testSinglet builds a dispersion-free plano-convex singlet: R front
// surface, 8 mm center thickness, flat exit, image at the given back gap.
func testSinglet(t *testing.T, radius, backGap, epd Real) *Lens {
	t.Helper()
	cat := NewGlassCatalog()
	if err := cat.Register(NewConstantIndex("GLASS-1.517", 1.517)); err != nil {
		t.Fatal(err)
	}
	l := NewLensWithCatalog("singlet", cat)
	for _, sp := range []SurfaceSpec{
		{Thickness: math.Inf(1)},
		{Radius: radius, Thickness: 8, Material: "GLASS-1.517", IsStop: true},
		{Thickness: backGap},
		{},
	} {
		if err := l.AddSurface(sp); err != nil {
			t.Fatal(err)
		}
	}
	l.SetAperture(ApertureEPD, epd)
	l.SetFieldType(FieldAngle)
	l.AddField(0)
	l.AddWavelength(0.587, true)
	return l
}

func TestLens_ValidateOK(t *testing.T) {
	l := testSinglet(t, 653.245, 1265, 1200)
	if err := l.validate(); err != nil {
		t.Fatal(err)
	}
	if got := l.StopIndex(); got != 1 {
		t.Fatalf("stop index: %d", got)
	}
}

func TestLens_DefaultStop(t *testing.T) {
	l := testSinglet(t, 100, 50, 10)
	l.Surfaces[1].IsStop = false
	if err := l.validate(); err != nil {
		t.Fatal(err)
	}
	// policy: first surface after the object
	if got := l.StopIndex(); got != 1 {
		t.Fatalf("default stop index: %d", got)
	}
}

func TestLens_TooFewSurfaces(t *testing.T) {
	l := NewLens("bad")
	_ = l.AddSurface(SurfaceSpec{Thickness: math.Inf(1)})
	l.AddField(0)
	l.AddWavelength(0.55, true)
	if err := l.validate(); !errors.Is(err, ErrMalformedSequence) {
		t.Fatalf("expected ErrMalformedSequence, got %v", err)
	}
}

func TestLens_TwoStops(t *testing.T) {
	l := testSinglet(t, 100, 50, 10)
	l.Surfaces[2].IsStop = true
	if err := l.validate(); !errors.Is(err, ErrMalformedSequence) {
		t.Fatalf("expected ErrMalformedSequence, got %v", err)
	}
}

func TestLens_NonContiguousIndices(t *testing.T) {
	l := testSinglet(t, 100, 50, 10)
	l.Surfaces[2].Index = 7
	if err := l.validate(); !errors.Is(err, ErrMalformedSequence) {
		t.Fatalf("expected ErrMalformedSequence, got %v", err)
	}
}

func TestLens_PrimaryWavelengthRequired(t *testing.T) {
	l := testSinglet(t, 100, 50, 10)
	l.Wavelengths.Wavelengths[0].IsPrimary = false
	if err := l.validate(); !errors.Is(err, ErrMalformedSequence) {
		t.Fatalf("expected ErrMalformedSequence, got %v", err)
	}
	l.AddWavelength(0.486, true)
	l.AddWavelength(0.656, true)
	if err := l.validate(); !errors.Is(err, ErrMalformedSequence) {
		t.Fatalf("two primaries should fail, got %v", err)
	}
}

func TestLens_ObjectHeightNeedsFiniteObject(t *testing.T) {
	l := testSinglet(t, 100, 50, 10)
	l.SetFieldType(FieldObjectHeight)
	if err := l.validate(); !errors.Is(err, ErrMalformedSequence) {
		t.Fatalf("expected ErrMalformedSequence, got %v", err)
	}
	l.Surfaces[0].Thickness = 500
	if err := l.validate(); err != nil {
		t.Fatal(err)
	}
}

func TestLens_UnknownMaterial(t *testing.T) {
	l := NewLens("bad")
	err := l.AddSurface(SurfaceSpec{Material: "UNOBTAINIUM"})
	if !errors.Is(err, ErrUnknownMaterial) {
		t.Fatalf("expected ErrUnknownMaterial, got %v", err)
	}
}

func TestLens_CloneIsolation(t *testing.T) {
	l := testSinglet(t, 100, 50, 10)
	c := l.Clone()
	c.Surfaces[1].Radius = 42
	c.Fields.Fields[0].Y = 9
	if l.Surfaces[1].Radius != 100 || l.Fields.Fields[0].Y != 0 {
		t.Fatal("clone mutation leaked into the original")
	}
	// materials are shared, not copied
	if c.Surfaces[1].Material != l.Surfaces[1].Material {
		t.Fatal("materials should be shared between clones")
	}
}

func TestFieldSet_Normalized(t *testing.T) {
	fs := FieldSet{Type: FieldAngle}
	for _, y := range []Real{0, 15, 30, 45, 60, 75, 85} {
		fs.Add(y)
	}
	if got := fs.Normalized(Field{Y: 85}); !nearly(got, 1, eps) {
		t.Fatalf("max field should normalize to 1, got %g", got)
	}
	if got := fs.Normalized(Field{Y: 0}); got != 0 {
		t.Fatalf("axial field should normalize to 0, got %g", got)
	}
	if got := fs.Normalized(Field{Y: -85}); !nearly(got, -1, eps) {
		t.Fatalf("negative max should normalize to -1, got %g", got)
	}
}
