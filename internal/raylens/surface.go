package raylens

import (
	"fmt"
	"math"
)

// Surface is a single optical interface. Radius is the signed curvature
// radius along +Z (math.Inf = flat); Thickness is the signed distance to
// the next surface; Material is the medium *after* the interface (nil =
// air). Index 0 is the object, the last index is the image plane.
type Surface struct {
	Index        int
	Radius       Real
	Thickness    Real
	Material     Material
	Conic        Real
	IsStop       bool
	IsMirror     bool
	SemiAperture Real // physical clear semi-diameter; 0 = unbounded
}

func (s *Surface) flat() bool { return math.IsInf(s.Radius, 0) }

// curvature returns 1/R, with 0 meaning flat.
func (s *Surface) curvature() Real {
	if s.flat() {
		return 0
	}
	return 1 / s.Radius
}

// indexAfter returns the refractive index of the medium behind the surface.
func (s *Surface) indexAfter(wavelengthUm Real) Real {
	if s.Material == nil {
		return 1
	}
	return s.Material.IndexAt(wavelengthUm)
}

// ApertureType selects how the system aperture is declared.
type ApertureType int

const (
	ApertureEPD ApertureType = iota // entrance pupil diameter
	ApertureFNumber                 // image-space F-number
	ApertureNA                      // object-space numerical aperture
)

func (t ApertureType) String() string {
	switch t {
	case ApertureEPD:
		return "EPD"
	case ApertureFNumber:
		return "FNO"
	case ApertureNA:
		return "NA"
	}
	return "unknown"
}

type Aperture struct {
	Type  ApertureType
	Value Real
}

// SurfaceSpec carries the primitive values accepted by AddSurface.
// A zero Radius means flat (same zero-value defaulting the scene builders
// use elsewhere in this codebase).
type SurfaceSpec struct {
	Radius       Real
	Thickness    Real
	Material     string
	Conic        Real
	IsStop       bool
	IsMirror     bool
	SemiAperture Real
}

// Lens is a full sequential system: the ordered surface list plus the
// field, wavelength and aperture definitions. Build it once with the
// Add/Set methods; the optimizer may later mutate radii/thicknesses in
// place, but never the surface count or order.
type Lens struct {
	Name        string
	Surfaces    []Surface
	Fields      FieldSet
	Wavelengths WavelengthSet
	Aperture    Aperture

	catalog *GlassCatalog
}

func NewLens(name string) *Lens {
	return &Lens{Name: name, catalog: DefaultCatalog}
}

// NewLensWithCatalog uses an explicit glass catalog instead of the default.
func NewLensWithCatalog(name string, c *GlassCatalog) *Lens {
	return &Lens{Name: name, catalog: c}
}

// AddSurface appends the next surface. Indices are assigned contiguously;
// the first call creates the object surface.
func (l *Lens) AddSurface(sp SurfaceSpec) error {
	radius := sp.Radius
	if radius == 0 {
		radius = math.Inf(1)
	}
	mat, err := l.catalog.Lookup(sp.Material)
	if err != nil {
		return err
	}
	l.Surfaces = append(l.Surfaces, Surface{
		Index:        len(l.Surfaces),
		Radius:       radius,
		Thickness:    sp.Thickness,
		Material:     mat,
		Conic:        sp.Conic,
		IsStop:       sp.IsStop,
		IsMirror:     sp.IsMirror,
		SemiAperture: sp.SemiAperture,
	})
	return nil
}

func (l *Lens) SetAperture(t ApertureType, value Real) {
	l.Aperture = Aperture{Type: t, Value: value}
}

func (l *Lens) SetFieldType(t FieldType) { l.Fields.Type = t }

func (l *Lens) AddField(y Real) { l.Fields.Add(y) }

func (l *Lens) AddWavelength(value Real, isPrimary bool) {
	l.Wavelengths.Add(value, isPrimary)
}

// StopIndex returns the index of the stop surface. When none is marked the
// first surface after the object is the stop by policy.
func (l *Lens) StopIndex() int {
	for i := range l.Surfaces {
		if l.Surfaces[i].IsStop {
			return i
		}
	}
	if len(l.Surfaces) > 1 {
		return 1
	}
	return -1
}

// validate checks the structural invariants shared by every operation.
func (l *Lens) validate() error {
	if len(l.Surfaces) < 2 {
		return fmt.Errorf("%w: need at least object and image surfaces, got %d",
			ErrMalformedSequence, len(l.Surfaces))
	}
	stops := 0
	for i := range l.Surfaces {
		s := &l.Surfaces[i]
		if s.Index != i {
			return fmt.Errorf("%w: surface %d has index %d", ErrMalformedSequence, i, s.Index)
		}
		if s.IsStop {
			stops++
		}
		if i > 0 && !isFinite(s.Thickness) {
			return fmt.Errorf("%w: non-finite thickness on surface %d",
				ErrMalformedSequence, i)
		}
	}
	if stops > 1 {
		return fmt.Errorf("%w: %d stop surfaces", ErrMalformedSequence, stops)
	}
	if l.Surfaces[0].IsStop {
		return fmt.Errorf("%w: object surface marked as stop", ErrMalformedSequence)
	}
	if len(l.Fields.Fields) == 0 {
		return fmt.Errorf("%w: empty field set", ErrMalformedSequence)
	}
	if l.Fields.Type == FieldObjectHeight && math.IsInf(l.Surfaces[0].Thickness, 0) {
		return fmt.Errorf("%w: object-height fields with infinite object distance",
			ErrMalformedSequence)
	}
	if len(l.Wavelengths.Wavelengths) == 0 {
		return fmt.Errorf("%w: empty wavelength set", ErrMalformedSequence)
	}
	primaries := 0
	for _, w := range l.Wavelengths.Wavelengths {
		if w.Value <= 0 {
			return fmt.Errorf("%w: wavelength %g µm", ErrMalformedSequence, w.Value)
		}
		if w.IsPrimary {
			primaries++
		}
	}
	if primaries != 1 {
		return fmt.Errorf("%w: %d primary wavelengths", ErrMalformedSequence, primaries)
	}
	if l.Aperture.Value < 0 {
		return fmt.Errorf("%w: negative aperture value", ErrMalformedSequence)
	}
	return nil
}

// vertexZ returns the axial vertex position of each surface, with the
// first physical surface (index 1) at Z=0 and the object before it.
func (l *Lens) vertexZ() []Real {
	z := make([]Real, len(l.Surfaces))
	if math.IsInf(l.Surfaces[0].Thickness, 0) {
		z[0] = math.Inf(-1)
	} else {
		z[0] = -l.Surfaces[0].Thickness
	}
	for i := 1; i < len(l.Surfaces)-1; i++ {
		z[i+1] = z[i] + l.Surfaces[i].Thickness
	}
	return z
}

// Clone deep-copies the lens so one candidate vector can be live per copy.
// Materials are immutable and stay shared.
func (l *Lens) Clone() *Lens {
	c := &Lens{
		Name:        l.Name,
		Surfaces:    make([]Surface, len(l.Surfaces)),
		Aperture:    l.Aperture,
		catalog:     l.catalog,
	}
	copy(c.Surfaces, l.Surfaces)
	c.Fields.Type = l.Fields.Type
	c.Fields.Fields = append([]Field(nil), l.Fields.Fields...)
	c.Wavelengths.Wavelengths = append([]Wavelength(nil), l.Wavelengths.Wavelengths...)
	return c
}
