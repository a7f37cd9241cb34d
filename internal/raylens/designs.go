package raylens

import "math"

// NewConcentrator1200 builds the stock 1.2 m solar-concentrator singlet:
// N-BK7, 1200 mm entrance pupil, 1265 mm focal length, with the front
// radius set by the single-surface thin-lens relation R = f·(n-1).
func NewConcentrator1200() *Lens {
	l := NewLens("1.2m Concentrator")
	_ = l.AddSurface(SurfaceSpec{Thickness: math.Inf(1)})
	_ = l.AddSurface(SurfaceSpec{Radius: 653.245, Thickness: 8, Material: "N-BK7", IsStop: true})
	_ = l.AddSurface(SurfaceSpec{Thickness: 1265})
	_ = l.AddSurface(SurfaceSpec{})

	l.SetAperture(ApertureEPD, 1200)
	l.SetFieldType(FieldAngle)
	l.AddField(0)
	l.AddField(0.25)
	l.AddWavelength(0.486, false)
	l.AddWavelength(0.587, true)
	l.AddWavelength(0.656, false)
	return l
}
