package raylens

import (
	"fmt"
	"math"
	"strings"
)

// SpotDiagram is the traced image-plane data for one field/wavelength
// pair, ready for external plotting.
type SpotDiagram struct {
	Field      Field
	Wavelength Real
	X, Y       []Real
	CentroidX  Real
	CentroidY  Real
	RMS        Real
	Vignetted  int
	TIR        int
}

// SpotDiagrams traces every registered field × wavelength combination.
func (l *Lens) SpotDiagrams(rayCount int, dist Distribution) ([]SpotDiagram, error) {
	var out []SpotDiagram
	for _, f := range l.Fields.Fields {
		for _, w := range l.Wavelengths.Wavelengths {
			b, err := l.Trace(f, w.Value, rayCount, dist)
			if err != nil {
				return nil, err
			}
			sd := SpotDiagram{
				Field:      f,
				Wavelength: w.Value,
				X:          b.X,
				Y:          b.Y,
				Vignetted:  b.Vignetted,
				TIR:        b.TIR,
				RMS:        spotRMS(b),
			}
			if b.Survivors() > 0 {
				for i := range b.X {
					sd.CentroidX += b.X[i]
					sd.CentroidY += b.Y[i]
				}
				sd.CentroidX /= Real(b.Survivors())
				sd.CentroidY /= Real(b.Survivors())
			}
			out = append(out, sd)
		}
	}
	return out, nil
}

// Report renders the first-order summary every design script prints.
func (l *Lens) Report() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Lens: %s\n", l.Name)
	fmt.Fprintf(&sb, "Surfaces: %d, fields: %d, wavelengths: %d\n",
		len(l.Surfaces), len(l.Fields.Fields), len(l.Wavelengths.Wavelengths))
	fmt.Fprintf(&sb, "Aperture: %s = %g\n", l.Aperture.Type, l.Aperture.Value)

	p := l.Paraxial()
	if efl, err := p.EFL(); err == nil {
		fmt.Fprintf(&sb, "EFL: %.3f mm\n", efl)
	} else {
		fmt.Fprintf(&sb, "EFL: n/a (%v)\n", err)
	}
	if fno, err := p.FNumber(); err == nil {
		fmt.Fprintf(&sb, "F-number: F/%.2f\n", fno)
	}
	if na, err := p.NumericalAperture(); err == nil {
		fmt.Fprintf(&sb, "NA: %.4f\n", na)
	}
	if bfd, err := p.BackFocalDistance(); err == nil {
		fmt.Fprintf(&sb, "BFD: %.3f mm\n", bfd)
	}

	fmt.Fprintf(&sb, "%-5s %-12s %-12s %-10s %-6s\n", "idx", "radius", "thickness", "material", "stop")
	for i := range l.Surfaces {
		s := &l.Surfaces[i]
		radius := "inf"
		if !math.IsInf(s.Radius, 0) {
			radius = fmt.Sprintf("%.3f", s.Radius)
		}
		thickness := "inf"
		if !math.IsInf(s.Thickness, 0) {
			thickness = fmt.Sprintf("%.3f", s.Thickness)
		}
		mat := "air"
		if s.Material != nil {
			mat = s.Material.Name()
		}
		stop := ""
		if s.IsStop {
			stop = "stop"
		}
		fmt.Fprintf(&sb, "%-5d %-12s %-12s %-10s %-6s\n", i, radius, thickness, mat, stop)
	}
	return sb.String()
}
