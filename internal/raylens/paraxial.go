package raylens

import (
	"fmt"
	"math"
)

// Mat2 is a 2x2 ray-transfer (ABCD) matrix, row-major, acting on the
// paraxial column vector (y, ω) with ω = n·u the reduced angle.
type Mat2 struct {
	M [2][2]Real
}

func I2() Mat2 {
	return Mat2{M: [2][2]Real{
		{1, 0},
		{0, 1},
	}}
}

func (A Mat2) Mul(B Mat2) Mat2 {
	var R Mat2
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			sum := 0.0
			for k := 0; k < 2; k++ {
				sum += A.M[r][k] * B.M[k][c]
			}
			R.M[r][c] = sum
		}
	}
	return R
}

func refractionMat(power Real) Mat2 {
	return Mat2{M: [2][2]Real{{1, 0}, {-power, 1}}}
}

func transferMat(thickness, index Real) Mat2 {
	return Mat2{M: [2][2]Real{{1, thickness / index}, {0, 1}}}
}

// Paraxial answers first-order queries about a lens via the small-angle
// approximation; it never invokes the full nonlinear tracer.
type Paraxial struct {
	lens *Lens
}

func (l *Lens) Paraxial() Paraxial { return Paraxial{lens: l} }

// surfacePower returns φ for one interface at the given wavelength:
// (n'-n)/R for refraction, -2n/R for a mirror.
func surfacePower(s *Surface, nBefore, wavelengthUm Real) Real {
	c := s.curvature()
	if s.IsMirror {
		return -2 * nBefore * c
	}
	return (s.indexAfter(wavelengthUm) - nBefore) * c
}

// systemMatrix accumulates refraction and inter-surface transfer over the
// physical surfaces (object and image planes excluded) at one wavelength.
func (p Paraxial) systemMatrix(wavelengthUm Real) (Mat2, error) {
	l := p.lens
	if err := l.validate(); err != nil {
		return Mat2{}, err
	}
	M := I2()
	n := l.Surfaces[0].indexAfter(wavelengthUm)
	for i := 1; i < len(l.Surfaces)-1; i++ {
		s := &l.Surfaces[i]
		M = refractionMat(surfacePower(s, n, wavelengthUm)).Mul(M)
		n = s.indexAfter(wavelengthUm)
		if i < len(l.Surfaces)-2 {
			M = transferMat(s.Thickness, n).Mul(M)
		}
	}
	return M, nil
}

func (p Paraxial) primaryWavelength() (Real, error) {
	w, ok := p.lens.Wavelengths.Primary()
	if !ok {
		return 0, fmt.Errorf("%w: no primary wavelength", ErrMalformedSequence)
	}
	return w.Value, nil
}

// EFL returns the effective focal length at the primary wavelength.
func (p Paraxial) EFL() (Real, error) {
	wl, err := p.primaryWavelength()
	if err != nil {
		return 0, err
	}
	M, err := p.systemMatrix(wl)
	if err != nil {
		return 0, err
	}
	C := M.M[1][0]
	if math.Abs(C) < 1e-12 {
		return 0, ErrDegenerateSystem
	}
	return -1 / C, nil
}

// BackFocalDistance returns the image-space distance from the last
// physical surface to the paraxial focus for a collimated input.
func (p Paraxial) BackFocalDistance() (Real, error) {
	wl, err := p.primaryWavelength()
	if err != nil {
		return 0, err
	}
	M, err := p.systemMatrix(wl)
	if err != nil {
		return 0, err
	}
	// collimated marginal ray: y=1, ω=0
	y := M.M[0][0]
	w := M.M[1][0]
	if math.Abs(w) < 1e-12 {
		return 0, ErrDegenerateSystem
	}
	return -y / w, nil
}

// EntrancePupilDiameter resolves the aperture definition to a pupil
// diameter. EPD apertures never consult the paraxial solve; the FNO and
// NA forms need the focal length and inherit its failure mode.
func (p Paraxial) EntrancePupilDiameter() (Real, error) {
	ap := p.lens.Aperture
	switch ap.Type {
	case ApertureEPD:
		return ap.Value, nil
	case ApertureFNumber:
		if ap.Value <= 0 {
			return 0, nil
		}
		efl, err := p.EFL()
		if err != nil {
			return 0, err
		}
		return math.Abs(efl) / ap.Value, nil
	case ApertureNA:
		efl, err := p.EFL()
		if err != nil {
			return 0, err
		}
		// small-angle: EPD = 2·f·NA
		return 2 * math.Abs(efl) * ap.Value, nil
	}
	return 0, fmt.Errorf("%w: unknown aperture type %d", ErrMalformedSequence, int(p.lens.Aperture.Type))
}

// FNumber returns EFL over entrance pupil diameter.
func (p Paraxial) FNumber() (Real, error) {
	efl, err := p.EFL()
	if err != nil {
		return 0, err
	}
	epd, err := p.EntrancePupilDiameter()
	if err != nil {
		return 0, err
	}
	if epd <= 0 {
		return 0, fmt.Errorf("%w: zero entrance pupil", ErrDegenerateSystem)
	}
	return math.Abs(efl) / epd, nil
}

// NumericalAperture returns the paraxial image-space NA, 1/(2·F#).
func (p Paraxial) NumericalAperture() (Real, error) {
	fno, err := p.FNumber()
	if err != nil {
		return 0, err
	}
	return 1 / (2 * fno), nil
}
