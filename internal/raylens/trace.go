package raylens

import (
	"fmt"
	"math"
)

// RayBundle holds the image-plane intercepts of the surviving rays of one
// traced bundle, plus the per-ray failure statistics. Bundles are
// intermediate results: produced by Trace, consumed, discarded.
type RayBundle struct {
	Field      Field
	Wavelength Real

	X, Y []Real // image-plane intercepts of surviving rays

	Traced    int
	Vignetted int // blocked by an aperture, the stop, or a surface miss
	TIR       int // lost to total internal reflection
}

func (b *RayBundle) Survivors() int { return len(b.X) }

func (b *RayBundle) FailedFraction() Real {
	if b.Traced == 0 {
		return 0
	}
	return Real(b.Vignetted+b.TIR) / Real(b.Traced)
}

// intersectConic returns the distance along D from P to the surface of
// curvature c and conic constant k with its vertex at the local origin
// (implicit form c·(x²+y²+(1+k)z²) - 2z = 0; c = 0 is the tangent plane).
// Among real forward intersections the one nearest the vertex plane wins.
func intersectConic(P Point3, D Vector3, c, k Real) (Real, bool) {
	if c == 0 {
		if math.Abs(D.Z) < epsParallel {
			return 0, false
		}
		t := -P.Z / D.Z
		if t <= epsIntersect {
			return 0, false
		}
		return t, true
	}
	kz := 1 + k
	A := c * (D.X*D.X + D.Y*D.Y + kz*D.Z*D.Z)
	B := 2*c*(P.X*D.X+P.Y*D.Y+kz*P.Z*D.Z) - 2*D.Z
	C := c*(P.X*P.X+P.Y*P.Y+kz*P.Z*P.Z) - 2*P.Z
	if math.Abs(A) < epsParallel {
		if math.Abs(B) < epsParallel {
			return 0, false
		}
		t := -C / B
		if t <= epsIntersect {
			return 0, false
		}
		return t, true
	}
	disc := B*B - 4*A*C
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	best, ok := Real(0), false
	for _, t := range [2]Real{(-B - sq) / (2 * A), (-B + sq) / (2 * A)} {
		if t <= epsIntersect {
			continue
		}
		if !ok || math.Abs(P.Z+t*D.Z) < math.Abs(P.Z+best*D.Z) {
			best, ok = t, true
		}
	}
	return best, ok
}

// conicNormal returns the unit surface normal at a local hit point,
// pointing towards the incoming (-Z) side at the vertex.
func conicNormal(P Point3, c, k Real) Vector3 {
	if c == 0 {
		return Vector3{0, 0, -1}
	}
	return Vector3{c * P.X, c * P.Y, c*(1+k)*P.Z - 1}.Norm()
}

// Trace propagates a bundle of rayCount rays for one registered field and
// wavelength through the surface sequence and returns the bundle at the
// image plane. The lens is read, never mutated; physical ray losses
// (vignetting, TIR) are folded into the bundle statistics, and a bundle
// with zero survivors is a valid result.
func (l *Lens) Trace(field Field, wavelengthUm Real, rayCount int, dist Distribution) (*RayBundle, error) {
	if err := l.validate(); err != nil {
		return nil, err
	}
	if !l.Fields.Contains(field) || !l.Wavelengths.Contains(wavelengthUm) {
		return nil, fmt.Errorf("%w: field y=%g, wavelength %g µm",
			ErrInvalidFieldOrWavelength, field.Y, wavelengthUm)
	}
	if rayCount <= 0 {
		return nil, fmt.Errorf("ray count must be positive, got %d", rayCount)
	}

	epd, err := l.Paraxial().EntrancePupilDiameter()
	if err != nil {
		return nil, err
	}
	a := epd / 2
	DebugLogOnce("entrance pupil diameter %g (aperture %s = %g)", epd, l.Aperture.Type, l.Aperture.Value)

	z := l.vertexZ()
	stop := l.StopIndex()
	last := len(l.Surfaces) - 1
	samples := pupilSamples(dist, rayCount)

	bundle := &RayBundle{Field: field, Wavelength: wavelengthUm, Traced: len(samples)}

rays:
	for _, pt := range samples {
		px, py := pt[0]*a, pt[1]*a

		var P Point3
		var D Vector3
		if l.Fields.Type == FieldAngle {
			th := field.Y * math.Pi / 180
			D = Vector3{0, math.Sin(th), math.Cos(th)}
			// back off from the first vertex so the beam still crosses
			// the pupil plane at the sampled point
			backoff := 2 * a
			if backoff < 1 {
				backoff = 1
			}
			P = Point3{
				px - D.X/D.Z*backoff,
				py - D.Y/D.Z*backoff,
				z[1] - backoff,
			}
		} else {
			P = Point3{0, field.Y, z[0]}
			D = Point3{px, py, z[1]}.Sub(P).Norm()
		}

		n := l.Surfaces[0].indexAfter(wavelengthUm)
		for i := 1; i <= last; i++ {
			s := &l.Surfaces[i]
			local := Point3{P.X, P.Y, P.Z - z[i]}
			t, ok := intersectConic(local, D, s.curvature(), s.Conic)
			if !ok {
				bundle.Vignetted++
				continue rays
			}
			hit := local.Add(D.Mul(t))
			r := math.Hypot(hit.X, hit.Y)
			if s.SemiAperture > 0 && r > s.SemiAperture {
				bundle.Vignetted++
				continue rays
			}
			if i == stop && (a <= 0 || r > a*(1+1e-9)) {
				bundle.Vignetted++
				continue rays
			}
			if i == last {
				bundle.X = append(bundle.X, hit.X)
				bundle.Y = append(bundle.Y, hit.Y)
				continue rays
			}
			N := conicNormal(hit, s.curvature(), s.Conic)
			if s.IsMirror {
				D = reflect3(D, N).Norm()
			} else if n2 := s.indexAfter(wavelengthUm); n2 != n {
				T, ok := refract3(D, N, n/n2)
				if !ok {
					bundle.TIR++
					continue rays
				}
				D = T.Norm()
				n = n2
			} else {
				n = n2
			}
			P = Point3{hit.X, hit.Y, hit.Z + z[i]}
		}
	}
	return bundle, nil
}
