package raylens

import (
	"fmt"
	"math"
	"math/rand"
)

// Distribution selects the pupil sampling pattern for a traced bundle.
type Distribution int

const (
	DistributionGrid      Distribution = iota // uniform square grid clipped to the pupil
	DistributionHexapolar                     // concentric hexagonal rings
	DistributionRandom                        // seeded uniform disk samples
)

func (d Distribution) String() string {
	switch d {
	case DistributionGrid:
		return "grid"
	case DistributionHexapolar:
		return "hexapolar"
	case DistributionRandom:
		return "random"
	}
	return "unknown"
}

func ParseDistribution(s string) (Distribution, error) {
	switch s {
	case "grid":
		return DistributionGrid, nil
	case "hexapolar":
		return DistributionHexapolar, nil
	case "random":
		return DistributionRandom, nil
	}
	return 0, fmt.Errorf("unknown pupil distribution %q", s)
}

// pupilSamples returns n normalized (px, py) coordinates inside the unit
// disk. Every distribution is deterministic for a fixed n so that merit
// evaluations are reproducible.
func pupilSamples(d Distribution, n int) [][2]Real {
	if n <= 0 {
		return nil
	}
	switch d {
	case DistributionHexapolar:
		return hexapolarSamples(n)
	case DistributionRandom:
		return randomSamples(n)
	default:
		return gridSamples(n)
	}
}

// gridSamples lays a side×side grid over [-1,1]² and keeps in-disk points,
// growing the grid until n survive.
func gridSamples(n int) [][2]Real {
	side := int(math.Ceil(math.Sqrt(Real(n))))
	for {
		pts := make([][2]Real, 0, side*side)
		for i := 0; i < side; i++ {
			for j := 0; j < side; j++ {
				var px, py Real
				if side > 1 {
					px = -1 + 2*Real(i)/Real(side-1)
					py = -1 + 2*Real(j)/Real(side-1)
				}
				if px*px+py*py <= 1+1e-12 {
					pts = append(pts, [2]Real{px, py})
				}
			}
		}
		if len(pts) >= n {
			return pts[:n]
		}
		side++
	}
}

// hexapolarSamples builds a center point plus full rings of 6·r points
// until n are available, then scales the rings into the unit disk.
func hexapolarSamples(n int) [][2]Real {
	pts := [][2]Real{{0, 0}}
	ring := 0
	for len(pts) < n {
		ring++
		count := 6 * ring
		radius := Real(ring)
		for i := 0; i < count; i++ {
			a := 2 * math.Pi * Real(i) / Real(count)
			pts = append(pts, [2]Real{radius * math.Cos(a), radius * math.Sin(a)})
		}
	}
	if ring > 0 {
		inv := 1 / Real(ring)
		for i := range pts {
			pts[i][0] *= inv
			pts[i][1] *= inv
		}
	}
	return pts[:n]
}

func randomSamples(n int) [][2]Real {
	seed := pupilSeed
	rng := rand.New(rand.NewSource(int64(seed)))
	pts := make([][2]Real, n)
	for i := range pts {
		r := math.Sqrt(rng.Float64())
		a := 2 * math.Pi * rng.Float64()
		pts[i] = [2]Real{r * math.Cos(a), r * math.Sin(a)}
	}
	return pts
}
