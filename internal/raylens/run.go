package raylens

import (
	"context"
	"fmt"
	"math"
)

// RunParaxial loads a lens description and prints its first-order report.
func RunParaxial(cfgPath string) error {
	lens, err := LoadLensConfig(cfgPath, nil)
	if err != nil {
		return err
	}
	fmt.Print(lens.Report())
	return nil
}

// RunTrace loads a lens description and prints per-field/per-wavelength
// spot data.
func RunTrace(cfgPath string, rayCount int, distName string) error {
	lens, err := LoadLensConfig(cfgPath, nil)
	if err != nil {
		return err
	}
	dist, err := ParseDistribution(distName)
	if err != nil {
		return err
	}
	spots, err := lens.SpotDiagrams(rayCount, dist)
	if err != nil {
		return err
	}
	for _, sd := range spots {
		fmt.Printf("field y=%-8g wl=%-6g µm  rays=%-4d vignetted=%-4d tir=%-4d rms=%.6g mm\n",
			sd.Field.Y, sd.Wavelength, len(sd.X), sd.Vignetted, sd.TIR, sd.RMS)
	}
	return nil
}

// RunOptimize loads a lens description, minimizes RMS spot size per field
// at the primary wavelength over all curved radii, prints the result and
// the optimized prescription.
func RunOptimize(cfgPath string, maxIterations int, seed int64) error {
	lens, err := LoadLensConfig(cfgPath, nil)
	if err != nil {
		return err
	}
	primary, ok := lens.Wavelengths.Primary()
	if !ok {
		return fmt.Errorf("%w: no primary wavelength", ErrMalformedSequence)
	}

	merit := &MeritFunction{}
	for _, f := range lens.Fields.Fields {
		merit.AddOperand(Operand{
			Type:       OperandRMSSpotSize,
			Target:     0,
			Weight:     1,
			Field:      f,
			Wavelength: primary.Value,
			RayCount:   DefaultRayCount,
			Dist:       DistributionHexapolar,
		})
	}

	var vars []Variable
	for i := 1; i < len(lens.Surfaces)-1; i++ {
		s := &lens.Surfaces[i]
		if math.IsInf(s.Radius, 0) || s.IsMirror {
			continue
		}
		span := math.Abs(s.Radius)
		vars = append(vars, Variable{
			Surface: i,
			Attr:    AttrRadius,
			Lo:      s.Radius - span/2,
			Hi:      s.Radius + span/2,
		})
	}
	if len(vars) == 0 {
		return fmt.Errorf("%w: no curved radii to optimize", ErrOptimizerInput)
	}

	de := NewDifferentialEvolution(lens, merit, vars)
	res, err := de.Optimize(context.Background(), Settings{
		MaxIterations: maxIterations,
		Seed:          seed,
	})
	if err != nil {
		return err
	}
	fmt.Printf("status: %s, iterations: %d, evaluations: %d, final merit: %.6g\n",
		res.Status, res.Iterations, res.Evaluations, res.FinalMerit)
	fmt.Print(lens.Report())
	return nil
}
