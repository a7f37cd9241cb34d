package raylens

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// OperandType selects the quantity an operand measures.
type OperandType int

const (
	OperandRMSSpotSize OperandType = iota
	OperandEFL
	OperandFNumber
)

func (t OperandType) String() string {
	switch t {
	case OperandRMSSpotSize:
		return "rms_spot_size"
	case OperandEFL:
		return "efl"
	case OperandFNumber:
		return "fno"
	}
	return "unknown"
}

// Operand is one weighted target in a merit function. Spot operands name
// the field/wavelength/ray-count/distribution of the trace they score.
type Operand struct {
	Type   OperandType
	Target Real
	Weight Real

	Field      Field
	Wavelength Real
	RayCount   int
	Dist       Distribution
}

// MeritFunction aggregates operand deviations into the scalar objective
//
//	Σᵢ wᵢ · (valueᵢ − targetᵢ)²
//
// Evaluation is deterministic for a fixed lens state: the pupil samplers
// are seeded, so two calls on an unmodified lens agree bit for bit.
type MeritFunction struct {
	Operands []Operand
}

func (m *MeritFunction) AddOperand(op Operand) {
	if op.RayCount <= 0 {
		op.RayCount = DefaultRayCount
	}
	m.Operands = append(m.Operands, op)
}

// spotRMS is the root-mean-square radial deviation of the surviving rays
// from their centroid. The centroid (not the chief ray) is the fixed
// reference, so the metric stays defined even when the chief ray is lost.
func spotRMS(b *RayBundle) Real {
	n := b.Survivors()
	if n == 0 {
		return 0
	}
	cx := stat.Mean(b.X, nil)
	cy := stat.Mean(b.Y, nil)
	sum := Real(0)
	for i := 0; i < n; i++ {
		dx := b.X[i] - cx
		dy := b.Y[i] - cy
		sum += dx*dx + dy*dy
	}
	return math.Sqrt(sum / Real(n))
}

// value computes a single operand. Physical dead ends (no surviving rays,
// a candidate drifting afocal) come back as the fixed large penalty so the
// optimizer is steered away instead of aborted; structural and caller
// errors still fail fast.
func (m *MeritFunction) value(l *Lens, op *Operand) (Real, error) {
	switch op.Type {
	case OperandRMSSpotSize:
		b, err := l.Trace(op.Field, op.Wavelength, op.RayCount, op.Dist)
		if err != nil {
			if errors.Is(err, ErrDegenerateSystem) {
				return NoDataPenalty, nil
			}
			return 0, err
		}
		if b.Survivors() == 0 {
			return NoDataPenalty, nil
		}
		return spotRMS(b), nil
	case OperandEFL:
		efl, err := l.Paraxial().EFL()
		if errors.Is(err, ErrDegenerateSystem) {
			return NoDataPenalty, nil
		}
		return efl, err
	case OperandFNumber:
		fno, err := l.Paraxial().FNumber()
		if errors.Is(err, ErrDegenerateSystem) {
			return NoDataPenalty, nil
		}
		return fno, err
	}
	return 0, fmt.Errorf("unknown operand type %d", int(op.Type))
}

// Evaluate scores the lens in its current state.
func (m *MeritFunction) Evaluate(l *Lens) (Real, error) {
	if len(m.Operands) == 0 {
		return 0, fmt.Errorf("%w: empty operand list", ErrOptimizerInput)
	}
	total := Real(0)
	for i := range m.Operands {
		op := &m.Operands[i]
		v, err := m.value(l, op)
		if err != nil {
			return 0, err
		}
		d := v - op.Target
		total += op.Weight * d * d
	}
	return total, nil
}
