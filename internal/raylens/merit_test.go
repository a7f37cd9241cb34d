package raylens

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func concentratorMerit(l *Lens) *MeritFunction {
	m := &MeritFunction{}
	w, _ := l.Wavelengths.Primary()
	for _, f := range l.Fields.Fields {
		m.AddOperand(Operand{
			Type:       OperandRMSSpotSize,
			Weight:     1,
			Field:      f,
			Wavelength: w.Value,
			RayCount:   31,
			Dist:       DistributionHexapolar,
		})
	}
	return m
}

func TestMerit_EvaluateDeterministic(t *testing.T) {
	l := NewConcentrator1200()
	m := concentratorMerit(l)

	f1, err := m.Evaluate(l)
	require.NoError(t, err)
	f2, err := m.Evaluate(l)
	require.NoError(t, err)
	assert.Equal(t, f1, f2, "repeated evaluation of an unmodified lens must agree bit for bit")
	assert.Greater(t, f1, 0.0)
}

func TestMerit_EmptyOperands(t *testing.T) {
	l := NewConcentrator1200()
	m := &MeritFunction{}
	_, err := m.Evaluate(l)
	assert.ErrorIs(t, err, ErrOptimizerInput)
}

func TestMerit_NoSurvivorsPenalty(t *testing.T) {
	l := testSinglet(t, 100, 50, 0) // zero aperture blocks every ray
	m := &MeritFunction{}
	m.AddOperand(Operand{
		Type:       OperandRMSSpotSize,
		Weight:     1,
		Field:      Field{Y: 0},
		Wavelength: 0.587,
		RayCount:   31,
		Dist:       DistributionHexapolar,
	})
	f, err := m.Evaluate(l)
	require.NoError(t, err, "a dead bundle is a penalty, not an error")
	assert.InEpsilon(t, NoDataPenalty*NoDataPenalty, f, 1e-12)
}

func TestMerit_DegenerateSystemPenalty(t *testing.T) {
	l := airWindow(t, 10) // no power anywhere
	m := &MeritFunction{}
	m.AddOperand(Operand{Type: OperandEFL, Target: 0, Weight: 1})
	f, err := m.Evaluate(l)
	require.NoError(t, err)
	assert.InEpsilon(t, NoDataPenalty*NoDataPenalty, f, 1e-12)
}

func TestMerit_ParaxialOperands(t *testing.T) {
	l := NewConcentrator1200()
	efl, err := l.Paraxial().EFL()
	require.NoError(t, err)
	fno, err := l.Paraxial().FNumber()
	require.NoError(t, err)

	m := &MeritFunction{}
	m.AddOperand(Operand{Type: OperandEFL, Target: efl, Weight: 1})
	m.AddOperand(Operand{Type: OperandFNumber, Target: fno, Weight: 1})
	f, err := m.Evaluate(l)
	require.NoError(t, err)
	assert.Less(t, f, 1e-18, "operands at their targets must contribute nothing")
}

func TestMerit_WeightScaling(t *testing.T) {
	l := NewConcentrator1200()
	m1 := &MeritFunction{}
	m1.AddOperand(Operand{Type: OperandEFL, Target: 0, Weight: 1})
	m3 := &MeritFunction{}
	m3.AddOperand(Operand{Type: OperandEFL, Target: 0, Weight: 3})

	f1, err := m1.Evaluate(l)
	require.NoError(t, err)
	f3, err := m3.Evaluate(l)
	require.NoError(t, err)
	assert.InEpsilon(t, 3*f1, f3, 1e-12)
}

func TestSpotRMS_Centroid(t *testing.T) {
	// four points on a unit circle around an offset centroid
	b := &RayBundle{
		X: []Real{11, 9, 10, 10},
		Y: []Real{-5, -5, -4, -6},
	}
	assert.InDelta(t, 1.0, spotRMS(b), 1e-12)
	assert.Equal(t, 0.0, spotRMS(&RayBundle{}))

	// translation invariance
	shift := &RayBundle{X: append([]Real(nil), b.X...), Y: append([]Real(nil), b.Y...)}
	for i := range shift.X {
		shift.X[i] += 123.456
		shift.Y[i] -= 78.9
	}
	assert.InDelta(t, spotRMS(b), spotRMS(shift), 1e-9)
}

func TestMerit_TargetDeviationSquared(t *testing.T) {
	l := NewConcentrator1200()
	efl, err := l.Paraxial().EFL()
	require.NoError(t, err)

	m := &MeritFunction{}
	m.AddOperand(Operand{Type: OperandEFL, Target: efl + 2, Weight: 0.5})
	f, err := m.Evaluate(l)
	require.NoError(t, err)
	assert.InEpsilon(t, 0.5*4, f, 1e-9)
	assert.False(t, math.IsNaN(f))
}
