package raylens

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// VariableAttr names the surface attribute an optimization variable drives.
type VariableAttr int

const (
	AttrRadius VariableAttr = iota
	AttrThickness
	AttrConic
)

func (a VariableAttr) String() string {
	switch a {
	case AttrRadius:
		return "radius"
	case AttrThickness:
		return "thickness"
	case AttrConic:
		return "conic"
	}
	return "unknown"
}

// Variable binds one bounded (surface, attribute) pair. Its lifetime is a
// single optimization run; the search writes values straight into the
// bound surface attribute.
type Variable struct {
	Surface int
	Attr    VariableAttr
	Lo, Hi  Real
}

// Status is the terminal state of an optimization run.
type Status int

const (
	Converged      Status = iota // fitness spread below tolerance or target merit reached
	IterationLimit               // budget exhausted (or canceled); best candidate still applied
	Failed                       // malformed input, nothing evaluated
)

func (s Status) String() string {
	switch s {
	case Converged:
		return "converged"
	case IterationLimit:
		return "iteration limit"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Settings holds the optimizer knobs; zero values pick the defaults.
type Settings struct {
	MaxIterations  int
	PopulationSize int   // 0 → DefaultPopFactor · len(variables)
	Mutation       Real  // 0 → DefaultMutation
	Crossover      Real  // 0 → DefaultCrossover
	Tolerance      Real  // 0 → DefaultTolerance
	Seed           int64 // 0 → time-derived
	Workers        int   // 0 → runtime.NumCPU()
}

// Result reports a finished run.
type Result struct {
	Status      Status
	Success     bool
	Iterations  int
	Evaluations int
	FinalMerit  Real
}

type deState int

const (
	stateInitialized deState = iota
	stateRunning
	stateTerminal
)

// DifferentialEvolution is a bounded, derivative-free global search
// (rand/1/bin) over surface attributes. Merit evaluations within one
// generation are independent: every worker owns a private lens clone, so
// only one candidate vector is ever live per sequence instance.
type DifferentialEvolution struct {
	lens  *Lens
	merit *MeritFunction
	vars  []Variable
	state deState
}

func NewDifferentialEvolution(l *Lens, m *MeritFunction, vars []Variable) *DifferentialEvolution {
	return &DifferentialEvolution{lens: l, merit: m, vars: vars}
}

func applyVector(l *Lens, vars []Variable, x []Real) {
	for i, v := range vars {
		s := &l.Surfaces[v.Surface]
		switch v.Attr {
		case AttrRadius:
			s.Radius = x[i]
		case AttrThickness:
			s.Thickness = x[i]
		case AttrConic:
			s.Conic = x[i]
		}
	}
}

func readVector(l *Lens, vars []Variable) []Real {
	x := make([]Real, len(vars))
	for i, v := range vars {
		s := &l.Surfaces[v.Surface]
		switch v.Attr {
		case AttrRadius:
			x[i] = s.Radius
		case AttrThickness:
			x[i] = s.Thickness
		case AttrConic:
			x[i] = s.Conic
		}
	}
	return x
}

func (de *DifferentialEvolution) validate() error {
	if len(de.vars) == 0 {
		return fmt.Errorf("%w: empty variable list", ErrOptimizerInput)
	}
	if de.merit == nil || len(de.merit.Operands) == 0 {
		return fmt.Errorf("%w: empty operand list", ErrOptimizerInput)
	}
	for i, v := range de.vars {
		if !(v.Lo < v.Hi) {
			return fmt.Errorf("%w: variable %d bounds [%g, %g]", ErrOptimizerInput, i, v.Lo, v.Hi)
		}
		if v.Surface < 1 || v.Surface >= len(de.lens.Surfaces) {
			return fmt.Errorf("%w: variable %d surface index %d", ErrOptimizerInput, i, v.Surface)
		}
	}
	return de.lens.validate()
}

func clampVector(x []Real, vars []Variable) {
	for i, v := range vars {
		if x[i] < v.Lo {
			x[i] = v.Lo
		} else if x[i] > v.Hi {
			x[i] = v.Hi
		}
	}
}

// evalAll scores the candidate vectors in parallel. Candidates are spread
// over the worker clones round-robin; out is written at distinct indices
// so no lock is needed.
func (de *DifferentialEvolution) evalAll(pool []*Lens, xs [][]Real, out []Real, evals *int64) error {
	workers := len(pool)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(wid int) {
			defer wg.Done()
			clone := pool[wid]
			for i := wid; i < len(xs); i += workers {
				applyVector(clone, de.vars, xs[i])
				f, err := de.merit.Evaluate(clone)
				if err != nil {
					errs[wid] = err
					return
				}
				out[i] = f
				atomic.AddInt64(evals, 1)
			}
		}(w)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Optimize runs the search and, on return, leaves the best-found variable
// values applied to the caller's lens. Cancellation is observed at
// generation boundaries and reported as an iteration-limit stop with the
// best candidate so far.
func (de *DifferentialEvolution) Optimize(ctx context.Context, s Settings) (*Result, error) {
	if de.state != stateInitialized {
		return nil, fmt.Errorf("%w: optimizer already used", ErrOptimizerInput)
	}
	de.state = stateRunning
	defer func() { de.state = stateTerminal }()

	if err := de.validate(); err != nil {
		return &Result{Status: Failed}, err
	}

	d := len(de.vars)
	np := s.PopulationSize
	if np <= 0 {
		np = DefaultPopFactor * d
	}
	if np < 4 {
		np = 4 // rand/1 needs three donors distinct from the target
	}
	F := s.Mutation
	if F == 0 {
		F = DefaultMutation
	}
	CR := s.Crossover
	if CR == 0 {
		CR = DefaultCrossover
	}
	tol := s.Tolerance
	if tol == 0 {
		tol = DefaultTolerance
	}
	workers := s.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > np {
		workers = np
	}
	seed := s.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	// score the caller's current design first; config errors surface here,
	// before any population work
	var evals int64
	probe := de.lens.Clone()
	x0 := readVector(de.lens, de.vars)
	f0, err := de.merit.Evaluate(probe)
	if err != nil {
		return &Result{Status: Failed}, err
	}
	evals++

	if s.MaxIterations <= 0 {
		return &Result{
			Status:      IterationLimit,
			Iterations:  0,
			Evaluations: int(evals),
			FinalMerit:  f0,
		}, nil
	}

	pool := make([]*Lens, workers)
	for w := range pool {
		pool[w] = de.lens.Clone()
	}

	// seed population: member 0 is the current design (clamped), the rest
	// uniform within bounds
	pop := make([][]Real, np)
	fit := make([]Real, np)
	pop[0] = append([]Real(nil), x0...)
	clampVector(pop[0], de.vars)
	for i := 1; i < np; i++ {
		x := make([]Real, d)
		for j, v := range de.vars {
			x[j] = v.Lo + rng.Float64()*(v.Hi-v.Lo)
		}
		pop[i] = x
	}
	if err := de.evalAll(pool, pop, fit, &evals); err != nil {
		return &Result{Status: Failed}, err
	}

	best := 0
	for i := 1; i < np; i++ {
		if fit[i] < fit[best] {
			best = i
		}
	}

	status := IterationLimit
	gens := 0
	trials := make([][]Real, np)
	trialFit := make([]Real, np)

generations:
	for gen := 1; gen <= s.MaxIterations; gen++ {
		select {
		case <-ctx.Done():
			break generations
		default:
		}

		for i := 0; i < np; i++ {
			r1 := rng.Intn(np)
			for r1 == i {
				r1 = rng.Intn(np)
			}
			r2 := rng.Intn(np)
			for r2 == i || r2 == r1 {
				r2 = rng.Intn(np)
			}
			r3 := rng.Intn(np)
			for r3 == i || r3 == r1 || r3 == r2 {
				r3 = rng.Intn(np)
			}
			donor := make([]Real, d)
			floats.SubTo(donor, pop[r2], pop[r3])
			floats.Scale(F, donor)
			floats.Add(donor, pop[r1])

			jr := rng.Intn(d)
			for j := 0; j < d; j++ {
				if j != jr && rng.Float64() >= CR {
					donor[j] = pop[i][j]
				}
			}
			clampVector(donor, de.vars)
			trials[i] = donor
		}

		if err := de.evalAll(pool, trials, trialFit, &evals); err != nil {
			return &Result{Status: Failed}, err
		}
		for i := 0; i < np; i++ {
			if trialFit[i] <= fit[i] {
				pop[i], fit[i] = trials[i], trialFit[i]
				if fit[i] < fit[best] {
					best = i
				}
			}
		}
		gens = gen

		if Progress {
			fmt.Printf("[PROGRESS] generation %d/%d best=%.6g\n", gen, s.MaxIterations, fit[best])
		}
		DebugLog("generation %d: best=%.6g evals=%d", gen, fit[best], atomic.LoadInt64(&evals))

		if fit[best] <= TargetMerit {
			status = Converged
			break
		}
		mean := stat.Mean(fit, nil)
		if stat.StdDev(fit, nil) <= 1e-12+tol*math.Abs(mean) {
			status = Converged
			break
		}
	}

	applyVector(de.lens, de.vars, pop[best])
	return &Result{
		Status:      status,
		Success:     status == Converged,
		Iterations:  gens,
		Evaluations: int(atomic.LoadInt64(&evals)),
		FinalMerit:  fit[best],
	}, nil
}
