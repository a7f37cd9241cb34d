package raylens

const (
	// Defaults used by the CLI and by zero-valued settings.
	DefaultRayCount   = 31
	DefaultPopFactor  = 15 // population size = factor * number of variables
	DefaultMutation   = 0.8
	DefaultCrossover  = 0.9
	DefaultTolerance  = 0.01 // relative fitness-spread convergence criterion
	TargetMerit       = 1e-12

	// NoDataPenalty is the merit value substituted when a trace loses
	// every ray. It must dwarf any realistic RMS so the search is steered
	// away instead of crashing.
	NoDataPenalty = 1e10

	// hot-loop constants reused across surfaces
	epsIntersect = 1e-10
	epsParallel  = 1e-12
	fieldMatchTol = 1e-12

	// fixed seed for the deterministic random pupil distribution
	pupilSeed uint64 = 0x9e3779b97f4a7c15
)
