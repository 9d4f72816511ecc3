package solve

import (
	"context"
	"errors"
	"fmt"
	"time"

	"airhaul/internal/model"
	"airhaul/internal/problem"
)

// Algorithm names accepted by Options.
const (
	AlgorithmCheapest = "cheapest"
	AlgorithmSavings  = "savings"
)

// Options select and tune the solver strategies. The zero value is usable:
// cheapest insertion, the default span coefficient, and no budget caps.
type Options struct {
	// Algorithm picks the constructor, AlgorithmCheapest when empty.
	Algorithm string
	// SpanCoefficient overrides DefaultSpanCoefficient when non-nil. Zero
	// disables route balancing entirely.
	SpanCoefficient *int
	TimeBudget      time.Duration
	MaxStall        int
	Progress        func(Progress)
}

// Solver runs construction followed by local search and extracts the result.
type Solver struct {
	constructor Constructor
	improver    *LocalSearch
	span        int
	progress    func(Progress)
	algorithm   string
}

// New builds a solver from options. An unknown algorithm name is an error so
// callers can validate request input before committing to a run.
func New(opts Options) (*Solver, error) {
	span := DefaultSpanCoefficient
	if opts.SpanCoefficient != nil {
		span = *opts.SpanCoefficient
	}
	algorithm := opts.Algorithm
	if algorithm == "" {
		algorithm = AlgorithmCheapest
	}
	var ctor Constructor
	switch algorithm {
	case AlgorithmCheapest:
		ctor = ParallelCheapestInsertion{}
	case AlgorithmSavings:
		ctor = Savings{}
	default:
		return nil, fmt.Errorf("unknown algorithm %q", opts.Algorithm)
	}
	return &Solver{
		constructor: ctor,
		improver: &LocalSearch{
			SpanCoefficient: span,
			TimeBudget:      opts.TimeBudget,
			MaxStall:        opts.MaxStall,
			Progress:        opts.Progress,
		},
		span:      span,
		progress:  opts.Progress,
		algorithm: algorithm,
	}, nil
}

// Solve produces routes for the fleet. An *InfeasibleError is returned
// alongside the best-effort solution covering the jobs that did fit; any
// other error means no usable solution exists.
func (s *Solver) Solve(ctx context.Context, in *problem.Instance, fleet []model.Aircraft) (model.Solution, model.SolveStats, error) {
	start := time.Now()
	vehicles := Fleet(fleet)
	stats := model.SolveStats{Algorithm: s.algorithm}

	routes, err := s.constructor.Construct(ctx, in, vehicles)
	var infeasible *InfeasibleError
	if err != nil && !errors.As(err, &infeasible) {
		return model.Solution{}, stats, err
	}
	if infeasible != nil {
		stats.UnplacedIdents = infeasible.Unplaced
	}
	stats.ConstructionNM = totalDistance(in, routes)
	if s.progress != nil {
		s.progress(Progress{Phase: "construct", BestCost: cost(in, routes, s.span)})
	}

	routes, rep := s.improver.Improve(ctx, in, vehicles, routes)
	stats.Iterations = rep.Iterations
	stats.Improvements = rep.Improvements
	stats.Converged = rep.Converged
	stats.FinalCost = cost(in, routes, s.span)
	stats.ElapsedMs = time.Since(start).Milliseconds()

	sol := Extract(in, routes)
	if infeasible != nil {
		return sol, stats, infeasible
	}
	return sol, stats, nil
}
