// Package solve turns a problem.Instance into vehicle routes: a construction
// heuristic builds an initial solution and a local-search improver refines it
// under a budget. Both sides are pluggable strategies so alternative
// algorithms can be swapped in without touching the problem builder or the
// extractor.
package solve

import (
	"context"
	"fmt"
	"strings"

	"airhaul/internal/model"
	"airhaul/internal/problem"
)

// Vehicle is the solver's view of one aircraft.
type Vehicle struct {
	Capacity int
	RangeNM  int
}

// Fleet converts aircraft records to solver vehicles, order preserved.
func Fleet(aircraft []model.Aircraft) []Vehicle {
	out := make([]Vehicle, len(aircraft))
	for i, a := range aircraft {
		out[i] = Vehicle{Capacity: a.Capacity, RangeNM: a.RangeNM}
	}
	return out
}

// Routes holds one visiting order per vehicle. Every route starts and ends at
// the instance base node.
type Routes [][]int

// Clone deep-copies the routes so candidates can be evaluated without
// touching the committed solution.
func (r Routes) Clone() Routes {
	out := make(Routes, len(r))
	for i := range r {
		out[i] = append([]int(nil), r[i]...)
	}
	return out
}

// Constructor produces an initial set of routes. A typed *InfeasibleError is
// returned when some nodes could not be placed; the routes still carry the
// best-effort partial assignment.
type Constructor interface {
	Construct(ctx context.Context, in *problem.Instance, fleet []Vehicle) (Routes, error)
}

// Improver refines an existing feasible assignment in place-preserving
// fashion: the returned routes are always feasible, and the report says
// whether the search converged or the budget ran out first.
type Improver interface {
	Improve(ctx context.Context, in *problem.Instance, fleet []Vehicle, routes Routes) (Routes, ImproveReport)
}

// ImproveReport summarizes a local-search run.
type ImproveReport struct {
	Iterations   int
	Improvements int
	Converged    bool
}

// Progress is delivered to observers whenever the search advances.
type Progress struct {
	Phase     string `json:"phase"`
	Iteration int    `json:"iteration"`
	BestCost  int    `json:"bestCost"`
}

// InfeasibleError reports nodes that could not be assigned to any vehicle
// without breaking capacity, range, or precedence. It is a result variant,
// not a panic: callers still receive the partial routes.
type InfeasibleError struct {
	Unplaced []string
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("no feasible assignment for %s", strings.Join(e.Unplaced, ", "))
}
