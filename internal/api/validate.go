package api

import (
	"fmt"

	"airhaul/internal/model"
	"airhaul/internal/solve"
)

// validateSolveRequest rejects requests that could never produce a useful
// plan. Location identifiers are resolved against the airport dataset up
// front, so a typo surfaces as a 400 naming the ident instead of a plan
// where every leg carries the unreachable sentinel distance.
func (s *Server) validateSolveRequest(req *model.SolveRequest) error {
	if len(req.Jobs) == 0 {
		return fmt.Errorf("jobs must not be empty")
	}
	if len(req.Aircraft) == 0 {
		return fmt.Errorf("aircraft must not be empty")
	}
	for i, j := range req.Jobs {
		if j.From == "" || j.To == "" {
			return fmt.Errorf("job %d: from and to are required", i)
		}
		if _, ok := s.Resolver.Canonical(j.From); !ok {
			return fmt.Errorf("job %d: unknown location %s", i, j.From)
		}
		if _, ok := s.Resolver.Canonical(j.To); !ok {
			return fmt.Errorf("job %d: unknown location %s", i, j.To)
		}
		if j.Quantity <= 0 {
			return fmt.Errorf("job %d: quantity must be > 0", i)
		}
	}
	home := req.Aircraft[0].Home
	for i, a := range req.Aircraft {
		if a.Home == "" {
			return fmt.Errorf("aircraft %d: home is required", i)
		}
		if a.Home != home {
			return fmt.Errorf("aircraft %d: all aircraft must share one home base (%s vs %s)", i, home, a.Home)
		}
		if a.Capacity <= 0 {
			return fmt.Errorf("aircraft %d: capacity must be > 0", i)
		}
		if a.RangeNM <= 0 {
			return fmt.Errorf("aircraft %d: range must be > 0", i)
		}
	}
	if _, ok := s.Resolver.Canonical(home); !ok {
		return fmt.Errorf("unknown home base %s", home)
	}
	if req.Algorithm != "" && req.Algorithm != solve.AlgorithmCheapest && req.Algorithm != solve.AlgorithmSavings {
		return fmt.Errorf("invalid algorithm: %s", req.Algorithm)
	}
	if req.TimeBudgetMs < 0 {
		return fmt.Errorf("timeBudgetMs must be >= 0")
	}
	if req.MaxStall < 0 {
		return fmt.Errorf("maxStall must be >= 0")
	}
	if req.SpanCoefficient != nil && *req.SpanCoefficient < 0 {
		return fmt.Errorf("spanCoefficient must be >= 0")
	}
	return nil
}
