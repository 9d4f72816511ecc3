package solve

import (
	"context"
	"errors"
	"testing"

	"airhaul/internal/model"
)

func solutionRoutes(sol model.Solution) Routes {
	out := make(Routes, len(sol.Routes))
	for vi, vr := range sol.Routes {
		for _, stop := range vr.Stops {
			out[vi] = append(out[vi], stop.Node)
		}
	}
	return out
}

func TestSolverEndToEnd(t *testing.T) {
	jobs := []model.Job{
		{From: "KPDX", To: "KBOI", Quantity: 100},
		{From: "KGEG", To: "KSLC", Quantity: 80},
		{From: "KSEA", To: "KGEG", Quantity: 40},
		{From: "KBOI", To: "KSEA", Quantity: 25},
	}
	fleet := seattleFleet(2, 500, 5000)
	in := buildInstance(t, jobs, fleet)

	s, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sol, stats, err := s.Solve(context.Background(), in, fleet)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	routes := solutionRoutes(sol)
	checkRoutes(t, in, Fleet(fleet), routes)
	for n := 1; n < in.Size(); n++ {
		if routeIndex(routes, n) == -1 {
			t.Errorf("node %d (%s) was not placed", n, in.Nodes[n])
		}
	}
	if stats.Algorithm != AlgorithmCheapest {
		t.Errorf("algorithm = %q, want %q", stats.Algorithm, AlgorithmCheapest)
	}
	if !stats.Converged {
		t.Error("unbudgeted solve should converge")
	}
	if len(stats.UnplacedIdents) != 0 {
		t.Errorf("unexpected unplaced idents %v", stats.UnplacedIdents)
	}
	if got := cost(in, routes, DefaultSpanCoefficient); got != stats.FinalCost {
		t.Errorf("FinalCost = %d, recomputed %d", stats.FinalCost, got)
	}
	if sol.TotalDistanceNM != totalDistance(in, routes) {
		t.Errorf("TotalDistanceNM = %d, recomputed %d", sol.TotalDistanceNM, totalDistance(in, routes))
	}
}

func TestSolverChainedJobs(t *testing.T) {
	// Cargo relayed through shared stops: each airport is visited once and
	// serves every job touching it.
	jobs := []model.Job{
		{From: "KPDX", To: "KBOI", Quantity: 60},
		{From: "KBOI", To: "KGEG", Quantity: 20},
		{From: "KGEG", To: "KSLC", Quantity: 30},
	}
	fleet := seattleFleet(2, 100, 9000)
	in := buildInstance(t, jobs, fleet)

	s, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sol, stats, err := s.Solve(context.Background(), in, fleet)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(stats.UnplacedIdents) != 0 {
		t.Errorf("unexpected unplaced idents %v", stats.UnplacedIdents)
	}
	checkRoutes(t, in, Fleet(fleet), solutionRoutes(sol))
}

func TestSolverSavingsAlgorithm(t *testing.T) {
	jobs := []model.Job{
		{From: "KPDX", To: "KBOI", Quantity: 100},
		{From: "KGEG", To: "KSLC", Quantity: 80},
	}
	fleet := seattleFleet(2, 500, 5000)
	in := buildInstance(t, jobs, fleet)

	s, err := New(Options{Algorithm: AlgorithmSavings})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sol, stats, err := s.Solve(context.Background(), in, fleet)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if stats.Algorithm != AlgorithmSavings {
		t.Errorf("algorithm = %q, want %q", stats.Algorithm, AlgorithmSavings)
	}
	checkRoutes(t, in, Fleet(fleet), solutionRoutes(sol))
}

func TestSolverInfeasiblePropagates(t *testing.T) {
	jobs := []model.Job{
		{From: "KPDX", To: "KBOI", Quantity: 100},
		{From: "KGEG", To: "KSLC", Quantity: 9999},
	}
	fleet := seattleFleet(2, 500, 5000)
	in := buildInstance(t, jobs, fleet)

	s, err := New(Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sol, stats, err := s.Solve(context.Background(), in, fleet)
	var infeasible *InfeasibleError
	if !errors.As(err, &infeasible) {
		t.Fatalf("want InfeasibleError, got %v", err)
	}
	if len(stats.UnplacedIdents) == 0 {
		t.Error("stats carry no unplaced idents")
	}
	// The feasible job is still served in the best-effort solution.
	routes := solutionRoutes(sol)
	if routeIndex(routes, in.Pairs[0][0]) == -1 {
		t.Error("best-effort solution dropped the feasible pair")
	}
}

func TestSolverUnknownAlgorithm(t *testing.T) {
	if _, err := New(Options{Algorithm: "anneal"}); err == nil {
		t.Fatal("want error for unknown algorithm")
	}
}

func TestSolverZeroSpanCoefficient(t *testing.T) {
	jobs := []model.Job{
		{From: "KPDX", To: "KBOI", Quantity: 100},
		{From: "KGEG", To: "KSLC", Quantity: 80},
	}
	fleet := seattleFleet(2, 500, 5000)
	in := buildInstance(t, jobs, fleet)

	zero := 0
	s, err := New(Options{SpanCoefficient: &zero})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sol, stats, err := s.Solve(context.Background(), in, fleet)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	// Without the span term the final cost is pure distance.
	if stats.FinalCost != sol.TotalDistanceNM {
		t.Errorf("FinalCost = %d, want total distance %d", stats.FinalCost, sol.TotalDistanceNM)
	}
}

func TestSolverProgress(t *testing.T) {
	jobs := []model.Job{
		{From: "KPDX", To: "KBOI", Quantity: 100},
		{From: "KGEG", To: "KSLC", Quantity: 80},
	}
	fleet := seattleFleet(2, 500, 5000)
	in := buildInstance(t, jobs, fleet)

	var phases []string
	s, err := New(Options{Progress: func(p Progress) { phases = append(phases, p.Phase) }})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, _, err := s.Solve(context.Background(), in, fleet); err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if len(phases) == 0 || phases[0] != "construct" {
		t.Fatalf("first progress phase = %v, want construct", phases)
	}
}
