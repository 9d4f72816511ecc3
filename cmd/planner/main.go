// Command planner runs one planning pass from CSV files and prints the
// resulting routes.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"airhaul/internal/config"
	"airhaul/internal/loader"
	"airhaul/internal/problem"
	"airhaul/internal/report"
	"airhaul/internal/solve"
)

func main() {
	var (
		configPath   = flag.String("config", "", "optional YAML config file")
		airportsPath = flag.String("airports", "", "airport reference CSV (overrides config)")
		jobsPath     = flag.String("jobs", "jobs.csv", "job sheet CSV")
		aircraftPath = flag.String("aircraft", "aircraft.csv", "fleet listing CSV")
		algorithm    = flag.String("algorithm", "", "construction algorithm: cheapest or savings")
		timeBudget   = flag.Duration("time-budget", 0, "local search wall-clock budget (0 = config value)")
		maxStall     = flag.Int("max-stall", 0, "abort after this many stalled candidate evaluations (0 = config value)")
		span         = flag.Int("span", -1, "span cost coefficient (-1 = config value)")
		workers      = flag.Int("workers", 0, "distance matrix workers (0 = config value)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *airportsPath != "" {
		cfg.AirportsPath = *airportsPath
	}
	if *algorithm != "" {
		cfg.Solver.Algorithm = *algorithm
	}
	if *timeBudget > 0 {
		cfg.Solver.TimeBudgetMs = int(timeBudget.Milliseconds())
	}
	if *maxStall > 0 {
		cfg.Solver.MaxStall = *maxStall
	}
	if *span >= 0 {
		cfg.Solver.SpanCoefficient = *span
	}
	if *workers > 0 {
		cfg.Solver.MatrixWorkers = *workers
	}

	airports, err := loader.Airports(cfg.AirportsPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	jobs, err := loader.Jobs(*jobsPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	fleet, err := loader.Aircraft(*aircraftPath)
	if err != nil {
		log.Fatalf("%v", err)
	}
	log.Printf("loaded %d airports, %d jobs, %d aircraft", len(airports), len(jobs), len(fleet))

	in, err := problem.Build(airports, jobs, fleet, cfg.Solver.MatrixWorkers)
	if err != nil {
		log.Fatalf("%v", err)
	}

	spanCoefficient := cfg.Solver.SpanCoefficient
	solver, err := solve.New(solve.Options{
		Algorithm:       cfg.Solver.Algorithm,
		SpanCoefficient: &spanCoefficient,
		TimeBudget:      time.Duration(cfg.Solver.TimeBudgetMs) * time.Millisecond,
		MaxStall:        cfg.Solver.MaxStall,
	})
	if err != nil {
		log.Fatalf("%v", err)
	}

	sol, stats, err := solver.Solve(context.Background(), in, fleet)
	var infeasible *solve.InfeasibleError
	if err != nil && !errors.As(err, &infeasible) {
		log.Fatalf("solve: %v", err)
	}

	if err := report.Write(os.Stdout, sol); err != nil {
		log.Fatalf("write report: %v", err)
	}
	log.Printf("algorithm=%s iterations=%d improvements=%d elapsed=%dms converged=%v",
		stats.Algorithm, stats.Iterations, stats.Improvements, stats.ElapsedMs, stats.Converged)

	if infeasible != nil {
		log.Printf("no feasible assignment for: %s", strings.Join(infeasible.Unplaced, ", "))
		os.Exit(2)
	}
}
