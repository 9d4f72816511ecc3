//go:build postgres_integration

package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"airhaul/internal/model"
)

func TestPostgresRoundTrip(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}
	p, err := NewPostgres(dsn)
	if err != nil {
		t.Fatalf("NewPostgres: %v", err)
	}
	if err := p.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if err := p.InitSchema(context.Background()); err != nil {
		t.Fatalf("InitSchema: %v", err)
	}

	id := "it_" + time.Now().UTC().Format("20060102150405.000000000")
	pl := model.Plan{
		ID:        id,
		Status:    model.PlanSolving,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
		Request: model.SolveRequest{
			Jobs:     []model.JobIn{{From: "KPDX", To: "KBOI", Quantity: 100}},
			Aircraft: []model.AircraftIn{{Home: "KSEA", Capacity: 500, RangeNM: 5000}},
		},
	}
	if err := p.SavePlan(context.Background(), pl); err != nil {
		t.Fatalf("SavePlan: %v", err)
	}
	defer func() { _ = p.DeletePlan(context.Background(), id) }()

	now := time.Now().UTC().Truncate(time.Microsecond)
	pl.Status = model.PlanCompleted
	pl.CompletedAt = &now
	pl.Solution = &model.Solution{TotalDistanceNM: 42, TotalLoad: 100}
	pl.Stats = &model.SolveStats{Algorithm: "cheapest", Converged: true}
	if err := p.UpdatePlan(context.Background(), pl); err != nil {
		t.Fatalf("UpdatePlan: %v", err)
	}

	got, err := p.GetPlan(context.Background(), id)
	if err != nil {
		t.Fatalf("GetPlan: %v", err)
	}
	if got.Status != model.PlanCompleted || got.Solution == nil || got.Solution.TotalDistanceNM != 42 {
		t.Errorf("unexpected plan %+v", got)
	}
	if got.Stats == nil || !got.Stats.Converged {
		t.Errorf("stats not round-tripped: %+v", got.Stats)
	}

	if err := p.DeletePlan(context.Background(), id); err != nil {
		t.Fatalf("DeletePlan: %v", err)
	}
	if _, err := p.GetPlan(context.Background(), id); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPlan after delete = %v, want ErrNotFound", err)
	}
}
