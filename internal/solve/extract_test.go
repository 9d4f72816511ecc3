package solve

import (
	"context"
	"testing"

	"airhaul/internal/model"
)

func TestExtractAccumulations(t *testing.T) {
	jobs := []model.Job{
		{From: "KSEA", To: "KPDX", Quantity: 50},
		{From: "KGEG", To: "KSEA", Quantity: 10},
		{From: "KPDX", To: "KGEG", Quantity: 30},
	}
	fleet := seattleFleet(1, 100, 5000)
	in := buildInstance(t, jobs, fleet)

	route := []int{in.Base, 1, 2, in.Base} // KSEA KPDX KGEG KSEA
	if !feasible(in, route, Fleet(fleet)[0]) {
		t.Fatal("test setup: route is not feasible")
	}
	sol := Extract(in, Routes{route})

	if len(sol.Routes) != 1 {
		t.Fatalf("got %d routes, want 1", len(sol.Routes))
	}
	vr := sol.Routes[0]
	if vr.Home != "KSEA" {
		t.Errorf("home = %q, want KSEA", vr.Home)
	}

	wantLoads := []int{50, 30, 10, 0}
	cum := 0
	for i, stop := range vr.Stops {
		if stop.Ident != in.Nodes[route[i]] {
			t.Errorf("stop %d ident = %q, want %q", i, stop.Ident, in.Nodes[route[i]])
		}
		if stop.Load != wantLoads[i] {
			t.Errorf("stop %d load = %d, want %d", i, stop.Load, wantLoads[i])
		}
		if i > 0 {
			cum += in.Dist[route[i-1]][route[i]]
		}
		if stop.CumulativeNM != cum {
			t.Errorf("stop %d cumulative = %d, want %d", i, stop.CumulativeNM, cum)
		}
	}
	if vr.DistanceNM != cum {
		t.Errorf("route distance = %d, want %d", vr.DistanceNM, cum)
	}
	// Cargo carried: 30 picked up at KPDX, 10 at KGEG, 50 loaded at the base.
	if vr.Load != 90 {
		t.Errorf("route load = %d, want 90", vr.Load)
	}
	if sol.TotalDistanceNM != vr.DistanceNM || sol.TotalLoad != vr.Load {
		t.Errorf("totals (%d, %d) do not match the single route (%d, %d)",
			sol.TotalDistanceNM, sol.TotalLoad, vr.DistanceNM, vr.Load)
	}
}

func TestExtractKeepsEmptyRoutes(t *testing.T) {
	jobs := []model.Job{{From: "KPDX", To: "KBOI", Quantity: 100}}
	fleet := seattleFleet(3, 500, 5000)
	in := buildInstance(t, jobs, fleet)

	routes, err := ParallelCheapestInsertion{}.Construct(context.Background(), in, Fleet(fleet))
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	sol := Extract(in, routes)
	if len(sol.Routes) != 3 {
		t.Fatalf("got %d routes, want one per vehicle", len(sol.Routes))
	}
	empty := 0
	for _, vr := range sol.Routes {
		if len(vr.Stops) == 2 {
			empty++
			if vr.DistanceNM != 0 || vr.Load != 0 {
				t.Errorf("idle vehicle %d has distance %d load %d", vr.Vehicle, vr.DistanceNM, vr.Load)
			}
		}
	}
	if empty != 2 {
		t.Errorf("got %d idle vehicles, want 2", empty)
	}
}
