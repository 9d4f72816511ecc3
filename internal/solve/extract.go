package solve

import (
	"airhaul/internal/model"
	"airhaul/internal/problem"
)

// Extract renders solver routes into the reportable solution shape: named
// stops with onboard load and cumulative distance, per-vehicle totals, and
// fleet-wide sums. Empty routes (base to base only) are kept so vehicle
// indices stay aligned with the input fleet.
func Extract(in *problem.Instance, routes Routes) model.Solution {
	sol := model.Solution{Routes: make([]model.VehicleRoute, len(routes))}
	for vi, route := range routes {
		loads := loadProfile(in, route)
		vr := model.VehicleRoute{
			Vehicle: vi,
			Home:    in.Nodes[in.Base],
			Stops:   make([]model.Stop, len(route)),
		}
		cum := 0
		for t, n := range route {
			if t > 0 {
				cum += in.Dist[route[t-1]][n]
			}
			vr.Stops[t] = model.Stop{
				Node:         n,
				Ident:        in.Nodes[n],
				Load:         loads[t],
				CumulativeNM: cum,
			}
		}
		vr.DistanceNM = cum
		vr.Load = in.ServedQty(route)
		sol.Routes[vi] = vr
		sol.TotalDistanceNM += vr.DistanceNM
		sol.TotalLoad += vr.Load
	}
	return sol
}
