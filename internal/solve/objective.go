package solve

import "airhaul/internal/problem"

// DefaultSpanCoefficient weights the spread between the longest and shortest
// vehicle route in the objective, discouraging one aircraft from flying a
// disproportionate share when several are available.
const DefaultSpanCoefficient = 100

// cost is the search objective: total distance plus the weighted per-vehicle
// distance spread. With a single vehicle the span term vanishes.
func cost(in *problem.Instance, routes Routes, spanCoefficient int) int {
	total, maxD, minD := 0, 0, 0
	for vi, route := range routes {
		d := routeDistance(in, route)
		total += d
		if vi == 0 || d > maxD {
			maxD = d
		}
		if vi == 0 || d < minD {
			minD = d
		}
	}
	if len(routes) > 1 {
		total += spanCoefficient * (maxD - minD)
	}
	return total
}

// totalDistance sums route distances without the span term.
func totalDistance(in *problem.Instance, routes Routes) int {
	total := 0
	for _, route := range routes {
		total += routeDistance(in, route)
	}
	return total
}
