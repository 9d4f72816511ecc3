package solve

import "airhaul/internal/problem"

// routeDistance sums the arc distances along a route.
func routeDistance(in *problem.Instance, route []int) int {
	total := 0
	for t := 1; t < len(route); t++ {
		total += in.Dist[route[t-1]][route[t]]
	}
	return total
}

// loadProfile returns the cumulative onboard load after each stop. Only cargo
// the route can serve counts; see Instance.LoadDeltas.
func loadProfile(in *problem.Instance, route []int) []int {
	out := in.LoadDeltas(route)
	load := 0
	for t, d := range out {
		load += d
		out[t] = load
	}
	return out
}

// feasible reports whether a single route satisfies every per-route
// invariant for the given vehicle: closed tour at the base, each location
// visited at most once, range budget, load within [0, capacity] at every
// stop, and pickup before delivery for every pair whose two nodes it
// carries. Whether every pair ends up fully assigned to one route is the
// placement logic's invariant, not a per-route property: a route holding one
// node of a pair mid-placement is still a valid route.
func feasible(in *problem.Instance, route []int, v Vehicle) bool {
	if len(route) < 2 || route[0] != in.Base || route[len(route)-1] != in.Base {
		return false
	}
	if routeDistance(in, route) > v.RangeNM {
		return false
	}
	pos := make(map[int]int, len(route))
	for t := 1; t < len(route)-1; t++ {
		if _, dup := pos[route[t]]; dup || route[t] == in.Base {
			return false
		}
		pos[route[t]] = t
	}
	for _, load := range loadProfile(in, route) {
		if load < 0 || load > v.Capacity {
			return false
		}
	}
	for _, pr := range in.Pairs {
		pp, hasP := pos[pr[0]]
		dp, hasD := pos[pr[1]]
		if hasP && hasD && pp > dp {
			return false
		}
	}
	return true
}

// insertAt returns a copy of route with node inserted before position t.
func insertAt(route []int, t, node int) []int {
	out := make([]int, 0, len(route)+1)
	out = append(out, route[:t]...)
	out = append(out, node)
	out = append(out, route[t:]...)
	return out
}

// withoutNodes returns a copy of route with the given nodes removed.
func withoutNodes(route []int, nodes ...int) []int {
	drop := make(map[int]bool, len(nodes))
	for _, n := range nodes {
		drop[n] = true
	}
	out := make([]int, 0, len(route))
	for _, n := range route {
		if !drop[n] {
			out = append(out, n)
		}
	}
	return out
}

// interiorIndex returns the node's position among the route's interior
// stops, or -1.
func interiorIndex(route []int, node int) int {
	for t := 1; t < len(route)-1; t++ {
		if route[t] == node {
			return t
		}
	}
	return -1
}

// routeIndex finds the vehicle whose route carries the node, or -1.
func routeIndex(routes Routes, node int) int {
	for vi, route := range routes {
		for t := 1; t < len(route)-1; t++ {
			if route[t] == node {
				return vi
			}
		}
	}
	return -1
}
