package solve

import (
	"context"
	"math"

	"airhaul/internal/problem"
)

// ParallelCheapestInsertion builds routes by repeatedly inserting the
// unrouted pickup-delivery pair (or unpaired node) whose cheapest feasible
// insertion across all vehicles adds the least distance. A pair whose
// endpoint is already routed, because another job shares the location, is
// completed on that same vehicle, so precedence and same-vehicle constraints
// hold by construction.
type ParallelCheapestInsertion struct{}

type pending struct {
	pickup   int
	delivery int // -1 for an unpaired node
}

func (ParallelCheapestInsertion) Construct(ctx context.Context, in *problem.Instance, fleet []Vehicle) (Routes, error) {
	routes := emptyRoutes(in, len(fleet))
	items := pendingItems(in)

	for len(items) > 0 {
		if err := ctx.Err(); err != nil {
			return routes, err
		}
		bestItem, bestVehicle := -1, -1
		bestDelta := math.MaxInt
		var bestRoute []int
		for ii, it := range items {
			vi, cand, delta, ok := placeItem(in, routes, fleet, it)
			if ok && delta < bestDelta {
				bestItem, bestVehicle, bestDelta, bestRoute = ii, vi, delta, cand
			}
		}
		if bestItem == -1 {
			break
		}
		routes[bestVehicle] = bestRoute
		items = append(items[:bestItem], items[bestItem+1:]...)
	}

	if len(items) > 0 {
		return routes, &InfeasibleError{Unplaced: unplacedIdents(in, items)}
	}
	return routes, nil
}

func emptyRoutes(in *problem.Instance, vehicles int) Routes {
	routes := make(Routes, vehicles)
	for vi := range routes {
		routes[vi] = []int{in.Base, in.Base}
	}
	return routes
}

// pendingItems lists everything that must be routed: explicit pairs plus
// the unpaired non-base nodes (endpoints of base-touching jobs).
func pendingItems(in *problem.Instance) []pending {
	items := make([]pending, 0, len(in.Pairs))
	for _, pr := range in.Pairs {
		items = append(items, pending{pickup: pr[0], delivery: pr[1]})
	}
	for n := 1; n < in.Size(); n++ {
		if !in.Paired(n) {
			items = append(items, pending{pickup: n, delivery: -1})
		}
	}
	return items
}

// placeItem finds the globally cheapest feasible placement of one item
// across the fleet. An endpoint some route already visits pins the item to
// that vehicle, so a location is never served twice; endpoints hosted by two
// different vehicles make the item unplaceable.
func placeItem(in *problem.Instance, routes Routes, fleet []Vehicle, it pending) (int, []int, int, bool) {
	hp := routeIndex(routes, it.pickup)
	hd := -1
	if it.delivery != -1 {
		hd = routeIndex(routes, it.delivery)
	}
	if hp != -1 && hd != -1 && hp != hd {
		return -1, nil, 0, false
	}
	host := hp
	if host == -1 {
		host = hd
	}

	bestVi, bestDelta := -1, math.MaxInt
	var bestRoute []int
	for vi := range routes {
		if host != -1 && vi != host {
			continue
		}
		cand, delta, ok := cheapestInsertion(in, routes[vi], fleet[vi], it)
		if ok && delta < bestDelta {
			bestVi, bestDelta, bestRoute = vi, delta, cand
		}
	}
	return bestVi, bestRoute, bestDelta, bestVi != -1
}

// cheapestInsertion finds the lowest-added-distance feasible placement of an
// item in one route. Endpoints the route already visits stay where they are
// and only the missing ones are inserted, at positions that keep the pickup
// ahead of the delivery; for a fully absent pair every position combination
// with pickup first is considered.
func cheapestInsertion(in *problem.Instance, route []int, v Vehicle, it pending) ([]int, int, bool) {
	base := routeDistance(in, route)
	pp := interiorIndex(route, it.pickup)
	if it.delivery == -1 {
		if pp != -1 {
			return route, 0, true
		}
		return bestSingleInsertion(in, route, v, it.pickup, 1, len(route)-1, base)
	}

	dp := interiorIndex(route, it.delivery)
	switch {
	case pp != -1 && dp != -1:
		if pp < dp && feasible(in, route, v) {
			return route, 0, true
		}
		return nil, 0, false
	case pp != -1:
		return bestSingleInsertion(in, route, v, it.delivery, pp+1, len(route)-1, base)
	case dp != -1:
		return bestSingleInsertion(in, route, v, it.pickup, 1, dp, base)
	}

	bestDelta := math.MaxInt
	var best []int
	for i := 1; i <= len(route)-1; i++ {
		r1 := insertAt(route, i, it.pickup)
		for j := i + 1; j <= len(r1)-1; j++ {
			cand := insertAt(r1, j, it.delivery)
			if !feasible(in, cand, v) {
				continue
			}
			if delta := routeDistance(in, cand) - base; delta < bestDelta {
				bestDelta, best = delta, cand
			}
		}
	}
	return best, bestDelta, best != nil
}

// bestSingleInsertion tries node at every position in [lo, hi] and keeps the
// cheapest feasible candidate.
func bestSingleInsertion(in *problem.Instance, route []int, v Vehicle, node, lo, hi, base int) ([]int, int, bool) {
	bestDelta := math.MaxInt
	var best []int
	for i := lo; i <= hi; i++ {
		cand := insertAt(route, i, node)
		if !feasible(in, cand, v) {
			continue
		}
		if delta := routeDistance(in, cand) - base; delta < bestDelta {
			bestDelta, best = delta, cand
		}
	}
	return best, bestDelta, best != nil
}

func unplacedIdents(in *problem.Instance, items []pending) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, in.Nodes[it.pickup])
		if it.delivery != -1 {
			out = append(out, in.Nodes[it.delivery])
		}
	}
	return out
}
