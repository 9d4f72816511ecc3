package solve

import (
	"context"
	"math"
	"sort"

	"airhaul/internal/problem"
)

// Savings is an alternative constructor in the Clarke-Wright style: pairs are
// chained by descending savings of serving them back to back instead of via
// the base, then the chains are distributed over the fleet. It trades a
// little quality for speed on pair-heavy instances and mainly exists to
// exercise the Constructor seam.
type Savings struct{}

type chainLink struct {
	from, to int
	amount   int
}

func (Savings) Construct(ctx context.Context, in *problem.Instance, fleet []Vehicle) (Routes, error) {
	units := make([]pending, 0, len(in.Pairs))
	for _, pr := range in.Pairs {
		units = append(units, pending{pickup: pr[0], delivery: pr[1]})
	}

	// Start with one chain per unit, then merge tail-to-head by savings.
	chain := make([]int, len(units))
	chains := make(map[int][]int, len(units))
	for i := range units {
		chain[i] = i
		chains[i] = []int{i}
	}
	for _, l := range savingsLinks(in, units) {
		if err := ctx.Err(); err != nil {
			return emptyRoutes(in, len(fleet)), err
		}
		ca, cb := chain[l.from], chain[l.to]
		if ca == cb {
			continue
		}
		a, b := chains[ca], chains[cb]
		if a[len(a)-1] != l.from || b[0] != l.to {
			continue
		}
		merged := append(append([]int(nil), a...), b...)
		if !chainFits(in, units, merged, fleet) {
			continue
		}
		chains[ca] = merged
		delete(chains, cb)
		for _, u := range merged {
			chain[u] = ca
		}
	}

	routes := emptyRoutes(in, len(fleet))
	var leftovers []pending

	// Longest chains first, each onto the vehicle it burdens least.
	ordered := make([][]int, 0, len(chains))
	for _, c := range chains {
		ordered = append(ordered, c)
	}
	sort.Slice(ordered, func(i, j int) bool {
		di := routeDistance(in, materialize(in, units, ordered[i]))
		dj := routeDistance(in, materialize(in, units, ordered[j]))
		if di != dj {
			return di > dj
		}
		return ordered[i][0] < ordered[j][0]
	})
	for _, c := range ordered {
		host, ok := chainHost(routes, chainNodes(units, c))
		if !ok {
			for _, u := range c {
				leftovers = append(leftovers, units[u])
			}
			continue
		}
		bestVi, bestDelta := -1, math.MaxInt
		var bestRoute []int
		for vi := range routes {
			if host != -1 && vi != host {
				continue
			}
			cand := spliceChain(in, routes[vi], units, c)
			if !feasible(in, cand, fleet[vi]) {
				continue
			}
			if delta := routeDistance(in, cand) - routeDistance(in, routes[vi]); delta < bestDelta {
				bestVi, bestDelta, bestRoute = vi, delta, cand
			}
		}
		if bestVi == -1 {
			for _, u := range c {
				leftovers = append(leftovers, units[u])
			}
			continue
		}
		routes[bestVi] = bestRoute
	}

	// Unpaired nodes, then any unit a chain could not accommodate, go through
	// plain cheapest insertion.
	for n := 1; n < in.Size(); n++ {
		if !in.Paired(n) {
			leftovers = append(leftovers, pending{pickup: n, delivery: -1})
		}
	}
	var unplaced []pending
	for _, it := range leftovers {
		vi, cand, _, ok := placeItem(in, routes, fleet, it)
		if !ok {
			unplaced = append(unplaced, it)
			continue
		}
		routes[vi] = cand
	}

	if len(unplaced) > 0 {
		return routes, &InfeasibleError{Unplaced: unplacedIdents(in, unplaced)}
	}
	return routes, nil
}

// savingsLinks scores serving unit j directly after unit i, descending.
func savingsLinks(in *problem.Instance, units []pending) []chainLink {
	links := make([]chainLink, 0, len(units)*len(units))
	for i := range units {
		for j := range units {
			if i == j {
				continue
			}
			s := in.Dist[units[i].delivery][in.Base] + in.Dist[in.Base][units[j].pickup] - in.Dist[units[i].delivery][units[j].pickup]
			links = append(links, chainLink{from: i, to: j, amount: s})
		}
	}
	sort.Slice(links, func(a, b int) bool {
		if links[a].amount != links[b].amount {
			return links[a].amount > links[b].amount
		}
		if links[a].from != links[b].from {
			return links[a].from < links[b].from
		}
		return links[a].to < links[b].to
	})
	return links
}

func materialize(in *problem.Instance, units []pending, chain []int) []int {
	return spliceChain(in, []int{in.Base, in.Base}, units, chain)
}

// spliceChain appends the chain's stops before the closing base visit. A
// stop the route already carries, such as the shared airport of two chained
// jobs, is kept at its first position instead of being visited again.
func spliceChain(in *problem.Instance, route []int, units []pending, chain []int) []int {
	out := append([]int(nil), route[:len(route)-1]...)
	seen := make(map[int]bool, len(out))
	for _, n := range out[1:] {
		seen[n] = true
	}
	for _, u := range chain {
		for _, n := range [2]int{units[u].pickup, units[u].delivery} {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return append(out, route[len(route)-1])
}

// chainNodes lists the chain's distinct stops in visiting order.
func chainNodes(units []pending, chain []int) []int {
	seen := map[int]bool{}
	var nodes []int
	for _, u := range chain {
		for _, n := range [2]int{units[u].pickup, units[u].delivery} {
			if !seen[n] {
				seen[n] = true
				nodes = append(nodes, n)
			}
		}
	}
	return nodes
}

// chainHost returns the vehicle already visiting any of the chain's nodes,
// or -1 when none does. Nodes split across two vehicles mean the chain
// cannot be placed as a unit.
func chainHost(routes Routes, nodes []int) (int, bool) {
	host := -1
	for _, n := range nodes {
		vi := routeIndex(routes, n)
		if vi == -1 {
			continue
		}
		if host == -1 {
			host = vi
		} else if host != vi {
			return -1, false
		}
	}
	return host, true
}

func chainFits(in *problem.Instance, units []pending, chain []int, fleet []Vehicle) bool {
	route := materialize(in, units, chain)
	for _, v := range fleet {
		if feasible(in, route, v) {
			return true
		}
	}
	return false
}
