package solve

import (
	"context"
	"time"

	"airhaul/internal/problem"
)

// LocalSearch improves routes with three move families: relocating a pair
// cluster (within or across vehicles), exchanging clusters between two
// vehicles, and reversing an intra-route segment. Pairs that share a
// location are grouped into one cluster and only move together, so a shared
// airport is never left behind by half of its jobs. Moves are evaluated on
// copies and committed only when they strictly reduce the objective while
// staying feasible, so the current solution is never left in a broken state.
//
// The search is anytime: context cancellation, the wall-clock budget, or the
// stall cap stop it early and the best solution found so far is returned.
type LocalSearch struct {
	SpanCoefficient int
	// TimeBudget caps the wall-clock time of the search; zero means no cap.
	TimeBudget time.Duration
	// MaxStall caps candidate evaluations since the last improvement; zero
	// means no cap.
	MaxStall int
	Progress func(Progress)
}

type searchState struct {
	in       *problem.Instance
	fleet    []Vehicle
	routes   Routes
	clusters [][]int
	cost     int
	stall    int
}

func (ls *LocalSearch) Improve(ctx context.Context, in *problem.Instance, fleet []Vehicle, routes Routes) (Routes, ImproveReport) {
	st := &searchState{
		in:       in,
		fleet:    fleet,
		routes:   routes.Clone(),
		clusters: pairClusters(in),
		cost:     cost(in, routes, ls.SpanCoefficient),
	}
	var deadline time.Time
	if ls.TimeBudget > 0 {
		deadline = time.Now().Add(ls.TimeBudget)
	}

	rep := ImproveReport{}
	for {
		rep.Iterations++
		improved, aborted := ls.pass(ctx, st, deadline, &rep)
		if aborted {
			return st.routes, rep
		}
		if !improved {
			rep.Converged = true
			return st.routes, rep
		}
	}
}

// pass scans every move family and commits the first strictly improving
// candidate. It reports (improved, aborted).
func (ls *LocalSearch) pass(ctx context.Context, st *searchState, deadline time.Time, rep *ImproveReport) (bool, bool) {
	if ls.relocateCluster(ctx, st, deadline, rep) {
		return true, false
	}
	if ls.exhausted(ctx, st, deadline) {
		return false, true
	}
	if ls.exchangeClusters(ctx, st, deadline, rep) {
		return true, false
	}
	if ls.exhausted(ctx, st, deadline) {
		return false, true
	}
	if ls.reverseSegment(ctx, st, deadline, rep) {
		return true, false
	}
	return false, ls.exhausted(ctx, st, deadline)
}

func (ls *LocalSearch) exhausted(ctx context.Context, st *searchState, deadline time.Time) bool {
	if ctx.Err() != nil {
		return true
	}
	if !deadline.IsZero() && time.Now().After(deadline) {
		return true
	}
	return ls.MaxStall > 0 && st.stall >= ls.MaxStall
}

// commit installs an improving candidate as the current solution.
func (ls *LocalSearch) commit(st *searchState, trial Routes, trialCost int, rep *ImproveReport) {
	st.routes = trial
	st.cost = trialCost
	st.stall = 0
	rep.Improvements++
	if ls.Progress != nil {
		ls.Progress(Progress{Phase: "improve", Iteration: rep.Iterations, BestCost: trialCost})
	}
}

func (ls *LocalSearch) relocateCluster(ctx context.Context, st *searchState, deadline time.Time, rep *ImproveReport) bool {
	for _, cl := range st.clusters {
		nodes := clusterNodes(st.in, cl)
		vi := clusterRoute(st.routes, nodes)
		if vi == -1 {
			continue
		}
		stripped := withoutNodes(st.routes[vi], nodes...)
		for vj := range st.routes {
			if ls.exhausted(ctx, st, deadline) {
				return false
			}
			st.stall++
			from := st.routes[vj]
			if vj == vi {
				from = stripped
			}
			cand, ok := insertCluster(st.in, from, st.fleet[vj], cl)
			if !ok {
				continue
			}
			trial := st.routes.Clone()
			trial[vi] = stripped
			trial[vj] = cand
			if !feasible(st.in, trial[vi], st.fleet[vi]) {
				continue
			}
			if c := cost(st.in, trial, ls.SpanCoefficient); c < st.cost {
				ls.commit(st, trial, c, rep)
				return true
			}
		}
	}
	return false
}

func (ls *LocalSearch) exchangeClusters(ctx context.Context, st *searchState, deadline time.Time, rep *ImproveReport) bool {
	for ai := 0; ai < len(st.clusters); ai++ {
		for bi := ai + 1; bi < len(st.clusters); bi++ {
			if ls.exhausted(ctx, st, deadline) {
				return false
			}
			ca, cb := st.clusters[ai], st.clusters[bi]
			na := clusterNodes(st.in, ca)
			nb := clusterNodes(st.in, cb)
			va := clusterRoute(st.routes, na)
			vb := clusterRoute(st.routes, nb)
			if va == -1 || vb == -1 || va == vb {
				continue
			}
			st.stall++
			sa := withoutNodes(st.routes[va], na...)
			sb := withoutNodes(st.routes[vb], nb...)
			ra, okA := insertCluster(st.in, sa, st.fleet[va], cb)
			rb, okB := insertCluster(st.in, sb, st.fleet[vb], ca)
			if !okA || !okB {
				continue
			}
			trial := st.routes.Clone()
			trial[va] = ra
			trial[vb] = rb
			if c := cost(st.in, trial, ls.SpanCoefficient); c < st.cost {
				ls.commit(st, trial, c, rep)
				return true
			}
		}
	}
	return false
}

func (ls *LocalSearch) reverseSegment(ctx context.Context, st *searchState, deadline time.Time, rep *ImproveReport) bool {
	for vi, route := range st.routes {
		for i := 1; i < len(route)-2; i++ {
			for k := i + 1; k < len(route)-1; k++ {
				if ls.exhausted(ctx, st, deadline) {
					return false
				}
				st.stall++
				cand := append([]int(nil), route...)
				for a, b := i, k; a < b; a, b = a+1, b-1 {
					cand[a], cand[b] = cand[b], cand[a]
				}
				if !feasible(st.in, cand, st.fleet[vi]) {
					continue
				}
				trial := st.routes.Clone()
				trial[vi] = cand
				if c := cost(st.in, trial, ls.SpanCoefficient); c < st.cost {
					ls.commit(st, trial, c, rep)
					return true
				}
			}
		}
	}
	return false
}

// pairClusters groups the instance's pairs into connected components over
// shared nodes. Pairs in one cluster must ride the same vehicle, so moves
// treat a cluster as one unit.
func pairClusters(in *problem.Instance) [][]int {
	parent := make([]int, len(in.Pairs))
	for i := range parent {
		parent[i] = i
	}
	find := func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	byNode := map[int]int{}
	for i, pr := range in.Pairs {
		for _, n := range pr {
			if j, ok := byNode[n]; ok {
				if ra, rb := find(i), find(j); ra != rb {
					parent[rb] = ra
				}
			} else {
				byNode[n] = i
			}
		}
	}

	groups := map[int][]int{}
	for i := range in.Pairs {
		groups[find(i)] = append(groups[find(i)], i)
	}
	var out [][]int
	seen := map[int]bool{}
	for i := range in.Pairs {
		if r := find(i); !seen[r] {
			seen[r] = true
			out = append(out, groups[r])
		}
	}
	return out
}

// clusterNodes lists the cluster's distinct nodes in pair order.
func clusterNodes(in *problem.Instance, cluster []int) []int {
	seen := map[int]bool{}
	var nodes []int
	for _, pi := range cluster {
		for _, n := range in.Pairs[pi] {
			if !seen[n] {
				seen[n] = true
				nodes = append(nodes, n)
			}
		}
	}
	return nodes
}

// clusterRoute returns the vehicle carrying the cluster's placed nodes, or
// -1 when none are placed or they are split across vehicles.
func clusterRoute(routes Routes, nodes []int) int {
	host := -1
	for _, n := range nodes {
		vi := routeIndex(routes, n)
		if vi == -1 {
			continue
		}
		if host == -1 {
			host = vi
		} else if host != vi {
			return -1
		}
	}
	return host
}

// insertCluster places every pair of the cluster into the route, each at its
// cheapest feasible position, pairs in cluster order.
func insertCluster(in *problem.Instance, route []int, v Vehicle, cluster []int) ([]int, bool) {
	cur := route
	for _, pi := range cluster {
		pr := in.Pairs[pi]
		cand, _, ok := cheapestInsertion(in, cur, v, pending{pickup: pr[0], delivery: pr[1]})
		if !ok {
			return nil, false
		}
		cur = cand
	}
	return cur, true
}
