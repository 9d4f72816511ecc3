// Package problem derives the routing problem instance (location nodes,
// distance matrix, pickup-delivery pairs, and cargo demand) from the raw
// airport, job, and aircraft records. Instances are immutable once built.
package problem

import (
	"fmt"
	"runtime"
	"sync"

	"airhaul/internal/geo"
	"airhaul/internal/model"
)

type arc struct{ from, to int }

// Instance is the immutable routing problem consumed by the solver.
type Instance struct {
	// Nodes holds one identifier per location; Nodes[Base] is the fleet's
	// home base and every route starts and ends there.
	Nodes []string
	Base  int
	// Dist is the symmetric distance matrix in nautical miles. Arcs whose
	// endpoints could not be resolved carry geo.Unreachable.
	Dist [][]int
	// Pairs lists (pickup, delivery) node indices for every job that does
	// not touch the base; base-touching jobs are bounded by the tour
	// start/end instead.
	Pairs [][2]int

	arcDemand map[arc]int
	baseOut   map[int]int // destination node -> quantity loaded at departure
	baseIn    map[int]int // origin node -> quantity dropped on return
}

// Build assembles an Instance. All aircraft must share one home base; that is
// the only hard failure; unresolvable locations surface as sentinel
// distances, never as errors. workers bounds the distance-matrix worker pool
// (<=0 selects GOMAXPROCS).
func Build(airports []model.Airport, jobs []model.Job, fleet []model.Aircraft, workers int) (*Instance, error) {
	if len(fleet) == 0 {
		return nil, fmt.Errorf("build problem: fleet is empty")
	}
	base := fleet[0].Home
	for _, a := range fleet[1:] {
		if a.Home != base {
			return nil, fmt.Errorf("build problem: fleet must share one home base (%s vs %s)", base, a.Home)
		}
	}

	in := &Instance{
		Nodes:     []string{base},
		Base:      0,
		arcDemand: map[arc]int{},
		baseOut:   map[int]int{},
		baseIn:    map[int]int{},
	}
	index := map[string]int{base: 0}
	add := func(ident string) int {
		if i, ok := index[ident]; ok {
			return i
		}
		index[ident] = len(in.Nodes)
		in.Nodes = append(in.Nodes, ident)
		return index[ident]
	}

	// Jobs are scanned in input order, destination before origin; the node
	// numbering is an observable property of the instance.
	paired := map[arc]bool{}
	for _, j := range jobs {
		d := add(j.To)
		p := add(j.From)
		if p == d {
			continue
		}
		in.arcDemand[arc{p, d}] += j.Quantity
		if p != in.Base && d != in.Base && !paired[arc{p, d}] {
			paired[arc{p, d}] = true
			in.Pairs = append(in.Pairs, [2]int{p, d})
		}
		if p == in.Base {
			in.baseOut[d] += j.Quantity
		}
		if d == in.Base {
			in.baseIn[p] += j.Quantity
		}
	}

	in.Dist = buildMatrix(geo.NewResolver(airports), in.Nodes, workers)
	return in, nil
}

// buildMatrix computes every cell of the distance matrix. Cells are
// independent, so rows are fanned out to a worker pool; each worker writes
// only its own rows and the result is identical to a sequential build.
func buildMatrix(r *geo.Resolver, nodes []string, workers int) [][]int {
	n := len(nodes)
	dist := make([][]int, n)
	for i := range dist {
		dist[i] = make([]int, n)
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}

	rows := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range rows {
				for j := 0; j < n; j++ {
					if i == j {
						continue
					}
					dist[i][j] = r.Between(nodes[i], nodes[j])
				}
			}
		}()
	}
	for i := 0; i < n; i++ {
		rows <- i
	}
	close(rows)
	wg.Wait()
	return dist
}

// Size returns the number of location nodes.
func (in *Instance) Size() int { return len(in.Nodes) }

// ArcDemand returns the cargo quantity moved directly from one node to the
// other: the sum of quantities over all jobs with exactly that origin and
// destination. Same-node arcs have zero demand.
func (in *Instance) ArcDemand(from, to int) int {
	if from == to {
		return 0
	}
	return in.arcDemand[arc{from, to}]
}

// BaseOutQty returns the quantity loaded at the base for delivery to the
// given node (jobs whose origin is the home base).
func (in *Instance) BaseOutQty(dest int) int { return in.baseOut[dest] }

// BaseInQty returns the quantity picked up at the given node for delivery
// back to the base (jobs whose destination is the home base).
func (in *Instance) BaseInQty(origin int) int { return in.baseIn[origin] }

// servedArcs calls fn once per cargo movement the route can actually carry:
// movements whose pickup and delivery both lie on the route with the pickup
// first, plus base-touching movements whose far endpoint lies on the route.
// Cargo the route cannot serve contributes nothing, so shared locations do
// not charge a route for jobs assigned elsewhere.
func (in *Instance) servedArcs(route []int, fn func(loadAt, dropAt, qty int)) {
	if len(route) < 2 {
		return
	}
	last := len(route) - 1
	pos := make(map[int]int, len(route))
	for t := 1; t < last; t++ {
		if _, ok := pos[route[t]]; !ok {
			pos[route[t]] = t
		}
	}
	for a, q := range in.arcDemand {
		switch {
		case a.from == in.Base:
			if t, ok := pos[a.to]; ok {
				fn(0, t, q)
			}
		case a.to == in.Base:
			if t, ok := pos[a.from]; ok {
				fn(t, last, q)
			}
		default:
			tp, okP := pos[a.from]
			td, okD := pos[a.to]
			if okP && okD && tp < td {
				fn(tp, td, q)
			}
		}
	}
}

// LoadDeltas returns the net onboard-load change at every stop of the route.
// Cargo bound for the base comes off at the closing stop; cargo from the base
// goes on at the opening stop.
func (in *Instance) LoadDeltas(route []int) []int {
	d := make([]int, len(route))
	in.servedArcs(route, func(loadAt, dropAt, qty int) {
		d[loadAt] += qty
		d[dropAt] -= qty
	})
	return d
}

// ServedQty totals the cargo quantity the route carries, under the same
// serving rule as LoadDeltas.
func (in *Instance) ServedQty(route []int) int {
	total := 0
	in.servedArcs(route, func(_, _, qty int) { total += qty })
	return total
}

// Paired reports whether the node participates in an explicit
// pickup-delivery pair.
func (in *Instance) Paired(node int) bool {
	for _, pr := range in.Pairs {
		if pr[0] == node || pr[1] == node {
			return true
		}
	}
	return false
}
