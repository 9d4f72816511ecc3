package model

import "time"

// Reference data records. Loaded once per solve and treated as read-only.

// Airport is a row from the airport reference dataset.
type Airport struct {
	Ident string  `json:"ident"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

// Job is a transport request: pick cargo up at From and deliver it at To.
type Job struct {
	From     string    `json:"from"`
	To       string    `json:"to"`
	Cargo    string    `json:"cargo,omitempty"`
	Quantity int       `json:"quantity"`
	Fee      float64   `json:"fee,omitempty"`
	Expires  time.Time `json:"expires,omitempty"`
}

// Aircraft describes one vehicle of the fleet.
type Aircraft struct {
	Home     string `json:"home"`
	Model    string `json:"model,omitempty"`
	Capacity int    `json:"capacity"`
	RangeNM  int    `json:"rangeNm"`
}

// SolveRequest is the API payload for POST /v1/solve. Airports come from the
// server's reference dataset; jobs and fleet are supplied per request.
type SolveRequest struct {
	Jobs            []JobIn      `json:"jobs"`
	Aircraft        []AircraftIn `json:"aircraft"`
	Algorithm       string       `json:"algorithm,omitempty"`
	TimeBudgetMs    int          `json:"timeBudgetMs,omitempty"`
	MaxStall        int          `json:"maxStall,omitempty"`
	SpanCoefficient *int         `json:"spanCoefficient,omitempty"`
}

type JobIn struct {
	From     string  `json:"from"`
	To       string  `json:"to"`
	Cargo    string  `json:"cargo,omitempty"`
	Quantity int     `json:"quantity"`
	Fee      float64 `json:"fee,omitempty"`
	Expires  string  `json:"expires,omitempty"`
}

type AircraftIn struct {
	Home     string `json:"home"`
	Model    string `json:"model,omitempty"`
	Capacity int    `json:"capacity"`
	RangeNM  int    `json:"rangeNm"`
}

// Job converts the API shape to the domain record. Expiry strings that do not
// parse are kept as zero times; the solver does not consume them.
func (j JobIn) Job() Job {
	out := Job{From: j.From, To: j.To, Cargo: j.Cargo, Quantity: j.Quantity, Fee: j.Fee}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, j.Expires); err == nil {
			out.Expires = t
			break
		}
	}
	return out
}

func (a AircraftIn) Aircraft() Aircraft {
	return Aircraft{Home: a.Home, Model: a.Model, Capacity: a.Capacity, RangeNM: a.RangeNM}
}

// Stop is one visit on a planned route with running accumulations.
type Stop struct {
	Node         int    `json:"node"`
	Ident        string `json:"ident"`
	Load         int    `json:"load"`
	CumulativeNM int    `json:"cumulativeNm"`
}

// VehicleRoute is the extracted route for one aircraft.
type VehicleRoute struct {
	Vehicle    int    `json:"vehicle"`
	Home       string `json:"home"`
	Stops      []Stop `json:"stops"`
	DistanceNM int    `json:"distanceNm"`
	Load       int    `json:"load"`
}

// Solution is the extractor output: one route per vehicle plus fleet totals.
type Solution struct {
	Routes          []VehicleRoute `json:"routes"`
	TotalDistanceNM int            `json:"totalDistanceNm"`
	TotalLoad       int            `json:"totalLoad"`
}

// SolveStats reports how the search went. Converged=false means the budget ran
// out before the search reached a local optimum; the solution is still valid.
type SolveStats struct {
	Algorithm      string   `json:"algorithm"`
	ConstructionNM int      `json:"constructionNm"`
	FinalCost      int      `json:"finalCost"`
	Iterations     int      `json:"iterations"`
	Improvements   int      `json:"improvements"`
	ElapsedMs      int64    `json:"elapsedMs"`
	Converged      bool     `json:"converged"`
	UnplacedIdents []string `json:"unplacedIdents,omitempty"`
}

// Plan statuses.
const (
	PlanSolving    = "solving"
	PlanCompleted  = "completed"
	PlanInfeasible = "infeasible"
	PlanFailed     = "failed"
)

// Plan is a stored solve: the request, its lifecycle status, and the result.
type Plan struct {
	ID          string       `json:"id"`
	Status      string       `json:"status"`
	CreatedAt   time.Time    `json:"createdAt"`
	CompletedAt *time.Time   `json:"completedAt,omitempty"`
	Request     SolveRequest `json:"request"`
	Solution    *Solution    `json:"solution,omitempty"`
	Stats       *SolveStats  `json:"stats,omitempty"`
	Error       string       `json:"error,omitempty"`
}
