package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"airhaul/internal/metrics"
	"airhaul/internal/model"
	"airhaul/internal/problem"
	"airhaul/internal/solve"
	"airhaul/internal/store"
)

// SolveHandler handles POST /v1/solve: the request is validated, a plan record
// is created, and the solve runs in the background. The response is 202 with
// the plan ID; progress and completion arrive on the plan's event stream.
func (s *Server) SolveHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req model.SolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	if err := s.validateSolveRequest(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid solve request", err.Error(), r.URL.Path)
		return
	}

	plan := model.Plan{
		ID:        uuid.New().String(),
		Status:    model.PlanSolving,
		CreatedAt: time.Now().UTC(),
		Request:   req,
	}
	if err := s.Store.SavePlan(r.Context(), plan); err != nil {
		writeProblem(w, http.StatusInternalServerError, "Save plan failed", err.Error(), r.URL.Path)
		return
	}
	go s.runSolve(plan.ID, req)
	writeJSON(w, http.StatusAccepted, map[string]any{"planId": plan.ID, "status": plan.Status})
}

// PlansHandler handles GET /v1/plans
func (s *Server) PlansHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	cursor := r.URL.Query().Get("cursor")
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		fmt.Sscanf(v, "%d", &limit)
	}
	items, next, err := s.Store.ListPlans(r.Context(), cursor, limit)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "List plans failed", err.Error(), r.URL.Path)
		return
	}
	if items == nil {
		items = []model.Plan{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "nextCursor": next})
}

// PlanByIDHandler handles /v1/plans/{id} and /v1/plans/{id}/events/stream
func (s *Server) PlanByIDHandler(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.URL.Path, "/v1/plans/") {
		writeProblem(w, http.StatusNotFound, "Not Found", "", r.URL.Path)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/v1/plans/")
	parts := strings.Split(rest, "/")
	id := parts[0]
	if id == "" {
		writeProblem(w, http.StatusNotFound, "Not Found", "", r.URL.Path)
		return
	}

	if len(parts) == 3 && parts[1] == "events" && parts[2] == "stream" {
		s.streamPlanEvents(w, r, id)
		return
	}
	if len(parts) != 1 {
		writeProblem(w, http.StatusNotFound, "Not Found", "", r.URL.Path)
		return
	}

	switch r.Method {
	case http.MethodGet:
		plan, err := s.Store.GetPlan(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Plan not found", "", r.URL.Path)
			return
		}
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "Get plan failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusOK, plan)
	case http.MethodDelete:
		err := s.Store.DeletePlan(r.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Plan not found", "", r.URL.Path)
			return
		}
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "Delete plan failed", err.Error(), r.URL.Path)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// streamPlanEvents serves the SSE stream for one plan.
func (s *Server) streamPlanEvents(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeProblem(w, http.StatusInternalServerError, "Streaming unsupported", "", r.URL.Path)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := s.Broker.Subscribe(id)
	defer s.Broker.Unsubscribe(id, ch)

	// initial heartbeat
	fmt.Fprintf(w, "event: heartbeat\n")
	fmt.Fprintf(w, "data: {\"planId\":\"%s\",\"ts\":\"%s\"}\n\n", id, time.Now().Format(time.RFC3339))
	flusher.Flush()

	notify := r.Context().Done()
	for {
		select {
		case <-notify:
			return
		case evt := <-ch:
			b, _ := json.Marshal(evt.Data)
			fmt.Fprintf(w, "event: %s\n", evt.Type)
			fmt.Fprintf(w, "data: %s\n\n", string(b))
			flusher.Flush()
		case <-time.After(15 * time.Second):
			fmt.Fprintf(w, "event: heartbeat\n")
			fmt.Fprintf(w, "data: {\"planId\":\"%s\",\"ts\":\"%s\"}\n\n", id, time.Now().Format(time.RFC3339))
			flusher.Flush()
		}
	}
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "build": s.buildInfo()})
}

func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	// Check DB connectivity when using the Postgres store
	type pinger interface{ Ping(ctx context.Context) error }
	if pg, ok := s.Store.(pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := pg.Ping(ctx); err != nil {
			writeProblem(w, http.StatusServiceUnavailable, "Not Ready", err.Error(), r.URL.Path)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// runSolve executes one plan in the background and records the outcome.
func (s *Server) runSolve(id string, req model.SolveRequest) {
	ctx := context.Background()
	start := time.Now()

	jobs := make([]model.Job, len(req.Jobs))
	for i, j := range req.Jobs {
		jobs[i] = j.Job()
	}
	fleet := make([]model.Aircraft, len(req.Aircraft))
	for i, a := range req.Aircraft {
		fleet[i] = a.Aircraft()
	}

	algorithm := req.Algorithm
	if algorithm == "" {
		algorithm = s.Cfg.Solver.Algorithm
	}
	span := s.Cfg.Solver.SpanCoefficient
	if req.SpanCoefficient != nil {
		span = *req.SpanCoefficient
	}
	budgetMs := s.Cfg.Solver.TimeBudgetMs
	if req.TimeBudgetMs > 0 {
		budgetMs = req.TimeBudgetMs
	}
	maxStall := s.Cfg.Solver.MaxStall
	if req.MaxStall > 0 {
		maxStall = req.MaxStall
	}

	finish := func(status string, sol *model.Solution, stats *model.SolveStats, errMsg string) {
		metrics.Solves.WithLabelValues(algorithm, status).Inc()
		metrics.SolveDuration.WithLabelValues(algorithm).Observe(time.Since(start).Seconds())
		if stats != nil {
			metrics.SolveIterations.Observe(float64(stats.Iterations))
		}
		plan, err := s.Store.GetPlan(ctx, id)
		if err != nil {
			// Deleted while solving; nothing to record.
			return
		}
		now := time.Now().UTC()
		plan.Status = status
		plan.CompletedAt = &now
		plan.Solution = sol
		plan.Stats = stats
		plan.Error = errMsg
		_ = s.Store.UpdatePlan(ctx, plan)

		data := map[string]any{"planId": id, "status": status}
		if sol != nil {
			data["totalDistanceNm"] = sol.TotalDistanceNM
			data["totalLoad"] = sol.TotalLoad
		}
		if errMsg != "" {
			data["error"] = errMsg
		}
		s.Broker.Publish(id, PlanEvent{Type: "plan." + status, Data: data})
	}

	in, err := problem.Build(s.Airports, jobs, fleet, s.Cfg.Solver.MatrixWorkers)
	if err != nil {
		finish(model.PlanFailed, nil, nil, err.Error())
		return
	}
	solver, err := solve.New(solve.Options{
		Algorithm:       algorithm,
		SpanCoefficient: &span,
		TimeBudget:      time.Duration(budgetMs) * time.Millisecond,
		MaxStall:        maxStall,
		Progress: func(p solve.Progress) {
			s.Broker.Publish(id, PlanEvent{Type: "plan.progress", Data: map[string]any{
				"planId":    id,
				"phase":     p.Phase,
				"iteration": p.Iteration,
				"bestCost":  p.BestCost,
			}})
		},
	})
	if err != nil {
		finish(model.PlanFailed, nil, nil, err.Error())
		return
	}

	sol, stats, err := solver.Solve(ctx, in, fleet)
	var infeasible *solve.InfeasibleError
	switch {
	case err == nil:
		finish(model.PlanCompleted, &sol, &stats, "")
	case errors.As(err, &infeasible):
		finish(model.PlanInfeasible, &sol, &stats, err.Error())
	default:
		finish(model.PlanFailed, nil, &stats, err.Error())
	}
}
