// Package store persists solved plans behind a small interface so the API
// server can run against memory or Postgres.
package store

import (
	"context"
	"errors"

	"airhaul/internal/model"
)

// Store is the plan persistence interface used by the API server.
type Store interface {
	SavePlan(ctx context.Context, p model.Plan) error
	UpdatePlan(ctx context.Context, p model.Plan) error
	GetPlan(ctx context.Context, id string) (model.Plan, error)
	ListPlans(ctx context.Context, cursor string, limit int) (items []model.Plan, nextCursor string, err error)
	DeletePlan(ctx context.Context, id string) error
}

var ErrNotFound = errors.New("not found")
