package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"airhaul/internal/model"
)

// Postgres stores plans in a single jsonb-backed table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &Postgres{db: db}, nil
}

// Ping verifies database connectivity.
func (p *Postgres) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

// InitSchema creates the plans table when it does not exist yet.
func (p *Postgres) InitSchema(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS plans (
        id           text PRIMARY KEY,
        status       text NOT NULL,
        created_at   timestamptz NOT NULL,
        completed_at timestamptz,
        request      jsonb NOT NULL,
        solution     jsonb,
        stats        jsonb,
        error        text NOT NULL DEFAULT ''
    )`)
	if err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func (p *Postgres) SavePlan(ctx context.Context, pl model.Plan) error {
	request, solution, stats, err := marshalPlan(pl)
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx, `INSERT INTO plans (id, status, created_at, completed_at, request, solution, stats, error)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        ON CONFLICT (id) DO UPDATE SET
            status=EXCLUDED.status, completed_at=EXCLUDED.completed_at,
            request=EXCLUDED.request, solution=EXCLUDED.solution,
            stats=EXCLUDED.stats, error=EXCLUDED.error`,
		pl.ID, pl.Status, pl.CreatedAt, pl.CompletedAt, request, solution, stats, pl.Error)
	return err
}

func (p *Postgres) UpdatePlan(ctx context.Context, pl model.Plan) error {
	request, solution, stats, err := marshalPlan(pl)
	if err != nil {
		return err
	}
	res, err := p.db.ExecContext(ctx, `UPDATE plans SET
            status=$2, completed_at=$3, request=$4, solution=$5, stats=$6, error=$7
        WHERE id=$1`,
		pl.ID, pl.Status, pl.CompletedAt, request, solution, stats, pl.Error)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) GetPlan(ctx context.Context, id string) (model.Plan, error) {
	row := p.db.QueryRowContext(ctx, `SELECT id, status, created_at, completed_at, request, solution, stats, error
        FROM plans WHERE id=$1`, id)
	pl, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Plan{}, ErrNotFound
	}
	return pl, err
}

func (p *Postgres) ListPlans(ctx context.Context, cursor string, limit int) ([]model.Plan, string, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := p.db.QueryContext(ctx, `SELECT id, status, created_at, completed_at, request, solution, stats, error
        FROM plans WHERE ($1 = '' OR id > $1) ORDER BY id LIMIT $2`, cursor, limit+1)
	if err != nil {
		return nil, "", err
	}
	defer rows.Close()

	var items []model.Plan
	for rows.Next() {
		pl, err := scanPlan(rows)
		if err != nil {
			return nil, "", err
		}
		items = append(items, pl)
	}
	if err := rows.Err(); err != nil {
		return nil, "", err
	}
	next := ""
	if len(items) > limit {
		items = items[:limit]
		next = items[limit-1].ID
	}
	return items, next, nil
}

func (p *Postgres) DeletePlan(ctx context.Context, id string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM plans WHERE id=$1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func marshalPlan(pl model.Plan) (request, solution, stats []byte, err error) {
	if request, err = json.Marshal(pl.Request); err != nil {
		return nil, nil, nil, err
	}
	if pl.Solution != nil {
		if solution, err = json.Marshal(pl.Solution); err != nil {
			return nil, nil, nil, err
		}
	}
	if pl.Stats != nil {
		if stats, err = json.Marshal(pl.Stats); err != nil {
			return nil, nil, nil, err
		}
	}
	return request, solution, stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row rowScanner) (model.Plan, error) {
	var pl model.Plan
	var completedAt sql.NullTime
	var request, solution, stats []byte
	if err := row.Scan(&pl.ID, &pl.Status, &pl.CreatedAt, &completedAt, &request, &solution, &stats, &pl.Error); err != nil {
		return model.Plan{}, err
	}
	if completedAt.Valid {
		t := completedAt.Time.UTC()
		pl.CompletedAt = &t
	}
	pl.CreatedAt = pl.CreatedAt.UTC()
	if err := json.Unmarshal(request, &pl.Request); err != nil {
		return model.Plan{}, err
	}
	if len(solution) > 0 {
		pl.Solution = &model.Solution{}
		if err := json.Unmarshal(solution, pl.Solution); err != nil {
			return model.Plan{}, err
		}
	}
	if len(stats) > 0 {
		pl.Stats = &model.SolveStats{}
		if err := json.Unmarshal(stats, pl.Stats); err != nil {
			return model.Plan{}, err
		}
	}
	return pl, nil
}
