package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/schedulehub/schedulehub/internal/domain/activity"
	"github.com/schedulehub/schedulehub/internal/observability"
)

type ActivitiesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewActivitiesRepo(pool *pgxpool.Pool, prom *observability.Prom) *ActivitiesRepo {
	return &ActivitiesRepo{pool: pool, prom: prom}
}

func (r *ActivitiesRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *ActivitiesRepo) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return r.pool.BeginTx(ctx, pgx.TxOptions{})
}

func (r *ActivitiesRepo) Create(ctx context.Context, scheduleID int64, req activity.CreateActivityRequest) (activity.Activity, error) {
	a := activity.Activity{
		ScheduleID: scheduleID,
		Name:       req.Name,
		StartDate:  req.StartDate.UTC(),
		EndDate:    req.EndDate.UTC(),
	}

	err := r.observe("activities.create", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO activities (schedule_id, name, start_date, end_date)
			VALUES ($1,$2,$3,$4)
			RETURNING activity_id, created_at, updated_at`,
			a.ScheduleID, a.Name, a.StartDate, a.EndDate,
		).Scan(&a.ActivityID, &a.CreatedAt, &a.UpdatedAt)
	})

	if err != nil {
		return activity.Activity{}, err
	}

	return a, nil
}

func (r *ActivitiesRepo) CreateTx(ctx context.Context, tx pgx.Tx, scheduleID int64, req activity.CreateActivityRequest) (activity.Activity, error) {
	a := activity.Activity{
		ScheduleID: scheduleID,
		Name:       req.Name,
		StartDate:  req.StartDate.UTC(),
		EndDate:    req.EndDate.UTC(),
	}

	err := r.observe("activities.create_tx", func() error {
		return tx.QueryRow(ctx,
			`INSERT INTO activities (schedule_id, name, start_date, end_date)
			VALUES ($1,$2,$3,$4)
			RETURNING activity_id, created_at, updated_at`,
			a.ScheduleID, a.Name, a.StartDate, a.EndDate,
		).Scan(&a.ActivityID, &a.CreatedAt, &a.UpdatedAt)
	})

	if err != nil {
		return activity.Activity{}, err
	}

	return a, nil
}

// BulkCreate inserts the whole batch inside one transaction using the named
// return and defer approach: every non-commit exit path rolls back, so either
// all activities land or none do. Each element is re-checked for required
// fields before the first insert.
func (r *ActivitiesRepo) BulkCreate(ctx context.Context, scheduleID int64, reqs []activity.CreateActivityRequest) (created []activity.Activity, err error) {
	for _, req := range reqs {
		if checkErr := req.CheckRequired(); checkErr != nil {
			err = checkErr
			return
		}
	}

	tx, err := r.BeginTx(ctx)
	if err != nil {
		return
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	created = make([]activity.Activity, 0, len(reqs))

	for _, req := range reqs {
		var a activity.Activity

		a, err = r.CreateTx(ctx, tx, scheduleID, req)

		if err != nil {
			created = nil
			return
		}

		created = append(created, a)
	}

	err = tx.Commit(ctx)

	if err != nil {
		created = nil
		return
	}

	return
}

func (r *ActivitiesRepo) ListBySchedule(ctx context.Context, scheduleID int64, limit, offset int) (acts []activity.Activity, err error) {
	var rows pgx.Rows

	err = r.observe("activities.list_by_schedule", func() error {
		rows, err = r.pool.Query(ctx,
			`SELECT activity_id, schedule_id, name, start_date, end_date, created_at, updated_at
			FROM activities
			WHERE schedule_id = $1
			ORDER BY start_date ASC, activity_id ASC
			LIMIT $2 OFFSET $3`,
			scheduleID, limit, offset,
		)
		return err
	})

	if err != nil {
		return
	}

	defer rows.Close()

	acts = make([]activity.Activity, 0, limit)

	for rows.Next() {
		var a activity.Activity

		e := rows.Scan(&a.ActivityID, &a.ScheduleID, &a.Name, &a.StartDate, &a.EndDate, &a.CreatedAt, &a.UpdatedAt)

		if e != nil {
			err = e
			return
		}
		acts = append(acts, a)
	}

	e := rows.Err()

	if e != nil {
		if r.prom != nil {
			r.prom.DbErrorsTotal.WithLabelValues("activities.list_by_schedule", "rows_err").Inc()
		}
		err = e
		return
	}

	return
}

func (r *ActivitiesRepo) CountForSchedule(ctx context.Context, scheduleID int64) (int, error) {
	op := "activities.count_for_schedule"
	var total int
	err := r.observe(op, func() error {
		return r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM activities WHERE schedule_id = $1`, scheduleID).Scan(&total)
	})
	return total, err
}
