package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/schedulehub/schedulehub/internal/domain/schedule"
	"github.com/schedulehub/schedulehub/internal/observability"
)

type SchedulesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewSchedulesRepo(pool *pgxpool.Pool, prom *observability.Prom) *SchedulesRepo {
	return &SchedulesRepo{pool: pool, prom: prom}
}

func (r *SchedulesRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return false
}

func (r *SchedulesRepo) Create(ctx context.Context, req schedule.CreateScheduleRequest) (schedule.Schedule, error) {
	s := schedule.Schedule{
		UserID:   req.UserID,
		Name:     req.Name,
		ImageURL: req.ImageURL,
	}

	err := r.observe("schedules.create", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO schedules (user_id, name, image_url)
			VALUES ($1,$2,$3)
			RETURNING schedule_id, created_at, updated_at`,
			s.UserID, s.Name, s.ImageURL,
		).Scan(&s.ScheduleID, &s.CreatedAt, &s.UpdatedAt)
	})

	if err != nil {
		if IsUniqueViolation(err) {
			return schedule.Schedule{}, schedule.ErrDuplicateName
		}
		return schedule.Schedule{}, err
	}

	return s, nil
}

func (r *SchedulesRepo) GetByID(ctx context.Context, id int64) (schedule.Schedule, error) {
	var s schedule.Schedule

	err := r.observe("schedules.get_by_id", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT schedule_id, user_id, name, image_url, created_at, updated_at
			FROM schedules
			WHERE schedule_id = $1`,
			id,
		).Scan(&s.ScheduleID, &s.UserID, &s.Name, &s.ImageURL, &s.CreatedAt, &s.UpdatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.Schedule{}, schedule.ErrNotFound
		}
		return schedule.Schedule{}, err
	}

	return s, nil
}
