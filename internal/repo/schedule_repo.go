package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/fedflow/internal/domain"
)

// ScheduleRepo — репозиторий для работы с расписаниями.
type ScheduleRepo struct {
	pool *pgxpool.Pool
}

// NewScheduleRepo создаёт новый ScheduleRepo.
func NewScheduleRepo(pool *pgxpool.Pool) *ScheduleRepo {
	return &ScheduleRepo{pool: pool}
}

// Create создаёт новое расписание.
func (r *ScheduleRepo) Create(ctx context.Context, schedule *domain.Schedule) error {
	graphJSON, err := json.Marshal(schedule.Graph)
	if err != nil {
		return fmt.Errorf("marshal graph: %w", err)
	}
	argsJSON, err := json.Marshal(schedule.Arguments)
	if err != nil {
		return fmt.Errorf("marshal arguments: %w", err)
	}

	query := `
		INSERT INTO schedules (id, name, pipeline_name, graph, arguments, cron_expr,
		                       interval_sec, timezone, enabled, next_due_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = r.pool.Exec(ctx, query,
		schedule.ID,
		nullString(schedule.Name),
		schedule.PipelineName,
		graphJSON,
		argsJSON,
		nullString(schedule.CronExpr),
		nullInt(schedule.IntervalSec),
		schedule.Timezone,
		schedule.Enabled,
		schedule.NextDueAt,
		schedule.CreatedAt,
		schedule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert schedule: %w", err)
	}
	return nil
}

// GetByID возвращает расписание по ID.
func (r *ScheduleRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Schedule, error) {
	query := scheduleSelect + ` WHERE id = $1`
	return r.scanSchedule(r.pool.QueryRow(ctx, query, id))
}

// List возвращает расписания с фильтрацией.
func (r *ScheduleRepo) List(ctx context.Context, filter ScheduleFilter) ([]domain.Schedule, error) {
	query := scheduleSelect + `
		WHERE ($1::text IS NULL OR pipeline_name = $1)
		  AND ($2::boolean IS NULL OR enabled = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.pool.Query(ctx, query,
		nullString(filter.PipelineName),
		filter.Enabled,
		filter.Limit,
		filter.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	return r.collectSchedules(rows)
}

// ListDue возвращает расписания, готовые к выполнению.
func (r *ScheduleRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.Schedule, error) {
	query := scheduleSelect + `
		WHERE enabled = true
		  AND next_due_at IS NOT NULL
		  AND next_due_at <= $1
		ORDER BY next_due_at ASC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list due schedules: %w", err)
	}
	defer rows.Close()

	return r.collectSchedules(rows)
}

// Update обновляет расписание.
func (r *ScheduleRepo) Update(ctx context.Context, schedule *domain.Schedule) error {
	argsJSON, err := json.Marshal(schedule.Arguments)
	if err != nil {
		return fmt.Errorf("marshal arguments: %w", err)
	}

	query := `
		UPDATE schedules
		SET name = $2, arguments = $3, cron_expr = $4, interval_sec = $5,
		    timezone = $6, enabled = $7, next_due_at = $8, last_run_at = $9,
		    last_run_id = $10, updated_at = $11
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		schedule.ID,
		nullString(schedule.Name),
		argsJSON,
		nullString(schedule.CronExpr),
		nullInt(schedule.IntervalSec),
		schedule.Timezone,
		schedule.Enabled,
		schedule.NextDueAt,
		schedule.LastRunAt,
		schedule.LastRunID,
		schedule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete удаляет расписание.
func (r *ScheduleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetEnabled включает/выключает расписание.
func (r *ScheduleRepo) SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE schedules SET enabled = $2, updated_at = NOW() WHERE id = $1
	`, id, enabled)
	if err != nil {
		return fmt.Errorf("set enabled: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Helpers ---

// ScheduleFilter — параметры фильтрации расписаний.
type ScheduleFilter struct {
	PipelineName string
	Enabled      *bool
	Limit        int
	Offset       int
}

const scheduleSelect = `
	SELECT id, name, pipeline_name, graph, arguments, cron_expr, interval_sec,
	       timezone, enabled, next_due_at, last_run_at, last_run_id, created_at, updated_at
	FROM schedules
`

func (r *ScheduleRepo) collectSchedules(rows pgx.Rows) ([]domain.Schedule, error) {
	var schedules []domain.Schedule
	for rows.Next() {
		schedule, err := r.scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, *schedule)
	}
	return schedules, rows.Err()
}

func (r *ScheduleRepo) scanSchedule(row pgx.Row) (*domain.Schedule, error) {
	var s domain.Schedule
	var name, cronExpr *string
	var intervalSec *int
	var graphJSON, argsJSON []byte

	err := row.Scan(
		&s.ID,
		&name,
		&s.PipelineName,
		&graphJSON,
		&argsJSON,
		&cronExpr,
		&intervalSec,
		&s.Timezone,
		&s.Enabled,
		&s.NextDueAt,
		&s.LastRunAt,
		&s.LastRunID,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan schedule: %w", err)
	}

	if name != nil {
		s.Name = *name
	}
	if cronExpr != nil {
		s.CronExpr = *cronExpr
	}
	if intervalSec != nil {
		s.IntervalSec = *intervalSec
	}
	if graphJSON != nil {
		if err := json.Unmarshal(graphJSON, &s.Graph); err != nil {
			return nil, fmt.Errorf("unmarshal graph: %w", err)
		}
	}
	if argsJSON != nil {
		if err := json.Unmarshal(argsJSON, &s.Arguments); err != nil {
			return nil, fmt.Errorf("unmarshal arguments: %w", err)
		}
	}

	return &s, nil
}
