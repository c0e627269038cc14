package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/fedflow/internal/domain"
	"github.com/shaiso/fedflow/internal/orchestrator"
	"github.com/shaiso/fedflow/internal/repo"
	"github.com/shaiso/fedflow/internal/telemetry"
)

// Scheduler — планировщик, обрабатывающий due расписания.
type Scheduler struct {
	scheduleRepo *repo.ScheduleRepo
	orch         orchestrator.Client
	logger       *slog.Logger
	batchSize    int
}

// Config — конфигурация Scheduler.
type Config struct {
	ScheduleRepo *repo.ScheduleRepo
	Orchestrator orchestrator.Client
	Logger       *slog.Logger
	BatchSize    int // количество расписаний за один тик (default: 100)
}

// New создаёт новый Scheduler.
func New(cfg Config) *Scheduler {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	return &Scheduler{
		scheduleRepo: cfg.ScheduleRepo,
		orch:         cfg.Orchestrator,
		logger:       cfg.Logger,
		batchSize:    batchSize,
	}
}

// Tick выполняет один тик планировщика.
//
// 1. Находит due расписания (enabled=true, next_due_at <= now)
// 2. Для каждого отправляет сохранённый граф оркестратору
// 3. Обновляет next_due_at
//
// Ошибки одного расписания не блокируют обработку остальных.
func (s *Scheduler) Tick(ctx context.Context) error {
	telemetry.SchedulerTicksTotal.Inc()

	now := time.Now()

	// 1. Находим due расписания
	schedules, err := s.scheduleRepo.ListDue(ctx, now, s.batchSize)
	if err != nil {
		return fmt.Errorf("list due schedules: %w", err)
	}

	if len(schedules) == 0 {
		return nil
	}

	s.logger.Debug("found due schedules", "count", len(schedules))

	// 2. Обрабатываем каждое расписание
	var processed, submitted int
	for i := range schedules {
		sched := &schedules[i]

		runSubmitted, err := s.processSchedule(ctx, sched, now)
		if err != nil {
			s.logger.Error("failed to process schedule",
				"schedule_id", sched.ID,
				"schedule_name", sched.Name,
				"error", err,
			)
			// Продолжаем обработку остальных
			continue
		}

		processed++
		if runSubmitted {
			submitted++
			telemetry.ScheduledRunsTotal.Inc()
		}
	}

	s.logger.Info("scheduler tick completed",
		"due", len(schedules),
		"processed", processed,
		"runs_submitted", submitted,
	)

	return nil
}

// processSchedule обрабатывает одно расписание.
// Возвращает true, если запуск был отправлен (не был дубликатом).
func (s *Scheduler) processSchedule(ctx context.Context, sched *domain.Schedule, now time.Time) (bool, error) {
	// 1. Формируем имя запуска: "{schedule_id}_{next_due_at_unix}"
	// Это гарантирует, что для одного расписания и конкретного времени
	// оркестратор создаст только один запуск
	runName := fmt.Sprintf("%s_%d", sched.ID, sched.NextDueAt.Unix())

	// 2. Отправляем сохранённый граф оркестратору
	var submitted bool
	var lastRunID *uuid.UUID

	handle, err := s.orch.Submit(ctx, &sched.Graph, sched.Arguments, orchestrator.SubmitOptions{
		RunName: runName,
	})
	switch {
	case errors.Is(err, orchestrator.ErrAlreadyExists):
		// Запуск для этого времени уже был отправлен
		s.logger.Debug("run already submitted (idempotency)",
			"schedule_id", sched.ID,
			"run_name", runName,
		)
	case err != nil:
		return false, fmt.Errorf("submit scheduled run: %w", err)
	default:
		s.logger.Info("submitted run from schedule",
			"run_id", handle.ID,
			"schedule_id", sched.ID,
			"schedule_name", sched.Name,
			"pipeline", sched.PipelineName,
		)
		submitted = true
		lastRunID = &handle.ID
	}

	// 3. Вычисляем следующее время выполнения
	nextDue, err := CalculateNextDue(sched, now)
	if err != nil {
		s.logger.Error("failed to calculate next due, leaving schedule as is",
			"schedule_id", sched.ID,
			"error", err,
		)
		// Расписание некорректное — лучше не трогать next_due_at
		return submitted, nil
	}

	// 4. Обновляем расписание
	if submitted {
		sched.RecordRun(*lastRunID, nextDue)
	} else {
		sched.NextDueAt = &nextDue
		sched.UpdatedAt = time.Now()
	}
	if err := s.scheduleRepo.Update(ctx, sched); err != nil {
		return submitted, fmt.Errorf("update schedule: %w", err)
	}

	return submitted, nil
}
