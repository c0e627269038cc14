package poller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/fedflow/internal/domain"
	"github.com/shaiso/fedflow/internal/orchestrator"
	"github.com/shaiso/fedflow/internal/telemetry"
)

// DefaultRunInterval — интервал опроса статуса запуска по умолчанию.
const DefaultRunInterval = 5 * time.Second

// RunPoller ждёт завершения запуска с фиксированным интервалом.
type RunPoller struct {
	orch     orchestrator.Client
	logger   *slog.Logger
	interval time.Duration

	// OnStatus вызывается на каждый наблюдённый статус до паузы.
	// Опционально; для прогресс-репортинга.
	OnStatus func(status domain.RunStatus)
}

// NewRunPoller создаёт RunPoller.
// Неположительный interval заменяется DefaultRunInterval.
func NewRunPoller(orch orchestrator.Client, logger *slog.Logger, interval time.Duration) *RunPoller {
	if interval <= 0 {
		interval = DefaultRunInterval
	}
	return &RunPoller{orch: orch, logger: logger, interval: interval}
}

// WaitUntilTerminal опрашивает статус запуска до конечного состояния.
//
// Лимита попыток нет: долгое обучение — норма. Неуспешный конечный
// статус возвращается как результат, не как ошибка. Ошибками являются
// только сбой транспорта и отмена контекста; удалённый запуск при
// отмене не трогается.
func (p *RunPoller) WaitUntilTerminal(ctx context.Context, runID uuid.UUID) (domain.RunStatus, error) {
	logger := telemetry.WithRunID(p.logger, runID.String())

	for {
		telemetry.RunStatusPollsTotal.Inc()

		status, err := p.orch.GetRunStatus(ctx, runID)
		if err != nil {
			return "", fmt.Errorf("poll run %s: %w", runID, err)
		}
		if !status.IsValid() {
			return "", fmt.Errorf("%w: %q", ErrUnknownStatus, status)
		}

		logger.Info("run status", "status", status)
		if p.OnStatus != nil {
			p.OnStatus(status)
		}

		if status.IsTerminal() {
			return status, nil
		}

		if err := sleepCtx(ctx, p.interval); err != nil {
			return "", err
		}
	}
}
