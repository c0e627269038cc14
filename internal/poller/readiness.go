package poller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shaiso/fedflow/internal/orchestrator"
	"github.com/shaiso/fedflow/internal/telemetry"
)

// Параметры опроса готовности по умолчанию.
const (
	// DefaultBaseWait — задержка после первой неудачной попытки.
	DefaultBaseWait = 1 * time.Second

	// DefaultMaxWait — потолок задержки между попытками.
	DefaultMaxWait = 10 * time.Second

	// DefaultMaxAttempts — бюджет попыток.
	DefaultMaxAttempts = 30
)

// ReadinessConfig — настройки опроса готовности.
type ReadinessConfig struct {
	// BaseWait — стартовая задержка (default: 1s).
	BaseWait time.Duration

	// MaxWait — потолок задержки (default: 10s).
	MaxWait time.Duration

	// MaxAttempts — бюджет попыток (default: 30).
	MaxAttempts int
}

// ReadinessPoller ждёт готовности эндпоинта с экспоненциальной задержкой.
type ReadinessPoller struct {
	orch   orchestrator.Client
	logger *slog.Logger
	cfg    ReadinessConfig
}

// NewReadinessPoller создаёт ReadinessPoller.
// Нулевые поля конфигурации заменяются значениями по умолчанию.
func NewReadinessPoller(orch orchestrator.Client, logger *slog.Logger, cfg ReadinessConfig) *ReadinessPoller {
	if cfg.BaseWait <= 0 {
		cfg.BaseWait = DefaultBaseWait
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = DefaultMaxWait
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	return &ReadinessPoller{orch: orch, logger: logger, cfg: cfg}
}

// WaitUntilReady ждёт готовности эндпоинта и возвращает его адрес.
//
// Проба, вернувшая ошибку транспорта, считается «не готов» и ретраится
// наравне с отрицательным ответом. Исчерпание бюджета — ошибка с именем
// эндпоинта. Готовый эндпоинт без адреса — фатальная несогласованность,
// адрес не ретраится.
func (p *ReadinessPoller) WaitUntilReady(ctx context.Context, endpoint string) (string, error) {
	for attempt := 1; attempt <= p.cfg.MaxAttempts; attempt++ {
		telemetry.ReadinessProbesTotal.Inc()

		ready, err := p.orch.IsEndpointReady(ctx, endpoint)
		if err != nil {
			p.logger.Warn("readiness probe failed",
				"endpoint", endpoint,
				"attempt", attempt,
				"error", err,
			)
		} else if ready {
			p.logger.Info("endpoint ready", "endpoint", endpoint, "attempts", attempt)
			addr, err := p.orch.EndpointAddress(ctx, endpoint)
			if err != nil {
				return "", fmt.Errorf("endpoint %q ready but address unavailable: %w", endpoint, err)
			}
			return addr, nil
		}

		if attempt == p.cfg.MaxAttempts {
			break
		}

		delay := p.backoffDelay(attempt)
		p.logger.Debug("endpoint not ready, backing off",
			"endpoint", endpoint,
			"attempt", attempt,
			"delay", delay,
		)
		if err := sleepCtx(ctx, delay); err != nil {
			return "", err
		}
	}

	return "", fmt.Errorf("%w: %q after %d attempts", ErrEndpointNotReady, endpoint, p.cfg.MaxAttempts)
}

// backoffDelay вычисляет задержку перед следующей попыткой.
// Экспоненциальный рост от BaseWait с потолком MaxWait:
// base, base*2, base*4, ... max, max, ...
func (p *ReadinessPoller) backoffDelay(attempt int) time.Duration {
	delay := p.cfg.BaseWait
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= p.cfg.MaxWait {
			return p.cfg.MaxWait
		}
	}
	if delay > p.cfg.MaxWait {
		return p.cfg.MaxWait
	}
	return delay
}

// sleepCtx спит с учётом отмены контекста.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
