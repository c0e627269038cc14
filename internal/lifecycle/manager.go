package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shaiso/fedflow/internal/orchestrator"
)

// Manager — клиентское управление сервисами-эндпоинтами.
type Manager struct {
	orch   orchestrator.Client
	logger *slog.Logger
}

// NewManager создаёт Manager.
func NewManager(orch orchestrator.Client, logger *slog.Logger) *Manager {
	return &Manager{orch: orch, logger: logger}
}

// Acquire создаёт сервис-эндпоинт и возвращает его имя.
//
// Идемпотентен: если сервис уже существует, это успех. Любая другая
// ошибка прерывает начатую операцию — без эндпоинта продолжать нечего.
func (m *Manager) Acquire(ctx context.Context, name string) (string, error) {
	err := m.orch.CreateService(ctx, name)
	if err == nil {
		m.logger.Info("endpoint acquired", "endpoint", name)
		return name, nil
	}
	if errors.Is(err, orchestrator.ErrAlreadyExists) {
		m.logger.Debug("endpoint already exists", "endpoint", name)
		return name, nil
	}
	return "", fmt.Errorf("acquire endpoint %q: %w", name, err)
}

// Release удаляет сервис-эндпоинт.
//
// Никогда не возвращает ошибку: очистка выполняется на пути завершения,
// и её сбой не должен затирать исход основной работы. Сбои логируются.
func (m *Manager) Release(ctx context.Context, name string) {
	if err := m.orch.DeleteService(ctx, name); err != nil {
		m.logger.Warn("endpoint release failed", "endpoint", name, "error", err)
		return
	}
	m.logger.Info("endpoint released", "endpoint", name)
}

// WithEndpoint выполняет fn с временным эндпоинтом.
//
// Эндпоинт создаётся до вызова fn и освобождается ровно один раз
// на любом исходе — успех, ошибка или паника fn.
func (m *Manager) WithEndpoint(ctx context.Context, name string, fn func(ctx context.Context, endpoint string) error) error {
	endpoint, err := m.Acquire(ctx, name)
	if err != nil {
		return err
	}
	defer m.Release(ctx, endpoint)

	return fn(ctx, endpoint)
}
