package serving

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shaiso/fedflow/internal/orchestrator"
	"github.com/shaiso/fedflow/internal/poller"
)

// ErrEmptyModelURI — не задан артефакт модели.
var ErrEmptyModelURI = errors.New("model URI is empty")

// servedNamePrefix — префикс автогенерируемых имён inference-сервисов.
const servedNamePrefix = "predictormodel"

// Service — развёртывание и поиск inference-сервисов.
type Service struct {
	orch      orchestrator.Client
	readiness *poller.ReadinessPoller
	logger    *slog.Logger

	// now подменяется в тестах для детерминированных имён.
	now func() time.Time
}

// NewService создаёт Service с дефолтным опросом готовности.
func NewService(orch orchestrator.Client, logger *slog.Logger) *Service {
	return &Service{
		orch:      orch,
		readiness: poller.NewReadinessPoller(orch, logger, poller.ReadinessConfig{}),
		logger:    logger,
		now:       time.Now,
	}
}

// Serve разворачивает inference-сервис для артефакта модели.
//
// Пустое имя генерируется из текущего времени. Возвращает имя сервиса;
// готовность им не гарантируется — её ждёт URL.
func (s *Service) Serve(ctx context.Context, name, modelURI string) (string, error) {
	if modelURI == "" {
		return "", ErrEmptyModelURI
	}
	if name == "" {
		name = servedNamePrefix + s.now().Format("20060102150405")
	}

	if err := s.orch.ServeModel(ctx, name, modelURI); err != nil {
		return "", fmt.Errorf("serve model: %w", err)
	}

	s.logger.Info("model serving requested", "service", name, "model_uri", modelURI)
	return name, nil
}

// URL ждёт готовности inference-сервиса и возвращает его адрес.
func (s *Service) URL(ctx context.Context, name string) (string, error) {
	addr, err := s.readiness.WaitUntilReady(ctx, name)
	if err != nil {
		return "", fmt.Errorf("served model %q: %w", name, err)
	}
	return addr, nil
}

// Delete удаляет inference-сервис. Ошибки не проглатываются:
// в отличие от teardown-пути пайплайна, это явная операция пользователя.
func (s *Service) Delete(ctx context.Context, name string) error {
	if err := s.orch.DeleteServedModel(ctx, name); err != nil {
		return fmt.Errorf("delete served model %q: %w", name, err)
	}
	s.logger.Info("model serving deleted", "service", name)
	return nil
}
