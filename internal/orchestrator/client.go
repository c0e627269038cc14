package orchestrator

import (
	"context"

	"github.com/google/uuid"
	"github.com/shaiso/fedflow/internal/domain"
)

// SubmitOptions — параметры отправки графа.
type SubmitOptions struct {
	// RunName — имя запуска. Пустое — оркестратор генерирует сам.
	// Для запусков по расписанию сюда кладётся ключ идемпотентности:
	// оркестратор не создаёт второй запуск с тем же именем.
	RunName string

	// Experiment — имя эксперимента для группировки запусков.
	Experiment string
}

// Client — операции внешнего оркестратора.
//
// Все методы принимают context и возвращают явные ошибки.
// Реализации обязаны маппить конфликт имён на ErrAlreadyExists,
// а отсутствующие сущности — на ErrNotFound.
type Client interface {
	// Submit отправляет граф на исполнение.
	// Arguments — связанные аргументы пайплайна; сохраняются
	// оркестратором вместе с запуском.
	Submit(ctx context.Context, graph *domain.GraphDefinition, arguments map[string]any, opts SubmitOptions) (*domain.RunHandle, error)

	// GetRunStatus возвращает текущий статус запуска.
	GetRunStatus(ctx context.Context, runID uuid.UUID) (domain.RunStatus, error)

	// DeleteRun удаляет запуск.
	DeleteRun(ctx context.Context, runID uuid.UUID) error

	// CreateService создаёт именованный сервис-эндпоинт.
	CreateService(ctx context.Context, name string) error

	// DeleteService удаляет сервис-эндпоинт.
	DeleteService(ctx context.Context, name string) error

	// IsEndpointReady сообщает, готов ли эндпоинт принимать трафик.
	IsEndpointReady(ctx context.Context, name string) (bool, error)

	// EndpointAddress возвращает адрес готового эндпоинта.
	// Если адрес не назначен — ErrNoAddress.
	EndpointAddress(ctx context.Context, name string) (string, error)

	// ServeModel разворачивает inference-сервис для артефакта модели.
	ServeModel(ctx context.Context, name, modelURI string) error

	// DeleteServedModel удаляет inference-сервис.
	DeleteServedModel(ctx context.Context, name string) error
}
