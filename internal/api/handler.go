package api

import (
	"log/slog"

	"github.com/shaiso/fedflow/internal/repo"
)

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	datasetRepo  *repo.DatasetRepo
	modelRepo    *repo.ModelRepo
	brokerRepo   *repo.BrokerRepo
	scheduleRepo *repo.ScheduleRepo
	logger       *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	DatasetRepo  *repo.DatasetRepo
	ModelRepo    *repo.ModelRepo
	BrokerRepo   *repo.BrokerRepo
	ScheduleRepo *repo.ScheduleRepo
	Logger       *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		datasetRepo:  cfg.DatasetRepo,
		modelRepo:    cfg.ModelRepo,
		brokerRepo:   cfg.BrokerRepo,
		scheduleRepo: cfg.ScheduleRepo,
		logger:       cfg.Logger,
	}
}
