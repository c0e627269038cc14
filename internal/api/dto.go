package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/fedflow/internal/domain"
)

// Dataset DTOs

// CreateDatasetRequest — запрос на регистрацию датасета.
type CreateDatasetRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source,omitempty"`
	UserID      string `json:"user_id,omitempty"`
}

// DatasetResponse — ответ с датасетом.
type DatasetResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Source      string    `json:"source,omitempty"`
	UserID      string    `json:"user_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DatasetFromDomain конвертирует domain.Dataset в DatasetResponse.
func DatasetFromDomain(d domain.Dataset) DatasetResponse {
	return DatasetResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Source:      d.Source,
		UserID:      d.UserID,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// Model DTOs

// CreateModelRequest — запрос на сохранение модели.
type CreateModelRequest struct {
	Name        string `json:"name"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`
	URI         string `json:"uri,omitempty"`
	RunID       string `json:"run_id,omitempty"`
}

// LinkDatasetRequest — запрос на связь модели с датасетом.
type LinkDatasetRequest struct {
	DatasetID uuid.UUID `json:"dataset_id"`
}

// ModelResponse — ответ с моделью.
type ModelResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Version     string    `json:"version,omitempty"`
	Description string    `json:"description,omitempty"`
	URI         string    `json:"uri,omitempty"`
	RunID       string    `json:"run_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ModelFromDomain конвертирует domain.Model в ModelResponse.
func ModelFromDomain(m domain.Model) ModelResponse {
	return ModelResponse{
		ID:          m.ID,
		Name:        m.Name,
		Version:     m.Version,
		Description: m.Description,
		URI:         m.URI,
		RunID:       m.RunID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// ModelDatasetLinkResponse — ответ со связью модель-датасет.
type ModelDatasetLinkResponse struct {
	ModelID   uuid.UUID `json:"model_id"`
	DatasetID uuid.UUID `json:"dataset_id"`
	LinkedAt  time.Time `json:"linked_at"`
}

// LinkFromDomain конвертирует domain.ModelDatasetLink в ответ.
func LinkFromDomain(l domain.ModelDatasetLink) ModelDatasetLinkResponse {
	return ModelDatasetLinkResponse{
		ModelID:   l.ModelID,
		DatasetID: l.DatasetID,
		LinkedAt:  l.LinkedAt,
	}
}

// Broker DTOs

// CreateBrokerRequest — запрос на регистрацию брокера.
type CreateBrokerRequest struct {
	Name string `json:"name"`
	Host string `json:"host"`
	Port int    `json:"port"`
}

// BrokerResponse — ответ с брокером.
type BrokerResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Host      string    `json:"host"`
	Port      int       `json:"port"`
	CreatedAt time.Time `json:"created_at"`
}

// BrokerFromDomain конвертирует domain.Broker в BrokerResponse.
func BrokerFromDomain(b domain.Broker) BrokerResponse {
	return BrokerResponse{
		ID:        b.ID,
		Name:      b.Name,
		Host:      b.Host,
		Port:      b.Port,
		CreatedAt: b.CreatedAt,
	}
}

// CreateTopicRequest — запрос на регистрацию топика.
type CreateTopicRequest struct {
	Name string `json:"name"`
}

// TopicResponse — ответ с топиком.
type TopicResponse struct {
	ID        uuid.UUID `json:"id"`
	BrokerID  uuid.UUID `json:"broker_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TopicFromDomain конвертирует domain.Topic в TopicResponse.
func TopicFromDomain(t domain.Topic) TopicResponse {
	return TopicResponse{
		ID:        t.ID,
		BrokerID:  t.BrokerID,
		Name:      t.Name,
		CreatedAt: t.CreatedAt,
	}
}

// LinkTopicRequest — запрос на привязку потокового датасета к топику.
type LinkTopicRequest struct {
	BrokerName string `json:"broker_name"`
	TopicName  string `json:"topic_name"`
}

// TopicDetailResponse — описание потокового датасета.
type TopicDetailResponse struct {
	DatasetID  uuid.UUID `json:"dataset_id"`
	BrokerName string    `json:"broker_name"`
	Host       string    `json:"host"`
	Port       int       `json:"port"`
	TopicName  string    `json:"topic_name"`
}

// TopicDetailFromDomain конвертирует domain.TopicDetail в ответ.
func TopicDetailFromDomain(d domain.TopicDetail) TopicDetailResponse {
	return TopicDetailResponse{
		DatasetID:  d.DatasetID,
		BrokerName: d.BrokerName,
		Host:       d.Host,
		Port:       d.Port,
		TopicName:  d.TopicName,
	}
}

// Schedule DTOs

// CreateScheduleRequest — запрос на создание расписания.
// Граф пайплайна передаётся уже собранным и связанным.
type CreateScheduleRequest struct {
	Name        string                 `json:"name,omitempty"`
	Graph       domain.GraphDefinition `json:"graph"`
	Arguments   map[string]any         `json:"arguments,omitempty"`
	CronExpr    string                 `json:"cron_expr,omitempty"`
	IntervalSec int                    `json:"interval_sec,omitempty"`
	Timezone    string                 `json:"timezone,omitempty"`
	Enabled     bool                   `json:"enabled"`
}

// UpdateScheduleRequest — запрос на обновление расписания.
type UpdateScheduleRequest struct {
	Name        *string         `json:"name,omitempty"`
	Arguments   *map[string]any `json:"arguments,omitempty"`
	CronExpr    *string         `json:"cron_expr,omitempty"`
	IntervalSec *int            `json:"interval_sec,omitempty"`
	Timezone    *string         `json:"timezone,omitempty"`
}

// SetEnabledRequest — запрос на включение/выключение.
type SetEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

// ScheduleResponse — ответ с расписанием.
type ScheduleResponse struct {
	ID           uuid.UUID      `json:"id"`
	Name         string         `json:"name,omitempty"`
	PipelineName string         `json:"pipeline_name"`
	Arguments    map[string]any `json:"arguments,omitempty"`
	CronExpr     string         `json:"cron_expr,omitempty"`
	IntervalSec  int            `json:"interval_sec,omitempty"`
	Timezone     string         `json:"timezone"`
	Enabled      bool           `json:"enabled"`
	NextDueAt    *time.Time     `json:"next_due_at,omitempty"`
	LastRunAt    *time.Time     `json:"last_run_at,omitempty"`
	LastRunID    *uuid.UUID     `json:"last_run_id,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// ScheduleFromDomain конвертирует domain.Schedule в ScheduleResponse.
// Граф в ответ не включается: он большой и нужен только scheduler.
func ScheduleFromDomain(s *domain.Schedule) ScheduleResponse {
	if s == nil {
		return ScheduleResponse{}
	}
	return ScheduleResponse{
		ID:           s.ID,
		Name:         s.Name,
		PipelineName: s.PipelineName,
		Arguments:    s.Arguments,
		CronExpr:     s.CronExpr,
		IntervalSec:  s.IntervalSec,
		Timezone:     s.Timezone,
		Enabled:      s.Enabled,
		NextDueAt:    s.NextDueAt,
		LastRunAt:    s.LastRunAt,
		LastRunID:    s.LastRunID,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}
