package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/fedflow/internal/domain"
)

// ListDatasets возвращает список датасетов.
// GET /api/v1/datasets?name=...&limit=...&offset=...
func (h *Handler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	// Поиск по имени возвращает список из одного элемента
	if name := r.URL.Query().Get("name"); name != "" {
		ds, err := h.datasetRepo.GetByName(r.Context(), name)
		if HandleRepoError(w, h.logger, err, "dataset not found") {
			return
		}
		List(w, []DatasetResponse{DatasetFromDomain(*ds)}, 1)
		return
	}

	limit, offset := parsePagination(r)

	datasets, err := h.datasetRepo.List(r.Context(), limit, offset)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]DatasetResponse, len(datasets))
	for i := range datasets {
		result[i] = DatasetFromDomain(datasets[i])
	}

	List(w, result, len(result))
}

// CreateDataset регистрирует датасет.
// POST /api/v1/datasets
func (h *Handler) CreateDataset(w http.ResponseWriter, r *http.Request) {
	var req CreateDatasetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.Name == "" {
		BadRequest(w, "name is required")
		return
	}

	now := time.Now().UTC()
	ds := &domain.Dataset{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Source:      req.Source,
		UserID:      req.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.datasetRepo.Create(r.Context(), ds); err != nil {
		if HandleRepoError(w, h.logger, err, "") {
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	Created(w, DatasetFromDomain(*ds))
}

// GetDataset возвращает датасет по ID.
// GET /api/v1/datasets/{id}
func (h *Handler) GetDataset(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid dataset id")
		return
	}

	ds, err := h.datasetRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "dataset not found") {
		return
	}

	Success(w, DatasetFromDomain(*ds))
}

// DeleteDataset удаляет датасет.
// DELETE /api/v1/datasets/{id}
func (h *Handler) DeleteDataset(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid dataset id")
		return
	}

	if err := h.datasetRepo.Delete(r.Context(), id); err != nil {
		if HandleRepoError(w, h.logger, err, "dataset not found") {
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	NoContent(w)
}

// GetTopicDetails возвращает брокер и топик потокового датасета.
// GET /api/v1/datasets/{id}/topic-details
func (h *Handler) GetTopicDetails(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid dataset id")
		return
	}

	detail, err := h.brokerRepo.GetTopicDetail(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "dataset is not linked to a topic") {
		return
	}

	Success(w, TopicDetailFromDomain(*detail))
}

// LinkDatasetTopic привязывает потоковый датасет к топику брокера.
// POST /api/v1/datasets/{id}/topic
func (h *Handler) LinkDatasetTopic(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid dataset id")
		return
	}

	var req LinkTopicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.BrokerName == "" || req.TopicName == "" {
		BadRequest(w, "broker_name and topic_name are required")
		return
	}

	// Проверяем, что датасет существует
	if _, err := h.datasetRepo.GetByID(r.Context(), id); err != nil {
		if HandleRepoError(w, h.logger, err, "dataset not found") {
			return
		}
	}

	broker, err := h.brokerRepo.GetBrokerByName(r.Context(), req.BrokerName)
	if HandleRepoError(w, h.logger, err, "broker not found") {
		return
	}

	topic, err := h.brokerRepo.GetTopic(r.Context(), broker.ID, req.TopicName)
	if HandleRepoError(w, h.logger, err, "topic not found") {
		return
	}

	if err := h.brokerRepo.LinkDataset(r.Context(), id, topic.ID); err != nil {
		if HandleRepoError(w, h.logger, err, "") {
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	detail, err := h.brokerRepo.GetTopicDetail(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "dataset is not linked to a topic") {
		return
	}

	Created(w, TopicDetailFromDomain(*detail))
}

// --- Helpers ---

// parsePagination читает limit/offset из query параметров.
func parsePagination(r *http.Request) (limit, offset int) {
	limit = 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		limit = int(mustParseInt(limitStr, 50))
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		offset = int(mustParseInt(offsetStr, 0))
	}
	return limit, offset
}

// mustParseInt парсит int с fallback значением.
func mustParseInt(s string, fallback int64) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fallback
	}
	return v
}
