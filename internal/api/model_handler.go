package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/fedflow/internal/domain"
)

// ListModels возвращает список моделей.
// GET /api/v1/models?limit=...&offset=...
func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	models, err := h.modelRepo.List(r.Context(), limit, offset)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]ModelResponse, len(models))
	for i := range models {
		result[i] = ModelFromDomain(models[i])
	}

	List(w, result, len(result))
}

// CreateModel сохраняет модель.
// POST /api/v1/models
func (h *Handler) CreateModel(w http.ResponseWriter, r *http.Request) {
	var req CreateModelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.Name == "" {
		BadRequest(w, "name is required")
		return
	}

	now := time.Now().UTC()
	m := &domain.Model{
		ID:          uuid.New(),
		Name:        req.Name,
		Version:     req.Version,
		Description: req.Description,
		URI:         req.URI,
		RunID:       req.RunID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.modelRepo.Create(r.Context(), m); err != nil {
		if HandleRepoError(w, h.logger, err, "") {
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	Created(w, ModelFromDomain(*m))
}

// GetModel возвращает модель по ID.
// GET /api/v1/models/{id}
func (h *Handler) GetModel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid model id")
		return
	}

	m, err := h.modelRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "model not found") {
		return
	}

	Success(w, ModelFromDomain(*m))
}

// ListModelDatasets возвращает связи модели с датасетами.
// GET /api/v1/models/{id}/datasets
func (h *Handler) ListModelDatasets(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid model id")
		return
	}

	links, err := h.modelRepo.ListDatasetLinks(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]ModelDatasetLinkResponse, len(links))
	for i := range links {
		result[i] = LinkFromDomain(links[i])
	}

	List(w, result, len(result))
}

// LinkModelDataset связывает модель с датасетом.
// POST /api/v1/models/{id}/datasets
func (h *Handler) LinkModelDataset(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid model id")
		return
	}

	var req LinkDatasetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.DatasetID == uuid.Nil {
		BadRequest(w, "dataset_id is required")
		return
	}

	// Проверяем обе стороны связи
	if _, err := h.modelRepo.GetByID(r.Context(), id); err != nil {
		if HandleRepoError(w, h.logger, err, "model not found") {
			return
		}
	}
	if _, err := h.datasetRepo.GetByID(r.Context(), req.DatasetID); err != nil {
		if HandleRepoError(w, h.logger, err, "dataset not found") {
			return
		}
	}

	if err := h.modelRepo.LinkDataset(r.Context(), id, req.DatasetID); err != nil {
		if HandleRepoError(w, h.logger, err, "") {
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	Created(w, ModelDatasetLinkResponse{
		ModelID:   id,
		DatasetID: req.DatasetID,
		LinkedAt:  time.Now().UTC(),
	})
}
