package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/fedflow/internal/domain"
)

// ListBrokers возвращает список брокеров.
// GET /api/v1/brokers
func (h *Handler) ListBrokers(w http.ResponseWriter, r *http.Request) {
	brokers, err := h.brokerRepo.ListBrokers(r.Context())
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]BrokerResponse, len(brokers))
	for i := range brokers {
		result[i] = BrokerFromDomain(brokers[i])
	}

	List(w, result, len(result))
}

// CreateBroker регистрирует брокер.
// POST /api/v1/brokers
func (h *Handler) CreateBroker(w http.ResponseWriter, r *http.Request) {
	var req CreateBrokerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.Name == "" {
		BadRequest(w, "name is required")
		return
	}
	if req.Host == "" {
		BadRequest(w, "host is required")
		return
	}
	if req.Port <= 0 || req.Port > 65535 {
		BadRequest(w, "port must be in range 1-65535")
		return
	}

	b := &domain.Broker{
		ID:        uuid.New(),
		Name:      req.Name,
		Host:      req.Host,
		Port:      req.Port,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.brokerRepo.CreateBroker(r.Context(), b); err != nil {
		if HandleRepoError(w, h.logger, err, "") {
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	Created(w, BrokerFromDomain(*b))
}

// GetBroker возвращает брокер по имени.
// GET /api/v1/brokers/{name}
func (h *Handler) GetBroker(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	b, err := h.brokerRepo.GetBrokerByName(r.Context(), name)
	if HandleRepoError(w, h.logger, err, "broker not found") {
		return
	}

	Success(w, BrokerFromDomain(*b))
}

// CreateTopic регистрирует топик брокера.
// POST /api/v1/brokers/{name}/topics
func (h *Handler) CreateTopic(w http.ResponseWriter, r *http.Request) {
	brokerName := r.PathValue("name")

	var req CreateTopicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.Name == "" {
		BadRequest(w, "name is required")
		return
	}

	broker, err := h.brokerRepo.GetBrokerByName(r.Context(), brokerName)
	if HandleRepoError(w, h.logger, err, "broker not found") {
		return
	}

	t := &domain.Topic{
		ID:        uuid.New(),
		BrokerID:  broker.ID,
		Name:      req.Name,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.brokerRepo.CreateTopic(r.Context(), t); err != nil {
		if HandleRepoError(w, h.logger, err, "") {
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	Created(w, TopicFromDomain(*t))
}

// GetTopic возвращает топик брокера по имени.
// GET /api/v1/brokers/{name}/topics/{topic}
func (h *Handler) GetTopic(w http.ResponseWriter, r *http.Request) {
	brokerName := r.PathValue("name")
	topicName := r.PathValue("topic")

	broker, err := h.brokerRepo.GetBrokerByName(r.Context(), brokerName)
	if HandleRepoError(w, h.logger, err, "broker not found") {
		return
	}

	t, err := h.brokerRepo.GetTopic(r.Context(), broker.ID, topicName)
	if HandleRepoError(w, h.logger, err, "topic not found") {
		return
	}

	Success(w, TopicFromDomain(*t))
}
