package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Middleware chain
	chain := Chain(
		Recovery(h.logger),
		Logging(h.logger),
		Metrics(),
	)

	// Datasets
	mux.Handle("GET /api/v1/datasets", chain(http.HandlerFunc(h.ListDatasets)))
	mux.Handle("POST /api/v1/datasets", chain(http.HandlerFunc(h.CreateDataset)))
	mux.Handle("GET /api/v1/datasets/{id}", chain(http.HandlerFunc(h.GetDataset)))
	mux.Handle("DELETE /api/v1/datasets/{id}", chain(http.HandlerFunc(h.DeleteDataset)))
	mux.Handle("GET /api/v1/datasets/{id}/topic-details", chain(http.HandlerFunc(h.GetTopicDetails)))
	mux.Handle("POST /api/v1/datasets/{id}/topic", chain(http.HandlerFunc(h.LinkDatasetTopic)))

	// Models
	mux.Handle("GET /api/v1/models", chain(http.HandlerFunc(h.ListModels)))
	mux.Handle("POST /api/v1/models", chain(http.HandlerFunc(h.CreateModel)))
	mux.Handle("GET /api/v1/models/{id}", chain(http.HandlerFunc(h.GetModel)))
	mux.Handle("GET /api/v1/models/{id}/datasets", chain(http.HandlerFunc(h.ListModelDatasets)))
	mux.Handle("POST /api/v1/models/{id}/datasets", chain(http.HandlerFunc(h.LinkModelDataset)))

	// Brokers
	mux.Handle("GET /api/v1/brokers", chain(http.HandlerFunc(h.ListBrokers)))
	mux.Handle("POST /api/v1/brokers", chain(http.HandlerFunc(h.CreateBroker)))
	mux.Handle("GET /api/v1/brokers/{name}", chain(http.HandlerFunc(h.GetBroker)))
	mux.Handle("POST /api/v1/brokers/{name}/topics", chain(http.HandlerFunc(h.CreateTopic)))
	mux.Handle("GET /api/v1/brokers/{name}/topics/{topic}", chain(http.HandlerFunc(h.GetTopic)))

	// Schedules
	mux.Handle("GET /api/v1/schedules", chain(http.HandlerFunc(h.ListSchedules)))
	mux.Handle("POST /api/v1/schedules", chain(http.HandlerFunc(h.CreateSchedule)))
	mux.Handle("GET /api/v1/schedules/{id}", chain(http.HandlerFunc(h.GetSchedule)))
	mux.Handle("PUT /api/v1/schedules/{id}", chain(http.HandlerFunc(h.UpdateSchedule)))
	mux.Handle("DELETE /api/v1/schedules/{id}", chain(http.HandlerFunc(h.DeleteSchedule)))
	mux.Handle("PUT /api/v1/schedules/{id}/enabled", chain(http.HandlerFunc(h.SetScheduleEnabled)))
}
