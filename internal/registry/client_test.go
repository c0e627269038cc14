package registry

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// --- Datasets ---

func TestRegisterDataset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/datasets" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		var req RegisterDatasetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Name != "sensor-readings" {
			t.Errorf("name = %q, want %q", req.Name, "sensor-readings")
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"data": DatasetResponse{ID: "d1", Name: req.Name},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	ds, err := c.RegisterDataset(RegisterDatasetRequest{Name: "sensor-readings"})
	if err != nil {
		t.Fatalf("RegisterDataset() error: %v", err)
	}
	if ds.ID != "d1" {
		t.Errorf("id = %q, want %q", ds.ID, "d1")
	}
}

func TestGetDatasetByName_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data":  []DatasetResponse{},
			"total": 0,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.GetDatasetByName("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

// --- Topics ---

func TestRegisterTopic_ConflictReturnsExisting(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/brokers/rabbit/topics":
			// Топик уже зарегистрирован
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]string{"code": "CONFLICT", "message": "topic exists"},
			})
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/brokers/rabbit/topics/events":
			json.NewEncoder(w).Encode(map[string]any{
				"data": TopicResponse{ID: "t1", Name: "events"},
			})
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	topic, err := c.RegisterTopic("rabbit", "events")
	if err != nil {
		t.Fatalf("RegisterTopic() error: %v", err)
	}
	if topic.ID != "t1" {
		t.Errorf("id = %q, want %q", topic.ID, "t1")
	}
}

func TestGetTopicDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/datasets/d1/topic-details" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": TopicDetailResponse{
				DatasetID:  "d1",
				BrokerName: "rabbit",
				Host:       "mq.local",
				Port:       5672,
				TopicName:  "events",
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	detail, err := c.GetTopicDetails("d1")
	if err != nil {
		t.Fatalf("GetTopicDetails() error: %v", err)
	}
	if detail.BrokerName != "rabbit" || detail.TopicName != "events" {
		t.Errorf("unexpected detail: %+v", detail)
	}
}

// --- Models ---

func TestLinkModelToDataset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/models/m1/datasets" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["dataset_id"] != "d1" {
			t.Errorf("dataset_id = %q, want %q", body["dataset_id"], "d1")
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"data": ModelDatasetLinkResponse{ModelID: "m1", DatasetID: "d1"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	link, err := c.LinkModelToDataset("m1", "d1")
	if err != nil {
		t.Fatalf("LinkModelToDataset() error: %v", err)
	}
	if link.ModelID != "m1" || link.DatasetID != "d1" {
		t.Errorf("unexpected link: %+v", link)
	}
}

// --- Schedules ---

func TestCreateSchedule_SendsGraph(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req CreateScheduleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Graph.Name != "fl-pipeline" {
			t.Errorf("graph.name = %q, want %q", req.Graph.Name, "fl-pipeline")
		}
		if req.CronExpr != "0 3 * * *" {
			t.Errorf("cron_expr = %q", req.CronExpr)
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"data": ScheduleResponse{ID: "s1", PipelineName: req.Graph.Name, Enabled: true},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	req := CreateScheduleRequest{
		CronExpr: "0 3 * * *",
		Enabled:  true,
	}
	req.Graph.Name = "fl-pipeline"

	schedule, err := c.CreateSchedule(req)
	if err != nil {
		t.Fatalf("CreateSchedule() error: %v", err)
	}
	if schedule.ID != "s1" {
		t.Errorf("id = %q, want %q", schedule.ID, "s1")
	}
}

func TestDeleteSchedule_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"code": "NOT_FOUND", "message": "schedule not found"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.DeleteSchedule("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
