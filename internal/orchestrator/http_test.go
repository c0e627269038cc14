package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shaiso/fedflow/internal/domain"
)

func TestSubmit_SendsGraphAndRunName(t *testing.T) {
	runID := uuid.New()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/runs" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		var req submitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Graph == nil || req.Graph.Name != "fl-pipeline" {
			t.Errorf("graph not forwarded: %+v", req.Graph)
		}
		if req.RunName != "sched_123" {
			t.Errorf("run_name = %q, want %q", req.RunName, "sched_123")
		}
		if req.Arguments["number_of_iterations"] != float64(5) {
			t.Errorf("arguments not forwarded: %v", req.Arguments)
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"data": domain.RunHandle{ID: runID, Name: req.RunName, Status: domain.StatusRunning},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	graph := &domain.GraphDefinition{Name: "fl-pipeline"}
	args := map[string]any{"number_of_iterations": 5}

	handle, err := c.Submit(context.Background(), graph, args, SubmitOptions{RunName: "sched_123"})
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if handle.ID != runID {
		t.Errorf("handle.ID = %v, want %v", handle.ID, runID)
	}
}

func TestSubmit_ConflictMapsToAlreadyExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"code": "CONFLICT", "message": "run name taken"},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := c.Submit(context.Background(), &domain.GraphDefinition{Name: "p"}, nil, SubmitOptions{})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("error = %v, want ErrAlreadyExists", err)
	}
}

func TestGetRunStatus(t *testing.T) {
	runID := uuid.New()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/runs/"+runID.String() {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": runStatusResponse{Status: domain.StatusSucceeded},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	status, err := c.GetRunStatus(context.Background(), runID)
	if err != nil {
		t.Fatalf("GetRunStatus() error: %v", err)
	}
	if status != domain.StatusSucceeded {
		t.Errorf("status = %q, want %q", status, domain.StatusSucceeded)
	}
}

func TestGetRunStatus_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"code": "NOT_FOUND", "message": "no such run"},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := c.GetRunStatus(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestEndpointAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/services/flserver-abc/address" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": addressResponse{Address: "10.0.0.7:8080"},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	addr, err := c.EndpointAddress(context.Background(), "flserver-abc")
	if err != nil {
		t.Fatalf("EndpointAddress() error: %v", err)
	}
	if addr != "10.0.0.7:8080" {
		t.Errorf("addr = %q", addr)
	}
}

func TestEndpointAddress_EmptyIsNoAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": addressResponse{},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := c.EndpointAddress(context.Background(), "flserver-abc")
	if !errors.Is(err, ErrNoAddress) {
		t.Errorf("error = %v, want ErrNoAddress", err)
	}
}

func TestCreateService_ConflictPropagates(t *testing.T) {
	// Идемпотентность конфликта решает lifecycle, клиент её не скрывает
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"code": "CONFLICT", "message": "exists"},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	err := c.CreateService(context.Background(), "flserver-abc")
	if !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("error = %v, want ErrAlreadyExists", err)
	}
}
