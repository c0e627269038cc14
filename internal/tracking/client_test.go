package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLogParam(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/2.0/mlflow/runs/log-parameter" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewClient(server.URL)
	if err := c.LogParam(context.Background(), "run-1", "lr", 0.01); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got["run_id"] != "run-1" || got["key"] != "lr" || got["value"] != "0.01" {
		t.Errorf("unexpected payload: %v", got)
	}
}

func TestLatestModelVersion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"model_versions": []map[string]string{
				{"name": "fl-model", "version": "1", "source": "s3://m/1"},
				{"name": "fl-model", "version": "3", "source": "s3://m/3"},
				{"name": "fl-model", "version": "2", "source": "s3://m/2"},
			},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL)
	v, err := c.LatestModelVersion(context.Background(), "fl-model")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Version != "3" {
		t.Errorf("expected version 3, got %s", v.Version)
	}
}

func TestLatestModelVersion_NoVersions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"model_versions": []any{}})
	}))
	defer server.Close()

	c := NewClient(server.URL)
	_, err := c.LatestModelVersion(context.Background(), "ghost")
	if !errors.Is(err, ErrNoVersions) {
		t.Errorf("expected ErrNoVersions, got %v", err)
	}
}

func TestIsAlive(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := NewClient(server.URL)
	if !c.IsAlive(context.Background()) {
		t.Error("expected alive")
	}

	server.Close()
	if c.IsAlive(context.Background()) {
		t.Error("expected not alive after server close")
	}
}

func TestServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "RESOURCE_ALREADY_EXISTS", http.StatusBadRequest)
	}))
	defer server.Close()

	c := NewClient(server.URL)
	err := c.RegisterModel(context.Background(), "dup")
	if err == nil {
		t.Fatal("expected error")
	}
}
