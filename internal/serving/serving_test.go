package serving

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/shaiso/fedflow/internal/orchestrator"
	"github.com/shaiso/fedflow/internal/poller"
)

// fakeServing — fake оркестратора для inference-сервисов.
type fakeServing struct {
	orchestrator.Client

	servedName string
	servedURI  string
	serveErr   error
	deleteErr  error

	readyProbes int
	address     string
}

func (f *fakeServing) ServeModel(ctx context.Context, name, modelURI string) error {
	f.servedName = name
	f.servedURI = modelURI
	return f.serveErr
}

func (f *fakeServing) DeleteServedModel(ctx context.Context, name string) error {
	return f.deleteErr
}

func (f *fakeServing) IsEndpointReady(ctx context.Context, name string) (bool, error) {
	f.readyProbes++
	return f.readyProbes >= 2, nil
}

func (f *fakeServing) EndpointAddress(ctx context.Context, name string) (string, error) {
	return f.address, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discard{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// fastReadiness — опрос готовности с микросекундными задержками.
func fastReadiness(orch orchestrator.Client) *poller.ReadinessPoller {
	return poller.NewReadinessPoller(orch, testLogger(), poller.ReadinessConfig{
		BaseWait:    time.Microsecond,
		MaxWait:     10 * time.Microsecond,
		MaxAttempts: 10,
	})
}

func TestServe_GeneratesName(t *testing.T) {
	orch := &fakeServing{}
	s := NewService(orch, testLogger())
	s.now = func() time.Time { return time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC) }

	name, err := s.Serve(context.Background(), "", "s3://models/fl/1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "predictormodel20260203040506"
	if name != want {
		t.Errorf("expected %q, got %q", want, name)
	}
	if orch.servedName != want || orch.servedURI != "s3://models/fl/1" {
		t.Errorf("unexpected serve call: %q %q", orch.servedName, orch.servedURI)
	}
}

func TestServe_ExplicitName(t *testing.T) {
	orch := &fakeServing{}
	s := NewService(orch, testLogger())

	name, err := s.Serve(context.Background(), "fraud-detector", "s3://models/fraud/3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "fraud-detector" {
		t.Errorf("unexpected name: %q", name)
	}
}

func TestServe_EmptyURI(t *testing.T) {
	s := NewService(&fakeServing{}, testLogger())

	if _, err := s.Serve(context.Background(), "x", ""); !errors.Is(err, ErrEmptyModelURI) {
		t.Errorf("expected ErrEmptyModelURI, got %v", err)
	}
}

func TestURL_WaitsForReadiness(t *testing.T) {
	orch := &fakeServing{address: "http://predictor:8080/v2/models"}
	s := NewService(orch, testLogger())
	s.readiness = fastReadiness(orch)

	url, err := s.URL(context.Background(), "fraud-detector")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "http://predictor:8080/v2/models" {
		t.Errorf("unexpected url: %q", url)
	}
	if orch.readyProbes != 2 {
		t.Errorf("expected 2 probes, got %d", orch.readyProbes)
	}
}

func TestDelete_Propagates(t *testing.T) {
	boom := errors.New("not found")
	s := NewService(&fakeServing{deleteErr: boom}, testLogger())

	if err := s.Delete(context.Background(), "fraud-detector"); !errors.Is(err, boom) {
		t.Errorf("expected delete error to propagate, got %v", err)
	}
}
