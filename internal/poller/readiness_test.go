package poller

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/fedflow/internal/domain"
	"github.com/shaiso/fedflow/internal/orchestrator"
)

// fakeEndpoints — fake оркестратора: готовность на N-й пробе.
type fakeEndpoints struct {
	orchestrator.Client

	readyAfter int // проба, начиная с которой эндпоинт готов; 0 — никогда
	probes     int
	address    string
	addrErr    error
}

func (f *fakeEndpoints) IsEndpointReady(ctx context.Context, name string) (bool, error) {
	f.probes++
	return f.readyAfter > 0 && f.probes >= f.readyAfter, nil
}

func (f *fakeEndpoints) EndpointAddress(ctx context.Context, name string) (string, error) {
	if f.addrErr != nil {
		return "", f.addrErr
	}
	return f.address, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discard{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func fastConfig(attempts int) ReadinessConfig {
	return ReadinessConfig{
		BaseWait:    time.Microsecond,
		MaxWait:     10 * time.Microsecond,
		MaxAttempts: attempts,
	}
}

func TestWaitUntilReady_ThirdProbe(t *testing.T) {
	orch := &fakeEndpoints{readyAfter: 3, address: "grpc://flserver:8080"}
	p := NewReadinessPoller(orch, testLogger(), fastConfig(30))

	addr, err := p.WaitUntilReady(context.Background(), "flserver-x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if orch.probes != 3 {
		t.Errorf("expected exactly 3 probes, got %d", orch.probes)
	}
	if addr != "grpc://flserver:8080" {
		t.Errorf("unexpected address: %q", addr)
	}
}

func TestWaitUntilReady_BudgetExhausted(t *testing.T) {
	orch := &fakeEndpoints{readyAfter: 0}
	p := NewReadinessPoller(orch, testLogger(), fastConfig(5))

	_, err := p.WaitUntilReady(context.Background(), "flserver-x")
	if !errors.Is(err, ErrEndpointNotReady) {
		t.Fatalf("expected ErrEndpointNotReady, got %v", err)
	}

	if orch.probes != 5 {
		t.Errorf("expected exactly 5 probes, got %d", orch.probes)
	}
}

func TestWaitUntilReady_MissingAddressIsFatal(t *testing.T) {
	orch := &fakeEndpoints{readyAfter: 1, addrErr: orchestrator.ErrNoAddress}
	p := NewReadinessPoller(orch, testLogger(), fastConfig(30))

	_, err := p.WaitUntilReady(context.Background(), "flserver-x")
	if !errors.Is(err, orchestrator.ErrNoAddress) {
		t.Fatalf("expected ErrNoAddress, got %v", err)
	}

	// Адрес не ретраится
	if orch.probes != 1 {
		t.Errorf("expected 1 probe, got %d", orch.probes)
	}
}

func TestWaitUntilReady_ContextCancel(t *testing.T) {
	orch := &fakeEndpoints{readyAfter: 0}
	p := NewReadinessPoller(orch, testLogger(), ReadinessConfig{
		BaseWait:    time.Hour,
		MaxWait:     time.Hour,
		MaxAttempts: 30,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := p.WaitUntilReady(ctx, "flserver-x")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

// errorEndpoints — проба всегда возвращает ошибку транспорта.
type errorEndpoints struct {
	orchestrator.Client
	probes int
}

func (f *errorEndpoints) IsEndpointReady(ctx context.Context, name string) (bool, error) {
	f.probes++
	return false, errors.New("connection refused")
}

func TestWaitUntilReady_TransportErrorRetried(t *testing.T) {
	orch := &errorEndpoints{}
	p := NewReadinessPoller(orch, testLogger(), fastConfig(4))

	_, err := p.WaitUntilReady(context.Background(), "flserver-x")
	if !errors.Is(err, ErrEndpointNotReady) {
		t.Fatalf("expected ErrEndpointNotReady, got %v", err)
	}
	if orch.probes != 4 {
		t.Errorf("expected 4 probes, got %d", orch.probes)
	}
}

func TestBackoffDelay_NonDecreasingWithCap(t *testing.T) {
	p := NewReadinessPoller(nil, testLogger(), ReadinessConfig{
		BaseWait:    time.Second,
		MaxWait:     10 * time.Second,
		MaxAttempts: 30,
	})

	var prev time.Duration
	for attempt := 1; attempt <= 30; attempt++ {
		d := p.backoffDelay(attempt)
		if d < prev {
			t.Errorf("delay decreased at attempt %d: %v < %v", attempt, d, prev)
		}
		if d > 10*time.Second {
			t.Errorf("delay above cap at attempt %d: %v", attempt, d)
		}
		prev = d
	}

	// 1s, 2s, 4s, 8s, 10s, 10s...
	if p.backoffDelay(1) != time.Second {
		t.Errorf("attempt 1: expected 1s, got %v", p.backoffDelay(1))
	}
	if p.backoffDelay(3) != 4*time.Second {
		t.Errorf("attempt 3: expected 4s, got %v", p.backoffDelay(3))
	}
	if p.backoffDelay(5) != 10*time.Second {
		t.Errorf("attempt 5: expected cap 10s, got %v", p.backoffDelay(5))
	}
	if p.backoffDelay(20) != 10*time.Second {
		t.Errorf("attempt 20: expected cap 10s, got %v", p.backoffDelay(20))
	}
}

// --- RunPoller ---

// fakeRuns — fake оркестратора: последовательность статусов.
type fakeRuns struct {
	orchestrator.Client

	statuses []domain.RunStatus
	polls    int
	err      error
}

func (f *fakeRuns) GetRunStatus(ctx context.Context, runID uuid.UUID) (domain.RunStatus, error) {
	if f.err != nil {
		return "", f.err
	}
	i := f.polls
	if i >= len(f.statuses) {
		i = len(f.statuses) - 1
	}
	f.polls++
	return f.statuses[i], nil
}

func TestWaitUntilTerminal_ThreeQueries(t *testing.T) {
	orch := &fakeRuns{statuses: []domain.RunStatus{
		domain.StatusRunning,
		domain.StatusRunning,
		domain.StatusSucceeded,
	}}
	p := NewRunPoller(orch, testLogger(), time.Microsecond)

	var observed []domain.RunStatus
	p.OnStatus = func(s domain.RunStatus) { observed = append(observed, s) }

	status, err := p.WaitUntilTerminal(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if status != domain.StatusSucceeded {
		t.Errorf("expected Succeeded, got %s", status)
	}
	if orch.polls != 3 {
		t.Errorf("expected exactly 3 polls, got %d", orch.polls)
	}
	// Каждый наблюдённый статус отрепортован до паузы
	if len(observed) != 3 || observed[0] != domain.StatusRunning || observed[2] != domain.StatusSucceeded {
		t.Errorf("unexpected observations: %v", observed)
	}
}

func TestWaitUntilTerminal_FailureIsNotError(t *testing.T) {
	for _, terminal := range []domain.RunStatus{
		domain.StatusFailed,
		domain.StatusSkipped,
		domain.StatusError,
	} {
		orch := &fakeRuns{statuses: []domain.RunStatus{terminal}}
		p := NewRunPoller(orch, testLogger(), time.Microsecond)

		status, err := p.WaitUntilTerminal(context.Background(), uuid.New())
		if err != nil {
			t.Errorf("%s: terminal status must not be an error: %v", terminal, err)
		}
		if status != terminal {
			t.Errorf("expected %s, got %s", terminal, status)
		}
	}
}

func TestWaitUntilTerminal_TransportError(t *testing.T) {
	boom := errors.New("connection reset")
	p := NewRunPoller(&fakeRuns{err: boom}, testLogger(), time.Microsecond)

	_, err := p.WaitUntilTerminal(context.Background(), uuid.New())
	if !errors.Is(err, boom) {
		t.Errorf("expected transport error, got %v", err)
	}
}

func TestWaitUntilTerminal_UnknownStatus(t *testing.T) {
	orch := &fakeRuns{statuses: []domain.RunStatus{"Pending"}}
	p := NewRunPoller(orch, testLogger(), time.Microsecond)

	_, err := p.WaitUntilTerminal(context.Background(), uuid.New())
	if !errors.Is(err, ErrUnknownStatus) {
		t.Errorf("expected ErrUnknownStatus, got %v", err)
	}
}

func TestWaitUntilTerminal_ContextCancel(t *testing.T) {
	orch := &fakeRuns{statuses: []domain.RunStatus{domain.StatusRunning}}
	p := NewRunPoller(orch, testLogger(), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := p.WaitUntilTerminal(ctx, uuid.New())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
