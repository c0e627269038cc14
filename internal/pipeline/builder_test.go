package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/fedflow/internal/domain"
	"github.com/shaiso/fedflow/internal/orchestrator"
	"github.com/shaiso/fedflow/internal/signature"
)

// --- Тестовые компоненты ---

type trainArgs struct {
	ServerAddress      string
	LocalDataConnector string
	LearningRate       float64 `param:"lr" default:"0.01"`
}

type aggregateArgs struct {
	NumberOfIterations int
	Strategy           string `default:"fedavg"`
}

func testComponents(t *testing.T) (client, server *signature.Component) {
	t.Helper()

	client, err := signature.New("train", func(ctx context.Context, a trainArgs) error { return nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	server, err = signature.New("aggregate", func(ctx context.Context, a aggregateArgs) error { return nil })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return client, server
}

func testConnectors(n int) []domain.Connector {
	conns := make([]domain.Connector, n)
	for i := range conns {
		conns[i] = domain.Connector{
			Link:   fmt.Sprintf("s3://data/part-%d", i),
			Region: fmt.Sprintf("region-%d", i),
		}
	}
	return conns
}

// --- Compose ---

func TestCompose_NilComponent(t *testing.T) {
	client, _ := testComponents(t)

	if _, err := Compose(client, nil, testConnectors(1), Options{}); !errors.Is(err, ErrNilComponent) {
		t.Errorf("expected ErrNilComponent, got %v", err)
	}
	if _, err := Compose(nil, nil, testConnectors(1), Options{}); !errors.Is(err, ErrNilComponent) {
		t.Errorf("expected ErrNilComponent, got %v", err)
	}
}

func TestCompose_NoConnectors(t *testing.T) {
	client, server := testComponents(t)

	if _, err := Compose(client, server, nil, Options{}); !errors.Is(err, ErrNoConnectors) {
		t.Errorf("expected ErrNoConnectors, got %v", err)
	}
}

func TestCompose_Signature(t *testing.T) {
	client, server := testComponents(t)

	p, err := Compose(client, server, testConnectors(1), Options{Name: "test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names := p.Signature().Names()
	want := []string{"number_of_iterations", "lr", "strategy"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("param %d: expected %q, got %q", i, want[i], names[i])
		}
	}
}

// --- Bind: форма графа ---

func TestBind_GraphShape(t *testing.T) {
	client, server := testComponents(t)
	p, _ := Compose(client, server, testConnectors(3), Options{Name: "fl"})

	graph, err := p.Bind(map[string]any{"number_of_iterations": 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// setup + server + 3 клиента + teardown
	if len(graph.Nodes) != 6 {
		t.Fatalf("expected 6 nodes, got %d", len(graph.Nodes))
	}

	setup := graph.NodeByID("setup-links")
	if setup == nil || setup.Kind != domain.NodeSetup {
		t.Fatal("setup node missing")
	}
	if setup.Args["name"] != "flserver-"+domain.RunUIDPlaceholder {
		t.Errorf("unexpected endpoint name: %v", setup.Args["name"])
	}

	srv := graph.NodeByID("fl-server")
	if srv == nil || srv.Kind != domain.NodeServer {
		t.Fatal("server node missing")
	}
	if len(srv.DependsOn) != 1 || srv.DependsOn[0] != "setup-links" {
		t.Errorf("server should depend on setup, got %v", srv.DependsOn)
	}
	if srv.Labels["app"] != "flserver-"+domain.RunUIDPlaceholder {
		t.Errorf("server should carry app label, got %v", srv.Labels)
	}

	// Клиенты идут в порядке коннекторов и зависят от setup
	for i := 0; i < 3; i++ {
		c := graph.NodeByID(fmt.Sprintf("fl-client-%d", i))
		if c == nil || c.Kind != domain.NodeClient {
			t.Fatalf("client node %d missing", i)
		}
		if len(c.DependsOn) != 1 || c.DependsOn[0] != "setup-links" {
			t.Errorf("client %d should depend on setup, got %v", i, c.DependsOn)
		}
		if c.Args["local_data_connector"] != fmt.Sprintf("s3://data/part-%d", i) {
			t.Errorf("client %d: unexpected connector %v", i, c.Args["local_data_connector"])
		}
		if c.Args["server_address"] != domain.OutputRef("setup-links") {
			t.Errorf("client %d: server_address should reference setup output", i)
		}
		if c.DisplayName != fmt.Sprintf("client:region-%d", i) {
			t.Errorf("client %d: unexpected display name %q", i, c.DisplayName)
		}
	}
}

func TestBind_ExitScopeCoversServerAndClients(t *testing.T) {
	client, server := testComponents(t)
	p, _ := Compose(client, server, testConnectors(2), Options{})

	graph, err := p.Bind(map[string]any{"number_of_iterations": 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if graph.ExitScope == nil {
		t.Fatal("exit scope missing")
	}
	if graph.ExitScope.Cleanup != "release-links" {
		t.Errorf("unexpected cleanup node: %q", graph.ExitScope.Cleanup)
	}

	want := map[string]bool{"fl-server": true, "fl-client-0": true, "fl-client-1": true}
	if len(graph.ExitScope.Body) != len(want) {
		t.Fatalf("expected body %v, got %v", want, graph.ExitScope.Body)
	}
	for _, id := range graph.ExitScope.Body {
		if !want[id] {
			t.Errorf("unexpected node in scope body: %q", id)
		}
	}

	// Teardown удаляет тот же эндпоинт, что создал setup
	teardown := graph.NodeByID("release-links")
	setup := graph.NodeByID("setup-links")
	if teardown.Args["name"] != setup.Args["name"] {
		t.Error("teardown must release the endpoint setup created")
	}
}

func TestBind_ArgumentPartitioning(t *testing.T) {
	client, server := testComponents(t)
	p, _ := Compose(client, server, testConnectors(1), Options{})

	graph, err := p.Bind(map[string]any{
		"number_of_iterations": 7,
		"lr":                   0.1,
		"strategy":             "fedprox",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	srv := graph.NodeByID("fl-server")
	if srv.Args["number_of_iterations"] != 7 {
		t.Errorf("server should get iterations, got %v", srv.Args)
	}
	if srv.Args["strategy"] != "fedprox" {
		t.Errorf("server should get its extra, got %v", srv.Args)
	}
	if _, ok := srv.Args["lr"]; ok {
		t.Error("client extra must not leak to server")
	}

	c := graph.NodeByID("fl-client-0")
	if c.Args["lr"] != 0.1 {
		t.Errorf("client should get its extra, got %v", c.Args)
	}
	if _, ok := c.Args["strategy"]; ok {
		t.Error("server extra must not leak to client")
	}
	if _, ok := c.Args["number_of_iterations"]; ok {
		t.Error("iterations must not leak to client")
	}
}

func TestBind_DefaultsApplied(t *testing.T) {
	client, server := testComponents(t)
	p, _ := Compose(client, server, testConnectors(1), Options{})

	graph, err := p.Bind(map[string]any{"number_of_iterations": 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if graph.NodeByID("fl-client-0").Args["lr"] != 0.01 {
		t.Error("client default lr not applied")
	}
	if graph.NodeByID("fl-server").Args["strategy"] != "fedavg" {
		t.Error("server default strategy not applied")
	}
}

func TestBind_MissingIterations(t *testing.T) {
	client, server := testComponents(t)
	p, _ := Compose(client, server, testConnectors(1), Options{})

	_, err := p.Bind(map[string]any{})
	if !errors.Is(err, signature.ErrMissingArgument) {
		t.Errorf("expected ErrMissingArgument, got %v", err)
	}
}

// --- Placement ---

func TestBind_PlacementEnforced(t *testing.T) {
	client, server := testComponents(t)
	conns := []domain.Connector{
		{Link: "s3://data/eu", Region: "eu"},
		{Link: "s3://data/anywhere", Region: ""},
	}
	p, _ := Compose(client, server, conns, Options{EnforcePlacement: true})

	graph, err := p.Bind(map[string]any{"number_of_iterations": 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := graph.NodeByID("fl-client-0").NodeSelector["region"]; got != "eu" {
		t.Errorf("expected selector region=eu, got %q", got)
	}

	// Пустой регион привязывается с пустым значением
	sel := graph.NodeByID("fl-client-1").NodeSelector
	if v, ok := sel["region"]; !ok || v != "" {
		t.Errorf("expected empty-value selector, got %v", sel)
	}
}

func TestBind_PlacementNotEnforced(t *testing.T) {
	client, server := testComponents(t)
	p, _ := Compose(client, server, []domain.Connector{{Link: "s3://d", Region: "eu"}}, Options{})

	graph, err := p.Bind(map[string]any{"number_of_iterations": 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(graph.NodeByID("fl-client-0").NodeSelector) != 0 {
		t.Error("selector must be absent without enforcement")
	}
}

// --- Submit ---

// fakeOrchestrator — минимальный fake для проверки отправки.
type fakeOrchestrator struct {
	orchestrator.Client

	submitted *domain.GraphDefinition
	arguments map[string]any
	submitErr error
}

func (f *fakeOrchestrator) Submit(ctx context.Context, graph *domain.GraphDefinition, arguments map[string]any, opts orchestrator.SubmitOptions) (*domain.RunHandle, error) {
	f.submitted = graph
	f.arguments = arguments
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &domain.RunHandle{
		ID:        uuid.New(),
		Name:      opts.RunName,
		Status:    domain.StatusRunning,
		CreatedAt: time.Now(),
	}, nil
}

func TestSubmit_SendsBoundGraph(t *testing.T) {
	client, server := testComponents(t)
	p, _ := Compose(client, server, testConnectors(1), Options{Name: "fl"})

	orch := &fakeOrchestrator{}
	handle, err := p.Submit(context.Background(), orch, map[string]any{"number_of_iterations": 2}, RunOptions{RunName: "run-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if handle.Status != domain.StatusRunning {
		t.Errorf("expected Running handle, got %s", handle.Status)
	}
	if orch.submitted == nil || orch.submitted.Name != "fl" {
		t.Error("graph was not submitted")
	}
	if orch.arguments["number_of_iterations"] != 2 {
		t.Errorf("bound arguments not forwarded: %v", orch.arguments)
	}
}

func TestSubmit_BindFailureDoesNotSubmit(t *testing.T) {
	client, server := testComponents(t)
	p, _ := Compose(client, server, testConnectors(1), Options{})

	orch := &fakeOrchestrator{}
	_, err := p.Submit(context.Background(), orch, map[string]any{}, RunOptions{})
	if !errors.Is(err, signature.ErrMissingArgument) {
		t.Errorf("expected ErrMissingArgument, got %v", err)
	}
	if orch.submitted != nil {
		t.Error("nothing must reach the orchestrator on bind failure")
	}
}
