package pipeline

import (
	"errors"
	"testing"

	"github.com/shaiso/fedflow/internal/domain"
)

func TestValidate_EmptyGraph(t *testing.T) {
	err := Validate(&domain.GraphDefinition{})
	if !errors.Is(err, ErrEmptyGraph) {
		t.Errorf("expected ErrEmptyGraph, got %v", err)
	}
}

func TestValidate_DuplicateID(t *testing.T) {
	g := &domain.GraphDefinition{
		Nodes: []domain.Node{
			{ID: "a", Kind: domain.NodeSetup},
			{ID: "a", Kind: domain.NodeServer},
		},
	}

	err := Validate(g)
	if !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("expected ErrDuplicateNodeID, got %v", err)
	}

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatal("expected ValidationError")
	}
	if vErr.NodeID != "a" {
		t.Errorf("expected node a in error, got %q", vErr.NodeID)
	}
}

func TestValidate_UnknownDependency(t *testing.T) {
	g := &domain.GraphDefinition{
		Nodes: []domain.Node{
			{ID: "a", Kind: domain.NodeServer, DependsOn: []string{"missing"}},
		},
	}

	if err := Validate(g); !errors.Is(err, ErrUnknownDependency) {
		t.Errorf("expected ErrUnknownDependency, got %v", err)
	}
}

func TestValidate_SelfDependency(t *testing.T) {
	g := &domain.GraphDefinition{
		Nodes: []domain.Node{
			{ID: "a", Kind: domain.NodeServer, DependsOn: []string{"a"}},
		},
	}

	if err := Validate(g); !errors.Is(err, ErrSelfDependency) {
		t.Errorf("expected ErrSelfDependency, got %v", err)
	}
}

func TestValidate_Cycle(t *testing.T) {
	// a → b → c → a
	g := &domain.GraphDefinition{
		Nodes: []domain.Node{
			{ID: "a", Kind: domain.NodeSetup, DependsOn: []string{"c"}},
			{ID: "b", Kind: domain.NodeServer, DependsOn: []string{"a"}},
			{ID: "c", Kind: domain.NodeClient, DependsOn: []string{"b"}},
		},
	}

	if err := Validate(g); !errors.Is(err, ErrCyclicDependency) {
		t.Errorf("expected ErrCyclicDependency, got %v", err)
	}
}

func TestValidate_ExitScope(t *testing.T) {
	base := func() *domain.GraphDefinition {
		return &domain.GraphDefinition{
			Nodes: []domain.Node{
				{ID: "setup", Kind: domain.NodeSetup},
				{ID: "server", Kind: domain.NodeServer, DependsOn: []string{"setup"}},
				{ID: "teardown", Kind: domain.NodeTeardown},
			},
		}
	}

	// Корректная область
	g := base()
	g.ExitScope = &domain.ExitScope{Body: []string{"server"}, Cleanup: "teardown"}
	if err := Validate(g); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	// Cleanup не существует
	g = base()
	g.ExitScope = &domain.ExitScope{Body: []string{"server"}, Cleanup: "missing"}
	if err := Validate(g); !errors.Is(err, ErrBadExitScope) {
		t.Errorf("expected ErrBadExitScope, got %v", err)
	}

	// Cleanup внутри собственного тела
	g = base()
	g.ExitScope = &domain.ExitScope{Body: []string{"server", "teardown"}, Cleanup: "teardown"}
	if err := Validate(g); !errors.Is(err, ErrBadExitScope) {
		t.Errorf("expected ErrBadExitScope, got %v", err)
	}

	// Тело ссылается на несуществующий узел
	g = base()
	g.ExitScope = &domain.ExitScope{Body: []string{"ghost"}, Cleanup: "teardown"}
	if err := Validate(g); !errors.Is(err, ErrBadExitScope) {
		t.Errorf("expected ErrBadExitScope, got %v", err)
	}
}

func TestValidate_ComposedGraphIsValid(t *testing.T) {
	client, server := testComponents(t)
	p, _ := Compose(client, server, testConnectors(5), Options{})

	graph, err := p.Bind(map[string]any{"number_of_iterations": 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Validate(graph); err != nil {
		t.Errorf("composed graph must validate: %v", err)
	}
}
