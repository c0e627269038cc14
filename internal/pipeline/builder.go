package pipeline

import (
	"context"
	"fmt"

	"github.com/shaiso/fedflow/internal/domain"
	"github.com/shaiso/fedflow/internal/orchestrator"
	"github.com/shaiso/fedflow/internal/signature"
)

// Фиксированные ID узлов графа.
const (
	setupNodeID    = "setup-links"
	serverNodeID   = "fl-server"
	teardownNodeID = "release-links"
)

// endpointNamePrefix — префикс имени общего сервиса.
// Суффикс — run-уникальный плейсхолдер, который подставляет оркестратор:
// параллельные запуски одного пайплайна не делят эндпоинт.
const endpointNamePrefix = "flserver-"

// regionSelectorKey — ключ node selector'а для привязки к региону данных.
const regionSelectorKey = "region"

// Options — параметры компоновки пайплайна.
type Options struct {
	// Name — имя пайплайна. По умолчанию "fl-pipeline".
	Name string

	// Description — описание пайплайна.
	Description string

	// EnforcePlacement — привязывать клиентские узлы к региону
	// их коннектора через node selector.
	EnforcePlacement bool
}

// Pipeline — скомпонованный пайплайн федеративного обучения.
//
// Хранит компоненты и слитую сигнатуру; граф порождается заново при
// каждом Bind, сам Pipeline неизменяем после Compose.
type Pipeline struct {
	name        string
	description string
	client      *signature.Component
	server      *signature.Component
	connectors  []domain.Connector
	enforce     bool
	merged      *signature.Merged
}

// Compose строит пайплайн из клиентского и серверного компонентов.
//
// Каждый коннектор порождает один клиентский узел, порядок сохраняется.
// Компоненты не вызываются: Compose работает только с их контрактами.
func Compose(client, server *signature.Component, connectors []domain.Connector, opts Options) (*Pipeline, error) {
	if client == nil || server == nil {
		return nil, ErrNilComponent
	}
	if len(connectors) == 0 {
		return nil, ErrNoConnectors
	}

	name := opts.Name
	if name == "" {
		name = "fl-pipeline"
	}

	return &Pipeline{
		name:        name,
		description: opts.Description,
		client:      client,
		server:      server,
		connectors:  connectors,
		enforce:     opts.EnforcePlacement,
		merged:      signature.Merge(client.Descriptor(), server.Descriptor()),
	}, nil
}

// Name возвращает имя пайплайна.
func (p *Pipeline) Name() string {
	return p.name
}

// Signature возвращает публичную сигнатуру пайплайна.
func (p *Pipeline) Signature() *signature.Merged {
	return p.merged
}

// Bind связывает аргументы с сигнатурой и строит граф исполнения.
//
// Частичное связывание: отсутствующие аргументы получают default из
// контракта компонента-первообъявителя. Построенный граф валидируется;
// ошибка Bind означает, что отправлять нечего.
func (p *Pipeline) Bind(args map[string]any) (*domain.GraphDefinition, error) {
	graph, _, err := p.bind(args)
	return graph, err
}

func (p *Pipeline) bind(args map[string]any) (*domain.GraphDefinition, map[string]any, error) {
	bound, err := p.merged.Bind(args)
	if err != nil {
		return nil, nil, fmt.Errorf("bind arguments: %w", err)
	}

	endpoint := endpointNamePrefix + domain.RunUIDPlaceholder

	graph := &domain.GraphDefinition{
		Name:        p.name,
		Description: p.description,
		Parameters:  paramSpecs(p.merged),
	}

	// Setup: создаёт общий эндпоинт, его выход — адрес сервера.
	graph.Nodes = append(graph.Nodes, domain.Node{
		ID:          setupNodeID,
		Kind:        domain.NodeSetup,
		DisplayName: "setup",
		Args:        map[string]any{"name": endpoint},
	})

	// Server: число итераций + серверные extras.
	serverArgs := map[string]any{
		signature.ParamNumberOfIterations: bound[signature.ParamNumberOfIterations],
	}
	for _, name := range p.merged.ServerExtras() {
		serverArgs[name] = bound[name]
	}
	graph.Nodes = append(graph.Nodes, domain.Node{
		ID:          serverNodeID,
		Kind:        domain.NodeServer,
		DisplayName: "server",
		DependsOn:   []string{setupNodeID},
		Args:        serverArgs,
		Labels:      map[string]string{"app": endpoint},
	})

	// Clients: один узел на коннектор, порядок сохраняется.
	scopeBody := []string{serverNodeID}
	for i, conn := range p.connectors {
		clientArgs := map[string]any{
			signature.ParamServerAddress:      domain.OutputRef(setupNodeID),
			signature.ParamLocalDataConnector: conn.Link,
		}
		for _, name := range p.merged.ClientExtras() {
			clientArgs[name] = bound[name]
		}

		node := domain.Node{
			ID:          fmt.Sprintf("fl-client-%d", i),
			Kind:        domain.NodeClient,
			DisplayName: "client:" + conn.Region,
			DependsOn:   []string{setupNodeID},
			Args:        clientArgs,
		}
		if p.enforce {
			// Пустой регион привязывается с пустым значением.
			node.NodeSelector = map[string]string{regionSelectorKey: conn.Region}
		}

		graph.Nodes = append(graph.Nodes, node)
		scopeBody = append(scopeBody, node.ID)
	}

	// Teardown: удаляет эндпоинт на любом исходе тела области.
	graph.Nodes = append(graph.Nodes, domain.Node{
		ID:          teardownNodeID,
		Kind:        domain.NodeTeardown,
		DisplayName: "teardown",
		Args:        map[string]any{"name": endpoint},
	})
	graph.ExitScope = &domain.ExitScope{
		Body:    scopeBody,
		Cleanup: teardownNodeID,
	}

	if err := Validate(graph); err != nil {
		return nil, nil, err
	}
	return graph, bound, nil
}

// RunOptions — параметры запуска пайплайна.
type RunOptions struct {
	// RunName — имя запуска у оркестратора.
	RunName string

	// Experiment — имя эксперимента.
	Experiment string
}

// Submit связывает аргументы и отправляет граф оркестратору.
func (p *Pipeline) Submit(ctx context.Context, orch orchestrator.Client, args map[string]any, opts RunOptions) (*domain.RunHandle, error) {
	graph, bound, err := p.bind(args)
	if err != nil {
		return nil, err
	}

	handle, err := orch.Submit(ctx, graph, bound, orchestrator.SubmitOptions{
		RunName:    opts.RunName,
		Experiment: opts.Experiment,
	})
	if err != nil {
		return nil, fmt.Errorf("submit pipeline %q: %w", p.name, err)
	}
	return handle, nil
}

// paramSpecs переводит слитую сигнатуру в описание параметров графа.
func paramSpecs(m *signature.Merged) []domain.ParamSpec {
	specs := make([]domain.ParamSpec, len(m.Params))
	for i, p := range m.Params {
		specs[i] = domain.ParamSpec{
			Name:       p.Name,
			Type:       p.Type.String(),
			Default:    p.Default,
			HasDefault: p.HasDefault,
		}
	}
	return specs
}
