package pipeline

import (
	"github.com/shaiso/fedflow/internal/domain"
)

// Validate проверяет граф перед отправкой оркестратору.
//
// Проверки:
// - граф не пуст, все узлы имеют уникальные непустые ID
// - зависимости ссылаются на существующие узлы, нет самозависимостей
// - нет циклов (топологическая сортировка Кана)
// - область очистки ссылается на существующие узлы и не включает
//   узел очистки в собственное тело
func Validate(g *domain.GraphDefinition) error {
	if len(g.Nodes) == 0 {
		return NewValidationError("", "nodes", "graph has no nodes", ErrEmptyGraph)
	}

	byID := make(map[string]*domain.Node, len(g.Nodes))
	for i := range g.Nodes {
		node := &g.Nodes[i]
		if node.ID == "" {
			return NewValidationError("", "id", "node has empty ID", ErrEmptyNodeID)
		}
		if _, exists := byID[node.ID]; exists {
			return NewValidationError(node.ID, "id", "duplicate node ID: "+node.ID, ErrDuplicateNodeID)
		}
		byID[node.ID] = node
	}

	for i := range g.Nodes {
		node := &g.Nodes[i]
		for _, dep := range node.DependsOn {
			if dep == node.ID {
				return NewValidationError(node.ID, "depends_on", "node depends on itself", ErrSelfDependency)
			}
			if _, ok := byID[dep]; !ok {
				return NewValidationError(node.ID, "depends_on", "depends on unknown node: "+dep, ErrUnknownDependency)
			}
		}
	}

	if err := checkAcyclic(g); err != nil {
		return err
	}

	return checkExitScope(g, byID)
}

// checkAcyclic выполняет топологическую сортировку Кана.
// Если отсортировать все узлы не удалось — в графе цикл.
func checkAcyclic(g *domain.GraphDefinition) error {
	inDegree := make(map[string]int, len(g.Nodes))
	dependents := make(map[string][]string, len(g.Nodes))

	for i := range g.Nodes {
		node := &g.Nodes[i]
		inDegree[node.ID] = len(node.DependsOn)
		for _, dep := range node.DependsOn {
			dependents[dep] = append(dependents[dep], node.ID)
		}
	}

	var queue []string
	for id, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}

	sorted := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		sorted++

		for _, dep := range dependents[id] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	if sorted != len(g.Nodes) {
		return NewValidationError("", "depends_on", "dependency cycle detected", ErrCyclicDependency)
	}
	return nil
}

// checkExitScope проверяет область гарантированной очистки.
func checkExitScope(g *domain.GraphDefinition, byID map[string]*domain.Node) error {
	scope := g.ExitScope
	if scope == nil {
		return nil
	}

	if scope.Cleanup == "" {
		return NewValidationError("", "exit_scope", "exit scope has no cleanup node", ErrBadExitScope)
	}
	if _, ok := byID[scope.Cleanup]; !ok {
		return NewValidationError(scope.Cleanup, "exit_scope", "cleanup node does not exist", ErrBadExitScope)
	}
	if len(scope.Body) == 0 {
		return NewValidationError(scope.Cleanup, "exit_scope", "exit scope has empty body", ErrBadExitScope)
	}

	for _, id := range scope.Body {
		if _, ok := byID[id]; !ok {
			return NewValidationError(id, "exit_scope", "body node does not exist: "+id, ErrBadExitScope)
		}
		if id == scope.Cleanup {
			return NewValidationError(id, "exit_scope", "cleanup node inside its own scope body", ErrBadExitScope)
		}
	}
	return nil
}
