package domain

// NodeKind — роль узла в графе федеративного обучения.
type NodeKind string

const (
	// NodeSetup — подготовка ресурсов перед запуском сервера.
	NodeSetup NodeKind = "setup"

	// NodeServer — узел сервера агрегации.
	NodeServer NodeKind = "server"

	// NodeClient — узел обучающего клиента (один на коннектор).
	NodeClient NodeKind = "client"

	// NodeTeardown — освобождение ресурсов после завершения.
	NodeTeardown NodeKind = "teardown"
)

// RunUIDPlaceholder — плейсхолдер уникального идентификатора запуска.
// Подставляется оркестратором в момент исполнения, не на стороне SDK.
const RunUIDPlaceholder = "{{run.uid}}"

// OutputRef возвращает ссылку на выход узла графа.
// Используется, когда аргумент одного узла — результат другого.
func OutputRef(nodeID string) string {
	return "{{nodes." + nodeID + ".output}}"
}

// Node — один узел графа исполнения.
type Node struct {
	// ID — уникальный идентификатор узла внутри графа.
	ID string `json:"id"`

	// Kind — роль узла.
	Kind NodeKind `json:"kind"`

	// DisplayName — отображаемое имя для UI оркестратора.
	// Чисто косметическое, на исполнение не влияет.
	DisplayName string `json:"display_name,omitempty"`

	// DependsOn — ID узлов, которые должны завершиться до запуска этого.
	DependsOn []string `json:"depends_on,omitempty"`

	// Args — аргументы узла. Значения либо литералы, либо ссылки
	// вида {{nodes.<id>.output}} / {{run.uid}}.
	Args map[string]any `json:"args,omitempty"`

	// NodeSelector — требования к размещению (например, region).
	// Пустая map означает отсутствие ограничений.
	NodeSelector map[string]string `json:"node_selector,omitempty"`

	// Labels — метки узла для discovery (например, app=<endpoint>).
	Labels map[string]string `json:"labels,omitempty"`
}

// ExitScope — область гарантированной очистки.
//
// Узел Cleanup выполняется ровно один раз после завершения всех узлов
// Body — независимо от того, завершились они успехом, ошибкой или
// отменой. Аналог try/finally на уровне графа.
type ExitScope struct {
	// Body — ID узлов, покрытых областью.
	Body []string `json:"body"`

	// Cleanup — ID узла очистки.
	Cleanup string `json:"cleanup"`
}

// ParamSpec — описание параметра пайплайна в его публичной сигнатуре.
type ParamSpec struct {
	// Name — имя параметра (snake_case).
	Name string `json:"name"`

	// Type — строковое имя Go-типа параметра.
	Type string `json:"type"`

	// Default — значение по умолчанию, если задано.
	Default any `json:"default,omitempty"`

	// HasDefault — различает «default отсутствует» и «default равен zero value».
	HasDefault bool `json:"has_default"`
}

// GraphDefinition — полное описание графа, отправляемое оркестратору.
//
// Граф строится pipeline.Builder и проходит валидацию до отправки:
// уникальность ID, известность зависимостей, отсутствие циклов.
type GraphDefinition struct {
	// Name — имя пайплайна.
	Name string `json:"name"`

	// Description — описание пайплайна.
	Description string `json:"description,omitempty"`

	// Parameters — публичная сигнатура пайплайна.
	Parameters []ParamSpec `json:"parameters,omitempty"`

	// Nodes — узлы графа в порядке объявления.
	Nodes []Node `json:"nodes"`

	// ExitScope — область гарантированной очистки, если есть.
	ExitScope *ExitScope `json:"exit_scope,omitempty"`
}

// NodeByID возвращает узел по ID или nil, если узла нет.
func (g *GraphDefinition) NodeByID(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}
