package signature

import (
	"fmt"
	"reflect"
)

// Канонические имена параметров федеративного протокола.
const (
	// ParamNumberOfIterations — число раундов обучения (контракт сервера).
	ParamNumberOfIterations = "number_of_iterations"

	// ParamServerAddress — адрес сервера агрегации (контракт клиента).
	// Значение подставляется графом из выхода setup-узла.
	ParamServerAddress = "server_address"

	// ParamLocalDataConnector — источник данных клиента (контракт клиента).
	// Значение подставляется графом из коннектора.
	ParamLocalDataConnector = "local_data_connector"
)

// clientManaged и serverManaged — параметры, которые связывает сам
// граф; в публичную сигнатуру пайплайна они не попадают.
var (
	clientManaged = map[string]bool{
		ParamServerAddress:      true,
		ParamLocalDataConnector: true,
	}
	serverManaged = map[string]bool{
		ParamNumberOfIterations: true,
	}
)

// Merged — публичная сигнатура пайплайна, полученная слиянием
// контрактов клиента и сервера.
//
// Первый параметр всегда number_of_iterations. Дальше идут «лишние»
// параметры: сначала клиентские, затем серверные, в порядке объявления,
// без дубликатов — при совпадении имён остаётся первое вхождение
// (его тип и default), без ошибки.
type Merged struct {
	// Params — параметры сигнатуры в итоговом порядке.
	Params []Param

	clientExtras []string
	serverExtras []string
}

// Merge сливает контракты клиента и сервера в сигнатуру пайплайна.
//
// Наличие обязательных параметров в контрактах здесь не проверяется:
// это контракт вызывающего кода, нарушение всплывёт при связывании.
// Merge — чистая функция, компоненты не вызываются.
func Merge(client, server *Descriptor) *Merged {
	m := &Merged{
		Params: []Param{{
			Name: ParamNumberOfIterations,
			Type: reflect.TypeOf(0),
		}},
	}

	seen := map[string]bool{ParamNumberOfIterations: true}

	for _, p := range client.Params {
		if p.Rest || clientManaged[p.Name] {
			continue
		}
		m.clientExtras = append(m.clientExtras, p.Name)
		if !seen[p.Name] {
			seen[p.Name] = true
			m.Params = append(m.Params, p)
		}
	}

	for _, p := range server.Params {
		if p.Rest || serverManaged[p.Name] {
			continue
		}
		m.serverExtras = append(m.serverExtras, p.Name)
		if !seen[p.Name] {
			seen[p.Name] = true
			m.Params = append(m.Params, p)
		}
	}

	return m
}

// ClientExtras возвращает имена параметров, пробрасываемых клиентам.
func (m *Merged) ClientExtras() []string {
	return m.clientExtras
}

// ServerExtras возвращает имена параметров, пробрасываемых серверу.
func (m *Merged) ServerExtras() []string {
	return m.serverExtras
}

// Names возвращает имена параметров сигнатуры в итоговом порядке.
func (m *Merged) Names() []string {
	names := make([]string, len(m.Params))
	for i, p := range m.Params {
		names[i] = p.Name
	}
	return names
}

// Bind связывает фактические аргументы с сигнатурой.
//
// Частичное связывание: отсутствующие параметры получают default,
// параметры без default обязаны присутствовать. Неизвестные ключи —
// ошибка: сигнатура пайплайна вариативных параметров не имеет.
func (m *Merged) Bind(args map[string]any) (map[string]any, error) {
	known := make(map[string]bool, len(m.Params))
	bound := make(map[string]any, len(m.Params))

	for _, p := range m.Params {
		known[p.Name] = true

		v, ok := args[p.Name]
		if !ok {
			if p.HasDefault {
				bound[p.Name] = p.Default
				continue
			}
			return nil, fmt.Errorf("%w: %q", ErrMissingArgument, p.Name)
		}
		if err := checkAssignable(p, v); err != nil {
			return nil, err
		}
		bound[p.Name] = v
	}

	for k := range args {
		if !known[k] {
			return nil, fmt.Errorf("%w: %q", ErrUnknownArgument, k)
		}
	}

	return bound, nil
}

// checkAssignable проверяет совместимость значения с типом параметра.
func checkAssignable(p Param, v any) error {
	if v == nil {
		return nil
	}
	vt := reflect.TypeOf(v)
	if vt.AssignableTo(p.Type) {
		return nil
	}
	if isNumeric(vt.Kind()) && isNumeric(p.Type.Kind()) {
		return nil
	}
	return fmt.Errorf("%w: %q wants %s, got %s", ErrArgumentType, p.Name, p.Type, vt)
}
