package signature

import (
	"context"
	"fmt"
	"reflect"
)

// ctxType и errType — типы для проверки формы функции компонента.
var (
	ctxType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errType = reflect.TypeOf((*error)(nil)).Elem()
)

// Component — пользовательская задача с параметрическим контрактом.
//
// Поддерживаемые формы функции:
//
//	func(ctx context.Context, args T) error
//	func(ctx context.Context, args T) (Out, error)
//
// где T — структура аргументов (или указатель на неё). Контракт
// строится один раз в New; Call связывает map аргументов обратно
// в структуру и вызывает функцию.
type Component struct {
	name     string
	fn       reflect.Value
	argsType reflect.Type
	argsPtr  bool
	desc     *Descriptor
}

// New создаёт компонент из пользовательской функции.
func New(name string, fn any) (*Component, error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: nil", ErrNotFunc)
	}

	v := reflect.ValueOf(fn)
	t := v.Type()
	if t.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: %s", ErrNotFunc, t)
	}

	if t.NumIn() != 2 || !t.In(0).Implements(ctxType) {
		return nil, fmt.Errorf("%w: want func(ctx, args), got %s", ErrBadShape, t)
	}
	if t.NumOut() < 1 || t.NumOut() > 2 || !t.Out(t.NumOut()-1).Implements(errType) {
		return nil, fmt.Errorf("%w: want error (or value, error) result, got %s", ErrBadShape, t)
	}

	argsType := t.In(1)
	argsPtr := argsType.Kind() == reflect.Pointer

	desc, err := describeStruct(name, argsType)
	if err != nil {
		return nil, err
	}

	return &Component{
		name:     name,
		fn:       v,
		argsType: argsType,
		argsPtr:  argsPtr,
		desc:     desc,
	}, nil
}

// Name возвращает имя компонента.
func (c *Component) Name() string {
	return c.name
}

// Descriptor возвращает параметрический контракт компонента.
func (c *Component) Descriptor() *Descriptor {
	return c.desc
}

// Call вызывает функцию компонента со связанными аргументами.
//
// Каждый параметр берётся из args по имени; параметры без значения
// получают default или остаются zero value. Ключи args, не описанные
// контрактом, собираются в rest-поле, если оно есть, иначе это ошибка.
func (c *Component) Call(ctx context.Context, args map[string]any) (any, error) {
	argsVal, err := c.buildArgs(args)
	if err != nil {
		return nil, err
	}

	results := c.fn.Call([]reflect.Value{reflect.ValueOf(ctx), argsVal})

	errVal := results[len(results)-1]
	if !errVal.IsNil() {
		return nil, errVal.Interface().(error)
	}
	if len(results) == 2 {
		return results[0].Interface(), nil
	}
	return nil, nil
}

// buildArgs собирает структуру аргументов из map.
func (c *Component) buildArgs(args map[string]any) (reflect.Value, error) {
	structType := c.argsType
	if c.argsPtr {
		structType = structType.Elem()
	}

	ptr := reflect.New(structType)
	elem := ptr.Elem()

	used := make(map[string]bool, len(args))
	var restParam *Param

	for i := range c.desc.Params {
		p := &c.desc.Params[i]
		if p.Rest {
			restParam = p
			continue
		}

		field := elem.Field(p.fieldIndex)

		raw, ok := args[p.Name]
		if !ok {
			if p.HasDefault {
				field.Set(reflect.ValueOf(p.Default))
			}
			continue
		}
		used[p.Name] = true

		if err := assign(field, raw); err != nil {
			return reflect.Value{}, fmt.Errorf("argument %q: %w", p.Name, err)
		}
	}

	// Лишние аргументы уходят в rest-поле.
	rest := make(map[string]any)
	for k, v := range args {
		if !used[k] {
			rest[k] = v
		}
	}
	if len(rest) > 0 {
		if restParam == nil {
			for k := range rest {
				return reflect.Value{}, fmt.Errorf("%w: %q", ErrUnknownArgument, k)
			}
		}
		elem.Field(restParam.fieldIndex).Set(reflect.ValueOf(rest))
	}

	if c.argsPtr {
		return ptr, nil
	}
	return elem, nil
}

// assign записывает значение в поле, при необходимости конвертируя
// совместимые типы (например, float64 из JSON в int).
func assign(field reflect.Value, raw any) error {
	if raw == nil {
		return nil
	}

	v := reflect.ValueOf(raw)
	if v.Type().AssignableTo(field.Type()) {
		field.Set(v)
		return nil
	}
	if v.Type().ConvertibleTo(field.Type()) && convertible(v.Kind(), field.Kind()) {
		field.Set(v.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("%w: %s is not assignable to %s", ErrArgumentType, v.Type(), field.Type())
}

// convertible разрешает только числовые конверсии.
// Строка в int и подобные «конверсии» reflect считает допустимыми,
// но для аргументов они означали бы тихую порчу данных.
func convertible(from, to reflect.Kind) bool {
	return isNumeric(from) && isNumeric(to)
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
