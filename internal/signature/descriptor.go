package signature

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode"
)

// Param — один параметр контракта компонента.
type Param struct {
	// Name — имя параметра (snake_case; переопределяется тегом param).
	Name string

	// Type — Go-тип параметра.
	Type reflect.Type

	// Default — значение по умолчанию (валидно только при HasDefault).
	Default any

	// HasDefault — различает «default отсутствует» и «default равен zero value».
	HasDefault bool

	// Rest — catch-all поле (map[string]any), аналог вариативных
	// параметров. В слиянии сигнатур не участвует.
	Rest bool

	// fieldIndex — индекс поля в структуре аргументов.
	fieldIndex int
}

// Descriptor — параметрический контракт компонента.
// Порядок Params совпадает с порядком полей структуры аргументов.
type Descriptor struct {
	// Name — имя компонента.
	Name string

	// Params — параметры в порядке объявления.
	Params []Param
}

// Param возвращает параметр по имени.
func (d *Descriptor) Param(name string) (Param, bool) {
	for _, p := range d.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Names возвращает имена параметров (без rest-полей) в порядке объявления.
func (d *Descriptor) Names() []string {
	names := make([]string, 0, len(d.Params))
	for _, p := range d.Params {
		if p.Rest {
			continue
		}
		names = append(names, p.Name)
	}
	return names
}

// describeStruct строит Descriptor по типу структуры аргументов.
func describeStruct(name string, t reflect.Type) (*Descriptor, error) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s", ErrArgsNotStruct, t)
	}

	desc := &Descriptor{Name: name}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		paramName, rest, skip := parseParamTag(field)
		if skip {
			continue
		}

		p := Param{
			Name:       paramName,
			Type:       field.Type,
			Rest:       rest,
			fieldIndex: i,
		}

		if rest {
			if !isRestMap(field.Type) {
				return nil, fmt.Errorf("%w: field %s has type %s", ErrRestNotMap, field.Name, field.Type)
			}
			desc.Params = append(desc.Params, p)
			continue
		}

		if raw, ok := field.Tag.Lookup("default"); ok {
			def, err := parseDefault(raw, field.Type)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", field.Name, err)
			}
			p.Default = def
			p.HasDefault = true
		}

		desc.Params = append(desc.Params, p)
	}
	return desc, nil
}

// parseParamTag разбирает тег `param:"name[,rest]"`.
// Возвращает имя параметра, признак rest и признак пропуска поля.
func parseParamTag(field reflect.StructField) (name string, rest, skip bool) {
	raw, ok := field.Tag.Lookup("param")
	if !ok {
		return snakeCase(field.Name), false, false
	}
	if raw == "-" {
		return "", false, true
	}

	parts := strings.Split(raw, ",")
	name = parts[0]
	if name == "" {
		name = snakeCase(field.Name)
	}
	for _, opt := range parts[1:] {
		if opt == "rest" {
			rest = true
		}
	}
	return name, rest, false
}

// isRestMap проверяет, что тип пригоден для catch-all поля.
func isRestMap(t reflect.Type) bool {
	return t.Kind() == reflect.Map &&
		t.Key().Kind() == reflect.String &&
		t.Elem().Kind() == reflect.Interface
}

// parseDefault парсит строку default-тега в значение типа поля.
func parseDefault(raw string, t reflect.Type) (any, error) {
	v := reflect.New(t).Elem()

	switch t.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q as %s", ErrBadDefault, raw, t)
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q as %s", ErrBadDefault, raw, t)
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q as %s", ErrBadDefault, raw, t)
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q as %s", ErrBadDefault, raw, t)
		}
		v.SetFloat(f)
	default:
		return nil, fmt.Errorf("%w: type %s does not support defaults", ErrBadDefault, t)
	}

	return v.Interface(), nil
}

// snakeCase переводит имя Go-поля в snake_case.
// Последовательности заглавных (аббревиатуры) считаются одним словом:
// ServerAddress → server_address, DataURL → data_url.
func snakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if i > 0 && (prevLower || nextLower) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
