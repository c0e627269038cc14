package signature

import "errors"

// Ошибки построения контракта компонента.
var (
	// ErrNotFunc — компонент не является функцией.
	ErrNotFunc = errors.New("component is not a function")

	// ErrBadShape — функция компонента имеет неподдерживаемую форму.
	ErrBadShape = errors.New("component function has unsupported shape")

	// ErrArgsNotStruct — тип аргументов компонента не структура.
	ErrArgsNotStruct = errors.New("component args type is not a struct")

	// ErrBadDefault — значение default-тега не парсится в тип поля.
	ErrBadDefault = errors.New("invalid default tag value")

	// ErrRestNotMap — rest-поле не является map[string]any.
	ErrRestNotMap = errors.New("rest field is not map[string]any")
)

// Ошибки связывания аргументов.
var (
	// ErrMissingArgument — обязательный параметр не передан.
	ErrMissingArgument = errors.New("missing required argument")

	// ErrUnknownArgument — передан параметр, которого нет в сигнатуре.
	ErrUnknownArgument = errors.New("unknown argument")

	// ErrArgumentType — значение аргумента несовместимо с типом параметра.
	ErrArgumentType = errors.New("argument type mismatch")
)
