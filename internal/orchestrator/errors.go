package orchestrator

import "errors"

// Ошибки операций оркестратора.
var (
	// ErrNotFound — запуск или сервис не существует.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists — сервис с таким именем уже существует.
	ErrAlreadyExists = errors.New("already exists")

	// ErrNoAddress — эндпоинт готов, но адрес не назначен.
	// Несогласованность на стороне оркестратора, ретраи бессмысленны.
	ErrNoAddress = errors.New("endpoint has no address")
)
