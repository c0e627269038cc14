package poller

import "errors"

var (
	// ErrEndpointNotReady — эндпоинт не стал готов за бюджет попыток.
	ErrEndpointNotReady = errors.New("endpoint not ready after retry budget")

	// ErrUnknownStatus — оркестратор вернул неизвестный статус запуска.
	ErrUnknownStatus = errors.New("unknown run status")
)
