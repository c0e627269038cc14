// Package telemetry обеспечивает наблюдаемость сервисов fedflow.
//
// Включает:
//   - logging.go — structured logging через slog с хелперами
//     WithRunID/WithPipeline/WithEndpoint
//   - metrics.go — Prometheus метрики пайплайнов, опросов и HTTP API
//
// Все бинарники используют единый формат логирования
// и экспортируют метрики на /metrics endpoint.
package telemetry
