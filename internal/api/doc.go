// Package api содержит HTTP API реестра метаданных.
//
// Структура:
//   - handler.go          — Handler с DI (репозитории, logger)
//   - routes.go           — регистрация маршрутов
//   - middleware.go       — middleware (logging, recovery, metrics)
//   - response.go         — унифицированные JSON-ответы и обработка ошибок
//   - dto.go              — Data Transfer Objects (request/response)
//   - dataset_handler.go  — обработчики для /datasets
//   - model_handler.go    — обработчики для /models
//   - broker_handler.go   — обработчики для /brokers и топиков
//   - schedule_handler.go — обработчики для /schedules
//
// API предоставляет REST endpoints для датасетов, моделей,
// брокеров сообщений и расписаний.
package api
