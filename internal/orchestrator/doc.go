// Package orchestrator — клиент внешнего оркестратора исполнения.
//
// Оркестратор принимает готовые графы (domain.GraphDefinition),
// исполняет их узлы, управляет сервисами-эндпоинтами и отвечает на
// запросы о статусе. SDK никогда не исполняет графы сам — только
// компонует, отправляет и наблюдает.
//
// Client — интерфейс; HTTPClient — реализация поверх REST API
// оркестратора. Хендл клиента передаётся явно во все операции,
// глобального состояния пакет не держит.
package orchestrator
