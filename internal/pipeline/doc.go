// Package pipeline компонует граф федеративного обучения из двух
// пользовательских компонентов — клиента и сервера агрегации.
//
// Форма графа фиксирована:
//
//	setup → server      ┐
//	setup → client × N  ┘ → teardown (exit scope)
//
// Setup создаёт общий сервис-эндпоинт с run-уникальным именем,
// teardown удаляет его на любом исходе через область гарантированной
// очистки. Каждый коннектор данных порождает один клиентский узел;
// при включённом enforcement клиент привязывается к региону данных.
//
// Compose строит пайплайн и его публичную сигнатуру, Bind связывает
// аргументы и отдаёт готовый domain.GraphDefinition, Submit отправляет
// его оркестратору. Граф проходит валидацию до любой отправки.
package pipeline
