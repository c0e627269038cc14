// Package poller наблюдает за состоянием на стороне оркестратора.
//
// Два режима опроса с разной политикой намеренно:
//
//   - ReadinessPoller ждёт готовности эндпоинта: экспоненциальная
//     задержка с потолком и жёсткий бюджет попыток. Эндпоинт, не
//     поднявшийся за бюджет, скорее всего не поднимется вообще.
//   - RunPoller ждёт завершения запуска: фиксированный интервал без
//     лимита попыток. Долгое обучение — норма, а не сбой.
//
// Неуспешный конечный статус запуска — результат наблюдения,
// а не ошибка опроса.
package poller
