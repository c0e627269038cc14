// Package lifecycle управляет жизненным циклом сервисов-эндпоинтов
// федеративного обучения на стороне оркестратора.
//
// Семантика асимметрична намеренно:
//   - Acquire идемпотентен: существующий сервис — успех, не ошибка.
//   - Release никогда не возвращает ошибку: сбой очистки логируется
//     и проглатывается, чтобы не маскировать исход основной работы.
//
// WithEndpoint даёт scoped-вариант: release выполняется ровно один раз
// на любом исходе тела, включая панику.
package lifecycle
