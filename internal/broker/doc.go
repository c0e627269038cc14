// Package broker — потребление потоковых датасетов из брокера сообщений.
//
// Датасет, зарегистрированный поверх топика брокера, читается
// Stream'ом: очередь привязывается к topic-exchange брокера, сообщения
// обрабатываются с ручным ack/nack. Соединение переподключается
// автоматически с экспоненциальной задержкой.
//
// Регистрация брокеров и топиков живёт в реестре метаданных
// (internal/registry); этот пакет только читает данные.
package broker
