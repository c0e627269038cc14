// Package serving — развёртывание обученных моделей как
// inference-сервисов через оркестратор.
//
// Под капотом — те же операции эндпоинтов, что и у пайплайна:
// создание сервиса, опрос готовности, получение адреса.
package serving
