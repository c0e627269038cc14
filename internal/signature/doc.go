// Package signature описывает параметрические контракты компонентов
// федеративного обучения и слияние контрактов клиента и сервера
// в публичную сигнатуру пайплайна.
//
// Компонент — пользовательская функция вида:
//
//	func(ctx context.Context, args ClientArgs) error
//	func(ctx context.Context, args ServerArgs) (Out, error)
//
// Контракт компонента (Descriptor) строится один раз рефлексией по
// структуре аргументов; дальше вся работа идёт со статическим описанием.
// Рефлексия не выходит за пределы этого пакета.
package signature
