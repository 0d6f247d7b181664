// Package apperr определяет доменную таксономию ошибок сервиса.
//
// Сервисы оборачивают эти сентинелы через fmt.Errorf с %w, обработчики
// сопоставляют их HTTP-статусам через errors.Is. Ошибки хранилища,
// не попавшие в таксономию, отдаются вызывающему как есть.
package apperr

import "errors"

var (
	// ErrValidation — отсутствуют или некорректны обязательные поля запроса.
	ErrValidation = errors.New("validation error")
	// ErrNotFound — идентификатор не разрешается в запись.
	ErrNotFound = errors.New("not found")
	// ErrNotAuthorized — нет токена, токен невалиден или не хватает прав.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrInvalidState — операция недопустима при текущем статусе записи,
	// например взнос в неактивную кампанию или подписка на занятый автомобиль.
	ErrInvalidState = errors.New("invalid state")
)
