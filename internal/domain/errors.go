package domain

import "errors"

// Виды ошибок, которые usecase-слой возвращает наружу.
// Handler переводит их в HTTP-статусы через errors.Is.
var (
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrInternal     = errors.New("internal error")
)
