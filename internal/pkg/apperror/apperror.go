package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport mapping and propagation policy.
type Kind int

const (
	KindValidation Kind = iota
	KindNotFound
	KindUnauthorized
	KindUpstream
	KindPersistence
)

type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func NewValidation(message string) *AppError {
	return New(KindValidation, message)
}

func NewNotFound(message string) *AppError {
	return New(KindNotFound, message)
}

func NewUnauthorized(message string) *AppError {
	return New(KindUnauthorized, message)
}

func NewUpstream(message string, err error) *AppError {
	return Wrap(KindUpstream, message, err)
}

func NewPersistence(message string, err error) *AppError {
	return Wrap(KindPersistence, message, err)
}

func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

func IsNotFound(err error) bool {
	return IsKind(err, KindNotFound)
}

func IsValidation(err error) bool {
	return IsKind(err, KindValidation)
}
