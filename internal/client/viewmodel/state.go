// Package viewmodel exposes the client workflows as observable state for a
// presentation layer (mobile shell, CLI).
package viewmodel

import (
	"errors"

	"github.com/grupo8/reparafacil/internal/core/domain"
	"github.com/grupo8/reparafacil/internal/pkg/validation"
)

// Status is the phase of a user-triggered request.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// RequestState is the observable outcome of a request. Data is set on
// success; Message, and Fields for form errors, on failure.
type RequestState[T any] struct {
	Status  Status
	Data    T
	Message string
	Fields  validation.FieldErrors
}

func idle[T any]() RequestState[T] { return RequestState[T]{Status: StatusIdle} }

func loading[T any]() RequestState[T] { return RequestState[T]{Status: StatusLoading} }

func success[T any](data T) RequestState[T] {
	return RequestState[T]{Status: StatusSuccess, Data: data}
}

func failure[T any](err error) RequestState[T] {
	st := RequestState[T]{Status: StatusError, Message: domain.UserMessage(err)}
	var fe validation.FieldErrors
	if errors.As(err, &fe) {
		st.Fields = fe
	}
	return st
}
