package services

import (
	"fmt"
	"sort"
)

type ServiceError struct {
	Status  int
	Message string
}

func (e ServiceError) Error() string {
	return e.Message
}

func ErrNotFound(msg string) error {
	return ServiceError{Status: 404, Message: msg}
}

func ErrBadRequest(msg string) error {
	return ServiceError{Status: 400, Message: msg}
}

func ErrForbidden(msg string) error {
	return ServiceError{Status: 403, Message: msg}
}

func ErrUnauthorized(msg string) error {
	return ServiceError{Status: 401, Message: msg}
}

func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// FieldErrors collects messages per input field, e.g. {"password": ["..."]}.
type FieldErrors map[string][]string

func (f FieldErrors) Add(field, msg string) {
	f[field] = append(f[field], msg)
}

// ValidationError is a 400 carrying per-field messages.
type ValidationError struct {
	Fields FieldErrors
}

func (e ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	msg := "validation failed"
	for _, key := range keys {
		msg += fmt.Sprintf("; %s: %v", key, e.Fields[key])
	}
	return msg
}

func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return ValidationError{Fields: f}
}

func fieldError(field, msg string) error {
	return ValidationError{Fields: FieldErrors{field: {msg}}}
}
