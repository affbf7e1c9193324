package models

import (
	"errors"
	"fmt"
)

type ErrorNotFound struct {
	Message string
}

func (e *ErrorNotFound) Error() string {
	return e.Message
}

type ErrorValidation struct {
	Message string
}

func (e *ErrorValidation) Error() string {
	return e.Message
}

type ErrorUnauthorized struct {
	Message string
}

func (e *ErrorUnauthorized) Error() string {
	return e.Message
}

type ErrorForbidden struct {
	Message string
}

func (e *ErrorForbidden) Error() string {
	return e.Message
}

type ErrorConflict struct {
	Message string
}

func (e *ErrorConflict) Error() string {
	return e.Message
}

// ErrorConfiguration reports a missing or invalid setting required by an
// operation, e.g. the generation service credential.
type ErrorConfiguration struct {
	Setting string
	Message string
}

func (e *ErrorConfiguration) Error() string {
	return fmt.Sprintf("configuration error (%s): %s", e.Setting, e.Message)
}

// ErrorService wraps a failed call to the text-generation service.
type ErrorService struct {
	Op  string
	Err error
}

func (e *ErrorService) Error() string {
	return fmt.Sprintf("generation service %s failed: %v", e.Op, e.Err)
}

func (e *ErrorService) Unwrap() error {
	return e.Err
}

// ErrorStorage wraps a failed read or write against a record table.
type ErrorStorage struct {
	Table string
	Op    string
	Err   error
}

func (e *ErrorStorage) Error() string {
	return fmt.Sprintf("storage %s on table %q failed: %v", e.Op, e.Table, e.Err)
}

func (e *ErrorStorage) Unwrap() error {
	return e.Err
}

// UserMessage renders err as the text shown to the person who triggered the
// action. Generation failures never surface as faults, only as this message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var cfgErr *ErrorConfiguration
	var svcErr *ErrorService
	var storageErr *ErrorStorage

	switch {
	case errors.As(err, &cfgErr):
		return fmt.Sprintf("WARNING: the text-generation credential was not found. Set %s and try again.", cfgErr.Setting)
	case errors.As(err, &svcErr):
		return fmt.Sprintf("The draft could not be generated: %v", svcErr.Err)
	case errors.As(err, &storageErr):
		return "The record could not be saved or read right now. Nothing was changed."
	default:
		return err.Error()
	}
}
