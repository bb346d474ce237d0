package main

import (
	"errors"

	"github.com/iota-uz/schedule-import/modules/schedule/importer"
	"github.com/iota-uz/schedule-import/modules/schedule/infrastructure/persistence"
)

type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string {
	return e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

const (
	exitOK         = 0
	exitValidation = 2
	exitUsage      = 3
	exitDB         = 4
	exitDBWrite    = 5
)

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: code, err: err}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	return 1
}

// classifyRunError picks the exit code for an error returned by an import run.
func classifyRunError(err error, apply bool) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, importer.ErrMalformedRow):
		return withCode(exitValidation, err)
	case errors.Is(err, persistence.ErrDuplicate), errors.Is(err, persistence.ErrMissingReference):
		return withCode(exitDBWrite, err)
	case apply:
		return withCode(exitDBWrite, err)
	default:
		return err
	}
}
