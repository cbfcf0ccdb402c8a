package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeValidation     = "COMMAND_VALIDATION_FAILED"
	textCodeContextCancel  = "COMMAND_CONTEXT_CANCELED"
	textCodeContextTimeout = "COMMAND_CONTEXT_TIMEOUT"
	textCodeExecuteFailed  = "COMMAND_EXECUTION_FAILED"
)

func wrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "command validation failed").
		WithTextCode(textCodeValidation)
}

func wrapContextError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution deadline exceeded").
			WithTextCode(textCodeContextTimeout)
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution cancelled").
		WithTextCode(textCodeContextCancel)
}

// wrapExecuteError keeps categories assigned further down (for instance a
// validation error raised by the export service) and tags everything else
// as a command failure.
func wrapExecuteError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution failed").
		WithTextCode(textCodeExecuteFailed)
}
