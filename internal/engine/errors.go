package engine

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-blocksite/internal/validation"
	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

const (
	textCodeValidation      = "BLOCK_VALIDATION_FAILED"
	textCodeRendererMissing = "BLOCK_RENDERER_MISSING"
	textCodeRenderFault     = "BLOCK_RENDER_FAULT"
	textCodeRenderTimeout   = "BLOCK_RENDER_TIMEOUT"
)

var (
	// ErrRendererMissing marks blocks whose type has no registered renderer.
	ErrRendererMissing = errors.New("engine: no renderer registered")
	// ErrRenderTimeout marks renders that exceeded the time budget.
	ErrRenderTimeout = errors.New("engine: render timed out")
	// ErrRenderPanic marks renders that panicked.
	ErrRenderPanic = errors.New("engine: renderer panicked")
)

func validationFault(blockType string, issues []interfaces.FieldError) error {
	cause := &validation.PayloadValidationError{Issues: issues}
	return goerrors.Wrap(cause, goerrors.CategoryValidation, fmt.Sprintf("%s data failed validation", blockType)).
		WithTextCode(textCodeValidation)
}

func missingFault(blockType string) error {
	return goerrors.Wrap(fmt.Errorf("%w: %q", ErrRendererMissing, blockType), goerrors.CategoryNotFound, "renderer missing").
		WithTextCode(textCodeRendererMissing)
}

func renderFault(err error, kind interfaces.ErrorKind) error {
	if goerrors.IsWrapped(err) {
		return err
	}
	if kind == interfaces.ErrorKindTimedOut {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "render timed out").
			WithTextCode(textCodeRenderTimeout)
	}
	return goerrors.Wrap(err, goerrors.CategoryInternal, "render failed").
		WithTextCode(textCodeRenderFault)
}
