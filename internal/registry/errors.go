package registry

import "errors"

var (
	// ErrDuplicateRenderer indicates a different renderer is already bound to the block type.
	ErrDuplicateRenderer = errors.New("registry: duplicate renderer for block type")
	// ErrInvalidRenderer covers nil renderers, nil validators and blank block types.
	ErrInvalidRenderer = errors.New("registry: invalid renderer")
	// ErrRegistrySealed is returned when registering after the registry was sealed.
	ErrRegistrySealed = errors.New("registry: sealed")
)
