package export

import (
	"errors"
)

const (
	textCodePipelineFault  = "EXPORT_PIPELINE_FAULT"
	textCodeOptionsInvalid = "EXPORT_OPTIONS_INVALID"
)

var (
	// ErrPipelineFault marks failures of page or site assembly. Only these
	// fail an export; block level faults are reported and absorbed.
	ErrPipelineFault = errors.New("export: pipeline fault")
	// ErrDuplicateOutput is returned when two pages map to the same file.
	ErrDuplicateOutput = errors.New("export: duplicate output path")
)
