package renderer

import "errors"

var (
	ErrNoTracer         = errors.New("renderer: no tracer defined")
	ErrCameraNotDefined = errors.New("renderer: no camera defined")
	ErrInvalidFrame     = errors.New("renderer: frame dimensions must be positive")
)
