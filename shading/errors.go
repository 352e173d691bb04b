package shading

import "errors"

var (
	ErrUnknownField = errors.New("shading: unknown field")
	ErrInvalidValue = errors.New("shading: invalid value")
)
