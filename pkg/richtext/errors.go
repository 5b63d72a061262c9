package richtext

import "errors"

var (
	ErrInvalidPosition = errors.New("richtext: position out of range")
	ErrUnknownCommand  = errors.New("richtext: unknown command")
)
