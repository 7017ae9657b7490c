package errors

import "fmt"

var (
	ErrInvalidName     = fmt.Errorf("invalid player name")
	ErrTokenGeneration = fmt.Errorf("token generation failed")
	ErrInvalidConfig   = fmt.Errorf("invalid configuration")
)
