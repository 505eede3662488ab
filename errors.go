package toneadjust

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound              = errors.New("toneadjust: file does not exist")
	ErrIsADirectory          = errors.New("toneadjust: path is a directory, not a file")
	ErrDecode                = errors.New("toneadjust: could not decode image")
	ErrInvalidParameterType  = errors.New("toneadjust: parameter must be a finite number")
	ErrInvalidParameterValue = errors.New("toneadjust: invalid parameter value")
	ErrDisplay               = errors.New("toneadjust: display failed")
)

// LoadError records the path that failed to load and why.
// Err wraps one of ErrNotFound, ErrIsADirectory or ErrDecode.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %q: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ParamError reports which tone parameter was rejected.
type ParamError struct {
	Name  string
	Value float64
	Err   error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s=%g: %v", e.Name, e.Value, e.Err)
}

func (e *ParamError) Unwrap() error { return e.Err }
