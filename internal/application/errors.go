package application

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	ErrNotFound      = errors.New("not found")
	ErrNoMatch       = errors.New("snippet not found")
	ErrIO            = errors.New("i/o failure")
	ErrParse         = errors.New("malformed data")
	ErrNoSurface     = errors.New("mind map surface is not attached")
	ErrSuperseded    = errors.New("superseded by a newer request")
	ErrStaleResponse = errors.New("response does not match a pending request")
	ErrTimeout       = errors.New("timed out waiting for the mind map surface")
	ErrNoProject     = errors.New("no project is open")
	ErrCancelled     = errors.New("cancelled by user")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IOError represents a failed read or write of a link store or settings blob
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("cannot %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

// ParseError represents stored data that is not well-formed
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}
