package action

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"

	"riyu/internal/intent"
)

type Kind uint8

const (
	// Failed covers any error that is neither a missing tool nor a denial.
	Failed Kind = iota
	Unavailable
	Denied
)

func (k Kind) String() string {
	switch k {
	case Unavailable:
		return "unavailable"
	case Denied:
		return "denied"
	default:
		return "failed"
	}
}

// Error is the failure reason attached to a Result.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Classify wraps err into an *Error, deriving the kind from the cause.
func Classify(op string, err error) *Error {
	if err == nil {
		return nil
	}

	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}

	kind := Failed
	switch {
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		kind = Unavailable
	case errors.Is(err, fs.ErrPermission):
		kind = Denied
	}

	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf reports the kind of a Result error, or Failed for foreign errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Failed
}

// Result is the outcome of executing one intent.
type Result struct {
	Intent  intent.Intent
	Payload string
	Err     error
}

func (r Result) OK() bool { return r.Err == nil }

// Capabilities. Implementations run fixed command templates only.

type PowerStatusProvider interface {
	PowerStatus(ctx context.Context) (string, error)
}

type LoadAverageProvider interface {
	LoadAverage(ctx context.Context) (string, error)
}

type DirectoryLister interface {
	List(ctx context.Context) ([]string, error)
}

type VolumeController interface {
	Raise(ctx context.Context, stepPercent int) error
}

type ProcessLauncher interface {
	Launch(ctx context.Context) error
}
