// Package errs defines the pipeline's error kinds as sentinel values,
// wrapped with errors.Is/errors.As context the same way fmt.Errorf("...: %w",
// err) calls already do elsewhere in this module.
package errs

import "errors"

var (
	ErrOutOfMemory  = errors.New("out of memory")
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrDeviceError  = errors.New("device error")
	ErrDecodeError  = errors.New("decode error")
	ErrIoError      = errors.New("io error")
	ErrEndOfStream  = errors.New("end of stream")
	ErrAborted      = errors.New("aborted")
)

// Wrap attaches kind to err via %w so callers can errors.Is(result, kind)
// after unwrapping through any number of fmt.Errorf layers.
func Wrap(kind error, err error) error {
	if err == nil {
		return kind
	}
	return &wrapped{kind: kind, cause: err}
}

type wrapped struct {
	kind  error
	cause error
}

func (w *wrapped) Error() string {
	return w.kind.Error() + ": " + w.cause.Error()
}

func (w *wrapped) Unwrap() []error {
	return []error{w.kind, w.cause}
}

// ExitCode maps an error kind to the process's exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrEndOfStream):
		return 2
	case errors.Is(err, ErrDeviceError):
		return 3
	default:
		return 1
	}
}
