package cli

import "errors"

// Exit codes for bigmd.
const (
	// ExitSuccess indicates the viewer exited normally.
	ExitSuccess = 0

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// usageError marks bad invocations: unknown protocol names, missing
// input, --watch without a file.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// configError marks failures loading or validating the config file.
type configError struct{ err error }

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// ioError marks failures reading the document or opening the log sink.
type ioError struct{ err error }

func (e *ioError) Error() string { return e.err.Error() }
func (e *ioError) Unwrap() error { return e.err }

// internalError marks everything else that should not happen.
type internalError struct{ err error }

func (e *internalError) Error() string { return e.err.Error() }
func (e *internalError) Unwrap() error { return e.err }

// ExitCodeForError maps an error returned by Execute to a process exit
// code.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var usage *usageError
	if errors.As(err, &usage) {
		return ExitInvalidUsage
	}

	var conf *configError
	if errors.As(err, &conf) {
		return ExitConfigError
	}

	var io *ioError
	if errors.As(err, &io) {
		return ExitIOError
	}

	return ExitInternalError
}
