package cli

import (
	"errors"
	"io/fs"
	"os"

	"github.com/roach88/stirgen/internal/sender"
	"github.com/roach88/stirgen/internal/stir"
	"github.com/roach88/stirgen/internal/store"
)

// Error codes reported in CLIError.Code.
const (
	ErrCodeGeneric          = "E001" // Generic/unknown error
	ErrCodeProfile          = "E002" // Profile could not be parsed
	ErrCodeInvalidParameter = "E003" // INVALID_PARAMETER
	ErrCodeGeometry         = "E004" // GEOMETRY_VIOLATION
	ErrCodeNotFound         = "E005" // Path or job not found
	ErrCodeStore            = "E006" // History database error
	ErrCodeWriteFailed      = "E007" // IO_FAILURE
	ErrCodeFirmware         = "E008" // Printer answered with an error
)

// storeError marks failures opening or querying the history database.
type storeError struct{ err error }

func (e *storeError) Error() string { return "history database: " + e.err.Error() }
func (e *storeError) Unwrap() error { return e.err }

// profileError marks a profile file that exists but cannot be decoded.
type profileError struct{ err error }

func (e *profileError) Error() string { return e.err.Error() }
func (e *profileError) Unwrap() error { return e.err }

// classify maps err to an error code and exit code.
func classify(err error) (string, int) {
	var se *storeError
	var pe *profileError
	switch {
	case errors.Is(err, sender.ErrFirmware):
		return ErrCodeFirmware, ExitFailure
	case stir.CodeOf(err) == stir.CodeInvalidParameter:
		return ErrCodeInvalidParameter, ExitFailure
	case stir.CodeOf(err) == stir.CodeGeometryViolation:
		return ErrCodeGeometry, ExitFailure
	case errors.Is(err, store.ErrJobNotFound), isNotExist(err) && stir.CodeOf(err) == "":
		return ErrCodeNotFound, ExitCommandError
	case stir.CodeOf(err) == stir.CodeIOFailure:
		return ErrCodeWriteFailed, ExitCommandError
	case errors.As(err, &se):
		return ErrCodeStore, ExitCommandError
	case errors.As(err, &pe):
		return ErrCodeProfile, ExitCommandError
	default:
		return ErrCodeGeneric, ExitFailure
	}
}

// errorDetails returns the field of a parameter error, if any.
func errorDetails(err error) any {
	var se *stir.Error
	if errors.As(err, &se) && se.Field != "" {
		return map[string]string{"field": se.Field}
	}
	return nil
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
