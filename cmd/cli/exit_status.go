package cli

import (
	"github.com/cockroachdb/errors"

	"github.com/temirov/fsgit/internal/find"
)

const (
	exitCodeSuccessConstant   = 0
	exitCodeFailureConstant   = 1
	exitCodeInterruptConstant = 130
)

// ExitStatus maps an execution error onto a process exit code and reports whether the error should be printed.
// An empty result exits 1 silently; an interrupted scan exits 130.
func ExitStatus(executionError error) (int, bool) {
	switch {
	case executionError == nil:
		return exitCodeSuccessConstant, false
	case errors.Is(executionError, find.ErrNoRepositoriesMatched):
		return exitCodeFailureConstant, false
	case errors.Is(executionError, find.ErrScanCancelled):
		return exitCodeInterruptConstant, false
	default:
		return exitCodeFailureConstant, true
	}
}
