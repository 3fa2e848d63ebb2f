package cli

import (
	"github.com/cockroachdb/errors"

	"github.com/agentx-labs/commitx/internal/compose"
)

// Process exit codes.
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitUncomposable = 2
)

// ExitCode maps an error returned by Execute to the process exit code. An
// empty staging area is an ordinary failure; a group that still needs a
// description exits with ExitUncomposable.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var uerr *compose.UncomposableMessageError
	if errors.As(err, &uerr) {
		return ExitUncomposable
	}
	return ExitFailure
}
