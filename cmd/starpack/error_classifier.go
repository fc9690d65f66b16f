// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/starpack/starpack/internal/app/build"
	"github.com/starpack/starpack/internal/config"
	"github.com/starpack/starpack/internal/issue"
	"github.com/starpack/starpack/internal/script"
	"github.com/starpack/starpack/pkg/collection"
	"github.com/starpack/starpack/pkg/policy"
	"github.com/starpack/starpack/pkg/types"

	"go.starlark.net/starlark"
)

// classifyBuildError maps packaging-run failures to issue catalog IDs.
// Sentinel checks run first so a specific failure raised inside script
// evaluation wins over the generic evaluation card; starlark.EvalError
// unwraps to its cause, which keeps errors.Is working across the eval
// boundary. A zero return means no catalog card covers the error and the
// CLI prints the error message alone.
func classifyBuildError(err error) issue.Id {
	switch {
	case errors.Is(err, build.ErrScriptNotFound):
		return issue.ScriptNotFoundId
	case errors.Is(err, policy.ErrUnknownPolicy),
		errors.Is(err, policy.ErrInvalidPlacementSpec):
		return issue.UnknownPolicyId
	case errors.Is(err, script.ErrMissingContext):
		return issue.MissingContextId
	case errors.Is(err, collection.ErrInvalidLocation):
		return issue.InvalidLocationId
	case errors.Is(err, build.ErrOutputWrite):
		return issue.OutputWriteFailedId
	case errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, config.ErrInvalidLoadOptions):
		return issue.ConfigLoadFailedId
	}

	var evalErr *starlark.EvalError
	if errors.As(err, &evalErr) {
		// A discover() call on a missing tree fails with the stat error
		// wrapped in the evaluation error.
		if errors.Is(err, os.ErrNotExist) {
			return issue.SourceTreeNotFoundId
		}
		return issue.ScriptEvalFailedId
	}

	return 0
}

// exitCodeFor maps packaging-run failures to reserved process exit codes.
func exitCodeFor(err error) types.ExitCode {
	var evalErr *starlark.EvalError
	switch {
	case errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, config.ErrInvalidLoadOptions),
		errors.Is(err, policy.ErrUnknownPolicy),
		errors.Is(err, policy.ErrInvalidPlacementSpec):
		return types.ExitConfigError
	case errors.As(err, &evalErr):
		return types.ExitEvalError
	default:
		return types.ExitFailure
	}
}

// renderIssue writes the catalog card for id to stderr when one exists.
// Rendering failures fall back to no card; the caller always prints the
// underlying error afterwards.
func renderIssue(app *App, id issue.Id) {
	card := issue.Get(id)
	if card == nil {
		return
	}

	rendered, err := card.Render(issueStyle)
	if err != nil {
		return
	}
	fmt.Fprint(app.stderr, rendered)
}
