package execshell

import (
	"bytes"
	"context"
	"errors"
	"maps"
	"os"
	"os/exec"
	"slices"
	"time"
)

const (
	environmentAssignmentSeparatorConstant = "="
	localeVariableConstant                 = "LC_ALL"
	portableLocaleConstant                 = "C"
	successfulExitCodeConstant             = 0

	// DefaultCancellationWaitDelay bounds how long a cancelled process may keep its output pipes open.
	DefaultCancellationWaitDelay = 2 * time.Second
)

// OSCommandRunner starts processes through os/exec with the C locale so their output parses the same everywhere.
type OSCommandRunner struct {
	cancellationWaitDelay time.Duration
}

// NewOSCommandRunner constructs a runner backed by os/exec.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{cancellationWaitDelay: DefaultCancellationWaitDelay}
}

// Run executes command and collects its output. A non-zero exit is reported through ExecutionResult;
// errors are returned only when the process could not run or executionContext ended first.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	process := exec.CommandContext(executionContext, string(command.Name), slices.Clone(command.Details.Arguments)...)
	process.Dir = command.Details.WorkingDirectory
	process.Env = buildProcessEnvironment(os.Environ(), command.Details.EnvironmentVariables)
	process.WaitDelay = runner.cancellationWaitDelay

	var standardOutput bytes.Buffer
	var standardError bytes.Buffer
	process.Stdout = &standardOutput
	process.Stderr = &standardError

	result := ExecutionResult{ExitCode: successfulExitCodeConstant}
	if runError := process.Run(); runError != nil {
		if contextError := executionContext.Err(); contextError != nil {
			return ExecutionResult{}, contextError
		}
		var exitError *exec.ExitError
		if !errors.As(runError, &exitError) {
			return ExecutionResult{}, runError
		}
		result.ExitCode = exitError.ExitCode()
	}

	result.StandardOutput = standardOutput.String()
	result.StandardError = standardError.String()
	return result, nil
}

// buildProcessEnvironment appends the portable locale and the overrides, sorted by name, to the inherited environment.
// Later assignments win, so overrides take precedence over both.
func buildProcessEnvironment(inherited []string, overrides map[string]string) []string {
	environment := slices.Clone(inherited)
	environment = append(environment, localeVariableConstant+environmentAssignmentSeparatorConstant+portableLocaleConstant)
	for _, variableName := range slices.Sorted(maps.Keys(overrides)) {
		environment = append(environment, variableName+environmentAssignmentSeparatorConstant+overrides[variableName])
	}
	return environment
}
