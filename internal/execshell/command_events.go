package execshell

// CommandEventObserver is told about every git process the executor starts.
// Calls arrive from the goroutine running the command, so implementations must be safe for concurrent use.
type CommandEventObserver interface {
	CommandStarted(command ShellCommand)
	// CommandCompleted receives the result of a process that ran, whatever its exit code.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed reports a process that could not be started or was cancelled.
	CommandExecutionFailed(command ShellCommand, failure error)
}

// discardingObserver stands in when no observer is configured.
type discardingObserver struct{}

func (discardingObserver) CommandStarted(ShellCommand) {}

func (discardingObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (discardingObserver) CommandExecutionFailed(ShellCommand, error) {}
