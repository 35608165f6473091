package ui

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/fsgit/internal/execshell"
)

const (
	commandStartedMessageTemplateConstant          = "Running %s"
	commandCompletedMessageTemplateConstant        = "Completed %s"
	remoteListingStartedMessageTemplateConstant    = "Reading remotes of %s"
	remoteListingCompletedMessageTemplateConstant  = "Read remotes of %s"
	remoteListingEmptyMessageTemplateConstant      = "No remotes configured in %s"
	commandFailedExitCodeMessageTemplateConstant   = "%s failed with exit code %d"
	commandExecutionFailureMessageTemplateConstant = "%s failed: %s"
	workingDirectorySuffixTemplateConstant         = " (in %s)"
	standardErrorSuffixTemplateConstant            = ": %s"
	unknownFailureMessageConstant                  = "unknown error"
	remoteListingArgumentConstant                  = "--get-regexp"
	remoteListingEmptyExitCodeConstant             = 1
)

// ConsoleCommandEventLogger narrates the git processes started by the command inspector on a console logger.
// Remote listings are described by the repository they read; other commands by their command line.
type ConsoleCommandEventLogger struct {
	logger *zap.Logger
}

// NewConsoleCommandEventLogger constructs a console event logger backed by the provided zap logger.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger}
}

// CommandStarted implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	if eventLogger == nil {
		return
	}
	if repositoryPath, listing := remoteListingRepository(command); listing {
		eventLogger.logger.Info(fmt.Sprintf(remoteListingStartedMessageTemplateConstant, repositoryPath))
		return
	}
	eventLogger.logger.Info(fmt.Sprintf(commandStartedMessageTemplateConstant, commandLabel(command)))
}

// CommandCompleted implements execshell.CommandEventObserver.
// git config exits 1 when no key matches, so an empty listing is reported as information.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if eventLogger == nil {
		return
	}
	repositoryPath, listing := remoteListingRepository(command)
	switch {
	case listing && result.ExitCode == 0:
		eventLogger.logger.Info(fmt.Sprintf(remoteListingCompletedMessageTemplateConstant, repositoryPath))
	case listing && result.ExitCode == remoteListingEmptyExitCodeConstant:
		eventLogger.logger.Info(fmt.Sprintf(remoteListingEmptyMessageTemplateConstant, repositoryPath))
	case result.ExitCode == 0:
		eventLogger.logger.Info(fmt.Sprintf(commandCompletedMessageTemplateConstant, commandLabel(command)))
	default:
		failureMessage := fmt.Sprintf(commandFailedExitCodeMessageTemplateConstant, commandLabel(command), result.ExitCode)
		if standardError := strings.TrimSpace(result.StandardError); len(standardError) > 0 {
			failureMessage += fmt.Sprintf(standardErrorSuffixTemplateConstant, standardError)
		}
		eventLogger.logger.Warn(failureMessage)
	}
}

// CommandExecutionFailed implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if eventLogger == nil {
		return
	}
	failureMessage := unknownFailureMessageConstant
	if failure != nil {
		failureMessage = failure.Error()
	}
	eventLogger.logger.Error(fmt.Sprintf(commandExecutionFailureMessageTemplateConstant, commandLabel(command), failureMessage))
}

func remoteListingRepository(command execshell.ShellCommand) (string, bool) {
	if command.Name != execshell.CommandGit || !slices.Contains(command.Details.Arguments, remoteListingArgumentConstant) {
		return "", false
	}
	return strings.TrimSpace(command.Details.WorkingDirectory), true
}

// commandLabel renders "git args (in dir)".
func commandLabel(command execshell.ShellCommand) string {
	label := command.String()
	if workingDirectory := strings.TrimSpace(command.Details.WorkingDirectory); len(workingDirectory) > 0 {
		label += fmt.Sprintf(workingDirectorySuffixTemplateConstant, workingDirectory)
	}
	return label
}
