package ui_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/fsgit/internal/execshell"
	"github.com/temirov/fsgit/internal/ui"
)

const (
	testRepositoryPathConstant              = "/tmp/project"
	testCommandArgumentConstant             = "--version"
	testCommandLabelExpectationConstant     = "git --version (in /tmp/project)"
	testExecutionFailureReasonConstant      = "execution failed"
	testStandardErrorMessageConstant        = "fatal: bad config line 3"
	testStartMessageExpectationConstant     = "Running " + testCommandLabelExpectationConstant
	testSuccessMessageExpectationConstant   = "Completed " + testCommandLabelExpectationConstant
	testFailureMessageExpectationConstant   = testCommandLabelExpectationConstant + " failed with exit code 128: " + testStandardErrorMessageConstant
	testExecutionFailureMessageExpectation  = testCommandLabelExpectationConstant + " failed: " + testExecutionFailureReasonConstant
	testListingStartedExpectationConstant   = "Reading remotes of " + testRepositoryPathConstant
	testListingCompletedExpectationConstant = "Read remotes of " + testRepositoryPathConstant
	testListingEmptyExpectationConstant     = "No remotes configured in " + testRepositoryPathConstant
)

func TestConsoleCommandEventLoggerEmitsMessages(testInstance *testing.T) {
	command := execshell.ShellCommand{
		Name: execshell.CommandGit,
		Details: execshell.CommandDetails{
			Arguments:        []string{testCommandArgumentConstant},
			WorkingDirectory: testRepositoryPathConstant,
		},
	}
	listingCommand := execshell.ShellCommand{
		Name: execshell.CommandGit,
		Details: execshell.CommandDetails{
			Arguments:        []string{"--git-dir", testRepositoryPathConstant + "/.git", "config", "--local", "--null", "--get-regexp", `^remote\..*\.url$`},
			WorkingDirectory: testRepositoryPathConstant,
		},
	}

	testCases := []struct {
		name            string
		invoke          func(eventObserver execshell.CommandEventObserver)
		expectedLevel   zapcore.Level
		expectedMessage string
	}{
		{
			name: "command_started",
			invoke: func(eventObserver execshell.CommandEventObserver) {
				eventObserver.CommandStarted(command)
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: testStartMessageExpectationConstant,
		},
		{
			name: "command_completed_success",
			invoke: func(eventObserver execshell.CommandEventObserver) {
				eventObserver.CommandCompleted(command, execshell.ExecutionResult{ExitCode: 0})
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: testSuccessMessageExpectationConstant,
		},
		{
			name: "command_completed_failure",
			invoke: func(eventObserver execshell.CommandEventObserver) {
				eventObserver.CommandCompleted(command, execshell.ExecutionResult{ExitCode: 128, StandardError: testStandardErrorMessageConstant})
			},
			expectedLevel:   zapcore.WarnLevel,
			expectedMessage: testFailureMessageExpectationConstant,
		},
		{
			name: "command_execution_failure",
			invoke: func(eventObserver execshell.CommandEventObserver) {
				eventObserver.CommandExecutionFailed(command, errors.New(testExecutionFailureReasonConstant))
			},
			expectedLevel:   zapcore.ErrorLevel,
			expectedMessage: testExecutionFailureMessageExpectation,
		},
		{
			name: "command_execution_failure_without_cause",
			invoke: func(eventObserver execshell.CommandEventObserver) {
				eventObserver.CommandExecutionFailed(command, nil)
			},
			expectedLevel:   zapcore.ErrorLevel,
			expectedMessage: testCommandLabelExpectationConstant + " failed: unknown error",
		},
		{
			name: "remote_listing_failure",
			invoke: func(eventObserver execshell.CommandEventObserver) {
				eventObserver.CommandCompleted(listingCommand, execshell.ExecutionResult{ExitCode: 3, StandardError: "error: invalid key pattern\n"})
			},
			expectedLevel:   zapcore.WarnLevel,
			expectedMessage: "git --git-dir " + testRepositoryPathConstant + "/.git config --local --null --get-regexp ^remote\\..*\\.url$ (in " + testRepositoryPathConstant + ") failed with exit code 3: error: invalid key pattern",
		},
		{
			name: "remote_listing_started",
			invoke: func(eventObserver execshell.CommandEventObserver) {
				eventObserver.CommandStarted(listingCommand)
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: testListingStartedExpectationConstant,
		},
		{
			name: "remote_listing_completed",
			invoke: func(eventObserver execshell.CommandEventObserver) {
				eventObserver.CommandCompleted(listingCommand, execshell.ExecutionResult{ExitCode: 0})
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: testListingCompletedExpectationConstant,
		},
		{
			name: "remote_listing_empty",
			invoke: func(eventObserver execshell.CommandEventObserver) {
				eventObserver.CommandCompleted(listingCommand, execshell.ExecutionResult{ExitCode: 1})
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: testListingEmptyExpectationConstant,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observedLogs := observer.New(zapcore.DebugLevel)
			consoleLogger := zap.New(observerCore)
			eventLogger := ui.NewConsoleCommandEventLogger(consoleLogger)

			testCase.invoke(eventLogger)

			entries := observedLogs.All()
			require.Len(testInstance, entries, 1)
			require.Equal(testInstance, testCase.expectedLevel, entries[0].Level)
			require.Equal(testInstance, testCase.expectedMessage, entries[0].Message)
		})
	}
}

func TestConsoleCommandEventLoggerToleratesNilReceiver(testInstance *testing.T) {
	var eventLogger *ui.ConsoleCommandEventLogger
	require.NotPanics(testInstance, func() {
		eventLogger.CommandStarted(execshell.ShellCommand{Name: execshell.CommandGit})
		eventLogger.CommandCompleted(execshell.ShellCommand{Name: execshell.CommandGit}, execshell.ExecutionResult{})
		eventLogger.CommandExecutionFailed(execshell.ShellCommand{Name: execshell.CommandGit}, errors.New(testExecutionFailureReasonConstant))
	})
}
