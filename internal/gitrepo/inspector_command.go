package gitrepo

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/temirov/fsgit/internal/execshell"
)

const (
	gitDirectoryFlagConstant             = "--git-dir"
	gitConfigSubcommandConstant          = "config"
	gitConfigLocalFlagConstant           = "--local"
	gitConfigNullFlagConstant            = "--null"
	gitConfigGetRegexpFlagConstant       = "--get-regexp"
	remoteURLKeyPatternConstant          = `^remote\..*\.url$`
	remoteKeyPrefixConstant              = "remote."
	remoteURLKeySuffixConstant           = ".url"
	configRecordSeparatorConstant        = "\x00"
	configKeyValueSeparatorConstant      = "\n"
	gitConfigNoSystemVariableConstant    = "GIT_CONFIG_NOSYSTEM"
	gitTerminalPromptVariableConstant    = "GIT_TERMINAL_PROMPT"
	enabledEnvironmentValueConstant      = "1"
	disabledEnvironmentValueConstant     = "0"
	gitConfigNoMatchingKeysExitConstant  = 1
	executorNotConfiguredMessageConstant = "git executor not configured"
)

// ErrGitExecutorNotConfigured indicates the command inspector was built without an executor.
var ErrGitExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// GitExecutor runs git subcommands.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// CommandRemoteInspector reads remotes by invoking the git executable.
type CommandRemoteInspector struct {
	executor GitExecutor
}

// NewCommandRemoteInspector constructs an inspector backed by the git command line.
func NewCommandRemoteInspector(executor GitExecutor) (*CommandRemoteInspector, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &CommandRemoteInspector{executor: executor}, nil
}

// InspectRemotes lists remote URLs from the repository's local configuration.
func (inspector *CommandRemoteInspector) InspectRemotes(executionContext context.Context, repositoryPath string) ([]RemoteReference, error) {
	if contextError := executionContext.Err(); contextError != nil {
		return nil, contextError
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			gitDirectoryFlagConstant,
			filepath.Join(repositoryPath, MetadataDirectoryName),
			gitConfigSubcommandConstant,
			gitConfigLocalFlagConstant,
			gitConfigNullFlagConstant,
			gitConfigGetRegexpFlagConstant,
			remoteURLKeyPatternConstant,
		},
		WorkingDirectory: repositoryPath,
		EnvironmentVariables: map[string]string{
			gitConfigNoSystemVariableConstant: enabledEnvironmentValueConstant,
			gitTerminalPromptVariableConstant: disabledEnvironmentValueConstant,
		},
	}

	executionResult, executionError := inspector.executor.ExecuteGit(executionContext, commandDetails)
	if executionError != nil {
		var failedError execshell.CommandFailedError
		if errors.As(executionError, &failedError) && failedError.Result.ExitCode == gitConfigNoMatchingKeysExitConstant {
			return []RemoteReference{}, nil
		}
		if contextError := executionContext.Err(); contextError != nil {
			return nil, contextError
		}
		return nil, RepositoryReadError{Path: repositoryPath, Cause: executionError}
	}

	remotes := parseRemoteConfigurationRecords(executionResult.StandardOutput)
	sortRemoteReferences(remotes)
	return remotes, nil
}

// parseRemoteConfigurationRecords keeps the first URL of every remote in configuration order.
func parseRemoteConfigurationRecords(output string) []RemoteReference {
	remotes := []RemoteReference{}
	seenRemoteNames := map[string]struct{}{}

	for _, record := range strings.Split(output, configRecordSeparatorConstant) {
		if len(record) == 0 {
			continue
		}
		key, value, hasValue := strings.Cut(record, configKeyValueSeparatorConstant)
		if !hasValue {
			continue
		}
		remoteName := strings.TrimSuffix(strings.TrimPrefix(key, remoteKeyPrefixConstant), remoteURLKeySuffixConstant)
		if len(remoteName) == 0 {
			continue
		}
		if _, seen := seenRemoteNames[remoteName]; seen {
			continue
		}
		seenRemoteNames[remoteName] = struct{}{}
		remotes = append(remotes, RemoteReference{Name: remoteName, URL: value})
	}

	return remotes
}
