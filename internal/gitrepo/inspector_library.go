package gitrepo

import (
	"context"

	"github.com/go-git/go-git/v5"
)

// LibraryRemoteInspector reads remotes through go-git without spawning processes.
type LibraryRemoteInspector struct {
	openOptions git.PlainOpenOptions
}

// NewLibraryRemoteInspector constructs an inspector that opens exactly the given directory.
func NewLibraryRemoteInspector() *LibraryRemoteInspector {
	return &LibraryRemoteInspector{
		openOptions: git.PlainOpenOptions{
			DetectDotGit:          false,
			EnableDotGitCommonDir: true,
		},
	}
}

// InspectRemotes opens the repository read-only and returns every remote with at least one URL.
func (inspector *LibraryRemoteInspector) InspectRemotes(executionContext context.Context, repositoryPath string) ([]RemoteReference, error) {
	if contextError := executionContext.Err(); contextError != nil {
		return nil, contextError
	}

	openOptions := inspector.openOptions
	repository, openError := git.PlainOpenWithOptions(repositoryPath, &openOptions)
	if openError != nil {
		return nil, RepositoryReadError{Path: repositoryPath, Cause: openError}
	}

	repositoryConfiguration, configurationError := repository.Config()
	if configurationError != nil {
		return nil, RepositoryReadError{Path: repositoryPath, Cause: configurationError}
	}

	remotes := make([]RemoteReference, 0, len(repositoryConfiguration.Remotes))
	for remoteName, remoteConfiguration := range repositoryConfiguration.Remotes {
		if remoteConfiguration == nil || len(remoteConfiguration.URLs) == 0 {
			continue
		}
		remotes = append(remotes, RemoteReference{Name: remoteName, URL: remoteConfiguration.URLs[0]})
	}

	sortRemoteReferences(remotes)
	return remotes, nil
}
