package gitrepo

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

const (
	// MetadataDirectoryName is the entry whose presence marks a repository root.
	MetadataDirectoryName = ".git"
	// OriginRemoteName identifies the conventional primary remote.
	OriginRemoteName = "origin"

	repositoryReadErrorTemplateConstant         = "unable to read repository metadata at %s: %v"
	unsupportedInspectorBackendTemplateConstant = "unsupported inspector backend: %s"
)

// InspectorBackend selects how remotes are enumerated.
type InspectorBackend string

// Supported inspector backends.
const (
	InspectorBackendLibrary InspectorBackend = InspectorBackend("library")
	InspectorBackendCommand InspectorBackend = InspectorBackend("command")
)

// SupportedInspectorBackends lists every backend accepted by ParseInspectorBackend.
func SupportedInspectorBackends() []string {
	return []string{string(InspectorBackendLibrary), string(InspectorBackendCommand)}
}

// ParseInspectorBackend validates a textual backend name.
func ParseInspectorBackend(value string) (InspectorBackend, error) {
	switch candidate := InspectorBackend(strings.ToLower(strings.TrimSpace(value))); candidate {
	case InspectorBackendLibrary, InspectorBackendCommand:
		return candidate, nil
	default:
		return "", fmt.Errorf(unsupportedInspectorBackendTemplateConstant, value)
	}
}

// RemoteReference is a named remote as configured in a repository.
type RemoteReference struct {
	Name string
	URL  string
}

// RemoteInspector lists the remotes configured in the repository rooted at a path.
type RemoteInspector interface {
	InspectRemotes(executionContext context.Context, repositoryPath string) ([]RemoteReference, error)
}

// RepositoryReadError reports metadata that exists but cannot be read.
type RepositoryReadError struct {
	Path  string
	Cause error
}

// Error describes the read failure.
func (readError RepositoryReadError) Error() string {
	return fmt.Sprintf(repositoryReadErrorTemplateConstant, readError.Path, readError.Cause)
}

// Unwrap exposes the underlying failure.
func (readError RepositoryReadError) Unwrap() error {
	return readError.Cause
}

// sortRemoteReferences orders origin first and the remaining remotes by name.
func sortRemoteReferences(remotes []RemoteReference) {
	sort.SliceStable(remotes, func(leftIndex int, rightIndex int) bool {
		leftIsOrigin := remotes[leftIndex].Name == OriginRemoteName
		rightIsOrigin := remotes[rightIndex].Name == OriginRemoteName
		if leftIsOrigin != rightIsOrigin {
			return leftIsOrigin
		}
		return remotes[leftIndex].Name < remotes[rightIndex].Name
	})
}
