package discovery

import (
	"github.com/temirov/fsgit/internal/gitrepo"
)

// EventKind classifies scan progress events.
type EventKind string

// Scan progress event kinds.
const (
	EventDirectoryVisited   EventKind = EventKind("directory_visited")
	EventRepositoryFound    EventKind = EventKind("repository_found")
	EventRepositoryMatched  EventKind = EventKind("repository_matched")
	EventRepositoryRejected EventKind = EventKind("repository_rejected")
	EventWarning            EventKind = EventKind("warning")
	EventCancelled          EventKind = EventKind("cancelled")
)

// RepositoryMatch is a repository root with at least one remote matching the search pattern.
// Remotes holds every remote of the repository, not only the matching ones.
type RepositoryMatch struct {
	Path    string
	Remotes []gitrepo.RemoteReference
}

// Event is a single progress notification produced by a scan.
// Match is set only for EventRepositoryMatched. Reason and Cause describe warnings and rejections.
type Event struct {
	Kind   EventKind
	Path   string
	Match  *RepositoryMatch
	Reason string
	Cause  error
}
