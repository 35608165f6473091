package discovery

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/temirov/fsgit/internal/gitrepo"
	"github.com/temirov/fsgit/internal/repos/shared"
)

const (
	// DefaultMaxConcurrency bounds simultaneous directory reads and inspections when unset.
	DefaultMaxConcurrency = 100

	gateSlotWeightConstant                 = 1
	rootDirectoryErrorTemplateConstant     = "scan root %s: %v"
	rootNotDirectoryMessageConstant        = "not a directory"
	unreadableDirectoryReasonConstant      = "directory could not be read"
	unreadableRepositoryReasonConstant     = "repository metadata could not be read"
	noMatchingRemoteReasonConstant         = "no remote matches"
	directoryReadFailedLogMessageConstant  = "directory read failed"
	repositoryInspectFailedMessageConstant = "repository inspection failed"
	repositoryMatchedLogMessageConstant    = "repository matched"
	scanCancelledLogMessageConstant        = "scan cancelled"
	logFieldPathConstant                   = "path"
	logFieldRemoteCountConstant            = "remote_count"
)

// ErrFileSystemNotConfigured indicates the scanner was built without a filesystem.
var ErrFileSystemNotConfigured = errors.New("scanner requires a filesystem")

// ErrInspectorNotConfigured indicates the scanner was built without a remote inspector.
var ErrInspectorNotConfigured = errors.New("scanner requires a remote inspector")

// ErrInvalidMaxConcurrency indicates a concurrency bound below one.
var ErrInvalidMaxConcurrency = errors.New("max concurrency must be at least 1")

var errRootNotDirectory = errors.New(rootNotDirectoryMessageConstant)

// RootDirectoryError reports a scan root that is missing or not a directory.
type RootDirectoryError struct {
	Path  string
	Cause error
}

// Error describes the invalid root.
func (rootError RootDirectoryError) Error() string {
	return fmt.Sprintf(rootDirectoryErrorTemplateConstant, rootError.Path, rootError.Cause)
}

// Unwrap exposes the underlying failure.
func (rootError RootDirectoryError) Unwrap() error {
	return rootError.Cause
}

// Options tune a Scanner.
type Options struct {
	MaxConcurrency int
}

// Scanner walks a directory tree concurrently, stopping at repository roots and matching their remotes.
type Scanner struct {
	fileSystem shared.FileSystem
	inspector  gitrepo.RemoteInspector
	logger     *zap.Logger
	options    Options
}

// NewScanner constructs a Scanner. A zero MaxConcurrency selects DefaultMaxConcurrency.
func NewScanner(fileSystem shared.FileSystem, inspector gitrepo.RemoteInspector, logger *zap.Logger, options Options) (*Scanner, error) {
	if fileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}
	if inspector == nil {
		return nil, ErrInspectorNotConfigured
	}
	if options.MaxConcurrency == 0 {
		options.MaxConcurrency = DefaultMaxConcurrency
	}
	if options.MaxConcurrency < 1 {
		return nil, ErrInvalidMaxConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{fileSystem: fileSystem, inspector: inspector, logger: logger, options: options}, nil
}

// Scan traverses root and streams progress to events, closing the channel when done.
//
// The caller must keep draining events until it is closed. When executionContext is cancelled the scan
// abandons outstanding work, sends a final EventCancelled and returns the context error.
func (scanner *Scanner) Scan(executionContext context.Context, root string, pattern gitrepo.SearchPattern, events chan<- Event) error {
	defer close(events)

	absoluteRoot, rootError := scanner.resolveRoot(root)
	if rootError != nil {
		return rootError
	}

	directoryTraversal := &traversal{
		executionContext: executionContext,
		fileSystem:       scanner.fileSystem,
		inspector:        scanner.inspector,
		logger:           scanner.logger,
		pattern:          pattern,
		events:           events,
		gate:             semaphore.NewWeighted(int64(scanner.options.MaxConcurrency)),
	}

	directoryTraversal.spawn(absoluteRoot)
	directoryTraversal.waitGroup.Wait()

	if contextError := executionContext.Err(); contextError != nil {
		scanner.logger.Debug(scanCancelledLogMessageConstant, zap.String(logFieldPathConstant, absoluteRoot), zap.Error(contextError))
		events <- Event{Kind: EventCancelled, Path: absoluteRoot, Reason: contextError.Error(), Cause: contextError}
		return contextError
	}

	return nil
}

func (scanner *Scanner) resolveRoot(root string) (string, error) {
	absoluteRoot, absoluteError := scanner.fileSystem.Abs(root)
	if absoluteError != nil {
		return "", RootDirectoryError{Path: root, Cause: absoluteError}
	}

	rootInfo, statError := scanner.fileSystem.Stat(absoluteRoot)
	if statError != nil {
		return "", RootDirectoryError{Path: absoluteRoot, Cause: statError}
	}
	if !rootInfo.IsDir() {
		return "", RootDirectoryError{Path: absoluteRoot, Cause: errRootNotDirectory}
	}

	return absoluteRoot, nil
}

// traversal is the state shared by every directory visit of one scan.
type traversal struct {
	executionContext context.Context
	fileSystem       shared.FileSystem
	inspector        gitrepo.RemoteInspector
	logger           *zap.Logger
	pattern          gitrepo.SearchPattern
	events           chan<- Event
	gate             *semaphore.Weighted
	waitGroup        sync.WaitGroup
}

func (directoryTraversal *traversal) spawn(directoryPath string) {
	directoryTraversal.waitGroup.Add(1)
	go func() {
		defer directoryTraversal.waitGroup.Done()
		directoryTraversal.visit(directoryPath)
	}()
}

func (directoryTraversal *traversal) visit(directoryPath string) {
	if !directoryTraversal.emit(Event{Kind: EventDirectoryVisited, Path: directoryPath}) {
		return
	}

	directoryEntries, readError := directoryTraversal.readDirectory(directoryPath)
	if readError != nil {
		if directoryTraversal.executionContext.Err() != nil {
			return
		}
		directoryTraversal.logger.Debug(directoryReadFailedLogMessageConstant, zap.String(logFieldPathConstant, directoryPath), zap.Error(readError))
		directoryTraversal.emit(Event{Kind: EventWarning, Path: directoryPath, Reason: unreadableDirectoryReasonConstant, Cause: readError})
		return
	}

	if containsRepositoryMetadata(directoryEntries) {
		directoryTraversal.inspectRepository(directoryPath)
		return
	}

	for _, directoryEntry := range directoryEntries {
		if directoryEntry.Type()&fs.ModeSymlink != 0 || !directoryEntry.IsDir() {
			continue
		}
		directoryTraversal.spawn(filepath.Join(directoryPath, directoryEntry.Name()))
	}
}

func (directoryTraversal *traversal) inspectRepository(repositoryPath string) {
	if !directoryTraversal.emit(Event{Kind: EventRepositoryFound, Path: repositoryPath}) {
		return
	}

	remotes, inspectError := directoryTraversal.inspectRemotes(repositoryPath)
	if inspectError != nil {
		if directoryTraversal.executionContext.Err() != nil {
			return
		}
		directoryTraversal.logger.Debug(repositoryInspectFailedMessageConstant, zap.String(logFieldPathConstant, repositoryPath), zap.Error(inspectError))
		if !directoryTraversal.emit(Event{Kind: EventWarning, Path: repositoryPath, Reason: unreadableRepositoryReasonConstant, Cause: inspectError}) {
			return
		}
		directoryTraversal.emit(Event{Kind: EventRepositoryRejected, Path: repositoryPath, Reason: unreadableRepositoryReasonConstant, Cause: inspectError})
		return
	}

	if !directoryTraversal.pattern.MatchesAny(remotes) {
		directoryTraversal.emit(Event{Kind: EventRepositoryRejected, Path: repositoryPath, Reason: noMatchingRemoteReasonConstant})
		return
	}

	directoryTraversal.logger.Debug(repositoryMatchedLogMessageConstant, zap.String(logFieldPathConstant, repositoryPath), zap.Int(logFieldRemoteCountConstant, len(remotes)))
	directoryTraversal.emit(Event{
		Kind:  EventRepositoryMatched,
		Path:  repositoryPath,
		Match: &RepositoryMatch{Path: repositoryPath, Remotes: remotes},
	})
}

// readDirectory holds one gate slot for the duration of the read only.
func (directoryTraversal *traversal) readDirectory(directoryPath string) ([]fs.DirEntry, error) {
	if acquireError := directoryTraversal.gate.Acquire(directoryTraversal.executionContext, gateSlotWeightConstant); acquireError != nil {
		return nil, acquireError
	}
	defer directoryTraversal.gate.Release(gateSlotWeightConstant)

	return directoryTraversal.fileSystem.ReadDirectory(directoryPath)
}

// inspectRemotes holds one gate slot for the duration of the inspection only.
func (directoryTraversal *traversal) inspectRemotes(repositoryPath string) ([]gitrepo.RemoteReference, error) {
	if acquireError := directoryTraversal.gate.Acquire(directoryTraversal.executionContext, gateSlotWeightConstant); acquireError != nil {
		return nil, acquireError
	}
	defer directoryTraversal.gate.Release(gateSlotWeightConstant)

	return directoryTraversal.inspector.InspectRemotes(directoryTraversal.executionContext, repositoryPath)
}

// emit delivers an event unless the scan was cancelled first.
func (directoryTraversal *traversal) emit(event Event) bool {
	if directoryTraversal.executionContext.Err() != nil {
		return false
	}
	select {
	case directoryTraversal.events <- event:
		return true
	case <-directoryTraversal.executionContext.Done():
		return false
	}
}

func containsRepositoryMetadata(directoryEntries []fs.DirEntry) bool {
	for _, directoryEntry := range directoryEntries {
		if directoryEntry.Name() == gitrepo.MetadataDirectoryName {
			return true
		}
	}
	return false
}
