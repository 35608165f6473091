package discovery_test

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/temirov/fsgit/internal/gitrepo"
	"github.com/temirov/fsgit/internal/repos/discovery"
	"github.com/temirov/fsgit/internal/repos/filesystem"
)

const (
	testScanRootConstant            = "/scan"
	testSearchPatternConstant       = "octocat/hello-world"
	testMatchingSSHRemoteConstant   = "git@github.com:octocat/hello-world.git"
	testMatchingHTTPSRemoteConstant = "https://github.com/octocat/hello-world"
	testOtherRemoteConstant         = "git@github.com:someone/else.git"
	testUpstreamRemoteNameConstant  = "upstream"
	testEventBufferSizeConstant     = 256
	testMetadataConfigFileConstant  = ".git/config"
	testDirectoryPermissions        = 0o755
	testPlainFilePermissions        = 0o644
	testInstrumentedDelay           = 200 * time.Microsecond
)

var errPermissionDeniedForTest = fmt.Errorf("open: %w", fs.ErrPermission)

// mapFileSystem serves an fstest.MapFS rooted at "/" and fails reads for selected directories.
type mapFileSystem struct {
	files           fstest.MapFS
	unreadablePaths map[string]struct{}
	inFlight        *atomic.Int64
	maximumInFlight *atomic.Int64
	operationDelay  time.Duration
}

func newMapFileSystem(files fstest.MapFS) *mapFileSystem {
	return &mapFileSystem{
		files:           files,
		unreadablePaths: map[string]struct{}{},
		inFlight:        &atomic.Int64{},
		maximumInFlight: &atomic.Int64{},
	}
}

func (fileSystem *mapFileSystem) relative(path string) string {
	relativePath := strings.TrimPrefix(filepath.ToSlash(path), "/")
	if len(relativePath) == 0 {
		return "."
	}
	return relativePath
}

func (fileSystem *mapFileSystem) ReadDirectory(path string) ([]fs.DirEntry, error) {
	release := trackInFlight(fileSystem.inFlight, fileSystem.maximumInFlight, fileSystem.operationDelay)
	defer release()

	if _, unreadable := fileSystem.unreadablePaths[path]; unreadable {
		return nil, errPermissionDeniedForTest
	}
	return fs.ReadDir(fileSystem.files, fileSystem.relative(path))
}

func (fileSystem *mapFileSystem) Stat(path string) (fs.FileInfo, error) {
	return fs.Stat(fileSystem.files, fileSystem.relative(path))
}

func (fileSystem *mapFileSystem) Abs(path string) (string, error) {
	return path, nil
}

func trackInFlight(inFlight *atomic.Int64, maximumInFlight *atomic.Int64, delay time.Duration) func() {
	current := inFlight.Add(1)
	for {
		observedMaximum := maximumInFlight.Load()
		if current <= observedMaximum || maximumInFlight.CompareAndSwap(observedMaximum, current) {
			break
		}
	}
	if delay > 0 {
		time.Sleep(delay)
	}
	return func() { inFlight.Add(-1) }
}

// mapRemoteInspector answers inspections from a path-keyed table.
type mapRemoteInspector struct {
	remotesByPath   map[string][]gitrepo.RemoteReference
	failuresByPath  map[string]error
	inFlight        *atomic.Int64
	maximumInFlight *atomic.Int64
	operationDelay  time.Duration
	mutex           sync.Mutex
	inspectedPaths  []string
}

func newMapRemoteInspector(remotesByPath map[string][]gitrepo.RemoteReference) *mapRemoteInspector {
	return &mapRemoteInspector{
		remotesByPath:   remotesByPath,
		failuresByPath:  map[string]error{},
		inFlight:        &atomic.Int64{},
		maximumInFlight: &atomic.Int64{},
	}
}

func (inspector *mapRemoteInspector) InspectRemotes(executionContext context.Context, repositoryPath string) ([]gitrepo.RemoteReference, error) {
	release := trackInFlight(inspector.inFlight, inspector.maximumInFlight, inspector.operationDelay)
	defer release()

	inspector.mutex.Lock()
	inspector.inspectedPaths = append(inspector.inspectedPaths, repositoryPath)
	inspector.mutex.Unlock()

	if failure, failed := inspector.failuresByPath[repositoryPath]; failed {
		return nil, failure
	}
	return inspector.remotesByPath[repositoryPath], nil
}

// blockingRemoteInspector signals every inspection and blocks until the context ends.
type blockingRemoteInspector struct {
	started chan string
}

func (inspector *blockingRemoteInspector) InspectRemotes(executionContext context.Context, repositoryPath string) ([]gitrepo.RemoteReference, error) {
	select {
	case inspector.started <- repositoryPath:
	default:
	}
	<-executionContext.Done()
	return nil, executionContext.Err()
}

type scanResult struct {
	events    []discovery.Event
	scanError error
}

func (result scanResult) pathsOfKind(kind discovery.EventKind) []string {
	paths := []string{}
	for _, event := range result.events {
		if event.Kind == kind {
			paths = append(paths, event.Path)
		}
	}
	sort.Strings(paths)
	return paths
}

func (result scanResult) matches() map[string][]gitrepo.RemoteReference {
	matches := map[string][]gitrepo.RemoteReference{}
	for _, event := range result.events {
		if event.Kind == discovery.EventRepositoryMatched {
			matches[event.Match.Path] = event.Match.Remotes
		}
	}
	return matches
}

func runScan(testInstance *testing.T, executionContext context.Context, scanner *discovery.Scanner, root string, bufferSize int) scanResult {
	testInstance.Helper()

	pattern, patternError := gitrepo.ParseSearchPattern(testSearchPatternConstant)
	require.NoError(testInstance, patternError)

	events := make(chan discovery.Event, bufferSize)
	scanErrors := make(chan error, 1)
	go func() {
		scanErrors <- scanner.Scan(executionContext, root, pattern, events)
	}()

	collected := []discovery.Event{}
	for event := range events {
		collected = append(collected, event)
	}
	return scanResult{events: collected, scanError: <-scanErrors}
}

func newTestScanner(testInstance *testing.T, fileSystem *mapFileSystem, inspector gitrepo.RemoteInspector, maxConcurrency int) *discovery.Scanner {
	testInstance.Helper()
	scanner, creationError := discovery.NewScanner(fileSystem, inspector, zap.NewNop(), discovery.Options{MaxConcurrency: maxConcurrency})
	require.NoError(testInstance, creationError)
	return scanner
}

func repositoryFiles(repositoryPaths ...string) fstest.MapFS {
	files := fstest.MapFS{}
	for _, repositoryPath := range repositoryPaths {
		files[strings.TrimPrefix(repositoryPath, "/")+"/"+testMetadataConfigFileConstant] = &fstest.MapFile{}
	}
	return files
}

func TestNewScannerValidation(testInstance *testing.T) {
	fileSystem := newMapFileSystem(fstest.MapFS{})
	inspector := newMapRemoteInspector(nil)

	_, fileSystemError := discovery.NewScanner(nil, inspector, nil, discovery.Options{})
	require.ErrorIs(testInstance, fileSystemError, discovery.ErrFileSystemNotConfigured)

	_, inspectorError := discovery.NewScanner(fileSystem, nil, nil, discovery.Options{})
	require.ErrorIs(testInstance, inspectorError, discovery.ErrInspectorNotConfigured)

	_, concurrencyError := discovery.NewScanner(fileSystem, inspector, nil, discovery.Options{MaxConcurrency: -1})
	require.ErrorIs(testInstance, concurrencyError, discovery.ErrInvalidMaxConcurrency)

	scanner, creationError := discovery.NewScanner(fileSystem, inspector, nil, discovery.Options{})
	require.NoError(testInstance, creationError)
	require.NotNil(testInstance, scanner)
}

func TestScannerScenarios(testInstance *testing.T) {
	testCases := []struct {
		name                 string
		files                fstest.MapFS
		remotesByPath        map[string][]gitrepo.RemoteReference
		unreadablePaths      []string
		expectedMatches      map[string][]gitrepo.RemoteReference
		expectedFound        []string
		expectedWarningPaths []string
		expectedVisits       []string
		forbiddenVisits      []string
	}{
		{
			name:                 "empty_root",
			files:                fstest.MapFS{"scan": &fstest.MapFile{Mode: fs.ModeDir | testDirectoryPermissions}},
			expectedMatches:      map[string][]gitrepo.RemoteReference{},
			expectedFound:        []string{},
			expectedWarningPaths: []string{},
			expectedVisits:       []string{testScanRootConstant},
		},
		{
			name:  "root_is_repository",
			files: repositoryFiles(testScanRootConstant),
			remotesByPath: map[string][]gitrepo.RemoteReference{
				testScanRootConstant: {{Name: gitrepo.OriginRemoteName, URL: "HTTPS://GitHub.com/Octocat/Hello-World.git/"}},
			},
			expectedMatches: map[string][]gitrepo.RemoteReference{
				testScanRootConstant: {{Name: gitrepo.OriginRemoteName, URL: "HTTPS://GitHub.com/Octocat/Hello-World.git/"}},
			},
			expectedFound:        []string{testScanRootConstant},
			expectedWarningPaths: []string{},
			expectedVisits:       []string{testScanRootConstant},
		},
		{
			name:  "single_ssh_origin",
			files: repositoryFiles("/scan/a"),
			remotesByPath: map[string][]gitrepo.RemoteReference{
				"/scan/a": {{Name: gitrepo.OriginRemoteName, URL: testMatchingSSHRemoteConstant}},
			},
			expectedMatches: map[string][]gitrepo.RemoteReference{
				"/scan/a": {{Name: gitrepo.OriginRemoteName, URL: testMatchingSSHRemoteConstant}},
			},
			expectedFound:        []string{"/scan/a"},
			expectedWarningPaths: []string{},
		},
		{
			name:  "origin_and_upstream_both_attached",
			files: repositoryFiles("/scan/fork"),
			remotesByPath: map[string][]gitrepo.RemoteReference{
				"/scan/fork": {
					{Name: gitrepo.OriginRemoteName, URL: testOtherRemoteConstant},
					{Name: testUpstreamRemoteNameConstant, URL: testMatchingHTTPSRemoteConstant},
				},
			},
			expectedMatches: map[string][]gitrepo.RemoteReference{
				"/scan/fork": {
					{Name: gitrepo.OriginRemoteName, URL: testOtherRemoteConstant},
					{Name: testUpstreamRemoteNameConstant, URL: testMatchingHTTPSRemoteConstant},
				},
			},
			expectedFound:        []string{"/scan/fork"},
			expectedWarningPaths: []string{},
		},
		{
			name:  "nested_repository_pruned",
			files: repositoryFiles("/scan/a", "/scan/a/sub", "/scan/b/c"),
			remotesByPath: map[string][]gitrepo.RemoteReference{
				"/scan/a":     {{Name: gitrepo.OriginRemoteName, URL: testMatchingSSHRemoteConstant}},
				"/scan/a/sub": {{Name: gitrepo.OriginRemoteName, URL: testMatchingSSHRemoteConstant}},
				"/scan/b/c":   {{Name: gitrepo.OriginRemoteName, URL: testOtherRemoteConstant}},
			},
			expectedMatches: map[string][]gitrepo.RemoteReference{
				"/scan/a": {{Name: gitrepo.OriginRemoteName, URL: testMatchingSSHRemoteConstant}},
			},
			expectedFound:        []string{"/scan/a", "/scan/b/c"},
			expectedWarningPaths: []string{},
			forbiddenVisits:      []string{"/scan/a/.git", "/scan/a/sub", "/scan/b/c/.git"},
		},
		{
			name:            "unreadable_directory_is_skipped",
			files:           repositoryFiles("/scan/b/hidden", "/scan/c"),
			unreadablePaths: []string{"/scan/b"},
			remotesByPath: map[string][]gitrepo.RemoteReference{
				"/scan/b/hidden": {{Name: gitrepo.OriginRemoteName, URL: testMatchingSSHRemoteConstant}},
				"/scan/c":        {{Name: gitrepo.OriginRemoteName, URL: testMatchingHTTPSRemoteConstant}},
			},
			expectedMatches: map[string][]gitrepo.RemoteReference{
				"/scan/c": {{Name: gitrepo.OriginRemoteName, URL: testMatchingHTTPSRemoteConstant}},
			},
			expectedFound:        []string{"/scan/c"},
			expectedWarningPaths: []string{"/scan/b"},
			forbiddenVisits:      []string{"/scan/b/hidden"},
		},
		{
			name: "gitfile_marks_repository_root",
			files: fstest.MapFS{
				"scan/worktree/.git":         &fstest.MapFile{Data: []byte("gitdir: /elsewhere\n")},
				"scan/worktree/src/main.go":  &fstest.MapFile{},
				"scan/plain/notes/readme.md": &fstest.MapFile{},
			},
			remotesByPath: map[string][]gitrepo.RemoteReference{
				"/scan/worktree": {{Name: gitrepo.OriginRemoteName, URL: testMatchingSSHRemoteConstant}},
			},
			expectedMatches: map[string][]gitrepo.RemoteReference{
				"/scan/worktree": {{Name: gitrepo.OriginRemoteName, URL: testMatchingSSHRemoteConstant}},
			},
			expectedFound:        []string{"/scan/worktree"},
			expectedWarningPaths: []string{},
			forbiddenVisits:      []string{"/scan/worktree/src"},
		},
		{
			name: "symlinked_directory_not_followed",
			files: fstest.MapFS{
				"scan/link":              &fstest.MapFile{Mode: fs.ModeSymlink, Data: []byte("/scan/real")},
				"scan/real/.git/config":  &fstest.MapFile{},
				"scan/file-at-top-level": &fstest.MapFile{},
			},
			remotesByPath: map[string][]gitrepo.RemoteReference{
				"/scan/real": {{Name: gitrepo.OriginRemoteName, URL: testMatchingSSHRemoteConstant}},
			},
			expectedMatches: map[string][]gitrepo.RemoteReference{
				"/scan/real": {{Name: gitrepo.OriginRemoteName, URL: testMatchingSSHRemoteConstant}},
			},
			expectedFound:        []string{"/scan/real"},
			expectedWarningPaths: []string{},
			forbiddenVisits:      []string{"/scan/link", "/scan/file-at-top-level"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			fileSystem := newMapFileSystem(testCase.files)
			for _, unreadablePath := range testCase.unreadablePaths {
				fileSystem.unreadablePaths[unreadablePath] = struct{}{}
			}
			inspector := newMapRemoteInspector(testCase.remotesByPath)

			result := runScan(testInstance, context.Background(), newTestScanner(testInstance, fileSystem, inspector, 4), testScanRootConstant, testEventBufferSizeConstant)

			require.NoError(testInstance, result.scanError)
			require.Equal(testInstance, testCase.expectedMatches, result.matches())
			require.Equal(testInstance, testCase.expectedFound, result.pathsOfKind(discovery.EventRepositoryFound))
			require.Equal(testInstance, testCase.expectedWarningPaths, result.pathsOfKind(discovery.EventWarning))

			visitedPaths := result.pathsOfKind(discovery.EventDirectoryVisited)
			require.Contains(testInstance, visitedPaths, testScanRootConstant)
			if testCase.expectedVisits != nil {
				require.Equal(testInstance, testCase.expectedVisits, visitedPaths)
			}
			for _, forbiddenPath := range testCase.forbiddenVisits {
				require.NotContains(testInstance, visitedPaths, forbiddenPath)
			}
			for _, event := range result.events {
				require.NotEqual(testInstance, discovery.EventCancelled, event.Kind)
			}
		})
	}
}

func TestScannerEmitsParentEventsBeforeChildEvents(testInstance *testing.T) {
	fileSystem := newMapFileSystem(repositoryFiles("/scan/a/b/c/repository"))
	inspector := newMapRemoteInspector(map[string][]gitrepo.RemoteReference{
		"/scan/a/b/c/repository": {{Name: gitrepo.OriginRemoteName, URL: testMatchingSSHRemoteConstant}},
	})

	result := runScan(testInstance, context.Background(), newTestScanner(testInstance, fileSystem, inspector, 1), testScanRootConstant, testEventBufferSizeConstant)
	require.NoError(testInstance, result.scanError)

	observedOrder := []string{}
	for _, event := range result.events {
		observedOrder = append(observedOrder, string(event.Kind)+" "+event.Path)
	}
	require.Equal(testInstance, []string{
		"directory_visited /scan",
		"directory_visited /scan/a",
		"directory_visited /scan/a/b",
		"directory_visited /scan/a/b/c",
		"directory_visited /scan/a/b/c/repository",
		"repository_found /scan/a/b/c/repository",
		"repository_matched /scan/a/b/c/repository",
	}, observedOrder)
}

func TestScannerReportsUnreadableRepositoryAsWarning(testInstance *testing.T) {
	fileSystem := newMapFileSystem(repositoryFiles("/scan/broken", "/scan/healthy"))
	inspector := newMapRemoteInspector(map[string][]gitrepo.RemoteReference{
		"/scan/healthy": {{Name: gitrepo.OriginRemoteName, URL: testMatchingSSHRemoteConstant}},
	})
	readError := gitrepo.RepositoryReadError{Path: "/scan/broken", Cause: errors.New("corrupt config")}
	inspector.failuresByPath["/scan/broken"] = readError

	result := runScan(testInstance, context.Background(), newTestScanner(testInstance, fileSystem, inspector, 2), testScanRootConstant, testEventBufferSizeConstant)

	require.NoError(testInstance, result.scanError)
	require.Equal(testInstance, []string{"/scan/broken"}, result.pathsOfKind(discovery.EventWarning))
	require.Equal(testInstance, []string{"/scan/broken"}, result.pathsOfKind(discovery.EventRepositoryRejected))
	require.Equal(testInstance, []string{"/scan/healthy"}, result.pathsOfKind(discovery.EventRepositoryMatched))
	require.NotContains(testInstance, result.pathsOfKind(discovery.EventDirectoryVisited), "/scan/broken/.git")

	for _, event := range result.events {
		if event.Kind == discovery.EventWarning {
			require.ErrorAs(testInstance, event.Cause, &gitrepo.RepositoryReadError{})
		}
	}
}

func wideTree(branchCount int, leafCount int) (fstest.MapFS, map[string][]gitrepo.RemoteReference) {
	files := fstest.MapFS{}
	remotesByPath := map[string][]gitrepo.RemoteReference{}
	for branchIndex := 0; branchIndex < branchCount; branchIndex++ {
		for leafIndex := 0; leafIndex < leafCount; leafIndex++ {
			leafPath := fmt.Sprintf("/scan/branch-%02d/leaf-%02d", branchIndex, leafIndex)
			if leafIndex%2 == 0 {
				files[strings.TrimPrefix(leafPath, "/")+"/"+testMetadataConfigFileConstant] = &fstest.MapFile{}
				remoteURL := testOtherRemoteConstant
				if leafIndex%4 == 0 {
					remoteURL = testMatchingHTTPSRemoteConstant
				}
				remotesByPath[leafPath] = []gitrepo.RemoteReference{{Name: gitrepo.OriginRemoteName, URL: remoteURL}}
				continue
			}
			files[strings.TrimPrefix(leafPath, "/")+"/nested/readme.md"] = &fstest.MapFile{}
		}
	}
	return files, remotesByPath
}

func TestScannerRespectsConcurrencyBound(testInstance *testing.T) {
	const maxConcurrency = 3

	files, remotesByPath := wideTree(12, 8)
	fileSystem := newMapFileSystem(files)
	fileSystem.operationDelay = testInstrumentedDelay
	inspector := newMapRemoteInspector(remotesByPath)
	inspector.operationDelay = testInstrumentedDelay

	sharedInFlight := &atomic.Int64{}
	sharedMaximum := &atomic.Int64{}
	fileSystem.inFlight, fileSystem.maximumInFlight = sharedInFlight, sharedMaximum
	inspector.inFlight, inspector.maximumInFlight = sharedInFlight, sharedMaximum

	result := runScan(testInstance, context.Background(), newTestScanner(testInstance, fileSystem, inspector, maxConcurrency), testScanRootConstant, testEventBufferSizeConstant)

	require.NoError(testInstance, result.scanError)
	require.LessOrEqual(testInstance, sharedMaximum.Load(), int64(maxConcurrency))
	require.Positive(testInstance, sharedMaximum.Load())
	require.Len(testInstance, result.matches(), 12*2)
}

func TestScannerMatchSetIndependentOfConcurrency(testInstance *testing.T) {
	files, remotesByPath := wideTree(6, 6)

	matchSets := []map[string][]gitrepo.RemoteReference{}
	for _, maxConcurrency := range []int{1, 100} {
		fileSystem := newMapFileSystem(files)
		inspector := newMapRemoteInspector(remotesByPath)
		result := runScan(testInstance, context.Background(), newTestScanner(testInstance, fileSystem, inspector, maxConcurrency), testScanRootConstant, testEventBufferSizeConstant)
		require.NoError(testInstance, result.scanError)
		matchSets = append(matchSets, result.matches())
	}

	require.NotEmpty(testInstance, matchSets[0])
	require.Equal(testInstance, matchSets[0], matchSets[1])
}

func TestScannerDeliversEveryEventUnderBackpressure(testInstance *testing.T) {
	files, remotesByPath := wideTree(5, 5)

	eventCounts := []int{}
	for _, bufferSize := range []int{1, testEventBufferSizeConstant} {
		fileSystem := newMapFileSystem(files)
		inspector := newMapRemoteInspector(remotesByPath)
		result := runScan(testInstance, context.Background(), newTestScanner(testInstance, fileSystem, inspector, 8), testScanRootConstant, bufferSize)
		require.NoError(testInstance, result.scanError)
		eventCounts = append(eventCounts, len(result.events))
	}

	require.Equal(testInstance, eventCounts[0], eventCounts[1])
}

func TestScannerCancellationEmitsTerminalEvent(testInstance *testing.T) {
	defer goleak.VerifyNone(testInstance)

	files, _ := wideTree(4, 4)
	fileSystem := newMapFileSystem(files)
	inspector := &blockingRemoteInspector{started: make(chan string, 1)}
	scanner, creationError := discovery.NewScanner(fileSystem, inspector, zap.NewNop(), discovery.Options{MaxConcurrency: 2})
	require.NoError(testInstance, creationError)

	executionContext, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-inspector.started
		cancel()
	}()

	result := runScan(testInstance, executionContext, scanner, testScanRootConstant, 1)

	require.ErrorIs(testInstance, result.scanError, context.Canceled)
	require.NotEmpty(testInstance, result.events)
	require.Equal(testInstance, discovery.EventCancelled, result.events[len(result.events)-1].Kind)
	require.Empty(testInstance, result.pathsOfKind(discovery.EventRepositoryMatched))
}

func TestScannerRejectsInvalidRoot(testInstance *testing.T) {
	fileSystem := newMapFileSystem(fstest.MapFS{"scan/file.txt": &fstest.MapFile{}})
	scanner := newTestScanner(testInstance, fileSystem, newMapRemoteInspector(nil), 1)

	for _, root := range []string{"/missing", "/scan/file.txt"} {
		result := runScan(testInstance, context.Background(), scanner, root, 1)
		var rootError discovery.RootDirectoryError
		require.ErrorAs(testInstance, result.scanError, &rootError)
		require.Empty(testInstance, result.events)
	}
}

func TestScannerFindsRepositoriesOnDisk(testInstance *testing.T) {
	rootDirectory := testInstance.TempDir()

	createRepository := func(relativePath string, remotes map[string]string) {
		repository, initError := git.PlainInit(filepath.Join(rootDirectory, relativePath), false)
		require.NoError(testInstance, initError)
		for remoteName, remoteURL := range remotes {
			_, remoteError := repository.CreateRemote(&gitconfig.RemoteConfig{Name: remoteName, URLs: []string{remoteURL}})
			require.NoError(testInstance, remoteError)
		}
	}

	createRepository("work/project", map[string]string{gitrepo.OriginRemoteName: testMatchingSSHRemoteConstant})
	createRepository("work/project/vendor/inner", map[string]string{gitrepo.OriginRemoteName: testMatchingSSHRemoteConstant})
	createRepository("forks/project", map[string]string{
		gitrepo.OriginRemoteName:       testOtherRemoteConstant,
		testUpstreamRemoteNameConstant: testMatchingHTTPSRemoteConstant,
	})
	createRepository("unrelated", map[string]string{gitrepo.OriginRemoteName: testOtherRemoteConstant})
	require.NoError(testInstance, os.MkdirAll(filepath.Join(rootDirectory, "empty", "deeper"), testDirectoryPermissions))
	require.NoError(testInstance, os.WriteFile(filepath.Join(rootDirectory, "notes.txt"), []byte("notes"), testPlainFilePermissions))

	scanner, creationError := discovery.NewScanner(filesystem.OSFileSystem{}, gitrepo.NewLibraryRemoteInspector(), zap.NewNop(), discovery.Options{MaxConcurrency: 4})
	require.NoError(testInstance, creationError)

	pattern, patternError := gitrepo.ParseSearchPattern(testSearchPatternConstant)
	require.NoError(testInstance, patternError)

	events := make(chan discovery.Event, testEventBufferSizeConstant)
	scanErrors := make(chan error, 1)
	go func() {
		scanErrors <- scanner.Scan(context.Background(), rootDirectory, pattern, events)
	}()

	matchedPaths := []string{}
	for event := range events {
		if event.Kind == discovery.EventRepositoryMatched {
			matchedPaths = append(matchedPaths, event.Match.Path)
		}
	}
	require.NoError(testInstance, <-scanErrors)

	sort.Strings(matchedPaths)
	require.Equal(testInstance, []string{
		filepath.Join(rootDirectory, "forks", "project"),
		filepath.Join(rootDirectory, "work", "project"),
	}, matchedPaths)
}
