package find

import (
	"context"
	"io"
	"io/fs"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/fsgit/internal/execshell"
	"github.com/temirov/fsgit/internal/gitrepo"
	"github.com/temirov/fsgit/internal/output"
	"github.com/temirov/fsgit/internal/progress"
	"github.com/temirov/fsgit/internal/repos/dependencies"
	"github.com/temirov/fsgit/internal/repos/discovery"
	"github.com/temirov/fsgit/internal/repos/shared"
)

const (
	patternFieldConstant               = "pattern"
	rootFieldConstant                  = "root"
	maxConcurrencyFieldConstant        = "max_concurrency"
	verbosityFieldConstant             = "verbosity"
	formatFieldConstant                = "format"
	inspectorFieldConstant             = "inspector"
	eventBufferFieldConstant           = "event_buffer"
	rootMissingMessageConstant         = "path does not exist"
	rootUnreadableMessageConstant      = "path cannot be accessed"
	rootNotDirectoryMessageConstant    = "path is not a directory"
	rootUnresolvedMessageConstant      = "path cannot be made absolute"
	positiveIntegerMessageConstant     = "must be at least 1"
	unsupportedValueMessageConstant    = "unsupported value"
	inspectorSetupErrorMessageConstant = "unable to prepare remote inspector"
	scannerSetupErrorMessageConstant   = "unable to prepare scanner"
	scanFailedErrorMessageConstant     = "scan failed"
	renderFailedErrorMessageConstant   = "unable to render results"
	metricsExportErrorMessageConstant  = "unable to write metrics file %s"
	scanStartedLogMessageConstant      = "scan started"
	metricsWrittenLogMessageConstant   = "scan metrics written"
	logFieldScanIdentifierConstant     = "scan_id"
	logFieldRootConstant               = "root"
	logFieldPatternConstant            = "pattern"
	logFieldMaxConcurrencyConstant     = "max_concurrency"
	logFieldInspectorConstant          = "inspector"
	logFieldMetricsFileConstant        = "metrics_file"
)

// Options describe a single search.
type Options struct {
	Pattern        string
	Root           string
	MaxConcurrency int
	Verbosity      string
	Format         string
	LiveProgress   bool
	Inspector      string
	MetricsFile    string
	EventBuffer    int
}

// Outcome is the terminal result of a search.
type Outcome struct {
	ScanIdentifier string
	Pattern        gitrepo.SearchPattern
	Root           string
	Matches        []discovery.RepositoryMatch
	Summary        progress.Summary
}

// Dependencies carries optional collaborators; missing ones fall back to operating system defaults.
type Dependencies struct {
	FileSystem            shared.FileSystem
	Inspector             gitrepo.RemoteInspector
	GitExecutor           shared.GitExecutor
	CommandEventsObserver execshell.CommandEventObserver
	Clock                 shared.Clock
	TerminalDetector      func(io.Writer) bool
}

// Service runs repository searches.
type Service struct {
	logger         *zap.Logger
	dependencies   Dependencies
	outputWriter   io.Writer
	progressWriter io.Writer
}

type validatedOptions struct {
	pattern        gitrepo.SearchPattern
	root           string
	maxConcurrency int
	verbosity      progress.Verbosity
	format         output.Format
	liveProgress   bool
	inspector      gitrepo.InspectorBackend
	metricsFile    string
	eventBuffer    int
}

// NewService constructs a Service writing results to outputWriter and progress to progressWriter.
func NewService(logger *zap.Logger, serviceDependencies Dependencies, outputWriter io.Writer, progressWriter io.Writer) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if outputWriter == nil {
		outputWriter = io.Discard
	}
	if progressWriter == nil {
		progressWriter = io.Discard
	}
	serviceDependencies.FileSystem = dependencies.ResolveFileSystem(serviceDependencies.FileSystem)
	if serviceDependencies.Clock == nil {
		serviceDependencies.Clock = shared.SystemClock{}
	}
	if serviceDependencies.TerminalDetector == nil {
		serviceDependencies.TerminalDetector = progress.IsTerminal
	}
	return &Service{
		logger:         logger,
		dependencies:   serviceDependencies,
		outputWriter:   outputWriter,
		progressWriter: progressWriter,
	}
}

// Run validates options, scans, and renders the matches.
//
// Invalid options yield a *ConfigurationError before any directory is read. A complete scan without matches
// returns ErrNoRepositoriesMatched after rendering; an interrupted one returns ErrScanCancelled with the
// partial outcome and renders nothing.
func (service *Service) Run(executionContext context.Context, options Options) (Outcome, error) {
	validated, validationError := service.validate(options)
	if validationError != nil {
		return Outcome{}, validationError
	}

	scanIdentifier := uuid.NewString()
	logger := service.logger.With(
		zap.String(logFieldScanIdentifierConstant, scanIdentifier),
		zap.String(logFieldRootConstant, validated.root),
		zap.String(logFieldPatternConstant, validated.pattern.String()),
	)

	inspector, inspectorError := dependencies.ResolveRemoteInspector(service.dependencies.Inspector, validated.inspector, func() (shared.GitExecutor, error) {
		return dependencies.ResolveGitExecutor(service.dependencies.GitExecutor, logger, service.dependencies.CommandEventsObserver)
	})
	if inspectorError != nil {
		return Outcome{}, errors.Wrap(inspectorError, inspectorSetupErrorMessageConstant)
	}

	scanner, scannerError := discovery.NewScanner(service.dependencies.FileSystem, inspector, logger, discovery.Options{MaxConcurrency: validated.maxConcurrency})
	if scannerError != nil {
		return Outcome{}, errors.Wrap(scannerError, scannerSetupErrorMessageConstant)
	}

	consoleRenderer := progress.NewConsoleRenderer(service.progressWriter, validated.liveProgress, service.dependencies.Clock)
	tracker := progress.NewTracker(progress.TrackerOptions{
		Renderer:  consoleRenderer,
		Verbosity: validated.verbosity,
		Logger:    logger,
		Clock:     service.dependencies.Clock,
	})

	logger.Info(
		scanStartedLogMessageConstant,
		zap.Int(logFieldMaxConcurrencyConstant, validated.maxConcurrency),
		zap.String(logFieldInspectorConstant, string(validated.inspector)),
	)

	events := make(chan discovery.Event, validated.eventBuffer)
	var summary progress.Summary
	var scanGroup errgroup.Group
	scanGroup.Go(func() error {
		return scanner.Scan(executionContext, validated.root, validated.pattern, events)
	})
	scanGroup.Go(func() error {
		summary = tracker.Consume(events)
		return nil
	})
	scanError := scanGroup.Wait()

	outcome := Outcome{
		ScanIdentifier: scanIdentifier,
		Pattern:        validated.pattern,
		Root:           validated.root,
		Matches:        summary.Matches,
		Summary:        summary,
	}

	if len(validated.metricsFile) > 0 {
		if metricsError := service.exportMetrics(logger, validated.metricsFile, summary); metricsError != nil {
			return outcome, metricsError
		}
	}

	if summary.Cancelled || errors.Is(scanError, context.Canceled) || errors.Is(scanError, context.DeadlineExceeded) {
		return outcome, ErrScanCancelled
	}
	if scanError != nil {
		return outcome, errors.Wrap(scanError, scanFailedErrorMessageConstant)
	}

	renderer, rendererError := output.NewRenderer(validated.format)
	if rendererError != nil {
		return outcome, rendererError
	}
	report := output.Report{
		Pattern:         validated.pattern,
		Matches:         outcome.Matches,
		MatchesStreamed: consoleRenderer.StreamsMatches(),
	}
	if renderError := renderer.Render(service.outputWriter, report); renderError != nil {
		return outcome, errors.Wrap(renderError, renderFailedErrorMessageConstant)
	}

	if len(outcome.Matches) == 0 {
		return outcome, ErrNoRepositoriesMatched
	}
	return outcome, nil
}

func (service *Service) validate(options Options) (validatedOptions, error) {
	pattern, patternError := gitrepo.ParseSearchPattern(options.Pattern)
	if patternError != nil {
		var invalidPattern gitrepo.InvalidSearchPatternError
		message := patternError.Error()
		if errors.As(patternError, &invalidPattern) {
			message = invalidPattern.Message
		}
		return validatedOptions{}, newConfigurationError(patternFieldConstant, message, nil)
	}

	if options.MaxConcurrency < 1 {
		return validatedOptions{}, newConfigurationError(maxConcurrencyFieldConstant, positiveIntegerMessageConstant, nil)
	}
	if options.EventBuffer < 1 {
		return validatedOptions{}, newConfigurationError(eventBufferFieldConstant, positiveIntegerMessageConstant, nil)
	}

	verbosity, verbosityError := progress.ParseVerbosity(options.Verbosity)
	if verbosityError != nil {
		return validatedOptions{}, newConfigurationError(verbosityFieldConstant, unsupportedValueMessageConstant, verbosityError)
	}

	format, formatError := output.ParseFormat(options.Format)
	if formatError != nil {
		return validatedOptions{}, newConfigurationError(formatFieldConstant, unsupportedValueMessageConstant, formatError)
	}

	inspector, inspectorError := gitrepo.ParseInspectorBackend(options.Inspector)
	if inspectorError != nil {
		return validatedOptions{}, newConfigurationError(inspectorFieldConstant, unsupportedValueMessageConstant, inspectorError)
	}

	root, rootError := service.validateRoot(options.Root)
	if rootError != nil {
		return validatedOptions{}, rootError
	}

	return validatedOptions{
		pattern:        pattern,
		root:           root,
		maxConcurrency: options.MaxConcurrency,
		verbosity:      verbosity,
		format:         format,
		liveProgress:   options.LiveProgress && format == output.FormatHuman && service.dependencies.TerminalDetector(service.progressWriter),
		inspector:      inspector,
		metricsFile:    options.MetricsFile,
		eventBuffer:    options.EventBuffer,
	}, nil
}

func (service *Service) validateRoot(root string) (string, error) {
	absoluteRoot, absoluteError := service.dependencies.FileSystem.Abs(root)
	if absoluteError != nil {
		return "", newConfigurationError(rootFieldConstant, rootUnresolvedMessageConstant, absoluteError)
	}

	rootInfo, statError := service.dependencies.FileSystem.Stat(absoluteRoot)
	switch {
	case errors.Is(statError, fs.ErrNotExist):
		return "", newConfigurationError(rootFieldConstant, rootMissingMessageConstant, statError)
	case statError != nil:
		return "", newConfigurationError(rootFieldConstant, rootUnreadableMessageConstant, statError)
	case !rootInfo.IsDir():
		return "", newConfigurationError(rootFieldConstant, rootNotDirectoryMessageConstant, nil)
	}

	return absoluteRoot, nil
}

func (service *Service) exportMetrics(logger *zap.Logger, metricsFile string, summary progress.Summary) error {
	recorder := progress.NewMetricsRecorder()
	recorder.RecordSummary(summary)
	if writeError := recorder.WriteTextfile(metricsFile); writeError != nil {
		return errors.Wrapf(writeError, metricsExportErrorMessageConstant, metricsFile)
	}
	logger.Debug(metricsWrittenLogMessageConstant, zap.String(logFieldMetricsFileConstant, metricsFile))
	return nil
}
