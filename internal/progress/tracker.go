package progress

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/fsgit/internal/repos/discovery"
	"github.com/temirov/fsgit/internal/repos/shared"
)

const (
	verbosityQuietStringConstant         = "quiet"
	verbosityWarningsStringConstant      = "warnings"
	verbosityTraceStringConstant         = "trace"
	unsupportedVerbosityTemplateConstant = "unsupported verbosity: %s"
	scanWarningLogMessageConstant        = "scan warning"
	scanCompletedLogMessageConstant      = "scan completed"
	logFieldPathConstant                 = "path"
	logFieldReasonConstant               = "reason"
	logFieldVisitedConstant              = "directories_visited"
	logFieldFoundConstant                = "repositories_found"
	logFieldMatchedConstant              = "repositories_matched"
	logFieldWarningsConstant             = "warnings"
	logFieldCancelledConstant            = "cancelled"
	logFieldElapsedConstant              = "elapsed"
	warningReasonSeparatorConstant       = ": "
)

// Verbosity selects which secondary events reach the renderer.
type Verbosity string

// Supported verbosity levels.
const (
	VerbosityQuiet    Verbosity = Verbosity(verbosityQuietStringConstant)
	VerbosityWarnings Verbosity = Verbosity(verbosityWarningsStringConstant)
	VerbosityTrace    Verbosity = Verbosity(verbosityTraceStringConstant)
)

var verbosityRanks = map[Verbosity]int{
	VerbosityQuiet:    0,
	VerbosityWarnings: 1,
	VerbosityTrace:    2,
}

// ParseVerbosity validates a textual verbosity level.
func ParseVerbosity(value string) (Verbosity, error) {
	candidate := Verbosity(strings.ToLower(strings.TrimSpace(value)))
	if _, known := verbosityRanks[candidate]; !known {
		return "", fmt.Errorf(unsupportedVerbosityTemplateConstant, value)
	}
	return candidate, nil
}

// VerbosityFromCount maps a repeated -v flag count onto a verbosity level.
func VerbosityFromCount(count int) Verbosity {
	switch {
	case count >= verbosityRanks[VerbosityTrace]:
		return VerbosityTrace
	case count == verbosityRanks[VerbosityWarnings]:
		return VerbosityWarnings
	default:
		return VerbosityQuiet
	}
}

func (verbosity Verbosity) includes(required Verbosity) bool {
	return verbosityRanks[verbosity] >= verbosityRanks[required]
}

// Statistics holds the counters owned by the consumer of a scan.
type Statistics struct {
	DirectoriesVisited   int
	RepositoriesFound    int
	RepositoriesMatched  int
	RepositoriesRejected int
	Warnings             int
	Elapsed              time.Duration
}

// Summary is the accumulated result of consuming one scan's events.
type Summary struct {
	Matches    []discovery.RepositoryMatch
	Cancelled  bool
	Statistics Statistics
}

// Renderer presents scan progress. Implementations are driven from the consuming goroutine only.
type Renderer interface {
	Update(statistics Statistics)
	Match(match discovery.RepositoryMatch)
	Warning(path string, reason string)
	Trace(path string)
	Finish(summary Summary)
}

// TrackerOptions configure a Tracker.
type TrackerOptions struct {
	Renderer  Renderer
	Verbosity Verbosity
	Logger    *zap.Logger
	Clock     shared.Clock
}

// Tracker is the single consumer of a scan's event channel.
type Tracker struct {
	renderer  Renderer
	verbosity Verbosity
	logger    *zap.Logger
	clock     shared.Clock
}

// NewTracker constructs a Tracker, substituting no-op collaborators for missing options.
func NewTracker(options TrackerOptions) *Tracker {
	tracker := &Tracker{
		renderer:  options.Renderer,
		verbosity: options.Verbosity,
		logger:    options.Logger,
		clock:     options.Clock,
	}
	if tracker.renderer == nil {
		tracker.renderer = NopRenderer{}
	}
	if len(tracker.verbosity) == 0 {
		tracker.verbosity = VerbosityQuiet
	}
	if tracker.logger == nil {
		tracker.logger = zap.NewNop()
	}
	if tracker.clock == nil {
		tracker.clock = shared.SystemClock{}
	}
	return tracker
}

// Consume drains events until the channel is closed and returns the accumulated summary.
// Matches keep their arrival order.
func (tracker *Tracker) Consume(events <-chan discovery.Event) Summary {
	startedAt := tracker.clock.Now()
	summary := Summary{Matches: []discovery.RepositoryMatch{}}

	for event := range events {
		switch event.Kind {
		case discovery.EventDirectoryVisited:
			summary.Statistics.DirectoriesVisited++
			if tracker.verbosity.includes(VerbosityTrace) {
				tracker.renderer.Trace(event.Path)
			}
		case discovery.EventRepositoryFound:
			summary.Statistics.RepositoriesFound++
		case discovery.EventRepositoryMatched:
			summary.Statistics.RepositoriesMatched++
			if event.Match != nil {
				summary.Matches = append(summary.Matches, *event.Match)
				tracker.renderer.Match(*event.Match)
			}
		case discovery.EventRepositoryRejected:
			summary.Statistics.RepositoriesRejected++
		case discovery.EventWarning:
			summary.Statistics.Warnings++
			reason := describeWarning(event)
			tracker.logger.Debug(scanWarningLogMessageConstant, zap.String(logFieldPathConstant, event.Path), zap.String(logFieldReasonConstant, reason))
			if tracker.verbosity.includes(VerbosityWarnings) {
				tracker.renderer.Warning(event.Path, reason)
			}
		case discovery.EventCancelled:
			summary.Cancelled = true
		}

		summary.Statistics.Elapsed = tracker.clock.Now().Sub(startedAt)
		tracker.renderer.Update(summary.Statistics)
	}

	summary.Statistics.Elapsed = tracker.clock.Now().Sub(startedAt)
	tracker.renderer.Finish(summary)

	tracker.logger.Info(
		scanCompletedLogMessageConstant,
		zap.Int(logFieldVisitedConstant, summary.Statistics.DirectoriesVisited),
		zap.Int(logFieldFoundConstant, summary.Statistics.RepositoriesFound),
		zap.Int(logFieldMatchedConstant, summary.Statistics.RepositoriesMatched),
		zap.Int(logFieldWarningsConstant, summary.Statistics.Warnings),
		zap.Bool(logFieldCancelledConstant, summary.Cancelled),
		zap.Duration(logFieldElapsedConstant, summary.Statistics.Elapsed),
	)

	return summary
}

func describeWarning(event discovery.Event) string {
	if event.Cause == nil {
		return event.Reason
	}
	if len(event.Reason) == 0 {
		return event.Cause.Error()
	}
	return event.Reason + warningReasonSeparatorConstant + event.Cause.Error()
}
