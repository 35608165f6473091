package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"github.com/temirov/fsgit/internal/repos/discovery"
	"github.com/temirov/fsgit/internal/repos/shared"
)

const (
	clearLineSequenceConstant    = "\r\x1b[K"
	progressLineTemplateConstant = "%s Scanned %d %s, found %d %s"
	matchLineTemplateConstant    = "%s %s\n"
	warningLineTemplateConstant  = "%s %s: %s\n"
	traceLineTemplateConstant    = "%s %s\n"
	matchMarkerConstant          = "✓"
	warningMarkerConstant        = "warning:"
	traceMarkerConstant          = "visit"
	directorySingularConstant    = "directory"
	directoryPluralConstant      = "directories"
	matchSingularConstant        = "match"
	matchPluralConstant          = "matches"
	singleItemCountConstant      = 1
)

var (
	colorAccent  = lipgloss.Color("73")
	colorSuccess = lipgloss.Color("71")
	colorWarning = lipgloss.Color("179")
	colorDim     = lipgloss.Color("242")
)

// NopRenderer discards all progress.
type NopRenderer struct{}

// Update implements Renderer.
func (NopRenderer) Update(Statistics) {}

// Match implements Renderer.
func (NopRenderer) Match(discovery.RepositoryMatch) {}

// Warning implements Renderer.
func (NopRenderer) Warning(string, string) {}

// Trace implements Renderer.
func (NopRenderer) Trace(string) {}

// Finish implements Renderer.
func (NopRenderer) Finish(Summary) {}

// ConsoleRenderer draws a single-line spinner with live counters and streams matches above it.
// With live progress disabled it still prints warnings and traces.
type ConsoleRenderer struct {
	writer       io.Writer
	liveProgress bool
	clock        shared.Clock
	frames       []string
	interval     time.Duration
	frameIndex   int
	lastDrawnAt  time.Time
	lineVisible  bool
	styleSpinner lipgloss.Style
	styleMatch   lipgloss.Style
	styleWarning lipgloss.Style
	styleTrace   lipgloss.Style
}

// NewConsoleRenderer constructs a renderer writing to writer, typically standard error.
// Colors are enabled only when writer is a terminal.
func NewConsoleRenderer(writer io.Writer, liveProgress bool, clock shared.Clock) *ConsoleRenderer {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	styleRenderer := lipgloss.NewRenderer(writer)
	return &ConsoleRenderer{
		writer:       writer,
		liveProgress: liveProgress,
		clock:        clock,
		frames:       spinner.MiniDot.Frames,
		interval:     spinner.MiniDot.FPS,
		styleSpinner: styleRenderer.NewStyle().Foreground(colorAccent),
		styleMatch:   styleRenderer.NewStyle().Foreground(colorSuccess).Bold(true),
		styleWarning: styleRenderer.NewStyle().Foreground(colorWarning),
		styleTrace:   styleRenderer.NewStyle().Foreground(colorDim),
	}
}

// StreamsMatches reports whether matches were already printed while scanning.
func (renderer *ConsoleRenderer) StreamsMatches() bool {
	return renderer.liveProgress
}

// Update redraws the progress line at most once per spinner frame.
func (renderer *ConsoleRenderer) Update(statistics Statistics) {
	if !renderer.liveProgress {
		return
	}
	now := renderer.clock.Now()
	if renderer.lineVisible && now.Sub(renderer.lastDrawnAt) < renderer.interval {
		return
	}
	renderer.lastDrawnAt = now
	renderer.draw(statistics)
}

// Match prints a matching repository above the progress line.
func (renderer *ConsoleRenderer) Match(match discovery.RepositoryMatch) {
	if !renderer.liveProgress {
		return
	}
	renderer.clearLine()
	fmt.Fprintf(renderer.writer, matchLineTemplateConstant, renderer.styleMatch.Render(matchMarkerConstant), match.Path)
}

// Warning prints a non-fatal problem.
func (renderer *ConsoleRenderer) Warning(path string, reason string) {
	renderer.clearLine()
	fmt.Fprintf(renderer.writer, warningLineTemplateConstant, renderer.styleWarning.Render(warningMarkerConstant), path, reason)
}

// Trace prints a visited directory.
func (renderer *ConsoleRenderer) Trace(path string) {
	renderer.clearLine()
	fmt.Fprintf(renderer.writer, traceLineTemplateConstant, renderer.styleTrace.Render(traceMarkerConstant), path)
}

// Finish removes the progress line so final output starts on a clean line.
func (renderer *ConsoleRenderer) Finish(Summary) {
	renderer.clearLine()
}

func (renderer *ConsoleRenderer) draw(statistics Statistics) {
	frame := renderer.frames[renderer.frameIndex%len(renderer.frames)]
	renderer.frameIndex++

	progressLine := fmt.Sprintf(
		progressLineTemplateConstant,
		renderer.styleSpinner.Render(frame),
		statistics.DirectoriesVisited,
		pluralize(statistics.DirectoriesVisited, directorySingularConstant, directoryPluralConstant),
		statistics.RepositoriesMatched,
		pluralize(statistics.RepositoriesMatched, matchSingularConstant, matchPluralConstant),
	)
	fmt.Fprint(renderer.writer, clearLineSequenceConstant+progressLine)
	renderer.lineVisible = true
}

func (renderer *ConsoleRenderer) clearLine() {
	if !renderer.lineVisible {
		return
	}
	fmt.Fprint(renderer.writer, clearLineSequenceConstant)
	renderer.lineVisible = false
}

func pluralize(count int, singular string, plural string) string {
	if count == singleItemCountConstant {
		return singular
	}
	return plural
}
