package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

const (
	noMatchesTemplateConstant      = "No repositories found matching '%s'"
	matchesHeaderTemplateConstant  = "Found %s matching %s for '%s':\n\n"
	matchesSummaryTemplateConstant = "\n%s %s matching '%s'\n"
	matchesSummaryLeadConstant     = "Found"
	repositoryLineTemplateConstant = "%s. %s\n"
	remoteLineTemplateConstant     = "   %s: %s\n"
	repositorySingularConstant     = "repository"
	repositoryPluralConstant       = "repositories"
	countedNounTemplateConstant    = "%d %s"
)

// HumanRenderer prints a numbered list of matches with their remotes.
type HumanRenderer struct{}

// Render writes the report. When matches were already streamed only the summary line is printed.
func (HumanRenderer) Render(writer io.Writer, report Report) error {
	styles := newHumanStyles(writer)
	pattern := report.Pattern.String()

	if len(report.Matches) == 0 {
		_, writeError := fmt.Fprintln(writer, styles.empty.Render(fmt.Sprintf(noMatchesTemplateConstant, pattern)))
		return writeError
	}

	if report.MatchesStreamed {
		_, writeError := fmt.Fprintf(
			writer,
			matchesSummaryTemplateConstant,
			styles.count.Render(matchesSummaryLeadConstant),
			fmt.Sprintf(countedNounTemplateConstant, len(report.Matches), repositoryNoun(len(report.Matches))),
			styles.pattern.Render(pattern),
		)
		return writeError
	}

	if _, writeError := fmt.Fprintf(
		writer,
		matchesHeaderTemplateConstant,
		styles.count.Render(strconv.Itoa(len(report.Matches))),
		repositoryNoun(len(report.Matches)),
		styles.pattern.Render(pattern),
	); writeError != nil {
		return writeError
	}

	for matchIndex, match := range report.Matches {
		if _, writeError := fmt.Fprintf(writer, repositoryLineTemplateConstant, styles.index.Render(strconv.Itoa(matchIndex+1)), styles.path.Render(match.Path)); writeError != nil {
			return writeError
		}
		for _, remote := range match.Remotes {
			if _, writeError := fmt.Fprintf(writer, remoteLineTemplateConstant, styles.remote.Render(remote.Name), remote.URL); writeError != nil {
				return writeError
			}
		}
		if _, writeError := fmt.Fprintln(writer); writeError != nil {
			return writeError
		}
	}

	return nil
}

type humanStyles struct {
	empty   lipgloss.Style
	count   lipgloss.Style
	pattern lipgloss.Style
	index   lipgloss.Style
	path    lipgloss.Style
	remote  lipgloss.Style
}

func newHumanStyles(writer io.Writer) humanStyles {
	styleRenderer := lipgloss.NewRenderer(writer)
	return humanStyles{
		empty:   styleRenderer.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		count:   styleRenderer.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		pattern: styleRenderer.NewStyle().Foreground(lipgloss.Color("6")),
		index:   styleRenderer.NewStyle().Foreground(lipgloss.Color("3")),
		path:    styleRenderer.NewStyle().Bold(true),
		remote:  styleRenderer.NewStyle().Foreground(lipgloss.Color("4")),
	}
}

func repositoryNoun(count int) string {
	if count == 1 {
		return repositorySingularConstant
	}
	return repositoryPluralConstant
}
