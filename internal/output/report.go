package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/temirov/fsgit/internal/gitrepo"
	"github.com/temirov/fsgit/internal/repos/discovery"
)

const (
	formatHumanStringConstant         = "human"
	formatJSONStringConstant          = "json"
	formatYAMLStringConstant          = "yaml"
	unsupportedFormatTemplateConstant = "unsupported output format: %s"
)

// Format selects an outcome renderer.
type Format string

// Supported output formats.
const (
	FormatHuman Format = Format(formatHumanStringConstant)
	FormatJSON  Format = Format(formatJSONStringConstant)
	FormatYAML  Format = Format(formatYAMLStringConstant)
)

// SupportedFormats lists every format accepted by ParseFormat.
func SupportedFormats() []string {
	return []string{formatHumanStringConstant, formatJSONStringConstant, formatYAMLStringConstant}
}

// ParseFormat validates a textual output format.
func ParseFormat(value string) (Format, error) {
	switch candidate := Format(strings.ToLower(strings.TrimSpace(value))); candidate {
	case FormatHuman, FormatJSON, FormatYAML:
		return candidate, nil
	default:
		return "", fmt.Errorf(unsupportedFormatTemplateConstant, value)
	}
}

// Report is the terminal outcome of one search.
type Report struct {
	Pattern gitrepo.SearchPattern
	Matches []discovery.RepositoryMatch
	// MatchesStreamed is set when live progress already printed each match.
	MatchesStreamed bool
}

// Renderer writes a report.
type Renderer interface {
	Render(writer io.Writer, report Report) error
}

// NewRenderer returns the renderer for format.
func NewRenderer(format Format) (Renderer, error) {
	switch format {
	case FormatHuman:
		return HumanRenderer{}, nil
	case FormatJSON:
		return JSONRenderer{}, nil
	case FormatYAML:
		return YAMLRenderer{}, nil
	default:
		return nil, fmt.Errorf(unsupportedFormatTemplateConstant, format)
	}
}

type remoteDocument struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

type repositoryDocument struct {
	Path    string           `yaml:"path"`
	Remotes []remoteDocument `yaml:"remotes"`
}

type reportDocument struct {
	Pattern      string               `yaml:"pattern"`
	Count        int                  `yaml:"count"`
	Repositories []repositoryDocument `yaml:"repositories"`
}

func newReportDocument(report Report) reportDocument {
	document := reportDocument{
		Pattern:      report.Pattern.String(),
		Count:        len(report.Matches),
		Repositories: make([]repositoryDocument, 0, len(report.Matches)),
	}
	for _, match := range report.Matches {
		repository := repositoryDocument{Path: match.Path, Remotes: make([]remoteDocument, 0, len(match.Remotes))}
		for _, remote := range match.Remotes {
			repository.Remotes = append(repository.Remotes, remoteDocument{Name: remote.Name, URL: remote.URL})
		}
		document.Repositories = append(document.Repositories, repository)
	}
	return document
}
