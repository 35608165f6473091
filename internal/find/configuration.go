package find

import (
	"strings"

	"github.com/temirov/fsgit/internal/gitrepo"
	"github.com/temirov/fsgit/internal/output"
	"github.com/temirov/fsgit/internal/progress"
	"github.com/temirov/fsgit/internal/repos/discovery"
)

const (
	defaultRootConstant                    = "."
	defaultEventBufferSizeConstant         = 256
	configurationKeySeparatorConstant      = "."
	configurationRootKeyConstant           = "root"
	configurationMaxConcurrencyKeyConstant = "max_concurrency"
	configurationVerbosityKeyConstant      = "verbosity"
	configurationFormatKeyConstant         = "format"
	configurationProgressKeyConstant       = "progress"
	configurationInspectorKeyConstant      = "inspector"
	configurationMetricsFileKeyConstant    = "metrics_file"
	configurationEventBufferKeyConstant    = "event_buffer"
)

// CommandConfiguration captures persistent settings for repository searches.
type CommandConfiguration struct {
	Root           string `mapstructure:"root"`
	MaxConcurrency int    `mapstructure:"max_concurrency"`
	Verbosity      string `mapstructure:"verbosity"`
	Format         string `mapstructure:"format"`
	Progress       bool   `mapstructure:"progress"`
	Inspector      string `mapstructure:"inspector"`
	MetricsFile    string `mapstructure:"metrics_file"`
	EventBuffer    int    `mapstructure:"event_buffer"`
}

// DefaultCommandConfiguration returns baseline configuration values for searches.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Root:           defaultRootConstant,
		MaxConcurrency: discovery.DefaultMaxConcurrency,
		Verbosity:      string(progress.VerbosityQuiet),
		Format:         string(output.FormatHuman),
		Progress:       true,
		Inspector:      string(gitrepo.InspectorBackendLibrary),
		MetricsFile:    "",
		EventBuffer:    defaultEventBufferSizeConstant,
	}
}

// DefaultConfigurationValues exposes the defaults as flattened configuration keys under rootKey.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	prefix := rootKey + configurationKeySeparatorConstant
	return map[string]any{
		prefix + configurationRootKeyConstant:           defaults.Root,
		prefix + configurationMaxConcurrencyKeyConstant: defaults.MaxConcurrency,
		prefix + configurationVerbosityKeyConstant:      defaults.Verbosity,
		prefix + configurationFormatKeyConstant:         defaults.Format,
		prefix + configurationProgressKeyConstant:       defaults.Progress,
		prefix + configurationInspectorKeyConstant:      defaults.Inspector,
		prefix + configurationMetricsFileKeyConstant:    defaults.MetricsFile,
		prefix + configurationEventBufferKeyConstant:    defaults.EventBuffer,
	}
}

// sanitize trims textual values and normalizes the case of enumerated ones.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.Root = strings.TrimSpace(configuration.Root)
	if len(sanitized.Root) == 0 {
		sanitized.Root = defaultRootConstant
	}
	sanitized.Verbosity = strings.ToLower(strings.TrimSpace(configuration.Verbosity))
	sanitized.Format = strings.ToLower(strings.TrimSpace(configuration.Format))
	sanitized.Inspector = strings.ToLower(strings.TrimSpace(configuration.Inspector))
	sanitized.MetricsFile = strings.TrimSpace(configuration.MetricsFile)

	return sanitized
}
