package find

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/fsgit/internal/execshell"
	"github.com/temirov/fsgit/internal/gitrepo"
	"github.com/temirov/fsgit/internal/output"
	"github.com/temirov/fsgit/internal/progress"
	"github.com/temirov/fsgit/internal/repos/shared"
	"github.com/temirov/fsgit/internal/ui"
	"github.com/temirov/fsgit/internal/utils/flags"
	pathutils "github.com/temirov/fsgit/internal/utils/path"
)

const (
	commandUseConstant                 = "fsgit <owner/repo> [path]"
	commandShortDescriptionConstant    = "Find local git repositories whose remotes point at owner/repo"
	commandLongDescriptionConstant     = "fsgit walks a directory tree concurrently and lists every git working copy with a remote, SSH or HTTPS, that names the given owner/repo. Repository roots are never descended into."
	commandExampleConstant             = "  fsgit octocat/hello-world ~/src\n  fsgit --json -j 16 octocat/hello-world /srv/checkouts"
	minimumArgumentCountConstant       = 1
	maximumArgumentCountConstant       = 2
	patternArgumentIndexConstant       = 0
	rootArgumentIndexConstant          = 1
	flagMaxConcurrentNameConstant      = "max-concurrent"
	flagMaxConcurrentShorthandConstant = "j"
	flagMaxConcurrentUsageConstant     = "Maximum number of directories read or repositories inspected at once"
	flagVerboseNameConstant            = "verbose"
	flagVerboseShorthandConstant       = "v"
	flagVerboseUsageConstant           = "Show warnings; repeat to trace every visited directory"
	flagFormatNameConstant             = "format"
	flagFormatUsageConstant            = "Result format."
	flagJSONNameConstant               = "json"
	flagJSONUsageConstant              = "Shorthand for --format json"
	flagNoProgressNameConstant         = "no-progress"
	flagNoProgressUsageConstant        = "Disable the live progress line"
	flagInspectorNameConstant          = "inspector"
	flagInspectorUsageConstant         = "How repository remotes are read."
	flagMetricsFileNameConstant        = "metrics-file"
	flagMetricsFileUsageConstant       = "Write scan counters in Prometheus textfile format to this path"
	flagEventBufferNameConstant        = "event-buffer"
	flagEventBufferUsageConstant       = "Capacity of the progress event channel"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the persisted search configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandBuilder assembles the search command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConsoleLoggerProvider LoggerProvider
	ConfigurationProvider ConfigurationProvider
	FileSystem            shared.FileSystem
	Inspector             gitrepo.RemoteInspector
	GitExecutor           shared.GitExecutor
	CommandEventsObserver execshell.CommandEventObserver
	HomeExpander          *pathutils.HomeExpander
	Clock                 shared.Clock
}

// Build constructs the cobra command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     commandUseConstant,
		Short:   commandShortDescriptionConstant,
		Long:    commandLongDescriptionConstant,
		Example: commandExampleConstant,
		Args:    cobra.RangeArgs(minimumArgumentCountConstant, maximumArgumentCountConstant),
		RunE:    builder.run,
	}

	defaults := DefaultCommandConfiguration()
	command.Flags().IntP(flagMaxConcurrentNameConstant, flagMaxConcurrentShorthandConstant, defaults.MaxConcurrency, flagMaxConcurrentUsageConstant)
	command.Flags().CountP(flagVerboseNameConstant, flagVerboseShorthandConstant, flagVerboseUsageConstant)
	command.Flags().String(flagFormatNameConstant, defaults.Format, flags.FormatChoiceUsage(defaults.Format, output.SupportedFormats(), flagFormatUsageConstant))
	command.Flags().Bool(flagJSONNameConstant, false, flagJSONUsageConstant)
	command.Flags().Bool(flagNoProgressNameConstant, false, flagNoProgressUsageConstant)
	command.Flags().String(flagInspectorNameConstant, defaults.Inspector, flags.FormatChoiceUsage(defaults.Inspector, gitrepo.SupportedInspectorBackends(), flagInspectorUsageConstant))
	command.Flags().String(flagMetricsFileNameConstant, defaults.MetricsFile, flagMetricsFileUsageConstant)
	command.Flags().Int(flagEventBufferNameConstant, defaults.EventBuffer, flagEventBufferUsageConstant)
	command.MarkFlagsMutuallyExclusive(flagJSONNameConstant, flagFormatNameConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	options := builder.parseOptions(command, arguments)

	logger := builder.resolveLogger()
	service := NewService(logger, Dependencies{
		FileSystem:            builder.FileSystem,
		Inspector:             builder.Inspector,
		GitExecutor:           builder.GitExecutor,
		CommandEventsObserver: builder.resolveCommandEventsObserver(options.Verbosity),
		Clock:                 builder.Clock,
	}, command.OutOrStdout(), command.ErrOrStderr())

	_, runError := service.Run(command.Context(), options)
	return runError
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, arguments []string) Options {
	configuration := builder.resolveConfiguration()
	commandFlags := command.Flags()

	if len(arguments) > rootArgumentIndexConstant {
		configuration.Root = arguments[rootArgumentIndexConstant]
	}
	if commandFlags.Changed(flagMaxConcurrentNameConstant) {
		configuration.MaxConcurrency, _ = commandFlags.GetInt(flagMaxConcurrentNameConstant)
	}
	if commandFlags.Changed(flagVerboseNameConstant) {
		verboseCount, _ := commandFlags.GetCount(flagVerboseNameConstant)
		configuration.Verbosity = string(progress.VerbosityFromCount(verboseCount))
	}
	if commandFlags.Changed(flagFormatNameConstant) {
		configuration.Format, _ = commandFlags.GetString(flagFormatNameConstant)
	}
	if jsonRequested, _ := commandFlags.GetBool(flagJSONNameConstant); jsonRequested {
		configuration.Format = string(output.FormatJSON)
	}
	if progressDisabled, _ := commandFlags.GetBool(flagNoProgressNameConstant); progressDisabled {
		configuration.Progress = false
	}
	if commandFlags.Changed(flagInspectorNameConstant) {
		configuration.Inspector, _ = commandFlags.GetString(flagInspectorNameConstant)
	}
	if commandFlags.Changed(flagMetricsFileNameConstant) {
		configuration.MetricsFile, _ = commandFlags.GetString(flagMetricsFileNameConstant)
	}
	if commandFlags.Changed(flagEventBufferNameConstant) {
		configuration.EventBuffer, _ = commandFlags.GetInt(flagEventBufferNameConstant)
	}

	configuration = configuration.sanitize()
	expander := builder.HomeExpander
	if expander == nil {
		expander = pathutils.NewHomeExpander()
	}

	return Options{
		Pattern:        arguments[patternArgumentIndexConstant],
		Root:           expander.Expand(configuration.Root),
		MaxConcurrency: configuration.MaxConcurrency,
		Verbosity:      configuration.Verbosity,
		Format:         configuration.Format,
		LiveProgress:   configuration.Progress,
		Inspector:      configuration.Inspector,
		MetricsFile:    expander.Expand(configuration.MetricsFile),
		EventBuffer:    configuration.EventBuffer,
	}
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// resolveCommandEventsObserver narrates git invocations on the console only when tracing.
func (builder *CommandBuilder) resolveCommandEventsObserver(verbosity string) execshell.CommandEventObserver {
	if builder.CommandEventsObserver != nil {
		return builder.CommandEventsObserver
	}
	if verbosity != string(progress.VerbosityTrace) || builder.ConsoleLoggerProvider == nil {
		return nil
	}
	consoleLogger := builder.ConsoleLoggerProvider()
	if consoleLogger == nil {
		return nil
	}
	return ui.NewConsoleCommandEventLogger(consoleLogger)
}
