package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

const (
	environmentKeySeparatorOldConstant             = "."
	environmentKeySeparatorNewConstant             = "_"
	configurationFileVariableSuffixConstant        = "_CONFIG"
	workingDirectorySearchPathConstant             = "."
	configurationReadErrorMessageConstant          = "failed to read configuration"
	configurationUnmarshalErrorMessageConstant     = "failed to parse configuration"
	embeddedConfigurationMergeErrorMessageConstant = "failed to merge embedded configuration"
)

// ConfigurationSource names where the configuration file came from.
type ConfigurationSource string

// Configuration sources in precedence order.
const (
	ConfigurationSourceExplicit    ConfigurationSource = "explicit"
	ConfigurationSourceEnvironment ConfigurationSource = "environment"
	ConfigurationSourceSearchPath  ConfigurationSource = "search_path"
	ConfigurationSourceDefaults    ConfigurationSource = "defaults"
)

// ConfigurationLoaderOptions describe where configuration is looked up.
type ConfigurationLoaderOptions struct {
	// ConfigurationName is the file name searched for, without extension.
	ConfigurationName string
	// ConfigurationType is the viper format of both the embedded defaults and searched files.
	ConfigurationType     string
	EnvironmentPrefix     string
	SearchPaths           []string
	EmbeddedConfiguration []byte
}

// LoadedConfiguration surfaces metadata about the resolved configuration.
type LoadedConfiguration struct {
	ConfigFileUsed string
	Source         ConfigurationSource
}

// ConfigurationLoader layers configuration through viper: defaults, embedded configuration, one
// configuration file, then PREFIX_SECTION_KEY environment variables.
type ConfigurationLoader struct {
	options ConfigurationLoaderOptions
}

// DefaultSearchPaths returns the working directory followed by the per-user configuration directory
// named applicationDirectoryName, when the operating system exposes one.
func DefaultSearchPaths(applicationDirectoryName string) []string {
	searchPaths := []string{workingDirectorySearchPathConstant}
	userConfigurationDirectory, userConfigurationError := os.UserConfigDir()
	if userConfigurationError != nil || len(userConfigurationDirectory) == 0 {
		return searchPaths
	}
	return append(searchPaths, filepath.Join(userConfigurationDirectory, applicationDirectoryName))
}

// NewConfigurationLoader creates a loader. The options are copied.
func NewConfigurationLoader(options ConfigurationLoaderOptions) *ConfigurationLoader {
	options.SearchPaths = slices.Clone(options.SearchPaths)
	options.EmbeddedConfiguration = bytes.Clone(options.EmbeddedConfiguration)
	return &ConfigurationLoader{options: options}
}

// ConfigurationFileVariable is the environment variable naming a configuration file, e.g. FSGIT_CONFIG.
func (loader *ConfigurationLoader) ConfigurationFileVariable() string {
	return strings.ToUpper(loader.options.EnvironmentPrefix) + configurationFileVariableSuffixConstant
}

// LoadConfiguration populates targetConfiguration. An explicit configurationFilePath wins over the
// configuration file variable, which wins over the search paths. Only an explicitly named file must exist.
func (loader *ConfigurationLoader) LoadConfiguration(configurationFilePath string, defaultValues map[string]any, targetConfiguration any) (LoadedConfiguration, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigType(loader.options.ConfigurationType)

	for defaultKey, defaultValue := range defaultValues {
		viperInstance.SetDefault(defaultKey, defaultValue)
	}

	if len(loader.options.EmbeddedConfiguration) > 0 {
		if mergeError := viperInstance.MergeConfig(bytes.NewReader(loader.options.EmbeddedConfiguration)); mergeError != nil {
			return LoadedConfiguration{}, errors.Wrap(mergeError, embeddedConfigurationMergeErrorMessageConstant)
		}
	}

	source := loader.selectConfigurationFile(viperInstance, configurationFilePath)

	if readError := viperInstance.MergeInConfig(); readError != nil {
		var notFoundError viper.ConfigFileNotFoundError
		if !errors.As(readError, &notFoundError) {
			return LoadedConfiguration{}, errors.Wrap(readError, configurationReadErrorMessageConstant)
		}
		source = ConfigurationSourceDefaults
	}

	viperInstance.SetEnvPrefix(loader.options.EnvironmentPrefix)
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(environmentKeySeparatorOldConstant, environmentKeySeparatorNewConstant))
	viperInstance.AutomaticEnv()

	if unmarshalError := viperInstance.Unmarshal(targetConfiguration); unmarshalError != nil {
		return LoadedConfiguration{}, errors.Wrap(unmarshalError, configurationUnmarshalErrorMessageConstant)
	}

	return LoadedConfiguration{ConfigFileUsed: viperInstance.ConfigFileUsed(), Source: source}, nil
}

func (loader *ConfigurationLoader) selectConfigurationFile(viperInstance *viper.Viper, configurationFilePath string) ConfigurationSource {
	if trimmedPath := strings.TrimSpace(configurationFilePath); len(trimmedPath) > 0 {
		viperInstance.SetConfigFile(trimmedPath)
		return ConfigurationSourceExplicit
	}

	if environmentPath := strings.TrimSpace(os.Getenv(loader.ConfigurationFileVariable())); len(environmentPath) > 0 {
		viperInstance.SetConfigFile(environmentPath)
		return ConfigurationSourceEnvironment
	}

	viperInstance.SetConfigName(loader.options.ConfigurationName)
	for _, searchPath := range loader.options.SearchPaths {
		viperInstance.AddConfigPath(searchPath)
	}
	return ConfigurationSourceSearchPath
}
