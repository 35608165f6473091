package cli

import (
	"bytes"
	_ "embed"
)

// defaultConfigurationContent mirrors find.DefaultCommandConfiguration under tools.find.
//
//go:embed default_config.yaml
var defaultConfigurationContent []byte

// EmbeddedDefaultConfiguration returns a private copy of the bundled defaults and their viper format.
func EmbeddedDefaultConfiguration() ([]byte, string) {
	return bytes.Clone(defaultConfigurationContent), configurationTypeConstant
}
