// Package utils holds the configuration and logging plumbing shared by the CLI.
//
// ConfigurationLoader layers embedded defaults, configuration files and FSGIT_*
// environment variables through Viper, and LoggerFactory builds the zap loggers
// used for diagnostics and console narration.
package utils
