// Package ui formats git invocations of the command-line remote inspector for
// human-readable console output while structured telemetry keeps flowing
// through the diagnostic logger.
package ui
