// Package cli constructs the fsgit command-line interface. The search command
// is the root command; this package layers the configuration loader, the
// embedded defaults, and logger construction on top of it.
package cli
