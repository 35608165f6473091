// Package find implements the fsgit search: it validates the request, runs the
// concurrent scanner and its single event consumer side by side, and renders
// the matching repositories.
//
// CommandBuilder wires the Cobra command, Service drives a search
// programmatically, and ConfigurationError reports requests rejected before any
// directory is read.
package find
