// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging via ShellExecutor, exposes OSCommandRunner for
// default process execution, and reports command lifecycle events to an
// observer so the git command-line backend of the remote inspector stays
// testable without spawning processes.
package execshell
