package shared

import (
	"context"
	"io/fs"
	"time"

	"github.com/temirov/fsgit/internal/execshell"
)

// Clock abstracts time acquisition for deterministic testing.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the system time source.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FileSystem exposes the read-only filesystem operations used while scanning.
type FileSystem interface {
	ReadDirectory(path string) ([]fs.DirEntry, error)
	Stat(path string) (fs.FileInfo, error)
	Abs(path string) (string, error)
}

// GitExecutor exposes the subset of shell execution used by the git command inspector.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}
