package progress

import (
	"io"

	"golang.org/x/term"
)

type fileDescriptorWriter interface {
	Fd() uintptr
}

// IsTerminal reports whether writer is an interactive terminal. Buffers, pipes and regular files are not.
func IsTerminal(writer io.Writer) bool {
	descriptorWriter, hasDescriptor := writer.(fileDescriptorWriter)
	if !hasDescriptor {
		return false
	}
	return term.IsTerminal(int(descriptorWriter.Fd()))
}
