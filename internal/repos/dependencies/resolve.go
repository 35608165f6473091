package dependencies

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/fsgit/internal/execshell"
	"github.com/temirov/fsgit/internal/gitrepo"
	"github.com/temirov/fsgit/internal/repos/filesystem"
	"github.com/temirov/fsgit/internal/repos/shared"
)

const unsupportedInspectorBackendTemplateConstant = "unsupported inspector backend %q"

// ResolveFileSystem returns the provided filesystem or an OS-backed default.
func ResolveFileSystem(existing shared.FileSystem) shared.FileSystem {
	if existing != nil {
		return existing
	}
	return filesystem.OSFileSystem{}
}

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default.
func ResolveGitExecutor(existing shared.GitExecutor, logger *zap.Logger, observer execshell.CommandEventObserver) (shared.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner, observer)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// ResolveRemoteInspector returns the provided inspector or builds one for the requested backend.
// The executor is only consulted for the command backend.
func ResolveRemoteInspector(existing gitrepo.RemoteInspector, backend gitrepo.InspectorBackend, executorFactory func() (shared.GitExecutor, error)) (gitrepo.RemoteInspector, error) {
	if existing != nil {
		return existing, nil
	}

	switch backend {
	case gitrepo.InspectorBackendLibrary, "":
		return gitrepo.NewLibraryRemoteInspector(), nil
	case gitrepo.InspectorBackendCommand:
		executor, executorError := executorFactory()
		if executorError != nil {
			return nil, executorError
		}
		commandInspector, inspectorError := gitrepo.NewCommandRemoteInspector(executor)
		if inspectorError != nil {
			return nil, inspectorError
		}
		return commandInspector, nil
	default:
		return nil, fmt.Errorf(unsupportedInspectorBackendTemplateConstant, backend)
	}
}
