package convert

import (
	"go.uber.org/zap"

	"github.com/temirov/xapkconv/internal/execshell"
	"github.com/temirov/xapkconv/internal/patch"
	"github.com/temirov/xapkconv/internal/ui"
)

// resolvePatchExecutor returns the provided executor or constructs a shell-backed default.
//
// Human-readable logging attaches a console observer so tool launches are announced.
func resolvePatchExecutor(existing patch.CommandExecutor, logger *zap.Logger, humanReadableLogging bool) (patch.CommandExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	var observer execshell.CommandEventObserver
	if humanReadableLogging {
		observer = ui.NewConsoleCommandEventLogger(logger)
	}

	shellExecutor, creationError := execshell.NewShellExecutorWithObserver(logger, execshell.NewOSCommandRunner(), observer)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}
