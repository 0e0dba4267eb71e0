package execshell

import (
	"fmt"
	"io"
	"strings"
)

const (
	commandApkMitmStringConstant             = "apk-mitm"
	commandFailedErrorTemplateConstant       = "%s exited with code %d"
	commandFailedOutputErrorTemplateConstant = "%s exited with code %d: %s"
	commandExecutionErrorTemplateConstant    = "%s could not be executed: %v"
)

// CommandName identifies an executable resolved through the search path.
type CommandName string

// Supported command enumerations.
const (
	CommandApkMitm CommandName = CommandName(commandApkMitmStringConstant)
)

// CommandDetails describes a single invocation.
type CommandDetails struct {
	Arguments []string
	// OutputSink receives merged standard output and standard error line by line while the process runs.
	// A nil sink discards the output.
	OutputSink io.Writer
}

// ShellCommand combines a CommandName with invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable outcome of a finished process.
type ExecutionResult struct {
	ExitCode int
	// LastOutputLine is the final non-blank line the process printed, without surrounding whitespace.
	LastOutputLine string
}

// CommandEventObserver is notified as a ShellExecutor moves a command through its lifecycle.
type CommandEventObserver interface {
	CommandStarted(command ShellCommand)
	// CommandCompleted fires once the process exits, whatever its exit code.
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed fires when the process could not be started or awaited.
	CommandExecutionFailed(command ShellCommand, failure error)
}

type silentCommandEventObserver struct{}

func (silentCommandEventObserver) CommandStarted(ShellCommand) {}

func (silentCommandEventObserver) CommandCompleted(ShellCommand, ExecutionResult) {}

func (silentCommandEventObserver) CommandExecutionFailed(ShellCommand, error) {}

// CommandFailedError reports a command that ran to completion with a non-zero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failed command.
func (failure CommandFailedError) Error() string {
	trimmedOutputLine := strings.TrimSpace(failure.Result.LastOutputLine)
	if len(trimmedOutputLine) == 0 {
		return fmt.Sprintf(commandFailedErrorTemplateConstant, failure.Command.Name, failure.Result.ExitCode)
	}
	return fmt.Sprintf(commandFailedOutputErrorTemplateConstant, failure.Command.Name, failure.Result.ExitCode, trimmedOutputLine)
}

// CommandExecutionError reports a command that could not be started or awaited.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (failure CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, failure.Command.Name, failure.Cause)
}

// Unwrap exposes the underlying cause.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}
