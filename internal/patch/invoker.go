package patch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/xapkconv/internal/execshell"
	"github.com/temirov/xapkconv/internal/utils"
)

const (
	// DefaultToolName is the patch tool used when none is configured.
	DefaultToolName = string(execshell.CommandApkMitm)

	toolNotFoundErrorTemplateConstant    = "%s is not installed or not on PATH"
	loggerNotConfiguredMessageConstant   = "patch invoker logger not configured"
	executorNotConfiguredMessageConstant = "patch invoker command executor not configured"
	archivePathRequiredMessageConstant   = "archive path must be provided"
	logFieldToolNameConstant             = "tool_name"
	logFieldToolPathConstant             = "tool_path"
	logFieldArchivePathConstant          = "archive_path"
	logFieldExitCodeConstant             = "exit_code"
	logFieldOutputBytesConstant          = "output_bytes"
	toolLocatedMessageConstant           = "Located patch tool"
	toolFinishedMessageConstant          = "Patch tool finished"
)

// ErrLoggerNotConfigured indicates the invoker was constructed without a logger.
var ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)

// ErrExecutorNotConfigured indicates the invoker was constructed without a command executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// ErrArchivePathRequired indicates Invoke was called without an archive.
var ErrArchivePathRequired = errors.New(archivePathRequiredMessageConstant)

// ToolNotFoundError reports a patch tool that could not be located on the search path.
type ToolNotFoundError struct {
	ToolName string
	Cause    error
}

// Error describes the missing tool.
func (failure ToolNotFoundError) Error() string {
	return fmt.Sprintf(toolNotFoundErrorTemplateConstant, failure.ToolName)
}

// Unwrap exposes the underlying lookup failure.
func (failure ToolNotFoundError) Unwrap() error {
	return failure.Cause
}

// ToolLocator resolves a tool name to an executable path.
type ToolLocator func(toolName string) (string, error)

// LaunchObserver is notified once the tool has been located and is about to run.
type LaunchObserver func(toolName string, archivePath string)

// CommandExecutor runs shell commands.
type CommandExecutor interface {
	Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error)
}

// Dependencies supplies collaborators required by the Invoker.
type Dependencies struct {
	Logger         *zap.Logger
	Executor       CommandExecutor
	Locator        ToolLocator
	LaunchObserver LaunchObserver
	ToolName       string
}

// ExitStatus reports how the patch tool terminated.
type ExitStatus struct {
	ToolName    string
	ExitCode    int
	OutputBytes int64
}

// Succeeded reports whether the tool exited with status zero.
func (status ExitStatus) Succeeded() bool {
	return status.ExitCode == 0
}

// Invoker launches the patch tool against an archive.
type Invoker struct {
	logger         *zap.Logger
	executor       CommandExecutor
	locator        ToolLocator
	launchObserver LaunchObserver
	toolName       string
}

// NewInvoker constructs an Invoker from the provided dependencies.
func NewInvoker(dependencies Dependencies) (*Invoker, error) {
	if dependencies.Logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if dependencies.Executor == nil {
		return nil, ErrExecutorNotConfigured
	}

	locator := dependencies.Locator
	if locator == nil {
		locator = exec.LookPath
	}

	toolName := strings.TrimSpace(dependencies.ToolName)
	if len(toolName) == 0 {
		toolName = DefaultToolName
	}

	return &Invoker{
		logger:         dependencies.Logger,
		executor:       dependencies.Executor,
		locator:        locator,
		launchObserver: dependencies.LaunchObserver,
		toolName:       toolName,
	}, nil
}

// ToolName returns the configured tool name.
func (invoker *Invoker) ToolName() string {
	return invoker.toolName
}

// Invoke runs the tool with archivePath as its only argument, relaying merged output to outputSink.
func (invoker *Invoker) Invoke(executionContext context.Context, archivePath string, outputSink io.Writer) (ExitStatus, error) {
	trimmedArchivePath := strings.TrimSpace(archivePath)
	if len(trimmedArchivePath) == 0 {
		return ExitStatus{}, ErrArchivePathRequired
	}

	toolPath, locateError := invoker.locator(invoker.toolName)
	if locateError != nil {
		return ExitStatus{}, ToolNotFoundError{ToolName: invoker.toolName, Cause: locateError}
	}
	invoker.logger.Debug(toolLocatedMessageConstant, zap.String(logFieldToolNameConstant, invoker.toolName), zap.String(logFieldToolPathConstant, toolPath))
	if invoker.launchObserver != nil {
		invoker.launchObserver(invoker.toolName, trimmedArchivePath)
	}

	relayingSink := utils.NewFlushingWriter(outputSink)
	command := execshell.ShellCommand{
		Name: execshell.CommandName(invoker.toolName),
		Details: execshell.CommandDetails{
			Arguments:  []string{trimmedArchivePath},
			OutputSink: relayingSink,
		},
	}

	status := ExitStatus{ToolName: invoker.toolName}
	executionResult, executionError := invoker.executor.Execute(executionContext, command)
	if executionError != nil {
		var commandFailure execshell.CommandFailedError
		if !errors.As(executionError, &commandFailure) {
			return ExitStatus{}, executionError
		}
		executionResult = commandFailure.Result
	}
	status.ExitCode = executionResult.ExitCode
	status.OutputBytes = relayingSink.BytesForwarded()

	invoker.logger.Info(
		toolFinishedMessageConstant,
		zap.String(logFieldToolNameConstant, invoker.toolName),
		zap.String(logFieldArchivePathConstant, trimmedArchivePath),
		zap.Int(logFieldExitCodeConstant, status.ExitCode),
		zap.Int64(logFieldOutputBytesConstant, status.OutputBytes),
	)
	return status, nil
}
