package ui

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/xapkconv/internal/execshell"
)

const (
	commandFieldNameConstant    = "command"
	exitCodeFieldNameConstant   = "exit_code"
	commandFieldUnknownConstant = "unknown"
)

// ConsoleCommandEventLogger narrates patch tool runs through a console zap logger.
// Launches and clean exits log at info, non-zero exits at warn, and launch failures at error.
type ConsoleCommandEventLogger struct {
	logger    *zap.Logger
	formatter execshell.CommandMessageFormatter
}

// NewConsoleCommandEventLogger constructs a ConsoleCommandEventLogger; a nil logger discards events.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger}
}

// CommandStarted logs the launch.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	if eventLogger == nil {
		return
	}
	eventLogger.emit(zapcore.InfoLevel, eventLogger.formatter.BuildStartedMessage(command), command)
}

// CommandCompleted logs the exit, escalating to a warning when the exit code is non-zero.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if eventLogger == nil {
		return
	}
	if result.ExitCode == 0 {
		eventLogger.emit(zapcore.InfoLevel, eventLogger.formatter.BuildSuccessMessage(command), command)
		return
	}
	eventLogger.emit(zapcore.WarnLevel, eventLogger.formatter.BuildFailureMessage(command, result), command, zap.Int(exitCodeFieldNameConstant, result.ExitCode))
}

// CommandExecutionFailed logs a process that never produced an exit code.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	if eventLogger == nil {
		return
	}
	eventLogger.emit(zapcore.ErrorLevel, eventLogger.formatter.BuildExecutionFailureMessage(command, failure), command, zap.Error(failure))
}

func (eventLogger *ConsoleCommandEventLogger) emit(level zapcore.Level, message string, command execshell.ShellCommand, extraFields ...zap.Field) {
	fields := append([]zap.Field{zap.String(commandFieldNameConstant, commandLabel(command))}, extraFields...)
	eventLogger.logger.Log(level, message, fields...)
}

func commandLabel(command execshell.ShellCommand) string {
	if len(command.Name) == 0 {
		return commandFieldUnknownConstant
	}
	return string(command.Name)
}
