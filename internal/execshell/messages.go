package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandArgumentsJoinSeparatorConstant   = " "
	outputLineSuffixTemplateConstant        = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	fallbackUnknownValueLabelConstant       = "unknown archive"
)

const (
	apkMitmStartTemplateConstant            = "Launching %s on %s"
	apkMitmSuccessTemplateConstant          = "%s finished patching %s"
	apkMitmFailureTemplateConstant          = "%s failed to patch %s (exit code %d%s)"
	apkMitmExecutionFailureTemplateConstant = "Unable to run %s on %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	switch command.Name {
	case CommandApkMitm:
		return formatter.describePatchToolMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describePatchToolMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	archiveLabel := fallbackUnknownValueLabelConstant
	if len(command.Details.Arguments) > 0 {
		if trimmedArgument := strings.TrimSpace(command.Details.Arguments[0]); len(trimmedArgument) > 0 {
			archiveLabel = trimmedArgument
		}
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(apkMitmStartTemplateConstant, command.Name, archiveLabel)
	case messageStageSuccess:
		return fmt.Sprintf(apkMitmSuccessTemplateConstant, command.Name, archiveLabel)
	case messageStageFailure:
		return fmt.Sprintf(apkMitmFailureTemplateConstant, command.Name, archiveLabel, result.ExitCode, formatter.formatOutputLineSuffix(result.LastOutputLine))
	default:
		return fmt.Sprintf(apkMitmExecutionFailureTemplateConstant, command.Name, archiveLabel, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatOutputLineSuffix(result.LastOutputLine))
	default:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandParts := []string{string(command.Name)}
	if len(command.Details.Arguments) > 0 {
		commandParts = append(commandParts, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	return strings.Join(commandParts, commandArgumentsJoinSeparatorConstant)
}

func (formatter CommandMessageFormatter) formatOutputLineSuffix(outputLine string) string {
	trimmedOutputLine := strings.TrimSpace(outputLine)
	if len(trimmedOutputLine) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(outputLineSuffixTemplateConstant, trimmedOutputLine)
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}
