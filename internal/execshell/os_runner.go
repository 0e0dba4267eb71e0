package execshell

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
)

const lineDelimiterConstant = '\n'

// OSCommandRunner executes commands using the operating system facilities.
type OSCommandRunner struct{}

// NewOSCommandRunner constructs a runner backed by os/exec.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// Run starts the command with standard error merged into standard output and forwards every line to the
// command's OutputSink as soon as it is read. It blocks until the process exits; a non-zero exit is
// reported through ExecutionResult.ExitCode, not as an error.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	executable := exec.CommandContext(executionContext, string(command.Name), append([]string{}, command.Details.Arguments...)...)

	outputSink := command.Details.OutputSink
	if outputSink == nil {
		outputSink = io.Discard
	}

	outputPipe, pipeError := executable.StdoutPipe()
	if pipeError != nil {
		return ExecutionResult{}, pipeError
	}
	executable.Stderr = executable.Stdout

	if startError := executable.Start(); startError != nil {
		return ExecutionResult{}, startError
	}

	lastOutputLine, forwardError := forwardLines(outputPipe, outputSink)
	if forwardError != nil {
		_, _ = io.Copy(io.Discard, outputPipe)
	}

	waitError := executable.Wait()
	executionResult, completionError := interpretCompletion(waitError, lastOutputLine)
	if completionError != nil {
		return executionResult, completionError
	}
	if forwardError != nil {
		return executionResult, forwardError
	}
	return executionResult, nil
}

// forwardLines relays source to outputSink line by line and returns the last non-blank line.
func forwardLines(source io.Reader, outputSink io.Writer) (string, error) {
	lineReader := bufio.NewReader(source)
	lastOutputLine := ""
	for {
		line, readError := lineReader.ReadBytes(lineDelimiterConstant)
		if len(line) > 0 {
			if trimmedLine := bytes.TrimSpace(line); len(trimmedLine) > 0 {
				lastOutputLine = string(trimmedLine)
			}
			if _, writeError := outputSink.Write(line); writeError != nil {
				return lastOutputLine, writeError
			}
		}
		if errors.Is(readError, io.EOF) {
			return lastOutputLine, nil
		}
		if readError != nil {
			return lastOutputLine, readError
		}
	}
}

func interpretCompletion(waitError error, lastOutputLine string) (ExecutionResult, error) {
	if waitError == nil {
		return ExecutionResult{ExitCode: 0, LastOutputLine: lastOutputLine}, nil
	}

	exitError := &exec.ExitError{}
	if errors.As(waitError, &exitError) {
		return ExecutionResult{ExitCode: exitError.ExitCode(), LastOutputLine: lastOutputLine}, nil
	}
	return ExecutionResult{}, waitError
}
