package execshell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommandMessageFormatterDescribesPatchTool(testInstance *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{Name: CommandApkMitm, Details: CommandDetails{Arguments: []string{"app.apks"}}}

	require.Equal(testInstance, "Launching apk-mitm on app.apks", formatter.BuildStartedMessage(command))
	require.Equal(testInstance, "apk-mitm finished patching app.apks", formatter.BuildSuccessMessage(command))
	require.Equal(testInstance, "apk-mitm failed to patch app.apks (exit code 2: boom)", formatter.BuildFailureMessage(command, ExecutionResult{ExitCode: 2, LastOutputLine: "boom"}))
	require.Equal(testInstance, "Unable to run apk-mitm on app.apks: missing", formatter.BuildExecutionFailureMessage(command, errors.New("missing")))
}

func TestCommandMessageFormatterGenericCommands(testInstance *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{Name: CommandName("patcher"), Details: CommandDetails{Arguments: []string{"--fast", "app.apks"}}}

	require.Equal(testInstance, "Running patcher --fast app.apks", formatter.BuildStartedMessage(command))
	require.Equal(testInstance, "Completed patcher --fast app.apks", formatter.BuildSuccessMessage(command))
	require.Equal(testInstance, "patcher --fast app.apks failed with exit code 1", formatter.BuildFailureMessage(command, ExecutionResult{ExitCode: 1}))
	require.Equal(testInstance, "patcher --fast app.apks failed with exit code 5: killed", formatter.BuildFailureMessage(command, ExecutionResult{ExitCode: 5, LastOutputLine: " killed "}))
	require.Equal(testInstance, "patcher --fast app.apks failed: unknown error", formatter.BuildExecutionFailureMessage(command, nil))
}
