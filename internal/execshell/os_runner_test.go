package execshell_test

import (
	"bytes"
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/xapkconv/internal/execshell"
)

const (
	testShellCommandNameConstant = "sh"
	testShellScriptFlagConstant  = "-c"
)

type failingWriter struct {
	writes int
}

func (writer *failingWriter) Write(data []byte) (int, error) {
	writer.writes++
	return 0, errors.New("sink closed")
}

func requirePosixShell(testInstance *testing.T) {
	testInstance.Helper()
	if runtime.GOOS == "windows" {
		testInstance.Skip("requires a POSIX shell")
	}
}

func TestOSCommandRunnerStreamsMergedOutput(testInstance *testing.T) {
	requirePosixShell(testInstance)

	testCases := []struct {
		name               string
		script             string
		discardOutput      bool
		expectedExitCode   int
		expectedStreamed   string
		expectedLastOutput string
	}{
		{
			name:               "merges_standard_error",
			script:             "echo first; echo second 1>&2; printf tail",
			expectedExitCode:   0,
			expectedStreamed:   "first\nsecond\ntail",
			expectedLastOutput: "tail",
		},
		{
			name:               "reports_exit_code_and_last_line",
			script:             "echo patched; echo 'signing failed' 1>&2; echo; exit 3",
			expectedExitCode:   3,
			expectedStreamed:   "patched\nsigning failed\n\n",
			expectedLastOutput: "signing failed",
		},
		{
			name:             "silent_failure",
			script:           "exit 4",
			expectedExitCode: 4,
		},
		{
			name:               "nil_sink_discards_output",
			script:             "echo ignored",
			discardOutput:      true,
			expectedLastOutput: "ignored",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			streamedOutput := &bytes.Buffer{}
			details := execshell.CommandDetails{Arguments: []string{testShellScriptFlagConstant, testCase.script}}
			if !testCase.discardOutput {
				details.OutputSink = streamedOutput
			}

			executionResult, runError := execshell.NewOSCommandRunner().Run(context.Background(), execshell.ShellCommand{
				Name:    execshell.CommandName(testShellCommandNameConstant),
				Details: details,
			})
			require.NoError(subTest, runError)
			require.Equal(subTest, testCase.expectedExitCode, executionResult.ExitCode)
			require.Equal(subTest, testCase.expectedLastOutput, executionResult.LastOutputLine)
			require.Equal(subTest, testCase.expectedStreamed, streamedOutput.String())
		})
	}
}

func TestOSCommandRunnerStreamingSinkFailure(testInstance *testing.T) {
	requirePosixShell(testInstance)

	sink := &failingWriter{}
	runner := execshell.NewOSCommandRunner()
	_, runError := runner.Run(context.Background(), execshell.ShellCommand{
		Name: execshell.CommandName(testShellCommandNameConstant),
		Details: execshell.CommandDetails{
			Arguments:  []string{testShellScriptFlagConstant, "echo one; echo two; echo three"},
			OutputSink: sink,
		},
	})
	require.Error(testInstance, runError)
	require.Equal(testInstance, 1, sink.writes)
}

func TestOSCommandRunnerMissingExecutable(testInstance *testing.T) {
	runner := execshell.NewOSCommandRunner()
	_, runError := runner.Run(context.Background(), execshell.ShellCommand{
		Name:    execshell.CommandName("xapkconv-missing-executable"),
		Details: execshell.CommandDetails{OutputSink: &bytes.Buffer{}},
	})
	require.Error(testInstance, runError)
}
