package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatChoiceUsage(t *testing.T) {
	testCases := []struct {
		name           string
		defaultChoice  string
		choices        []string
		description    string
		expectedOutput string
	}{
		{
			name:           "DefaultFirstChoice",
			defaultChoice:  "console",
			choices:        []string{"console", "structured"},
			description:    "Diagnostic log encoding.",
			expectedOutput: "`<CONSOLE|structured>` Diagnostic log encoding.",
		},
		{
			name:           "DefaultSecondChoice",
			defaultChoice:  "structured",
			choices:        []string{"console", "structured"},
			description:    "Diagnostic log encoding.",
			expectedOutput: "`<console|STRUCTURED>` Diagnostic log encoding.",
		},
		{
			name:           "EmptyDescription",
			defaultChoice:  "debug",
			choices:        []string{"debug", "info"},
			description:    "",
			expectedOutput: "`<DEBUG|info>`",
		},
		{
			name:           "DuplicateChoicesIgnored",
			defaultChoice:  "warn",
			choices:        []string{"warn", "warn", "error", "error"},
			description:    "Minimum log level.",
			expectedOutput: "`<WARN|error>` Minimum log level.",
		},
		{
			name:           "WhitespaceTrimmed",
			defaultChoice:  "apk-mitm",
			choices:        []string{" apk-mitm ", " custom-patcher "},
			description:    "Patch tool.",
			expectedOutput: "`<APK-MITM|custom-patcher>` Patch tool.",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			actual := FormatChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description)
			require.Equal(t, testCase.expectedOutput, actual)
		})
	}
}

func TestMatchChoice(testInstance *testing.T) {
	testCases := []struct {
		name          string
		candidate     string
		expectedValue string
		expectError   bool
	}{
		{name: "exact", candidate: "console", expectedValue: "console"},
		{name: "case_insensitive", candidate: " STRUCTURED ", expectedValue: "structured"},
		{name: "unknown", candidate: "xml", expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			matchedValue, matchError := MatchChoice(testCase.candidate, []string{"structured", "console"})
			if testCase.expectError {
				require.EqualError(subTest, matchError, `unsupported value "xml"; expected one of structured, console`)
				return
			}
			require.NoError(subTest, matchError)
			require.Equal(subTest, testCase.expectedValue, matchedValue)
		})
	}
}
