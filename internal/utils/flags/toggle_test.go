package flags

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestAddToggleFlagParsesValues(testInstance *testing.T) {
	testCases := []struct {
		name            string
		arguments       []string
		expectedValue   bool
		expectedChanged bool
	}{
		{name: "default_false", arguments: []string{}, expectedValue: false, expectedChanged: false},
		{name: "bare_flag", arguments: []string{"--toggle"}, expectedValue: true, expectedChanged: true},
		{name: "separate_yes", arguments: []string{"--toggle", "yes"}, expectedValue: true, expectedChanged: true},
		{name: "separate_true_uppercase", arguments: []string{"--toggle", "TRUE"}, expectedValue: true, expectedChanged: true},
		{name: "separate_no", arguments: []string{"--toggle", "no"}, expectedValue: false, expectedChanged: true},
		{name: "inline_off", arguments: []string{"--toggle=off"}, expectedValue: false, expectedChanged: true},
		{name: "inline_one", arguments: []string{"--toggle=1"}, expectedValue: true, expectedChanged: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			command := &cobra.Command{}
			var toggleValue bool
			AddToggleFlag(command.Flags(), &toggleValue, "toggle", "", false, "Toggle flag")

			require.NoError(subTest, command.ParseFlags(NormalizeToggleArguments(testCase.arguments)))
			require.Equal(subTest, testCase.expectedValue, toggleValue)

			flag := command.Flags().Lookup("toggle")
			require.NotNil(subTest, flag)
			require.Equal(subTest, testCase.expectedChanged, flag.Changed)
		})
	}
}

func TestAddToggleFlagRejectsInvalidInlineValue(testInstance *testing.T) {
	command := &cobra.Command{}
	var toggleValue bool
	AddToggleFlag(command.Flags(), &toggleValue, "toggle", "", false, "Toggle flag")

	parseError := command.ParseFlags(NormalizeToggleArguments([]string{"--toggle=maybe"}))
	require.Error(testInstance, parseError)
	require.Contains(testInstance, parseError.Error(), `invalid toggle value "maybe"`)
	require.False(testInstance, toggleValue)
}

func TestAddToggleFlagUsageHighlightsDefault(testInstance *testing.T) {
	command := &cobra.Command{}
	AddToggleFlag(command.Flags(), nil, "enabled", "", true, "Enabled by default.")
	AddToggleFlag(command.Flags(), nil, "disabled", "", false, "Disabled by default.")

	require.Equal(testInstance, "`<YES|no>` Enabled by default.", command.Flags().Lookup("enabled").Usage)
	require.Equal(testInstance, "`<yes|NO>` Disabled by default.", command.Flags().Lookup("disabled").Usage)

	enabledValue, lookupError := command.Flags().GetBool("enabled")
	require.NoError(testInstance, lookupError)
	require.True(testInstance, enabledValue)
}

func TestNormalizeToggleArgumentsHandlesShorthand(testInstance *testing.T) {
	command := &cobra.Command{}
	var toggleValue bool
	AddToggleFlag(command.Flags(), &toggleValue, "shorthand-toggle", "s", true, "Toggle flag")

	normalizedArguments := NormalizeToggleArguments([]string{"-s", "no"})
	require.Equal(testInstance, []string{"-s=no"}, normalizedArguments)
	require.NoError(testInstance, command.ParseFlags(normalizedArguments))
	require.False(testInstance, toggleValue)
}

func TestNormalizeToggleArgumentsKeepsPositionalArguments(testInstance *testing.T) {
	testCases := []struct {
		name               string
		arguments          []string
		expectedNormalized []string
		expectedValue      bool
		expectedPositional []string
	}{
		{
			name:               "long_toggle_before_input",
			arguments:          []string{"--patch", "bundle.xapk", "out.apks"},
			expectedNormalized: []string{"--patch", "bundle.xapk", "out.apks"},
			expectedValue:      true,
			expectedPositional: []string{"bundle.xapk", "out.apks"},
		},
		{
			name:               "single_dash_long_toggle",
			arguments:          []string{"-patch", "bundle.xapk"},
			expectedNormalized: []string{"--patch", "bundle.xapk"},
			expectedValue:      true,
			expectedPositional: []string{"bundle.xapk"},
		},
		{
			name:               "single_dash_long_toggle_with_value",
			arguments:          []string{"bundle.xapk", "-patch", "off"},
			expectedNormalized: []string{"bundle.xapk", "--patch=off"},
			expectedValue:      false,
			expectedPositional: []string{"bundle.xapk"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			command := &cobra.Command{}
			var toggleValue bool
			AddToggleFlag(command.Flags(), &toggleValue, "patch", "", false, "Patch flag")

			normalizedArguments := NormalizeToggleArguments(testCase.arguments)
			require.Equal(subTest, testCase.expectedNormalized, normalizedArguments)

			require.NoError(subTest, command.ParseFlags(normalizedArguments))
			require.Equal(subTest, testCase.expectedValue, toggleValue)
			require.Equal(subTest, testCase.expectedPositional, command.Flags().Args())
		})
	}
}

func TestNormalizeToggleArgumentsLeavesUnknownAndTerminatedArguments(testInstance *testing.T) {
	require.Nil(testInstance, NormalizeToggleArguments(nil))
	require.Equal(testInstance,
		[]string{"-unregistered", "--", "-patch", "yes"},
		NormalizeToggleArguments([]string{"-unregistered", "--", "-patch", "yes"}),
	)
}
