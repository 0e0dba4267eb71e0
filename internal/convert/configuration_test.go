package convert

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigurationValues(testInstance *testing.T) {
	require.Equal(testInstance, map[string]any{
		"tools.convert.patch_tool":           "apk-mitm",
		"tools.convert.run_patch_tool":       false,
		"tools.convert.sanitize_input_names": true,
		"tools.convert.scratch_root":         "",
	}, DefaultConfigurationValues("tools.convert"))

	require.Contains(testInstance, DefaultConfigurationValues(""), "patch_tool")
}

func TestConfigurationSanitize(testInstance *testing.T) {
	homeDirectory := testInstance.TempDir()
	testInstance.Setenv("HOME", homeDirectory)

	testCases := []struct {
		name                  string
		configuration         Configuration
		expectedConfiguration Configuration
	}{
		{
			name:                  "empty_tool_uses_default",
			configuration:         Configuration{PatchTool: "   ", SanitizeInputNames: true},
			expectedConfiguration: Configuration{PatchTool: "apk-mitm", SanitizeInputNames: true},
		},
		{
			name:                  "values_trimmed",
			configuration:         Configuration{PatchTool: " apk-patcher ", RunPatchTool: true, ScratchRoot: " /var/tmp "},
			expectedConfiguration: Configuration{PatchTool: "apk-patcher", RunPatchTool: true, ScratchRoot: "/var/tmp"},
		},
		{
			name:                  "scratch_root_home_expanded",
			configuration:         Configuration{PatchTool: "apk-mitm", ScratchRoot: "~/scratch"},
			expectedConfiguration: Configuration{PatchTool: "apk-mitm", ScratchRoot: filepath.Join(homeDirectory, "scratch")},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			require.Equal(subTest, testCase.expectedConfiguration, testCase.configuration.Sanitize())
		})
	}
}
