package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/xapkconv/internal/utils"
)

const (
	testEnvironmentPrefixConstant     = "TESTXAPKCONV"
	testConfigurationNameConstant     = "config"
	testConfigurationTypeConstant     = "yaml"
	testConfigurationFileNameConstant = "config.yaml"
	testPatchToolKeyConstant          = "tools.convert.patch_tool"
	testPatchToolEnvironmentConstant  = "TESTXAPKCONV_TOOLS_CONVERT_PATCH_TOOL"
	testRegisteredDefaultToolConstant = "registered-default"
	testEmbeddedDocumentConstant      = "tools:\n  convert:\n    patch_tool: embedded-tool\n    run_patch_tool: false\n"
	testFileDocumentConstant          = "tools:\n  convert:\n    patch_tool: \"  file-tool  \"\n    run_patch_tool: \"true\"\n"
)

type loaderFixture struct {
	Tools struct {
		Convert struct {
			PatchTool    string `mapstructure:"patch_tool"`
			RunPatchTool bool   `mapstructure:"run_patch_tool"`
		} `mapstructure:"convert"`
	} `mapstructure:"tools"`
}

func writeConfigurationFile(testInstance *testing.T, directory string, content string) string {
	testInstance.Helper()
	configurationFilePath := filepath.Join(directory, testConfigurationFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationFilePath, []byte(content), 0o600))
	return configurationFilePath
}

func TestConfigurationLoaderPrecedence(testInstance *testing.T) {
	testCases := []struct {
		name               string
		embeddedDocument   string
		fileDocument       string
		environmentValue   string
		expectedPatchTool  string
		expectedRunPatch   bool
		expectedFileLoaded bool
	}{
		{
			name:              "registered_defaults_only",
			expectedPatchTool: testRegisteredDefaultToolConstant,
		},
		{
			name:              "embedded_document_over_defaults",
			embeddedDocument:  testEmbeddedDocumentConstant,
			expectedPatchTool: "embedded-tool",
		},
		{
			name:               "file_over_embedded_document",
			embeddedDocument:   testEmbeddedDocumentConstant,
			fileDocument:       testFileDocumentConstant,
			expectedPatchTool:  "file-tool",
			expectedRunPatch:   true,
			expectedFileLoaded: true,
		},
		{
			name:               "environment_over_file",
			embeddedDocument:   testEmbeddedDocumentConstant,
			fileDocument:       testFileDocumentConstant,
			environmentValue:   "environment-tool",
			expectedPatchTool:  "environment-tool",
			expectedRunPatch:   true,
			expectedFileLoaded: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			configurationFilePath := ""
			if len(testCase.fileDocument) > 0 {
				configurationFilePath = writeConfigurationFile(subTest, subTest.TempDir(), testCase.fileDocument)
			}
			if len(testCase.environmentValue) > 0 {
				subTest.Setenv(testPatchToolEnvironmentConstant, testCase.environmentValue)
			}

			loader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, []string{subTest.TempDir()})
			loader.SetEmbeddedConfiguration([]byte(testCase.embeddedDocument), testConfigurationTypeConstant)

			var fixture loaderFixture
			loadedConfiguration, loadError := loader.LoadConfiguration(
				configurationFilePath,
				map[string]any{testPatchToolKeyConstant: testRegisteredDefaultToolConstant},
				&fixture,
			)
			require.NoError(subTest, loadError)
			require.Equal(subTest, testCase.expectedPatchTool, fixture.Tools.Convert.PatchTool)
			require.Equal(subTest, testCase.expectedRunPatch, fixture.Tools.Convert.RunPatchTool)
			if testCase.expectedFileLoaded {
				require.Equal(subTest, configurationFilePath, loadedConfiguration.ConfigFileUsed)
			} else {
				require.Empty(subTest, loadedConfiguration.ConfigFileUsed)
			}
		})
	}
}

func TestConfigurationLoaderSearchPaths(testInstance *testing.T) {
	testCases := []struct {
		name           string
		selectLocation func(workingDirectory string, userDirectory string) string
	}{
		{
			name:           "working_directory",
			selectLocation: func(workingDirectory string, _ string) string { return workingDirectory },
		},
		{
			name:           "user_configuration_directory",
			selectLocation: func(_ string, userDirectory string) string { return userDirectory },
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			workingDirectory := subTest.TempDir()
			userDirectory := filepath.Join(subTest.TempDir(), "xapkconv")
			require.NoError(subTest, os.MkdirAll(userDirectory, 0o755))

			configurationFilePath := writeConfigurationFile(subTest, testCase.selectLocation(workingDirectory, userDirectory), testFileDocumentConstant)

			loader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, []string{workingDirectory, userDirectory})

			var fixture loaderFixture
			loadedConfiguration, loadError := loader.LoadConfiguration("", nil, &fixture)
			require.NoError(subTest, loadError)
			require.Equal(subTest, "file-tool", fixture.Tools.Convert.PatchTool)
			require.Equal(subTest, configurationFilePath, loadedConfiguration.ConfigFileUsed)
		})
	}
}

func TestConfigurationLoaderRejectsMissingExplicitFile(testInstance *testing.T) {
	loader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, nil)

	var fixture loaderFixture
	_, loadError := loader.LoadConfiguration(filepath.Join(testInstance.TempDir(), "absent.yaml"), nil, &fixture)
	require.Error(testInstance, loadError)
	require.Contains(testInstance, loadError.Error(), "failed to read configuration")
}

func TestConfigurationLoaderRejectsMalformedEmbeddedDocument(testInstance *testing.T) {
	loader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, nil)
	loader.SetEmbeddedConfiguration([]byte("tools: [unterminated"), testConfigurationTypeConstant)

	var fixture loaderFixture
	_, loadError := loader.LoadConfiguration("", nil, &fixture)
	require.Error(testInstance, loadError)
	require.Contains(testInstance, loadError.Error(), "failed to merge embedded configuration")
}
