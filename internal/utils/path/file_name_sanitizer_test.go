package pathutils_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/xapkconv/internal/utils/path"
)

const (
	testCaseUnsafeFileNameConstant    = "My App (v1.2)+ünï.xapk"
	testCaseSanitizedFileNameConstant = "My_App__v1.2___n_.xapk"
	testCaseSafeFileNameConstant      = "com.example-app_1.xapk"
)

type failingRenamer struct {
	calls int
}

func (renamer *failingRenamer) Rename(string, string) error {
	renamer.calls++
	return errors.New("read-only file system")
}

func TestSanitizeNameReplacesDisallowedCharacters(testInstance *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "unsafe_characters", input: testCaseUnsafeFileNameConstant, expected: testCaseSanitizedFileNameConstant},
		{name: "already_safe", input: testCaseSafeFileNameConstant, expected: testCaseSafeFileNameConstant},
		{name: "empty", input: "", expected: ""},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expected, pathutils.SanitizeName(testCase.input))
		})
	}
}

func TestFileNameSanitizerRenamesFiles(testInstance *testing.T) {
	temporaryDirectory := testInstance.TempDir()
	unsafePath := filepath.Join(temporaryDirectory, testCaseUnsafeFileNameConstant)
	require.NoError(testInstance, os.WriteFile(unsafePath, []byte("bundle"), 0o600))

	sanitizer := pathutils.NewFileNameSanitizer()
	result, sanitizeError := sanitizer.Sanitize("  " + unsafePath + "\t")
	require.NoError(testInstance, sanitizeError)
	require.True(testInstance, result.Renamed)
	require.Equal(testInstance, unsafePath, result.OriginalPath)
	require.Equal(testInstance, filepath.Join(temporaryDirectory, testCaseSanitizedFileNameConstant), result.SanitizedPath)

	content, readError := os.ReadFile(result.SanitizedPath)
	require.NoError(testInstance, readError)
	require.Equal(testInstance, "bundle", string(content))

	_, statError := os.Stat(unsafePath)
	require.True(testInstance, os.IsNotExist(statError))
}

func TestFileNameSanitizerKeepsSafeNames(testInstance *testing.T) {
	renamer := &failingRenamer{}
	sanitizer := pathutils.NewFileNameSanitizerWithDependencies(pathutils.NewHomeExpander(), renamer)

	safePath := filepath.Join(testInstance.TempDir(), testCaseSafeFileNameConstant)
	result, sanitizeError := sanitizer.Sanitize(safePath)
	require.NoError(testInstance, sanitizeError)
	require.False(testInstance, result.Renamed)
	require.Equal(testInstance, safePath, result.SanitizedPath)
	require.Zero(testInstance, renamer.calls)
}

func TestFileNameSanitizerReturnsOriginalPathWhenRenameFails(testInstance *testing.T) {
	renamer := &failingRenamer{}
	sanitizer := pathutils.NewFileNameSanitizerWithDependencies(pathutils.NewHomeExpander(), renamer)

	unsafePath := filepath.Join(testInstance.TempDir(), testCaseUnsafeFileNameConstant)
	result, sanitizeError := sanitizer.Sanitize(unsafePath)
	require.Error(testInstance, sanitizeError)
	require.False(testInstance, result.Renamed)
	require.Equal(testInstance, unsafePath, result.SanitizedPath)
	require.Equal(testInstance, 1, renamer.calls)
}

func TestFileNameSanitizerExpandsHomeDirectory(testInstance *testing.T) {
	homeDirectory := testInstance.TempDir()
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) { return homeDirectory, nil })
	sanitizer := pathutils.NewFileNameSanitizerWithDependencies(expander, nil)

	result, sanitizeError := sanitizer.Sanitize("~/" + testCaseSafeFileNameConstant)
	require.NoError(testInstance, sanitizeError)
	require.Equal(testInstance, filepath.Join(homeDirectory, testCaseSafeFileNameConstant), result.SanitizedPath)
}
