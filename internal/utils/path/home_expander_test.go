package pathutils

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHomeExpanderExpand(testInstance *testing.T) {
	homeDirectory := filepath.Join(testInstance.TempDir(), "home")
	expander := NewHomeExpanderWithProvider(func() (string, error) {
		return homeDirectory, nil
	})

	testCases := []struct {
		name         string
		candidate    string
		expectedPath string
	}{
		{name: "empty", candidate: "", expectedPath: ""},
		{name: "absolute", candidate: "/tmp/app.xapk", expectedPath: "/tmp/app.xapk"},
		{name: "relative", candidate: "downloads/app.xapk", expectedPath: "downloads/app.xapk"},
		{name: "bare_tilde", candidate: "~", expectedPath: homeDirectory},
		{name: "tilde_prefix", candidate: "~/downloads/app.xapk", expectedPath: filepath.Join(homeDirectory, "downloads", "app.xapk")},
		{name: "other_user", candidate: "~someone/app.xapk", expectedPath: "~someone/app.xapk"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			require.Equal(subTest, testCase.expectedPath, expander.Expand(testCase.candidate))
		})
	}
}

func TestHomeExpanderKeepsPathWhenHomeUnavailable(testInstance *testing.T) {
	expander := NewHomeExpanderWithProvider(func() (string, error) {
		return "", errors.New("no home directory")
	})

	require.Equal(testInstance, "~/app.xapk", expander.Expand("~/app.xapk"))
}
