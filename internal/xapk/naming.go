package xapk

import (
	"path"
	"strings"
)

const (
	baseSplitIdentifierConstant    = "base"
	baseOutputNameConstant         = "base.apk"
	configSplitPrefixConstant      = "config."
	configOutputNamePrefixConstant = "split_config."
	apkExtensionConstant           = ".apk"
)

// ResolveOutputName maps a split entry to its member name inside the APKS archive.
func ResolveOutputName(entry SplitAPKEntry) string {
	if entry.ID == baseSplitIdentifierConstant {
		return baseOutputNameConstant
	}

	if strings.HasPrefix(entry.ID, configSplitPrefixConstant) {
		_, suffix, _ := strings.Cut(entry.ID, configSplitPrefixConstant)
		return configOutputNamePrefixConstant + suffix + apkExtensionConstant
	}

	return path.Base(strings.ReplaceAll(entry.File, `\`, "/"))
}

// isPlainMemberName reports whether name can be placed directly in the staging directory.
func isPlainMemberName(name string) bool {
	if len(name) == 0 || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
