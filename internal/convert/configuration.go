package convert

import (
	"strings"

	"github.com/temirov/xapkconv/internal/patch"
	pathutils "github.com/temirov/xapkconv/internal/utils/path"
)

const (
	patchToolConfigurationKeyConstant          = "patch_tool"
	runPatchToolConfigurationKeyConstant       = "run_patch_tool"
	sanitizeInputNamesConfigurationKeyConstant = "sanitize_input_names"
	scratchRootConfigurationKeyConstant        = "scratch_root"
	configurationKeySeparatorConstant          = "."
)

// Configuration stores settings for the convert command.
type Configuration struct {
	PatchTool          string `mapstructure:"patch_tool"`
	RunPatchTool       bool   `mapstructure:"run_patch_tool"`
	SanitizeInputNames bool   `mapstructure:"sanitize_input_names"`
	ScratchRoot        string `mapstructure:"scratch_root"`
}

// DefaultConfiguration supplies baseline values for the convert command.
func DefaultConfiguration() Configuration {
	return Configuration{
		PatchTool:          patch.DefaultToolName,
		RunPatchTool:       false,
		SanitizeInputNames: true,
		ScratchRoot:        "",
	}
}

// DefaultConfigurationValues returns the default configuration keyed below the provided prefix.
func DefaultConfigurationValues(keyPrefix string) map[string]any {
	defaults := DefaultConfiguration()
	prefix := strings.TrimSpace(keyPrefix)
	if len(prefix) > 0 {
		prefix += configurationKeySeparatorConstant
	}

	return map[string]any{
		prefix + patchToolConfigurationKeyConstant:          defaults.PatchTool,
		prefix + runPatchToolConfigurationKeyConstant:       defaults.RunPatchTool,
		prefix + sanitizeInputNamesConfigurationKeyConstant: defaults.SanitizeInputNames,
		prefix + scratchRootConfigurationKeyConstant:        defaults.ScratchRoot,
	}
}

// Sanitize trims configured values and fills in the default patch tool.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.PatchTool = strings.TrimSpace(configuration.PatchTool)
	if len(sanitized.PatchTool) == 0 {
		sanitized.PatchTool = patch.DefaultToolName
	}

	trimmedScratchRoot := strings.TrimSpace(configuration.ScratchRoot)
	if len(trimmedScratchRoot) > 0 {
		trimmedScratchRoot = pathutils.NewHomeExpander().Expand(trimmedScratchRoot)
	}
	sanitized.ScratchRoot = trimmedScratchRoot

	return sanitized
}
