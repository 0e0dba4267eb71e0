package convert

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/xapkconv/internal/patch"
	"github.com/temirov/xapkconv/internal/ui"
	"github.com/temirov/xapkconv/internal/utils"
	flagutils "github.com/temirov/xapkconv/internal/utils/flags"
	pathutils "github.com/temirov/xapkconv/internal/utils/path"
	"github.com/temirov/xapkconv/internal/xapk"
)

const (
	commandUseConstant              = "xapkconv [flags] <input_file> [output_apks]"
	commandShortDescriptionConstant = "Convert XAPK bundles to APKS and optionally run apk-mitm"
	commandLongDescriptionConstant  = `XAPK Converter and apk-mitm Runner

xapkconv can:
  • Convert an XAPK file to a valid APKS file.
  • Convert an XAPK file to APKS and then run the apk-mitm command.
  • Run apk-mitm directly on an existing APKS file.
  • Sanitize file names by replacing special characters with underscores (_).`
	commandExampleConstant = `  xapkconv <input_xapk_file> [<output_apks_file>]
    (Converts XAPK to APKS without running apk-mitm)
  xapkconv -mit <input_xapk_file> [<output_apks_file>]
    (Converts XAPK to APKS and then runs apk-mitm)
  xapkconv <input_apks_file>
    (Runs apk-mitm on an existing APKS file)`

	mitFlagNameConstant        = "mit"
	mitFlagDescriptionConstant = "Run the patch tool after conversion"
	maximumArgumentsConstant   = 2

	xapkExtensionConstant = ".xapk"
	apksExtensionConstant = ".apks"

	unsupportedInputMessageConstant        = "input file must be either .xapk or .apks"
	conversionErrorTemplateConstant        = "conversion failed: %w"
	patchErrorTemplateConstant             = "patch tool failed: %w"
	fileRenamedTemplateConstant            = "File renamed: %s -> %s"
	fileRenameFailedTemplateConstant       = "Error renaming file: %v"
	memberSkippedTemplateConstant          = "Warning: %s not found in the XAPK; skipping."
	entrySkippedTemplateConstant           = "Warning: split entry %d (%s) skipped: %s"
	manifestFieldDefaultedTemplateConstant = "Warning: manifest %s; using default"
	iconCopiedTemplateConstant             = "Copied icon %s as %s"
	memberCopiedTemplateConstant           = "Copied and renamed %s as %s"
	metadataCreatedTemplateConstant        = "Created metadata files: %s and %s"
	apksCreatedTemplateConstant            = "APKS file created: %s"
	conversionSuccessTemplateConstant      = "Conversion successful. Output file: %s"
	patchLaunchTemplateConstant            = "Launching %s on %s"
	patchToolMissingTemplateConstant       = "Error: %v"
	patchFinishedTemplateConstant          = "%s finished with return code: %d"

	logFieldInputPathConstant    = "input_path"
	logFieldOutputPathConstant   = "output_path"
	logFieldInputKindConstant    = "input_kind"
	logFieldRunPatchToolConstant = "run_patch_tool"
	logFieldConfigFileConstant   = "config_file"
	dispatchMessageConstant      = "Dispatching input file"
	conversionMessageConstant    = "Converting XAPK bundle"
	renameFailedMessageConstant  = "Unable to sanitize input file name"
)

// ErrUnsupportedInput indicates the input file is neither an XAPK bundle nor an APKS archive.
var ErrUnsupportedInput = errors.New(unsupportedInputMessageConstant)

// InputKind classifies command inputs by extension.
type InputKind string

// Supported input kinds.
const (
	InputKindXAPK        InputKind = "xapk"
	InputKindAPKS        InputKind = "apks"
	InputKindUnsupported InputKind = "unsupported"
)

// ClassifyInput reports the input kind of filePath using a case-insensitive extension match.
func ClassifyInput(filePath string) InputKind {
	lowerCasePath := strings.ToLower(filePath)
	switch {
	case strings.HasSuffix(lowerCasePath, xapkExtensionConstant):
		return InputKindXAPK
	case strings.HasSuffix(lowerCasePath, apksExtensionConstant):
		return InputKindAPKS
	default:
		return InputKindUnsupported
	}
}

// DefaultOutputPath derives the APKS path written next to an XAPK input.
func DefaultOutputPath(inputPath string) string {
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + apksExtensionConstant
}

// LoggerProvider yields a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current convert configuration.
type ConfigurationProvider func() Configuration

// CommandBuilder assembles the xapkconv command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	HumanReadableLoggingProvider func() bool
	PatchExecutor                patch.CommandExecutor
	ToolLocator                  patch.ToolLocator
	FileRenamer                  pathutils.FileRenamer
	Clock                        xapk.Clock
}

// Build constructs the xapkconv command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		Example:       commandExampleConstant,
		Args:          cobra.MaximumNArgs(maximumArgumentsConstant),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          builder.run,
	}

	flagutils.AddToggleFlag(command.Flags(), nil, mitFlagNameConstant, "", false, mitFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) == 0 {
		return command.Help()
	}

	configuration := builder.resolveConfiguration()
	logger := builder.resolveLogger()
	printer := ui.NewStatusPrinter(command.OutOrStdout())
	executionContext := command.Context()
	if executionContext == nil {
		executionContext = context.Background()
	}

	runPatchTool := configuration.RunPatchTool
	if command.Flags().Changed(mitFlagNameConstant) {
		flagValue, flagError := command.Flags().GetBool(mitFlagNameConstant)
		if flagError != nil {
			return flagError
		}
		runPatchTool = flagValue
	}

	inputPath := builder.resolveInputPath(arguments[0], configuration, printer, logger)
	inputKind := ClassifyInput(inputPath)
	logger.Debug(
		dispatchMessageConstant,
		zap.String(logFieldInputPathConstant, inputPath),
		zap.String(logFieldInputKindConstant, string(inputKind)),
		zap.Bool(logFieldRunPatchToolConstant, runPatchTool),
		zap.String(logFieldConfigFileConstant, configurationFileUsed(executionContext)),
	)

	switch inputKind {
	case InputKindXAPK:
		outputPath := DefaultOutputPath(inputPath)
		if len(arguments) > 1 && len(strings.TrimSpace(arguments[1])) > 0 {
			outputPath = pathutils.NewHomeExpander().Expand(strings.TrimSpace(arguments[1]))
		}
		if conversionError := builder.convert(executionContext, inputPath, outputPath, configuration, printer, logger); conversionError != nil {
			return conversionError
		}
		if !runPatchTool {
			return nil
		}
		return builder.runPatchTool(executionContext, outputPath, configuration, printer, logger)
	case InputKindAPKS:
		return builder.runPatchTool(executionContext, inputPath, configuration, printer, logger)
	default:
		return ErrUnsupportedInput
	}
}

func (builder *CommandBuilder) resolveInputPath(rawInputPath string, configuration Configuration, printer *ui.StatusPrinter, logger *zap.Logger) string {
	if !configuration.SanitizeInputNames {
		return pathutils.NewHomeExpander().Expand(strings.TrimSpace(rawInputPath))
	}

	sanitizer := pathutils.NewFileNameSanitizerWithDependencies(pathutils.NewHomeExpander(), builder.FileRenamer)
	sanitizationResult, sanitizationError := sanitizer.Sanitize(rawInputPath)
	if sanitizationError != nil {
		logger.Warn(renameFailedMessageConstant, zap.String(logFieldInputPathConstant, sanitizationResult.OriginalPath), zap.Error(sanitizationError))
		printer.Errorf(fileRenameFailedTemplateConstant, sanitizationError)
		return sanitizationResult.OriginalPath
	}

	if sanitizationResult.Renamed {
		printer.Infof(fileRenamedTemplateConstant, filepath.Base(sanitizationResult.OriginalPath), filepath.Base(sanitizationResult.SanitizedPath))
	}
	return sanitizationResult.SanitizedPath
}

func (builder *CommandBuilder) convert(executionContext context.Context, inputPath string, outputPath string, configuration Configuration, printer *ui.StatusPrinter, logger *zap.Logger) error {
	repackager, repackagerError := xapk.NewRepackager(xapk.Dependencies{
		Logger:      logger,
		Clock:       builder.Clock,
		ScratchRoot: configuration.ScratchRoot,
	})
	if repackagerError != nil {
		return repackagerError
	}

	logger.Info(conversionMessageConstant, zap.String(logFieldInputPathConstant, inputPath), zap.String(logFieldOutputPathConstant, outputPath))
	result, repackageError := repackager.Repackage(executionContext, inputPath, outputPath)
	if repackageError != nil {
		return fmt.Errorf(conversionErrorTemplateConstant, repackageError)
	}

	reportConversion(result, printer)
	return nil
}

func reportConversion(result xapk.Result, printer *ui.StatusPrinter) {
	for _, warning := range result.ManifestWarnings {
		printer.Warningf(manifestFieldDefaultedTemplateConstant, warning.String())
	}
	if result.Icon != nil {
		printer.Infof(iconCopiedTemplateConstant, result.Icon.SourcePath, result.Icon.OutputName)
	}
	for _, skippedEntry := range result.SkippedEntries {
		if skippedEntry.Reason == xapk.SkipReasonMemberNotFound {
			printer.Warningf(memberSkippedTemplateConstant, skippedEntry.Entry.File)
			continue
		}
		printer.Warningf(entrySkippedTemplateConstant, skippedEntry.Index, skippedEntry.Entry.File, skippedEntry.Reason)
	}
	for _, member := range result.Members {
		printer.Infof(memberCopiedTemplateConstant, member.SourcePath, member.OutputName)
	}
	printer.Infof(metadataCreatedTemplateConstant, xapk.MetadataV1FileName, xapk.MetadataV2FileName)
	printer.Infof(apksCreatedTemplateConstant, result.OutputPath)
	printer.Successf(conversionSuccessTemplateConstant, result.OutputPath)
}

func (builder *CommandBuilder) runPatchTool(executionContext context.Context, archivePath string, configuration Configuration, printer *ui.StatusPrinter, logger *zap.Logger) error {
	patchExecutor, executorError := resolvePatchExecutor(builder.PatchExecutor, logger, builder.humanReadableLogging())
	if executorError != nil {
		return executorError
	}

	invoker, invokerError := patch.NewInvoker(patch.Dependencies{
		Logger:   logger,
		Executor: patchExecutor,
		Locator:  builder.ToolLocator,
		LaunchObserver: func(toolName string, launchedArchivePath string) {
			printer.Infof(patchLaunchTemplateConstant, toolName, launchedArchivePath)
		},
		ToolName: configuration.PatchTool,
	})
	if invokerError != nil {
		return invokerError
	}

	exitStatus, invokeError := invoker.Invoke(executionContext, archivePath, printer.Writer())
	if invokeError != nil {
		var toolNotFound patch.ToolNotFoundError
		if errors.As(invokeError, &toolNotFound) {
			printer.Warningf(patchToolMissingTemplateConstant, toolNotFound)
			return nil
		}
		return fmt.Errorf(patchErrorTemplateConstant, invokeError)
	}

	if exitStatus.Succeeded() {
		printer.Successf(patchFinishedTemplateConstant, exitStatus.ToolName, exitStatus.ExitCode)
		return nil
	}
	printer.Warningf(patchFinishedTemplateConstant, exitStatus.ToolName, exitStatus.ExitCode)
	return nil
}

func (builder *CommandBuilder) humanReadableLogging() bool {
	if builder.HumanReadableLoggingProvider == nil {
		return false
	}
	return builder.HumanReadableLoggingProvider()
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	if builder.ConfigurationProvider == nil {
		return DefaultConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func configurationFileUsed(executionContext context.Context) string {
	loadedConfiguration, found := utils.NewCommandContextAccessor().ConfigurationSource(executionContext)
	if !found {
		return ""
	}
	return loadedConfiguration.ConfigFileUsed
}
