package xapk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	extractionDirectoryPrefixConstant = "xapk_extract_"
	stagingDirectoryPrefixConstant    = "apks_build_"

	logFieldSourceArchiveConstant    = "source_archive"
	logFieldOutputArchiveConstant    = "output_archive"
	logFieldSourceMemberConstant     = "source_member"
	logFieldOutputMemberConstant     = "output_member"
	logFieldMemberSizeConstant       = "member_size"
	logFieldSplitIndexConstant       = "split_index"
	logFieldSkipReasonConstant       = "skip_reason"
	logFieldManifestFieldConstant    = "manifest_field"
	logFieldAggregateSizeConstant    = "aggregate_size"
	logFieldScratchDirectoryConstant = "scratch_directory"

	repackageStartedMessageConstant       = "Repackaging XAPK"
	manifestFieldDefaultedMessageConstant = "Manifest field could not be decoded; using default"
	iconCopiedMessageConstant             = "Copied icon"
	iconIgnoredMessageConstant            = "Declared icon not present in the XAPK; ignoring"
	splitCopiedMessageConstant            = "Copied split APK"
	splitSkippedMessageConstant           = "Skipping split APK entry"
	metadataWrittenMessageConstant        = "Created metadata files"
	repackageCompletedMessageConstant     = "Created APKS archive"
	scratchCleanupFailedMessageConstant   = "Unable to remove scratch directory"
)

// SkipReason explains why a split entry was not copied.
type SkipReason string

// Skip reasons reported for split entries.
const (
	SkipReasonIncompleteEntry   SkipReason = "entry is missing file or id"
	SkipReasonMemberNotFound    SkipReason = "file not found in the XAPK"
	SkipReasonMemberNotRegular  SkipReason = "file is not a regular file"
	SkipReasonUnsafeMemberPath  SkipReason = "file escapes the extraction directory"
	SkipReasonInvalidOutputName SkipReason = "resolved output name is not a plain file name"
)

// Clock abstracts time acquisition for deterministic testing.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the system time source.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Dependencies supplies collaborators required by the Repackager.
type Dependencies struct {
	Logger      *zap.Logger
	Clock       Clock
	ScratchRoot string
}

// CopiedMember describes a file placed into the output archive.
type CopiedMember struct {
	SourcePath string
	OutputName string
	Size       int64
}

// SkippedEntry describes a split entry that was not copied. Skips never abort a run.
type SkippedEntry struct {
	Index  int
	Entry  SplitAPKEntry
	Reason SkipReason
}

// Result captures the observable outcome of a repackaging run.
type Result struct {
	OutputPath       string
	Manifest         Manifest
	ManifestWarnings []ManifestFieldWarning
	Icon             *CopiedMember
	Members          []CopiedMember
	SkippedEntries   []SkippedEntry
	AggregateSize    int64
	ExportTime       time.Time
}

// Repackager converts XAPK bundles into APKS archives.
type Repackager struct {
	logger      *zap.Logger
	clock       Clock
	scratchRoot string
}

// NewRepackager constructs a Repackager from the provided dependencies.
func NewRepackager(dependencies Dependencies) (*Repackager, error) {
	if dependencies.Logger == nil {
		return nil, ErrLoggerNotConfigured
	}

	clock := dependencies.Clock
	if clock == nil {
		clock = SystemClock{}
	}

	return &Repackager{
		logger:      dependencies.Logger,
		clock:       clock,
		scratchRoot: strings.TrimSpace(dependencies.ScratchRoot),
	}, nil
}

// Repackage converts sourceArchivePath into an APKS archive written to outputArchivePath.
func (repackager *Repackager) Repackage(executionContext context.Context, sourceArchivePath string, outputArchivePath string) (Result, error) {
	trimmedSourcePath := strings.TrimSpace(sourceArchivePath)
	if len(trimmedSourcePath) == 0 {
		return Result{}, ErrSourceArchiveRequired
	}
	trimmedOutputPath := strings.TrimSpace(outputArchivePath)
	if len(trimmedOutputPath) == 0 {
		return Result{}, ErrOutputArchiveRequired
	}

	repackager.logger.Info(
		repackageStartedMessageConstant,
		zap.String(logFieldSourceArchiveConstant, trimmedSourcePath),
		zap.String(logFieldOutputArchiveConstant, trimmedOutputPath),
	)

	extractionDirectory, extractionDirectoryError := repackager.createScratchDirectory(extractionDirectoryPrefixConstant)
	if extractionDirectoryError != nil {
		return Result{}, extractionDirectoryError
	}
	defer repackager.removeScratchDirectory(extractionDirectory)

	stagingDirectory, stagingDirectoryError := repackager.createScratchDirectory(stagingDirectoryPrefixConstant)
	if stagingDirectoryError != nil {
		return Result{}, stagingDirectoryError
	}
	defer repackager.removeScratchDirectory(stagingDirectory)

	if contextError := executionContext.Err(); contextError != nil {
		return Result{}, contextError
	}

	if extractError := extractArchive(trimmedSourcePath, extractionDirectory); extractError != nil {
		return Result{}, extractError
	}

	manifest, manifestWarnings, manifestError := readManifest(extractionDirectory)
	if manifestError != nil {
		return Result{}, manifestError
	}
	for _, warning := range manifestWarnings {
		repackager.logger.Warn(
			manifestFieldDefaultedMessageConstant,
			zap.String(logFieldManifestFieldConstant, warning.Field),
			zap.Error(warning.Cause),
		)
	}

	result := Result{
		OutputPath:       trimmedOutputPath,
		Manifest:         manifest,
		ManifestWarnings: manifestWarnings,
	}

	if contextError := executionContext.Err(); contextError != nil {
		return Result{}, contextError
	}

	iconMember, iconError := repackager.stageIcon(manifest.Icon, extractionDirectory, stagingDirectory)
	if iconError != nil {
		return Result{}, iconError
	}
	result.Icon = iconMember

	if stageError := repackager.stageSplitEntries(executionContext, manifest.SplitEntries, extractionDirectory, stagingDirectory, &result); stageError != nil {
		return Result{}, stageError
	}

	result.ExportTime = repackager.clock.Now()
	if metadataError := writeMetadata(manifest, result.AggregateSize, result.ExportTime, stagingDirectory); metadataError != nil {
		return Result{}, metadataError
	}
	repackager.logger.Info(metadataWrittenMessageConstant, zap.Int64(logFieldAggregateSizeConstant, result.AggregateSize))

	if contextError := executionContext.Err(); contextError != nil {
		return Result{}, contextError
	}

	if compressError := compressDirectory(stagingDirectory, trimmedOutputPath); compressError != nil {
		return Result{}, compressError
	}

	repackager.logger.Info(repackageCompletedMessageConstant, zap.String(logFieldOutputArchiveConstant, trimmedOutputPath))
	return result, nil
}

func (repackager *Repackager) createScratchDirectory(prefix string) (string, error) {
	directoryPath, creationError := os.MkdirTemp(repackager.scratchRoot, prefix)
	if creationError != nil {
		return "", fmt.Errorf(scratchDirectoryCreationErrorTemplate, creationError)
	}
	return directoryPath, nil
}

func (repackager *Repackager) removeScratchDirectory(directoryPath string) {
	if removalError := os.RemoveAll(directoryPath); removalError != nil {
		repackager.logger.Warn(scratchCleanupFailedMessageConstant, zap.String(logFieldScratchDirectoryConstant, directoryPath), zap.Error(removalError))
	}
}

func readManifest(extractionDirectory string) (Manifest, []ManifestFieldWarning, error) {
	manifestPath := filepath.Join(extractionDirectory, ManifestFileName)
	document, readError := os.ReadFile(manifestPath)
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return Manifest{}, nil, ManifestMissingError{ManifestPath: ManifestFileName}
		}
		return Manifest{}, nil, ManifestParseError{ManifestPath: ManifestFileName, Cause: readError}
	}
	return DecodeManifest(document)
}

func (repackager *Repackager) stageIcon(iconName string, extractionDirectory string, stagingDirectory string) (*CopiedMember, error) {
	if len(iconName) == 0 {
		return nil, nil
	}

	iconPath, resolved := resolveWithin(extractionDirectory, iconName)
	if !resolved || !isRegularFile(iconPath) {
		repackager.logger.Debug(iconIgnoredMessageConstant, zap.String(logFieldSourceMemberConstant, iconName))
		return nil, nil
	}

	outputName := filepath.Base(iconPath)
	copiedSize, copyError := copyFile(iconPath, filepath.Join(stagingDirectory, outputName))
	if copyError != nil {
		return nil, fmt.Errorf(stagingErrorTemplateConstant, iconName, copyError)
	}

	repackager.logger.Info(iconCopiedMessageConstant, zap.String(logFieldSourceMemberConstant, iconName), zap.String(logFieldOutputMemberConstant, outputName))
	return &CopiedMember{SourcePath: iconName, OutputName: outputName, Size: copiedSize}, nil
}

func (repackager *Repackager) stageSplitEntries(executionContext context.Context, entries []SplitAPKEntry, extractionDirectory string, stagingDirectory string, result *Result) error {
	memberIndexByName := make(map[string]int, len(entries))

	for entryIndex, entry := range entries {
		if contextError := executionContext.Err(); contextError != nil {
			return contextError
		}

		sourcePath, outputName, skipReason := resolveSplitEntry(entry, extractionDirectory)
		if len(skipReason) > 0 {
			repackager.logger.Warn(
				splitSkippedMessageConstant,
				zap.Int(logFieldSplitIndexConstant, entryIndex),
				zap.String(logFieldSourceMemberConstant, entry.File),
				zap.String(logFieldSkipReasonConstant, string(skipReason)),
			)
			result.SkippedEntries = append(result.SkippedEntries, SkippedEntry{Index: entryIndex, Entry: entry, Reason: skipReason})
			continue
		}

		copiedSize, copyError := copyFile(sourcePath, filepath.Join(stagingDirectory, outputName))
		if copyError != nil {
			return fmt.Errorf(stagingErrorTemplateConstant, entry.File, copyError)
		}
		result.AggregateSize += copiedSize

		copiedMember := CopiedMember{SourcePath: entry.File, OutputName: outputName, Size: copiedSize}
		if existingIndex, duplicate := memberIndexByName[outputName]; duplicate {
			result.Members[existingIndex] = copiedMember
		} else {
			memberIndexByName[outputName] = len(result.Members)
			result.Members = append(result.Members, copiedMember)
		}

		repackager.logger.Info(
			splitCopiedMessageConstant,
			zap.String(logFieldSourceMemberConstant, entry.File),
			zap.String(logFieldOutputMemberConstant, outputName),
			zap.Int64(logFieldMemberSizeConstant, copiedSize),
		)
	}

	return nil
}

func resolveSplitEntry(entry SplitAPKEntry, extractionDirectory string) (string, string, SkipReason) {
	if len(entry.File) == 0 || len(entry.ID) == 0 {
		return "", "", SkipReasonIncompleteEntry
	}

	sourcePath, resolved := resolveWithin(extractionDirectory, entry.File)
	if !resolved {
		return "", "", SkipReasonUnsafeMemberPath
	}

	sourceInfo, statError := os.Stat(sourcePath)
	if statError != nil {
		return "", "", SkipReasonMemberNotFound
	}
	if !sourceInfo.Mode().IsRegular() {
		return "", "", SkipReasonMemberNotRegular
	}

	outputName := ResolveOutputName(entry)
	if !isPlainMemberName(outputName) {
		return "", "", SkipReasonInvalidOutputName
	}

	return sourcePath, outputName, ""
}

func writeMetadata(manifest Manifest, aggregateSize int64, exportTime time.Time, stagingDirectory string) error {
	metadataV1, metadataV2 := BuildMetadata(manifest, aggregateSize, exportTime)

	documents := []struct {
		fileName string
		document any
	}{
		{fileName: MetadataV1FileName, document: metadataV1},
		{fileName: MetadataV2FileName, document: metadataV2},
	}

	for _, metadataDocument := range documents {
		encodedDocument, encodeError := EncodeMetadata(metadataDocument.document)
		if encodeError != nil {
			return fmt.Errorf(metadataEncodeErrorTemplateConstant, metadataDocument.fileName, encodeError)
		}
		targetPath := filepath.Join(stagingDirectory, metadataDocument.fileName)
		if writeError := os.WriteFile(targetPath, encodedDocument, filePermissionsConstant); writeError != nil {
			return fmt.Errorf(metadataWriteErrorTemplateConstant, metadataDocument.fileName, writeError)
		}
	}

	return nil
}

func isRegularFile(filePath string) bool {
	fileInfo, statError := os.Stat(filePath)
	return statError == nil && fileInfo.Mode().IsRegular()
}

func copyFile(sourcePath string, destinationPath string) (int64, error) {
	sourceFile, openError := os.Open(sourcePath)
	if openError != nil {
		return 0, openError
	}
	defer sourceFile.Close()

	destinationFile, createError := os.OpenFile(destinationPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, filePermissionsConstant)
	if createError != nil {
		return 0, createError
	}

	copiedSize, copyError := io.Copy(destinationFile, sourceFile)
	if copyError != nil {
		destinationFile.Close()
		return 0, copyError
	}

	return copiedSize, destinationFile.Close()
}
