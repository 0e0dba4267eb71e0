package xapk

import (
	"errors"
	"fmt"
)

const (
	archiveReadErrorTemplateConstant      = "unable to read archive %s: %v"
	manifestMissingErrorTemplateConstant  = "%s not found in the XAPK"
	manifestParseErrorTemplateConstant    = "unable to parse %s: %v"
	sourceArchiveRequiredMessageConstant  = "source archive path must be provided"
	outputArchiveRequiredMessageConstant  = "output archive path must be provided"
	loggerNotConfiguredMessageConstant    = "repackager logger not configured"
	unsafeArchiveMemberTemplateConstant   = "member %q escapes the extraction directory"
	manifestDocumentNotObjectMessage      = "manifest document must be a JSON object"
	manifestTrailingDataMessageConstant   = "unexpected data after manifest document"
	manifestFieldWarningTemplateConstant  = "field %s: %v"
	splitEntryNotObjectTemplateConstant   = "split_apks[%d] is not an object"
	splitEntriesNotListMessageConstant    = "split_apks is not a list"
	outputArchiveCreationErrorTemplate    = "unable to create output archive %s: %w"
	scratchDirectoryCreationErrorTemplate = "unable to create scratch directory: %w"
	stagingErrorTemplateConstant          = "unable to stage %s: %w"
	metadataWriteErrorTemplateConstant    = "unable to write %s: %w"
	metadataEncodeErrorTemplateConstant   = "unable to encode %s: %w"
)

// ErrSourceArchiveRequired indicates the source archive path was empty.
var ErrSourceArchiveRequired = errors.New(sourceArchiveRequiredMessageConstant)

// ErrOutputArchiveRequired indicates the output archive path was empty.
var ErrOutputArchiveRequired = errors.New(outputArchiveRequiredMessageConstant)

// ErrLoggerNotConfigured indicates the repackager was constructed without a logger.
var ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)

// ArchiveReadError reports a source archive that could not be opened or extracted.
type ArchiveReadError struct {
	ArchivePath string
	Cause       error
}

// Error describes the archive failure.
func (failure ArchiveReadError) Error() string {
	return fmt.Sprintf(archiveReadErrorTemplateConstant, failure.ArchivePath, failure.Cause)
}

// Unwrap exposes the underlying cause.
func (failure ArchiveReadError) Unwrap() error {
	return failure.Cause
}

// ManifestMissingError reports a bundle without manifest.json.
type ManifestMissingError struct {
	ManifestPath string
}

// Error describes the missing manifest.
func (failure ManifestMissingError) Error() string {
	return fmt.Sprintf(manifestMissingErrorTemplateConstant, failure.ManifestPath)
}

// ManifestParseError reports a manifest that is not a JSON object.
type ManifestParseError struct {
	ManifestPath string
	Cause        error
}

// Error describes the parse failure.
func (failure ManifestParseError) Error() string {
	return fmt.Sprintf(manifestParseErrorTemplateConstant, failure.ManifestPath, failure.Cause)
}

// Unwrap exposes the underlying cause.
func (failure ManifestParseError) Unwrap() error {
	return failure.Cause
}

// ManifestFieldWarning records an optional manifest field that could not be decoded and fell back to its default.
type ManifestFieldWarning struct {
	Field string
	Cause error
}

// String describes the warning.
func (warning ManifestFieldWarning) String() string {
	return fmt.Sprintf(manifestFieldWarningTemplateConstant, warning.Field, warning.Cause)
}
