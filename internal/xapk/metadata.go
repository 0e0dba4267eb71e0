package xapk

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf16"
	"unicode/utf8"
)

const (
	// MetadataV1FileName names the legacy installer metadata document.
	MetadataV1FileName = "meta.sai_v1.json"
	// MetadataV2FileName names the current installer metadata document.
	MetadataV2FileName = "meta.sai_v2.json"

	backupComponentTypeConstant = "apk_files"
	metadataVersionConstant     = 2
	asciiEscapeTemplateConstant = `\u%04x`
)

// BackupComponent describes the APK payload inside an APKS archive.
type BackupComponent struct {
	Size int64  `json:"size"`
	Type string `json:"type"`
}

// MetadataV1 is the meta.sai_v1.json document. Field order is significant.
type MetadataV1 struct {
	ExportTimestamp int64  `json:"export_timestamp"`
	Label           string `json:"label"`
	Package         string `json:"package"`
	VersionCode     int64  `json:"version_code"`
	VersionName     string `json:"version_name"`
}

// MetadataV2 is the meta.sai_v2.json document. Field order is significant.
type MetadataV2 struct {
	BackupComponents []BackupComponent `json:"backup_components"`
	ExportTimestamp  int64             `json:"export_timestamp"`
	SplitAPK         bool              `json:"split_apk"`
	Label            string            `json:"label"`
	MetaVersion      int               `json:"meta_version"`
	MinimumSDK       int64             `json:"min_sdk"`
	Package          string            `json:"package"`
	TargetSDK        int64             `json:"target_sdk"`
	VersionCode      int64             `json:"version_code"`
	VersionName      string            `json:"version_name"`
}

// BuildMetadata derives both metadata documents from a manifest. Both share one export timestamp.
func BuildMetadata(manifest Manifest, aggregateSize int64, exportTime time.Time) (MetadataV1, MetadataV2) {
	exportTimestamp := exportTime.UnixMilli()

	metadataV1 := MetadataV1{
		ExportTimestamp: exportTimestamp,
		Label:           manifest.Name,
		Package:         manifest.PackageName,
		VersionCode:     manifest.VersionCode,
		VersionName:     manifest.VersionName,
	}

	metadataV2 := MetadataV2{
		BackupComponents: []BackupComponent{{Size: aggregateSize, Type: backupComponentTypeConstant}},
		ExportTimestamp:  exportTimestamp,
		SplitAPK:         true,
		Label:            manifest.Name,
		MetaVersion:      metadataVersionConstant,
		MinimumSDK:       manifest.MinimumSDK,
		Package:          manifest.PackageName,
		TargetSDK:        manifest.TargetSDK,
		VersionCode:      manifest.VersionCode,
		VersionName:      manifest.VersionName,
	}

	return metadataV1, metadataV2
}

// EncodeMetadata renders a metadata document as compact ASCII-only JSON without a trailing newline.
func EncodeMetadata(document any) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	if encodeError := encoder.Encode(document); encodeError != nil {
		return nil, encodeError
	}

	return escapeNonASCII(bytes.TrimSuffix(buffer.Bytes(), []byte("\n"))), nil
}

// escapeNonASCII rewrites every non-ASCII rune as a \uXXXX escape, using surrogate pairs
// above the basic multilingual plane. Encoded JSON only carries such runes inside string literals.
func escapeNonASCII(encoded []byte) []byte {
	escaped := make([]byte, 0, len(encoded))
	for len(encoded) > 0 {
		currentRune, runeWidth := utf8.DecodeRune(encoded)
		encoded = encoded[runeWidth:]

		if currentRune < utf8.RuneSelf {
			escaped = append(escaped, byte(currentRune))
			continue
		}

		if currentRune > 0xffff {
			highSurrogate, lowSurrogate := utf16.EncodeRune(currentRune)
			escaped = fmt.Appendf(escaped, asciiEscapeTemplateConstant, highSurrogate)
			escaped = fmt.Appendf(escaped, asciiEscapeTemplateConstant, lowSurrogate)
			continue
		}

		escaped = fmt.Appendf(escaped, asciiEscapeTemplateConstant, currentRune)
	}

	return escaped
}
