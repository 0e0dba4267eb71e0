package xapk

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

const (
	// ManifestFileName is the manifest member at the root of every XAPK bundle.
	ManifestFileName = "manifest.json"

	manifestIconFieldConstant           = "icon"
	manifestSplitEntriesFieldConstant   = "split_apks"
	manifestNameFieldConstant           = "name"
	manifestPackageNameFieldConstant    = "package_name"
	manifestVersionCodeFieldConstant    = "version_code"
	manifestVersionNameFieldConstant    = "version_name"
	manifestMinimumSDKFieldConstant     = "min_sdk_version"
	manifestTargetSDKFieldConstant      = "target_sdk_version"
	splitEntryFileFieldConstant         = "file"
	splitEntryIdentifierFieldConstant   = "id"
	integerParsingBaseConstant          = 10
	integerParsingBitSizeConstant       = 64
	splitEntryFieldPathTemplateConstant = "split_apks[%d].%s"
	integerOutOfRangeTemplateConstant   = "number %s is outside the 64-bit integer range"
)

// SplitAPKEntry is one element of the manifest's split_apks list.
type SplitAPKEntry struct {
	File string
	ID   string
}

// Manifest holds the manifest fields that drive repackaging.
type Manifest struct {
	Icon         string
	SplitEntries []SplitAPKEntry
	Name         string
	PackageName  string
	VersionCode  int64
	VersionName  string
	MinimumSDK   int64
	TargetSDK    int64
}

// DecodeManifest interprets a manifest document. Only a document that is not a JSON object is fatal;
// fields that cannot be decoded take their defaults and are reported as warnings.
func DecodeManifest(document []byte) (Manifest, []ManifestFieldWarning, error) {
	decoder := json.NewDecoder(bytes.NewReader(document))
	decoder.UseNumber()

	var rawDocument any
	if decodeError := decoder.Decode(&rawDocument); decodeError != nil {
		return Manifest{}, nil, ManifestParseError{ManifestPath: ManifestFileName, Cause: decodeError}
	}
	if _, trailingError := decoder.Token(); !errors.Is(trailingError, io.EOF) {
		return Manifest{}, nil, ManifestParseError{ManifestPath: ManifestFileName, Cause: errors.New(manifestTrailingDataMessageConstant)}
	}

	fields, isObject := rawDocument.(map[string]any)
	if !isObject {
		return Manifest{}, nil, ManifestParseError{ManifestPath: ManifestFileName, Cause: errors.New(manifestDocumentNotObjectMessage)}
	}

	collector := &manifestFieldCollector{fields: fields}
	manifest := Manifest{
		Icon:         collector.stringField(manifestIconFieldConstant),
		Name:         collector.stringField(manifestNameFieldConstant),
		PackageName:  collector.stringField(manifestPackageNameFieldConstant),
		VersionCode:  collector.integerField(manifestVersionCodeFieldConstant),
		VersionName:  collector.stringField(manifestVersionNameFieldConstant),
		MinimumSDK:   collector.integerField(manifestMinimumSDKFieldConstant),
		TargetSDK:    collector.integerField(manifestTargetSDKFieldConstant),
		SplitEntries: collector.splitEntries(),
	}

	return manifest, collector.warnings, nil
}

type manifestFieldCollector struct {
	fields   map[string]any
	warnings []ManifestFieldWarning
}

func (collector *manifestFieldCollector) stringField(fieldName string) string {
	var value string
	collector.decodeField(fieldName, collector.fields[fieldName], &value)
	return value
}

func (collector *manifestFieldCollector) integerField(fieldName string) int64 {
	var value int64
	collector.decodeField(fieldName, collector.fields[fieldName], &value)
	return value
}

func (collector *manifestFieldCollector) splitEntries() []SplitAPKEntry {
	rawEntries, present := collector.fields[manifestSplitEntriesFieldConstant]
	if !present || rawEntries == nil {
		return nil
	}

	entryList, isList := rawEntries.([]any)
	if !isList {
		collector.record(manifestSplitEntriesFieldConstant, errors.New(splitEntriesNotListMessageConstant))
		return nil
	}

	entries := make([]SplitAPKEntry, 0, len(entryList))
	for entryIndex, rawEntry := range entryList {
		entryFields, isObject := rawEntry.(map[string]any)
		if !isObject {
			collector.record(manifestSplitEntriesFieldConstant, fmt.Errorf(splitEntryNotObjectTemplateConstant, entryIndex))
			entries = append(entries, SplitAPKEntry{})
			continue
		}

		var entry SplitAPKEntry
		collector.decodeField(fmt.Sprintf(splitEntryFieldPathTemplateConstant, entryIndex, splitEntryFileFieldConstant), entryFields[splitEntryFileFieldConstant], &entry.File)
		collector.decodeField(fmt.Sprintf(splitEntryFieldPathTemplateConstant, entryIndex, splitEntryIdentifierFieldConstant), entryFields[splitEntryIdentifierFieldConstant], &entry.ID)
		entries = append(entries, entry)
	}

	return entries
}

func (collector *manifestFieldCollector) decodeField(fieldName string, rawValue any, target any) {
	if rawValue == nil {
		return
	}

	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       integerLikeDecodeHook,
		WeaklyTypedInput: true,
		Result:           target,
	})
	if decoderError != nil {
		collector.record(fieldName, decoderError)
		return
	}

	if decodeError := decoder.Decode(rawValue); decodeError != nil {
		reflect.ValueOf(target).Elem().SetZero()
		collector.record(fieldName, decodeError)
	}
}

func (collector *manifestFieldCollector) record(fieldName string, cause error) {
	collector.warnings = append(collector.warnings, ManifestFieldWarning{Field: fieldName, Cause: cause})
}

// integerLikeDecodeHook parses numeric strings in base ten and truncates fractional JSON numbers toward zero.
func integerLikeDecodeHook(sourceType reflect.Type, targetType reflect.Type, data any) (any, error) {
	if targetType.Kind() != reflect.Int64 {
		return data, nil
	}

	switch typedValue := data.(type) {
	case json.Number:
		if integerValue, integerError := typedValue.Int64(); integerError == nil {
			return integerValue, nil
		}
		floatValue, floatError := typedValue.Float64()
		if floatError != nil {
			return nil, floatError
		}
		// float64(math.MaxInt64) rounds up to 2^63, so the upper bound is exclusive.
		if math.IsNaN(floatValue) || floatValue < math.MinInt64 || floatValue >= math.MaxInt64 {
			return nil, fmt.Errorf(integerOutOfRangeTemplateConstant, typedValue.String())
		}
		return int64(floatValue), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(typedValue), integerParsingBaseConstant, integerParsingBitSizeConstant)
	default:
		return data, nil
	}
}
