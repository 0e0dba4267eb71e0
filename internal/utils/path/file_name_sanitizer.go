package pathutils

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	disallowedFileNameCharactersPatternConstant = `[^A-Za-z0-9_.-]`
	fileNameReplacementConstant                 = "_"
	renameFailureTemplateConstant               = "unable to rename %s to %s: %w"
)

var disallowedFileNameCharacters = regexp.MustCompile(disallowedFileNameCharactersPatternConstant)

// FileRenamer moves a file to a new path.
type FileRenamer interface {
	Rename(oldPath string, newPath string) error
}

type osFileRenamer struct{}

func (osFileRenamer) Rename(oldPath string, newPath string) error {
	return os.Rename(oldPath, newPath)
}

// SanitizationResult describes the outcome of sanitizing a file path.
type SanitizationResult struct {
	OriginalPath  string
	SanitizedPath string
	Renamed       bool
}

// FileNameSanitizer rewrites file names so they only contain letters, digits, underscores, hyphens and dots.
type FileNameSanitizer struct {
	homeExpander HomeExpander
	renamer      FileRenamer
}

// NewFileNameSanitizer constructs a sanitizer that renames files on the local file system.
func NewFileNameSanitizer() *FileNameSanitizer {
	return NewFileNameSanitizerWithDependencies(NewHomeExpander(), nil)
}

// NewFileNameSanitizerWithDependencies constructs a sanitizer using the provided expander and renamer.
func NewFileNameSanitizerWithDependencies(homeExpander HomeExpander, renamer FileRenamer) *FileNameSanitizer {
	if renamer == nil {
		renamer = osFileRenamer{}
	}
	return &FileNameSanitizer{homeExpander: homeExpander, renamer: renamer}
}

// SanitizeName replaces every disallowed character of the file name with an underscore.
func SanitizeName(fileName string) string {
	return disallowedFileNameCharacters.ReplaceAllString(fileName, fileNameReplacementConstant)
}

// Sanitize expands the path, sanitizes its base name and renames the file when the name changed.
//
// When the rename fails the expanded original path is returned along with the error so callers can continue with it.
func (sanitizer *FileNameSanitizer) Sanitize(candidatePath string) (SanitizationResult, error) {
	if sanitizer == nil {
		sanitizer = NewFileNameSanitizer()
	}

	expandedPath := sanitizer.homeExpander.Expand(strings.TrimSpace(candidatePath))
	result := SanitizationResult{OriginalPath: expandedPath, SanitizedPath: expandedPath}
	if len(expandedPath) == 0 {
		return result, nil
	}

	directory, fileName := filepath.Split(expandedPath)
	sanitizedName := SanitizeName(fileName)
	if sanitizedName == fileName {
		return result, nil
	}

	sanitizedPath := filepath.Join(directory, sanitizedName)
	if renameError := sanitizer.renamer.Rename(expandedPath, sanitizedPath); renameError != nil {
		return result, fmt.Errorf(renameFailureTemplateConstant, expandedPath, sanitizedPath, renameError)
	}

	result.SanitizedPath = sanitizedPath
	result.Renamed = true
	return result, nil
}
