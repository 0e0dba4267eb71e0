package xapk

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

const (
	directoryPermissionsConstant     = 0o755
	filePermissionsConstant          = 0o644
	temporaryArchivePatternTemplate  = ".%s.*.tmp"
	parentDirectoryReferenceConstant = ".."
)

// extractArchive unpacks every member of archivePath below destinationDirectory.
func extractArchive(archivePath string, destinationDirectory string) error {
	archiveReader, openError := zip.OpenReader(archivePath)
	if openError != nil {
		return ArchiveReadError{ArchivePath: archivePath, Cause: openError}
	}
	defer archiveReader.Close()

	for _, member := range archiveReader.File {
		targetPath, resolved := resolveWithin(destinationDirectory, member.Name)
		if !resolved {
			return ArchiveReadError{ArchivePath: archivePath, Cause: fmt.Errorf(unsafeArchiveMemberTemplateConstant, member.Name)}
		}

		if member.FileInfo().IsDir() || strings.HasSuffix(member.Name, "/") {
			if directoryError := os.MkdirAll(targetPath, directoryPermissionsConstant); directoryError != nil {
				return ArchiveReadError{ArchivePath: archivePath, Cause: directoryError}
			}
			continue
		}

		if extractError := extractMember(member, targetPath); extractError != nil {
			return ArchiveReadError{ArchivePath: archivePath, Cause: extractError}
		}
	}

	return nil
}

func extractMember(member *zip.File, targetPath string) error {
	if directoryError := os.MkdirAll(filepath.Dir(targetPath), directoryPermissionsConstant); directoryError != nil {
		return directoryError
	}

	memberReader, openError := member.Open()
	if openError != nil {
		return openError
	}
	defer memberReader.Close()

	targetFile, createError := os.OpenFile(targetPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, filePermissionsConstant)
	if createError != nil {
		return createError
	}

	if _, copyError := io.Copy(targetFile, memberReader); copyError != nil {
		targetFile.Close()
		return copyError
	}

	return targetFile.Close()
}

// resolveWithin joins an archive-relative name onto rootDirectory and reports whether the result stays inside it.
func resolveWithin(rootDirectory string, relativeName string) (string, bool) {
	normalizedName := filepath.FromSlash(strings.ReplaceAll(relativeName, `\`, "/"))
	joinedPath := filepath.Join(rootDirectory, normalizedName)

	relativePath, relativeError := filepath.Rel(rootDirectory, joinedPath)
	if relativeError != nil {
		return "", false
	}
	if relativePath == parentDirectoryReferenceConstant || strings.HasPrefix(relativePath, parentDirectoryReferenceConstant+string(filepath.Separator)) {
		return "", false
	}

	return joinedPath, true
}

// compressDirectory writes every regular file below sourceDirectory into a Deflate archive at archivePath.
// The archive is assembled in a temporary file beside archivePath and renamed into place on success.
func compressDirectory(sourceDirectory string, archivePath string) (resultError error) {
	temporaryFile, createError := os.CreateTemp(filepath.Dir(archivePath), fmt.Sprintf(temporaryArchivePatternTemplate, filepath.Base(archivePath)))
	if createError != nil {
		return fmt.Errorf(outputArchiveCreationErrorTemplate, archivePath, createError)
	}
	temporaryPath := temporaryFile.Name()

	defer func() {
		if resultError != nil {
			_ = os.Remove(temporaryPath)
		}
	}()

	archiveWriter := zip.NewWriter(temporaryFile)
	walkError := filepath.WalkDir(sourceDirectory, func(currentPath string, entry fs.DirEntry, entryError error) error {
		if entryError != nil {
			return entryError
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		return addArchiveMember(archiveWriter, sourceDirectory, currentPath, entry)
	})

	closeWriterError := archiveWriter.Close()
	closeFileError := temporaryFile.Close()
	if combinedError := errors.Join(walkError, closeWriterError, closeFileError); combinedError != nil {
		return fmt.Errorf(outputArchiveCreationErrorTemplate, archivePath, combinedError)
	}

	if chmodError := os.Chmod(temporaryPath, filePermissionsConstant); chmodError != nil {
		return fmt.Errorf(outputArchiveCreationErrorTemplate, archivePath, chmodError)
	}

	if renameError := os.Rename(temporaryPath, archivePath); renameError != nil {
		return fmt.Errorf(outputArchiveCreationErrorTemplate, archivePath, renameError)
	}

	return nil
}

func addArchiveMember(archiveWriter *zip.Writer, sourceDirectory string, memberPath string, entry fs.DirEntry) error {
	fileInfo, infoError := entry.Info()
	if infoError != nil {
		return infoError
	}

	relativePath, relativeError := filepath.Rel(sourceDirectory, memberPath)
	if relativeError != nil {
		return relativeError
	}

	header, headerError := zip.FileInfoHeader(fileInfo)
	if headerError != nil {
		return headerError
	}
	header.Name = filepath.ToSlash(relativePath)
	header.Method = zip.Deflate

	memberWriter, createError := archiveWriter.CreateHeader(header)
	if createError != nil {
		return createError
	}

	sourceFile, openError := os.Open(memberPath)
	if openError != nil {
		return openError
	}
	defer sourceFile.Close()

	_, copyError := io.Copy(memberWriter, sourceFile)
	return copyError
}
