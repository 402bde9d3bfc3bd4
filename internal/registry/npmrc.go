package registry

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
)

const (
	npmrcFileNameConstant       = ".npmrc"
	jsrNpmRegistryURLConstant   = "https://npm.jsr.io/"
	npmrcRegistryLineConstant   = "@jsr:registry=" + jsrNpmRegistryURLConstant
	configFileNewlineConstant   = "\n"
	configFilePermissionsOctal  = fs.FileMode(0o644)
	directoryRequiredMessageTxt = "directory must be provided"
)

// ErrDirectoryRequired indicates an ensure operation received an empty directory.
var ErrDirectoryRequired = errors.New(directoryRequiredMessageTxt)

// ConfigWriter appends JSR registry declarations to package manager config files.
type ConfigWriter struct {
	fileSystem FileSystem
}

// NewConfigWriter constructs a ConfigWriter backed by the provided file system,
// defaulting to the operating system implementation.
func NewConfigWriter(fileSystem FileSystem) *ConfigWriter {
	if fileSystem == nil {
		fileSystem = OSFileSystem{}
	}
	return &ConfigWriter{fileSystem: fileSystem}
}

// NpmrcRegistryLine returns the literal registry declaration written to .npmrc.
func NpmrcRegistryLine() string {
	return npmrcRegistryLineConstant
}

// EnsureNpmrc guarantees <directory>/.npmrc declares the @jsr scope registry.
// A missing file is created containing exactly the registry line; a file that
// already contains the line is left untouched; any other read failure
// propagates unmodified. The operation rewrites the whole file on append and
// makes no atomicity guarantee.
func (writer *ConfigWriter) EnsureNpmrc(directory string) error {
	trimmedDirectory := strings.TrimSpace(directory)
	if len(trimmedDirectory) == 0 {
		return ErrDirectoryRequired
	}

	npmrcPath := filepath.Join(trimmedDirectory, npmrcFileNameConstant)

	existingContent, readError := writer.fileSystem.ReadFile(npmrcPath)
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return writer.fileSystem.WriteFile(npmrcPath, []byte(npmrcRegistryLineConstant+configFileNewlineConstant), configFilePermissionsOctal)
		}
		return readError
	}

	contentText := string(existingContent)
	if strings.Contains(contentText, npmrcRegistryLineConstant) {
		return nil
	}

	updatedContent := contentText
	if len(updatedContent) > 0 && !strings.HasSuffix(updatedContent, configFileNewlineConstant) {
		updatedContent += configFileNewlineConstant
	}
	updatedContent += npmrcRegistryLineConstant + configFileNewlineConstant

	return writer.fileSystem.WriteFile(npmrcPath, []byte(updatedContent), configFilePermissionsOctal)
}
