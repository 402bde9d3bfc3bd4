package registry

import (
	"errors"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	bunfigFileNameConstant       = "bunfig.toml"
	bunfigScopeSectionConstant   = "[install.scopes]"
	bunfigScopeAssignmentLiteral = `"@jsr" = "` + jsrNpmRegistryURLConstant + `"`
	bunfigScopeBlockConstant     = bunfigScopeSectionConstant + configFileNewlineConstant + bunfigScopeAssignmentLiteral + configFileNewlineConstant
)

// bunfigScopePattern detects an existing @jsr scope declaration. Unlike the
// .npmrc substring check this is a line-anchored match against the fixed scope
// literal only; a registry declared under any other scope name, or the same
// URL in another shape, does not suppress the append.
var bunfigScopePattern = regexp.MustCompile(`(?m)^"@jsr"\s*=`)

// BunfigScopeBlock returns the literal TOML block appended to bunfig.toml.
func BunfigScopeBlock() string {
	return bunfigScopeBlockConstant
}

// EnsureBunfig guarantees <directory>/bunfig.toml declares the @jsr scope
// registry for bun, which does not read .npmrc. The idempotency contract
// matches EnsureNpmrc: create on not-found, skip when the scope declaration is
// already present, append otherwise, propagate any other read failure
// unmodified.
func (writer *ConfigWriter) EnsureBunfig(directory string) error {
	trimmedDirectory := strings.TrimSpace(directory)
	if len(trimmedDirectory) == 0 {
		return ErrDirectoryRequired
	}

	bunfigPath := filepath.Join(trimmedDirectory, bunfigFileNameConstant)

	existingContent, readError := writer.fileSystem.ReadFile(bunfigPath)
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return writer.fileSystem.WriteFile(bunfigPath, []byte(bunfigScopeBlockConstant), configFilePermissionsOctal)
		}
		return readError
	}

	contentText := string(existingContent)
	if bunfigScopePattern.MatchString(contentText) {
		return nil
	}

	updatedContent := contentText
	if len(updatedContent) > 0 && !strings.HasSuffix(updatedContent, configFileNewlineConstant) {
		updatedContent += configFileNewlineConstant
	}
	updatedContent += bunfigScopeBlockConstant

	return writer.fileSystem.WriteFile(bunfigPath, []byte(updatedContent), configFilePermissionsOctal)
}
