package manager

import (
	"errors"
	"fmt"
	"strings"
)

const (
	packageSpecifierSeparatorConstant     = "@"
	scopedPackagePrefixConstant           = "@"
	packageNameMissingMessageConstant     = "package name must be provided"
	installModeInvalidTemplateConstant    = "install mode %q is not supported"
	installModeProdStringConstant         = "prod"
	installModeDevStringConstant          = "dev"
	installModeOptionalStringConstant     = "optional"
	packageSpecifierTemplateConstant      = "%s@%s"
	packageSpecifierSplitLimitConstant    = 2
	scopedSpecifierMinimumLengthConstant  = 1
	emptyVersionConstraintStringConstant  = ""
	specifierVersionSearchStartIndexValue = 1
)

// ErrPackageNameMissing indicates a package specifier without a name.
var ErrPackageNameMissing = errors.New(packageNameMissingMessageConstant)

// InstallMode selects the dependency section packages are saved into.
type InstallMode string

// Install mode enumerations.
const (
	// InstallModeProd records packages as regular dependencies.
	InstallModeProd InstallMode = InstallMode(installModeProdStringConstant)
	// InstallModeDev records packages as development dependencies.
	InstallModeDev InstallMode = InstallMode(installModeDevStringConstant)
	// InstallModeOptional records packages as optional dependencies.
	InstallModeOptional InstallMode = InstallMode(installModeOptionalStringConstant)
)

// ParseInstallMode normalizes textual install mode values.
func ParseInstallMode(modeValue string) (InstallMode, error) {
	trimmedValue := strings.ToLower(strings.TrimSpace(modeValue))
	switch InstallMode(trimmedValue) {
	case InstallModeProd, InstallModeDev, InstallModeOptional:
		return InstallMode(trimmedValue), nil
	default:
		return "", fmt.Errorf(installModeInvalidTemplateConstant, modeValue)
	}
}

// PackageReference identifies a registry package with an optional version constraint.
type PackageReference struct {
	Name    string
	Version string
}

// ParsePackageReference splits a "name@constraint" specifier, preserving the
// leading @ of scoped package names.
func ParsePackageReference(specifier string) (PackageReference, error) {
	trimmedSpecifier := strings.TrimSpace(specifier)
	if len(trimmedSpecifier) == 0 {
		return PackageReference{}, ErrPackageNameMissing
	}

	searchStart := 0
	if strings.HasPrefix(trimmedSpecifier, scopedPackagePrefixConstant) {
		searchStart = specifierVersionSearchStartIndexValue
	}

	separatorIndex := strings.Index(trimmedSpecifier[searchStart:], packageSpecifierSeparatorConstant)
	if separatorIndex < 0 {
		return PackageReference{Name: trimmedSpecifier}, nil
	}
	separatorIndex += searchStart

	packageName := trimmedSpecifier[:separatorIndex]
	versionConstraint := trimmedSpecifier[separatorIndex+1:]
	if len(packageName) < scopedSpecifierMinimumLengthConstant {
		return PackageReference{}, ErrPackageNameMissing
	}

	return PackageReference{Name: packageName, Version: versionConstraint}, nil
}

// ParsePackageReferences parses every supplied specifier, failing on the first invalid entry.
func ParsePackageReferences(specifiers []string) ([]PackageReference, error) {
	references := make([]PackageReference, 0, len(specifiers))
	for _, specifier := range specifiers {
		reference, parseError := ParsePackageReference(specifier)
		if parseError != nil {
			return nil, parseError
		}
		references = append(references, reference)
	}
	return references, nil
}

// Specifier renders the reference back into package manager argument form.
func (reference PackageReference) Specifier() string {
	if reference.Version == emptyVersionConstraintStringConstant {
		return reference.Name
	}
	return fmt.Sprintf(packageSpecifierTemplateConstant, reference.Name, reference.Version)
}
