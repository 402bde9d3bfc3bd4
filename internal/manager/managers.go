package manager

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/jsr_scripts/internal/execshell"
)

const (
	managerNpmStringConstant            = "npm"
	managerYarnStringConstant           = "yarn"
	managerPnpmStringConstant           = "pnpm"
	managerBunStringConstant            = "bun"
	managerNameInvalidTemplateConstant  = "package manager %q is not supported"
	executorMissingMessageConstant      = "command executor not configured"
	packagesMissingMessageConstant      = "at least one package must be provided"
	npmInstallSubcommandConstant        = "install"
	npmUninstallSubcommandConstant      = "uninstall"
	addSubcommandConstant               = "add"
	removeSubcommandConstant            = "remove"
	npmSaveDevFlagConstant              = "--save-dev"
	npmSaveOptionalFlagConstant         = "--save-optional"
	yarnDevFlagConstant                 = "--dev"
	yarnOptionalFlagConstant            = "--optional"
	bunDevFlagConstant                  = "--dev"
	bunOptionalFlagConstant             = "--optional"
)

// ErrExecutorNotConfigured indicates manager construction without a command executor.
var ErrExecutorNotConfigured = errors.New(executorMissingMessageConstant)

// ErrNoPackagesProvided indicates an install or remove call without packages.
var ErrNoPackagesProvided = errors.New(packagesMissingMessageConstant)

// Name identifies a supported package manager.
type Name string

// Supported package manager enumerations.
const (
	// NameNpm selects the npm package manager.
	NameNpm Name = Name(managerNpmStringConstant)
	// NameYarn selects the yarn package manager.
	NameYarn Name = Name(managerYarnStringConstant)
	// NamePnpm selects the pnpm package manager.
	NamePnpm Name = Name(managerPnpmStringConstant)
	// NameBun selects the bun package manager.
	NameBun Name = Name(managerBunStringConstant)
)

// KnownNames lists every supported package manager identifier.
func KnownNames() []string {
	return []string{managerNpmStringConstant, managerYarnStringConstant, managerPnpmStringConstant, managerBunStringConstant}
}

// ParseName normalizes a textual package manager identifier.
func ParseName(nameValue string) (Name, error) {
	trimmedValue := strings.ToLower(strings.TrimSpace(nameValue))
	switch Name(trimmedValue) {
	case NameNpm, NameYarn, NamePnpm, NameBun:
		return Name(trimmedValue), nil
	default:
		return "", fmt.Errorf(managerNameInvalidTemplateConstant, nameValue)
	}
}

// CommandExecutor abstracts the execshell wrappers used to reach each manager binary.
type CommandExecutor interface {
	ExecuteNpm(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteYarn(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecutePnpm(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteBun(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// PackageManager describes the capabilities jsr_scripts requires from a
// delegated package manager variant.
type PackageManager interface {
	// Name reports the manager identifier.
	Name() Name
	// WorkingDirectory reports the directory delegated commands run in.
	WorkingDirectory() string
	// RequiresAlternateConfig reports whether the manager ignores .npmrc and
	// needs its own registry configuration file.
	RequiresAlternateConfig() bool
	// Install forwards the package list and install mode to the manager.
	Install(executionContext context.Context, packages []PackageReference, mode InstallMode) error
	// Remove forwards a removal request for the package list.
	Remove(executionContext context.Context, packages []PackageReference) error
}

type executeFunc func(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)

// delegatedManager implements PackageManager for one concrete variant. The
// variant-specific vocabulary lives in the fields; behavior is shared.
type delegatedManager struct {
	name                    Name
	workingDirectory        string
	requiresAlternateConfig bool
	installSubcommand       string
	removeSubcommand        string
	devFlag                 string
	optionalFlag            string
	execute                 executeFunc
}

// NewPackageManager constructs the variant matching the supplied name, bound
// to an explicit working directory.
func NewPackageManager(name Name, executor CommandExecutor, workingDirectory string) (PackageManager, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}

	switch name {
	case NameNpm:
		return &delegatedManager{
			name:              NameNpm,
			workingDirectory:  workingDirectory,
			installSubcommand: npmInstallSubcommandConstant,
			removeSubcommand:  npmUninstallSubcommandConstant,
			devFlag:           npmSaveDevFlagConstant,
			optionalFlag:      npmSaveOptionalFlagConstant,
			execute:           executor.ExecuteNpm,
		}, nil
	case NameYarn:
		return &delegatedManager{
			name:              NameYarn,
			workingDirectory:  workingDirectory,
			installSubcommand: addSubcommandConstant,
			removeSubcommand:  removeSubcommandConstant,
			devFlag:           yarnDevFlagConstant,
			optionalFlag:      yarnOptionalFlagConstant,
			execute:           executor.ExecuteYarn,
		}, nil
	case NamePnpm:
		return &delegatedManager{
			name:              NamePnpm,
			workingDirectory:  workingDirectory,
			installSubcommand: addSubcommandConstant,
			removeSubcommand:  removeSubcommandConstant,
			devFlag:           npmSaveDevFlagConstant,
			optionalFlag:      npmSaveOptionalFlagConstant,
			execute:           executor.ExecutePnpm,
		}, nil
	case NameBun:
		return &delegatedManager{
			name:                    NameBun,
			workingDirectory:        workingDirectory,
			requiresAlternateConfig: true,
			installSubcommand:       addSubcommandConstant,
			removeSubcommand:        removeSubcommandConstant,
			devFlag:                 bunDevFlagConstant,
			optionalFlag:            bunOptionalFlagConstant,
			execute:                 executor.ExecuteBun,
		}, nil
	default:
		return nil, fmt.Errorf(managerNameInvalidTemplateConstant, name)
	}
}

// Name reports the manager identifier.
func (variant *delegatedManager) Name() Name {
	return variant.name
}

// WorkingDirectory reports the directory delegated commands run in.
func (variant *delegatedManager) WorkingDirectory() string {
	return variant.workingDirectory
}

// RequiresAlternateConfig reports whether the manager ignores .npmrc.
func (variant *delegatedManager) RequiresAlternateConfig() bool {
	return variant.requiresAlternateConfig
}

// Install forwards the package list and install mode to the manager binary.
func (variant *delegatedManager) Install(executionContext context.Context, packages []PackageReference, mode InstallMode) error {
	if len(packages) == 0 {
		return ErrNoPackagesProvided
	}

	arguments := []string{variant.installSubcommand}
	switch mode {
	case InstallModeDev:
		arguments = append(arguments, variant.devFlag)
	case InstallModeOptional:
		arguments = append(arguments, variant.optionalFlag)
	}
	arguments = append(arguments, packageSpecifiers(packages)...)

	_, executionError := variant.execute(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: variant.workingDirectory,
	})
	return executionError
}

// Remove forwards a removal request for the package list.
func (variant *delegatedManager) Remove(executionContext context.Context, packages []PackageReference) error {
	if len(packages) == 0 {
		return ErrNoPackagesProvided
	}

	arguments := append([]string{variant.removeSubcommand}, packageSpecifiers(packages)...)

	_, executionError := variant.execute(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: variant.workingDirectory,
	})
	return executionError
}

func packageSpecifiers(packages []PackageReference) []string {
	specifiers := make([]string, 0, len(packages))
	for _, packageReference := range packages {
		specifiers = append(specifiers, packageReference.Specifier())
	}
	return specifiers
}
