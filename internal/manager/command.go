package manager

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/jsr_scripts/internal/execshell"
	"github.com/temirov/jsr_scripts/internal/registry"
	"github.com/temirov/jsr_scripts/internal/ui"
	"github.com/temirov/jsr_scripts/internal/utils"
	"github.com/temirov/jsr_scripts/internal/utils/flags"
)

const (
	installCommandUseConstant              = "install [packages...]"
	installCommandNameConstant             = "install"
	installCommandShortDescriptionConstant = "Install JSR packages through the active package manager"
	installCommandLongDescriptionConstant  = "install configures the JSR registry for the detected package manager and forwards the package list to its install operation."
	removeCommandUseConstant               = "remove [packages...]"
	removeCommandNameConstant              = "remove"
	removeCommandShortDescriptionConstant  = "Remove JSR packages through the active package manager"
	removeCommandLongDescriptionConstant   = "remove forwards a package removal request to the detected package manager without touching registry configuration."
	saveDevFlagNameConstant                = "save-dev"
	saveDevFlagShorthandConstant           = "D"
	saveDevFlagDescriptionConstant         = "Record packages as development dependencies"
	saveOptionalFlagNameConstant           = "save-optional"
	saveOptionalFlagShorthandConstant      = "O"
	saveOptionalFlagDescriptionConstant    = "Record packages as optional dependencies"
	pkgManagerFlagNameConstant             = "pkg-manager"
	pkgManagerFlagDescriptionConstant      = "Package manager to delegate to instead of auto-detection"
	directoryFlagNameConstant              = "dir"
	directoryFlagDescriptionConstant       = "Project directory to operate in"
	conflictingModeFlagsMessageConstant    = "use at most one of --save-dev or --save-optional"
	missingDirectoryMessageConstant        = "project directory could not be determined; supply --dir"
	installSuccessMessageTemplateConstant  = "INSTALLED: %s (%s)\n"
	removeSuccessMessageTemplateConstant   = "REMOVED: %s (%s)\n"
	packageListSeparatorConstant           = ", "
)

var installCommandAliases = []string{"add", "i"}
var removeCommandAliases = []string{"uninstall", "r"}

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the install and remove commands.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	Executor                     CommandExecutor
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	WorkingDirectory             string
}

// BuildInstallCommand constructs the install command.
func (builder *CommandBuilder) BuildInstallCommand() *cobra.Command {
	command := &cobra.Command{
		Use:     installCommandUseConstant,
		Aliases: installCommandAliases,
		Short:   installCommandShortDescriptionConstant,
		Long:    installCommandLongDescriptionConstant,
		Args:    cobra.MinimumNArgs(1),
		RunE:    builder.runInstall,
	}

	command.Flags().BoolP(saveDevFlagNameConstant, saveDevFlagShorthandConstant, false, saveDevFlagDescriptionConstant)
	command.Flags().BoolP(saveOptionalFlagNameConstant, saveOptionalFlagShorthandConstant, false, saveOptionalFlagDescriptionConstant)
	builder.bindSharedFlags(command)

	return command
}

// BuildRemoveCommand constructs the remove command.
func (builder *CommandBuilder) BuildRemoveCommand() *cobra.Command {
	command := &cobra.Command{
		Use:     removeCommandUseConstant,
		Aliases: removeCommandAliases,
		Short:   removeCommandShortDescriptionConstant,
		Long:    removeCommandLongDescriptionConstant,
		Args:    cobra.MinimumNArgs(1),
		RunE:    builder.runRemove,
	}

	builder.bindSharedFlags(command)

	return command
}

func (builder *CommandBuilder) bindSharedFlags(command *cobra.Command) {
	command.Flags().String(pkgManagerFlagNameConstant, "", flags.FormatChoiceUsage("", KnownNames(), pkgManagerFlagDescriptionConstant))
	command.Flags().String(directoryFlagNameConstant, "", directoryFlagDescriptionConstant)
}

func (builder *CommandBuilder) runInstall(command *cobra.Command, arguments []string) error {
	packages, parseError := ParsePackageReferences(arguments)
	if parseError != nil {
		return parseError
	}

	saveDevRequested, saveDevFlagError := command.Flags().GetBool(saveDevFlagNameConstant)
	if saveDevFlagError != nil {
		return saveDevFlagError
	}
	saveOptionalRequested, saveOptionalFlagError := command.Flags().GetBool(saveOptionalFlagNameConstant)
	if saveOptionalFlagError != nil {
		return saveOptionalFlagError
	}
	if saveDevRequested && saveOptionalRequested {
		return errors.New(conflictingModeFlagsMessageConstant)
	}

	installMode := InstallModeProd
	switch {
	case saveDevRequested:
		installMode = InstallModeDev
	case saveOptionalRequested:
		installMode = InstallModeOptional
	}

	requestDetails, requestError := builder.resolveRequestDetails(command)
	if requestError != nil {
		return requestError
	}

	service, serviceError := builder.buildService(command)
	if serviceError != nil {
		return serviceError
	}

	installError := service.Install(command.Context(), InstallOptions{
		Directory:   requestDetails.directory,
		Packages:    packages,
		Mode:        installMode,
		ManagerName: requestDetails.managerName,
	})
	if installError != nil {
		return installError
	}

	fmt.Fprintf(command.OutOrStdout(), installSuccessMessageTemplateConstant, joinPackageSpecifiers(packages), requestDetails.directory)
	return nil
}

func (builder *CommandBuilder) runRemove(command *cobra.Command, arguments []string) error {
	packages, parseError := ParsePackageReferences(arguments)
	if parseError != nil {
		return parseError
	}

	requestDetails, requestError := builder.resolveRequestDetails(command)
	if requestError != nil {
		return requestError
	}

	service, serviceError := builder.buildService(command)
	if serviceError != nil {
		return serviceError
	}

	removeError := service.Remove(command.Context(), RemoveOptions{
		Directory:   requestDetails.directory,
		Packages:    packages,
		ManagerName: requestDetails.managerName,
	})
	if removeError != nil {
		return removeError
	}

	fmt.Fprintf(command.OutOrStdout(), removeSuccessMessageTemplateConstant, joinPackageSpecifiers(packages), requestDetails.directory)
	return nil
}

type requestDetails struct {
	directory   string
	managerName string
}

func (builder *CommandBuilder) resolveRequestDetails(command *cobra.Command) (requestDetails, error) {
	configuration := builder.resolveConfiguration()

	directoryFlagValue, directoryFlagError := command.Flags().GetString(directoryFlagNameConstant)
	if directoryFlagError != nil {
		return requestDetails{}, directoryFlagError
	}
	resolvedDirectory := strings.TrimSpace(directoryFlagValue)
	if len(resolvedDirectory) == 0 {
		resolvedDirectory = configuration.Directory
	}
	if len(resolvedDirectory) == 0 {
		resolvedDirectory = strings.TrimSpace(builder.WorkingDirectory)
	}
	if len(resolvedDirectory) == 0 {
		return requestDetails{}, errors.New(missingDirectoryMessageConstant)
	}

	managerFlagValue, managerFlagError := command.Flags().GetString(pkgManagerFlagNameConstant)
	if managerFlagError != nil {
		return requestDetails{}, managerFlagError
	}
	resolvedManagerName := strings.TrimSpace(managerFlagValue)
	if len(resolvedManagerName) == 0 {
		resolvedManagerName = configuration.PackageManager
	}

	return requestDetails{directory: resolvedDirectory, managerName: resolvedManagerName}, nil
}

func (builder *CommandBuilder) buildService(command *cobra.Command) (*Service, error) {
	executor, executorError := builder.resolveExecutor()
	if executorError != nil {
		return nil, executorError
	}

	managerResolver, resolverError := NewExecutorManagerResolver(NewDetector(nil), executor)
	if resolverError != nil {
		return nil, resolverError
	}

	return NewService(Dependencies{
		RegistryWriter:  registry.NewConfigWriter(nil),
		ManagerResolver: managerResolver,
		StatusRunner:    ui.NewStatusReporter(utils.NewFlushingWriter(command.OutOrStdout())),
	})
}

func (builder *CommandBuilder) resolveExecutor() (CommandExecutor, error) {
	if builder.Executor != nil {
		return builder.Executor, nil
	}

	logger := builder.resolveLogger()
	shellExecutor, executorCreationError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner())
	if executorCreationError != nil {
		return nil, executorCreationError
	}
	if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
		shellExecutor.SetEventObserver(ui.NewConsoleCommandEventLogger(logger))
	}
	return shellExecutor, nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func joinPackageSpecifiers(packages []PackageReference) string {
	return strings.Join(packageSpecifiers(packages), packageListSeparatorConstant)
}
