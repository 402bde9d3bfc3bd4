package publish

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/jsr_scripts/internal/execshell"
	"github.com/temirov/jsr_scripts/internal/ui"
	"github.com/temirov/jsr_scripts/internal/utils"
	"github.com/temirov/jsr_scripts/internal/utils/flags"
)

const (
	publishCommandUseConstant              = "publish"
	publishCommandShortDescription         = "Publish the package in the project directory to JSR"
	publishCommandLongDescription          = "publish downloads the Deno release binary when missing and runs its publish command against the project directory."
	publishUnexpectedArgumentsMessageTxt   = "publish does not accept positional arguments"
	publishDryRunFlagNameConstant          = "dry-run"
	publishDryRunFlagDescriptionConstant   = "Validate the package without uploading it"
	publishAllowSlowTypesFlagNameConstant  = "allow-slow-types"
	publishAllowSlowTypesFlagUsageConstant = "Permit types the documentation generator resolves slowly"
	publishTokenFlagNameConstant           = "token"
	publishTokenFlagDescriptionConstant    = "Authentication token passed to the publish binary"
	publishTokenSourceFlagNameConstant     = "token-source"
	publishTokenSourceFlagUsageConstant    = "Token source (env:NAME or file:/path)"
	publishBinFolderFlagNameConstant       = "bin-folder"
	publishBinFolderFlagUsageConstant      = "Cache folder for downloaded publish binaries"
	publishDirectoryFlagNameConstant       = "dir"
	publishDirectoryFlagUsageConstant      = "Project directory to publish from"
	publishMissingDirectoryMessageTxt      = "project directory could not be determined; supply --dir"
	tokenSourceParseErrorTemplateConstant  = "invalid token source: %w"
	publishSuccessMessageTemplateConstant  = "PUBLISHED: %s\n"
	publishDryRunMessageTemplateConstant   = "DRY RUN COMPLETE: %s\n"
	publishStatusLabelConstant             = "Publishing with deno"
	emptyFlagShorthandConstant             = ""
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the publish command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	Executor                     DenoExecutor
	DescriptorResolver           DescriptorResolver
	BinaryCache                  BinaryEnsurer
	TokenResolver                TokenResolver
	HTTPClient                   HTTPClient
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() Configuration
	WorkingDirectory             string
}

// Build constructs the publish command.
func (builder *CommandBuilder) Build() *cobra.Command {
	toggleValues := &struct {
		dryRun         bool
		allowSlowTypes bool
	}{}

	command := &cobra.Command{
		Use:   publishCommandUseConstant,
		Short: publishCommandShortDescription,
		Long:  publishCommandLongDescription,
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.runPublish(command, arguments, toggleValues.dryRun, toggleValues.allowSlowTypes)
		},
	}

	flags.AddToggleFlag(command.Flags(), &toggleValues.dryRun, publishDryRunFlagNameConstant, emptyFlagShorthandConstant, false, publishDryRunFlagDescriptionConstant)
	flags.AddToggleFlag(command.Flags(), &toggleValues.allowSlowTypes, publishAllowSlowTypesFlagNameConstant, emptyFlagShorthandConstant, false, publishAllowSlowTypesFlagUsageConstant)
	command.Flags().String(publishTokenFlagNameConstant, "", publishTokenFlagDescriptionConstant)
	command.Flags().String(publishTokenSourceFlagNameConstant, "", publishTokenSourceFlagUsageConstant)
	command.Flags().String(publishBinFolderFlagNameConstant, "", publishBinFolderFlagUsageConstant)
	command.Flags().String(publishDirectoryFlagNameConstant, "", publishDirectoryFlagUsageConstant)

	return command
}

func (builder *CommandBuilder) runPublish(command *cobra.Command, arguments []string, dryRunFlagValue bool, allowSlowTypesFlagValue bool) error {
	if len(arguments) > 0 {
		return errors.New(publishUnexpectedArgumentsMessageTxt)
	}

	configuration := builder.resolveConfiguration()

	projectDirectory, directoryError := builder.resolveDirectory(command)
	if directoryError != nil {
		return directoryError
	}

	binFolder, binFolderError := builder.resolveBinFolder(command, configuration)
	if binFolderError != nil {
		return binFolderError
	}

	dryRunRequested := configuration.DryRun
	if command.Flags().Changed(publishDryRunFlagNameConstant) {
		dryRunRequested = dryRunFlagValue
	}
	allowSlowTypesRequested := configuration.AllowSlowTypes
	if command.Flags().Changed(publishAllowSlowTypesFlagNameConstant) {
		allowSlowTypesRequested = allowSlowTypesFlagValue
	}

	publishToken, tokenError := builder.resolvePublishToken(command, configuration)
	if tokenError != nil {
		return tokenError
	}

	runner, runnerError := builder.buildRunner()
	if runnerError != nil {
		return runnerError
	}

	statusReporter := ui.NewStatusReporter(utils.NewFlushingWriter(command.OutOrStdout()))
	publishError := statusReporter.Run(publishStatusLabelConstant, func() error {
		return runner.Publish(command.Context(), Options{
			Directory:      projectDirectory,
			BinFolder:      binFolder,
			DryRun:         dryRunRequested,
			AllowSlowTypes: allowSlowTypesRequested,
			Token:          publishToken,
		})
	})
	if publishError != nil {
		return publishError
	}

	successTemplate := publishSuccessMessageTemplateConstant
	if dryRunRequested {
		successTemplate = publishDryRunMessageTemplateConstant
	}
	fmt.Fprintf(command.OutOrStdout(), successTemplate, projectDirectory)
	return nil
}

func (builder *CommandBuilder) resolveDirectory(command *cobra.Command) (string, error) {
	directoryFlagValue, directoryFlagError := command.Flags().GetString(publishDirectoryFlagNameConstant)
	if directoryFlagError != nil {
		return "", directoryFlagError
	}
	resolvedDirectory := strings.TrimSpace(directoryFlagValue)
	if len(resolvedDirectory) == 0 {
		resolvedDirectory = strings.TrimSpace(builder.WorkingDirectory)
	}
	if len(resolvedDirectory) == 0 {
		return "", errors.New(publishMissingDirectoryMessageTxt)
	}
	return resolvedDirectory, nil
}

func (builder *CommandBuilder) resolveBinFolder(command *cobra.Command, configuration Configuration) (string, error) {
	binFolderFlagValue, binFolderFlagError := command.Flags().GetString(publishBinFolderFlagNameConstant)
	if binFolderFlagError != nil {
		return "", binFolderFlagError
	}
	resolvedBinFolder := strings.TrimSpace(binFolderFlagValue)
	if len(resolvedBinFolder) == 0 {
		resolvedBinFolder = configuration.BinFolder
	}
	if len(resolvedBinFolder) == 0 {
		resolvedBinFolder = DefaultBinFolder()
	}
	return resolvedBinFolder, nil
}

func (builder *CommandBuilder) resolvePublishToken(command *cobra.Command, configuration Configuration) (string, error) {
	tokenFlagValue, tokenFlagError := command.Flags().GetString(publishTokenFlagNameConstant)
	if tokenFlagError != nil {
		return "", tokenFlagError
	}
	trimmedToken := strings.TrimSpace(tokenFlagValue)
	if len(trimmedToken) > 0 {
		return trimmedToken, nil
	}

	tokenSourceFlagValue, tokenSourceFlagError := command.Flags().GetString(publishTokenSourceFlagNameConstant)
	if tokenSourceFlagError != nil {
		return "", tokenSourceFlagError
	}
	tokenSourceValue := strings.TrimSpace(tokenSourceFlagValue)
	if len(tokenSourceValue) == 0 {
		tokenSourceValue = configuration.TokenSource
	}
	if len(tokenSourceValue) == 0 {
		return "", nil
	}

	tokenSource, parseError := ParseTokenSource(tokenSourceValue)
	if parseError != nil {
		return "", fmt.Errorf(tokenSourceParseErrorTemplateConstant, parseError)
	}

	tokenResolver := builder.TokenResolver
	if tokenResolver == nil {
		tokenResolver = NewTokenResolver(nil, nil)
	}
	return tokenResolver.ResolveToken(command.Context(), tokenSource)
}

func (builder *CommandBuilder) buildRunner() (*Runner, error) {
	httpClient := builder.resolveHTTPClient()

	descriptorResolver := builder.DescriptorResolver
	if descriptorResolver == nil {
		metadataResolver, resolverError := NewMetadataResolver(httpClient, "")
		if resolverError != nil {
			return nil, resolverError
		}
		descriptorResolver = metadataResolver
	}

	binaryCache := builder.BinaryCache
	if binaryCache == nil {
		constructedCache, cacheError := NewBinaryCache(httpClient)
		if cacheError != nil {
			return nil, cacheError
		}
		binaryCache = constructedCache
	}

	executor, executorError := builder.resolveExecutor()
	if executorError != nil {
		return nil, executorError
	}

	return NewRunner(Dependencies{
		Executor:           executor,
		DescriptorResolver: descriptorResolver,
		BinaryCache:        binaryCache,
	})
}

func (builder *CommandBuilder) resolveHTTPClient() HTTPClient {
	if builder.HTTPClient != nil {
		return builder.HTTPClient
	}
	return http.DefaultClient
}

func (builder *CommandBuilder) resolveExecutor() (DenoExecutor, error) {
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

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	if builder.ConfigurationProvider == nil {
		return DefaultConfiguration()
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
