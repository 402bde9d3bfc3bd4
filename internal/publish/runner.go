package publish

import (
	"context"
	"errors"
	"strings"

	"github.com/temirov/jsr_scripts/internal/execshell"
)

const (
	publishSubcommandConstant                = "publish"
	bareNodeBuiltinsFlagConstant             = "--unstable-bare-node-builtins"
	sloppyImportsFlagConstant                = "--unstable-sloppy-imports"
	dryRunArgumentConstant                   = "--dry-run"
	allowSlowTypesArgumentConstant           = "--allow-slow-types"
	tokenArgumentConstant                    = "--token"
	denoExecutorMissingErrorMessageConstant  = "deno executor not configured"
	descriptorResolverMissingMessageConstant = "metadata resolver not configured"
	binaryCacheMissingErrorMessageConstant   = "binary cache not configured"
	runnerDirectoryMissingMessageConstant    = "project directory must be provided"
)

// ErrDenoExecutorNotConfigured indicates runner construction without an executor.
var ErrDenoExecutorNotConfigured = errors.New(denoExecutorMissingErrorMessageConstant)

// ErrMetadataResolverNotConfigured indicates runner construction without a resolver.
var ErrMetadataResolverNotConfigured = errors.New(descriptorResolverMissingMessageConstant)

// ErrBinaryCacheNotConfigured indicates runner construction without a cache.
var ErrBinaryCacheNotConfigured = errors.New(binaryCacheMissingErrorMessageConstant)

// ErrProjectDirectoryRequired indicates a publish request without a directory.
var ErrProjectDirectoryRequired = errors.New(runnerDirectoryMissingMessageConstant)

// DenoExecutor runs a deno executable resolved to an explicit path.
type DenoExecutor interface {
	ExecuteDeno(executionContext context.Context, executablePath string, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// DescriptorResolver discovers the release binary to publish with.
type DescriptorResolver interface {
	ResolveDescriptor(resolutionContext context.Context) (DownloadDescriptor, error)
}

// BinaryEnsurer materializes the release binary under the cache folder.
type BinaryEnsurer interface {
	Ensure(executionContext context.Context, binFolder string, descriptor DownloadDescriptor) (string, error)
}

// Options configures a single publish invocation. Directory is explicit; the
// runner never consults the process working directory.
type Options struct {
	Directory      string
	BinFolder      string
	DryRun         bool
	AllowSlowTypes bool
	Token          string
}

// Dependencies enumerates the collaborators a Runner requires.
type Dependencies struct {
	Executor           DenoExecutor
	DescriptorResolver DescriptorResolver
	BinaryCache        BinaryEnsurer
}

// Runner downloads the publish binary on demand and executes it.
type Runner struct {
	executor           DenoExecutor
	descriptorResolver DescriptorResolver
	binaryCache        BinaryEnsurer
}

// NewRunner constructs a Runner from the provided dependencies.
func NewRunner(dependencies Dependencies) (*Runner, error) {
	if dependencies.Executor == nil {
		return nil, ErrDenoExecutorNotConfigured
	}
	if dependencies.DescriptorResolver == nil {
		return nil, ErrMetadataResolverNotConfigured
	}
	if dependencies.BinaryCache == nil {
		return nil, ErrBinaryCacheNotConfigured
	}
	return &Runner{
		executor:           dependencies.Executor,
		descriptorResolver: dependencies.DescriptorResolver,
		binaryCache:        dependencies.BinaryCache,
	}, nil
}

// Publish ensures the release binary exists and invokes its publish command
// against the project directory.
func (runner *Runner) Publish(executionContext context.Context, options Options) error {
	trimmedDirectory := strings.TrimSpace(options.Directory)
	if len(trimmedDirectory) == 0 {
		return ErrProjectDirectoryRequired
	}

	descriptor, descriptorError := runner.descriptorResolver.ResolveDescriptor(executionContext)
	if descriptorError != nil {
		return descriptorError
	}

	binaryPath, ensureError := runner.binaryCache.Ensure(executionContext, options.BinFolder, descriptor)
	if ensureError != nil {
		return ensureError
	}

	_, executionError := runner.executor.ExecuteDeno(executionContext, binaryPath, execshell.CommandDetails{
		Arguments:        PublishArguments(options),
		WorkingDirectory: trimmedDirectory,
	})
	return executionError
}

// PublishArguments assembles the deno publish argument list. The stability
// flags are always present; optional flags keep a fixed relative order.
func PublishArguments(options Options) []string {
	arguments := []string{publishSubcommandConstant, bareNodeBuiltinsFlagConstant, sloppyImportsFlagConstant}
	if options.DryRun {
		arguments = append(arguments, dryRunArgumentConstant)
	}
	if options.AllowSlowTypes {
		arguments = append(arguments, allowSlowTypesArgumentConstant)
	}
	trimmedToken := strings.TrimSpace(options.Token)
	if len(trimmedToken) > 0 {
		arguments = append(arguments, tokenArgumentConstant, trimmedToken)
	}
	return arguments
}
