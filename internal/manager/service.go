package manager

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	registryWriterMissingMessageConstant = "registry config writer not configured"
	managerResolverMissingMessageTxt     = "package manager resolver not configured"
	serviceDirectoryMissingMessageTxt    = "directory must be provided"
	npmrcSetupStatusLabelConstant        = "Setting up .npmrc"
	bunfigSetupStatusLabelConstant       = "Setting up bunfig.toml"
	registrySetupFailureTemplateConstant = "failed to configure JSR registry: %w"
)

// ErrRegistryWriterNotConfigured indicates service construction without a config writer.
var ErrRegistryWriterNotConfigured = errors.New(registryWriterMissingMessageConstant)

// ErrManagerResolverNotConfigured indicates service construction without a resolver.
var ErrManagerResolverNotConfigured = errors.New(managerResolverMissingMessageTxt)

// ErrDirectoryRequired indicates an operation without an explicit directory.
var ErrDirectoryRequired = errors.New(serviceDirectoryMissingMessageTxt)

// RegistryConfigWriter ensures the JSR registry is declared in manager config files.
type RegistryConfigWriter interface {
	EnsureNpmrc(directory string) error
	EnsureBunfig(directory string) error
}

// ManagerResolver builds the PackageManager variant active in a directory.
type ManagerResolver interface {
	Resolve(directory string, explicitName string) (PackageManager, error)
}

// StatusRunner frames an operation with console status text.
type StatusRunner interface {
	Run(label string, action func() error) error
}

// passThroughStatusRunner invokes actions without emitting status text.
type passThroughStatusRunner struct{}

func (passThroughStatusRunner) Run(label string, action func() error) error {
	return action()
}

// Dependencies enumerates external collaborators required by the Service.
type Dependencies struct {
	RegistryWriter  RegistryConfigWriter
	ManagerResolver ManagerResolver
	StatusRunner    StatusRunner
}

// InstallOptions configures a delegated install operation. Directory is
// explicit on every call; the service never reads the process working
// directory ambiently.
type InstallOptions struct {
	Directory   string
	Packages    []PackageReference
	Mode        InstallMode
	ManagerName string
}

// RemoveOptions configures a delegated removal operation.
type RemoveOptions struct {
	Directory   string
	Packages    []PackageReference
	ManagerName string
}

// Service coordinates registry configuration and package manager delegation.
type Service struct {
	registryWriter  RegistryConfigWriter
	managerResolver ManagerResolver
	statusRunner    StatusRunner
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.RegistryWriter == nil {
		return nil, ErrRegistryWriterNotConfigured
	}
	if dependencies.ManagerResolver == nil {
		return nil, ErrManagerResolverNotConfigured
	}
	statusRunner := dependencies.StatusRunner
	if statusRunner == nil {
		statusRunner = passThroughStatusRunner{}
	}
	return &Service{
		registryWriter:  dependencies.RegistryWriter,
		managerResolver: dependencies.ManagerResolver,
		statusRunner:    statusRunner,
	}, nil
}

// Install ensures the JSR registry configuration matching the resolved manager
// exists, then delegates the install. Managers that ignore .npmrc receive
// their own config file; everyone else shares the .npmrc declaration.
func (service *Service) Install(executionContext context.Context, options InstallOptions) error {
	trimmedDirectory := strings.TrimSpace(options.Directory)
	if len(trimmedDirectory) == 0 {
		return ErrDirectoryRequired
	}

	packageManager, resolveError := service.managerResolver.Resolve(trimmedDirectory, options.ManagerName)
	if resolveError != nil {
		return resolveError
	}

	setupLabel := npmrcSetupStatusLabelConstant
	setupAction := func() error { return service.registryWriter.EnsureNpmrc(trimmedDirectory) }
	if packageManager.RequiresAlternateConfig() {
		setupLabel = bunfigSetupStatusLabelConstant
		setupAction = func() error { return service.registryWriter.EnsureBunfig(trimmedDirectory) }
	}
	if setupError := service.statusRunner.Run(setupLabel, setupAction); setupError != nil {
		return fmt.Errorf(registrySetupFailureTemplateConstant, setupError)
	}

	return packageManager.Install(executionContext, options.Packages, options.Mode)
}

// Remove delegates a removal request without touching registry configuration.
func (service *Service) Remove(executionContext context.Context, options RemoveOptions) error {
	trimmedDirectory := strings.TrimSpace(options.Directory)
	if len(trimmedDirectory) == 0 {
		return ErrDirectoryRequired
	}

	packageManager, resolveError := service.managerResolver.Resolve(trimmedDirectory, options.ManagerName)
	if resolveError != nil {
		return resolveError
	}

	return packageManager.Remove(executionContext, options.Packages)
}
