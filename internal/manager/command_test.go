package manager_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/temirov/jsr_scripts/internal/manager"
)

const (
	commandTestPackageArgumentConstant = "@jsr/std__path@1.0.8"
	npmLockFileNameConstant            = "package-lock.json"
	bunLockFileNameConstant            = "bun.lockb"
	npmrcFileNameConstant              = ".npmrc"
	bunfigFileNameConstant             = "bunfig.toml"
)

func buildCommandForTest(testInstance *testing.T, builder *manager.CommandBuilder, buildCommand func() *cobra.Command, arguments []string) (*cobra.Command, *bytes.Buffer) {
	command := buildCommand()

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(outputBuffer)
	command.SetArgs(arguments)
	return command, outputBuffer
}

func writeProjectFile(testInstance *testing.T, projectDirectory string, fileName string) {
	require.NoError(testInstance, os.WriteFile(filepath.Join(projectDirectory, fileName), []byte{}, 0o644))
}

func TestInstallCommandDelegatesToDetectedManager(testInstance *testing.T) {
	projectDirectory := testInstance.TempDir()
	writeProjectFile(testInstance, projectDirectory, npmLockFileNameConstant)

	executor := &recordingExecutor{}
	builder := &manager.CommandBuilder{Executor: executor}
	command, outputBuffer := buildCommandForTest(testInstance, builder, builder.BuildInstallCommand, []string{commandTestPackageArgumentConstant, "--dir", projectDirectory})

	require.NoError(testInstance, command.Execute())

	require.Len(testInstance, executor.invocations, 1)
	require.Equal(testInstance, manager.NameNpm, executor.invocations[0].managerName)
	require.Equal(testInstance, []string{"install", commandTestPackageArgumentConstant}, executor.invocations[0].details.Arguments)
	require.Equal(testInstance, projectDirectory, executor.invocations[0].details.WorkingDirectory)

	require.Contains(testInstance, outputBuffer.String(), "Setting up .npmrc... ok\n")
	require.Contains(testInstance, outputBuffer.String(), "INSTALLED: "+commandTestPackageArgumentConstant+" ("+projectDirectory+")\n")

	npmrcContent, readError := os.ReadFile(filepath.Join(projectDirectory, npmrcFileNameConstant))
	require.NoError(testInstance, readError)
	require.Contains(testInstance, string(npmrcContent), "@jsr:registry=https://npm.jsr.io/")
}

func TestInstallCommandWritesBunfigForBunProjects(testInstance *testing.T) {
	projectDirectory := testInstance.TempDir()
	writeProjectFile(testInstance, projectDirectory, bunLockFileNameConstant)

	executor := &recordingExecutor{}
	builder := &manager.CommandBuilder{Executor: executor}
	command, outputBuffer := buildCommandForTest(testInstance, builder, builder.BuildInstallCommand, []string{commandTestPackageArgumentConstant, "--save-dev", "--dir", projectDirectory})

	require.NoError(testInstance, command.Execute())

	require.Len(testInstance, executor.invocations, 1)
	require.Equal(testInstance, manager.NameBun, executor.invocations[0].managerName)
	require.Equal(testInstance, []string{"add", "--dev", commandTestPackageArgumentConstant}, executor.invocations[0].details.Arguments)

	require.Contains(testInstance, outputBuffer.String(), "Setting up bunfig.toml... ok\n")

	bunfigContent, readError := os.ReadFile(filepath.Join(projectDirectory, bunfigFileNameConstant))
	require.NoError(testInstance, readError)
	require.Contains(testInstance, string(bunfigContent), "[install.scopes]")

	_, npmrcStatError := os.Stat(filepath.Join(projectDirectory, npmrcFileNameConstant))
	require.ErrorIs(testInstance, npmrcStatError, os.ErrNotExist)
}

func TestInstallCommandExplicitManagerOverridesDetection(testInstance *testing.T) {
	projectDirectory := testInstance.TempDir()
	writeProjectFile(testInstance, projectDirectory, npmLockFileNameConstant)

	executor := &recordingExecutor{}
	builder := &manager.CommandBuilder{Executor: executor}
	command, _ := buildCommandForTest(testInstance, builder, builder.BuildInstallCommand, []string{commandTestPackageArgumentConstant, "--save-optional", "--pkg-manager", "pnpm", "--dir", projectDirectory})

	require.NoError(testInstance, command.Execute())

	require.Len(testInstance, executor.invocations, 1)
	require.Equal(testInstance, manager.NamePnpm, executor.invocations[0].managerName)
	require.Equal(testInstance, []string{"add", "--save-optional", commandTestPackageArgumentConstant}, executor.invocations[0].details.Arguments)
}

func TestInstallCommandRejectsConflictingModeFlags(testInstance *testing.T) {
	projectDirectory := testInstance.TempDir()

	executor := &recordingExecutor{}
	builder := &manager.CommandBuilder{Executor: executor}
	command, _ := buildCommandForTest(testInstance, builder, builder.BuildInstallCommand, []string{commandTestPackageArgumentConstant, "--save-dev", "--save-optional", "--dir", projectDirectory})

	executionError := command.Execute()
	require.Error(testInstance, executionError)
	require.Equal(testInstance, "use at most one of --save-dev or --save-optional", executionError.Error())
	require.Empty(testInstance, executor.invocations)
}

func TestInstallCommandRequiresResolvableDirectory(testInstance *testing.T) {
	executor := &recordingExecutor{}
	builder := &manager.CommandBuilder{Executor: executor}
	command, _ := buildCommandForTest(testInstance, builder, builder.BuildInstallCommand, []string{commandTestPackageArgumentConstant})

	executionError := command.Execute()
	require.Error(testInstance, executionError)
	require.Equal(testInstance, "project directory could not be determined; supply --dir", executionError.Error())
}

func TestInstallCommandFallsBackToBuilderWorkingDirectory(testInstance *testing.T) {
	projectDirectory := testInstance.TempDir()
	writeProjectFile(testInstance, projectDirectory, npmLockFileNameConstant)

	executor := &recordingExecutor{}
	builder := &manager.CommandBuilder{Executor: executor, WorkingDirectory: projectDirectory}
	command, _ := buildCommandForTest(testInstance, builder, builder.BuildInstallCommand, []string{commandTestPackageArgumentConstant})

	require.NoError(testInstance, command.Execute())

	require.Len(testInstance, executor.invocations, 1)
	require.Equal(testInstance, projectDirectory, executor.invocations[0].details.WorkingDirectory)
}

func TestInstallCommandUsesConfiguredDefaults(testInstance *testing.T) {
	projectDirectory := testInstance.TempDir()

	executor := &recordingExecutor{}
	builder := &manager.CommandBuilder{
		Executor: executor,
		ConfigurationProvider: func() manager.CommandConfiguration {
			return manager.CommandConfiguration{PackageManager: "yarn", Directory: projectDirectory}
		},
	}
	command, _ := buildCommandForTest(testInstance, builder, builder.BuildInstallCommand, []string{commandTestPackageArgumentConstant})

	require.NoError(testInstance, command.Execute())

	require.Len(testInstance, executor.invocations, 1)
	require.Equal(testInstance, manager.NameYarn, executor.invocations[0].managerName)
	require.Equal(testInstance, []string{"add", commandTestPackageArgumentConstant}, executor.invocations[0].details.Arguments)
}

func TestRemoveCommandSkipsRegistryConfiguration(testInstance *testing.T) {
	projectDirectory := testInstance.TempDir()
	writeProjectFile(testInstance, projectDirectory, npmLockFileNameConstant)

	executor := &recordingExecutor{}
	builder := &manager.CommandBuilder{Executor: executor}
	command, outputBuffer := buildCommandForTest(testInstance, builder, builder.BuildRemoveCommand, []string{commandTestPackageArgumentConstant, "--dir", projectDirectory})

	require.NoError(testInstance, command.Execute())

	require.Len(testInstance, executor.invocations, 1)
	require.Equal(testInstance, manager.NameNpm, executor.invocations[0].managerName)
	require.Equal(testInstance, []string{"uninstall", commandTestPackageArgumentConstant}, executor.invocations[0].details.Arguments)

	require.NotContains(testInstance, outputBuffer.String(), "Setting up")
	require.Contains(testInstance, outputBuffer.String(), "REMOVED: "+commandTestPackageArgumentConstant+" ("+projectDirectory+")\n")

	_, npmrcStatError := os.Stat(filepath.Join(projectDirectory, npmrcFileNameConstant))
	require.ErrorIs(testInstance, npmrcStatError, os.ErrNotExist)
}

func TestInstallCommandSupportsAliases(testInstance *testing.T) {
	builder := &manager.CommandBuilder{Executor: &recordingExecutor{}}
	installCommand := builder.BuildInstallCommand()
	require.Equal(testInstance, []string{"add", "i"}, installCommand.Aliases)

	removeCommand := builder.BuildRemoveCommand()
	require.Equal(testInstance, []string{"uninstall", "r"}, removeCommand.Aliases)
}
