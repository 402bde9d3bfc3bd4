package publish_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/jsr_scripts/internal/publish"
)

const (
	commandProjectDirectoryConstant = "/workspace/library"
	commandTokenEnvironmentConstant = "JSR_TOKEN"
)

type commandTestHarness struct {
	executor           *stubDenoExecutor
	descriptorResolver *stubDescriptorResolver
	binaryEnsurer      *stubBinaryEnsurer
	builder            *publish.CommandBuilder
}

func newCommandTestHarness(environmentValues map[string]string) *commandTestHarness {
	harness := &commandTestHarness{
		executor:           &stubDenoExecutor{},
		descriptorResolver: &stubDescriptorResolver{descriptor: cacheDescriptorForTest()},
		binaryEnsurer:      &stubBinaryEnsurer{binaryPath: runnerBinaryPathConstant},
	}
	harness.builder = &publish.CommandBuilder{
		Executor:           harness.executor,
		DescriptorResolver: harness.descriptorResolver,
		BinaryCache:        harness.binaryEnsurer,
		TokenResolver: publish.NewTokenResolver(func(key string) (string, bool) {
			value, found := environmentValues[key]
			return value, found
		}, nil),
	}
	return harness
}

func (harness *commandTestHarness) execute(testInstance *testing.T, arguments []string) (string, error) {
	command := harness.builder.Build()

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(outputBuffer)
	command.SetArgs(arguments)

	executionError := command.Execute()
	return outputBuffer.String(), executionError
}

func TestPublishCommandRunsWithBaseFlags(testInstance *testing.T) {
	harness := newCommandTestHarness(nil)

	commandOutput, executionError := harness.execute(testInstance, []string{"--dir", commandProjectDirectoryConstant})

	require.NoError(testInstance, executionError)
	require.Len(testInstance, harness.executor.recordedDetails, 1)
	require.Equal(testInstance, []string{"publish", "--unstable-bare-node-builtins", "--unstable-sloppy-imports"}, harness.executor.recordedDetails[0].Arguments)
	require.Equal(testInstance, commandProjectDirectoryConstant, harness.executor.recordedDetails[0].WorkingDirectory)
	require.Contains(testInstance, commandOutput, "Publishing with deno... ok\n")
	require.Contains(testInstance, commandOutput, "PUBLISHED: "+commandProjectDirectoryConstant+"\n")
}

func TestPublishCommandForwardsOptionalFlags(testInstance *testing.T) {
	harness := newCommandTestHarness(nil)

	commandOutput, executionError := harness.execute(testInstance, []string{
		"--dry-run",
		"--allow-slow-types",
		"--token", runnerTokenValueConstant,
		"--dir", commandProjectDirectoryConstant,
	})

	require.NoError(testInstance, executionError)
	require.Len(testInstance, harness.executor.recordedDetails, 1)
	require.Equal(testInstance, []string{
		"publish", "--unstable-bare-node-builtins", "--unstable-sloppy-imports",
		"--dry-run", "--allow-slow-types", "--token", runnerTokenValueConstant,
	}, harness.executor.recordedDetails[0].Arguments)
	require.Contains(testInstance, commandOutput, "DRY RUN COMPLETE: "+commandProjectDirectoryConstant+"\n")
}

func TestPublishCommandResolvesTokenFromSource(testInstance *testing.T) {
	harness := newCommandTestHarness(map[string]string{commandTokenEnvironmentConstant: runnerTokenValueConstant})

	_, executionError := harness.execute(testInstance, []string{
		"--token-source", "env:" + commandTokenEnvironmentConstant,
		"--dir", commandProjectDirectoryConstant,
	})

	require.NoError(testInstance, executionError)
	require.Len(testInstance, harness.executor.recordedDetails, 1)
	require.Equal(testInstance, []string{
		"publish", "--unstable-bare-node-builtins", "--unstable-sloppy-imports",
		"--token", runnerTokenValueConstant,
	}, harness.executor.recordedDetails[0].Arguments)
}

func TestPublishCommandTokenFlagWinsOverSource(testInstance *testing.T) {
	harness := newCommandTestHarness(map[string]string{commandTokenEnvironmentConstant: "source-token"})

	_, executionError := harness.execute(testInstance, []string{
		"--token", runnerTokenValueConstant,
		"--token-source", "env:" + commandTokenEnvironmentConstant,
		"--dir", commandProjectDirectoryConstant,
	})

	require.NoError(testInstance, executionError)
	require.Len(testInstance, harness.executor.recordedDetails, 1)
	require.Contains(testInstance, harness.executor.recordedDetails[0].Arguments, runnerTokenValueConstant)
	require.NotContains(testInstance, harness.executor.recordedDetails[0].Arguments, "source-token")
}

func TestPublishCommandOmitsTokenWithoutSource(testInstance *testing.T) {
	harness := newCommandTestHarness(nil)

	_, executionError := harness.execute(testInstance, []string{"--dir", commandProjectDirectoryConstant})

	require.NoError(testInstance, executionError)
	require.NotContains(testInstance, harness.executor.recordedDetails[0].Arguments, "--token")
}

func TestPublishCommandRejectsInvalidTokenSource(testInstance *testing.T) {
	harness := newCommandTestHarness(nil)

	_, executionError := harness.execute(testInstance, []string{
		"--token-source", "vault:secret",
		"--dir", commandProjectDirectoryConstant,
	})

	require.Error(testInstance, executionError)
	require.Contains(testInstance, executionError.Error(), "invalid token source")
	require.Empty(testInstance, harness.executor.recordedDetails)
}

func TestPublishCommandUsesConfiguredDefaults(testInstance *testing.T) {
	harness := newCommandTestHarness(nil)
	harness.builder.ConfigurationProvider = func() publish.Configuration {
		return publish.Configuration{DryRun: true, BinFolder: runnerBinFolderConstant}
	}
	harness.builder.WorkingDirectory = commandProjectDirectoryConstant

	commandOutput, executionError := harness.execute(testInstance, []string{})

	require.NoError(testInstance, executionError)
	require.Equal(testInstance, []string{runnerBinFolderConstant}, harness.binaryEnsurer.recordedBinFolders)
	require.Contains(testInstance, harness.executor.recordedDetails[0].Arguments, "--dry-run")
	require.Contains(testInstance, commandOutput, "DRY RUN COMPLETE: "+commandProjectDirectoryConstant+"\n")
}

func TestPublishCommandFlagOverridesConfiguredDryRun(testInstance *testing.T) {
	harness := newCommandTestHarness(nil)
	harness.builder.ConfigurationProvider = func() publish.Configuration {
		return publish.Configuration{DryRun: true}
	}

	_, executionError := harness.execute(testInstance, []string{"--dry-run=no", "--dir", commandProjectDirectoryConstant})

	require.NoError(testInstance, executionError)
	require.NotContains(testInstance, harness.executor.recordedDetails[0].Arguments, "--dry-run")
}

func TestPublishCommandRejectsPositionalArguments(testInstance *testing.T) {
	harness := newCommandTestHarness(nil)

	_, executionError := harness.execute(testInstance, []string{"extra", "--dir", commandProjectDirectoryConstant})

	require.Error(testInstance, executionError)
	require.Equal(testInstance, "publish does not accept positional arguments", executionError.Error())
}

func TestPublishCommandRequiresResolvableDirectory(testInstance *testing.T) {
	harness := newCommandTestHarness(nil)

	_, executionError := harness.execute(testInstance, []string{})

	require.Error(testInstance, executionError)
	require.Equal(testInstance, "project directory could not be determined; supply --dir", executionError.Error())
}

func TestPublishCommandReportsFailureStatus(testInstance *testing.T) {
	harness := newCommandTestHarness(nil)
	harness.descriptorResolver.resolutionError = publish.ErrHTTPClientNotConfigured

	commandOutput, executionError := harness.execute(testInstance, []string{"--dir", commandProjectDirectoryConstant})

	require.Error(testInstance, executionError)
	require.Contains(testInstance, commandOutput, "Publishing with deno... error\n")
}
