package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	loggerNotConfiguredMessageConstant        = "logger must be provided"
	commandRunnerNotConfiguredMessageConstant = "command runner must be provided"
	commandNameMissingMessageConstant         = "command name must be provided"
	commandFailedTemplateConstant             = "%s exited with code %d"
	commandExecutionFailedTemplateConstant    = "%s failed to execute: %v"
	standardErrorSuffixTemplateConstant       = ": %s"
	logFieldCommandConstant                   = "command"
	logFieldArgumentsConstant                 = "arguments"
	logFieldWorkingDirectoryConstant          = "working_directory"
	logFieldExitCodeConstant                  = "exit_code"
	commandStartedLogMessageConstant          = "command started"
	commandCompletedLogMessageConstant        = "command completed"
	commandFailedLogMessageConstant           = "command failed"
)

// ErrLoggerNotConfigured indicates ShellExecutor construction without a logger.
var ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)

// ErrCommandRunnerNotConfigured indicates ShellExecutor construction without a runner.
var ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)

// ErrCommandNameMissing indicates an executable command without a name or path.
var ErrCommandNameMissing = errors.New(commandNameMissingMessageConstant)

// CommandName identifies a supported executable.
type CommandName string

// Supported executable enumerations.
const (
	// CommandNpm runs the npm package manager.
	CommandNpm CommandName = "npm"
	// CommandYarn runs the yarn package manager.
	CommandYarn CommandName = "yarn"
	// CommandPnpm runs the pnpm package manager.
	CommandPnpm CommandName = "pnpm"
	// CommandBun runs the bun package manager.
	CommandBun CommandName = "bun"
	// CommandDeno runs the deno executable used for publishing.
	CommandDeno CommandName = "deno"
)

// CommandDetails describes a single tool invocation.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand combines a CommandName with invocation details. ExecutablePath,
// when set, overrides resolution of the command name through PATH so cached
// binaries can be invoked by their absolute location.
type ShellCommand struct {
	Name           CommandName
	ExecutablePath string
	Details        CommandDetails
}

// Executable resolves the program argument handed to the operating system.
func (command ShellCommand) Executable() string {
	if len(strings.TrimSpace(command.ExecutablePath)) > 0 {
		return command.ExecutablePath
	}
	return string(command.Name)
}

// ExecutionResult captures the observable results of executing a command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandFailedError reports a command that completed with a non-zero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error renders the failure including captured standard error output.
func (failure CommandFailedError) Error() string {
	baseMessage := fmt.Sprintf(commandFailedTemplateConstant, failure.Command.Executable(), failure.Result.ExitCode)
	trimmedStandardError := strings.TrimSpace(failure.Result.StandardError)
	if len(trimmedStandardError) == 0 {
		return baseMessage
	}
	return baseMessage + fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

// CommandExecutionError reports a command that could not be executed at all.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error renders the execution failure.
func (failure CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionFailedTemplateConstant, failure.Command.Executable(), failure.Cause)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As chains.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

// CommandRunner represents the ability to run shell commands.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// ShellExecutor coordinates command execution with logging and lifecycle events.
type ShellExecutor struct {
	logger        *zap.Logger
	commandRunner CommandRunner
	eventObserver CommandEventObserver
}

// NewShellExecutor constructs a ShellExecutor from the provided collaborators.
func NewShellExecutor(logger *zap.Logger, commandRunner CommandRunner) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if commandRunner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}
	return &ShellExecutor{
		logger:        logger,
		commandRunner: commandRunner,
		eventObserver: noopCommandEventObserver{},
	}, nil
}

// SetEventObserver registers an observer receiving command lifecycle notifications.
func (executor *ShellExecutor) SetEventObserver(observer CommandEventObserver) {
	if observer == nil {
		executor.eventObserver = noopCommandEventObserver{}
		return
	}
	executor.eventObserver = observer
}

// ExecuteNpm runs npm with the provided details.
func (executor *ShellExecutor) ExecuteNpm(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandNpm, Details: details})
}

// ExecuteYarn runs yarn with the provided details.
func (executor *ShellExecutor) ExecuteYarn(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandYarn, Details: details})
}

// ExecutePnpm runs pnpm with the provided details.
func (executor *ShellExecutor) ExecutePnpm(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandPnpm, Details: details})
}

// ExecuteBun runs bun with the provided details.
func (executor *ShellExecutor) ExecuteBun(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandBun, Details: details})
}

// ExecuteDeno runs a deno executable located at executablePath with the provided details.
func (executor *ShellExecutor) ExecuteDeno(executionContext context.Context, executablePath string, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandDeno, ExecutablePath: executablePath, Details: details})
}

// Execute runs the supplied command, logging lifecycle events and translating
// failures into the execshell error taxonomy.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	if len(strings.TrimSpace(command.Executable())) == 0 {
		return ExecutionResult{}, ErrCommandNameMissing
	}

	executor.logger.Debug(
		commandStartedLogMessageConstant,
		zap.String(logFieldCommandConstant, command.Executable()),
		zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	)
	executor.eventObserver.CommandStarted(command)

	executionResult, runError := executor.commandRunner.Run(executionContext, command)
	if runError != nil {
		executor.logger.Debug(
			commandFailedLogMessageConstant,
			zap.String(logFieldCommandConstant, command.Executable()),
			zap.Error(runError),
		)
		executor.eventObserver.CommandExecutionFailed(command, runError)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	executor.logger.Debug(
		commandCompletedLogMessageConstant,
		zap.String(logFieldCommandConstant, command.Executable()),
		zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
	)
	executor.eventObserver.CommandCompleted(command, executionResult)

	if executionResult.ExitCode != 0 {
		return ExecutionResult{}, CommandFailedError{Command: command, Result: executionResult}
	}

	return executionResult, nil
}
