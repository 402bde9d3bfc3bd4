package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	messageStandardErrorSuffixTemplate      = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
)

const (
	npmInstallSubcommandNameConstant   = "install"
	npmUninstallSubcommandNameConstant = "uninstall"
	yarnAddSubcommandNameConstant      = "add"
	yarnRemoveSubcommandNameConstant   = "remove"
	denoPublishSubcommandNameConstant  = "publish"
)

const (
	packageInstallStartTemplateConstant              = "Installing %s with %s"
	packageInstallSuccessTemplateConstant            = "Installed %s with %s"
	packageInstallFailureTemplateConstant            = "Failed to install %s with %s (exit code %d%s)"
	packageInstallExecutionFailureTemplateConstant   = "Unable to install %s with %s: %s"
	packageRemovalStartTemplateConstant              = "Removing %s with %s"
	packageRemovalSuccessTemplateConstant            = "Removed %s with %s"
	packageRemovalFailureTemplateConstant            = "Failed to remove %s with %s (exit code %d%s)"
	packageRemovalExecutionFailureTemplateConstant   = "Unable to remove %s with %s: %s"
	publishStartTemplateConstant                     = "Publishing package from %s"
	publishSuccessTemplateConstant                   = "Published package from %s"
	publishFailureTemplateConstant                   = "Failed to publish package from %s (exit code %d%s)"
	publishExecutionFailureTemplateConstant          = "Unable to publish package from %s: %s"
	packageListJoinSeparatorConstant                 = ", "
	noPackagesLabelConstant                          = "packages"
	defaultWorkingDirectoryLabelConstant             = "current directory"
	flagArgumentPrefixConstant                       = "-"
	minimumPackageManagerArgumentCountForPackageList = 2
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	switch command.Name {
	case CommandNpm, CommandYarn, CommandPnpm, CommandBun:
		return formatter.describePackageManagerMessage(command, result, failure, stage)
	case CommandDeno:
		return formatter.describeDenoMessage(command, result, failure, stage)
	default:
		return formatter.describeGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describePackageManagerMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) == 0 {
		return formatter.describeGenericMessage(command, result, failure, stage)
	}

	managerName := string(command.Name)
	packageList := formatter.describePackageList(arguments)

	switch arguments[0] {
	case npmInstallSubcommandNameConstant, yarnAddSubcommandNameConstant:
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(packageInstallStartTemplateConstant, packageList, managerName)
		case messageStageSuccess:
			return fmt.Sprintf(packageInstallSuccessTemplateConstant, packageList, managerName)
		case messageStageFailure:
			return fmt.Sprintf(packageInstallFailureTemplateConstant, packageList, managerName, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		default:
			return fmt.Sprintf(packageInstallExecutionFailureTemplateConstant, packageList, managerName, formatter.describeFailure(failure))
		}
	case npmUninstallSubcommandNameConstant, yarnRemoveSubcommandNameConstant:
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(packageRemovalStartTemplateConstant, packageList, managerName)
		case messageStageSuccess:
			return fmt.Sprintf(packageRemovalSuccessTemplateConstant, packageList, managerName)
		case messageStageFailure:
			return fmt.Sprintf(packageRemovalFailureTemplateConstant, packageList, managerName, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		default:
			return fmt.Sprintf(packageRemovalExecutionFailureTemplateConstant, packageList, managerName, formatter.describeFailure(failure))
		}
	default:
		return formatter.describeGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeDenoMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) == 0 || arguments[0] != denoPublishSubcommandNameConstant {
		return formatter.describeGenericMessage(command, result, failure, stage)
	}

	workingDirectoryLabel := formatter.describeWorkingDirectory(command)

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(publishStartTemplateConstant, workingDirectoryLabel)
	case messageStageSuccess:
		return fmt.Sprintf(publishSuccessTemplateConstant, workingDirectoryLabel)
	case messageStageFailure:
		return fmt.Sprintf(publishFailureTemplateConstant, workingDirectoryLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(publishExecutionFailureTemplateConstant, workingDirectoryLabel, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describePackageList(arguments []string) string {
	if len(arguments) < minimumPackageManagerArgumentCountForPackageList {
		return noPackagesLabelConstant
	}

	packageNames := make([]string, 0, len(arguments)-1)
	for _, argument := range arguments[1:] {
		if strings.HasPrefix(argument, flagArgumentPrefixConstant) {
			continue
		}
		packageNames = append(packageNames, argument)
	}
	if len(packageNames) == 0 {
		return noPackagesLabelConstant
	}
	return strings.Join(packageNames, packageListJoinSeparatorConstant)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(messageStandardErrorSuffixTemplate, trimmedStandardError)
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandParts := []string{command.Executable()}
	if len(command.Details.Arguments) > 0 {
		commandParts = append(commandParts, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	commandLabel := strings.Join(commandParts, commandArgumentsJoinSeparatorConstant)
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, formatter.formatWorkingDirectorySuffix(command))
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}
