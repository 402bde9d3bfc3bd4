package manager

import (
	"strings"

	pathutils "github.com/temirov/jsr_scripts/internal/utils/path"
)

var managerConfigurationHomeDirectoryExpander = pathutils.NewHomeExpander()

const (
	pkgManagerConfigKeySuffixConstant = ".pkg_manager"
	directoryConfigKeySuffixConstant  = ".dir"
)

// CommandConfiguration aggregates settings for the install and remove commands.
type CommandConfiguration struct {
	PackageManager string `mapstructure:"pkg_manager"`
	Directory      string `mapstructure:"dir"`
}

// DefaultCommandConfiguration supplies baseline values for install and remove commands.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{}
}

// DefaultConfigurationValues exposes configuration defaults keyed for viper registration.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	return map[string]any{
		configurationKeyPrefix + pkgManagerConfigKeySuffixConstant: "",
		configurationKeyPrefix + directoryConfigKeySuffixConstant:  "",
	}
}

// Sanitize trims configured values and expands home directory shortcuts.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.PackageManager = strings.TrimSpace(configuration.PackageManager)
	sanitized.Directory = strings.TrimSpace(configuration.Directory)
	if len(sanitized.Directory) > 0 {
		sanitized.Directory = managerConfigurationHomeDirectoryExpander.Expand(sanitized.Directory)
	}
	return sanitized
}
