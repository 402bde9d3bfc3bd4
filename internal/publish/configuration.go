package publish

import (
	"os"
	"path/filepath"
	"strings"

	pathutils "github.com/temirov/jsr_scripts/internal/utils/path"
)

var publishConfigurationHomeDirectoryExpander = pathutils.NewHomeExpander()

const (
	tokenSourceConfigKeySuffixConstant    = ".token_source"
	binFolderConfigKeySuffixConstant      = ".bin_folder"
	dryRunConfigKeySuffixConstant         = ".dry_run"
	allowSlowTypesConfigKeySuffixConstant = ".allow_slow_types"
	defaultCacheApplicationDirConstant    = "jsr-scripts"
	defaultCacheBinaryDirConstant         = "deno"
)

// Configuration aggregates settings for the publish command.
type Configuration struct {
	TokenSource    string `mapstructure:"token_source"`
	BinFolder      string `mapstructure:"bin_folder"`
	DryRun         bool   `mapstructure:"dry_run"`
	AllowSlowTypes bool   `mapstructure:"allow_slow_types"`
}

// DefaultConfiguration supplies baseline values for the publish command.
func DefaultConfiguration() Configuration {
	return Configuration{}
}

// DefaultConfigurationValues exposes configuration defaults keyed for viper registration.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	return map[string]any{
		configurationKeyPrefix + tokenSourceConfigKeySuffixConstant:    "",
		configurationKeyPrefix + binFolderConfigKeySuffixConstant:      "",
		configurationKeyPrefix + dryRunConfigKeySuffixConstant:         false,
		configurationKeyPrefix + allowSlowTypesConfigKeySuffixConstant: false,
	}
}

// DefaultBinFolder reports the user-level cache location for publish binaries.
// An unavailable user cache directory yields a relative fallback.
func DefaultBinFolder() string {
	userCacheDirectory, cacheDirectoryError := os.UserCacheDir()
	if cacheDirectoryError != nil {
		return filepath.Join(defaultCacheApplicationDirConstant, defaultCacheBinaryDirConstant)
	}
	return filepath.Join(userCacheDirectory, defaultCacheApplicationDirConstant, defaultCacheBinaryDirConstant)
}

// Sanitize trims configured values and expands home directory shortcuts.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.TokenSource = strings.TrimSpace(configuration.TokenSource)
	sanitized.BinFolder = strings.TrimSpace(configuration.BinFolder)
	if len(sanitized.BinFolder) > 0 {
		sanitized.BinFolder = publishConfigurationHomeDirectoryExpander.Expand(sanitized.BinFolder)
	}
	return sanitized
}
