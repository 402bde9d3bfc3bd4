package docs_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const (
	readmeFileNameConstant           = "README.md"
	yamlFenceStartConstant           = "```yaml"
	yamlFenceEndConstant             = "```"
	configHeaderMarkerConstant       = "# config.yaml"
	parentDirectoryReferenceConstant = ".."
	missingHeaderMessageConstant     = "README example missing config header marker"
	missingStartFenceMessageConstant = "README example missing yaml fence start"
	missingEndFenceMessageConstant   = "README example missing yaml fence end"
	expectedLogLevelConstant         = "info"
	expectedLogFormatConstant        = "structured"
	expectedTokenSourceConstant      = "env:JSR_TOKEN"
)

type readmeApplicationConfiguration struct {
	Common struct {
		LogLevel  string `yaml:"log_level"`
		LogFormat string `yaml:"log_format"`
	} `yaml:"common"`
	Tools struct {
		Install struct {
			PackageManager string `yaml:"pkg_manager"`
			Directory      string `yaml:"dir"`
		} `yaml:"install"`
		Publish struct {
			TokenSource    string `yaml:"token_source"`
			BinFolder      string `yaml:"bin_folder"`
			DryRun         bool   `yaml:"dry_run"`
			AllowSlowTypes bool   `yaml:"allow_slow_types"`
		} `yaml:"publish"`
	} `yaml:"tools"`
}

func TestReadmeConfigurationSnippetParses(testInstance *testing.T) {
	workingDirectory, workingDirectoryError := os.Getwd()
	require.NoError(testInstance, workingDirectoryError)

	readmePath := filepath.Join(workingDirectory, parentDirectoryReferenceConstant, readmeFileNameConstant)
	contentBytes, readError := os.ReadFile(readmePath)
	require.NoError(testInstance, readError)

	contentText := string(contentBytes)
	headerIndex := strings.Index(contentText, configHeaderMarkerConstant)
	require.NotEqual(testInstance, -1, headerIndex, missingHeaderMessageConstant)

	fenceStartIndex := strings.LastIndex(contentText[:headerIndex], yamlFenceStartConstant)
	require.NotEqual(testInstance, -1, fenceStartIndex, missingStartFenceMessageConstant)

	remainingText := contentText[headerIndex:]
	fenceEndRelativeIndex := strings.Index(remainingText, yamlFenceEndConstant)
	require.NotEqual(testInstance, -1, fenceEndRelativeIndex, missingEndFenceMessageConstant)
	fenceEndIndex := headerIndex + fenceEndRelativeIndex

	snippetContent := strings.TrimSpace(contentText[fenceStartIndex+len(yamlFenceStartConstant) : fenceEndIndex])

	var applicationConfiguration readmeApplicationConfiguration
	require.NoError(testInstance, yaml.Unmarshal([]byte(snippetContent), &applicationConfiguration))

	require.Equal(testInstance, expectedLogLevelConstant, applicationConfiguration.Common.LogLevel)
	require.Equal(testInstance, expectedLogFormatConstant, applicationConfiguration.Common.LogFormat)
	require.Equal(testInstance, expectedTokenSourceConstant, applicationConfiguration.Tools.Publish.TokenSource)
	require.False(testInstance, applicationConfiguration.Tools.Publish.DryRun)
	require.False(testInstance, applicationConfiguration.Tools.Publish.AllowSlowTypes)
}
