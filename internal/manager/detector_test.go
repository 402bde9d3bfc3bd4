package manager_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/jsr_scripts/internal/manager"
)

const (
	testPackageJSONContentConstant = "{}\n"
	testLockFileContentConstant    = ""
)

func TestDetectorDetect(testInstance *testing.T) {
	testCases := []struct {
		name            string
		projectFiles    []string
		nestedDirectory string
		explicitName    string
		expectedManager manager.Name
		expectError     bool
	}{
		{
			name:            "explicit_name_wins_over_lockfiles",
			projectFiles:    []string{"yarn.lock", "package.json"},
			explicitName:    "pnpm",
			expectedManager: manager.NamePnpm,
		},
		{
			name:         "explicit_name_invalid",
			projectFiles: []string{"package.json"},
			explicitName: "cargo",
			expectError:  true,
		},
		{
			name:            "bun_binary_lockfile",
			projectFiles:    []string{"bun.lockb", "package.json"},
			expectedManager: manager.NameBun,
		},
		{
			name:            "bun_text_lockfile",
			projectFiles:    []string{"bun.lock", "package.json"},
			expectedManager: manager.NameBun,
		},
		{
			name:            "yarn_lockfile",
			projectFiles:    []string{"yarn.lock", "package.json"},
			expectedManager: manager.NameYarn,
		},
		{
			name:            "pnpm_lockfile",
			projectFiles:    []string{"pnpm-lock.yaml", "package.json"},
			expectedManager: manager.NamePnpm,
		},
		{
			name:            "npm_lockfile",
			projectFiles:    []string{"package-lock.json", "package.json"},
			expectedManager: manager.NameNpm,
		},
		{
			name:            "package_json_without_lockfile_defaults_to_npm",
			projectFiles:    []string{"package.json"},
			expectedManager: manager.NameNpm,
		},
		{
			name:            "lockfile_found_in_ancestor_directory",
			projectFiles:    []string{"pnpm-lock.yaml", "package.json"},
			nestedDirectory: "src/components",
			expectedManager: manager.NamePnpm,
		},
		{
			name:            "no_project_markers_defaults_to_npm",
			projectFiles:    nil,
			expectedManager: manager.NameNpm,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			projectDirectory := testInstance.TempDir()
			for _, projectFile := range testCase.projectFiles {
				fileContent := testLockFileContentConstant
				if projectFile == "package.json" {
					fileContent = testPackageJSONContentConstant
				}
				writeError := os.WriteFile(filepath.Join(projectDirectory, projectFile), []byte(fileContent), 0o644)
				require.NoError(testInstance, writeError)
			}

			workingDirectory := projectDirectory
			if len(testCase.nestedDirectory) > 0 {
				workingDirectory = filepath.Join(projectDirectory, testCase.nestedDirectory)
				require.NoError(testInstance, os.MkdirAll(workingDirectory, 0o755))
			}

			detector := manager.NewDetector(nil)
			detectedManager, detectionError := detector.Detect(workingDirectory, testCase.explicitName)

			if testCase.expectError {
				require.Error(testInstance, detectionError)
				return
			}
			require.NoError(testInstance, detectionError)
			require.Equal(testInstance, testCase.expectedManager, detectedManager)
		})
	}
}

func TestDetectorDetectRequiresDirectory(testInstance *testing.T) {
	detector := manager.NewDetector(nil)

	_, detectionError := detector.Detect("  ", "")

	require.ErrorIs(testInstance, detectionError, manager.ErrWorkingDirectoryRequired)
}
