package manager

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	packageJSONFileNameConstant    = "package.json"
	bunBinaryLockFileNameConstant  = "bun.lockb"
	bunTextLockFileNameConstant    = "bun.lock"
	yarnLockFileNameConstant       = "yarn.lock"
	pnpmLockFileNameConstant       = "pnpm-lock.yaml"
	npmLockFileNameConstant        = "package-lock.json"
	detectorDirectoryMissingErrTxt = "working directory must be provided"
)

// ErrWorkingDirectoryRequired indicates a detection request without a directory.
var ErrWorkingDirectoryRequired = errors.New(detectorDirectoryMissingErrTxt)

// lockFileManagerProbes orders lockfile checks; bun's binary lockfile wins over
// the text variants so mixed checkouts resolve deterministically.
var lockFileManagerProbes = []struct {
	fileName    string
	managerName Name
}{
	{fileName: bunBinaryLockFileNameConstant, managerName: NameBun},
	{fileName: bunTextLockFileNameConstant, managerName: NameBun},
	{fileName: yarnLockFileNameConstant, managerName: NameYarn},
	{fileName: pnpmLockFileNameConstant, managerName: NamePnpm},
	{fileName: npmLockFileNameConstant, managerName: NameNpm},
}

// StatFileSystem abstracts file metadata lookups used during detection.
type StatFileSystem interface {
	Stat(path string) (fs.FileInfo, error)
}

// osStatFileSystem implements StatFileSystem with the operating system lookup.
type osStatFileSystem struct{}

func (osStatFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Detector resolves the active package manager for a working directory.
type Detector struct {
	fileSystem StatFileSystem
}

// NewDetector constructs a Detector backed by the provided file system,
// defaulting to the operating system implementation.
func NewDetector(fileSystem StatFileSystem) *Detector {
	if fileSystem == nil {
		fileSystem = osStatFileSystem{}
	}
	return &Detector{fileSystem: fileSystem}
}

// Detect resolves the manager for workingDirectory. An explicit name always
// wins; otherwise lockfiles are probed from the working directory upward to
// the nearest package.json project root, falling back to npm when no lockfile
// identifies a manager.
func (detector *Detector) Detect(workingDirectory string, explicitName string) (Name, error) {
	if len(strings.TrimSpace(explicitName)) > 0 {
		return ParseName(explicitName)
	}

	trimmedDirectory := strings.TrimSpace(workingDirectory)
	if len(trimmedDirectory) == 0 {
		return "", ErrWorkingDirectoryRequired
	}

	currentDirectory := trimmedDirectory
	for {
		for _, probe := range lockFileManagerProbes {
			if detector.fileExists(filepath.Join(currentDirectory, probe.fileName)) {
				return probe.managerName, nil
			}
		}

		if detector.fileExists(filepath.Join(currentDirectory, packageJSONFileNameConstant)) {
			return NameNpm, nil
		}

		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			return NameNpm, nil
		}
		currentDirectory = parentDirectory
	}
}

func (detector *Detector) fileExists(path string) bool {
	_, statError := detector.fileSystem.Stat(path)
	return statError == nil
}
