package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	binaryBaseNameConstant                = "deno"
	windowsBinarySuffixConstant           = ".exe"
	platformDirectorySeparatorConstant    = "-"
	binFolderMissingErrorMessageConstant  = "binary folder must be provided"
	cacheResetErrorTemplateConstant       = "unable to reset binary cache %s: %w"
	downloadRequestErrorTemplateConstant  = "unable to request binary download from %s: %w"
	downloadStatusErrorTemplateConstant   = "binary download from %s returned status %d"
	downloadWriteErrorTemplateConstant    = "unable to write binary to %s: %w"
	cacheDirectoryErrorTemplateConstant   = "unable to create binary cache directory %s: %w"
	binaryFileModeConstant                = os.FileMode(0o755)
	cacheDirectoryModeConstant            = os.FileMode(0o755)
	windowsOperatingSystemValueConstant   = "windows"
)

// ErrBinFolderRequired indicates a cache operation without a binary folder.
var ErrBinFolderRequired = errors.New(binFolderMissingErrorMessageConstant)

// BinaryName reports the platform-specific deno executable file name.
func BinaryName() string {
	if runtime.GOOS == windowsOperatingSystemValueConstant {
		return binaryBaseNameConstant + windowsBinarySuffixConstant
	}
	return binaryBaseNameConstant
}

// BinaryPath computes the cached executable location for a release version.
// The version and platform segments keep concurrent environments that share
// one cache folder from clobbering each other's binaries.
func BinaryPath(binFolder string, version string) string {
	platformDirectory := runtime.GOOS + platformDirectorySeparatorConstant + runtime.GOARCH
	return filepath.Join(binFolder, version, platformDirectory, BinaryName())
}

// BinaryCache downloads and stores one deno binary per version and platform.
type BinaryCache struct {
	httpClient HTTPClient
}

// NewBinaryCache constructs a cache downloading through the provided client.
func NewBinaryCache(httpClient HTTPClient) (*BinaryCache, error) {
	if httpClient == nil {
		return nil, ErrHTTPClientNotConfigured
	}
	return &BinaryCache{httpClient: httpClient}, nil
}

// Ensure returns the cached binary path for the descriptor, downloading the
// binary when the path does not yet exist. A stale cache folder is removed
// wholesale before downloading so superseded versions do not accumulate.
func (cache *BinaryCache) Ensure(executionContext context.Context, binFolder string, descriptor DownloadDescriptor) (string, error) {
	trimmedBinFolder := strings.TrimSpace(binFolder)
	if len(trimmedBinFolder) == 0 {
		return "", ErrBinFolderRequired
	}

	binaryPath := BinaryPath(trimmedBinFolder, descriptor.Version)
	if _, statError := os.Stat(binaryPath); statError == nil {
		return binaryPath, nil
	}

	if removeError := os.RemoveAll(trimmedBinFolder); removeError != nil && !errors.Is(removeError, fs.ErrNotExist) {
		return "", fmt.Errorf(cacheResetErrorTemplateConstant, trimmedBinFolder, removeError)
	}

	if downloadError := cache.download(executionContext, descriptor.DownloadURL, binaryPath); downloadError != nil {
		return "", downloadError
	}

	return binaryPath, nil
}

func (cache *BinaryCache) download(executionContext context.Context, downloadURL string, destinationPath string) error {
	request, requestError := http.NewRequestWithContext(executionContext, http.MethodGet, downloadURL, nil)
	if requestError != nil {
		return fmt.Errorf(downloadRequestErrorTemplateConstant, downloadURL, requestError)
	}

	response, responseError := cache.httpClient.Do(request)
	if responseError != nil {
		return fmt.Errorf(downloadRequestErrorTemplateConstant, downloadURL, responseError)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf(downloadStatusErrorTemplateConstant, downloadURL, response.StatusCode)
	}

	destinationDirectory := filepath.Dir(destinationPath)
	if directoryError := os.MkdirAll(destinationDirectory, cacheDirectoryModeConstant); directoryError != nil {
		return fmt.Errorf(cacheDirectoryErrorTemplateConstant, destinationDirectory, directoryError)
	}

	destinationFile, createError := os.OpenFile(destinationPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, binaryFileModeConstant)
	if createError != nil {
		return fmt.Errorf(downloadWriteErrorTemplateConstant, destinationPath, createError)
	}

	_, copyError := io.Copy(destinationFile, response.Body)
	closeError := destinationFile.Close()
	if copyError != nil {
		return fmt.Errorf(downloadWriteErrorTemplateConstant, destinationPath, copyError)
	}
	if closeError != nil {
		return fmt.Errorf(downloadWriteErrorTemplateConstant, destinationPath, closeError)
	}

	return nil
}
