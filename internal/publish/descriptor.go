package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strings"
)

const (
	defaultReleaseMetadataURLConstant      = "https://dl.deno.land/release-latest.txt"
	downloadURLTemplateConstant            = "https://dl.deno.land/release/%s/deno-%s"
	metadataRequestErrorTemplateConstant   = "unable to request release metadata from %s: %w"
	metadataStatusErrorTemplateConstant    = "release metadata request to %s returned status %d"
	metadataBodyErrorTemplateConstant      = "unable to read release metadata from %s: %w"
	metadataVersionEmptyTemplateConstant   = "release metadata from %s did not contain a version"
	unsupportedPlatformTemplateConstant    = "no deno release target for %s/%s"
	httpClientMissingErrorMessageConstant  = "http client not configured"
	linuxAmd64ReleaseTargetConstant        = "x86_64-unknown-linux-gnu"
	linuxArm64ReleaseTargetConstant        = "aarch64-unknown-linux-gnu"
	darwinAmd64ReleaseTargetConstant       = "x86_64-apple-darwin"
	darwinArm64ReleaseTargetConstant       = "aarch64-apple-darwin"
	windowsAmd64ReleaseTargetConstant      = "x86_64-pc-windows-msvc"
	platformKeySeparatorValueConstant      = "/"
	operatingSystemLinuxKeyConstant        = "linux"
	operatingSystemDarwinKeyConstant       = "darwin"
	operatingSystemWindowsKeyConstant      = "windows"
	architectureAmd64KeyConstant           = "amd64"
	architectureArm64KeyConstant           = "arm64"
)

// ErrHTTPClientNotConfigured indicates resolver construction without a client.
var ErrHTTPClientNotConfigured = errors.New(httpClientMissingErrorMessageConstant)

var releaseTargetsByPlatform = map[string]string{
	operatingSystemLinuxKeyConstant + platformKeySeparatorValueConstant + architectureAmd64KeyConstant:   linuxAmd64ReleaseTargetConstant,
	operatingSystemLinuxKeyConstant + platformKeySeparatorValueConstant + architectureArm64KeyConstant:   linuxArm64ReleaseTargetConstant,
	operatingSystemDarwinKeyConstant + platformKeySeparatorValueConstant + architectureAmd64KeyConstant:  darwinAmd64ReleaseTargetConstant,
	operatingSystemDarwinKeyConstant + platformKeySeparatorValueConstant + architectureArm64KeyConstant:  darwinArm64ReleaseTargetConstant,
	operatingSystemWindowsKeyConstant + platformKeySeparatorValueConstant + architectureAmd64KeyConstant: windowsAmd64ReleaseTargetConstant,
}

// HTTPClient abstracts HTTP request execution for metadata and downloads.
type HTTPClient interface {
	Do(request *http.Request) (*http.Response, error)
}

// DownloadDescriptor identifies a concrete deno release binary.
type DownloadDescriptor struct {
	Version     string
	DownloadURL string
}

// ReleaseTargetFor maps a GOOS/GOARCH pair to the deno release target triple.
func ReleaseTargetFor(operatingSystem string, architecture string) (string, error) {
	target, supported := releaseTargetsByPlatform[operatingSystem+platformKeySeparatorValueConstant+architecture]
	if !supported {
		return "", fmt.Errorf(unsupportedPlatformTemplateConstant, operatingSystem, architecture)
	}
	return target, nil
}

// MetadataResolver discovers the latest deno release and its download URL.
type MetadataResolver struct {
	httpClient  HTTPClient
	metadataURL string
}

// NewMetadataResolver constructs a resolver using the provided client and an
// optional metadata URL override.
func NewMetadataResolver(httpClient HTTPClient, metadataURL string) (*MetadataResolver, error) {
	if httpClient == nil {
		return nil, ErrHTTPClientNotConfigured
	}

	resolvedMetadataURL := strings.TrimSpace(metadataURL)
	if len(resolvedMetadataURL) == 0 {
		resolvedMetadataURL = defaultReleaseMetadataURLConstant
	}

	return &MetadataResolver{httpClient: httpClient, metadataURL: resolvedMetadataURL}, nil
}

// ResolveDescriptor fetches the latest release version and builds the download
// URL for the current platform.
func (resolver *MetadataResolver) ResolveDescriptor(resolutionContext context.Context) (DownloadDescriptor, error) {
	releaseTarget, targetError := ReleaseTargetFor(runtime.GOOS, runtime.GOARCH)
	if targetError != nil {
		return DownloadDescriptor{}, targetError
	}

	request, requestError := http.NewRequestWithContext(resolutionContext, http.MethodGet, resolver.metadataURL, nil)
	if requestError != nil {
		return DownloadDescriptor{}, fmt.Errorf(metadataRequestErrorTemplateConstant, resolver.metadataURL, requestError)
	}

	response, responseError := resolver.httpClient.Do(request)
	if responseError != nil {
		return DownloadDescriptor{}, fmt.Errorf(metadataRequestErrorTemplateConstant, resolver.metadataURL, responseError)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return DownloadDescriptor{}, fmt.Errorf(metadataStatusErrorTemplateConstant, resolver.metadataURL, response.StatusCode)
	}

	bodyContents, bodyError := io.ReadAll(response.Body)
	if bodyError != nil {
		return DownloadDescriptor{}, fmt.Errorf(metadataBodyErrorTemplateConstant, resolver.metadataURL, bodyError)
	}

	releaseVersion := strings.TrimSpace(string(bodyContents))
	if len(releaseVersion) == 0 {
		return DownloadDescriptor{}, fmt.Errorf(metadataVersionEmptyTemplateConstant, resolver.metadataURL)
	}

	return DownloadDescriptor{
		Version:     releaseVersion,
		DownloadURL: fmt.Sprintf(downloadURLTemplateConstant, releaseVersion, releaseTarget),
	}, nil
}
