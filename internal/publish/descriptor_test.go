package publish_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/jsr_scripts/internal/publish"
)

const (
	releaseVersionConstant     = "v2.1.4"
	releaseMetadataURLConstant = "https://releases.example.test/latest.txt"
)

type stubHTTPClient struct {
	responsesByURL map[string]*http.Response
	requestError   error
	requestedURLs  []string
}

func (client *stubHTTPClient) Do(request *http.Request) (*http.Response, error) {
	client.requestedURLs = append(client.requestedURLs, request.URL.String())
	if client.requestError != nil {
		return nil, client.requestError
	}
	response, found := client.responsesByURL[request.URL.String()]
	if !found {
		return &http.Response{StatusCode: http.StatusNotFound, Body: io.NopCloser(strings.NewReader(""))}, nil
	}
	return response, nil
}

func textResponse(statusCode int, body string) *http.Response {
	return &http.Response{StatusCode: statusCode, Body: io.NopCloser(strings.NewReader(body))}
}

func TestReleaseTargetForKnownPlatforms(testInstance *testing.T) {
	testCases := []struct {
		name            string
		operatingSystem string
		architecture    string
		expectedTarget  string
	}{
		{name: "linux_amd64", operatingSystem: "linux", architecture: "amd64", expectedTarget: "x86_64-unknown-linux-gnu"},
		{name: "linux_arm64", operatingSystem: "linux", architecture: "arm64", expectedTarget: "aarch64-unknown-linux-gnu"},
		{name: "darwin_amd64", operatingSystem: "darwin", architecture: "amd64", expectedTarget: "x86_64-apple-darwin"},
		{name: "darwin_arm64", operatingSystem: "darwin", architecture: "arm64", expectedTarget: "aarch64-apple-darwin"},
		{name: "windows_amd64", operatingSystem: "windows", architecture: "amd64", expectedTarget: "x86_64-pc-windows-msvc"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			releaseTarget, targetError := publish.ReleaseTargetFor(testCase.operatingSystem, testCase.architecture)
			require.NoError(subtest, targetError)
			require.Equal(subtest, testCase.expectedTarget, releaseTarget)
		})
	}
}

func TestReleaseTargetForRejectsUnsupportedPlatforms(testInstance *testing.T) {
	_, targetError := publish.ReleaseTargetFor("plan9", "386")
	require.Error(testInstance, targetError)
	require.Equal(testInstance, "no deno release target for plan9/386", targetError.Error())
}

func TestMetadataResolverBuildsDownloadDescriptor(testInstance *testing.T) {
	httpClient := &stubHTTPClient{
		responsesByURL: map[string]*http.Response{
			releaseMetadataURLConstant: textResponse(http.StatusOK, releaseVersionConstant+"\n"),
		},
	}
	resolver, resolverError := publish.NewMetadataResolver(httpClient, releaseMetadataURLConstant)
	require.NoError(testInstance, resolverError)

	descriptor, resolutionError := resolver.ResolveDescriptor(context.Background())
	require.NoError(testInstance, resolutionError)

	require.Equal(testInstance, releaseVersionConstant, descriptor.Version)

	expectedTarget, targetError := publish.ReleaseTargetFor(runtime.GOOS, runtime.GOARCH)
	require.NoError(testInstance, targetError)
	require.Equal(testInstance, fmt.Sprintf("https://dl.deno.land/release/%s/deno-%s", releaseVersionConstant, expectedTarget), descriptor.DownloadURL)
	require.Equal(testInstance, []string{releaseMetadataURLConstant}, httpClient.requestedURLs)
}

func TestMetadataResolverRejectsNonSuccessStatus(testInstance *testing.T) {
	httpClient := &stubHTTPClient{
		responsesByURL: map[string]*http.Response{
			releaseMetadataURLConstant: textResponse(http.StatusServiceUnavailable, ""),
		},
	}
	resolver, resolverError := publish.NewMetadataResolver(httpClient, releaseMetadataURLConstant)
	require.NoError(testInstance, resolverError)

	_, resolutionError := resolver.ResolveDescriptor(context.Background())

	require.Error(testInstance, resolutionError)
	require.Contains(testInstance, resolutionError.Error(), "returned status 503")
}

func TestMetadataResolverRejectsEmptyVersionBodies(testInstance *testing.T) {
	httpClient := &stubHTTPClient{
		responsesByURL: map[string]*http.Response{
			releaseMetadataURLConstant: textResponse(http.StatusOK, "  \n"),
		},
	}
	resolver, resolverError := publish.NewMetadataResolver(httpClient, releaseMetadataURLConstant)
	require.NoError(testInstance, resolverError)

	_, resolutionError := resolver.ResolveDescriptor(context.Background())

	require.Error(testInstance, resolutionError)
	require.Contains(testInstance, resolutionError.Error(), "did not contain a version")
}

func TestMetadataResolverWrapsTransportFailures(testInstance *testing.T) {
	transportFailure := errors.New("connection refused")
	httpClient := &stubHTTPClient{requestError: transportFailure}
	resolver, resolverError := publish.NewMetadataResolver(httpClient, releaseMetadataURLConstant)
	require.NoError(testInstance, resolverError)

	_, resolutionError := resolver.ResolveDescriptor(context.Background())

	require.Error(testInstance, resolutionError)
	require.ErrorIs(testInstance, resolutionError, transportFailure)
}

func TestNewMetadataResolverRequiresHTTPClient(testInstance *testing.T) {
	_, resolverError := publish.NewMetadataResolver(nil, releaseMetadataURLConstant)
	require.ErrorIs(testInstance, resolverError, publish.ErrHTTPClientNotConfigured)
}
