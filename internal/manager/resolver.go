package manager

import "errors"

const (
	resolverDetectorMissingMessageTxt = "package manager detector not configured"
)

// ErrDetectorNotConfigured indicates resolver construction without a detector.
var ErrDetectorNotConfigured = errors.New(resolverDetectorMissingMessageTxt)

// ExecutorManagerResolver resolves PackageManager variants by combining
// lockfile detection with an execshell-backed executor.
type ExecutorManagerResolver struct {
	detector *Detector
	executor CommandExecutor
}

// NewExecutorManagerResolver constructs a resolver from the provided collaborators.
func NewExecutorManagerResolver(detector *Detector, executor CommandExecutor) (*ExecutorManagerResolver, error) {
	if detector == nil {
		return nil, ErrDetectorNotConfigured
	}
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &ExecutorManagerResolver{detector: detector, executor: executor}, nil
}

// Resolve detects the active manager for the directory and builds its variant.
func (resolver *ExecutorManagerResolver) Resolve(directory string, explicitName string) (PackageManager, error) {
	managerName, detectionError := resolver.detector.Detect(directory, explicitName)
	if detectionError != nil {
		return nil, detectionError
	}
	return NewPackageManager(managerName, resolver.executor, directory)
}
