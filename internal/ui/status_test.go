package ui_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/jsr_scripts/internal/ui"
)

const (
	testStatusLabelConstant           = "Setting up .npmrc"
	testStatusSuccessOutputConstant   = "Setting up .npmrc... ok\n"
	testStatusFailureOutputConstant   = "Setting up .npmrc... error\n"
	testStatusFailureMessageConstant  = "permission denied"
	testStatusSuccessCaseNameConstant = "action_succeeds"
	testStatusFailureCaseNameConstant = "action_fails"
)

func TestStatusReporterRun(testInstance *testing.T) {
	testCases := []struct {
		name           string
		actionError    error
		expectedOutput string
	}{
		{
			name:           testStatusSuccessCaseNameConstant,
			actionError:    nil,
			expectedOutput: testStatusSuccessOutputConstant,
		},
		{
			name:           testStatusFailureCaseNameConstant,
			actionError:    errors.New(testStatusFailureMessageConstant),
			expectedOutput: testStatusFailureOutputConstant,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			outputBuffer := &bytes.Buffer{}
			reporter := ui.NewStatusReporter(outputBuffer)

			runError := reporter.Run(testStatusLabelConstant, func() error {
				return testCase.actionError
			})

			require.Equal(testInstance, testCase.expectedOutput, outputBuffer.String())
			if testCase.actionError != nil {
				require.ErrorIs(testInstance, runError, testCase.actionError)
			} else {
				require.NoError(testInstance, runError)
			}
		})
	}
}

func TestStatusReporterRunDoesNotSwallowActionError(testInstance *testing.T) {
	outputBuffer := &bytes.Buffer{}
	reporter := ui.NewStatusReporter(outputBuffer)
	actionFailure := errors.New(testStatusFailureMessageConstant)

	runError := reporter.Run(testStatusLabelConstant, func() error { return actionFailure })

	require.Equal(testInstance, actionFailure, runError)
}
