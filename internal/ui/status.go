package ui

import (
	"fmt"
	"io"
	"os"
)

const (
	statusLabelTemplateConstant   = "%s..."
	statusSuccessMessageConstant  = "ok"
	statusFailureMessageConstant  = "error"
	statusMessageSuffixConstant   = "\n"
	statusSeparatorSpaceConstant  = " "
	statusEmptyLabelValueConstant = ""
)

// StatusReporter frames an operation with start and outcome console text.
type StatusReporter struct {
	writer io.Writer
}

// NewStatusReporter constructs a reporter writing to the provided writer,
// defaulting to standard output.
func NewStatusReporter(writer io.Writer) *StatusReporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &StatusReporter{writer: writer}
}

// Run prints "<label>...", invokes the action, and prints "ok" on success or
// "error" on failure. The action's error is re-propagated unmodified; the
// reporter never swallows failures and never retries.
func (reporter *StatusReporter) Run(label string, action func() error) error {
	if label != statusEmptyLabelValueConstant {
		fmt.Fprintf(reporter.writer, statusLabelTemplateConstant+statusSeparatorSpaceConstant, label)
	}

	actionError := action()
	if actionError != nil {
		fmt.Fprint(reporter.writer, statusFailureMessageConstant+statusMessageSuffixConstant)
		return actionError
	}

	fmt.Fprint(reporter.writer, statusSuccessMessageConstant+statusMessageSuffixConstant)
	return nil
}
