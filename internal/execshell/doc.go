// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging via ShellExecutor, exposes OSCommandRunner for
// default process execution, and defines abstractions used throughout
// jsr_scripts to run npm, yarn, pnpm, bun, and the cached deno publish binary
// in a testable manner.
package execshell
