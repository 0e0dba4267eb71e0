// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging via ShellExecutor, exposes OSCommandRunner for
// default process execution with buffered or line-streamed output, and defines
// the abstractions xapkconv uses to run the patch tool in a testable manner.
package execshell
