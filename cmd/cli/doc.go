// Package cli constructs the xapkconv command-line interface, wiring the Cobra
// root command, the configuration loader and structured logging. It exposes
// helpers to build reusable application instances and to execute the command
// with the process arguments.
package cli
