// Package ui provides helpers for formatting human-readable console output.
//
// StatusPrinter renders colored status lines with lipgloss styles that are
// resolved against the destination writer at output time, while
// ConsoleCommandEventLogger translates external command lifecycle events into
// concise console messages. Detailed telemetry continues to flow through
// structured loggers.
package ui
