// Package utils exposes reusable helpers consumed by the xapkconv commands.
//
// It houses ConfigurationLoader and LoggerFactory abstractions that integrate
// Viper, environment variables, and zap logging for the CLI, plus the
// FlushingWriter used to relay external tool output line by line.
package utils
