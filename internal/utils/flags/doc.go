// Package flags provides helpers for binding toggle flags and formatting flag usage for Cobra commands.
package flags
