// Package pathutils normalizes user-supplied file paths: it expands home
// directory shortcuts and rewrites archive file names to a portable character set.
package pathutils
