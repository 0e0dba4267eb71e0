// Package patch runs the external man-in-the-middle patch tool on an APKS archive.
//
// The tool is located on the search path before launch. Its merged output is
// relayed line by line while it runs and a non-zero exit status is reported to
// the caller rather than treated as a failure.
package patch
