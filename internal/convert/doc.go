// Package convert implements the xapkconv command: it sanitizes the input file
// name, converts XAPK bundles into APKS archives and optionally hands the
// result to the external patch tool.
package convert
