// Package xapk converts XAPK bundles into APKS archives.
//
// Repackager extracts the bundle into a scratch directory, interprets its
// manifest.json, stages the base and split APKs under the names installers
// expect, writes the meta.sai_v1.json and meta.sai_v2.json documents, and
// compresses the staging directory into the output archive. Scratch
// directories are removed on every exit path and a failed run never leaves a
// partial output archive behind.
package xapk
