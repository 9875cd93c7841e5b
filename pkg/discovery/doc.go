// Package discovery finds rotated top logs under a directory tree and
// converts each one to its own output file.
//
// Every file is an independent run: a file that cannot be opened, or whose
// conversion fails, is reported and skipped without stopping the walk.
package discovery
