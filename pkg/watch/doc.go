// Package watch re-runs verification when its input files change.
//
// The watcher subscribes to the parent directories of the watched files
// rather than the files themselves, so editors and exporters that replace
// a file by rename are still seen. Events for other files in those
// directories are ignored. Bursts of events are collapsed by a Debouncer
// and runs never overlap.
package watch
