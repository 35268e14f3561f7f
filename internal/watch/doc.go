// Package watch re-runs a callback whenever one of a fixed set of files in a
// directory is written or (re)created. The CLI uses it for --watch mode to
// regenerate the story when the CSV exports change.
package watch
