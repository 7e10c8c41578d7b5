// Package file keeps medexpert settings in ~/.medexpert/config.toml.
//
// Dotted keys are written as nested TOML tables, so "sessions.backend"
// appears as backend under a [sessions] table. Writes go through a
// temporary file and a rename.
//
// A Watcher reloads the store when another process or an editor changes
// the file.
package file
