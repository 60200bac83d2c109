// Package library builds the track list the matcher consumes: crate exports
// in CSV form and directories of tagged audio files.
package library
