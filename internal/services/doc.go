// Package services defines the shared error taxonomy and context plumbing used
// by the matching pipeline and its collaborators.
//
// Failures are tagged with sentinel markers so callers can classify them
// (validation vs. transient vs. external backend) without string matching, and
// context helpers carry track and run identifiers into structured logs.
package services
