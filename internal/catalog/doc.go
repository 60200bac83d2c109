// Package catalog implements the candidate source backed by the Beatsearch
// HTTP API, with client-side rate limiting and an optional SQLite response
// cache so repeated runs over the same library avoid refetching.
package catalog
