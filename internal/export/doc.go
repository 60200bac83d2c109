// Package export writes finished match results to CSV or JSON files.
package export
