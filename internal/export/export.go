package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"cratematch/internal/matching"
	"cratematch/internal/services"
)

// Format names accepted by Write.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// Write renders results in the named format to the given directory and
// returns the path of the file it created. Filenames embed a UTC timestamp so
// successive runs never clobber each other.
func Write(dir, format string, results []matching.TrackResult) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", services.Wrap(services.ErrConfiguration, "export", "write", "create export directory", err)
	}
	stamp := time.Now().UTC().Format("20060102-150405")
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatCSV:
		path := filepath.Join(dir, fmt.Sprintf("matches-%s.csv", stamp))
		return path, writeFile(path, func(w io.Writer) error { return WriteCSV(w, results) })
	case FormatJSON:
		path := filepath.Join(dir, fmt.Sprintf("matches-%s.json", stamp))
		return path, writeFile(path, func(w io.Writer) error { return WriteJSON(w, results) })
	default:
		return "", services.Wrap(services.ErrValidation, "export", "write",
			fmt.Sprintf("unknown export format %q", format), nil)
	}
}

func writeFile(path string, render func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return services.Wrap(services.ErrBackend, "export", "write", "create export file", err)
	}
	if err := render(file); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}
	if err := file.Close(); err != nil {
		return services.Wrap(services.ErrBackend, "export", "write", "flush export file", err)
	}
	return nil
}

var csvHeader = []string{
	"track_title", "track_artists", "matched", "confidence", "score",
	"match_title", "match_artists", "label", "key", "release_date", "url",
	"needs_review", "review_reasons",
}

// WriteCSV renders one row per track with the winning candidate's fields, or
// empty candidate columns for unmatched tracks.
func WriteCSV(w io.Writer, results []matching.TrackResult) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return services.Wrap(services.ErrBackend, "export", "write-csv", "write header", err)
	}
	for _, res := range results {
		row := []string{
			res.Track.Title,
			strings.Join(res.Track.Artists, "; "),
			strconv.FormatBool(res.Matched),
			string(res.Confidence),
			formatScore(res),
			"", "", "", "", "", "",
			strconv.FormatBool(res.NeedsReview),
			strings.Join(res.ReviewReasons, "; "),
		}
		if res.Best != nil {
			row[5] = res.Best.Title
			row[6] = strings.Join(res.Best.Artists, "; ")
			row[7] = res.Best.Label
			row[8] = res.Best.Key
			row[9] = res.Best.ReleaseDate
			row[10] = res.Best.URL
		}
		if err := writer.Write(row); err != nil {
			return services.Wrap(services.ErrBackend, "export", "write-csv", "write row", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteJSON renders the full audit trail for every track.
func WriteJSON(w io.Writer, results []matching.TrackResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(results); err != nil {
		return services.Wrap(services.ErrBackend, "export", "write-json", "encode results", err)
	}
	return nil
}

func formatScore(res matching.TrackResult) string {
	if res.Best == nil {
		return ""
	}
	return strconv.FormatFloat(res.Best.FinalScore, 'f', 2, 64)
}
