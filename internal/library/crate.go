package library

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"cratematch/internal/matching"
	"cratematch/internal/services"
)

// crate CSV column order. A header row is detected and skipped.
const (
	colTitle = iota
	colArtist
	colKey
	colYear
	colDuration
)

// ReadCrate parses a crate export CSV into tracks. Expected columns:
// title, artist, key, year, duration. Artist cells may carry multiple
// artists separated by ";". Missing optional columns are tolerated; a row
// without a title is an error naming the offending line.
func ReadCrate(path string) ([]matching.Track, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "library", "read-crate", "open crate file", err)
	}
	defer file.Close()

	tracks, err := parseCrate(file)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "library", "read-crate",
			fmt.Sprintf("parse %s", path), err)
	}
	return tracks, nil
}

// WriteCrate writes tracks as a crate CSV in the same column layout
// ReadCrate expects, header included. Durations render as m:ss.
func WriteCrate(path string, tracks []matching.Track) error {
	file, err := os.Create(path)
	if err != nil {
		return services.Wrap(services.ErrValidation, "library", "write-crate", "create crate file", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"title", "artist", "key", "year", "duration"}); err != nil {
		return services.Wrap(services.ErrTransient, "library", "write-crate", "write header", err)
	}
	for _, track := range tracks {
		year := ""
		if track.Year > 0 {
			year = strconv.Itoa(track.Year)
		}
		duration := ""
		if track.Duration > 0 {
			total := int(track.Duration / time.Second)
			duration = fmt.Sprintf("%d:%02d", total/60, total%60)
		}
		row := []string{track.Title, strings.Join(track.Artists, "; "), track.Key, year, duration}
		if err := writer.Write(row); err != nil {
			return services.Wrap(services.ErrTransient, "library", "write-crate", "write row", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return services.Wrap(services.ErrTransient, "library", "write-crate", "flush crate file", err)
	}
	return nil
}

func parseCrate(r io.Reader) ([]matching.Track, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var tracks []matching.Track
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if line == 1 && isHeaderRow(record) {
			continue
		}
		if isBlankRow(record) {
			continue
		}

		track, err := trackFromRecord(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		tracks = append(tracks, track)
	}
	return tracks, nil
}

func trackFromRecord(record []string) (matching.Track, error) {
	get := func(col int) string {
		if col < len(record) {
			return strings.TrimSpace(record[col])
		}
		return ""
	}

	title := get(colTitle)
	if title == "" {
		return matching.Track{}, fmt.Errorf("missing title")
	}

	track := matching.Track{
		ID:    uuid.NewString(),
		Title: title,
		Key:   get(colKey),
	}
	for _, artist := range strings.Split(get(colArtist), ";") {
		if artist = strings.TrimSpace(artist); artist != "" {
			track.Artists = append(track.Artists, artist)
		}
	}
	if raw := get(colYear); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return matching.Track{}, fmt.Errorf("bad year %q", raw)
		}
		track.Year = year
	}
	if raw := get(colDuration); raw != "" {
		duration, err := parseDuration(raw)
		if err != nil {
			return matching.Track{}, fmt.Errorf("bad duration %q", raw)
		}
		track.Duration = duration
	}
	return track, nil
}

// parseDuration accepts "m:ss", "h:mm:ss", or plain seconds.
func parseDuration(raw string) (time.Duration, error) {
	parts := strings.Split(raw, ":")
	if len(parts) == 1 {
		seconds, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, err
		}
		return time.Duration(seconds) * time.Second, nil
	}
	if len(parts) > 3 {
		return 0, fmt.Errorf("too many segments")
	}
	total := 0
	for _, part := range parts {
		value, err := strconv.Atoi(part)
		if err != nil {
			return 0, err
		}
		total = total*60 + value
	}
	return time.Duration(total) * time.Second, nil
}

func isHeaderRow(record []string) bool {
	if len(record) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(record[0]))
	return first == "title" || first == "track" || first == "name"
}

func isBlankRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
