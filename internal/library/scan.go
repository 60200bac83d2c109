package library

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/dhowden/tag"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"cratematch/internal/logging"
	"cratematch/internal/matching"
	"cratematch/internal/services"
)

var audioExtensions = map[string]struct{}{
	".mp3": {}, ".flac": {}, ".m4a": {}, ".ogg": {}, ".aiff": {}, ".aif": {}, ".wav": {},
}

// ScanDirectory walks a directory tree and builds one track per audio file.
// Embedded tags supply title and artist; files without usable tags fall back
// to a title derived from the filename. Unreadable files are logged and
// skipped, never fatal. Results are sorted by path for deterministic runs.
func ScanDirectory(root string, logger *slog.Logger) ([]matching.Track, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	log := logging.NewComponentLogger(logger, "library")

	info, err := os.Stat(root)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "library", "scan", "stat scan root", err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrValidation, "library", "scan", "scan root is not a directory", nil)
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if _, ok := audioExtensions[strings.ToLower(filepath.Ext(path))]; ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, services.Wrap(services.ErrBackend, "library", "scan", "walk library directory", err)
	}
	sort.Strings(paths)

	tracks := make([]matching.Track, 0, len(paths))
	for _, path := range paths {
		track, err := trackFromFile(path)
		if err != nil {
			log.Warn("skipping unreadable file",
				logging.String("path", path),
				logging.Error(err))
			continue
		}
		tracks = append(tracks, track)
	}
	log.Info("library scan complete",
		logging.String("root", root),
		logging.Int("tracks", len(tracks)))
	return tracks, nil
}

func trackFromFile(path string) (matching.Track, error) {
	file, err := os.Open(path)
	if err != nil {
		return matching.Track{}, err
	}
	defer file.Close()

	track := matching.Track{ID: uuid.NewString()}
	meta, err := tag.ReadFrom(file)
	if err == nil {
		track.Title = strings.TrimSpace(meta.Title())
		if artist := strings.TrimSpace(meta.Artist()); artist != "" {
			track.Artists = splitTaggedArtists(artist)
		}
		track.Year = meta.Year()
		if raw, ok := meta.Raw()["initialkey"]; ok {
			if key, ok := raw.(string); ok {
				track.Key = strings.TrimSpace(key)
			}
		}
	}
	if track.Title == "" {
		track.Title = deriveTitle(path)
	}
	return track, nil
}

// splitTaggedArtists breaks a tag's artist field on the separators DJ tools
// commonly write.
func splitTaggedArtists(raw string) []string {
	parts := []string{raw}
	for _, sep := range []string{";", " / ", ", "} {
		var next []string
		for _, part := range parts {
			next = append(next, strings.Split(part, sep)...)
		}
		parts = next
	}
	var artists []string
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			artists = append(artists, part)
		}
	}
	return artists
}

// deriveTitle recovers a presentable title from a filename when tags are
// missing.
func deriveTitle(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		return "Unknown Track"
	}
	return cases.Title(language.Und).String(title)
}
