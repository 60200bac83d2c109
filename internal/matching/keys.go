package matching

import "strings"

// camelotKeys maps Camelot wheel codes to canonical key notation.
var camelotKeys = map[string]string{
	"1a": "g# min", "2a": "d# min", "3a": "a# min", "4a": "f min",
	"5a": "c min", "6a": "g min", "7a": "d min", "8a": "a min",
	"9a": "e min", "10a": "b min", "11a": "f# min", "12a": "c# min",
	"1b": "b maj", "2b": "f# maj", "3b": "c# maj", "4b": "g# maj",
	"5b": "d# maj", "6b": "a# maj", "7b": "f maj", "8b": "c maj",
	"9b": "g maj", "10b": "d maj", "11b": "a maj", "12b": "e maj",
}

// flatToSharp collapses enharmonic spellings to the sharp form.
var flatToSharp = map[string]string{
	"ab": "g#", "bb": "a#", "cb": "b", "db": "c#", "eb": "d#", "fb": "e", "gb": "f#",
}

// NormalizeKey canonicalizes musical key notation so the exact-key bonus
// survives notation drift: "F#m", "Gb minor", "Fis"-free spellings, and
// Camelot codes like "11A" all normalize to "f# min". Returns "" when the
// input cannot be interpreted as a key.
func NormalizeKey(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return ""
	}
	value = strings.ReplaceAll(value, "♯", "#")
	value = strings.ReplaceAll(value, "♭", "b")

	if canonical, ok := camelotKeys[value]; ok {
		return canonical
	}

	fields := strings.Fields(value)
	note := fields[0]
	quality := ""
	if len(fields) > 1 {
		quality = strings.Join(fields[1:], " ")
	}

	// Compact forms: "f#m", "am", "cmaj".
	if quality == "" {
		for _, suffix := range []string{"minor", "min", "maj", "major", "m"} {
			if strings.HasSuffix(note, suffix) && len(note) > len(suffix) {
				quality = suffix
				note = note[:len(note)-len(suffix)]
				break
			}
		}
	}

	if mapped, ok := flatToSharp[note]; ok {
		note = mapped
	}
	if !validNote(note) {
		return ""
	}

	switch quality {
	case "m", "min", "minor", "mi":
		quality = "min"
	case "", "maj", "major", "ma":
		quality = "maj"
	default:
		return ""
	}
	return note + " " + quality
}

func validNote(note string) bool {
	switch note {
	case "a", "a#", "b", "c", "c#", "d", "d#", "e", "f", "f#", "g", "g#":
		return true
	}
	return false
}

// keysMatch reports whether two raw key strings denote the same key.
func keysMatch(a, b string) bool {
	na, nb := NormalizeKey(a), NormalizeKey(b)
	return na != "" && na == nb
}
