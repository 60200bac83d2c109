package matching

import "strings"

// trackProfile caches the normalized view of a track that the generator,
// evaluator, and guards all need. Built once per pipeline run.
type trackProfile struct {
	title       string // cleaned title, original case
	bareTitle   string // cleaned title with parenthetical clauses removed
	titleTokens []string
	distinctive []string

	artists      []string // original case; possibly recovered from the title
	artistTokens []string

	mix     mixInfo
	special string

	// alternate interpretation of a combined "Title - Artist" string; empty
	// when the track carried explicit artists.
	altArtist string
	altTitle  string

	year int
	key  string
}

func newTrackProfile(track Track) trackProfile {
	p := trackProfile{
		title: CleanTitle(track.Title),
		year:  track.Year,
		key:   NormalizeKey(track.Key),
	}

	for _, artist := range track.Artists {
		artist = strings.TrimSpace(artist)
		if artist != "" {
			p.artists = append(p.artists, artist)
		}
	}

	// No artist supplied: try to split a combined "Artist - Title" convention
	// out of the title. Both interpretations are kept; the generator emits
	// queries for each.
	if len(p.artists) == 0 {
		if left, right, ok := splitCombinedTitle(p.title); ok {
			p.artists = []string{left}
			p.title = right
			p.altArtist = right
			p.altTitle = left
		}
	}

	p.bareTitle = stripClauses(p.title)
	if p.bareTitle == "" {
		p.bareTitle = p.title
	}
	p.titleTokens = tokenize(p.title)
	p.distinctive = distinctiveTokens(p.titleTokens)
	p.artistTokens = tokenize(strings.Join(p.artists, " "))
	p.mix = detectMix(p.title)
	p.special = specialPhrase(p.title)
	return p
}

func (p trackProfile) remixFlagged() bool {
	return p.mix.present && p.mix.family == mixFamilyRemix
}

func (p trackProfile) primaryArtist() string {
	if len(p.artists) == 0 {
		return ""
	}
	return p.artists[0]
}

func (p trackProfile) joinedArtists() string {
	return strings.Join(p.artists, " ")
}
