package matching

import "strings"

// GenerateQueries builds the ordered, deduplicated search plan for one track.
// Earlier queries are the most specific; later ones trade precision for
// recall. The output is deterministic for a given track and settings.
func GenerateQueries(track Track, settings Settings) []Query {
	settings = settings.withDefaults()
	profile := newTrackProfile(track)
	return generateQueries(profile, settings)
}

func generateQueries(profile trackProfile, settings Settings) []Query {
	gen := queryBuilder{seen: make(map[string]struct{})}

	artist := profile.primaryArtist()
	allArtists := profile.joinedArtists()

	// Most specific first: the full cleaned title with artist context, then
	// the title paired with each credited artist on its own.
	gen.add(joinFields(profile.title, allArtists), QueryOriginPriority)
	for _, credited := range profile.artists {
		gen.add(joinFields(profile.title, credited), QueryOriginPriority)
	}
	gen.add(joinFields(profile.bareTitle, allArtists), QueryOriginPriority)
	gen.add(profile.title, QueryOriginPriority)

	// Artist-leading order catches catalogs that index that way.
	gen.add(joinFields(allArtists, profile.title), QueryOriginReverse)
	gen.add(joinFields(artist, profile.bareTitle), QueryOriginReverse)
	if profile.altArtist != "" {
		gen.add(joinFields(profile.altArtist, profile.altTitle), QueryOriginReverse)
		gen.add(joinFields(profile.altTitle, profile.altArtist), QueryOriginReverse)
	}

	// Token windows over the bare title recover matches for retitled edits.
	bareTokens := tokenize(profile.bareTitle)
	window := settings.NgramWindow
	if window > 1 && len(bareTokens) > window {
		for start := 0; start+window <= len(bareTokens); start++ {
			phrase := strings.Join(bareTokens[start:start+window], " ")
			gen.add(joinFields(phrase, artist), QueryOriginNgram)
		}
	}
	gen.add(profile.bareTitle, QueryOriginNgram)

	// Remix variants reconstruct the clause forms catalogs actually use.
	if profile.remixFlagged() {
		base := profile.bareTitle
		remixer := profile.mix.remixerDisplay
		if remixer != "" {
			gen.add(joinFields(base, remixer, "remix"), QueryOriginRemix)
			gen.add(joinFields(base, remixer, "extended remix"), QueryOriginRemix)
			gen.add(joinFields(base, remixer), QueryOriginRemix)
		}
		gen.add(joinFields(base, "remix"), QueryOriginRemix)
		gen.add(joinFields(artist, base, "remix"), QueryOriginRemix)
	} else if profile.mix.present {
		gen.add(joinFields(profile.bareTitle, allArtists, "extended mix"), QueryOriginRemix)
		gen.add(joinFields(profile.bareTitle, allArtists, "original mix"), QueryOriginRemix)
	}

	// A distinguishing parenthetical often only matches when quoted verbatim.
	if profile.special != "" {
		gen.add(joinFields(profile.bareTitle, profile.special, artist), QueryOriginSpecial)
		gen.add(joinFields(profile.special, artist), QueryOriginSpecial)
	}

	limit := settings.MaxQueries
	if profile.remixFlagged() {
		limit = settings.RemixMaxQueries
	}
	if limit > 0 && len(gen.queries) > limit {
		gen.queries = gen.queries[:limit]
	}
	return gen.queries
}

type queryBuilder struct {
	queries []Query
	seen    map[string]struct{}
}

// add appends a query unless an equivalent one (same tokens, any case or
// order of whitespace) was already emitted.
func (b *queryBuilder) add(text string, origin QueryOrigin) {
	text = strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
	if text == "" {
		return
	}
	key := strings.Join(tokenize(text), " ")
	if key == "" {
		return
	}
	if _, dup := b.seen[key]; dup {
		return
	}
	b.seen[key] = struct{}{}
	b.queries = append(b.queries, Query{
		Text:   text,
		Index:  len(b.queries),
		Origin: origin,
	})
}

func joinFields(parts ...string) string {
	kept := parts[:0]
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, " ")
}
