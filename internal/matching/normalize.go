package matching

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

var (
	whitespacePattern    = regexp.MustCompile(`\s+`)
	bracketNumberPattern = regexp.MustCompile(`^\s*[\[(]\s*\d+\s*[\])]\s*[-–._:]*\s*`)
	parenClausePattern   = regexp.MustCompile(`[(\[]([^)\]]*)[)\]]`)
)

// mix keywords that mark a parenthetical clause as a mix-type clause.
var mixKeywords = map[string]struct{}{
	"mix": {}, "remix": {}, "edit": {}, "dub": {}, "rework": {}, "refix": {},
	"flip": {}, "bootleg": {}, "vip": {}, "instrumental": {}, "remaster": {},
	"remastered": {}, "acapella": {},
}

// remix-family keywords: the candidate is a derivative work, not the original.
var remixKeywords = map[string]struct{}{
	"remix": {}, "rework": {}, "refix": {}, "flip": {}, "bootleg": {}, "vip": {},
}

// mix descriptor words that never identify a remixer.
var mixDescriptorTokens = map[string]struct{}{
	"original": {}, "extended": {}, "club": {}, "radio": {}, "short": {},
	"long": {}, "vocal": {}, "main": {}, "full": {}, "album": {}, "single": {},
}

// stop tokens excluded from the distinctive-token sets used by the subset
// guard and the shared-artist check.
var stopTokens = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "of": {}, "and": {}, "or": {}, "in": {},
	"on": {}, "to": {}, "for": {}, "feat": {}, "featuring": {}, "ft": {},
	"vs": {}, "with": {}, "pres": {}, "presents": {},
}

var featPattern = regexp.MustCompile(`(?i)^(?:feat|featuring|ft)[. ]`)

// CleanTitle normalizes a raw library title for query construction: strips
// bracket-prefixed numbering and control characters and collapses whitespace.
// Case is preserved; comparisons happen on tokens, not on this string.
func CleanTitle(raw string) string {
	cleaned := bracketNumberPattern.ReplaceAllString(raw, "")
	var builder strings.Builder
	for _, r := range cleaned {
		if unicode.IsControl(r) {
			continue
		}
		builder.WriteRune(r)
	}
	out := whitespacePattern.ReplaceAllString(builder.String(), " ")
	return strings.TrimSpace(out)
}

// tokenize lowercases and splits on anything that is not a letter or digit.
func tokenize(value string) []string {
	return splitWords(strings.ToLower(value))
}

// splitWords splits like tokenize but keeps the original case.
func splitWords(value string) []string {
	return strings.FieldsFunc(value, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func uniqueTokens(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}
	return out
}

func sortedJoin(tokens []string) string {
	unique := uniqueTokens(tokens)
	sort.Strings(unique)
	return strings.Join(unique, " ")
}

// distinctiveTokens drops stop words and mix vocabulary, leaving the tokens
// that actually identify a title.
func distinctiveTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, token := range uniqueTokens(tokens) {
		if _, ok := stopTokens[token]; ok {
			continue
		}
		if _, ok := mixKeywords[token]; ok {
			continue
		}
		if _, ok := mixDescriptorTokens[token]; ok {
			continue
		}
		out = append(out, token)
	}
	return out
}

func sharedTokenCount(a, b []string) int {
	set := make(map[string]struct{}, len(a))
	for _, token := range a {
		set[token] = struct{}{}
	}
	shared := 0
	for _, token := range uniqueTokens(b) {
		if _, ok := set[token]; ok {
			shared++
		}
	}
	return shared
}

type mixFamily int

const (
	mixFamilyOriginal mixFamily = iota
	mixFamilyRemix
)

// mixInfo describes the mix-type clause of a title, if any.
type mixInfo struct {
	clause  string // normalized clause text, e.g. "camelphat extended remix"
	family  mixFamily
	present bool
	remixer string // normalized remixer phrase for remix-family clauses

	// remixerDisplay keeps the remixer's original casing for emitted queries.
	remixerDisplay string
}

// detectMix scans parenthetical clauses for mix vocabulary. The last matching
// clause wins; everything after a stray "feat." clause is ignored for remixer
// extraction.
func detectMix(title string) mixInfo {
	info := mixInfo{}
	for _, match := range parenClausePattern.FindAllStringSubmatch(title, -1) {
		words := splitWords(match[1])
		tokens := tokenize(match[1])
		if len(tokens) == 0 || !containsMixKeyword(tokens) {
			continue
		}
		info.present = true
		info.clause = strings.Join(tokens, " ")
		info.family = mixFamilyOriginal
		if containsRemixKeyword(tokens) {
			info.family = mixFamilyRemix
		}
		info.remixer, info.remixerDisplay = extractRemixer(words)
	}
	// A bare trailing "Artist Remix" without parentheses still flags a remix.
	if !info.present {
		words := splitWords(title)
		tokens := tokenize(title)
		if len(tokens) > 1 && containsRemixKeyword(tokens[len(tokens)-1:]) {
			info.present = true
			info.family = mixFamilyRemix
			start := len(tokens) - 2
			if start < 0 {
				start = 0
			}
			info.clause = strings.Join(tokens[start:], " ")
			info.remixer, info.remixerDisplay = extractRemixer(words[start:])
		}
	}
	return info
}

func containsMixKeyword(tokens []string) bool {
	for _, token := range tokens {
		if _, ok := mixKeywords[token]; ok {
			return true
		}
	}
	return false
}

func containsRemixKeyword(tokens []string) bool {
	for _, token := range tokens {
		if _, ok := remixKeywords[token]; ok {
			return true
		}
	}
	return false
}

// extractRemixer filters mix vocabulary out of a clause, returning the
// remixer phrase in both normalized and original-case forms.
func extractRemixer(words []string) (normalized, display string) {
	named := make([]string, 0, len(words))
	for _, word := range words {
		token := strings.ToLower(word)
		if _, ok := mixKeywords[token]; ok {
			continue
		}
		if _, ok := mixDescriptorTokens[token]; ok {
			continue
		}
		if _, ok := stopTokens[token]; ok {
			continue
		}
		named = append(named, word)
	}
	display = strings.Join(named, " ")
	return strings.ToLower(display), display
}

type mixRelation int

const (
	mixRelationSame mixRelation = iota
	mixRelationRelated
	mixRelationConflict
)

// relateMix compares the mix requested by the track with the mix a candidate
// offers. Absent clauses mean the original was requested or offered; an
// explicit "Original Mix" clause is the same thing.
func relateMix(track, candidate mixInfo) mixRelation {
	if track.family != candidate.family {
		return mixRelationConflict
	}
	if normalizeMixClause(track.clause) == normalizeMixClause(candidate.clause) {
		return mixRelationSame
	}
	return mixRelationRelated
}

func normalizeMixClause(clause string) string {
	if clause == "original mix" || clause == "original" {
		return ""
	}
	return clause
}

// stripClauses removes every parenthetical clause, producing the bare title
// used for n-gram and substitution queries.
func stripClauses(title string) string {
	out := parenClausePattern.ReplaceAllString(title, " ")
	out = whitespacePattern.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// specialPhrase returns the first parenthetical qualifier that is neither a
// mix clause nor a featured-artist credit, e.g. "(Intro Version)".
func specialPhrase(title string) string {
	for _, match := range parenClausePattern.FindAllStringSubmatch(title, -1) {
		clause := strings.TrimSpace(match[1])
		if clause == "" {
			continue
		}
		if featPattern.MatchString(clause) {
			continue
		}
		if containsMixKeyword(tokenize(clause)) {
			continue
		}
		return clause
	}
	return ""
}

// splitCombinedTitle guesses the artist/title halves of a combined
// "Artist - Title" string. The caller emits queries for both interpretations.
func splitCombinedTitle(title string) (artist, rest string, ok bool) {
	for _, sep := range []string{" - ", " – ", " — "} {
		if idx := strings.Index(title, sep); idx > 0 {
			left := strings.TrimSpace(title[:idx])
			right := strings.TrimSpace(title[idx+len(sep):])
			if left != "" && right != "" {
				return left, right, true
			}
		}
	}
	return "", "", false
}

// yearFromDate extracts a 4-character year prefix from a date string
// (e.g. "2017-06-02" -> 2017).
func yearFromDate(date string) int {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return 0
	}
	year := 0
	for _, r := range date[:4] {
		if r < '0' || r > '9' {
			return 0
		}
		year = year*10 + int(r-'0')
	}
	return year
}
