package usecase

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minQueryRunes  = 3
	maxQueryLength = 100
)

var (
	// specialCharsRegex removes characters that cause USDA API/nginx proxy errors
	specialCharsRegex = regexp.MustCompile(`[#%+@!^*()=\[\]{}<>|\\~` + "`" + `]`)

	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// searchable reports whether query is long enough to search for
func searchable(query string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(query)) >= minQueryRunes
}

// upstreamQuery cleans user input for the USDA search endpoint.
// "&" becomes "and", characters the API rejects are dropped and the result is
// capped at maxQueryLength, cut at a word boundary when one is close.
func upstreamQuery(query string) string {
	cleaned := strings.ReplaceAll(query, "&", " and ")
	cleaned = specialCharsRegex.ReplaceAllString(cleaned, " ")
	cleaned = multiSpacePattern.ReplaceAllString(cleaned, " ")
	cleaned = strings.TrimSpace(cleaned)

	if len(cleaned) > maxQueryLength {
		cut := cleaned[:maxQueryLength]
		for !utf8.ValidString(cut) {
			cut = cut[:len(cut)-1]
		}
		if lastSpace := strings.LastIndex(cut, " "); lastSpace > maxQueryLength/2 {
			cut = cut[:lastSpace]
		}
		cleaned = cut
	}
	return cleaned
}

// searchCacheKey is the cache key for a search; equivalent queries share a key
func searchCacheKey(query string) string {
	return "food:search:" + foldText(query)
}
