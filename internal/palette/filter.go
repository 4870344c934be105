package palette

import (
	"sort"
	"strings"
	"unicode"
)

// SearchResult is a matched command with its score.
type SearchResult struct {
	Command *Command

	// Score is the match score (higher is better).
	Score int

	// Matches holds the byte indices of matched characters in the label.
	Matches []int
}

// match scores a command against a lowercased query.
// Label matches weigh more than ID matches, which weigh more than
// description matches.
func match(query string, cmd *Command) (int, []int) {
	if score, m := fuzzy(query, cmd.Label()); score > 0 {
		return score + 50, m
	}
	if score, m := fuzzy(query, cmd.ID); score > 0 {
		return score + 25, m
	}
	if score, m := fuzzy(query, cmd.Description); score > 0 {
		return score, m
	}
	return 0, nil
}

// fuzzy matches query characters in order against text.
func fuzzy(query, text string) (int, []int) {
	if text == "" {
		return 0, nil
	}

	lower := strings.ToLower(text)
	matches := make([]int, 0, len(query))
	qi := 0
	for i := 0; i < len(lower) && qi < len(query); i++ {
		if lower[i] == query[qi] {
			matches = append(matches, i)
			qi++
		}
	}
	if qi != len(query) {
		return 0, nil
	}
	return score(query, text, lower, matches), matches
}

func score(query, text, lower string, matches []int) int {
	s := 100

	for i := 1; i < len(matches); i++ {
		if matches[i] == matches[i-1]+1 {
			s += 20
		}
	}
	for _, idx := range matches {
		if wordBoundary(text, idx) {
			s += 15
		}
	}
	if matches[0] == 0 {
		s += 25
	}
	if len(matches) > 1 {
		if gap := matches[len(matches)-1] - matches[0] - len(matches) + 1; gap > 0 {
			s -= gap * 2
		}
	}
	s -= matches[0]
	if len(text) < 20 {
		s += 20 - len(text)
	}
	if strings.HasPrefix(lower, query) {
		s += 50
	}
	if s < 1 {
		s = 1
	}
	return s
}

func wordBoundary(text string, idx int) bool {
	if idx == 0 {
		return true
	}
	if idx >= len(text) {
		return false
	}

	prev := rune(text[idx-1])
	curr := rune(text[idx])
	switch prev {
	case '/', '_', '-', '.', ' ', ':':
		return true
	}
	return unicode.IsLower(prev) && unicode.IsUpper(curr)
}

func sortResults(results []SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Command.Label() < results[j].Command.Label()
	})
}
