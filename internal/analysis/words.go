package analysis

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/helixir/cord19-explorer/internal/dataset"
)

// TextField selects which free-text field a word frequency query runs over.
type TextField string

const (
	// FieldTitle selects record titles.
	FieldTitle TextField = "title"
	// FieldAbstract selects record abstracts.
	FieldAbstract TextField = "abstract"
)

// WordCount is one entry of a word frequency aggregate.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// DefaultStopwords returns the stopword set used for title word analysis.
func DefaultStopwords() map[string]struct{} {
	words := []string{
		"the", "a", "an", "and", "or", "but", "in", "on", "at", "to",
		"for", "of", "with", "by", "from", "is", "are", "was", "were",
		"be", "been", "have", "has", "had",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// WordFrequency counts word occurrences over the selected text field across
// all records. Words are lower-cased and split on any non-letter, non-digit
// rune; words shorter than two characters and words in the stopword set are
// excluded. Results are ordered by descending count with ties broken
// alphabetically, truncated to topN when topN > 0.
func WordFrequency(rs *dataset.RecordSet, field TextField, topN int, stopwords map[string]struct{}) []WordCount {
	counts := make(map[string]int)
	for i := range rs.Records {
		var text string
		switch field {
		case FieldAbstract:
			text = rs.Records[i].Abstract
		default:
			text = rs.Records[i].Title
		}
		for _, word := range tokenize(text) {
			if utf8.RuneCountInString(word) < 2 {
				continue
			}
			if _, stop := stopwords[word]; stop {
				continue
			}
			counts[word]++
		}
	}

	out := make([]WordCount, 0, len(counts))
	for w, c := range counts {
		out = append(out, WordCount{Word: w, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Word < out[j].Word
	})
	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// tokenize lower-cases text and splits it into words, stripping punctuation.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
