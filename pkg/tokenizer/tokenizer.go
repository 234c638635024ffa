// Package tokenizer estimates prompt sizes without a model vocabulary.
package tokenizer

import (
	"strings"
	"unicode/utf8"
)

// Estimate returns a rough token count for English text: the larger of
// about four characters per token and four tokens per three words.
func Estimate(text string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	byChars := (utf8.RuneCountInString(text) + 3) / 4
	byWords := len(strings.Fields(text)) * 4 / 3
	return max(byChars, byWords, 1)
}

// EstimateAll sums Estimate over texts.
func EstimateAll(texts ...string) int {
	n := 0
	for _, t := range texts {
		n += Estimate(t)
	}
	return n
}
