package prompt

import "strings"

var injectionPatterns = []struct {
	pattern string
	weight  float64
	flag    string
}{
	{"ignore previous instructions", 0.9, "override_attempt"},
	{"ignore all previous", 0.9, "override_attempt"},
	{"disregard your instructions", 0.9, "override_attempt"},
	{"forget your instructions", 0.85, "override_attempt"},
	{"you are now", 0.7, "role_hijack"},
	{"pretend you are", 0.7, "role_hijack"},
	{"system prompt", 0.8, "system_leak"},
	{"reveal your instructions", 0.8, "system_leak"},
	{"</voice>", 0.8, "tag_injection"},
	{"<voice>", 0.8, "tag_injection"},
	{"</example>", 0.7, "tag_injection"},
}

// InjectionScore rates how much text looks like an attempt to steer the
// model, with one flag per matched pattern family. It never changes text.
func InjectionScore(text string) (float64, []string) {
	lower := strings.ToLower(text)
	var flags []string
	seen := map[string]bool{}
	score := 0.0

	for _, p := range injectionPatterns {
		if !strings.Contains(lower, p.pattern) {
			continue
		}
		if p.weight > score {
			score = p.weight
		}
		if !seen[p.flag] {
			flags = append(flags, p.flag)
			seen[p.flag] = true
		}
	}
	return score, flags
}
