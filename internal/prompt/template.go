package prompt

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// ErrMissingVariable is returned by Render when a placeholder has no value.
var ErrMissingVariable = errors.New("missing prompt variable")

var placeholder = regexp.MustCompile(`\{\{\s*([A-Za-z][A-Za-z0-9_]*)\s*\}\}`)

// Render fills the {{name}} placeholders of tmpl in a single pass, so values
// that themselves look like placeholders are copied through untouched.
func Render(tmpl string, vars map[string]string) (string, error) {
	var missing []string
	out := placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := placeholder.FindStringSubmatch(m)[1]
		v, ok := vars[name]
		if !ok {
			if !slices.Contains(missing, name) {
				missing = append(missing, name)
			}
			return m
		}
		return v
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s", ErrMissingVariable, strings.Join(missing, ", "))
	}
	return out, nil
}

// Placeholders lists the distinct placeholder names of tmpl in order of
// first appearance.
func Placeholders(tmpl string) []string {
	var names []string
	for _, m := range placeholder.FindAllStringSubmatch(tmpl, -1) {
		if !slices.Contains(names, m[1]) {
			names = append(names, m[1])
		}
	}
	return names
}
