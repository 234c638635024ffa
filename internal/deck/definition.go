// Package deck turns transcripts into slides.com deck definitions and
// publishes them.
package deck

import (
	"github.com/tidwall/gjson"
)

// Definition is the model reply, kept verbatim. It is expected to be a JSON
// deck but nothing depends on that.
type Definition string

func (d Definition) String() string { return string(d) }

// Summary is a display-only look at a definition.
type Summary struct {
	ValidJSON bool   `json:"valid_json"`
	Title     string `json:"title,omitempty"`
	Slides    int    `json:"slides"`
}

// Inspect reports what can be read from def without changing or rejecting it.
func Inspect(def Definition) Summary {
	s := string(def)
	if !gjson.Valid(s) {
		return Summary{}
	}
	return Summary{
		ValidJSON: true,
		Title:     gjson.Get(s, "title").String(),
		Slides:    len(gjson.Get(s, "slides").Array()),
	}
}
