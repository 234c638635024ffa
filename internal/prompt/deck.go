package prompt

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/nikhilbhutani/voicedeck/internal/llm"
)

//go:embed deck_example.json
var deckExample string

// DeckSystemTemplate frames the model as a slides.com API helper and shows one
// complete deck definition.
const DeckSystemTemplate = `You are a world-class developer specializing in APIs.
You help clients send a POST request to the Slides.com API by transforming transcripts of their voice notes into JSON that is accepted by the API.
Follow the example below delimited by <example></example> tags.
<example>
{{example}}
</example>

Reply with the JSON document only. Do not add any introduction, explanation, or closing remark, and do not wrap the JSON in a code fence.`

// DeckUserTemplate wraps the transcript in <voice> tags.
const DeckUserTemplate = `Transform the transcript of the voice note delimited in <voice></voice> XML tags. <voice>{{transcript}}</voice>`

var voiceTag = regexp.MustCompile(`(?i)<\s*(/?)\s*voice\s*>`)

// NeutralizeDelimiters rewrites <voice> and </voice> tags inside user content
// to [voice] and [/voice] so the transcript cannot close its own delimiter.
func NeutralizeDelimiters(s string) string {
	return voiceTag.ReplaceAllString(s, "[${1}voice]")
}

var systemPrompt = sync.OnceValues(func() (string, error) {
	return Render(DeckSystemTemplate, map[string]string{"example": strings.TrimSpace(deckExample)})
})

// DeckSystemPrompt returns the rendered system message.
func DeckSystemPrompt() (string, error) {
	return systemPrompt()
}

// BuildDeckMessages returns the system and user messages for one synthesis.
func BuildDeckMessages(transcript string) ([]llm.Message, error) {
	system, err := DeckSystemPrompt()
	if err != nil {
		return nil, fmt.Errorf("render system prompt: %w", err)
	}
	user, err := Render(DeckUserTemplate, map[string]string{"transcript": NeutralizeDelimiters(transcript)})
	if err != nil {
		return nil, fmt.Errorf("render user prompt: %w", err)
	}
	return []llm.Message{
		{Role: llm.RoleSystem, Content: system},
		{Role: llm.RoleUser, Content: user},
	}, nil
}
