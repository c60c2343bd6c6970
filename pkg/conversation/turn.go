// Package conversation holds the question/answer history of a chat session.
package conversation

import "strings"

// Turn is one completed question/answer round trip together with the
// context snippets the backend retrieved for it. Turns are never modified
// after they are appended.
type Turn struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Context  []string `json:"context"`
}

// ContextText is the context panel's text: snippets joined by newlines.
func (t Turn) ContextText() string {
	return strings.Join(t.Context, "\n")
}
