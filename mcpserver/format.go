package mcpserver

import (
	"fmt"
	"strings"

	"github.com/papercomputeco/ragchat/pkg/conversation"
)

func formatTurns(turns []conversation.Turn) string {
	if len(turns) == 0 {
		return "No questions asked yet."
	}

	var b strings.Builder
	for i, t := range turns {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Q: %s\nA: %s", t.Question, t.Answer)
		if len(t.Context) > 0 {
			fmt.Fprintf(&b, "\nContext:\n%s", t.ContextText())
		}
	}
	return b.String()
}
