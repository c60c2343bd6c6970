package widget

import (
	"context"
	"strings"
	"sync"

	"github.com/papercomputeco/ragchat/client"
	"github.com/papercomputeco/ragchat/pkg/rag"
)

const (
	ButtonAsk    = "Ask"
	ButtonAsking = "Asking..."
)

// MessageFunc receives a completed turn.
type MessageFunc func(question, answer string, context []string)

// Chat is the chat widget: the question being typed, a loading flag and
// the text of the last failure.
type Chat struct {
	asker        Asker
	onNewMessage MessageFunc

	mu       sync.Mutex
	question string
	loading  bool
	err      string
}

func NewChat(asker Asker, onNewMessage MessageFunc) *Chat {
	return &Chat{asker: asker, onNewMessage: onNewMessage}
}

func (c *Chat) SetQuestion(text string) {
	c.mu.Lock()
	c.question = text
	c.mu.Unlock()
}

func (c *Chat) Question() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.question
}

func (c *Chat) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns "Error: <message>" for the last failed ask, or "".
func (c *Chat) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// ButtonLabel is the ask button's caption for the current state.
func (c *Chat) ButtonLabel() string {
	if c.Loading() {
		return ButtonAsking
	}
	return ButtonAsk
}

// Begin starts an ask: it reports false when the question is blank or an
// ask is already in flight, otherwise it sets loading and returns the
// question exactly as typed.
func (c *Chat) Begin() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loading || strings.TrimSpace(c.question) == "" {
		return "", false
	}
	c.loading = true
	c.err = ""
	return c.question, true
}

// Finish records the outcome of an ask started with Begin. On success the
// turn goes to the message callback and the input is cleared; on failure
// the question stays in place so it can be resubmitted.
func (c *Chat) Finish(question string, resp *rag.AskResponse, err error) {
	if err != nil {
		c.mu.Lock()
		c.loading = false
		c.err = "Error: " + client.ErrorMessage(err)
		c.mu.Unlock()
		return
	}

	var answer string
	var context []string
	if resp != nil {
		answer, context = resp.Answer, resp.Context
	}
	if c.onNewMessage != nil {
		c.onNewMessage(question, answer, context)
	}

	c.mu.Lock()
	c.question = ""
	c.loading = false
	c.mu.Unlock()
}

// Ask runs a whole ask round trip. It reports whether a request was sent.
func (c *Chat) Ask(ctx context.Context) bool {
	question, ok := c.Begin()
	if !ok {
		return false
	}

	resp, err := c.asker.Ask(ctx, question)
	c.Finish(question, resp, err)
	return true
}
