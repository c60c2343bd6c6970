package conversation

import "sync"

// Conversation is the append-only, chronologically ordered list of turns
// for a session. Insertion order is display order.
type Conversation struct {
	mu    sync.RWMutex
	turns []Turn
}

// New returns an empty conversation.
func New() *Conversation {
	return &Conversation{}
}

// Append records a completed turn. The context slice is copied so the
// caller cannot alter the stored turn afterwards.
func (c *Conversation) Append(question, answer string, context []string) Turn {
	var ctxCopy []string
	if context != nil {
		ctxCopy = make([]string, len(context))
		copy(ctxCopy, context)
	}

	t := Turn{Question: question, Answer: answer, Context: ctxCopy}

	c.mu.Lock()
	c.turns = append(c.turns, t)
	c.mu.Unlock()

	return t
}

// Turns returns a snapshot of all turns, oldest first.
func (c *Conversation) Turns() []Turn {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Turn, len(c.turns))
	copy(out, c.turns)
	return out
}

// Len returns the number of turns.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.turns)
}

// At returns the i-th turn (0 is the oldest).
func (c *Conversation) At(i int) (Turn, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i < 0 || i >= len(c.turns) {
		return Turn{}, false
	}
	return c.turns[i], true
}
