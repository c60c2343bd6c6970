package widget

import (
	"github.com/papercomputeco/ragchat/pkg/conversation"
)

// Root owns the conversation and the two widgets.
type Root struct {
	conversation *conversation.Conversation
	upload       *Upload
	chat         *Chat
}

// NewRoot wires an upload and a chat widget to backend. The chat widget
// reports completed turns through Root.OnNewMessage.
func NewRoot(backend Backend) *Root {
	r := &Root{conversation: conversation.New()}
	r.upload = NewUpload(backend)
	r.chat = NewChat(backend, r.OnNewMessage)
	return r
}

// OnNewMessage appends a completed turn to the conversation.
func (r *Root) OnNewMessage(question, answer string, context []string) {
	r.conversation.Append(question, answer, context)
}

func (r *Root) Conversation() *conversation.Conversation { return r.conversation }
func (r *Root) Upload() *Upload                          { return r.upload }
func (r *Root) Chat() *Chat                              { return r.chat }
