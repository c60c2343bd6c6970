package rag

// QuestionFormField is the multipart field carrying the question text.
const QuestionFormField = "question"

// AskResponse is returned by POST /ask.
type AskResponse struct {
	Answer  string   `json:"answer"`
	Context []string `json:"context"` // Retrieved snippets, in retrieval order
}
