package widget_test

import (
	"context"
	"io"
	"sync"

	"github.com/papercomputeco/ragchat/pkg/rag"
)

// fakeBackend records calls and replays canned responses.
type fakeBackend struct {
	mu sync.Mutex

	uploads   []string
	questions []string

	uploadResp *rag.UploadResponse
	uploadErr  error
	askResp    func(question string) (*rag.AskResponse, error)
}

func (f *fakeBackend) Upload(_ context.Context, filename string, content io.Reader) (*rag.UploadResponse, error) {
	data, _ := io.ReadAll(content)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, filename+":"+string(data))
	return f.uploadResp, f.uploadErr
}

func (f *fakeBackend) Ask(_ context.Context, question string) (*rag.AskResponse, error) {
	f.mu.Lock()
	f.questions = append(f.questions, question)
	respond := f.askResp
	f.mu.Unlock()

	if respond == nil {
		return &rag.AskResponse{Answer: "answer to " + question}, nil
	}
	return respond(question)
}

func (f *fakeBackend) uploadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads)
}

func (f *fakeBackend) askCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.questions)
}
