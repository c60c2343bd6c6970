package widget

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/papercomputeco/ragchat/client"
	"github.com/papercomputeco/ragchat/pkg/rag"
)

// StatusUploading is shown while an upload is in flight.
const StatusUploading = "Uploading..."

// Upload is the upload widget: a selected file and a status line.
// Nothing guards against a second upload while one is in flight; whichever
// finishes last owns the status.
type Upload struct {
	uploader Uploader

	mu     sync.Mutex
	file   string
	status string
}

func NewUpload(uploader Uploader) *Upload {
	return &Upload{uploader: uploader}
}

// SelectFile stores the chosen file path. No validation happens here.
func (u *Upload) SelectFile(path string) {
	u.mu.Lock()
	u.file = path
	u.mu.Unlock()
}

// File returns the selected file path, empty when none is selected.
func (u *Upload) File() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.file
}

// Status returns the current status line.
func (u *Upload) Status() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.status
}

// Begin starts an upload of the selected file: it reports false and leaves
// the status untouched when no file is selected, otherwise it switches the
// status to StatusUploading and returns the file to send.
func (u *Upload) Begin() (string, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.file == "" {
		return "", false
	}
	u.status = StatusUploading
	return u.file, true
}

// Finish records the outcome of an upload started with Begin.
func (u *Upload) Finish(resp *rag.UploadResponse, err error) string {
	status := UploadStatus(resp, err)

	u.mu.Lock()
	u.status = status
	u.mu.Unlock()

	return status
}

// Upload runs a whole upload round trip and returns the final status. It
// is a no-op returning the current status when no file is selected.
func (u *Upload) Upload(ctx context.Context) string {
	path, ok := u.Begin()
	if !ok {
		return u.Status()
	}

	resp, err := Send(ctx, u.uploader, path)
	return u.Finish(resp, err)
}

// Send opens path and uploads it.
func Send(ctx context.Context, uploader Uploader, path string) (*rag.UploadResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return uploader.Upload(ctx, path, f)
}

// UploadStatus formats the status line for an upload outcome.
func UploadStatus(resp *rag.UploadResponse, err error) string {
	if err != nil {
		return "Error: " + client.ErrorMessage(err)
	}

	chunks := 0
	if resp != nil {
		chunks = resp.ChunksIndexed
	}
	return fmt.Sprintf("Success: Uploaded %d chunks.", chunks)
}
