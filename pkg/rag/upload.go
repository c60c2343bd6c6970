package rag

// UploadFormField is the multipart field carrying the CSV payload.
const UploadFormField = "file"

// UploadResponse is returned by POST /upload once the file is indexed.
type UploadResponse struct {
	Status        string `json:"status,omitempty"`
	ChunksIndexed int    `json:"chunks_indexed"` // One chunk per CSV data row
}
