package askcmder

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/gomega"

	"github.com/papercomputeco/ragchat/pkg/rag"
)

func uploadRequest(content string) *http.Request {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(rag.UploadFormField, "capitals.csv")
	Expect(err).NotTo(HaveOccurred())
	_, err = part.Write([]byte(content))
	Expect(err).NotTo(HaveOccurred())
	Expect(w.Close()).To(Succeed())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}
