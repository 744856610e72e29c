// ABOUTME: Multipart form encoding for file uploads
// ABOUTME: Produces Binary payloads that declare their own boundary

package gateway

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
)

// MultipartFile encodes r as a single file part named field.
func MultipartFile(field, filename string, r io.Reader) (*Binary, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	return &Binary{Body: &buf, ContentType: w.FormDataContentType()}, nil
}
