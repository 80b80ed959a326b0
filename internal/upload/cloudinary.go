// Package upload sends profile images to the external image host. The host
// is consumed as an opaque "upload(file) -> url" operation; a failure here
// aborts the image attachment, never the surrounding form state.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/mymoneyhq/moneyctl/internal/common"
)

// Uploader performs unsigned uploads against a Cloudinary-style endpoint.
type Uploader struct {
	httpClient *http.Client
	uploadURL  string
	preset     string
}

// NewUploader creates an uploader for the given cloud name and unsigned
// preset.
func NewUploader(cloudName, preset string) *Uploader {
	return &Uploader{
		uploadURL: fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", cloudName),
		preset:    preset,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// UploadFile uploads the image at path and returns its secure URL.
func (u *Uploader) UploadFile(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrUpload, err)
	}
	defer f.Close()

	return u.Upload(ctx, filepath.Base(path), f)
}

// Upload uploads image content under the given filename and returns its
// secure URL.
func (u *Uploader) Upload(ctx context.Context, filename string, content io.Reader) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("%w: failed to build form: %v", common.ErrUpload, err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("%w: failed to read image: %v", common.ErrUpload, err)
	}
	if err := writer.WriteField("upload_preset", u.preset); err != nil {
		return "", fmt.Errorf("%w: failed to build form: %v", common.ErrUpload, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("%w: failed to build form: %v", common.ErrUpload, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.uploadURL, &body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrUpload, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrUpload, err)
	}
	defer resp.Body.Close()

	var decoded uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", common.ErrUpload, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s (status %d)", common.ErrUpload, decoded.Error.Message, resp.StatusCode)
	}
	if decoded.SecureURL == "" {
		return "", fmt.Errorf("%w: response carried no URL", common.ErrUpload)
	}

	slog.Debug("image uploaded", "url", decoded.SecureURL)
	return decoded.SecureURL, nil
}
