package simplecms

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/tendant/simple-cms/pkg/simplecms/objectkey"
)

// Uploader hands a buffered attachment to a BlobStore through a write
// stream and resolves with the object's durable URL.
type Uploader struct {
	store  BlobStore
	keys   objectkey.Generator
	logger *slog.Logger
}

// NewUploader creates an uploader. A nil generator selects
// objectkey.NewRecommendedGenerator.
func NewUploader(store BlobStore, keys objectkey.Generator, logger *slog.Logger) *Uploader {
	if keys == nil {
		keys = objectkey.NewRecommendedGenerator()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Uploader{store: store, keys: keys, logger: logger}
}

// Upload streams the attachment into folder. It makes a single attempt;
// any backend error is returned as an *UploadError.
func (u *Uploader) Upload(ctx context.Context, att Attachment, folder string) (string, error) {
	contentType := att.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(att.Data)
	}

	key := u.keys.GenerateKey(uuid.New(), &objectkey.KeyMetadata{
		Folder:      folder,
		FileName:    att.FileName,
		ContentType: contentType,
	})

	if u.store == nil {
		return "", &UploadError{Folder: folder, Key: key, Err: errors.New("no blob store configured")}
	}

	pr, pw := io.Pipe()
	go func() {
		_, err := io.Copy(pw, bytes.NewReader(att.Data))
		pw.CloseWithError(err)
	}()

	err := u.store.Upload(ctx, key, pr, contentType)
	// Unblocks the writer goroutine if the backend stopped reading early.
	pr.CloseWithError(io.ErrClosedPipe)
	if err != nil {
		u.logger.ErrorContext(ctx, "Failed to upload attachment", "folder", folder, "key", key, "error", err)
		return "", &UploadError{Folder: folder, Key: key, Err: err}
	}

	url := u.store.URL(key)
	u.logger.InfoContext(ctx, "Attachment uploaded", "folder", folder, "key", key, "size", len(att.Data))
	return url, nil
}
