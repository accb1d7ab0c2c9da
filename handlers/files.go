// handlers/files.go
package handlers

import (
	"context"
	"io"
	"mime/multipart"
)

// FileStore accepts uploaded attachment bytes and returns a stable
// path or URL. The delivery core only ever sees the returned string.
type FileStore interface {
	Save(ctx context.Context, dir, filename string, r io.Reader) (string, error)
}

func saveUpload(files FileStore, ctx context.Context, fh *multipart.FileHeader, dir string) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return files.Save(ctx, dir, fh.Filename, f)
}
