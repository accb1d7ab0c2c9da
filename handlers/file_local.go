// handlers/file_local.go
package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// LocalFileStore writes uploads to local disk under a base directory
// served back at /uploads/.
type LocalFileStore struct {
	baseDir string
}

func NewLocalFileStore(baseDir string) *LocalFileStore {
	return &LocalFileStore{baseDir: baseDir}
}

func (s *LocalFileStore) Save(ctx context.Context, dir, filename string, r io.Reader) (string, error) {
	target := filepath.Join(s.baseDir, dir)
	if err := os.MkdirAll(target, 0755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	// timestamp prefix avoids collisions between same-named uploads
	name := fmt.Sprintf("%d%s", time.Now().UnixNano(), filepath.Ext(filename))
	dst, err := os.Create(filepath.Join(target, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", fmt.Errorf("save file: %w", err)
	}
	return fmt.Sprintf("/uploads/%s/%s", dir, name), nil
}

// FileHandler exposes a bare upload endpoint for evidence images that
// are attached to a request before the owning record exists.
type FileHandler struct {
	files FileStore
}

func NewFileHandler(files FileStore) *FileHandler {
	return &FileHandler{files: files}
}

func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(50 << 20); err != nil {
		writeFailure(w, "bad multipart form: "+err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeFailure(w, "missing file field")
		return
	}
	defer file.Close()

	path, err := h.files.Save(r.Context(), "images/misc", header.Filename, file)
	if err != nil {
		writeFailure(w, "file upload failed: "+err.Error())
		return
	}
	writeSuccess(w, "Success!", map[string]string{"url": path})
}
