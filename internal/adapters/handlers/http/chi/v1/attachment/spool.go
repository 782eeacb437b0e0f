package attachment

import (
	"chat-attachments/internal/core/domain"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

// errNoFiles is returned when a multipart body has no part under the expected field
var errNoFiles = errors.New("no files provided")

// spooledFile is a multipart part copied to the temp directory
type spooledFile struct {
	path string
	name string
	size int64
}

func (s spooledFile) source() domain.FileSource {
	return domain.FileSource{LocalPath: s.path, DisplayName: s.name, DeclaredSize: s.size}
}

// spool copies every part named field into the temp directory. The caller
// removes the files with cleanup once the upload finished.
func (h *HandlerV1) spool(r *http.Request, field string, limit int) ([]spooledFile, error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("invalid multipart body: %w", err)
	}

	var files []spooledFile
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			h.cleanup(files)
			return nil, fmt.Errorf("failed to read part: %w", err)
		}
		if part.FormName() != field || part.FileName() == "" {
			part.Close()
			continue
		}
		if limit > 0 && len(files) == limit {
			part.Close()
			continue
		}

		f, err := h.spoolPart(part)
		part.Close()
		if err != nil {
			h.cleanup(files)
			return nil, err
		}
		files = append(files, f)
	}

	if len(files) == 0 {
		return nil, errNoFiles
	}
	return files, nil
}

func (h *HandlerV1) spoolPart(part *multipart.Part) (spooledFile, error) {
	path := filepath.Join(h.tempDir, h.namer.TempFileName(part.FileName()))
	out, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return spooledFile{}, fmt.Errorf("failed to create temp file: %w", err)
	}

	size, copyErr := io.Copy(out, part)
	closeErr := out.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(path)
		return spooledFile{}, fmt.Errorf("failed to spool %s: %w", part.FileName(), err)
	}

	return spooledFile{path: path, name: part.FileName(), size: size}, nil
}

func (h *HandlerV1) cleanup(files []spooledFile) {
	for _, f := range files {
		if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			h.logger.Warn("failed to remove spooled file", "path", f.path, "error", err)
		}
	}
}
