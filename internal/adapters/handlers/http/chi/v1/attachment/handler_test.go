package attachment_test

import (
	"bytes"
	"chat-attachments/internal/adapters/handlers/http/chi"
	attachment2 "chat-attachments/internal/adapters/handlers/http/chi/v1/attachment"
	"chat-attachments/internal/core/service/attachment"
	"chat-attachments/internal/core/service/naming"
	"chat-attachments/internal/core/service/usage"
	"io"
	"log/slog"
	"mime/multipart"
	http2 "net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/semaphore"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fixture struct {
	service *attachment.MockAttachmentService
	usage   *usage.MockUsageService
	tempDir string
	batches *semaphore.Weighted
	router  http2.Handler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		service: attachment.NewMockAttachmentService(),
		usage:   usage.NewMockUsageService(),
		tempDir: t.TempDir(),
		batches: semaphore.NewWeighted(2),
	}
	namer := naming.NewNamer("chat-attachments", "avatars", func() time.Time { return time.UnixMilli(1718000000123) })
	handler := attachment2.NewAttachmentHandlerV1(f.service, f.usage, namer, f.tempDir, f.batches, discardLogger)
	f.router = chi.NewRouter(discardLogger, handler, chi.RouterConfig{MaxRequestSize: 10 << 20})
	return f
}

// spooledCount returns how many files are left in the temp directory
func (f *fixture) spooledCount(t *testing.T) int {
	t.Helper()
	entries, err := os.ReadDir(f.tempDir)
	require.NoError(t, err)
	return len(entries)
}

type part struct {
	field string
	name  string
	body  string
}

func multipartBody(t *testing.T, parts ...part) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range parts {
		fw, err := w.CreateFormFile(p.field, p.name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(p.body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}
