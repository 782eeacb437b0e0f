package attachment_test

import (
	"chat-attachments/internal/adapters/eventbroker"
	"chat-attachments/internal/adapters/repository"
	"chat-attachments/internal/adapters/storage"
	"chat-attachments/internal/config"
	"chat-attachments/internal/core/port"
	"chat-attachments/internal/core/service/attachment"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
)

var fixedNow = time.UnixMilli(1718000000123).UTC()

var testMinioCfg = config.MinioConfig{
	AttachmentBucket: "chat-attachments",
	AvatarBucket:     "avatars",
	SignedURLTTL:     time.Hour,
}

var testUploadCfg = config.UploadConfig{
	AttachmentMaxSize: 50 << 20,
	AvatarMaxSize:     5 << 20,
}

type fixture struct {
	store     *storage.MockStorage
	journal   *repository.MockUploadJournal
	publisher *eventbroker.MockPublisher
	service   port.AttachmentService
}

func newFixture(t *testing.T, uploadCfg config.UploadConfig) fixture {
	t.Helper()
	f := fixture{
		store:     storage.NewMockStorage(),
		journal:   repository.NewMockUploadJournal(),
		publisher: eventbroker.NewMockPublisher(),
	}
	f.service = attachment.NewAttachmentService(
		f.store, f.journal, f.publisher,
		testMinioCfg, uploadCfg,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		attachment.WithClock(func() time.Time { return fixedNow }),
	)
	return f
}

// expectJournal accepts every journal write
func (f fixture) expectJournal() {
	f.journal.On("Begin", mock.Anything, mock.Anything).Return(nil)
	f.journal.On("Complete", mock.Anything, mock.Anything).Return(nil)
	f.journal.On("Fail", mock.Anything, mock.Anything, mock.Anything).Return(nil)
}

// drainBody reads the whole body through the progress hook like the transport does
func drainBody(args mock.Arguments) {
	in := args.Get(1).(port.PutObjectInput)
	n, _ := io.Copy(io.Discard, in.Body)
	if in.OnBytes != nil {
		in.OnBytes(n / 2)
		in.OnBytes(n)
	}
}
