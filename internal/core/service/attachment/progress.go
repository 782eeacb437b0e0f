package attachment

import (
	"chat-attachments/internal/core/domain"
	"chat-attachments/internal/core/port"
	"sync"
)

// maxInFlightProgress keeps byte-driven progress below 1 until the store acknowledges
const maxInFlightProgress = 0.99

type progressTracker struct {
	mu         sync.Mutex
	attachment *domain.FileAttachment
	onProgress port.ProgressFunc
	last       float64
	emitted    bool
}

func newProgressTracker(attachment *domain.FileAttachment, onProgress port.ProgressFunc) *progressTracker {
	return &progressTracker{attachment: attachment, onProgress: onProgress}
}

func (p *progressTracker) start() {
	p.emit(0)
}

// bytes reports cumulative bytes handed to the transport
func (p *progressTracker) bytes(sent int64) {
	size := p.attachment.FileSize
	if size <= 0 {
		return
	}
	progress := float64(sent) / float64(size)
	if progress > maxInFlightProgress {
		progress = maxInFlightProgress
	}
	p.emit(progress)
}

func (p *progressTracker) done() {
	p.emit(1)
}

func (p *progressTracker) emit(progress float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.emitted && progress <= p.last {
		return
	}
	p.last = progress
	p.emitted = true
	if progress < 1 {
		p.attachment.SetProgress(progress)
	}
	if p.onProgress != nil {
		p.onProgress(progress)
	}
}
