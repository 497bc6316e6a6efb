package media

import (
	"fmt"
	"os"
	"strings"
	"sync"
)

// Handle is a display-only reference to a staged copy of a file. It is valid
// until Release is called or its Stager is closed.
type Handle struct {
	id       string
	name     string
	mimeType string
	size     int64
	path     string
	stager   *Stager

	mu       sync.Mutex
	released bool
}

func (h *Handle) ID() string       { return h.id }
func (h *Handle) Name() string     { return h.name }
func (h *Handle) MIMEType() string { return h.mimeType }
func (h *Handle) Size() int64      { return h.size }

// Path is the staged copy's location. It is empty once released.
func (h *Handle) Path() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return ""
	}
	return h.path
}

// Released reports whether Release has succeeded.
func (h *Handle) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}

// IsImage and IsVideo classify the preview for rendering.
func (h *Handle) IsImage() bool { return strings.HasPrefix(h.mimeType, "image/") }
func (h *Handle) IsVideo() bool { return strings.HasPrefix(h.mimeType, "video/") }

// Release deletes the staged copy. A second call returns ErrAlreadyReleased
// and touches nothing.
func (h *Handle) Release() error {
	h.mu.Lock()
	if h.released {
		h.mu.Unlock()
		return ErrAlreadyReleased
	}
	h.released = true
	h.mu.Unlock()

	if h.stager != nil {
		h.stager.forget(h.id)
	}
	if err := os.Remove(h.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing preview %s: %w", h.path, err)
	}
	return nil
}
