// Package media stages user-selected files as session-scoped preview handles.
//
// A Stager owns one staging directory. Each staged file is copied into it and
// represented by a Handle; releasing the handle deletes the copy. Closing the
// Stager releases whatever is still live and removes the directory, so a
// session that ends abruptly does not leave previews behind.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/reportu/reportu/internal/logger"
)

var (
	// ErrAlreadyReleased is returned when a handle is released twice.
	ErrAlreadyReleased = errors.New("preview handle already released")
	// ErrStagerClosed is returned when staging on a closed Stager.
	ErrStagerClosed = errors.New("stager is closed")
)

// sniffLen is how many bytes http.DetectContentType looks at.
const sniffLen = 512

// Source describes a file to stage. Data wins over Path when both are set.
type Source struct {
	Name     string // Display name; defaults to the base of Path
	Path     string // File on disk to copy from
	Data     []byte // In-memory content
	MIMEType string // Optional; detected when empty
}

// Stager copies sources into a private directory and tracks live handles.
type Stager struct {
	mu     sync.Mutex
	dir    string
	seq    int
	live   map[string]*Handle
	closed bool
}

// NewStager creates a staging directory under parent.
func NewStager(parent string) (*Stager, error) {
	if err := os.MkdirAll(parent, 0755); err != nil {
		return nil, fmt.Errorf("creating staging parent: %w", err)
	}
	dir, err := os.MkdirTemp(parent, "session-*")
	if err != nil {
		return nil, fmt.Errorf("creating staging dir: %w", err)
	}
	logger.Debug("Staging previews in %s", dir)
	return &Stager{
		dir:  dir,
		live: make(map[string]*Handle),
	}, nil
}

// Dir returns the staging directory.
func (s *Stager) Dir() string {
	return s.dir
}

// Stage copies src into the staging directory and returns its handle.
func (s *Stager) Stage(src Source) (*Handle, error) {
	name := src.Name
	if name == "" {
		name = filepath.Base(src.Path)
	}
	if name == "" || name == "." {
		return nil, fmt.Errorf("source has neither name nor path")
	}

	var r io.Reader
	if src.Data != nil {
		r = bytes.NewReader(src.Data)
	} else {
		f, err := os.Open(src.Path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", src.Path, err)
		}
		defer f.Close()
		info, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", src.Path, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory", src.Path)
		}
		r = f
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrStagerClosed
	}
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	path := filepath.Join(s.dir, fmt.Sprintf("%03d-%s", seq, stagedName(name)))
	dst, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("creating preview: %w", err)
	}

	// Keep the head of the stream for content sniffing while copying
	head := &headBuffer{limit: sniffLen}
	size, err := io.Copy(dst, io.TeeReader(r, head))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("copying %s: %w", name, err)
	}

	h := &Handle{
		id:       uuid.NewString(),
		name:     name,
		mimeType: detectMIME(name, src.MIMEType, head.Bytes()),
		size:     size,
		path:     path,
		stager:   s,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		_ = os.Remove(path)
		return nil, ErrStagerClosed
	}
	s.live[h.id] = h
	logger.Debug("Staged %s as %s (%s, %d bytes)", name, path, h.mimeType, size)
	return h, nil
}

// Live returns the number of handles that have not been released.
func (s *Stager) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

// Close releases every live handle and removes the staging directory.
// Close is safe to call more than once.
func (s *Stager) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	handles := make([]*Handle, 0, len(s.live))
	for _, h := range s.live {
		handles = append(handles, h)
	}
	s.mu.Unlock()

	var errs []error
	for _, h := range handles {
		if err := h.Release(); err != nil && !errors.Is(err, ErrAlreadyReleased) {
			errs = append(errs, err)
		}
	}
	if len(handles) > 0 {
		logger.Debug("Released %d outstanding previews on close", len(handles))
	}
	if err := os.RemoveAll(s.dir); err != nil {
		errs = append(errs, fmt.Errorf("removing staging dir: %w", err))
	}
	return errors.Join(errs...)
}

func (s *Stager) forget(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.live, id)
}

// stagedName turns a display name into a safe file name, keeping the extension.
func stagedName(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	base := slug.Make(strings.TrimSuffix(name, filepath.Ext(name)))
	if base == "" {
		base = "attachment"
	}
	return base + ext
}

// mediaTypes covers camera formats the system MIME table often lacks.
var mediaTypes = map[string]string{
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".m4v":  "video/x-m4v",
	".webm": "video/webm",
	".heic": "image/heic",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

func detectMIME(name, declared string, head []byte) string {
	if declared != "" {
		return declared
	}
	ext := strings.ToLower(filepath.Ext(name))
	if known, ok := mediaTypes[ext]; ok {
		return known
	}
	if byExt := mime.TypeByExtension(ext); byExt != "" {
		return byExt
	}
	return http.DetectContentType(head)
}

// headBuffer keeps the first limit bytes written to it.
type headBuffer struct {
	buf   []byte
	limit int
}

func (b *headBuffer) Write(p []byte) (int, error) {
	if room := b.limit - len(b.buf); room > 0 {
		if len(p) < room {
			room = len(p)
		}
		b.buf = append(b.buf, p[:room]...)
	}
	return len(p), nil
}

func (b *headBuffer) Bytes() []byte { return b.buf }
