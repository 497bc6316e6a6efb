package wizard

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/reportu/reportu/internal/tui/theme"
)

// mediaExtensions are the photo and video formats the picker offers.
var mediaExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".heic": true,
	".mp4": true, ".mov": true, ".m4v": true, ".webm": true,
}

// IsMediaFile reports whether name has a photo or video extension.
func IsMediaFile(name string) bool {
	return mediaExtensions[strings.ToLower(filepath.Ext(name))]
}

// FileItem represents a file or directory in the file picker.
type FileItem struct {
	name  string // Name of file/directory
	path  string // Full path
	isDir bool   // True if directory
}

// Render returns the display line for the item, truncated to width.
func (f *FileItem) Render(width int) string {
	icon := "🖼"
	switch {
	case f.isDir:
		icon = "📁"
	case isVideoName(f.name):
		icon = "🎞"
	}
	display := icon + " " + f.name
	if width > 4 && ansi.StringWidth(display) > width-2 {
		display = ansi.Truncate(display, width-3, "") + "…"
	}
	return display
}

func isVideoName(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp4", ".mov", ".m4v", ".webm":
		return true
	}
	return false
}

// FilePicker browses the filesystem for photos and videos. Space marks
// several files; enter attaches the marked files, or the highlighted one.
type FilePicker struct {
	currentPath string
	items       []*FileItem
	marked      map[string]bool
	selectedIdx int
	width       int
	height      int
	err         string
}

// NewFilePicker creates a picker rooted at dir (the working directory when
// empty).
func NewFilePicker(dir string) *FilePicker {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			cwd = "."
		}
		dir = cwd
	}

	fp := &FilePicker{
		marked: make(map[string]bool),
		width:  60,
		height: 10,
	}
	if err := fp.loadDirectory(dir); err != nil {
		fp.err = err.Error()
	}
	return fp
}

// loadDirectory loads directories and media files from the given path.
func (f *FilePicker) loadDirectory(path string) error {
	entries, err := os.ReadDir(path)
	if err != nil {
		return err
	}

	f.items = make([]*FileItem, 0, len(entries)+1)

	absPath, err := filepath.Abs(path)
	if err == nil && absPath != filepath.Dir(absPath) {
		f.items = append(f.items, &FileItem{
			name:  "..",
			path:  filepath.Dir(absPath),
			isDir: true,
		})
	}

	var dirs, files []*FileItem
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		fullPath := filepath.Join(path, entry.Name())
		if entry.IsDir() {
			dirs = append(dirs, &FileItem{name: entry.Name(), path: fullPath, isDir: true})
		} else if IsMediaFile(entry.Name()) {
			files = append(files, &FileItem{name: entry.Name(), path: fullPath})
		}
	}

	sort.Slice(dirs, func(i, j int) bool {
		return strings.ToLower(dirs[i].name) < strings.ToLower(dirs[j].name)
	})
	sort.Slice(files, func(i, j int) bool {
		return strings.ToLower(files[i].name) < strings.ToLower(files[j].name)
	})

	f.items = append(f.items, dirs...)
	f.items = append(f.items, files...)
	f.currentPath = path
	f.selectedIdx = 0
	f.err = ""
	return nil
}

// SetSize updates the dimensions for the file picker.
func (f *FilePicker) SetSize(width, height int) {
	f.width = width
	f.height = height
}

// Dir returns the directory being browsed.
func (f *FilePicker) Dir() string {
	return f.currentPath
}

// Update handles messages for the file picker.
func (f *FilePicker) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if f.selectedIdx > 0 {
			f.selectedIdx--
		}
	case "down", "j":
		if f.selectedIdx < len(f.items)-1 {
			f.selectedIdx++
		}
	case "space", " ":
		if item := f.current(); item != nil && !item.isDir {
			if f.marked[item.path] {
				delete(f.marked, item.path)
			} else {
				f.marked[item.path] = true
			}
		}
	case "enter":
		item := f.current()
		if item == nil {
			return nil
		}
		if item.isDir && len(f.marked) == 0 {
			if err := f.loadDirectory(item.path); err != nil {
				f.err = err.Error()
			}
			return nil
		}
		paths := f.chosen(item)
		f.marked = make(map[string]bool)
		return func() tea.Msg {
			return FilesChosenMsg{Paths: paths}
		}
	case "backspace":
		parentPath := filepath.Dir(f.currentPath)
		if parentPath != f.currentPath {
			if err := f.loadDirectory(parentPath); err != nil {
				f.err = err.Error()
			}
		}
	}
	return nil
}

func (f *FilePicker) current() *FileItem {
	if f.selectedIdx < 0 || f.selectedIdx >= len(f.items) {
		return nil
	}
	return f.items[f.selectedIdx]
}

// chosen returns the marked paths in listing order, or the highlighted file.
func (f *FilePicker) chosen(item *FileItem) []string {
	if len(f.marked) == 0 {
		return []string{item.path}
	}
	paths := make([]string, 0, len(f.marked))
	for _, it := range f.items {
		if f.marked[it.path] {
			paths = append(paths, it.path)
		}
	}
	return paths
}

// View renders the file picker.
func (f *FilePicker) View() string {
	st := theme.Current().S()
	var b strings.Builder

	b.WriteString(st.Muted.Render(f.currentPath))
	b.WriteString("\n\n")

	if f.err != "" {
		b.WriteString(st.Error.Render("✗ " + f.err))
		b.WriteString("\n\n")
	}

	hasFiles := false
	for _, item := range f.items {
		if item.name != ".." {
			hasFiles = true
			break
		}
	}
	if !hasFiles {
		b.WriteString(st.Subtle.Render("No photos or videos in this directory"))
		b.WriteString("\n\n")
	}

	// Keep the highlighted row inside the visible window
	visible := f.height - 6
	if visible < 3 {
		visible = 3
	}
	start := 0
	if f.selectedIdx >= visible {
		start = f.selectedIdx - visible + 1
	}
	end := start + visible
	if end > len(f.items) {
		end = len(f.items)
	}

	for i := start; i < end; i++ {
		item := f.items[i]
		check := "  "
		if f.marked[item.path] {
			check = "✓ "
		}
		line := check + item.Render(f.width-4)
		if i == f.selectedIdx {
			b.WriteString(st.Selected.Render("▸ " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(renderHintBar(
		"↑↓", "navigate",
		"space", "mark",
		"enter", "open/attach",
		"backspace", "up",
		"esc", "close",
	))
	return b.String()
}
