package filesystem

import (
	"io/fs"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// memoryFileInfo implements fs.FileInfo for in-memory files.
type memoryFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

func (f *memoryFileInfo) Name() string       { return f.name }
func (f *memoryFileInfo) Size() int64        { return f.size }
func (f *memoryFileInfo) Mode() fs.FileMode  { return f.mode }
func (f *memoryFileInfo) ModTime() time.Time { return f.modTime }
func (f *memoryFileInfo) IsDir() bool        { return f.isDir }
func (f *memoryFileInfo) Sys() interface{}   { return nil }

type memoryEntry struct {
	content []byte
	info    *memoryFileInfo
}

// MemoryFileSystem implements Provider for in-memory testing.
// Paths use forward slashes regardless of platform.
type MemoryFileSystem struct {
	entries map[string]*memoryEntry // absolute path -> entry
	root    string
}

// NewMemoryFileSystem creates a new in-memory filesystem rooted at root.
func NewMemoryFileSystem(root string) *MemoryFileSystem {
	root = path.Clean(filepath.ToSlash(root))
	mfs := &MemoryFileSystem{
		entries: make(map[string]*memoryEntry),
		root:    root,
	}
	mfs.addDir(root)
	return mfs
}

// AddFile adds a file under the root. The relative path may contain
// directories, which are created implicitly.
func (m *MemoryFileSystem) AddFile(relPath, content string) {
	relPath = filepath.ToSlash(relPath)
	absPath := path.Join(m.root, relPath)

	// Create parent directories
	for dir := path.Dir(absPath); dir != m.root && dir != "/" && dir != "."; dir = path.Dir(dir) {
		m.addDir(dir)
	}

	m.entries[absPath] = &memoryEntry{
		content: []byte(content),
		info: &memoryFileInfo{
			name:    path.Base(absPath),
			size:    int64(len(content)),
			mode:    0o644,
			modTime: time.Now(),
			isDir:   false,
		},
	}
}

func (m *MemoryFileSystem) addDir(absPath string) {
	if _, ok := m.entries[absPath]; ok {
		return
	}
	m.entries[absPath] = &memoryEntry{
		info: &memoryFileInfo{
			name:    path.Base(absPath),
			mode:    0o755 | fs.ModeDir,
			modTime: time.Now(),
			isDir:   true,
		},
	}
}

func (m *MemoryFileSystem) ReadDir(dirPath string) ([]FileInfo, error) {
	dirPath = path.Clean(filepath.ToSlash(dirPath))

	entry, ok := m.entries[dirPath]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: dirPath, Err: fs.ErrNotExist}
	}
	if !entry.info.IsDir() {
		return nil, &fs.PathError{Op: "open", Path: dirPath, Err: fs.ErrInvalid}
	}

	var result []FileInfo
	prefix := dirPath + "/"
	for p, e := range m.entries {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		// Direct children only
		if strings.Contains(strings.TrimPrefix(p, prefix), "/") {
			continue
		}
		result = append(result, e.info)
	}
	return result, nil
}

func (m *MemoryFileSystem) ReadFile(filePath string) ([]byte, error) {
	filePath = path.Clean(filepath.ToSlash(filePath))

	entry, ok := m.entries[filePath]
	if !ok || entry.info.IsDir() {
		return nil, &fs.PathError{Op: "open", Path: filePath, Err: fs.ErrNotExist}
	}
	return entry.content, nil
}

func (m *MemoryFileSystem) Stat(filePath string) (FileInfo, error) {
	filePath = path.Clean(filepath.ToSlash(filePath))

	entry, ok := m.entries[filePath]
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: filePath, Err: fs.ErrNotExist}
	}
	return entry.info, nil
}
