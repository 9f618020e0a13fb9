package system

import (
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"
	"sync"
	"testing/fstest"
)

// MemFS is an in-memory WritableFS keyed by slash separated paths.
// Directories are tracked so that writes into a missing directory fail like they would on disk.
type MemFS struct {
	mu    sync.Mutex
	files map[string][]byte
	dirs  map[string]bool
}

var _ WritableFS = (*MemFS)(nil)

// NewMemFS returns an empty in-memory file system.
func NewMemFS() *MemFS {
	return &MemFS{
		files: map[string][]byte{},
		dirs:  map[string]bool{".": true},
	}
}

func clean(name string) string {
	return path.Clean(strings.TrimPrefix(filepathToSlash(name), "/"))
}

func filepathToSlash(name string) string {
	return strings.ReplaceAll(name, `\`, "/")
}

func (m *MemFS) Open(name string) (fs.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := fstest.MapFS{}
	for n, data := range m.files {
		snapshot[n] = &fstest.MapFile{Data: slices.Clone(data), Mode: 0o644}
	}
	for d := range m.dirs {
		if d != "." {
			snapshot[d] = &fstest.MapFile{Mode: fs.ModeDir | 0o755}
		}
	}
	return snapshot.Open(clean(name))
}

func (m *MemFS) ReadFile(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.files[clean(name)]
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
	}
	return slices.Clone(data), nil
}

// WriteFile stores data under name. The parent directory must exist.
func (m *MemFS) WriteFile(name string, data []byte, _ os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := clean(name)
	if !m.dirs[path.Dir(n)] {
		return &fs.PathError{Op: "write", Path: name, Err: fs.ErrNotExist}
	}
	if m.dirs[n] {
		return &fs.PathError{Op: "write", Path: name, Err: fs.ErrExist}
	}
	m.files[n] = slices.Clone(data)
	return nil
}

func (m *MemFS) MkdirAll(p string, _ os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var chain []string
	for d := clean(p); ; d = path.Dir(d) {
		if _, isFile := m.files[d]; isFile {
			return &fs.PathError{Op: "mkdir", Path: p, Err: fs.ErrExist}
		}
		chain = append(chain, d)
		if d == "." {
			break
		}
	}
	for _, d := range chain {
		m.dirs[d] = true
	}
	return nil
}

// Files returns the stored file names in ascending order.
func (m *MemFS) Files() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.files))
	for n := range m.files {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
