package assets

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Listfile maps file data ids to client paths. Lines have the form "id;path".
type Listfile struct {
	paths map[uint32]string
	ids   map[string]uint32
}

// NewListfile creates an empty listfile.
func NewListfile() *Listfile {
	return &Listfile{
		paths: make(map[uint32]string),
		ids:   make(map[string]uint32),
	}
}

// ParseListfile reads "id;path" lines. Blank and malformed lines are skipped.
func ParseListfile(r io.Reader) (*Listfile, error) {
	l := NewListfile()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		idText, path, ok := strings.Cut(line, ";")
		path = strings.TrimSpace(path)
		if !ok || path == "" {
			continue
		}
		id, err := strconv.ParseUint(strings.TrimSpace(idText), 10, 32)
		if err != nil {
			continue
		}
		l.Add(uint32(id), path)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading listfile: %w", err)
	}
	return l, nil
}

// LoadListfile parses a listfile from disk.
func LoadListfile(path string) (*Listfile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening listfile: %w", err)
	}
	defer f.Close()
	return ParseListfile(f)
}

// Add records a mapping. A later entry for the same id wins.
func (l *Listfile) Add(id uint32, path string) {
	path = NormalizePath(path)
	l.paths[id] = path
	l.ids[strings.ToLower(path)] = id
}

// Path returns the client path of a file id.
func (l *Listfile) Path(id uint32) (string, bool) {
	path, ok := l.paths[id]
	return path, ok
}

// ID returns the file id of a client path, ignoring case.
func (l *Listfile) ID(path string) (uint32, bool) {
	id, ok := l.ids[strings.ToLower(NormalizePath(path))]
	return id, ok
}

// Len returns the number of ids.
func (l *Listfile) Len() int {
	return len(l.paths)
}
