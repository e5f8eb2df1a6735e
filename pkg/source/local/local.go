package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"audio-eval-be/pkg/source"
)

// Source scans a single directory (non-recursive).
type Source struct {
	dir  string
	exts []string
}

func New(dir string, exts []string) *Source {
	return &Source{dir: dir, exts: exts}
}

func (s *Source) Name() string {
	return "local"
}

func (s *Source) Location() string {
	return s.dir
}

func (s *Source) ListFiles(ctx context.Context) source.Result {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return source.Failure(fmt.Errorf("read audio folder %s: %w", s.dir, err))
	}

	files := make([]source.File, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		f := source.File{Name: entry.Name()}
		if info, err := entry.Info(); err == nil {
			mod := info.ModTime()
			f.Size = info.Size()
			f.Modified = &mod
		}
		files = append(files, f)
	}

	return source.Success(source.FilterAudio(files, s.exts))
}

// Subfolders lists the directories next to the audio files, or "default" when
// there are none.
func (s *Source) Subfolders(ctx context.Context) []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return []string{"default"}
	}

	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}
	if len(dirs) == 0 {
		return []string{"default"}
	}
	sort.Strings(dirs)
	return dirs
}

func (s *Source) Open(ctx context.Context, file source.File) (io.ReadCloser, string, error) {
	// names come from a listing, never from a path
	if file.Name != filepath.Base(file.Name) {
		return nil, "", source.ErrFileNotFound
	}

	f, err := os.Open(filepath.Join(s.dir, file.Name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", source.ErrFileNotFound
		}
		return nil, "", fmt.Errorf("open %s: %w", file.Name, err)
	}
	return f, source.ContentType(file.Name), nil
}
