// Package source lists candidate audio files from one backing provider.
package source

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

var ErrFileNotFound = errors.New("audio file not found")

// File is a candidate audio file. Only Name is guaranteed; the other fields are
// filled by providers that know them.
type File struct {
	Name        string     `json:"name"`
	ID          string     `json:"id,omitempty"`
	DownloadURL string     `json:"download_url,omitempty"`
	Size        int64      `json:"size,omitempty"`
	Modified    *time.Time `json:"modified,omitempty"`
}

// Result is what a listing returns instead of an error. Err != nil means the
// provider could not be reached or is misconfigured; Files then holds the last
// known good listing (Stale) or nothing.
type Result struct {
	Files     []File
	Err       error
	Stale     bool
	FetchedAt time.Time
}

func Success(files []File) Result {
	return Result{Files: files, FetchedAt: time.Now()}
}

func Failure(err error) Result {
	return Result{Files: []File{}, Err: err}
}

func (r Result) OK() bool {
	return r.Err == nil
}

// Names returns the file names in listing order.
func (r Result) Names() []string {
	names := make([]string, 0, len(r.Files))
	for _, f := range r.Files {
		names = append(names, f.Name)
	}
	return names
}

// Find looks a file up by exact name.
func (r Result) Find(name string) (File, bool) {
	for _, f := range r.Files {
		if f.Name == name {
			return f, true
		}
	}
	return File{}, false
}

// Source is a provider of audio files. ListFiles must not panic and reports
// failures through Result.Err.
type Source interface {
	Name() string
	Location() string
	ListFiles(ctx context.Context) Result
	// Open streams the file content. The caller closes the reader.
	Open(ctx context.Context, file File) (io.ReadCloser, string, error)
}

// FolderLister is implemented by providers that can enumerate subfolders.
type FolderLister interface {
	Subfolders(ctx context.Context) []string
}

// FilterAudio keeps files whose extension is in exts (case-insensitive),
// drops duplicate names and sorts by name.
func FilterAudio(files []File, exts []string) []File {
	allowed := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = true
	}

	out := make([]File, 0, len(files))
	seen := make(map[string]bool, len(files))
	for _, f := range files {
		if f.Name == "" || seen[f.Name] {
			continue
		}
		if !allowed[strings.ToLower(filepath.Ext(f.Name))] {
			continue
		}
		seen[f.Name] = true
		out = append(out, f)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ContentType guesses an audio MIME type from the file name.
func ContentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".wav":
		return "audio/wav"
	case ".mp3":
		return "audio/mpeg"
	case ".flac":
		return "audio/flac"
	case ".ogg":
		return "audio/ogg"
	case ".m4a":
		return "audio/mp4"
	default:
		return "application/octet-stream"
	}
}
