package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"audio-eval-be/internal/pkg/logger"
	"audio-eval-be/internal/repository/memory"
	"audio-eval-be/pkg/session"
	"audio-eval-be/pkg/source"
)

type fakeSource struct {
	mu    sync.Mutex
	files []string
	err   error
	opens []string
}

func newFakeSource(files ...string) *fakeSource {
	return &fakeSource{files: files}
}

func (f *fakeSource) Name() string     { return "fake" }
func (f *fakeSource) Location() string { return "memory://fake" }

func (f *fakeSource) set(files []string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files = files
	f.err = err
}

func (f *fakeSource) ListFiles(ctx context.Context) source.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return source.Failure(f.err)
	}
	files := make([]source.File, 0, len(f.files))
	for _, name := range f.files {
		files = append(files, source.File{Name: name})
	}
	return source.Success(files)
}

func (f *fakeSource) Open(ctx context.Context, file source.File) (io.ReadCloser, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if file.Name == "broken.wav" {
		return nil, "", errors.New("provider unavailable")
	}
	f.opens = append(f.opens, file.Name)
	return io.NopCloser(strings.NewReader("RIFF" + file.Name)), source.ContentType(file.Name), nil
}

func newTestSessions() *session.Manager {
	return session.NewManager(memory.NewSessionRepository(time.Hour))
}

func newTestLogger() logger.ILogger {
	return logger.NewNopLogger()
}
