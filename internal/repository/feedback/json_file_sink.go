package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

var ErrInvalidPayload = errors.New("feedback must be a JSON object")

// Record is one submitted feedback entry. Keys are whatever the client sent
// plus the server-injected timestamp and filename.
type Record map[string]interface{}

// JSONFileSink keeps every record in one JSON array file. Each append reads the
// whole file and replaces it through a rename. Appends are serialized within
// this process only; a second process writing the same file races
// last-writer-wins.
type JSONFileSink struct {
	path string
	mu   sync.Mutex
}

func NewJSONFileSink(path string) *JSONFileSink {
	return &JSONFileSink{path: path}
}

func (s *JSONFileSink) Path() string {
	return s.path
}

// Append adds record to the stored collection. A missing or unparseable file
// counts as an empty collection and is replaced.
func (s *JSONFileSink) Append(ctx context.Context, record Record) error {
	if record == nil {
		return ErrInvalidPayload
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.load()
	all = append(all, record)

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal feedback: %w", err)
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create feedback dir: %w", err)
		}
	}
	if err := replaceFile(dir, s.path, data); err != nil {
		return fmt.Errorf("write feedback file: %w", err)
	}
	return nil
}

// replaceFile writes data next to path and renames it into place, so readers
// and crashes only ever see the old or the new collection.
func replaceFile(dir, path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(dir, ".feedback-*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// All returns the stored collection, empty when the file is missing or invalid.
func (s *JSONFileSink) All(ctx context.Context) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *JSONFileSink) Count(ctx context.Context) int {
	return len(s.All(ctx))
}

func (s *JSONFileSink) load() []Record {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return []Record{}
	}
	var all []Record
	if err := json.Unmarshal(data, &all); err != nil || all == nil {
		return []Record{}
	}
	return all
}
