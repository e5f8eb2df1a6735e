package drive

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"audio-eval-be/pkg/source"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDriveServer(t *testing.T) (*httptest.Server, *int) {
	t.Helper()
	calls := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/drive/v3/files", func(w http.ResponseWriter, r *http.Request) {
		calls++
		q := r.URL.Query()
		assert.Equal(t, "public-key", q.Get("key"))
		assert.Equal(t, "'folder-1' in parents and trashed = false", q.Get("q"))

		if q.Get("pageToken") == "" {
			_ = json.NewEncoder(w).Encode(fileList{
				NextPageToken: "page-2",
				Files: []driveFile{
					{ID: "f2", Name: "second.wav", MimeType: "audio/wav", Size: "2048", ModifiedTime: "2026-05-01T08:00:00.000Z"},
					{ID: "d1", Name: "sub.wav", MimeType: "application/vnd.google-apps.folder"},
				},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(fileList{
			Files: []driveFile{
				{ID: "f1", Name: "first.wav", MimeType: "audio/x-wav", Size: "1024"},
				{ID: "f3", Name: "notes.docx", MimeType: "application/msword"},
			},
		})
	})
	mux.HandleFunc("/drive/v3/files/f1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "media", r.URL.Query().Get("alt"))
		w.Header().Set("Content-Type", "audio/x-wav")
		_, _ = w.Write([]byte("RIFF-first"))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestListFilesWithAPIKey(t *testing.T) {
	srv, calls := newDriveServer(t)
	src := New(context.Background(), Config{
		FolderID:   "folder-1",
		APIKey:     "public-key",
		APIURL:     srv.URL + "/drive/v3",
		Timeout:    time.Second,
		Extensions: []string{".wav"},
	})

	res := src.ListFiles(context.Background())
	require.NoError(t, res.Err)
	assert.Equal(t, []string{"first.wav", "second.wav"}, res.Names())
	assert.Equal(t, 2, *calls)

	second, ok := res.Find("second.wav")
	require.True(t, ok)
	assert.Equal(t, "f2", second.ID)
	assert.Equal(t, int64(2048), second.Size)
	assert.Equal(t, "https://drive.google.com/uc?export=download&id=f2", second.DownloadURL)
	require.NotNil(t, second.Modified)
	assert.Equal(t, time.May, second.Modified.Month())
}

func TestListFilesBadCredentialsFile(t *testing.T) {
	src := New(context.Background(), Config{
		FolderID:        "folder-1",
		CredentialsFile: filepath.Join(t.TempDir(), "missing.json"),
	})

	res := src.ListFiles(context.Background())
	assert.Error(t, res.Err)
	assert.Empty(t, res.Files)

	_, _, err := src.Open(context.Background(), source.File{Name: "a.wav", ID: "x"})
	assert.Error(t, err)
}

func TestListFilesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer srv.Close()

	src := New(context.Background(), Config{FolderID: "folder-1", APIURL: srv.URL})
	res := src.ListFiles(context.Background())
	assert.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "403")
}

func TestListFilesQuotesFolderID(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("q")
		_ = json.NewEncoder(w).Encode(fileList{})
	}))
	defer srv.Close()

	src := New(context.Background(), Config{FolderID: `it's' or name contains '\`, APIURL: srv.URL})
	res := src.ListFiles(context.Background())
	require.NoError(t, res.Err)
	assert.Equal(t, `'it\'s\' or name contains \'\\' in parents and trashed = false`, query)
}

func TestCachedDriveServesStaleAfterOutage(t *testing.T) {
	srv, calls := newDriveServer(t)
	src := New(context.Background(), Config{
		FolderID:   "folder-1",
		APIKey:     "public-key",
		APIURL:     srv.URL + "/drive/v3",
		Extensions: []string{".wav"},
	})
	cached := source.NewCachedSource(src, 0)

	first := cached.ListFiles(context.Background())
	require.NoError(t, first.Err)
	assert.Equal(t, 2, *calls)

	srv.Close()
	second := cached.ListFiles(context.Background())
	assert.Error(t, second.Err)
	assert.True(t, second.Stale)
	assert.Equal(t, first.Names(), second.Names())
}

func TestOpen(t *testing.T) {
	srv, _ := newDriveServer(t)
	src := New(context.Background(), Config{
		FolderID: "folder-1",
		APIKey:   "public-key",
		APIURL:   srv.URL + "/drive/v3",
	})

	rc, contentType, err := src.Open(context.Background(), source.File{Name: "first.wav", ID: "f1"})
	require.NoError(t, err)
	defer rc.Close()

	body, _ := io.ReadAll(rc)
	assert.Equal(t, "RIFF-first", string(body))
	assert.Equal(t, "audio/x-wav", contentType)
}
