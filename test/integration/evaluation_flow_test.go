package integration

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"audio-eval-be/internal/bootstrap"
	"audio-eval-be/internal/config"
	"audio-eval-be/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocalConfig(t *testing.T, files ...string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	audioDir := filepath.Join(dir, "static")
	require.NoError(t, os.MkdirAll(audioDir, 0o755))
	for _, name := range files {
		require.NoError(t, os.WriteFile(filepath.Join(audioDir, name), []byte("RIFF"+name), 0o644))
	}

	return &config.Config{
		App: config.AppConfig{
			Port:               "0",
			Environment:        "test",
			LogFilePath:        filepath.Join(dir, "logs", "app.log"),
			CorsAllowedOrigins: "*",
		},
		Source: config.SourceConfig{
			Provider:      config.ProviderLocal,
			LocalFolder:   audioDir,
			Extensions:    []string{".wav"},
			CacheDuration: time.Minute,
			Timeout:       time.Second,
		},
		Form: config.FormConfig{
			URL:           "https://docs.google.com/forms/d/e/xyz/viewform",
			FilenameEntry: "entry.1",
		},
		Feedback: config.FeedbackConfig{
			FilePath: filepath.Join(dir, "feedback_data.json"),
			Topic:    "feedback.submitted",
		},
		Session: config.SessionConfig{
			Store: config.SessionStoreMemory,
			TTL:   time.Hour,
		},
	}
}

type client struct {
	t       *testing.T
	app     *fiber.App
	cookies []*http.Cookie
}

func (c *client) send(method, path, body string) (*http.Response, string) {
	c.t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	if len(resp.Cookies()) > 0 {
		c.cookies = resp.Cookies()
	}
	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, string(data)
}

func TestEvaluationFlow(t *testing.T) {
	cfg := newLocalConfig(t, "A.wav", "B.wav", "C.wav", "notes.txt")
	require.NoError(t, cfg.Validate())

	container, err := bootstrap.NewContainer(cfg)
	require.NoError(t, err)
	defer container.Close()

	srv := server.New(cfg, container)
	c := &client{t: t, app: srv.GetApp()}

	// 1. Landing page picks a file
	resp, page := c.send(http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, c.cookies)
	assert.Contains(t, page, `src="/static/`)

	// 2. The rest of the cycle
	seen := map[string]bool{}
	var last map[string]interface{}
	for i := 0; i < 2; i++ {
		resp, body := c.send(http.MethodGet, "/next-audio", "")
		require.Equal(t, http.StatusOK, resp.StatusCode, body)
		last = map[string]interface{}{}
		require.NoError(t, json.Unmarshal([]byte(body), &last))
		seen[last["audio_file"].(string)] = true
	}
	assert.Len(t, seen, 2)
	assert.Equal(t, true, last["cycle_complete"])
	assert.Equal(t, float64(3), last["total_samples"])

	// 3. Local files are served statically
	resp, audio := c.send(http.MethodGet, last["audio_url"].(string), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(audio, "RIFF"))

	// 4. Feedback is stored against the current file
	resp, body := c.send(http.MethodPost, "/save-feedback", `{"quality": "good"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	data, err := os.ReadFile(cfg.Feedback.FilePath)
	require.NoError(t, err)
	var stored []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &stored))
	require.Len(t, stored, 1)
	assert.Equal(t, last["audio_file"], stored[0]["filename"])

	// 5. Metrics reflect what happened
	resp, metrics := c.send(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, metrics, "audio_eval_audio_served_total 3")
	assert.Contains(t, metrics, "audio_eval_cycles_completed_total 1")
	assert.Contains(t, metrics, `audio_eval_feedback_total{outcome="saved"} 1`)

	// 6. Diagnostics read the stored count from disk
	resp, diag := c.send(http.MethodGet, "/test", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, diag, `"stored_records":1`)
	assert.Contains(t, diag, `"files_found":3`)
}

func TestEmptyFolderReturnsNotFound(t *testing.T) {
	cfg := newLocalConfig(t)

	container, err := bootstrap.NewContainer(cfg)
	require.NoError(t, err)
	defer container.Close()

	c := &client{t: t, app: server.New(cfg, container).GetApp()}

	resp, page := c.send(http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, page, "No audio files found.")

	for i := 0; i < 2; i++ {
		resp, body := c.send(http.MethodGet, "/next-audio", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, body, "No audio files found")
	}
}
