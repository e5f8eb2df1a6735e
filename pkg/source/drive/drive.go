// Package drive lists audio files from a Google Drive folder using the Drive
// v3 REST API.
package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"audio-eval-be/pkg/source"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	DefaultAPIURL = "https://www.googleapis.com/drive/v3"
	ReadOnlyScope = "https://www.googleapis.com/auth/drive.readonly"

	downloadURLFormat = "https://drive.google.com/uc?export=download&id=%s"
	pageSize          = 1000
)

// queryEscaper quotes a value for a single-quoted Drive query string.
var queryEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

type Config struct {
	FolderID string

	// Service account JSON key file. When empty, APIKey is used and the folder
	// must be shared publicly.
	CredentialsFile string
	APIKey          string

	APIURL     string
	Timeout    time.Duration
	Extensions []string
}

type Source struct {
	cfg    Config
	client *http.Client
	stream *http.Client
	// set when credentials could not be loaded; every listing reports it
	initErr error
}

func New(ctx context.Context, cfg Config) *Source {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	s := &Source{cfg: cfg}
	base := &http.Client{Timeout: cfg.Timeout}

	if cfg.CredentialsFile == "" {
		s.client = base
		s.stream = &http.Client{}
		return s
	}

	data, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		s.initErr = fmt.Errorf("read drive credentials: %w", err)
		return s
	}
	creds, err := google.CredentialsFromJSON(context.WithValue(ctx, oauth2.HTTPClient, base), data, ReadOnlyScope)
	if err != nil {
		s.initErr = fmt.Errorf("parse drive credentials: %w", err)
		return s
	}

	client := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, base), creds.TokenSource)
	stream := *client
	client.Timeout = cfg.Timeout
	s.client = client
	s.stream = &stream
	return s
}

func (s *Source) Name() string {
	return "drive"
}

func (s *Source) Location() string {
	return "drive:" + s.cfg.FolderID
}

type fileList struct {
	NextPageToken string      `json:"nextPageToken"`
	Files         []driveFile `json:"files"`
}

type driveFile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	Size         string `json:"size"`
	ModifiedTime string `json:"modifiedTime"`
}

func (s *Source) ListFiles(ctx context.Context) source.Result {
	if s.initErr != nil {
		return source.Failure(s.initErr)
	}

	var files []source.File
	pageToken := ""

	for {
		page, err := s.fetchPage(ctx, pageToken)
		if err != nil {
			return source.Failure(err)
		}

		for _, df := range page.Files {
			if df.MimeType == "application/vnd.google-apps.folder" {
				continue
			}
			f := source.File{
				Name:        df.Name,
				ID:          df.ID,
				DownloadURL: fmt.Sprintf(downloadURLFormat, df.ID),
			}
			if size, err := strconv.ParseInt(df.Size, 10, 64); err == nil {
				f.Size = size
			}
			if mod, err := time.Parse(time.RFC3339, df.ModifiedTime); err == nil {
				f.Modified = &mod
			}
			files = append(files, f)
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	return source.Success(source.FilterAudio(files, s.cfg.Extensions))
}

func (s *Source) fetchPage(ctx context.Context, pageToken string) (*fileList, error) {
	params := url.Values{}
	params.Add("q", fmt.Sprintf("'%s' in parents and trashed = false", queryEscaper.Replace(s.cfg.FolderID)))
	params.Add("fields", "nextPageToken,files(id,name,mimeType,size,modifiedTime)")
	params.Add("pageSize", strconv.Itoa(pageSize))
	params.Add("supportsAllDrives", "true")
	params.Add("includeItemsFromAllDrives", "true")
	if pageToken != "" {
		params.Add("pageToken", pageToken)
	}
	if s.cfg.APIKey != "" {
		params.Add("key", s.cfg.APIKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.APIURL+"/files?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build drive request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("drive folder listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("drive folder listing: status %d: %s", resp.StatusCode, string(body))
	}

	var page fileList
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode drive folder listing: %w", err)
	}
	return &page, nil
}

func (s *Source) Open(ctx context.Context, file source.File) (io.ReadCloser, string, error) {
	if s.initErr != nil {
		return nil, "", s.initErr
	}
	if file.ID == "" {
		return nil, "", source.ErrFileNotFound
	}

	params := url.Values{}
	params.Add("alt", "media")
	if s.cfg.APIKey != "" {
		params.Add("key", s.cfg.APIKey)
	}
	endpoint := fmt.Sprintf("%s/files/%s?%s", s.cfg.APIURL, url.PathEscape(file.ID), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build drive download request: %w", err)
	}

	resp, err := s.stream.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("drive download: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, "", source.ErrFileNotFound
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, "", fmt.Errorf("drive download: status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = source.ContentType(file.Name)
	}
	return resp.Body, contentType, nil
}
