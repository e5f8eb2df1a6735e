// Package box lists audio files from a Box.com folder through the Box
// Content API.
package box

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"audio-eval-be/pkg/source"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	DefaultAPIURL   = "https://api.box.com/2.0"
	DefaultTokenURL = "https://api.box.com/oauth2/token"

	pageLimit = 1000
)

type Config struct {
	FolderID string

	// Either a developer/access token, or client credentials for a
	// server-authenticated app (enterprise subject).
	AccessToken  string
	ClientID     string
	ClientSecret string
	EnterpriseID string

	APIURL     string
	TokenURL   string
	Timeout    time.Duration
	Extensions []string
}

type Source struct {
	cfg    Config
	client *http.Client
	// same transport without the listing timeout, for streaming downloads
	stream *http.Client
}

func New(cfg Config) *Source {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	base := &http.Client{Timeout: cfg.Timeout}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)

	var client *http.Client
	if cfg.AccessToken != "" {
		client = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken}))
	} else {
		cc := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			EndpointParams: url.Values{
				"box_subject_type": {"enterprise"},
				"box_subject_id":   {cfg.EnterpriseID},
			},
		}
		client = cc.Client(ctx)
	}
	stream := *client
	client.Timeout = cfg.Timeout

	return &Source{cfg: cfg, client: client, stream: &stream}
}

func (s *Source) Name() string {
	return "box"
}

func (s *Source) Location() string {
	return "box:" + s.cfg.FolderID
}

type folderItems struct {
	TotalCount int       `json:"total_count"`
	Entries    []boxItem `json:"entries"`
	Offset     int       `json:"offset"`
	Limit      int       `json:"limit"`
}

type boxItem struct {
	Type       string `json:"type"`
	ID         string `json:"id"`
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	ModifiedAt string `json:"modified_at"`
}

func (s *Source) ListFiles(ctx context.Context) source.Result {
	var files []source.File
	offset := 0

	for {
		page, err := s.fetchPage(ctx, offset)
		if err != nil {
			return source.Failure(err)
		}

		for _, item := range page.Entries {
			if item.Type != "file" {
				continue
			}
			f := source.File{Name: item.Name, ID: item.ID, Size: item.Size}
			if mod, err := time.Parse(time.RFC3339, item.ModifiedAt); err == nil {
				f.Modified = &mod
			}
			files = append(files, f)
		}

		offset += len(page.Entries)
		if len(page.Entries) == 0 || offset >= page.TotalCount {
			break
		}
	}

	return source.Success(source.FilterAudio(files, s.cfg.Extensions))
}

func (s *Source) fetchPage(ctx context.Context, offset int) (*folderItems, error) {
	params := url.Values{}
	params.Add("fields", "type,id,name,size,modified_at")
	params.Add("limit", strconv.Itoa(pageLimit))
	params.Add("offset", strconv.Itoa(offset))

	endpoint := fmt.Sprintf("%s/folders/%s/items?%s", s.cfg.APIURL, url.PathEscape(s.cfg.FolderID), params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build box request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("box folder listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("box folder listing: status %d: %s", resp.StatusCode, string(body))
	}

	var page folderItems
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode box folder listing: %w", err)
	}
	return &page, nil
}

func (s *Source) Open(ctx context.Context, file source.File) (io.ReadCloser, string, error) {
	if file.ID == "" {
		return nil, "", source.ErrFileNotFound
	}

	endpoint := fmt.Sprintf("%s/files/%s/content", s.cfg.APIURL, url.PathEscape(file.ID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", fmt.Errorf("build box download request: %w", err)
	}

	resp, err := s.stream.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("box download: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, "", source.ErrFileNotFound
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, "", fmt.Errorf("box download: status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = source.ContentType(file.Name)
	}
	return resp.Body, contentType, nil
}
