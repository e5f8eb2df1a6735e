package factory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"audio-eval-be/pkg/source"
	"audio-eval-be/pkg/source/box"
	"audio-eval-be/pkg/source/drive"
	"audio-eval-be/pkg/source/local"
)

// Options carries everything any provider might need; each provider reads
// only its own fields.
type Options struct {
	Provider   string
	Extensions []string
	Timeout    time.Duration

	LocalFolder string

	BoxFolderID     string
	BoxAccessToken  string
	BoxClientID     string
	BoxClientSecret string
	BoxEnterpriseID string

	DriveFolderID  string
	DriveCredsFile string
	DriveAPIKey    string
	CacheDuration  time.Duration
}

// NewSource builds the configured provider. Only Drive is wrapped in the
// listing cache.
func NewSource(ctx context.Context, opts Options) (source.Source, error) {
	switch strings.ToLower(opts.Provider) {
	case "local", "":
		return local.New(opts.LocalFolder, opts.Extensions), nil
	case "box":
		return box.New(box.Config{
			FolderID:     opts.BoxFolderID,
			AccessToken:  opts.BoxAccessToken,
			ClientID:     opts.BoxClientID,
			ClientSecret: opts.BoxClientSecret,
			EnterpriseID: opts.BoxEnterpriseID,
			Timeout:      opts.Timeout,
			Extensions:   opts.Extensions,
		}), nil
	case "drive":
		src := drive.New(ctx, drive.Config{
			FolderID:        opts.DriveFolderID,
			CredentialsFile: opts.DriveCredsFile,
			APIKey:          opts.DriveAPIKey,
			Timeout:         opts.Timeout,
			Extensions:      opts.Extensions,
		})
		return source.NewCachedSource(src, opts.CacheDuration), nil
	default:
		return nil, fmt.Errorf("unsupported audio provider: %s", opts.Provider)
	}
}
