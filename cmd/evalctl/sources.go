package main

import (
	"context"
	"fmt"
	"io"

	"audio-eval-be/internal/config"
	"audio-eval-be/pkg/source"
	"audio-eval-be/pkg/source/factory"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newSourcesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Audio source commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the audio files the configured provider returns",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if err := cfg.Validate(); err != nil {
				return err
			}
			src, err := newSource(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return listSources(cmd.Context(), cmd.OutOrStdout(), src)
		},
	})
	return cmd
}

func newSource(ctx context.Context, cfg *config.Config) (source.Source, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return factory.NewSource(ctx, factory.Options{
		Provider:        cfg.Source.Provider,
		Extensions:      cfg.Source.Extensions,
		Timeout:         cfg.Source.Timeout,
		LocalFolder:     cfg.Source.LocalFolder,
		BoxFolderID:     cfg.Source.BoxFolderID,
		BoxAccessToken:  cfg.Source.BoxAccessToken,
		BoxClientID:     cfg.Source.BoxClientID,
		BoxClientSecret: cfg.Source.BoxClientSecret,
		BoxEnterpriseID: cfg.Source.BoxEnterpriseID,
		DriveFolderID:   cfg.Source.DriveFolderID,
		DriveCredsFile:  cfg.Source.DriveCredsFile,
		DriveAPIKey:     cfg.Source.DriveAPIKey,
		CacheDuration:   cfg.Source.CacheDuration,
	})
}

// listSources prints the listing. A provider error is reported but is not a
// command failure, matching how the server degrades.
func listSources(ctx context.Context, w io.Writer, src source.Source) error {
	if ctx == nil {
		ctx = context.Background()
	}
	res := src.ListFiles(ctx)

	fmt.Fprintf(w, "%s %s\n", color.CyanString("Provider:"), src.Name())
	fmt.Fprintf(w, "%s %s\n", color.CyanString("Location:"), src.Location())

	if !res.OK() {
		fmt.Fprintln(w, color.RedString("Error: %v", res.Err))
		if res.Stale {
			fmt.Fprintln(w, color.YellowString("Serving cached listing from %s", res.FetchedAt.Format("2006-01-02 15:04:05")))
		}
	}

	fmt.Fprintf(w, "%s %d\n", color.CyanString("Files:"), len(res.Files))
	for _, f := range res.Files {
		if f.Size > 0 {
			fmt.Fprintf(w, "  %s (%d bytes)\n", f.Name, f.Size)
			continue
		}
		fmt.Fprintf(w, "  %s\n", f.Name)
	}
	return nil
}
