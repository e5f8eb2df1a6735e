package main

import (
	"errors"
	"fmt"

	"audio-eval-be/pkg/formurl"

	"github.com/spf13/cobra"
)

func newFormURLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "form-url <filename>",
		Short: "Print the embed URL of the feedback form for a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			forms := formurl.New(cfg.Form.URL, cfg.Form.FilenameEntry)
			if !forms.Configured() {
				return errors.New("GOOGLE_FORM_URL is not set to a form URL")
			}
			fmt.Fprintln(cmd.OutOrStdout(), forms.EmbedURL(args[0]))
			return nil
		},
	}
}
