package main

import (
	"context"
	"fmt"
	"io"
	"sort"

	"audio-eval-be/internal/repository/feedback"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newFeedbackCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Stored feedback commands",
	}

	var file string
	summary := &cobra.Command{
		Use:   "summary",
		Short: "Count stored feedback per audio file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				file = loadConfig().Feedback.FilePath
			}
			return summarizeFeedback(cmd.Context(), cmd.OutOrStdout(), feedback.NewJSONFileSink(file))
		},
	}
	summary.Flags().StringVarP(&file, "file", "f", "", "feedback file (defaults to FEEDBACK_FILE)")

	cmd.AddCommand(summary)
	return cmd
}

func summarizeFeedback(ctx context.Context, w io.Writer, sink *feedback.JSONFileSink) error {
	if ctx == nil {
		ctx = context.Background()
	}
	records := sink.All(ctx)

	counts := make(map[string]int)
	for _, r := range records {
		name, _ := r["filename"].(string)
		if name == "" {
			name = "unknown"
		}
		counts[name]++
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})

	fmt.Fprintf(w, "%s %s\n", color.CyanString("File:"), sink.Path())
	fmt.Fprintf(w, "%s %d\n", color.CyanString("Records:"), len(records))
	if len(records) == 0 {
		fmt.Fprintln(w, color.YellowString("No feedback stored yet"))
		return nil
	}
	for _, name := range names {
		fmt.Fprintf(w, "  %5d  %s\n", counts[name], name)
	}
	return nil
}
