package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"audio-eval-be/pkg/events"
	pktNats "audio-eval-be/pkg/nats"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newEventsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Feedback event commands (requires NATS_URL)",
	}

	var all bool
	watch := &cobra.Command{
		Use:   "watch",
		Short: "Print feedback events as they are published",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if cfg.Events.NatsURL == "" {
				return errors.New("NATS_URL is not set")
			}

			sub, err := pktNats.NewSubscriber(cfg.Events.NatsURL)
			if err != nil {
				return err
			}
			defer sub.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, color.CyanString("Watching %s (Ctrl+C to stop)", pktNats.Subject(events.TypeFeedbackSubmitted)))
			return sub.Watch(ctx, events.TypeFeedbackSubmitted, all, func(ctx context.Context, event events.Event) error {
				data := event.Payload()
				fmt.Fprintf(out, "%s  %s  session=%v fields=%v\n",
					color.GreenString(event.Timestamp().Format("15:04:05")),
					data["filename"], data["session_id"], data["field_count"])
				return nil
			})
		},
	}
	watch.Flags().BoolVar(&all, "all", false, "replay events already in the stream")

	cmd.AddCommand(watch)
	return cmd
}
