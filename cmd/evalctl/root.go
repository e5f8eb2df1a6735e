package main

import (
	"audio-eval-be/internal/config"

	"github.com/spf13/cobra"
)

// loadConfig is swapped in tests.
var loadConfig = config.Load

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "evalctl",
		Short: "Inspect an audio evaluation deployment",
		Long: `evalctl reads the same environment as the server (.env is honoured)
and reports on the audio source, stored feedback and the feedback form.

Examples:
  evalctl sources list
  evalctl feedback summary --file feedback_data.json
  evalctl form-url sample_01.wav
  evalctl events watch --all`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newSourcesCommand(),
		newFeedbackCommand(),
		newFormURLCommand(),
		newEventsCommand(),
	)
	return root
}
