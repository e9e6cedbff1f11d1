package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"spotfetch/internal/model"
)

func newRetryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry",
		Short: "Retry the tracks that failed in the previous run",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ctx.loadSettings()
			if err != nil {
				return err
			}

			app, cleanup, err := newApp(cmd.Context(), settings)
			if err != nil {
				return err
			}
			defer cleanup()

			entries, err := app.ledger.Load()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("Nothing to retry.")
				return nil
			}

			// Refresh each track from the catalog; the ledger keeps
			// only identity fields and the scorer wants full metadata.
			// Tracks the catalog no longer knows are retried with the
			// ledger data alone.
			tracks := make([]*model.Track, 0, len(entries))
			for _, entry := range entries {
				track := entry.ToTrack()
				if entry.Identifier != "" {
					if fresh, err := app.catalog.GetTrack(cmd.Context(), entry.Identifier); err == nil {
						track = fresh
					}
				}
				tracks = append(tracks, track)
			}

			return app.runBatch(cmd.Context(), "Retrying failed downloads", tracks)
		},
	}
}
