package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"spotfetch/internal/model"
	"spotfetch/internal/spotify"
)

func newTrackCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "track <track link or ID>",
		Short: "Download a single track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ctx.loadSettings()
			if err != nil {
				return err
			}

			kind, id, err := spotify.ParseLink(args[0])
			if err != nil {
				return err
			}
			if kind != spotify.KindTrack {
				return fmt.Errorf("%q is a %s link; use the download command for those", args[0], kind)
			}

			app, cleanup, err := newApp(cmd.Context(), settings)
			if err != nil {
				return err
			}
			defer cleanup()

			track, err := app.catalog.GetTrack(cmd.Context(), id)
			if err != nil {
				return err
			}

			return app.runBatch(cmd.Context(), track.String(), []*model.Track{track})
		},
	}
}
