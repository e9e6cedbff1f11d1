package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"spotfetch/internal/playlist"
)

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	var output string
	var format string
	var writePlaylist bool

	cmd := &cobra.Command{
		Use:   "download <playlist|album|track link>",
		Short: "Download everything behind a Spotify link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ctx.loadSettings()
			if err != nil {
				return err
			}
			if output != "" {
				settings.Download.OutputDir = output
			}
			if format != "" {
				settings.Download.AudioFormat = format
				if err := settings.Validate(); err != nil {
					return err
				}
			}

			app, cleanup, err := newApp(cmd.Context(), settings)
			if err != nil {
				return err
			}
			defer cleanup()

			title, tracks, err := app.resolveInput(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			runErr := app.runBatch(cmd.Context(), title, tracks)

			if writePlaylist || settings.Organization.WritePlaylist {
				plFormat, err := playlist.ParseFormat(settings.Organization.PlaylistFormat)
				if err != nil {
					return err
				}
				writer := playlist.NewWriter(plFormat, settings.ToPathConfig())
				if path, err := writer.Write(title, tracks); err != nil {
					return err
				} else if path != "" {
					fmt.Println("Playlist written to", path)
				}
			}

			return runErr
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Override the download directory")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Override the audio format (mp3, flac, wav, m4a)")
	cmd.Flags().BoolVarP(&writePlaylist, "playlist", "p", false, "Write a playlist file for the run")

	return cmd
}
