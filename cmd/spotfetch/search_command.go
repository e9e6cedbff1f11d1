package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"spotfetch/internal/display"
	"spotfetch/internal/model"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var listOnly bool

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the catalog and pick a track to download",
		Long: `Search the Spotify catalog by free text. Without a query an
interactive prompt opens; the results are shown in a picker and the
selected track is downloaded.`,
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

			query := strings.Join(args, " ")
			if query == "" {
				query, err = display.PromptQuery("Search tracks", "artist and title")
				if err != nil {
					return err
				}
				if query == "" {
					return nil
				}
			}

			tracks, err := app.catalog.SearchTracks(cmd.Context(), query, limit)
			if err != nil {
				return err
			}
			if len(tracks) == 0 {
				return fmt.Errorf("no results for %q", query)
			}

			if listOnly {
				fmt.Print(display.TrackTable(tracks))
				return nil
			}

			track, err := display.PickTrack(fmt.Sprintf("Results for %q", query), tracks)
			if err != nil {
				return err
			}
			if track == nil {
				return nil
			}

			return app.runBatch(cmd.Context(), track.String(), []*model.Track{track})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of results")
	cmd.Flags().BoolVar(&listOnly, "list", false, "Print results without the interactive picker")

	return cmd
}
