package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"spotfetch/internal/convert"
	"spotfetch/internal/logging"
	"spotfetch/internal/source"

	httpclient "spotfetch/internal/http"
)

func newSourcesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "Show the configured download sources and their status",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ctx.loadSettings()
			if err != nil {
				return err
			}

			logger := logging.Discard()
			client := httpclient.NewClient()
			converter := convert.NewConverter(settings.Download.AudioQuality, logger)

			usable := map[string]bool{}
			registry, err := source.BuildRegistry(settings, client, converter, logger)
			if err == nil {
				for _, name := range registry.Names() {
					usable[name] = true
				}
			}

			fmt.Println("Sources in fallback order:")
			for i, name := range settings.Sources.Priority {
				status := "unavailable"
				switch {
				case usable[name]:
					status = "ready"
				case name == "deezer" && !settings.Sources.Deezer.Enabled,
					name == "youtube" && !settings.Sources.YouTube.Enabled:
					status = "disabled"
				}
				fmt.Printf("  %d. %-8s %s\n", i+1, name, status)
			}

			if err != nil {
				fmt.Println()
				fmt.Println(err)
			}
			return nil
		},
	}
}
