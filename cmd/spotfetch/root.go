package main

import (
	"github.com/spf13/cobra"

	"spotfetch/internal/config"
)

// commandContext carries the flags and lazily loaded settings shared
// by every subcommand.
type commandContext struct {
	configFlag *string
	settings   *config.Settings
}

func (c *commandContext) loadSettings() (*config.Settings, error) {
	if c.settings != nil {
		return c.settings, nil
	}

	path := *c.configFlag
	if path == "" {
		path = config.DefaultPath()
	}

	settings, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	c.settings = settings
	return settings, nil
}

func newRootCommand() *cobra.Command {
	var configFlag string
	ctx := &commandContext{configFlag: &configFlag}

	rootCmd := &cobra.Command{
		Use:           "spotfetch",
		Short:         "Download Spotify playlists, albums and tracks from alternative sources",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newDownloadCommand(ctx))
	rootCmd.AddCommand(newTrackCommand(ctx))
	rootCmd.AddCommand(newSearchCommand(ctx))
	rootCmd.AddCommand(newRetryCommand(ctx))
	rootCmd.AddCommand(newSourcesCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
