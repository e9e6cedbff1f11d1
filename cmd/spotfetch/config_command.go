package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"spotfetch/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a config file with default values",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultPath()

			if !overwrite {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", path)
				} else if !os.IsNotExist(err) {
					return err
				}
			}

			if err := config.DefaultSettings().Save(path); err != nil {
				return err
			}

			fmt.Println("Wrote", path)
			fmt.Println("Fill in spotify.client_id, spotify.client_secret and sources.deezer.arl_token.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing config file")
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ctx.loadSettings()
			if err != nil {
				return err
			}

			// Never print credentials.
			redacted := *settings
			if redacted.Spotify.ClientSecret != "" {
				redacted.Spotify.ClientSecret = "<set>"
			}
			if redacted.Sources.Deezer.ARLToken != "" {
				redacted.Sources.Deezer.ARLToken = "<set>"
			}

			data, err := yaml.Marshal(&redacted)
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		},
	}
}
