// Package cmd assembles the command line interface.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wildsnap/wildsnap-go/cmd/serve"
	"github.com/wildsnap/wildsnap-go/internal/conf"
	"github.com/wildsnap/wildsnap-go/internal/errors"
)

// RootCommand creates and returns the root command with all subcommands
// attached.
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wildsnap",
		Short: "WildSnap identifies wildlife in photos and serves a species reference database",
	}

	// Serving is the default action when no subcommand is given.
	serveCmd := serve.Command(settings)
	rootCmd.AddCommand(serveCmd)
	rootCmd.RunE = serveCmd.RunE

	if err := setupFlags(rootCmd, settings); err != nil {
		cobra.CheckErr(err)
	}

	return rootCmd
}

// setupFlags defines persistent flags and keeps them in sync with viper so
// command line values override the configuration file.
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", settings.Debug, "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&settings.Server.Host, "host", settings.Server.Host, "Interface to bind the HTTP server to")
	rootCmd.PersistentFlags().StringVar(&settings.Server.Port, "port", settings.Server.Port, "Port to listen on")

	if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		return errors.Newf("error binding debug flag: %w", err).
			Category(errors.CategoryConfiguration).
			Component("cmd").
			Build()
	}
	if err := viper.BindPFlag("server.host", rootCmd.PersistentFlags().Lookup("host")); err != nil {
		return errors.Newf("error binding host flag: %w", err).
			Category(errors.CategoryConfiguration).
			Component("cmd").
			Build()
	}
	if err := viper.BindPFlag("server.port", rootCmd.PersistentFlags().Lookup("port")); err != nil {
		return errors.Newf("error binding port flag: %w", err).
			Category(errors.CategoryConfiguration).
			Component("cmd").
			Build()
	}

	return nil
}
