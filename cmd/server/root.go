package main

import (
	"github.com/dkeye/Hearth/internal/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "hearth",
		Short:         "Hearth room, presence and signaling server",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default config/config.$CONFIG_ENV.yaml)")
	flags.Int("port", 4000, "HTTP listen port")
	flags.String("rooms-dir", "./rooms", "directory holding one subdirectory per room")
	flags.String("static", "./web", "directory with the web client")
	flags.String("mode", "release", "gin mode: release or debug")

	rootCmd.AddCommand(
		newServeCmd(),
		newRoomsCmd(),
	)
	return rootCmd
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}
	zerolog.SetGlobalLevel(cfg.Level())
	return cfg, nil
}
