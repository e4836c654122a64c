package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"modescore/internal/app"
	"modescore/internal/config"
	"modescore/internal/logging"
)

func main() {
	if err := newRootCommand(os.Stdin, os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand(stdin io.Reader, stdout io.Writer) *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "modes-decode [file...]",
		Short: "Mode S / ADS-B frame decoder",
		Long: `Mode S / ADS-B frame decoder.

Reads one hex frame per line (*8D4840D6202CC371C32CE0576098; or plain hex,
optionally with an @ 12 MHz timestamp prefix) from each file, or from stdin,
and prints the decoded messages. Each file is decoded as a separate feed.

Example usage:
  modes-decode --lat 52.31 --lon 4.76 capture.txt
  nc localhost 30002 | modes-decode -`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}

			logger, err := logging.New(logging.Options{
				Level:      cfg.Log.Level,
				File:       cfg.Log.File,
				MaxSizeMB:  cfg.Log.MaxSizeMB,
				MaxBackups: cfg.Log.MaxBackups,
				Compress:   cfg.Log.Compress,
			})
			if err != nil {
				return fmt.Errorf("failed to initialize logging: %w", err)
			}

			feeds, err := app.OpenFeeds(args, stdin)
			if err != nil {
				logger.Close()
				return err
			}

			application := app.NewApplication(cfg, logger, stdout)
			return application.Start(feeds)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML configuration file")
	config.AddFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			app.ShowVersion(stdout)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return cfg.Dump(stdout)
		},
	})

	return rootCmd
}
