// Package cli provides the command-line interface for the uploader.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Shawn-29/Cloudinary-Image-Uploader/internal/api"
	"github.com/Shawn-29/Cloudinary-Image-Uploader/internal/config"
	"github.com/Shawn-29/Cloudinary-Image-Uploader/internal/logging"
	"github.com/Shawn-29/Cloudinary-Image-Uploader/internal/version"
)

var (
	// Global flags
	cfgFile string
	verbose bool

	// Global logger
	logger *logging.Logger
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "cld-uploader",
		Short:   "Bulk image uploader for Cloudinary",
		Version: version.String(),
		Long: `cld-uploader ` + version.Version + `
Uploads a directory of images to Cloudinary in chunked, signed requests,
running up to 10 transfers at once. Files are validated locally before any
bytes are sent, already-uploaded files are skipped, and per-file failures
are collected in an error log without aborting the batch.

Credentials come from a YAML config file or the CLOUDINARY_URL environment
variable (cloudinary://<api_key>:<api_secret>@<cloud_name>).`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.NewDefaultLogger()
			if verbose {
				logging.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (shows debug messages)")

	rootCmd.AddCommand(newUploadCmd())
	rootCmd.AddCommand(newPingCmd())

	return rootCmd
}

// Execute runs the CLI with signal-aware cancellation.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// loadClient builds the API client from the effective configuration.
func loadClient() (*api.Client, *config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	client, err := api.NewClient(api.Options{
		CloudName: cfg.CloudName,
		APIKey:    cfg.APIKey,
		APISecret: cfg.APISecret,
	})
	if err != nil {
		return nil, nil, err
	}
	return client, cfg, nil
}
