package cli

import (
	"fmt"
	"os"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/Shawn-29/Cloudinary-Image-Uploader/internal/constants"
	"github.com/Shawn-29/Cloudinary-Image-Uploader/internal/errlog"
	"github.com/Shawn-29/Cloudinary-Image-Uploader/internal/events"
	"github.com/Shawn-29/Cloudinary-Image-Uploader/internal/progress"
	"github.com/Shawn-29/Cloudinary-Image-Uploader/internal/scan"
	"github.com/Shawn-29/Cloudinary-Image-Uploader/internal/upload"
	"github.com/Shawn-29/Cloudinary-Image-Uploader/internal/validate"
)

func newUploadCmd() *cobra.Command {
	var (
		folder             string
		maxConcurrent      int
		chunkSize          int64
		skipExistenceCheck bool
		logPath            string
		logOverwrite       bool
		separator          string
		extensions         []string
	)

	cmd := &cobra.Command{
		Use:   "upload <directory>",
		Short: "Upload every image in a directory",
		Long: `Upload every image in a directory to Cloudinary.

Each file is validated locally (extension plus magic-number check) and
checked against remote storage before upload; invalid files are logged and
skipped, already-uploaded files are skipped silently. Large files are sent
in chunks under a single upload session. A critical failure (for example
an authentication error) cancels the rest of the batch.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := loadClient()
			if err != nil {
				return err
			}

			dir := args[0]
			if info, err := os.Stat(dir); err != nil {
				return fmt.Errorf("cannot read %s: %w", dir, err)
			} else if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", dir)
			}

			// Flags override config, config overrides defaults.
			if !cmd.Flags().Changed("max-concurrent") {
				maxConcurrent = cfg.MaxConcurrent
			}
			if !cmd.Flags().Changed("chunk-size") {
				chunkSize = cfg.ChunkSize
			}
			if !cmd.Flags().Changed("log") {
				logPath = cfg.LogPath
			}
			if !cmd.Flags().Changed("folder") {
				folder = cfg.Folder
			}
			if len(extensions) == 0 {
				extensions = cfg.Extensions
			}
			if len(extensions) == 0 {
				extensions = validate.AllowedExtensions()
			}

			// The config-file path is validated in loadClient; the flag
			// value still needs the same bounds check.
			if chunkSize < constants.MinChunkSize || chunkSize > constants.MaxChunkSize {
				return fmt.Errorf("chunk size must be between %d and %d bytes, got %d",
					constants.MinChunkSize, constants.MaxChunkSize, chunkSize)
			}

			filenames, err := scan.List(dir, extensions)
			if err != nil {
				return err
			}
			if len(filenames) == 0 {
				logger.Info().Str("dir", dir).Msg("No candidate files found")
				return nil
			}

			logger.Info().
				Int("count", len(filenames)).
				Str("cloud", client.CloudName()).
				Msg("Starting upload batch")

			params := map[string]string{}
			if folder != "" {
				params["folder"] = folder
			}

			logMode := errlog.FailIfExists
			if logOverwrite {
				logMode = errlog.Overwrite
			}

			notifier := events.NewNotifier()

			bar := progress.NewBar(len(filenames), os.Stdout)
			notifier.Register(bar.Observer())
			notifier.Register(func(e events.Event) {
				switch e.Kind {
				case events.KindSuccess:
					ev := logger.Info().Str("file", e.Path)
					if e.Response != nil {
						ev = ev.Str("public_id", e.Response.PublicID).
							Str("url", e.Response.SecureURL)
					}
					ev.Msg("Uploaded")
				case events.KindError:
					logger.Error().Str("file", e.Path).Msg(e.Message)
				case events.KindCritical:
					logger.Error().Str("file", e.Path).Str("severity", "critical").Msg(e.Message)
				}
			})

			coordinator := upload.NewCoordinator(client, notifier, logger, upload.Options{
				Params:             params,
				Concurrency:        maxConcurrent,
				ChunkSize:          chunkSize,
				SkipExistenceCheck: skipExistenceCheck,
				LogPath:            logPath,
				LogMode:            logMode,
				LogSeparator:       separator,
			})

			summary, err := coordinator.Run(cmd.Context(), dir, filenames)
			bar.Finish()
			if err != nil {
				return err
			}

			fmt.Printf("\nUploaded %d of %d file(s) (%s)\n",
				summary.Uploaded, summary.Candidates, units.HumanSize(float64(summary.Bytes)))
			if summary.Skipped > 0 {
				fmt.Printf("Skipped %d already-uploaded file(s)\n", summary.Skipped)
			}
			if summary.Invalid > 0 {
				fmt.Printf("Excluded %d invalid file(s), see %s\n", summary.Invalid, logPath)
			}
			if summary.Failed > 0 {
				fmt.Printf("Failed %d file(s), see %s\n", summary.Failed, logPath)
			}

			if summary.Cancelled {
				return fmt.Errorf("batch aborted after a critical failure")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&folder, "folder", "", "Remote folder to upload into")
	cmd.Flags().IntVar(&maxConcurrent, "max-concurrent", 0, "Concurrent uploads (1-10)")
	cmd.Flags().Int64Var(&chunkSize, "chunk-size", 0, "Chunk size in bytes")
	cmd.Flags().BoolVar(&skipExistenceCheck, "skip-existence-check", false, "Upload even if the file already exists remotely")
	cmd.Flags().StringVar(&logPath, "log", "", "Error log file path")
	cmd.Flags().BoolVar(&logOverwrite, "log-overwrite", false, "Overwrite an existing error log instead of refusing to start")
	cmd.Flags().StringVar(&separator, "separator", "", "Error log entry separator (default: line terminator)")
	cmd.Flags().StringSliceVar(&extensions, "ext", nil, "Extensions to include (default: all supported image types)")

	return cmd
}
