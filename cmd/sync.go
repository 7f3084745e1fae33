package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"tidbyt.dev/timetable/downloader"
	"tidbyt.dev/timetable/feed"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Downloads and/or unpacks a GTFS archive into the feed directory",
	Args:  cobra.NoArgs,
	RunE:  runSync,
}

var (
	downloadTimeout time.Duration
	maxSize         int
)

func init() {
	syncCmd.Flags().StringVarP(&syncURL, "url", "u", "", "Feed archive URL (defaults to url from config)")
	syncCmd.Flags().StringVarP(&syncZip, "zip", "z", "", "Local feed archive")
	syncCmd.Flags().DurationVarP(&downloadTimeout, "timeout", "", 5*time.Minute, "Download timeout")
	syncCmd.Flags().IntVarP(&maxSize, "max-size", "", 0, "Maximum archive size in bytes (0 for no limit)")
}

func runSync(cmd *cobra.Command, args []string) error {
	url := syncURL
	if url == "" && syncZip == "" {
		url = cfg.URL
	}
	if url == "" && syncZip == "" {
		return fmt.Errorf("one of --url or --zip is required")
	}

	return syncFeed(cmd.Context(), url, syncZip, cfg.Path)
}

func syncFeed(ctx context.Context, url string, archive string, dir string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if url != "" {
		log.Debug().Str("url", url).Str("path", dir).Msg("downloading")
		path, err := downloader.ToFile(ctx, url, dir, nil, downloader.GetOptions{
			Timeout: downloadTimeout,
			MaxSize: maxSize,
		})
		if err != nil {
			return err
		}
		if err := extract(path, dir); err != nil {
			return err
		}
	}

	if archive != "" {
		if err := extract(archive, dir); err != nil {
			return err
		}
	}

	return nil
}

func extract(archive string, dir string) error {
	log.Debug().Str("archive", archive).Str("path", dir).Msg("extracting")

	names, err := feed.Unzip(archive, dir)
	if err != nil {
		return err
	}
	for _, name := range names {
		log.Debug().Str("file", name).Msg("extracted")
	}
	return nil
}
