package cmd

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"livestream-sync/core/config"
	"livestream-sync/core/storage"
	"livestream-sync/feature/thumbnail"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// thumbnailsCmd is the parent command for thumbnail cache maintenance.
var thumbnailsCmd = &cobra.Command{
	Use:   "thumbnails",
	Short: "Inspect and maintain the thumbnail cache",
	Long: `The thumbnail cache remembers which thumbnail was last uploaded to each
broadcast, so unchanged thumbnails are not uploaded on every run.`,
}

var thumbnailsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached thumbnails",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cache, _, l, err := openThumbnailCache(cmd.Context())
		if err != nil {
			return err
		}
		defer l.Sync()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "VIDEO\tTHUMBNAIL")
		for _, e := range cache.Entries() {
			fmt.Fprintf(w, "%s\t%s\n", e.VideoID, e.URI)
		}
		return w.Flush()
	},
}

var thumbnailsForgetCmd = &cobra.Command{
	Use:   "forget VIDEO_ID...",
	Short: "Forget videos so their thumbnails are uploaded again",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, _, l, err := openThumbnailCache(cmd.Context())
		if err != nil {
			return err
		}
		defer l.Sync()

		for _, id := range args {
			if cache.Forget(id) {
				l.Info("Forgot thumbnail", zap.String("video_id", id))
			} else {
				l.Warn("Video not in thumbnail cache", zap.String("video_id", id))
			}
		}
		return cache.Save(cmd.Context())
	},
}

var thumbnailsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove the thumbnail cache so every thumbnail is uploaded again",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, store, l, err := openThumbnailCache(cmd.Context())
		if err != nil {
			return err
		}
		defer l.Sync()

		if err := store.Remove(cmd.Context()); err != nil {
			return fmt.Errorf("remove thumbnail cache %s: %w", store, err)
		}
		l.Info("Removed thumbnail cache", zap.Stringer("store", store))
		return nil
	},
}

var thumbnailsImagesCmd = &cobra.Command{
	Use:   "images",
	Short: "List thumbnail images in object storage",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, l, err := setup()
		if err != nil {
			return err
		}
		defer l.Sync()

		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to create storage client: %w", err)
		}
		uris, err := thumbnail.NewLoader(client, "").ListImages(cmd.Context(), cfg.Storage.Bucket, cfg.Thumbnails.ImagePrefix)
		if err != nil {
			return err
		}
		if len(uris) > 0 {
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(uris, "\n"))
		}
		return nil
	},
}

func init() {
	thumbnailsCmd.AddCommand(thumbnailsListCmd, thumbnailsForgetCmd, thumbnailsResetCmd, thumbnailsImagesCmd)
	RootCmd.AddCommand(thumbnailsCmd)
}

// openThumbnailCache loads the configured cache and its store.
func openThumbnailCache(ctx context.Context) (*thumbnail.Cache, thumbnail.Store, *zap.Logger, error) {
	cfg, l, err := setup()
	if err != nil {
		return nil, nil, nil, err
	}
	store, err := thumbnailStore(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	cache, err := thumbnail.Load(ctx, store, l)
	if err != nil {
		return nil, nil, nil, err
	}
	return cache, store, l, nil
}

func thumbnailStore(cfg *config.Config) (thumbnail.Store, error) {
	var client storage.Client
	if cfg.Thumbnails.Backend == "s3" {
		c, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		client = c
	}
	return thumbnail.NewStore(cfg.Thumbnails, client, cfg.Storage.Bucket)
}
