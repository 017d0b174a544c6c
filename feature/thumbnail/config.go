package thumbnail

import "livestream-sync/core/reconcile"

// Config holds configuration for thumbnails and the thumbnail cache.
type Config struct {
	// Backend selects where the cache is stored (file, s3).
	Backend string `mapstructure:"backend" default:"file"`
	// CacheFile is the cache path for the file backend.
	CacheFile string `mapstructure:"cache_file" default:"thumbnail_cache.txt"`
	// CacheObject is the object key for the s3 backend.
	CacheObject string `mapstructure:"cache_object" default:"state/thumbnail_cache.txt"`
	// Directory resolves relative local thumbnail paths.
	Directory string `mapstructure:"directory" default:""`
	// ImagePrefix is where thumbnail images live in the storage bucket.
	ImagePrefix string `mapstructure:"image_prefix" default:"thumbnails/"`
	// Default is the thumbnail of broadcasts matching no rule.
	Default string `mapstructure:"default" default:""`
	// Rules map title substrings to thumbnails.
	Rules []reconcile.ThumbnailRule `mapstructure:"rules"`
}

// Selection returns the rules used to pick a broadcast's thumbnail.
func (c Config) Selection() reconcile.ThumbnailRules {
	return reconcile.ThumbnailRules{Default: c.Default, Rules: c.Rules}
}
