// Package thumbnail keeps track of the thumbnails applied to broadcasts and
// loads thumbnail images.
//
// # Cache
//
// Thumbnail uploads are rate limited on the broadcast platform, so the last
// applied thumbnail URI per video id is cached between runs. The cache is a
// flat text file of "videoID|uri" lines:
//
//	dQw4w9WgXcQ|s3://livestream/thumbnails/default.png
//	a1b2c3d4e5f|/srv/thumbs/easter.jpg
//
// A missing or malformed file is an empty cache. Save writes the loaded
// entries (in their original order) with this run's changes applied, so
// entries for broadcasts untouched by the run survive. The file lives either
// on local disk (FileStore) or in object storage (ObjectStore).
//
// # Loader
//
// Loader opens thumbnail images from "s3://bucket/key" URIs, http(s) URLs or
// local paths.
package thumbnail
