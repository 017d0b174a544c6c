package churchtools

import "strings"

// Config holds configuration for the ChurchTools connection.
type Config struct {
	// Instance is the host name of the instance, or a full base URL.
	Instance string `mapstructure:"instance" default:""`
	// Token is the API login token.
	Token string `mapstructure:"token" default:""`
	// DaysToLoad is the length of the reconciliation window, today included.
	DaysToLoad int `mapstructure:"days_to_load" default:"7"`
	// Categories limits the sync to these calendar ids.
	Categories []int `mapstructure:"categories"`
	// SpeakerService is the service whose assignee is the speaker.
	SpeakerService string `mapstructure:"speaker_service" default:""`
	// StreamLinkName is the attachment name of the stream link.
	StreamLinkName string `mapstructure:"stream_link_name" default:"YouTube"`
	// ThumbnailName is the attachment name of a thumbnail override.
	ThumbnailName string `mapstructure:"thumbnail_name" default:"Thumbnail"`
	// PostLinkName is the attachment name of the post link.
	PostLinkName string `mapstructure:"post_link_name" default:"Beitrag"`
	// TimeoutSeconds bounds every request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// Post holds settings for created posts.
	Post PostConfig `mapstructure:"post"`
}

// PostConfig holds settings for posts created for events.
type PostConfig struct {
	// GroupID is the group posts are published in.
	GroupID int `mapstructure:"group_id" default:"0"`
	// Visibility is the post visibility (group_visible, group_intern, ...).
	Visibility string `mapstructure:"visibility" default:"group_visible"`
	// CommentsActive enables comments on new posts.
	CommentsActive bool `mapstructure:"comments_active" default:"false"`
}

// SiteURL returns the web root of the instance.
func (c Config) SiteURL() string {
	instance := strings.TrimRight(c.Instance, "/")
	if strings.Contains(instance, "://") {
		return instance
	}
	return "https://" + instance
}

// APIURL returns the REST API root of the instance.
func (c Config) APIURL() string {
	return c.SiteURL() + "/api"
}

// Configured reports whether an instance and token are set.
func (c Config) Configured() bool {
	return c.Instance != "" && c.Token != ""
}
