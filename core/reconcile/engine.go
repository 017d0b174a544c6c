package reconcile

import (
	"context"
	"fmt"
	"time"

	"livestream-sync/core/event"

	"go.uber.org/zap"
)

// Options controls engine behavior.
type Options struct {
	// StreamLinkName is the attachment name of the stream link.
	StreamLinkName string
	// PostLinkName is the attachment name of the post link.
	PostLinkName string
	// IngestStreamID is the ingest stream bound to new broadcasts.
	IngestStreamID string

	// PostGroupID is the group new posts are published in.
	PostGroupID int
	// PostVisibility is the visibility of posts.
	PostVisibility string
	// PostCommentsActive enables comments on posts.
	PostCommentsActive bool

	// Thumbnails picks the desired thumbnail per event.
	Thumbnails ThumbnailRules

	// DryRun records actions without executing them.
	DryRun bool
}

// Engine reconciles one event at a time.
type Engine struct {
	calendar Calendar
	platform BroadcastPlatform
	thumbs   ThumbnailCache
	loader   ThumbnailLoader
	renderer *event.Renderer
	opts     Options
	logger   *zap.Logger
	now      func() time.Time
}

// NewEngine wires an engine. loader may be nil when no thumbnails are configured.
func NewEngine(
	calendar Calendar,
	platform BroadcastPlatform,
	thumbs ThumbnailCache,
	loader ThumbnailLoader,
	renderer *event.Renderer,
	opts Options,
	logger *zap.Logger,
) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		calendar: calendar,
		platform: platform,
		thumbs:   thumbs,
		loader:   loader,
		renderer: renderer,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

// Reconcile brings the remote state of ev in line with its facts. Ignored
// events are skipped without any remote call. The event is updated in place
// with the links and broadcast it ends up with.
func (e *Engine) Reconcile(ctx context.Context, ev *event.Event) (Outcome, error) {
	out := Outcome{EventID: ev.ID, Title: ev.Title}
	if ev.Ignored() {
		out.Skipped = true
		return out, nil
	}

	log := e.logger.With(zap.Int("event_id", ev.ID), zap.String("event", ev.Title))

	var err error
	if ev.WantsStream() {
		err = e.ensureStream(ctx, ev, &out, log)
	} else {
		err = e.suppress(ctx, ev, &out, log)
	}
	return out, err
}

func (e *Engine) ensureStream(ctx context.Context, ev *event.Event, out *Outcome, log *zap.Logger) error {
	desired, err := e.renderer.BroadcastSpec(ev)
	if err != nil {
		return err
	}

	if ev.Broadcast == nil {
		if ev.StreamLink != nil {
			if err := e.deleteStreamLink(ctx, ev, out, "link points at no broadcast"); err != nil {
				return err
			}
		}
		if err := e.createBroadcast(ctx, ev, desired, out, log); err != nil {
			return err
		}
	}

	// nil only in a dry run that planned a creation
	if ev.Broadcast != nil {
		if err := e.updateBroadcast(ctx, ev, desired, out, log); err != nil {
			return err
		}
		if err := e.updateThumbnail(ctx, ev, out, log); err != nil {
			return err
		}
	}

	switch {
	case ev.Facts.CreatePost && ev.PostLink == nil:
		return e.createPost(ctx, ev, out, log)
	case ev.Facts.CreatePost:
		return e.updatePost(ctx, ev, out, log)
	case ev.PostLink != nil:
		return e.deletePost(ctx, ev, out, log, "post no longer wanted")
	}
	return nil
}

func (e *Engine) suppress(ctx context.Context, ev *event.Event, out *Outcome, log *zap.Logger) error {
	if b := ev.Broadcast; b != nil {
		if b.Deletable() {
			out.record(Action{Type: ActionDeleteBroadcast, Target: b.ID, Reason: "stream not wanted"})
			if !e.opts.DryRun {
				if err := e.platform.Delete(ctx, b.ID); err != nil {
					return fmt.Errorf("delete broadcast %s: %w", b.ID, err)
				}
				log.Info("Deleted broadcast", zap.String("video_id", b.ID))
			}
			ev.Broadcast = nil
		} else {
			log.Info("Keeping broadcast past ready state",
				zap.String("video_id", b.ID), zap.String("lifecycle", string(b.LifeCycle)))
		}
	}

	if ev.StreamLink != nil {
		if err := e.deleteStreamLink(ctx, ev, out, "stream not wanted"); err != nil {
			return err
		}
	}

	if ev.PostLink != nil {
		return e.deletePost(ctx, ev, out, log, "stream not wanted")
	}
	return nil
}

func (e *Engine) createBroadcast(ctx context.Context, ev *event.Event, desired event.BroadcastSpec, out *Outcome, log *zap.Logger) error {
	out.record(Action{Type: ActionCreateBroadcast, Reason: "no broadcast"})
	out.record(Action{Type: ActionBindIngest, Target: e.opts.IngestStreamID})
	out.record(Action{Type: ActionAttachStreamLink})
	if e.opts.DryRun {
		return nil
	}

	b, err := e.platform.Create(ctx, desired)
	if err != nil {
		return fmt.Errorf("create broadcast: %w", err)
	}
	ev.Broadcast = &b
	log.Info("Created broadcast", zap.String("video_id", b.ID))

	if err := e.platform.BindIngest(ctx, b.ID, e.opts.IngestStreamID); err != nil {
		return fmt.Errorf("bind broadcast %s: %w", b.ID, err)
	}

	link, err := e.calendar.AttachLink(ctx, ev.ID, e.opts.StreamLinkName, b.URL())
	if err != nil {
		return fmt.Errorf("attach stream link: %w", err)
	}
	ev.StreamLink = link
	return nil
}

func (e *Engine) updateBroadcast(ctx context.Context, ev *event.Event, desired event.BroadcastSpec, out *Outcome, log *zap.Logger) error {
	current := *ev.Broadcast
	patch := DiffBroadcast(current, desired)
	if patch.IsEmpty() {
		return nil
	}

	out.record(Action{Type: ActionUpdateBroadcast, Target: current.ID, Fields: patch.Fields()})
	if e.opts.DryRun {
		return nil
	}

	if err := e.platform.Update(ctx, current, patch); err != nil {
		return fmt.Errorf("update broadcast %s: %w", current.ID, err)
	}
	updated := current.Apply(patch)
	ev.Broadcast = &updated
	log.Info("Updated broadcast", zap.String("video_id", current.ID), zap.Strings("fields", patch.Fields()))
	return nil
}

func (e *Engine) updateThumbnail(ctx context.Context, ev *event.Event, out *Outcome, log *zap.Logger) error {
	uri := e.opts.Thumbnails.Select(ev)
	if uri == "" || e.thumbs == nil || e.loader == nil {
		return nil
	}

	id := ev.Broadcast.ID
	if applied, ok := e.thumbs.Get(id); ok && applied == uri {
		return nil
	}

	out.record(Action{Type: ActionSetThumbnail, Target: id, Reason: uri})
	if e.opts.DryRun {
		return nil
	}

	img, err := e.loader.Open(ctx, uri)
	if err != nil {
		return fmt.Errorf("open thumbnail %s: %w", uri, err)
	}
	defer img.Close()

	if err := e.platform.SetThumbnail(ctx, id, img); err != nil {
		return fmt.Errorf("set thumbnail on %s: %w", id, err)
	}
	e.thumbs.Set(id, uri)
	log.Info("Set thumbnail", zap.String("video_id", id), zap.String("uri", uri))
	return nil
}

func (e *Engine) deleteStreamLink(ctx context.Context, ev *event.Event, out *Outcome, reason string) error {
	link := ev.StreamLink
	out.record(Action{Type: ActionDeleteStreamLink, Target: fmt.Sprint(link.ID), Reason: reason})
	if !e.opts.DryRun {
		if err := e.calendar.DeleteLink(ctx, link.ID); err != nil {
			return fmt.Errorf("delete stream link %d: %w", link.ID, err)
		}
	}
	ev.StreamLink = nil
	return nil
}

func (e *Engine) desiredPost(ev *event.Event) (event.PostSpec, error) {
	title, content, err := e.renderer.PostText(ev)
	if err != nil {
		return event.PostSpec{}, err
	}
	return event.PostSpec{
		GroupID:         e.opts.PostGroupID,
		Title:           title,
		Content:         content,
		PublicationDate: ev.EndTime,
		Visibility:      e.opts.PostVisibility,
		CommentsActive:  e.opts.PostCommentsActive,
	}, nil
}

func (e *Engine) createPost(ctx context.Context, ev *event.Event, out *Outcome, log *zap.Logger) error {
	spec, err := e.desiredPost(ev)
	if err != nil {
		return err
	}

	// past publication dates are rejected on creation; the update pass
	// below moves the date back once the post exists
	now := e.now()
	if !spec.PublicationDate.After(now) {
		spec.PublicationDate = now.Add(24 * time.Hour)
	}

	out.record(Action{Type: ActionCreatePost, Reason: "post wanted"})
	out.record(Action{Type: ActionAttachPostLink})
	if e.opts.DryRun {
		return nil
	}

	postID, err := e.calendar.CreatePost(ctx, spec)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	log.Info("Created post", zap.Int("post_id", postID))

	link, err := e.calendar.AttachLink(ctx, ev.ID, e.opts.PostLinkName, e.calendar.PostURL(postID))
	if err != nil {
		return fmt.Errorf("attach post link: %w", err)
	}
	ev.PostLink = link

	return e.updatePost(ctx, ev, out, log)
}

func (e *Engine) updatePost(ctx context.Context, ev *event.Event, out *Outcome, log *zap.Logger) error {
	postID, ok := e.postID(ev, log)
	if !ok {
		return nil
	}

	desired, err := e.desiredPost(ev)
	if err != nil {
		return err
	}
	current, err := e.calendar.GetPost(ctx, postID)
	if err != nil {
		return fmt.Errorf("get post %d: %w", postID, err)
	}

	patch := DiffPost(current, desired)
	if patch.IsEmpty() {
		return nil
	}

	out.record(Action{Type: ActionUpdatePost, Target: fmt.Sprint(postID), Fields: patch.Fields()})
	if e.opts.DryRun {
		return nil
	}
	if err := e.calendar.UpdatePost(ctx, postID, patch); err != nil {
		return fmt.Errorf("update post %d: %w", postID, err)
	}
	log.Info("Updated post", zap.Int("post_id", postID), zap.Strings("fields", patch.Fields()))
	return nil
}

func (e *Engine) deletePost(ctx context.Context, ev *event.Event, out *Outcome, log *zap.Logger, reason string) error {
	postID, ok := e.postID(ev, log)
	if !ok {
		return nil
	}

	out.record(Action{Type: ActionDeletePost, Target: fmt.Sprint(postID), Reason: reason})
	out.record(Action{Type: ActionDeletePostLink, Target: fmt.Sprint(ev.PostLink.ID)})
	if !e.opts.DryRun {
		if err := e.calendar.DeletePost(ctx, postID); err != nil {
			return fmt.Errorf("delete post %d: %w", postID, err)
		}
		if err := e.calendar.DeleteLink(ctx, ev.PostLink.ID); err != nil {
			return fmt.Errorf("delete post link %d: %w", ev.PostLink.ID, err)
		}
		log.Info("Deleted post", zap.Int("post_id", postID))
	}
	ev.PostLink = nil
	return nil
}

// postID parses the post id from the event's post link. A malformed link
// disables post handling for the event.
func (e *Engine) postID(ev *event.Event, log *zap.Logger) (int, bool) {
	id, err := ev.PostID()
	if err != nil {
		log.Warn("Skipping post handling", zap.Error(err))
		return 0, false
	}
	return id, true
}
