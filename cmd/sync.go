package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"livestream-sync/core/config"
	"livestream-sync/core/database"
	"livestream-sync/core/event"
	"livestream-sync/core/reconcile"
	"livestream-sync/core/storage"
	"livestream-sync/feature/churchtools"
	"livestream-sync/feature/homepage"
	"livestream-sync/feature/journal"
	"livestream-sync/feature/monitor"
	"livestream-sync/feature/thumbnail"
	"livestream-sync/feature/wordpress"
	"livestream-sync/feature/youtube"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// exitTimeout bounds the work done after the run, which must not use the
// possibly canceled run context.
const exitTimeout = 30 * time.Second

var dryRunSync bool

// syncCmd performs one reconciliation run.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile broadcasts, links, posts and the homepage once",
	Long: `Loads the upcoming ChurchTools events, interprets their facts and brings
YouTube broadcasts, stream links, posts and the homepage listing in line.

Run it from a scheduler; the exit code is non-zero if anything failed.

Examples:
  # Show what would change
  livestream-sync sync --dry-run

  # Apply changes
  livestream-sync sync`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&dryRunSync, "dry-run", false, "Log the actions without changing anything")
	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) (err error) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, l, err := setup()
	if err != nil {
		return err
	}
	defer l.Sync()

	reporter := monitor.New(cfg.Monitor, l)
	defer func() {
		if r := recover(); r != nil {
			l.Error("Sync panicked", zap.Any("panic", r), zap.Stack("stack"))
			err = fmt.Errorf("sync panicked: %v", r)
		}
		if err != nil {
			reporter.MarkFailure("")
		}
		exitCtx, cancel := context.WithTimeout(context.Background(), exitTimeout)
		defer cancel()
		_ = reporter.Finish(exitCtx)
	}()

	if err := cfg.Validate(); err != nil {
		return err
	}

	s, err := newSyncer(ctx, cfg, l, reporter)
	if err != nil {
		return err
	}
	defer s.saveCache()

	report, err := s.run(ctx)
	if err != nil {
		return err
	}
	reporter.MarkSuccess(report.Stats.String())
	return nil
}

// syncer holds the collaborators of one run.
type syncer struct {
	cfg      *config.Config
	logger   *zap.Logger
	location *time.Location
	runID    string

	calendar *churchtools.Client
	platform *youtube.Client
	cache    *thumbnail.Cache
	storage  storage.Client
	journal  *journal.Journal
	observer []reconcile.Observer
}

// newSyncer wires the collaborators of a run. Observers are notified about
// every event after the journal.
func newSyncer(ctx context.Context, cfg *config.Config, l *zap.Logger, observers ...reconcile.Observer) (*syncer, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	s := &syncer{
		cfg:      cfg,
		location: loc,
		runID:    uuid.NewString(),
	}
	s.logger = l.With(zap.String("run_id", s.runID))

	if cfg.Storage.Enabled() {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		s.storage = client
	}

	store, err := thumbnail.NewStore(cfg.Thumbnails, s.storage, cfg.Storage.Bucket)
	if err != nil {
		return nil, err
	}
	if s.cache, err = thumbnail.Load(ctx, store, s.logger); err != nil {
		return nil, err
	}

	s.calendar = churchtools.New(cfg.ChurchTools, loc, s.logger)

	oauthConf, err := youtube.OAuthConfig(cfg.YouTube)
	if err != nil {
		return nil, err
	}
	httpClient, err := youtube.HTTPClient(ctx, oauthConf, youtube.TokenFile{Path: cfg.YouTube.CredentialsFile}, s.logger)
	if err != nil {
		return nil, err
	}
	if s.platform, err = youtube.NewClient(ctx, cfg.YouTube, s.logger, option.WithHTTPClient(httpClient)); err != nil {
		return nil, err
	}

	if cfg.Journal.Enabled {
		s.openJournal(ctx)
	}
	s.observer = append(s.observer, observers...)
	return s, nil
}

// openJournal connects the optional run journal. Failures only disable it.
func (s *syncer) openJournal(ctx context.Context) {
	db, err := database.Connect(s.cfg.Database)
	if err != nil {
		s.logger.Warn("Optional journal database connection failed", zap.Error(err))
		return
	}
	j := journal.New(db, s.logger)
	if err := j.Migrate(ctx); err != nil {
		s.logger.Warn("Journal disabled", zap.Error(err))
		return
	}
	if err := j.BeginRun(ctx, s.runID, dryRunSync); err != nil {
		s.logger.Warn("Journal disabled", zap.Error(err))
		return
	}
	s.journal = j
	s.observer = append(s.observer, j.Observer(ctx, s.runID))
}

func (s *syncer) run(ctx context.Context) (*reconcile.RunReport, error) {
	renderer, err := event.NewRenderer(s.cfg.Templates, s.location)
	if err != nil {
		return nil, err
	}

	ct := s.cfg.ChurchTools
	engine := reconcile.NewEngine(
		s.calendar,
		s.platform,
		s.cache,
		thumbnail.NewLoader(s.storage, s.cfg.Thumbnails.Directory),
		renderer,
		reconcile.Options{
			StreamLinkName:     ct.StreamLinkName,
			PostLinkName:       ct.PostLinkName,
			IngestStreamID:     s.cfg.YouTube.StreamID,
			PostGroupID:        ct.Post.GroupID,
			PostVisibility:     ct.Post.Visibility,
			PostCommentsActive: ct.Post.CommentsActive,
			Thumbnails:         s.cfg.Thumbnails.Selection(),
			DryRun:             dryRunSync,
		},
		s.logger,
	)

	runner := reconcile.NewRunner(s.calendar, s.platform, engine, s.cfg.Facts, s.logger)
	runner.Categories = ct.Categories
	runner.RunID = s.runID
	for _, o := range s.observer {
		runner.Observe(o)
	}

	report, runErr := runner.Run(ctx)
	s.finishJournal(report, runErr)

	// a failed event leaves the others correct, so the listing is still published
	if runErr != nil && !errors.Is(runErr, reconcile.ErrEventsFailed) {
		return report, runErr
	}
	if err := s.publishHomepage(ctx, report.Events); err != nil {
		return report, errors.Join(runErr, err)
	}
	return report, runErr
}

func (s *syncer) publishHomepage(ctx context.Context, events []*event.Event) error {
	if !s.cfg.Homepage.Enabled {
		return nil
	}
	renderer, err := homepage.NewRenderer(s.cfg.Homepage, s.cfg.Templates.DateFormat, s.location)
	if err != nil {
		return err
	}
	site := wordpress.New(s.cfg.WordPress, s.logger)
	publisher := homepage.NewPublisher(site, renderer, s.cfg.Homepage, s.logger)
	publisher.DryRun = dryRunSync

	result, err := publisher.Publish(ctx, events)
	s.logger.Info("Homepage published",
		zap.Ints("updated", result.Updated),
		zap.Ints("unchanged", result.Unchanged),
		zap.Ints("skipped", result.Skipped))
	return err
}

func (s *syncer) finishJournal(report *reconcile.RunReport, runErr error) {
	if s.journal == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), exitTimeout)
	defer cancel()

	var stats reconcile.Stats
	if report != nil {
		stats = report.Stats
	}
	if err := s.journal.FinishRun(ctx, s.runID, stats, runErr); err != nil {
		s.logger.Warn("Failed to record run", zap.Error(err))
	}
	if pruned, err := s.journal.Prune(ctx, s.cfg.Journal.Keep); err != nil {
		s.logger.Warn("Failed to prune journal", zap.Error(err))
	} else if pruned > 0 {
		s.logger.Debug("Pruned journal", zap.Int("runs", pruned))
	}
}

// saveCache writes the thumbnail cache even when the run failed, so uploads
// that did succeed are not repeated.
func (s *syncer) saveCache() {
	if dryRunSync {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), exitTimeout)
	defer cancel()
	if err := s.cache.Save(ctx); err != nil {
		s.logger.Error("Failed to save thumbnail cache", zap.Error(err))
	}
}
