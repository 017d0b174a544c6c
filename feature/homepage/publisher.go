package homepage

import (
	"context"
	"errors"
	"fmt"

	"livestream-sync/core/event"
	"livestream-sync/feature/wordpress"

	"go.uber.org/zap"
)

// PageStore reads and writes homepage pages.
type PageStore interface {
	GetPage(ctx context.Context, id int) (wordpress.Page, error)
	UpdatePage(ctx context.Context, id int, content string) error
}

// PublishResult lists what happened to each configured page.
type PublishResult struct {
	Updated   []int
	Unchanged []int
	// Skipped pages had no usable region.
	Skipped []int
}

// Publisher renders the listing and writes it into the configured pages.
type Publisher struct {
	store    PageStore
	renderer *Renderer
	merger   Merger
	pages    []PageConfig
	logger   *zap.Logger
	// DryRun computes the new bodies without writing them.
	DryRun bool
}

// NewPublisher creates a publisher for the pages of cfg.
func NewPublisher(store PageStore, renderer *Renderer, cfg Config, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		store:    store,
		renderer: renderer,
		merger:   cfg.Merger(),
		pages:    cfg.Pages,
		logger:   logger,
	}
}

// Publish updates every page whose generated region differs from the
// freshly rendered listing. A failing page does not stop the others; all
// remote errors are returned joined.
func (p *Publisher) Publish(ctx context.Context, events []*event.Event) (PublishResult, error) {
	var result PublishResult

	rendered, err := p.renderer.Render(events)
	if err != nil {
		return result, fmt.Errorf("render homepage: %w", err)
	}

	var errs []error
	for _, page := range p.pages {
		log := p.logger.With(zap.Int("page_id", page.ID), zap.String("template", page.Template))
		content, ok := rendered[page.Template]
		if !ok {
			errs = append(errs, fmt.Errorf("page %d: unknown template %q", page.ID, page.Template))
			continue
		}

		current, err := p.store.GetPage(ctx, page.ID)
		if err != nil {
			errs = append(errs, fmt.Errorf("get page %d: %w", page.ID, err))
			continue
		}

		body, err := p.merger.Merge(current.Content, content)
		if err != nil {
			log.Warn("Refusing to modify page", zap.String("title", current.Title), zap.Error(err))
			result.Skipped = append(result.Skipped, page.ID)
			continue
		}
		if body == current.Content {
			log.Debug("Page is up to date")
			result.Unchanged = append(result.Unchanged, page.ID)
			continue
		}

		if p.DryRun {
			log.Info("Would update page", zap.String("title", current.Title))
			result.Updated = append(result.Updated, page.ID)
			continue
		}
		if err := p.store.UpdatePage(ctx, page.ID, body); err != nil {
			errs = append(errs, fmt.Errorf("update page %d: %w", page.ID, err))
			continue
		}
		log.Info("Updated page", zap.String("title", current.Title))
		result.Updated = append(result.Updated, page.ID)
	}
	return result, errors.Join(errs...)
}
