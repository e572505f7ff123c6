// Package catalog runs the request-scoped pipeline: fetch the upstream
// sources, normalize their records and shape the result for a caller.
// Nothing is kept between calls.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/navdeck/internal/config"
	"github.com/MrSnakeDoc/navdeck/internal/domain"
	"github.com/MrSnakeDoc/navdeck/internal/logger"
	"github.com/MrSnakeDoc/navdeck/internal/sources/notion"
)

var (
	// ErrSourceRequired is returned when no source id can be resolved.
	ErrSourceRequired = errors.New("source id is required")

	ErrPasswordRequired = errors.New("password is required")
	ErrInvalidPassword  = errors.New("invalid password")
)

// statsTimeout bounds the best-effort write of fetch statistics.
const statsTimeout = 2 * time.Second

// RecordFetcher reads whole sources. *notion.Fetcher implements it.
type RecordFetcher interface {
	FetchAll(ctx context.Context, sourceID string) ([]notion.RawRecord, error)
	Database(ctx context.Context, sourceID string) (notion.Database, error)
}

// MapperProvider hands out the mapper built from the current schema.
type MapperProvider interface {
	Mapper() *notion.Mapper
}

// StatsRecorder stores fetch outcomes. Failures are logged and ignored.
type StatsRecorder interface {
	RecordFetch(ctx context.Context, o domain.FetchOutcome) error
}

type Options struct {
	LinkSourceID   string
	ConfigSourceID string

	// Timeout bounds a whole pipeline run; 0 means none.
	Timeout time.Duration
}

type Service struct {
	fetcher RecordFetcher
	mappers MapperProvider
	stats   StatsRecorder
	opts    Options
	log     logger.Logger
	now     func() time.Time
}

// New builds the service. stats may be nil.
func New(fetcher RecordFetcher, mappers MapperProvider, stats StatsRecorder, opts Options, log logger.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		mappers: mappers,
		stats:   stats,
		opts:    opts,
		log:     log,
		now:     time.Now,
	}
}

// Menu is the flat menu of a link source.
type Menu struct {
	MenuItems        []domain.LinkItem       `json:"menuItems"`
	DatabaseMetadata domain.DatabaseMetadata `json:"databaseMetadata"`
	CategoryOrder    []string                `json:"categoryOrder"`
}

// Menu fetches the link source (sourceID, or the configured one) along with
// its database description.
func (s *Service) Menu(ctx context.Context, sourceID string) (Menu, error) {
	id, err := resolveSource(sourceID, s.opts.LinkSourceID, "sourceId")
	if err != nil {
		return Menu{}, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		db      notion.Database
		records []notion.RawRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		db, err = s.fetcher.Database(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = s.fetch(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return Menu{}, err
	}

	m := s.mapper()
	return Menu{
		MenuItems:        m.MapLinkItems(records),
		DatabaseMetadata: m.Metadata(db),
		CategoryOrder:    m.CategoryOrder(db),
	}, nil
}

// SiteConfig is the content of the config source.
type SiteConfig struct {
	SiteConfig domain.SiteConfig `json:"siteConfig"`
	Categories []domain.Category `json:"categories"`
}

// SiteConfig reads the configured config source.
func (s *Service) SiteConfig(ctx context.Context) (SiteConfig, error) {
	id, err := resolveSource("", s.opts.ConfigSourceID, "NOTION_CONFIG_DATABASE_ID")
	if err != nil {
		return SiteConfig{}, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	records, err := s.fetch(ctx, id)
	if err != nil {
		return SiteConfig{}, err
	}

	entries, categories := s.mapper().MapConfig(records)
	return SiteConfig{
		SiteConfig: domain.NewSiteConfig(entries),
		Categories: categories,
	}, nil
}

// Roles returns the distinct roles declared anywhere in the link source,
// regardless of item status.
func (s *Service) Roles(ctx context.Context) ([]string, error) {
	id, err := resolveSource("", s.opts.LinkSourceID, "NOTION_DATABASE_ID")
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	records, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.mapper().CollectRoles(records), nil
}

// Authenticate returns the role whose name equals password exactly. The
// password is a role name; nothing else is checked.
func (s *Service) Authenticate(ctx context.Context, password string) (string, error) {
	if password == "" {
		return "", ErrPasswordRequired
	}

	roles, err := s.Roles(ctx)
	if err != nil {
		return "", err
	}
	if !slices.Contains(roles, password) {
		return "", ErrInvalidPassword
	}
	return password, nil
}

// View builds the grouped view for viewerRole. The link source, its
// database and the config source are fetched concurrently; any failure
// fails the whole view.
func (s *Service) View(ctx context.Context, viewerRole string) (domain.View, error) {
	id, err := resolveSource("", s.opts.LinkSourceID, "NOTION_DATABASE_ID")
	if err != nil {
		return domain.View{}, err
	}
	if viewerRole = strings.TrimSpace(viewerRole); viewerRole == "" {
		viewerRole = domain.DefaultRole
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		db         notion.Database
		links      []notion.RawRecord
		cfgRecords []notion.RawRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		db, err = s.fetcher.Database(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		links, err = s.fetch(gctx, id)
		return err
	})
	if cfgID := s.opts.ConfigSourceID; cfgID != "" {
		g.Go(func() error {
			var err error
			cfgRecords, err = s.fetch(gctx, cfgID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return domain.View{}, err
	}

	m := s.mapper()
	_, categories := m.MapConfig(cfgRecords)
	tree := domain.BuildCategoryTree(categories)
	for _, c := range tree.Rejected {
		s.log.Debug("category ignored, parent is not an active root category",
			logger.String("category_id", c.ID),
			logger.String("parent_id", c.ParentID))
	}

	return domain.GroupForViewer(m.MapLinkItems(links), viewerRole, m.CategoryOrder(db), tree), nil
}

// fetch reads one source and records the outcome.
func (s *Service) fetch(ctx context.Context, sourceID string) ([]notion.RawRecord, error) {
	start := s.now()
	records, err := s.fetcher.FetchAll(ctx, sourceID)
	s.record(ctx, domain.FetchOutcome{
		SourceID: sourceID,
		Records:  len(records),
		Duration: s.now().Sub(start),
		At:       start,
		Err:      err,
	})
	if err != nil {
		s.log.Warn("source fetch failed",
			logger.String("source_id", sourceID),
			logger.Error(err))
		return nil, err
	}
	return records, nil
}

func (s *Service) record(ctx context.Context, o domain.FetchOutcome) {
	if s.stats == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), statsTimeout)
	defer cancel()
	if err := s.stats.RecordFetch(ctx, o); err != nil {
		s.log.Debug("failed to record fetch stats", logger.Error(err))
	}
}

func (s *Service) mapper() *notion.Mapper {
	if m := s.mappers.Mapper(); m != nil {
		return m
	}
	return notion.NewMapper(notion.DefaultSchema(), s.log)
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.opts.Timeout)
}

// resolveSource picks the explicit id or the fallback and checks its format.
func resolveSource(explicit, fallback, field string) (string, error) {
	id := strings.TrimSpace(explicit)
	if id == "" {
		id = fallback
	}
	if err := config.CheckSourceID(field, id); err != nil {
		return "", fmt.Errorf("%w: %w", ErrSourceRequired, err)
	}
	return id, nil
}
