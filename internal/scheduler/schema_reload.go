package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrSnakeDoc/navdeck/internal/logger"
	"github.com/MrSnakeDoc/navdeck/internal/sources/notion"
)

// SchemaSnapshot is one loaded version of the normalization rules.
type SchemaSnapshot struct {
	Schema   notion.Schema
	Mapper   *notion.Mapper
	Version  int64
	LoadedAt time.Time
}

// SchemaReloader keeps the current schema in memory and reloads it
// periodically or on manual trigger. A failed reload keeps the previous
// snapshot.
type SchemaReloader struct {
	loader        *notion.SchemaLoader
	logger        logger.Logger
	interval      time.Duration
	manualTrigger <-chan struct{}

	current  atomic.Pointer[SchemaSnapshot]
	version  atomic.Int64
	started  atomic.Bool
	stopCh   chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewSchemaReloader creates a reloader for schemaFile. An empty path serves
// the built-in schema. interval <= 0 disables periodic reloads.
func NewSchemaReloader(
	schemaFile string,
	log logger.Logger,
	interval time.Duration,
	manualTrigger <-chan struct{},
) *SchemaReloader {
	return &SchemaReloader{
		loader:        notion.NewSchemaLoader(schemaFile),
		logger:        log,
		interval:      interval,
		manualTrigger: manualTrigger,
		stopCh:        make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Start loads the schema once and then keeps it fresh in the background.
func (sr *SchemaReloader) Start(ctx context.Context) error {
	if err := sr.Reload(); err != nil {
		return fmt.Errorf("initial schema load failed: %w", err)
	}

	sr.started.Store(true)
	go func() {
		defer close(sr.done)

		var tick <-chan time.Time
		if sr.interval > 0 {
			ticker := time.NewTicker(sr.interval)
			defer ticker.Stop()
			tick = ticker.C
		}

		for {
			select {
			case <-tick:
				sr.reloadLogged()
			case <-sr.manualTrigger:
				sr.logger.Info("manual schema reload triggered")
				sr.reloadLogged()
			case <-sr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the background loop and waits for it to exit. Safe to call
// more than once, and before Start.
func (sr *SchemaReloader) Stop() {
	sr.stopOnce.Do(func() { close(sr.stopCh) })
	if sr.started.Load() {
		<-sr.done
	}
}

// Reload loads the schema file and swaps the current snapshot.
func (sr *SchemaReloader) Reload() error {
	schema, err := sr.loader.Load()
	if err != nil {
		return err
	}

	snap := &SchemaSnapshot{
		Schema:   schema,
		Mapper:   notion.NewMapper(schema, sr.logger.With(logger.String("component", "mapper"))),
		Version:  sr.version.Add(1),
		LoadedAt: time.Now(),
	}
	sr.current.Store(snap)

	sr.logger.Info("schema loaded",
		logger.Int64("version", snap.Version),
		logger.Int("synonyms", len(schema.Synonyms)),
		logger.Bool("filter_inactive", schema.FilterInactive))
	return nil
}

func (sr *SchemaReloader) reloadLogged() {
	if err := sr.Reload(); err != nil {
		sr.logger.Error("failed to reload schema, keeping previous version",
			logger.Error(err))
	}
}

// Current returns the latest snapshot, nil before the first load.
func (sr *SchemaReloader) Current() *SchemaSnapshot {
	return sr.current.Load()
}

// Mapper returns the mapper of the latest snapshot.
func (sr *SchemaReloader) Mapper() *notion.Mapper {
	if snap := sr.current.Load(); snap != nil {
		return snap.Mapper
	}
	return nil
}
