package cli

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/antbot-go/internal/adapters/journal"
	"github.com/andrescamacho/antbot-go/internal/adapters/logging"
	"github.com/andrescamacho/antbot-go/internal/adapters/metrics"
	"github.com/andrescamacho/antbot-go/internal/adapters/persistence"
	"github.com/andrescamacho/antbot-go/internal/application/common"
	"github.com/andrescamacho/antbot-go/internal/application/scheduler"
	"github.com/andrescamacho/antbot-go/internal/domain/world"
	"github.com/andrescamacho/antbot-go/internal/infrastructure/config"
	"github.com/andrescamacho/antbot-go/internal/infrastructure/database"
	"github.com/andrescamacho/antbot-go/pkg/utils"
)

// Runtime is a wired engine: logger, journals, metrics and the mediator the
// engine's commands are dispatched through. Shared by the CLI and the daemon.
type Runtime struct {
	Config    *config.Config
	SessionID string
	Logger    *logging.ConsoleLogger
	Engine    *scheduler.TurnEngine
	Mediator  common.Mediator
	Metrics   *metrics.Collectors

	// Repository is set when the journal database is enabled
	Repository *persistence.GormTurnJournalRepository

	db      *gorm.DB
	journal common.TurnJournal
}

// NewRuntime wires an engine for one session. mode tags the session (decide,
// replay, simulate, daemon) and label is folded into its id.
func NewRuntime(cfg *config.Config, mode, label string) (*Runtime, error) {
	logger, err := logging.NewConsoleLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	rt := &Runtime{
		Config:    cfg,
		SessionID: utils.GenerateSessionID(mode, label),
		Logger:    logger,
		Mediator:  common.NewMediator(),
	}

	if err := rt.openJournals(mode); err != nil {
		rt.Close()
		return nil, err
	}

	opts := []scheduler.EngineOption{scheduler.WithSessionID(rt.SessionID)}
	if rt.journal != nil {
		opts = append(opts, scheduler.WithJournal(rt.journal))
	}
	rt.Engine = scheduler.NewTurnEngine(cfg.Engine, opts...)

	if cfg.Metrics.Enabled {
		collectors, err := metrics.Enable(rt.Engine.State)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.Metrics = collectors
		rt.Mediator.Use(metrics.PrometheusMiddleware(collectors.Requests))
	}
	rt.Mediator.Use(common.LoggingMiddleware)

	if err := scheduler.RegisterHandlers(rt.Mediator, rt.Engine); err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to register engine handlers: %w", err)
	}
	return rt, nil
}

func (rt *Runtime) openJournals(mode string) error {
	jc := rt.Config.Journal
	if !jc.Enabled {
		return nil
	}

	var journals common.MultiJournal
	if jc.Database {
		db, err := database.NewConnection(&rt.Config.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to journal database: %w", err)
		}
		rt.db = db
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate journal database: %w", err)
		}
		rt.Repository = persistence.NewGormTurnJournalRepository(db, mode)
		journals = append(journals, rt.Repository)
	}
	if jc.FilePath != "" {
		fj, err := journal.NewFileJournal(jc.FilePath, jc.CompressionLevel)
		if err != nil {
			return fmt.Errorf("failed to open journal file: %w", err)
		}
		journals = append(journals, fj)
	}

	switch len(journals) {
	case 0:
	case 1:
		rt.journal = journals[0]
	default:
		rt.journal = journals
	}
	return nil
}

// Context carries the runtime's logger
func (rt *Runtime) Context(ctx context.Context) context.Context {
	return common.WithLogger(ctx, rt.Logger)
}

// StartSession records session metadata in the journal database, if any
func (rt *Runtime) StartSession(ctx context.Context, metadata map[string]interface{}) error {
	if rt.Repository == nil {
		return nil
	}
	return rt.Repository.StartSession(ctx, rt.SessionID, time.Now(), metadata)
}

// ProcessTurn dispatches one snapshot through the mediator
func (rt *Runtime) ProcessTurn(ctx context.Context, snap *world.Snapshot) (*scheduler.TurnResult, error) {
	resp, err := rt.Mediator.Send(rt.Context(ctx), &scheduler.ProcessTurnCommand{Snapshot: snap})
	if err != nil {
		return nil, err
	}
	out, ok := resp.(*scheduler.ProcessTurnResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected response type %T", resp)
	}
	return out.Result, nil
}

// Reset clears the engine between matches
func (rt *Runtime) Reset(ctx context.Context) error {
	_, err := rt.Mediator.Send(rt.Context(ctx), &scheduler.ResetEngineCommand{})
	return err
}

// Close flushes journals and releases the database and log file
func (rt *Runtime) Close() error {
	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if rt.journal != nil {
		keep(rt.journal.Close())
	}
	if rt.db != nil {
		keep(database.Close(rt.db))
	}
	if rt.Metrics != nil {
		rt.Metrics.Engine.Stop()
		metrics.Disable()
	}
	if rt.Logger != nil {
		keep(rt.Logger.Close())
	}
	return firstErr
}
