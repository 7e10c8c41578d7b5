package main

import (
	"errors"
	"fmt"

	"github.com/custodia-labs/medexpert-cli/internal/adapters/driven/catalog"
	"github.com/custodia-labs/medexpert-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/medexpert-cli/internal/adapters/driven/storage/csvlog"
	"github.com/custodia-labs/medexpert-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/medexpert-cli/internal/adapters/driven/storage/multi"
	"github.com/custodia-labs/medexpert-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
	"github.com/custodia-labs/medexpert-cli/internal/core/ports/driven"
	"github.com/custodia-labs/medexpert-cli/internal/core/services"
	"github.com/custodia-labs/medexpert-cli/internal/logger"
)

// bootstrap builds every service from the configuration selected by opts.
func bootstrap(opts cli.Options) (*cli.Services, error) {
	var (
		store     driven.ConfigStore
		fileStore *file.ConfigStore
	)
	if opts.Ephemeral {
		store = memory.NewConfigStore()
	} else {
		fs, err := file.NewConfigStore(opts.ConfigDir)
		if err != nil {
			return nil, fmt.Errorf("opening config: %w", err)
		}
		store, fileStore = fs, fs
	}
	logger.Debug("config: %s", store.Path())

	settingsService := services.NewSettingsService(store)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	cat, err := catalog.Load(settings.Catalog.Path)
	if err != nil {
		return nil, err
	}

	var sink *sinks
	if opts.Ephemeral {
		sink = memorySinks()
	} else if sink, err = openSinks(settings.Sessions); err != nil {
		return nil, err
	}

	// Settings edited elsewhere reach the settings view without a restart.
	if fileStore != nil {
		if w, err := fileStore.Watch(nil); err != nil {
			logger.Warn("config changes will not be picked up: %v", err)
		} else {
			sink.watcher = w
		}
	}

	topK := settings.Ranking.TopK
	return &cli.Services{
		Interview:         services.NewInterviewService(cat, sink.recorder, topK),
		InterviewNoRecord: services.NewInterviewService(cat, nil, topK),
		Treatment:         services.NewTreatmentService(settings.Treatment.Dir),
		History:           services.NewHistoryService(sink.reader),
		Catalog:           services.NewCatalogService(cat),
		Settings:          settingsService,
		Close:             sink.close,
	}, nil
}

// sinks are the open session log backends plus anything bootstrap must
// release on exit.
type sinks struct {
	recorder driven.SessionRecorder
	reader   driven.SessionReader
	db       *sqlite.Store
	watcher  *file.Watcher
}

func (s *sinks) close() error {
	var errs []error
	if s.watcher != nil {
		errs = append(errs, s.watcher.Close())
	}
	if s.db != nil {
		errs = append(errs, s.db.Close())
	}
	return errors.Join(errs...)
}

// memorySinks records to and reads from one in-process log.
func memorySinks() *sinks {
	log := memory.NewSessionStore()
	return &sinks{recorder: log, reader: log}
}

// openSinks opens the session sinks for the configured backend. History
// prefers SQLite and falls back to the CSV log, which is read even when
// recording is disabled so earlier sessions stay visible.
func openSinks(cfg domain.SessionSettings) (*sinks, error) {
	s := &sinks{}
	csv := csvlog.New(cfg.CSVPath)
	s.reader = csv

	var named []multi.Named
	if cfg.Backend.UsesCSV() {
		named = append(named, multi.Named{Name: "csv", Recorder: csv})
	}
	if cfg.Backend.UsesSQLite() {
		db, err := sqlite.NewStore(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("opening session database: %w", err)
		}
		s.db = db
		store := db.SessionStore()
		s.reader = store
		named = append(named, multi.Named{Name: "sqlite", Recorder: store})
	}

	if len(named) > 0 {
		s.recorder = multi.NewRecorder(named...)
	}
	logger.Debug("sessions: backend %s, %d sink(s)", cfg.Backend, len(named))
	return s, nil
}
