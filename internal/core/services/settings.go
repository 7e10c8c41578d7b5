package services

import (
	"fmt"
	"strconv"

	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
	"github.com/custodia-labs/medexpert-cli/internal/core/ports/driven"
	"github.com/custodia-labs/medexpert-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	KeySessionsBackend = domain.SettingSessionsBackend
	KeySessionsCSVPath = domain.SettingSessionsCSVPath
	KeySessionsDataDir = domain.SettingSessionsDataDir
	KeyTreatmentDir    = domain.SettingTreatmentDir
	KeyRankingTopK     = domain.SettingRankingTopK
	KeyCatalogPath     = domain.SettingCatalogPath
)

// SettingKeys returns every recognised config key.
func SettingKeys() []string {
	return []string{
		KeySessionsBackend,
		KeySessionsCSVPath,
		KeySessionsDataDir,
		KeyTreatmentDir,
		KeyRankingTopK,
		KeyCatalogPath,
	}
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Sessions: domain.SessionSettings{
			Backend: s.getBackend(defaults.Sessions.Backend),
			CSVPath: s.getString(KeySessionsCSVPath, defaults.Sessions.CSVPath),
			DataDir: s.configStore.GetString(KeySessionsDataDir), // Empty means the default data dir
		},
		Treatment: domain.TreatmentSettings{
			Dir: s.getString(KeyTreatmentDir, defaults.Treatment.Dir),
		},
		Ranking: domain.RankingSettings{
			TopK: s.getInt(KeyRankingTopK, defaults.Ranking.TopK),
		},
		Catalog: domain.CatalogSettings{
			Path: s.configStore.GetString(KeyCatalogPath),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.configStore.Set(KeySessionsBackend, settings.Sessions.Backend.String()); err != nil {
		return fmt.Errorf("save sessions backend: %w", err)
	}
	if err := s.configStore.Set(KeySessionsCSVPath, settings.Sessions.CSVPath); err != nil {
		return fmt.Errorf("save sessions csv_path: %w", err)
	}
	if settings.Sessions.DataDir != "" {
		if err := s.configStore.Set(KeySessionsDataDir, settings.Sessions.DataDir); err != nil {
			return fmt.Errorf("save sessions data_dir: %w", err)
		}
	}
	if err := s.configStore.Set(KeyTreatmentDir, settings.Treatment.Dir); err != nil {
		return fmt.Errorf("save treatment dir: %w", err)
	}
	if err := s.configStore.Set(KeyRankingTopK, settings.Ranking.TopK); err != nil {
		return fmt.Errorf("save ranking top_k: %w", err)
	}
	if settings.Catalog.Path != "" {
		if err := s.configStore.Set(KeyCatalogPath, settings.Catalog.Path); err != nil {
			return fmt.Errorf("save catalog path: %w", err)
		}
	}
	return nil
}

// Set updates a single setting by its dotted key.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	switch key {
	case KeySessionsBackend:
		backend := domain.RecorderBackend(value)
		if !backend.IsValid() {
			return fmt.Errorf("%w: invalid sessions backend: %s", domain.ErrInvalidInput, value)
		}
		settings.Sessions.Backend = backend
	case KeySessionsCSVPath:
		if value == "" {
			return fmt.Errorf("%w: csv path cannot be empty", domain.ErrInvalidInput)
		}
		settings.Sessions.CSVPath = value
	case KeySessionsDataDir:
		settings.Sessions.DataDir = value
	case KeyTreatmentDir:
		settings.Treatment.Dir = value
	case KeyRankingTopK:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("%w: top_k must be a positive integer: %s", domain.ErrInvalidInput, value)
		}
		settings.Ranking.TopK = n
	case KeyCatalogPath:
		settings.Catalog.Path = value
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrNotFound, key)
	}

	return s.Save(settings)
}

// SetRecorderBackend updates the session recorder backend.
func (s *SettingsService) SetRecorderBackend(backend domain.RecorderBackend) error {
	return s.Set(KeySessionsBackend, backend.String())
}

// Validate checks the current settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Sessions.Backend.IsValid() {
		return fmt.Errorf("invalid sessions backend: %s", settings.Sessions.Backend)
	}
	if settings.Sessions.Backend.UsesCSV() && settings.Sessions.CSVPath == "" {
		return fmt.Errorf("sessions backend %q requires a csv path", settings.Sessions.Backend)
	}
	if settings.Ranking.TopK < 1 {
		return fmt.Errorf("ranking top_k must be positive: %d", settings.Ranking.TopK)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBackend(defaultVal domain.RecorderBackend) domain.RecorderBackend {
	val := s.configStore.GetString(KeySessionsBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.RecorderBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
