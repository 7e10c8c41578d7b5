package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/medexpert-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
)

func TestNewSettingsService(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	settings, err := service.Get()

	require.NoError(t, err)
	require.NotNil(t, settings)

	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Sessions.Backend, settings.Sessions.Backend)
	assert.Equal(t, defaults.Sessions.CSVPath, settings.Sessions.CSVPath)
	assert.Equal(t, defaults.Treatment.Dir, settings.Treatment.Dir)
	assert.Equal(t, defaults.Ranking.TopK, settings.Ranking.TopK)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("sessions.backend", "sqlite")
	_ = store.Set("ranking.top_k", 5)
	_ = store.Set("treatment.dir", "/srv/treatment")

	service := NewSettingsService(store)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.RecorderSQLite, settings.Sessions.Backend)
	assert.Equal(t, 5, settings.Ranking.TopK)
	assert.Equal(t, "/srv/treatment", settings.Treatment.Dir)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("sessions.backend", "postgres")
	_ = store.Set("ranking.top_k", -1)

	service := NewSettingsService(store)

	settings, err := service.Get()

	require.NoError(t, err)
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Sessions.Backend, settings.Sessions.Backend)
	assert.Equal(t, defaults.Ranking.TopK, settings.Ranking.TopK)
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	settings := service.GetDefaults()
	settings.Sessions.Backend = domain.RecorderBoth
	settings.Catalog.Path = "/etc/medexpert/catalog.yaml"

	require.NoError(t, service.Save(&settings))

	got, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.RecorderBoth, got.Sessions.Backend)
	assert.Equal(t, "/etc/medexpert/catalog.yaml", got.Catalog.Path)
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr error
	}{
		{name: "backend", key: "sessions.backend", value: "none"},
		{name: "invalid backend", key: "sessions.backend", value: "postgres", wantErr: domain.ErrInvalidInput},
		{name: "top_k", key: "ranking.top_k", value: "5"},
		{name: "top_k not a number", key: "ranking.top_k", value: "many", wantErr: domain.ErrInvalidInput},
		{name: "top_k zero", key: "ranking.top_k", value: "0", wantErr: domain.ErrInvalidInput},
		{name: "empty csv path", key: "sessions.csv_path", value: "", wantErr: domain.ErrInvalidInput},
		{name: "unknown key", key: "search.mode", value: "x", wantErr: domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewSettingsService(memory.NewConfigStore())
			err := service.Set(tt.key, tt.value)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestSettingsService_SetRecorderBackend(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	require.NoError(t, service.SetRecorderBackend(domain.RecorderSQLite))
	assert.Equal(t, "sqlite", store.GetString("sessions.backend"))
	assert.NoError(t, service.Validate())
}

func TestSettingKeys(t *testing.T) {
	assert.Contains(t, SettingKeys(), "ranking.top_k")
	assert.Len(t, SettingKeys(), 6)
}
