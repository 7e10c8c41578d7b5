package settings

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
)

type mockSettingsService struct {
	settings domain.AppSettings
	setErr   error
	sets     [][2]string
}

func newMockSettings() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings()}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(s *domain.AppSettings) error {
	m.settings = *s
	return nil
}

func (m *mockSettingsService) Set(key, value string) error {
	m.sets = append(m.sets, [2]string{key, value})
	if m.setErr != nil {
		return m.setErr
	}
	switch key {
	case domain.SettingSessionsBackend:
		m.settings.Sessions.Backend = domain.RecorderBackend(value)
	case domain.SettingTreatmentDir:
		m.settings.Treatment.Dir = value
	}
	return nil
}

func (m *mockSettingsService) SetRecorderBackend(b domain.RecorderBackend) error {
	return m.Set(domain.SettingSessionsBackend, b.String())
}

func (m *mockSettingsService) Validate() error { return nil }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// run executes cmd and feeds its message back into the view.
func run(v *View, cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	_, next := v.Update(cmd())
	return next
}

func loaded(t *testing.T, svc *mockSettingsService) *View {
	t.Helper()
	v := NewView(nil, svc)
	run(v, v.Init())
	require.NotEmpty(t, v.entries)
	return v
}

func TestView_ListsEntries(t *testing.T) {
	v := loaded(t, newMockSettings())

	out := v.View()
	assert.Contains(t, out, "Settings")
	assert.Contains(t, out, domain.SettingSessionsBackend)
	assert.Contains(t, out, domain.SettingRankingTopK)
}

func TestView_CycleBackend(t *testing.T) {
	svc := newMockSettings()
	svc.settings.Sessions.Backend = domain.RecorderCSV
	v := loaded(t, svc)

	_, cmd := v.Update(key("enter"))
	next := run(v, cmd)
	run(v, next)

	require.Len(t, svc.sets, 1)
	assert.Equal(t, [2]string{domain.SettingSessionsBackend, "sqlite"}, svc.sets[0])
	assert.False(t, v.Editing())
	assert.Contains(t, v.View(), "Saved sessions.backend")
}

func TestView_EditValue(t *testing.T) {
	svc := newMockSettings()
	v := loaded(t, svc)

	for v.entries[v.selected].Key != domain.SettingTreatmentDir {
		v.Update(key("j"))
	}
	v.Update(key("enter"))
	require.True(t, v.Editing())

	v.editor.SetValue("/srv/docs")
	_, cmd := v.Update(key("enter"))
	run(v, cmd)

	assert.False(t, v.Editing())
	require.Len(t, svc.sets, 1)
	assert.Equal(t, [2]string{domain.SettingTreatmentDir, "/srv/docs"}, svc.sets[0])
}

func TestView_EditCancel(t *testing.T) {
	svc := newMockSettings()
	v := loaded(t, svc)
	v.Update(key("j"))
	v.Update(key("enter"))
	require.True(t, v.Editing())

	_, cmd := v.Update(key("esc"))
	assert.Nil(t, cmd)
	assert.False(t, v.Editing())
	assert.Empty(t, svc.sets)
}

func TestView_SaveError(t *testing.T) {
	svc := newMockSettings()
	svc.setErr = errors.New("rejected")
	v := loaded(t, svc)

	_, cmd := v.Update(key("enter"))
	run(v, cmd)

	require.Error(t, v.Err())
	assert.Contains(t, v.View(), "rejected")
}

func TestView_EscReturnsToMenu(t *testing.T) {
	v := loaded(t, newMockSettings())

	_, cmd := v.Update(key("esc"))
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestView_NoService(t *testing.T) {
	v := NewView(nil, nil)
	run(v, v.Init())

	require.Error(t, v.Err())
	_, cmd := v.Update(key("enter"))
	assert.Nil(t, cmd)
}

func TestNextBackend(t *testing.T) {
	all := domain.AllRecorderBackends()
	assert.Equal(t, all[1], nextBackend(all[0].String()))
	assert.Equal(t, all[0], nextBackend(all[len(all)-1].String()))
	assert.Equal(t, all[0], nextBackend("bogus"))
}
