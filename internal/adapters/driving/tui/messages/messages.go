// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/bridge"
	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
	"github.com/custodia-labs/medexpert-cli/internal/core/ports/driving"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewInterview is the chat-style interview.
	ViewInterview
	// ViewHistory lists recorded sessions.
	ViewHistory
	// ViewDiseases lists the catalog's disease profiles.
	ViewDiseases
	// ViewSettings is the settings view.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewInterview:
		return "interview"
	case ViewHistory:
		return "history"
	case ViewDiseases:
		return "diseases"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// BridgeEvent carries one event from the interview worker. Source lets a
// view drop events from a session it has already abandoned.
type BridgeEvent struct {
	Source *bridge.Bridge
	Event  bridge.Event
}

// StreamClosed signals the interview event stream has ended.
type StreamClosed struct {
	Source *bridge.Bridge
}

// TreatmentOpened reports the result of opening treatment information.
type TreatmentOpened struct {
	Link driving.TreatmentLink
	Err  error
}

// HistoryLoaded carries recorded sessions.
type HistoryLoaded struct {
	Records []domain.SessionRecord
	Err     error
}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals a setting was written.
type SettingsSaved struct {
	Key string
	Err error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
