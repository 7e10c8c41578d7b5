package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/tui/views/diseases"
	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/tui/views/history"
	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/tui/views/interview"
	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/tui/views/settings"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the parent context for interviews.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	menuView      *menu.View
	interviewView *interview.View
	historyView   *history.View
	diseasesView  *diseases.View
	settingsView  *settings.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// initialView is opened by Init when it is not the menu.
	initialView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if ports == nil {
		return nil, ErrInvalidPorts
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		menuView:      menu.NewView(s),
		interviewView: interview.NewView(s, km, ports.Interview, ports.Treatment),
		historyView:   history.NewView(s, ports.History),
		diseasesView:  diseases.NewView(s, ports.Catalog),
		settingsView:  settings.NewView(s, ports.Settings),
		currentView:   messages.ViewMenu,
		initialView:   messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.interviewView.WithContext(ctx)
	a.historyView.WithContext(ctx)
	return a
}

// WithInitialView opens view instead of the menu when the program starts.
func (a *App) WithInitialView(view messages.ViewType) *App {
	a.initialView = view
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tea.SetWindowTitle("medexpert - AI Medical Expert"),
	}
	if a.initialView != messages.ViewMenu {
		view := a.initialView
		cmds = append(cmds, func() tea.Msg { return messages.ViewChanged{View: view} })
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
//
//nolint:gocognit,gocyclo,funlen // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.interviewView.Stop()
			return a, tea.Quit
		}

		switch a.currentView {
		case messages.ViewMenu:
			a.menuView, cmd = a.menuView.Update(msg)
		case messages.ViewInterview:
			a.interviewView, cmd = a.interviewView.Update(msg)
		case messages.ViewHistory:
			a.historyView, cmd = a.historyView.Update(msg)
		case messages.ViewDiseases:
			a.diseasesView, cmd = a.diseasesView.Update(msg)
		case messages.ViewSettings:
			a.settingsView, cmd = a.settingsView.Update(msg)
		case messages.ViewHelp:
			if msg.Type == tea.KeyEsc || msg.String() == "q" {
				a.currentView = messages.ViewMenu
			}
		}
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewInterview:
			return a, a.interviewView.Init()
		case messages.ViewHistory:
			return a, a.historyView.Init()
		case messages.ViewDiseases:
			return a, a.diseasesView.Init()
		case messages.ViewSettings:
			a.settingsView.Reset()
			return a, a.settingsView.Init()
		case messages.ViewMenu, messages.ViewHelp:
		}
		return a, nil

	case messages.BridgeEvent, messages.StreamClosed, messages.TreatmentOpened:
		a.interviewView, cmd = a.interviewView.Update(msg)
		a.err = a.interviewView.Err()
		return a, cmd

	case messages.HistoryLoaded:
		a.historyView, cmd = a.historyView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded, messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, nil

	case messages.Quit:
		a.interviewView.Stop()
		return a, tea.Quit
	}

	return a, nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewInterview:
		return a.interviewView.View()
	case messages.ViewHistory:
		return a.historyView.View()
	case messages.ViewDiseases:
		return a.diseasesView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Navigation:
  esc         Back to Menu
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Interview:
  y / n       Answer a yes/no question
  space, x    Toggle a symptom in a checklist
  enter       Send the answer
  t           Open treatment information once diagnosed
  r           Start a new interview

` + a.styles.Help.Render("[esc] back to menu")
}

// Run starts the TUI application.
func (a *App) Run() error {
	defer a.interviewView.Stop()
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Interview returns the interview view.
func (a *App) Interview() *interview.View {
	return a.interviewView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.interviewView.SetDimensions(width, height)
	a.historyView.SetDimensions(width, height)
	a.diseasesView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}
