// Package history lists recorded interview sessions.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/medexpert-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/medexpert-cli/internal/core/domain"
	"github.com/custodia-labs/medexpert-cli/internal/core/ports/driving"
)

// pageSize is how many sessions are loaded.
const pageSize = 50

// View shows recent sessions with details for the selected one.
type View struct {
	styles         *styles.Styles
	historyService driving.HistoryService
	ctx            context.Context

	records  []domain.SessionRecord
	selected int
	loading  bool
	err      error

	width  int
	height int
	ready  bool
}

// NewView creates a new history view.
func NewView(s *styles.Styles, historyService driving.HistoryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:         s,
		historyService: historyService,
		ctx:            context.Background(),
		width:          80,
		height:         24,
	}
}

// WithContext sets the context used for loading.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the sessions.
func (v *View) Init() tea.Cmd {
	v.loading = true
	svc, ctx := v.historyService, v.ctx
	return func() tea.Msg {
		if svc == nil {
			return messages.HistoryLoaded{Err: fmt.Errorf("session history is not available")}
		}
		records, err := svc.List(ctx, pageSize)
		return messages.HistoryLoaded{Records: records, Err: err}
	}
}

// Update handles messages for the history view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case messages.HistoryLoaded:
		v.loading = false
		v.err = msg.Err
		v.records = msg.Records
		v.selected = 0

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
		case "up", "k":
			if v.selected > 0 {
				v.selected--
			}
		case "down", "j":
			if v.selected < len(v.records)-1 {
				v.selected++
			}
		case "r":
			return v, v.Init()
		}
	}
	return v, nil
}

// View renders the session list.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Session history"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case len(v.records) == 0:
		b.WriteString(v.styles.Muted.Render("No sessions recorded yet."))
	default:
		v.renderList(&b)
		b.WriteString("\n")
		v.renderDetail(&b, v.records[v.selected])
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [r] Reload  [esc] Back"))
	return b.String()
}

func (v *View) renderList(b *strings.Builder) {
	visible := v.height - 14
	if visible < 3 {
		visible = 3
	}
	start := 0
	if v.selected >= visible {
		start = v.selected - visible + 1
	}
	end := min(start+visible, len(v.records))

	for i := start; i < end; i++ {
		r := v.records[i]
		line := fmt.Sprintf("%s  %-16s %s", r.Timestamp.Local().Format("2006-01-02 15:04"), r.Subject.Name, r.Diagnosis)
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + line))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + line))
		}
		b.WriteString("\n")
	}
}

func (v *View) renderDetail(b *strings.Builder, r domain.SessionRecord) {
	b.WriteString(v.styles.Subtitle.Render(r.Diagnosis))
	if r.Provenance != "" {
		b.WriteString(v.styles.Muted.Render(" (" + r.Provenance.String() + ")"))
	}
	b.WriteString("\n")
	fmt.Fprintf(b, "Subject: %s, %s\n", r.Subject.Name, r.Subject.Gender)
	fmt.Fprintf(b, "Matched: %s\n", strings.Join(r.Matched, ", "))
	fmt.Fprintf(b, "Affirmed: %s", strings.Join(r.Affirmed, ", "))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Records returns the loaded sessions.
func (v *View) Records() []domain.SessionRecord {
	return v.records
}

// Selected returns the selected index.
func (v *View) Selected() int {
	return v.selected
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}
