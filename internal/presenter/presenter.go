// Package presenter plays a deck full-screen in the terminal.
package presenter

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amterp/webslide/internal/deck"
	"github.com/amterp/webslide/internal/model"
	"github.com/amterp/webslide/internal/render"
)

const hint = "←/→ or space to navigate · esc to exit"

// Model is the Bubble Tea model for presentation mode. Navigation moves the
// deck's own cursor, so other observers see the presenter's position.
type Model struct {
	state  *deck.State
	styles Styles

	index int
	total int
	slide model.Slide
	body  string

	width  int
	height int
}

// Compile-time interface compliance check
var _ tea.Model = (*Model)(nil)

// deckChangedMsg tells the model to re-read the deck.
type deckChangedMsg struct {
	Event deck.Event
}

// observer forwards deck events into the running program. Events raised by
// the model's own key handling arrive while Update is running, so Send must
// not block the caller.
type observer struct {
	program *tea.Program
}

func (o observer) OnDeckEvent(e deck.Event) {
	go o.program.Send(deckChangedMsg{Event: e})
}

// NewModel creates a presenter positioned on the first slide.
func NewModel(state *deck.State) *Model {
	m := &Model{state: state, styles: DefaultStyles()}
	state.SetCurrentSlide(0)
	m.refresh()
	return m
}

// Run presents the deck until the user exits.
func Run(state *deck.State) error {
	m := NewModel(state)
	p := tea.NewProgram(m, tea.WithAltScreen())

	unsubscribe := state.Subscribe(observer{program: p})
	defer unsubscribe()

	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case deckChangedMsg:
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q", "ctrl+c":
			return m, tea.Quit
		case "right", " ", "l", "n", "pgdown":
			m.state.NextSlide()
		case "left", "h", "p", "pgup":
			m.state.PreviousSlide()
		case "home", "g":
			m.state.SetCurrentSlide(0)
		case "end", "G":
			m.state.SetCurrentSlide(m.state.Len() - 1)
		default:
			return m, nil
		}
		m.refresh()
	}
	return m, nil
}

func (m *Model) refresh() {
	snap := m.state.Snapshot()
	m.index = snap.CurrentSlideIndex
	m.total = len(snap.Slides)
	m.slide, _ = snap.CurrentSlide()

	body, err := render.Body(m.slide)
	if err != nil {
		m.body = fmt.Sprintf("(could not render slide: %v)", err)
		return
	}
	m.body = render.PlainText(body)
}

// Index returns the 0-based slide being shown.
func (m *Model) Index() int {
	return m.index
}

// Counter returns the "N / total" label.
func (m *Model) Counter() string {
	return model.Counter(m.index, m.total)
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(m.slide.Title))
	b.WriteString("\n")
	if m.body == "" {
		b.WriteString(m.styles.Hint.Render("(empty slide)"))
	} else {
		b.WriteString(m.styles.Body.Render(m.body))
	}

	frame := m.styles.Frame
	if m.width > 0 {
		w, _ := render.FitSize(render.SlideWidth, render.SlideHeight, float64(m.width-4), float64(m.height-4)*2)
		frame = frame.Width(int(w))
	}
	content := frame.Render(b.String())

	footer := lipgloss.JoinHorizontal(lipgloss.Center,
		m.styles.Counter.Render(m.Counter()),
		"  ",
		m.styles.Hint.Render(hint),
	)

	page := lipgloss.JoinVertical(lipgloss.Center, content, "", footer)
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, page)
	}
	return page
}
