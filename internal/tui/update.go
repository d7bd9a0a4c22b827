package tui

import (
	"moreever/internal/model"
	"moreever/internal/navigator"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// MsgProbeSettled carries a navigator probe outcome into the update loop.
type MsgProbeSettled navigator.Outcome

// Init runs the first navigation and starts listening for probe outcomes.
func (m AppModel) Init() tea.Cmd {
	m.Nav.Update(m.ctx)
	if m.fragment != "" {
		m.Nav.Route(m.ctx, m.fragment)
	}
	return tea.Batch(textinput.Blink, waitForOutcome(m.settled))
}

func waitForOutcome(ch <-chan navigator.Outcome) tea.Cmd {
	return func() tea.Msg {
		return MsgProbeSettled(<-ch)
	}
}

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		m.PreviewViewport.Width = msg.Width - 6
		m.PreviewViewport.Height = msg.Height - 16
		if m.PreviewViewport.Height < 3 {
			m.PreviewViewport.Height = 3
		}
		return m, nil

	case MsgProbeSettled:
		out := navigator.Outcome(msg)
		m.LastOutcome = &out
		if out.Status == navigator.Applied {
			m.loadPreview()
		}
		return m, waitForOutcome(m.settled)

	case tea.KeyMsg:
		if m.InputMode {
			switch msg.Type {
			case tea.KeyEnter:
				m.InputMode = false
				m.InputBuffer.Blur()
				if path, ok := m.Nav.Route(m.ctx, m.InputBuffer.Value()); ok {
					m.Routed = path
				}
				return m, nil
			case tea.KeyEsc:
				m.InputMode = false
				m.InputBuffer.Blur()
				m.InputBuffer.SetValue("")
				return m, nil
			}
			m.InputBuffer, cmd = m.InputBuffer.Update(msg)
			return m, cmd
		}

		if m.ShowHelp {
			switch msg.String() {
			case "?", "esc", "q":
				m.ShowHelp = false
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			m.Nav.Stop()
			return m, tea.Quit
		case "tab":
			m.Focus = (m.Focus + 1) % selectorCount
		case "shift+tab":
			m.Focus = (m.Focus + selectorCount - 1) % selectorCount
		case "right", "l":
			m.cycle(1)
		case "left", "h":
			m.cycle(-1)
		case "up", "k":
			m.PreviewViewport.LineUp(1)
		case "down", "j":
			m.PreviewViewport.LineDown(1)
		case "pgup":
			m.PreviewViewport.HalfViewUp()
		case "pgdown":
			m.PreviewViewport.HalfViewDown()
		case "g":
			m.InputMode = true
			m.InputBuffer.Focus()
			m.InputBuffer.SetValue("#")
			m.InputBuffer.CursorEnd()
			return m, textinput.Blink
		case "?":
			m.ShowHelp = true
		}
	}

	return m, cmd
}

// cycle moves the focused selector by delta and navigates, the same as a
// change event on a select element.
func (m *AppModel) cycle(delta int) {
	n := len(m.Choices[m.Focus])
	if n == 0 {
		return
	}
	m.Chosen[m.Focus] = (m.Chosen[m.Focus] + delta + n) % n
	m.Slots.Select(m.Selection())
	m.Nav.Update(m.ctx)
}

func (m *AppModel) loadPreview() {
	fulltext := m.Slots.Fulltext()
	if m.FS == nil || fulltext == "" {
		m.Preview = model.DocumentPreview{Path: fulltext, Title: model.DocumentTitle(fulltext)}
		m.PreviewViewport.SetContent("")
		return
	}
	m.Preview = model.ReadPreview(m.FS, fulltext, previewLines)
	m.PreviewViewport.SetContent(previewContent(m.Preview))
	m.PreviewViewport.GotoTop()
}
