package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"moreever/internal/model"
	"moreever/internal/navigator"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Width(9).
			Foreground(lipgloss.Color("240"))

	focusedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	pathHighlightStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("81")). // Sky Blue/Cyan
				Bold(true)

	adviceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")) // Orange

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	previewStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

var selectorNames = [selectorCount]string{"Vocab", "Stemmer", "Corpus"}

const helpText = `moreever navigator

  Tab / Shift+Tab   focus next / previous selector
  ←/→ or h/l        change the focused selector
  ↑/↓ or j/k        scroll the document preview
  g                 go to a deep link (#stemmer/vocab/corpus/doc.html)
  ?                 toggle this help
  q                 quit

Changing a selector recomputes the values and list pages at once.
The document keeps its name and moves to the new stemmer, vocab and
corpus if that page exists; otherwise the current document stays.`

func (m AppModel) View() string {
	if m.ShowHelp {
		return m.renderHelpDialog()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("moreever"))
	b.WriteString("\n\n")

	for i := 0; i < selectorCount; i++ {
		b.WriteString(m.renderSelector(i))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	targets := m.Slots.Targets()
	b.WriteString(labelStyle.Render("values") + pathHighlightStyle.Render(targets.Values) + "\n")
	b.WriteString(labelStyle.Render("list") + pathHighlightStyle.Render(targets.List) + "\n")
	b.WriteString(labelStyle.Render("fulltext") + pathHighlightStyle.Render(targets.Fulltext) + "\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")

	b.WriteString(previewStyle.Width(m.PreviewViewport.Width).Render(m.renderPreview()))

	help := "Tab: Switch Selector • ←/→: Change • ↑/↓: Scroll • g: Go to Link • ?: Help • q: Quit"
	footer := "\n" + dimStyle.Render(help)
	if m.InputMode {
		footer = fmt.Sprintf("\nGo to: %s", m.InputBuffer.View())
	}
	b.WriteString(footer)
	return b.String()
}

func (m AppModel) renderSelector(i int) string {
	choices := m.Choices[i]
	value := "(none)"
	pos := ""
	if len(choices) > 0 {
		value = choices[m.Chosen[i]]
		pos = dimStyle.Render(fmt.Sprintf(" %d/%d", m.Chosen[i]+1, len(choices)))
	}

	style := normalStyle
	if i == m.Focus {
		style = focusedStyle
	}
	return labelStyle.Render(selectorNames[i]) + style.Render("‹ "+value+" ›") + pos
}

func (m AppModel) renderStatus() string {
	if m.LastOutcome == nil {
		return dimStyle.Render("no probe yet")
	}
	o := m.LastOutcome
	switch o.Status {
	case navigator.Applied:
		return okStyle.Render("showing " + o.Path)
	case navigator.NotFound, navigator.Failed:
		return adviceStyle.Render("Unable to find: " + o.Path)
	default:
		return dimStyle.Render(fmt.Sprintf("probe %d %s", o.Token, o.Status))
	}
}

func (m AppModel) renderPreview() string {
	title := m.Preview.Title
	if title == "" {
		title = "No document"
	}
	header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Render(title)
	if m.FS == nil {
		return header + "\n" + dimStyle.Render("Preview is only available for a local site.")
	}
	if m.Preview.ErrorMsg != "" {
		return header + "\n" + adviceStyle.Render(m.Preview.ErrorMsg)
	}
	return header + "\n" + m.PreviewViewport.View()
}

func previewContent(p model.DocumentPreview) string {
	content := strings.Join(p.Lines, "\n\n")
	if p.Truncated {
		content += "\n\n…"
	}
	return content
}

func (m AppModel) renderHelpDialog() string {
	w, h := m.WindowSize.Width, m.WindowSize.Height
	if w < 20 || h < 10 {
		return helpText
	}

	helpWidth := w * 80 / 100
	if helpWidth < 40 {
		helpWidth = 40
	}
	if helpWidth > w-4 {
		helpWidth = w - 4
	}

	dialog := lipgloss.NewStyle().
		Width(helpWidth).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(0, 1).
		Render(helpText)

	return lipgloss.Place(w, h,
		lipgloss.Center, lipgloss.Center,
		dialog,
	)
}
