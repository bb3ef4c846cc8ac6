package reader

import (
	"fmt"
	"strings"

	"course_hub/internal/model"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	sidebarStyle = lipgloss.NewStyle().
			Width(sidebarWidth-2).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(lipgloss.Color("240"))

	currentUnitStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	mutedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	selectedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// refreshContent は表示中のチャンクをビューポートに流し込みます。
func (m *Model) refreshContent() {
	if m.view == nil {
		m.viewport.SetContent("")
		return
	}
	body := lipgloss.NewStyle().Width(m.viewport.Width).Render(m.contentText())
	m.viewport.SetContent(body)
}

func (m *Model) contentText() string {
	v := m.view
	var b strings.Builder
	fmt.Fprintf(&b, "Unit %s: %s\n", v.UnitNumber, v.UnitTitle)
	fmt.Fprintf(&b, "%s (%d/%d)\n\n", v.Title, v.ChunkNumber, v.ChunkCount)
	if v.Text != "" {
		b.WriteString(v.Text)
		b.WriteString("\n\n")
	}

	item := 0
	if len(v.Resources) > 0 {
		b.WriteString("■ リソース\n")
		for _, r := range v.Resources {
			b.WriteString(m.itemLine(item, checkbox(r.IsCompleted)+" "+resourceLabel(r)))
			item++
		}
		b.WriteString("\n")
	}

	if len(v.Exercises) > 0 {
		b.WriteString("■ 演習\n")
		for _, e := range v.Exercises {
			b.WriteString(m.itemLine(item, checkbox(e.IsCompleted)+" "+e.Title))
			item++
			if text := m.exercises[e.ExerciseID]; text != "" {
				b.WriteString(indent(text, "    "))
				b.WriteString("\n")
			}
			for i, opt := range e.Options {
				fmt.Fprintf(&b, "    %d) %s\n", i+1, opt)
			}
			if e.Response != "" {
				fmt.Fprintf(&b, "    回答: %s\n", e.Response)
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) itemLine(i int, label string) string {
	if i == m.selected {
		return selectedStyle.Render("> "+label) + "\n"
	}
	return "  " + label + "\n"
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func resourceLabel(r model.ResourceView) string {
	label := r.Title
	if r.TimeMinutes > 0 {
		label += fmt.Sprintf(" (%d分)", r.TimeMinutes)
	}
	if !r.Counted() {
		label += " " + mutedStyle.Render("[発展]")
	}
	if r.URL != "" {
		label += "\n      " + mutedStyle.Render(r.URL)
	}
	return label
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) View() string {
	header := headerStyle.Render(m.headerText())

	body := m.viewport.View()
	if m.controller != nil && m.controller.SidebarOpen() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebarStyle.Height(m.viewport.Height).Render(m.sidebarText()), body)
	}

	status := statusStyle.Render(m.status)
	if m.err != nil {
		status = errorStyle.Render(m.status)
	}

	footer := helpStyle.Render("←/→ 移動  1-9 ユニット  ctrl+b サイドバー  ↑/↓ 選択  x 完了  e 回答  r 再試行  q 終了")
	if m.input.Focused() {
		footer = m.input.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, status, footer)
}

func (m Model) headerText() string {
	title := m.slug
	if m.progress == nil {
		return title
	}
	return fmt.Sprintf("%s  %d%% (%d/%d)", title, m.progress.Percentage, m.progress.CompletedCount, m.progress.TotalCount)
}

func (m Model) sidebarText() string {
	current := m.controller.Current()
	var b strings.Builder
	for _, u := range m.controller.Outline().Units {
		line := fmt.Sprintf("%s. %s", u.UnitNumber, u.Title)
		if m.progress != nil {
			if up, ok := m.progress.Units[u.UnitNumber]; ok {
				line += fmt.Sprintf(" %d%%", up.Percentage)
			}
		}
		if u.UnitNumber == current.UnitNumber {
			line = currentUnitStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
