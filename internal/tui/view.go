package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"vibe_studio/internal/project"
)

// previewTitle heads the right pane when no file is selected
const previewTitle = "Preview"

// View renders the UI based on the model state
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	if m.ack != "" {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderAck())
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.renderLeft(), m.renderRight())

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderFooter(),
	)
}

// renderHeader renders the top title bar
func (m Model) renderHeader() string {
	title := m.styles.title.Render("Vibe Coding Studio")

	status := fmt.Sprintf("%d files · %s", len(m.session.Files), m.cfg.Backend.URL)
	if len(m.session.Files) == 1 {
		status = fmt.Sprintf("1 file · %s", m.cfg.Backend.URL)
	}
	status = m.styles.status.Render(status)

	spacing := max(m.width-lipgloss.Width(title)-lipgloss.Width(status), 1)
	return title + strings.Repeat(" ", spacing) + status
}

// renderLeft renders the prompt, root dir, actions and file list
func (m Model) renderLeft() string {
	lw, _, bodyHeight := m.paneSizes()
	innerW := max(lw-4, 10)

	var b strings.Builder

	b.WriteString(m.styles.label.Render("Prompt"))
	b.WriteString("\n")
	b.WriteString(m.prompt.View())
	b.WriteString("\n")

	b.WriteString(m.styles.label.Render("Root directory"))
	b.WriteString("\n")
	b.WriteString(m.rootDir.View())
	b.WriteString("\n")

	b.WriteString(m.renderActions())
	b.WriteString("\n\n")

	// A long error takes lines from the file list instead of being cut
	files := m.fileList
	var errText string
	if m.session.Error != "" {
		errText = m.styles.errorText.Width(innerW).Render(m.session.Error)
		if extra := lipgloss.Height(errText) - errorLines; extra > 0 {
			files.SetHeight(max(files.Height()-extra, 1))
		}
	}

	b.WriteString(m.styles.label.Render("Files"))
	b.WriteString("\n")
	if len(m.session.Files) == 0 {
		b.WriteString(m.styles.hint.Render("No files yet"))
		b.WriteString(strings.Repeat("\n", max(files.Height()-1, 0)))
	} else {
		b.WriteString(files.View())
	}

	if errText != "" {
		b.WriteString("\n")
		b.WriteString(errText)
	}

	style := m.styles.pane
	if m.focus == focusPrompt || m.focus == focusRootDir || m.focus == focusFiles {
		style = m.styles.paneFocused
	}
	return style.Width(lw - 2).Height(bodyHeight - 2).Render(b.String())
}

// renderActions renders the action hints, or the busy indicator
func (m Model) renderActions() string {
	if m.session.Loading {
		label := "Generating..."
		if t, _ := m.session.Pending(); t.Kind == project.KindWrite {
			label = "Writing..."
		}
		return m.spinner.View() + " " + m.styles.busy.Render(label)
	}

	hints := []string{"ctrl+g generate"}
	if m.session.CanWrite() {
		hints = append(hints, "ctrl+w write")
	}
	return m.styles.hint.Render(strings.Join(hints, "  "))
}

// renderRight renders the preview header and the code view
func (m Model) renderRight() string {
	_, rw, bodyHeight := m.paneSizes()

	header := previewTitle
	if file, ok := m.selector.Select(m.session); ok {
		header = file.Path
	}
	header = m.styles.previewPath.Render(truncate(header, max(rw-4, 4)))

	content := header + "\n" + m.surface.View()

	style := m.styles.pane
	if m.focus == focusPreview {
		style = m.styles.paneFocused
	}
	return style.Width(rw - 2).Height(bodyHeight - 2).Render(content)
}

// renderFooter renders the help line or a transient toast
func (m Model) renderFooter() string {
	if m.toast != "" {
		return m.styles.toast.Render(m.toast)
	}
	return m.help.View(m.keys)
}

// renderAck renders the write acknowledgment modal
func (m Model) renderAck() string {
	body := m.ack + "\n\n" + m.styles.hint.Render("press enter to continue")
	return m.styles.modal.Render(lipgloss.JoinVertical(lipgloss.Center, body))
}
