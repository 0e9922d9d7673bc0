package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"vibe_studio/internal/project"
)

// fileItem wraps a FileItem for the list component
type fileItem struct {
	file project.FileItem
}

func (i fileItem) FilterValue() string { return i.file.Path }
func (i fileItem) Title() string       { return i.file.Path }
func (i fileItem) Description() string { return formatSize(len(i.file.Content)) }

// fileDelegate renders file rows. The row open in the preview is marked
// separately from the cursor row.
type fileDelegate struct {
	styles   *styles
	width    int
	selected string
}

func newFileDelegate(st *styles) *fileDelegate {
	return &fileDelegate{styles: st}
}

// SetWidth updates the available width for rendering
func (d *fileDelegate) SetWidth(w int) {
	d.width = w
}

// SetSelected records which path the preview shows
func (d *fileDelegate) SetSelected(path string) {
	d.selected = path
}

func (d *fileDelegate) Height() int                             { return 1 }
func (d *fileDelegate) Spacing() int                            { return 0 }
func (d *fileDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d *fileDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(fileItem)
	if !ok {
		return
	}

	marker := "  "
	nameStyle := d.styles.normalRow
	if i.file.Path == d.selected {
		marker = "▸ "
		nameStyle = d.styles.selectedRow
	}

	size := formatSize(len(i.file.Content))
	nameWidth := max(d.width-lipgloss.Width(marker)-len(size)-1, 4)
	name := truncate(i.file.Path, nameWidth)
	gap := max(d.width-lipgloss.Width(marker)-lipgloss.Width(name)-len(size), 1)

	row := nameStyle.Render(marker+name) + fmt.Sprintf("%*s", gap, "") + d.styles.sizeText.Render(size)
	if index == m.Index() {
		row = d.styles.cursorRow.Render(marker+name) + fmt.Sprintf("%*s", gap, "") + d.styles.sizeText.Render(size)
	}

	fmt.Fprint(w, row)
}

// formatSize renders a byte count compactly
func formatSize(n int) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%dB", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1fK", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1fM", float64(n)/(1024*1024))
	}
}

// truncate shortens a string to max length with ellipsis, keeping the tail
// since the file name is the informative end of a path
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen < 4 {
		return string(r[len(r)-maxLen:])
	}
	return "..." + string(r[len(r)-maxLen+3:])
}
