package editor

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"vibe_studio/internal/lang"
)

// DarkTheme is the chroma style every code view uses
const DarkTheme = "catppuccin-mocha"

// Options configures a widget at construction time
type Options struct {
	Theme           string // chroma style name
	AutomaticLayout bool   // Follow region resizes
	Minimap         bool   // Draw a scroll position column
}

// DefaultOptions returns the options the surface mounts widgets with
func DefaultOptions() Options {
	return Options{
		Theme:           DarkTheme,
		AutomaticLayout: true,
		Minimap:         false,
	}
}

// Region is the rectangle a widget is attached to
type Region struct {
	Width  int
	Height int
}

// Widget is a code display the surface owns
type Widget interface {
	SetValue(text string)
	Value() string
	SetLanguage(tag lang.Tag)
	Language() lang.Tag
	Layout(width, height int)
	Update(msg tea.Msg) tea.Cmd
	View() string
	Dispose()
}

// WidgetFactory constructs a widget bound to a region
type WidgetFactory func(region *Region, value string, language lang.Tag, opts Options) Widget

// codeView is a read-only, syntax highlighted viewport
type codeView struct {
	vp       viewport.Model
	opts     Options
	value    string
	language lang.Tag
	disposed bool
}

// NewCodeView is the default WidgetFactory
func NewCodeView(region *Region, value string, language lang.Tag, opts Options) Widget {
	w := &codeView{
		vp:       viewport.New(region.Width, region.Height),
		opts:     opts,
		value:    value,
		language: language,
	}
	w.Layout(region.Width, region.Height)
	w.render()
	return w
}

func (w *codeView) SetValue(text string) {
	w.value = text
	w.render()
	w.vp.GotoTop()
}

func (w *codeView) Value() string { return w.value }

func (w *codeView) SetLanguage(tag lang.Tag) {
	if tag == w.language {
		return
	}
	w.language = tag
	w.render()
}

func (w *codeView) Language() lang.Tag { return w.language }

func (w *codeView) Layout(width, height int) {
	if w.opts.Minimap {
		width--
	}
	w.vp.Width = max(width, 1)
	w.vp.Height = max(height, 1)
}

func (w *codeView) Update(msg tea.Msg) tea.Cmd {
	if w.disposed {
		return nil
	}
	var cmd tea.Cmd
	w.vp, cmd = w.vp.Update(msg)
	return cmd
}

func (w *codeView) View() string {
	if w.disposed {
		return ""
	}
	if !w.opts.Minimap {
		return w.vp.View()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, w.vp.View(), w.minimap())
}

func (w *codeView) Dispose() {
	w.disposed = true
	w.value = ""
	w.vp.SetContent("")
}

// render re-highlights the buffer with the current language
func (w *codeView) render() {
	w.vp.SetContent(numberLines(highlight(w.value, w.language, w.opts.Theme)))
}

// minimap draws a one-column scroll indicator
func (w *codeView) minimap() string {
	h := w.vp.Height
	pos := int(w.vp.ScrollPercent() * float64(h-1))
	var b strings.Builder
	for i := 0; i < h; i++ {
		if i > 0 {
			b.WriteString("\n")
		}
		if i == pos {
			b.WriteString("█")
		} else {
			b.WriteString("│")
		}
	}
	return b.String()
}

// highlight renders text as 256-color terminal output. Unknown lexers fall
// back to plain text; formatting errors return the input unchanged.
func highlight(text string, tag lang.Tag, theme string) string {
	if text == "" {
		return ""
	}

	lexer := lexers.Get(tag.Lexer())
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(theme)
	if style == nil {
		style = styles.Fallback
	}

	iterator, err := lexer.Tokenise(nil, text)
	if err != nil {
		return text
	}

	var b strings.Builder
	if err := formatters.TTY256.Format(&b, style, iterator); err != nil {
		return text
	}
	return b.String()
}

// numberLines prefixes each line with a right-aligned line number
func numberLines(text string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	width := len(fmt.Sprint(len(lines)))
	gutter := lipgloss.NewStyle().Foreground(lipgloss.Color("#6c7086"))

	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(gutter.Render(fmt.Sprintf("%*d ", width, i+1)))
		b.WriteString(line)
	}
	return b.String()
}
