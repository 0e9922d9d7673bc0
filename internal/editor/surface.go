package editor

import (
	tea "github.com/charmbracelet/bubbletea"

	"vibe_studio/internal/lang"
)

// Surface keeps one widget's text and language in step with the
// (content, path) pair it is handed. Set is the only mutation entry point.
//
// The widget is acquired by Mount and released by Unmount:
//
//	s := editor.Open(region, content, path, nil, editor.DefaultOptions())
//	defer s.Unmount()
type Surface struct {
	factory WidgetFactory
	opts    Options
	widget  Widget

	content string
	path    string
}

// NewSurface creates an unmounted surface. A nil factory uses NewCodeView.
func NewSurface(factory WidgetFactory, opts Options) *Surface {
	if factory == nil {
		factory = NewCodeView
	}
	return &Surface{factory: factory, opts: opts}
}

// Open creates a surface and mounts it on region in one step
func Open(region *Region, content, path string, factory WidgetFactory, opts Options) *Surface {
	s := NewSurface(factory, opts)
	s.Mount(region, content, path)
	return s
}

// Mount attaches the surface to region and creates its widget. It does
// nothing when region is nil or a widget already exists.
func (s *Surface) Mount(region *Region, content, path string) {
	if region == nil || s.widget != nil {
		return
	}
	s.content, s.path = content, path
	s.widget = s.factory(region, content, lang.Detect(path), s.opts)
}

// Mounted reports whether a widget is live
func (s *Surface) Mounted() bool {
	return s.widget != nil
}

// Set replaces the displayed content and re-derives the language from
// path. Identical values are ignored.
func (s *Surface) Set(content, path string) {
	if content == s.content && path == s.path {
		return
	}
	s.content, s.path = content, path
	if s.widget == nil {
		return
	}
	s.widget.SetValue(content)
	s.widget.SetLanguage(lang.Detect(path))
}

// Resize lays the widget out again when automatic layout is on
func (s *Surface) Resize(width, height int) {
	if s.widget == nil || !s.opts.AutomaticLayout {
		return
	}
	s.widget.Layout(width, height)
}

// Update forwards scrolling input to the widget
func (s *Surface) Update(msg tea.Msg) tea.Cmd {
	if s.widget == nil {
		return nil
	}
	return s.widget.Update(msg)
}

// View renders the widget, or nothing when unmounted
func (s *Surface) View() string {
	if s.widget == nil {
		return ""
	}
	return s.widget.View()
}

// Text returns the widget's buffer
func (s *Surface) Text() string {
	if s.widget == nil {
		return ""
	}
	return s.widget.Value()
}

// Language returns the widget's highlighting mode
func (s *Surface) Language() lang.Tag {
	if s.widget == nil {
		return lang.PlainText
	}
	return s.widget.Language()
}

// Unmount disposes the widget. Safe to call any number of times; the
// widget is disposed exactly once.
func (s *Surface) Unmount() {
	if s.widget == nil {
		return
	}
	w := s.widget
	s.widget = nil
	w.Dispose()
}
