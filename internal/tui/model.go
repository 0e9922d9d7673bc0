package tui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"vibe_studio/internal/config"
	"vibe_studio/internal/editor"
	"vibe_studio/internal/gateway"
	"vibe_studio/internal/logging"
	"vibe_studio/internal/project"
)

// writeAckText is shown in the blocking modal after a successful write
const writeAckText = "Files written successfully"

const toastDuration = 3 * time.Second

// focusArea is the pane receiving keyboard input
type focusArea int

const (
	focusPrompt  focusArea = iota // Prompt textarea
	focusRootDir                  // Root directory input
	focusFiles                    // File list
	focusPreview                  // Code preview scrolling
	focusCount
)

// Backend is the code-generation service the shell drives
type Backend interface {
	Generate(ctx context.Context, prompt string) ([]project.FileItem, error)
	Write(ctx context.Context, rootDir string, files []project.FileItem) (gateway.WriteAck, error)
	Reconfigure(baseURL string, timeout time.Duration)
}

// ModelOptions configures a new Model
type ModelOptions struct {
	Config  *config.Config
	Backend Backend
	Logger  *logrus.Logger

	// Watcher delivers config reloads. Optional.
	Watcher *config.Watcher

	// WidgetFactory builds the preview widget. Nil uses the code view.
	WidgetFactory editor.WidgetFactory

	// Clipboard copies text. Nil uses the system clipboard.
	Clipboard func(string) error
}

// Model represents the application state
type Model struct {
	// Core state
	session  project.Session
	selector *project.Selector
	backend  Backend
	cfg      *config.Config
	watcher  *config.Watcher
	log      *logrus.Logger
	copyText func(string) error

	// UI components
	prompt   textarea.Model
	rootDir  textinput.Model
	fileList list.Model
	spinner  spinner.Model
	help     help.Model
	keys     keyMap
	surface  *editor.Surface
	styles   *styles

	// Delegate (stored to update width and selection marker)
	fileDelegate *fileDelegate

	focus focusArea

	// ack is the text of the open acknowledgment modal, empty when closed
	ack string

	toast   string
	toastID int

	// UI dimensions
	width  int
	height int
}

// NewModel creates a new Model with initialized state
func NewModel(opts ModelOptions) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	copyText := opts.Clipboard
	if copyText == nil {
		copyText = clipboard.WriteAll
	}

	st := newStyles(cfg.Theme)
	fileDel := newFileDelegate(&st)

	m := Model{
		session:      project.New(cfg.Defaults.Prompt, cfg.Defaults.RootDir),
		selector:     &project.Selector{},
		backend:      opts.Backend,
		cfg:          cfg,
		watcher:      opts.Watcher,
		log:          log,
		copyText:     copyText,
		keys:         newKeyMap(),
		help:         help.New(),
		styles:       &st,
		fileDelegate: fileDel,
		surface:      editor.NewSurface(opts.WidgetFactory, editor.DefaultOptions()),
		focus:        focusPrompt,
	}

	m.prompt = textarea.New()
	m.prompt.Placeholder = "Describe the app you want..."
	m.prompt.ShowLineNumbers = false
	m.prompt.CharLimit = 0
	m.prompt.SetValue(m.session.Prompt)
	m.prompt.Focus()

	m.rootDir = textinput.New()
	m.rootDir.Prompt = "› "
	m.rootDir.Placeholder = project.DefaultRootDir
	m.rootDir.SetValue(m.session.RootDir)

	m.fileList = list.New([]list.Item{}, fileDel, 0, 0)
	m.fileList.SetShowTitle(false)
	m.fileList.SetShowHelp(false)
	m.fileList.SetShowStatusBar(false)
	m.fileList.SetFilteringEnabled(false)
	m.fileList.DisableQuitKeybindings()

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot
	m.spinner.Style = st.busy

	return m.syncKeys()
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.watchConfigCmd(),
	)
}

// Close releases the preview widget. Safe to call more than once.
func (m Model) Close() {
	m.surface.Unmount()
}

// Session returns the current session state
func (m Model) Session() project.Session {
	return m.session
}

// Message types
type (
	configReloadedMsg struct{ cfg *config.Config }
	toastExpiredMsg   int
	errMsg            struct{ error } // Watcher error
)

// generateDoneMsg settles a generation request
type generateDoneMsg struct {
	ticket project.Ticket
	files  []project.FileItem
	err    error
}

// writeDoneMsg settles a write request
type writeDoneMsg struct {
	ticket project.Ticket
	ack    gateway.WriteAck
	err    error
}

// clipboardMsg reports the outcome of a copy
type clipboardMsg struct {
	path string
	err  error
}

// generateCmd runs a generation request off the update loop
func (m Model) generateCmd(t project.Ticket, prompt string) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx := gateway.WithRequestID(context.Background(), t.ID)
		files, err := backend.Generate(ctx, prompt)
		return generateDoneMsg{ticket: t, files: files, err: err}
	}
}

// writeCmd runs a write request off the update loop
func (m Model) writeCmd(t project.Ticket, rootDir string, files []project.FileItem) tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		ctx := gateway.WithRequestID(context.Background(), t.ID)
		ack, err := backend.Write(ctx, rootDir, files)
		return writeDoneMsg{ticket: t, ack: ack, err: err}
	}
}

// copyCmd puts a file's content on the clipboard
func (m Model) copyCmd(file project.FileItem) tea.Cmd {
	copyText := m.copyText
	return func() tea.Msg {
		return clipboardMsg{path: file.Path, err: copyText(file.Content)}
	}
}

// watchConfigCmd waits for the next config reload
func (m Model) watchConfigCmd() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	w := m.watcher
	return func() tea.Msg {
		select {
		case cfg := <-w.Events:
			return configReloadedMsg{cfg: cfg}
		case err := <-w.Errors:
			return errMsg{err}
		case <-w.Done():
			return nil
		}
	}
}

// toastCmd shows a transient status line
func (m Model) toastCmd(text string) (Model, tea.Cmd) {
	m.toastID++
	m.toast = text
	id := m.toastID
	return m, tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg(id)
	})
}

// syncKeys enables only the actions the session currently allows
func (m Model) syncKeys() Model {
	_, hasSelection := m.selector.Select(m.session)
	m.keys.generate.SetEnabled(!m.session.Loading)
	m.keys.write.SetEnabled(m.session.CanWrite())
	m.keys.copy.SetEnabled(hasSelection)
	m.keys.choose.SetEnabled(m.focus == focusFiles)
	return m
}

// syncFiles pushes session state into the file list and the preview
func (m Model) syncFiles(rebuild bool) Model {
	if rebuild {
		items := make([]list.Item, len(m.session.Files))
		for i, f := range m.session.Files {
			items[i] = fileItem{file: f}
		}
		m.fileList.SetItems(items)
		m.fileList.Select(0)
	}

	m.fileDelegate.SetSelected(m.session.SelectedPath)

	if file, ok := m.selector.Select(m.session); ok {
		m.surface.Set(file.Content, file.Path)
	} else {
		m.surface.Set("", "")
	}

	return m.syncKeys()
}

// setFocus moves keyboard focus, blurring the previous input
func (m Model) setFocus(f focusArea) Model {
	m.focus = f
	m.prompt.Blur()
	m.rootDir.Blur()
	switch f {
	case focusPrompt:
		m.prompt.Focus()
	case focusRootDir:
		m.rootDir.Focus()
	}
	return m.syncKeys()
}

// layout sizes every component from the terminal dimensions
func (m Model) layout() Model {
	lw, rw, bodyHeight := m.paneSizes()

	// Left pane inner size, minus border and padding
	innerW := max(lw-4, 10)
	innerH := max(bodyHeight-2, 10)

	m.prompt.SetWidth(innerW)
	m.prompt.SetHeight(promptHeight)
	m.rootDir.Width = max(innerW-3, 5)

	listHeight := max(innerH-leftChromeHeight, 3)
	m.fileDelegate.SetWidth(innerW)
	m.fileList.SetSize(innerW, listHeight)

	m.help.Width = m.width

	// Right pane: header line plus the editor region
	region := &editor.Region{
		Width:  max(rw-4, 10),
		Height: max(bodyHeight-3, 3),
	}
	if !m.surface.Mounted() {
		content, path := "", ""
		if file, ok := m.selector.Select(m.session); ok {
			content, path = file.Content, file.Path
		}
		m.surface.Mount(region, content, path)
	} else {
		m.surface.Resize(region.Width, region.Height)
	}

	return m
}

const (
	promptHeight = 5

	// Lines kept free under the file list for an error message
	errorLines = 2

	// Lines in the left pane that are not the file list: prompt label and
	// box, root label and input, action line, spacer, files label, and
	// the error.
	leftChromeHeight = 1 + promptHeight + 1 + 1 + 1 + 1 + 1 + errorLines
)

// paneSizes splits the terminal into left and right pane widths and the
// shared body height
func (m Model) paneSizes() (left, right, body int) {
	left = max(m.width*2/5, 32)
	if left > m.width-20 {
		left = max(m.width/2, 1)
	}
	right = max(m.width-left, 1)
	// Title line and help footer
	body = max(m.height-2, 5)
	return left, right, body
}
