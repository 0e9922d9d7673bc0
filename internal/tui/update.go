package tui

import (
	"errors"
	"slices"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"vibe_studio/internal/config"
	"vibe_studio/internal/project"
)

// Update handles incoming messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m.layout(), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.session.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case generateDoneMsg:
		return m.handleGenerateDone(msg)

	case writeDoneMsg:
		return m.handleWriteDone(msg)

	case clipboardMsg:
		if msg.err != nil {
			m.log.WithError(msg.err).Warn("clipboard unavailable")
			return m.toastCmd("Clipboard unavailable")
		}
		return m.toastCmd("Copied " + msg.path)

	case toastExpiredMsg:
		if int(msg) == m.toastID {
			m.toast = ""
		}
		return m, nil

	case configReloadedMsg:
		return m.applyConfig(msg.cfg)

	case errMsg:
		m.log.WithError(msg.error).Warn("config watcher error")
		return m, m.watchConfigCmd()
	}

	return m.updateFocused(msg)
}

// handleKey processes keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.quit) {
		return m, tea.Quit
	}

	// The acknowledgment modal swallows everything until dismissed
	if m.ack != "" {
		if key.Matches(msg, m.keys.dismiss) {
			m.ack = ""
		}
		return m, nil
	}

	switch {
	// Disabled actions still own their keys so they never reach an input
	case pressed(msg, m.keys.generate):
		return m.startGenerate()

	case pressed(msg, m.keys.write):
		return m.startWrite()

	case key.Matches(msg, m.keys.nextFocus):
		return m.setFocus((m.focus + 1) % focusCount), nil

	case key.Matches(msg, m.keys.prevFocus):
		return m.setFocus((m.focus + focusCount - 1) % focusCount), nil

	case pressed(msg, m.keys.copy):
		if file, ok := m.selector.Select(m.session); ok {
			return m, m.copyCmd(file)
		}
		return m, nil

	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.choose):
		if item, ok := m.fileList.SelectedItem().(fileItem); ok {
			m.session = m.session.Select(item.file.Path)
			return m.syncFiles(false), nil
		}
		return m, nil
	}

	return m.updateFocused(msg)
}

// updateFocused forwards a message to the component that has focus
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.focus {
	case focusPrompt:
		m.prompt, cmd = m.prompt.Update(msg)
		m.session = m.session.WithPrompt(m.prompt.Value())
	case focusRootDir:
		m.rootDir, cmd = m.rootDir.Update(msg)
		m.session = m.session.WithRootDir(m.rootDir.Value())
	case focusFiles:
		m.fileList, cmd = m.fileList.Update(msg)
	case focusPreview:
		cmd = m.surface.Update(msg)
	}

	return m, cmd
}

// startGenerate issues a generation request for the current prompt
func (m Model) startGenerate() (tea.Model, tea.Cmd) {
	next, ticket, err := m.session.Begin(project.KindGenerate)
	if err != nil {
		m.log.WithError(err).Debug("generate ignored")
		return m, nil
	}
	m.session = next
	m.log.WithFields(logrus.Fields{
		"ticket": ticket.ID,
		"prompt": len(next.Prompt),
	}).Info("generate started")

	m = m.syncKeys()
	return m, tea.Batch(m.generateCmd(ticket, next.Prompt), m.spinner.Tick)
}

// startWrite issues a write request for the current files
func (m Model) startWrite() (tea.Model, tea.Cmd) {
	if !m.session.CanWrite() {
		return m, nil
	}
	next, ticket, err := m.session.Begin(project.KindWrite)
	if err != nil {
		m.log.WithError(err).Debug("write ignored")
		return m, nil
	}
	m.session = next
	m.log.WithFields(logrus.Fields{
		"ticket": ticket.ID,
		"root":   next.RootDir,
		"files":  len(next.Files),
	}).Info("write started")

	m = m.syncKeys()
	return m, tea.Batch(m.writeCmd(ticket, next.RootDir, next.Files), m.spinner.Tick)
}

// handleGenerateDone applies a generation result
func (m Model) handleGenerateDone(msg generateDoneMsg) (tea.Model, tea.Cmd) {
	entry := m.log.WithField("ticket", msg.ticket.ID)

	var (
		next project.Session
		err  error
	)
	if msg.err != nil {
		next, err = m.session.Failed(msg.ticket, msg.err)
	} else {
		next, err = m.session.GenerateSucceeded(msg.ticket, msg.files)
	}
	if errors.Is(err, project.ErrStaleTicket) {
		entry.Debug("dropped stale generate result")
		return m, nil
	}

	rebuild := next.Generation() != m.session.Generation()
	m.session = next
	if msg.err != nil {
		entry.WithError(msg.err).Warn("generate failed")
	} else {
		entry.WithField("files", len(msg.files)).Info("generate finished")
	}

	return m.syncFiles(rebuild), nil
}

// handleWriteDone applies a write result
func (m Model) handleWriteDone(msg writeDoneMsg) (tea.Model, tea.Cmd) {
	entry := m.log.WithField("ticket", msg.ticket.ID)

	var (
		next project.Session
		err  error
	)
	if msg.err != nil {
		next, err = m.session.Failed(msg.ticket, msg.err)
	} else {
		next, err = m.session.WriteSucceeded(msg.ticket)
	}
	if errors.Is(err, project.ErrStaleTicket) {
		entry.Debug("dropped stale write result")
		return m, nil
	}

	m.session = next
	if msg.err != nil {
		entry.WithError(msg.err).Warn("write failed")
	} else {
		entry.WithField("written", msg.ack.Written).Info("write finished")
		m.ack = writeAckText
	}

	return m.syncKeys(), nil
}

// applyConfig points the shell at a reloaded configuration
func (m Model) applyConfig(cfg *config.Config) (tea.Model, tea.Cmd) {
	if cfg == nil {
		return m, m.watchConfigCmd()
	}
	m.cfg = cfg
	m.backend.Reconfigure(cfg.Backend.URL, cfg.Backend.Timeout)
	*m.styles = newStyles(cfg.Theme)
	m.spinner.Style = m.styles.busy
	m.log.WithField("backend", cfg.Backend.URL).Info("config reloaded")
	return m, m.watchConfigCmd()
}

// pressed reports whether msg is one of b's keys, enabled or not
func pressed(msg tea.KeyMsg, b key.Binding) bool {
	return slices.Contains(b.Keys(), msg.String())
}
