package tui

import (
	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

// flavorFor maps a config theme name onto a catppuccin flavor
func flavorFor(theme string) catppuccin.Flavor {
	switch theme {
	case "latte":
		return catppuccin.Latte
	case "frappe":
		return catppuccin.Frappe
	case "macchiato":
		return catppuccin.Macchiato
	default:
		return catppuccin.Mocha
	}
}

type styles struct {
	title       lipgloss.Style
	status      lipgloss.Style
	label       lipgloss.Style
	hint        lipgloss.Style
	busy        lipgloss.Style
	errorText   lipgloss.Style
	toast       lipgloss.Style
	pane        lipgloss.Style
	paneFocused lipgloss.Style
	previewPath lipgloss.Style
	modal       lipgloss.Style

	// File list rows
	cursorRow   lipgloss.Style
	selectedRow lipgloss.Style
	normalRow   lipgloss.Style
	sizeText    lipgloss.Style
}

func newStyles(theme string) styles {
	f := flavorFor(theme)
	c := func(col catppuccin.Color) lipgloss.Color { return lipgloss.Color(col.Hex) }

	pane := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(c(f.Surface2())).
		Padding(0, 1)

	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(c(f.Mauve())),
		status: lipgloss.NewStyle().
			Foreground(c(f.Overlay1())),
		label: lipgloss.NewStyle().
			Bold(true).
			Foreground(c(f.Lavender())),
		hint: lipgloss.NewStyle().
			Foreground(c(f.Overlay1())),
		busy: lipgloss.NewStyle().
			Foreground(c(f.Yellow())),
		errorText: lipgloss.NewStyle().
			Foreground(c(f.Red())).
			Bold(true),
		toast: lipgloss.NewStyle().
			Foreground(c(f.Green())),
		pane:        pane,
		paneFocused: pane.BorderForeground(c(f.Mauve())),
		previewPath: lipgloss.NewStyle().
			Bold(true).
			Foreground(c(f.Blue())),
		modal: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(c(f.Green())).
			Foreground(c(f.Text())).
			Padding(1, 4),
		cursorRow: lipgloss.NewStyle().
			Background(c(f.Surface0())).
			Foreground(c(f.Text())),
		selectedRow: lipgloss.NewStyle().
			Foreground(c(f.Green())).
			Bold(true),
		normalRow: lipgloss.NewStyle().
			Foreground(c(f.Text())),
		sizeText: lipgloss.NewStyle().
			Foreground(c(f.Overlay0())),
	}
}
