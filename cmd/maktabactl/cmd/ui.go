package cmd

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// styles holds output styles; every style renders plain text when color is off
type styles struct {
	Header lipgloss.Style
	Title  lipgloss.Style
	Dim    lipgloss.Style
	Mark   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	if !useColor(w) {
		plain := lipgloss.NewStyle()
		return styles{Header: plain, Title: plain, Dim: plain, Mark: plain}
	}
	return styles{
		Header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A3E635")),
		Title:  lipgloss.NewStyle().Bold(true),
		Dim:    lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		Mark:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FACC15")),
	}
}

// useColor reports whether w is a terminal and NO_COLOR is unset
func useColor(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
