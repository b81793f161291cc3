package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sargam/instrument"
	"sargam/notes"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("13")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 2)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2)

	titleStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
	noteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	recordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	footerStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), true, false, false, false).
			Faint(true)
)

func render(s instrument.SessionContext, width int) string {
	var body string
	switch s.Mode {
	case instrument.ModeMenu:
		body = renderMenu()
	case instrument.ModeLivePlay:
		body = renderLivePlay(s)
	case instrument.ModeRecording:
		body = renderRecording(s)
	case instrument.ModePlayback:
		body = renderPlayback(s)
	case instrument.ModeSelectRecording:
		body = renderSelect(s)
	}

	header := headerStyle.Render("sargam — a keyboard instrument")
	footer := footerStyle.Render("Status: " + s.Status)

	out := lipgloss.JoinVertical(lipgloss.Left, header, panelStyle.Render(body), footer)
	if width > 0 {
		out = lipgloss.NewStyle().MaxWidth(width).Render(out)
	}
	return out + "\n"
}

func renderMenu() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Main Menu") + "\n\n")
	b.WriteString("1. Live Play Mode\n")
	b.WriteString("2. Record a Session\n")
	b.WriteString("3. Play Last Recording\n")
	b.WriteString("4. Save Recording\n")
	b.WriteString("5. Load & Play Recording\n")
	b.WriteString("6. Exit\n\n")
	b.WriteString(dimStyle.Render("Press the corresponding number key to select an option."))
	return b.String()
}

func renderLivePlay(s instrument.SessionContext) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Live Play") + "\n\n")
	b.WriteString("Press keys to play notes:\n\n")
	b.WriteString(renderKeyTable())
	if s.LastNote != "" {
		b.WriteString("\nLast played: " + noteStyle.Render(displayNote(s.LastNote)) + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("Press ESC to return to menu"))
	return b.String()
}

func renderRecording(s instrument.SessionContext) string {
	var b strings.Builder
	b.WriteString(recordStyle.Render("● Recording") + "\n\n")
	b.WriteString("Recording in progress... play notes on the keyboard.\n\n")
	b.WriteString(renderKeyTable())
	if s.LastNote != "" {
		b.WriteString("\nLast recorded: " + noteStyle.Render(displayNote(s.LastNote)) + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("SPACE stops recording, ESC cancels"))
	return b.String()
}

func renderPlayback(s instrument.SessionContext) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("▶ Playback") + "\n\n")
	b.WriteString("Playing back recorded session...\n")
	if s.LastNote != "" {
		b.WriteString("\nCurrently playing: " + noteStyle.Render(displayNote(s.LastNote)) + "\n")
	}
	b.WriteString("\n" + dimStyle.Render("Press ESC to return to menu"))
	return b.String()
}

func renderSelect(s instrument.SessionContext) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Select Recording") + "\n\n")
	if len(s.Recordings) == 0 {
		b.WriteString("No recordings found.\n")
	} else {
		for i, name := range s.Recordings {
			b.WriteString(fmt.Sprintf("%d. %s\n", i+1, name))
		}
		b.WriteString(fmt.Sprintf("\nPress 1-%d to select a recording\n", len(s.Recordings)))
	}
	b.WriteString("\n" + dimStyle.Render("Press ESC to return to menu"))
	return b.String()
}

// renderKeyTable lists the key → note bindings from the catalog.
func renderKeyTable() string {
	var b strings.Builder
	b.WriteString(dimStyle.Render(fmt.Sprintf("  %-6s %-10s %s", "Key", "Note", "Sargam")) + "\n")
	for _, n := range notes.Catalog {
		b.WriteString(fmt.Sprintf("  %-6s %-10s %s\n",
			strings.ToUpper(n.Key), n.ID, n.Display))
	}
	return b.String()
}

func displayNote(id string) string {
	if n, ok := notes.ByID(id); ok {
		return fmt.Sprintf("%s (%s)", n.Display, n.ID)
	}
	return id
}
