package view

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Result is the JSON shape printed by WriteJSON.
type Result struct {
	Title string       `json:"title"`
	Rows  []DisplayRow `json:"rows"`
}

// Renderer writes rows to a terminal. Colors are dropped automatically when
// the writer is not a TTY.
type Renderer struct {
	out     io.Writer
	title   lipgloss.Style
	heading lipgloss.Style
	high    lipgloss.Style
	normal  lipgloss.Style
	detail  lipgloss.Style
	failure lipgloss.Style
	divider lipgloss.Style
}

// NewRenderer creates a renderer bound to out.
func NewRenderer(out io.Writer) *Renderer {
	r := lipgloss.NewRenderer(out)
	return &Renderer{
		out:     out,
		title:   r.NewStyle().Bold(true),
		heading: r.NewStyle().Bold(true),
		high:    r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		normal:  r.NewStyle().Foreground(lipgloss.Color("4")),
		detail:  r.NewStyle().Faint(true),
		failure: r.NewStyle().Foreground(lipgloss.Color("1")),
		divider: r.NewStyle().Faint(true),
	}
}

// Rows renders a result list under its title.
func (r *Renderer) Rows(rows []DisplayRow, saveOnly bool) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(r.out, "No candidate commits found.")
		return err
	}

	var b strings.Builder
	b.WriteString(r.title.Render(Title(saveOnly)))
	b.WriteString("\n\n")
	for i, row := range rows {
		b.WriteString(r.heading.Render(row.Heading))
		if row.Badge != nil {
			b.WriteString("  ")
			b.WriteString(r.badgeStyle(row.Badge.Tier).Render("[" + row.Badge.Label + "]"))
		}
		b.WriteString("\n")
		if row.Body != "" {
			b.WriteString(indent(strings.TrimRight(row.Body, "\n")))
			b.WriteString("\n")
		}
		if row.Detail != "" {
			b.WriteString(r.detail.Render(indent(row.Detail)))
			b.WriteString("\n")
		}
		if i < len(rows)-1 {
			b.WriteString(r.divider.Render(strings.Repeat("─", 40)))
			b.WriteString("\n")
		}
	}
	_, err := io.WriteString(r.out, b.String())
	return err
}

// Failure renders a failure message.
func (r *Renderer) Failure(message string) error {
	_, err := fmt.Fprintln(r.out, r.failure.Render(message))
	return err
}

func (r *Renderer) badgeStyle(t Tier) lipgloss.Style {
	if t == TierHigh {
		return r.high
	}
	return r.normal
}

// WriteJSON writes rows as an indented JSON document.
func WriteJSON(out io.Writer, rows []DisplayRow, saveOnly bool) error {
	if rows == nil {
		rows = []DisplayRow{}
	}
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(Result{Title: Title(saveOnly), Rows: rows})
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n")
}
