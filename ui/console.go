// Package ui renders terminal output and owns the interactive confirmation
// prompt. Color is gated on stdout being a terminal.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	boldStyle    = lipgloss.NewStyle().Bold(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("51"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

const separatorWidth = 60

// Console writes styled output to a terminal, or plain text when the output
// is not a terminal.
type Console struct {
	out   io.Writer
	color bool
}

// NewConsole builds a console on stdout.
func NewConsole() *Console {
	return &Console{
		out:   os.Stdout,
		color: term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// NewConsoleWriter builds a console on an arbitrary writer, without color.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

func (c *Console) render(style lipgloss.Style, text string) string {
	if !c.color {
		return text
	}
	return style.Render(text)
}

// Print writes a plain line.
func (c *Console) Print(text string) {
	fmt.Fprintln(c.out, text)
}

// Printf writes a plain formatted line.
func (c *Console) Printf(format string, v ...any) {
	fmt.Fprintf(c.out, format+"\n", v...)
}

// Success writes a success line.
func (c *Console) Success(text string) {
	fmt.Fprintln(c.out, c.render(successStyle, "[ok] "+text))
}

// Error writes an error line.
func (c *Console) Error(text string) {
	fmt.Fprintln(c.out, c.render(errorStyle, "[error] "+text))
}

// Warning writes a warning line.
func (c *Console) Warning(text string) {
	fmt.Fprintln(c.out, c.render(warnStyle, "[warn] "+text))
}

// Info writes an informational line.
func (c *Console) Info(text string) {
	fmt.Fprintln(c.out, c.render(infoStyle, text))
}

// Bold writes an emphasized line.
func (c *Console) Bold(text string) {
	fmt.Fprintln(c.out, c.render(boldStyle, text))
}

// Dim writes a de-emphasized line.
func (c *Console) Dim(text string) {
	fmt.Fprintln(c.out, c.render(dimStyle, text))
}

// Separator writes a horizontal rule.
func (c *Console) Separator() {
	fmt.Fprintln(c.out, c.render(dimStyle, strings.Repeat("=", separatorWidth)))
}

// Header writes a titled section divider.
func (c *Console) Header(title string) {
	c.Separator()
	fmt.Fprintln(c.out, c.render(headerStyle, title))
	c.Separator()
}

// Logo writes the startup banner.
func (c *Console) Logo(version string) {
	banner := `  ___  ___  ___   _   _  _____
 / __|/ _ \| _ ) /_\ | ||_   _|
| (__| (_) | _ \/ _ \| |__| |
 \___|\___/|___/_/ \_\____|_|`
	fmt.Fprintln(c.out, c.render(headerStyle, banner))
	c.Dim("local coding agent " + version)
	fmt.Fprintln(c.out)
}

// truncateValue shortens long parameter values for display.
func truncateValue(value string, max int) string {
	if len(value) <= max {
		return value
	}
	return fmt.Sprintf("%s... (%d chars)", value[:max], len(value))
}
