package subcmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/sirupsen/logrus"
)

// Displayer writes dispatcher output to a stream.
type Displayer interface {
	// Display writes text as is. Used for the command listing.
	Display(w io.Writer, text string) error
	// DisplayHelp writes the long help of a single subcommand.
	DisplayHelp(w io.Writer, text string) error
	// DisplayError writes an error message, highlighted where the stream supports it.
	DisplayError(w io.Writer, text string) error
}

// ColorMode controls when ColorDisplay emits ANSI colors.
type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// ParseColorMode accepts "auto", "always" and "never". The empty string means auto.
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	}
	return ColorAuto, fmt.Errorf("subcmd: unknown color mode %q", s)
}

func (m ColorMode) String() string {
	switch m {
	case ColorAlways:
		return "always"
	case ColorNever:
		return "never"
	}
	return "auto"
}

// RawDisplay prints everything as plain text.
type RawDisplay struct{}

func (RawDisplay) Display(w io.Writer, text string) error {
	_, err := io.WriteString(w, text)
	return err
}

func (d RawDisplay) DisplayHelp(w io.Writer, text string) error { return d.Display(w, text) }

func (d RawDisplay) DisplayError(w io.Writer, text string) error { return d.Display(w, text) }

// ColorDisplay paints errors red. In ColorAuto mode the color profile is
// detected from the destination writer, so pipes and files get plain text.
type ColorDisplay struct {
	RawDisplay
	Mode ColorMode
}

func (c ColorDisplay) DisplayError(w io.Writer, text string) error {
	r := lipgloss.NewRenderer(w)
	switch c.Mode {
	case ColorAlways:
		r.SetColorProfile(termenv.ANSI)
	case ColorNever:
		r.SetColorProfile(termenv.Ascii)
	}
	style := r.NewStyle().Foreground(lipgloss.Color("9"))

	// Lines are styled one by one; lipgloss pads multi-line blocks to a common width.
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return c.RawDisplay.Display(w, strings.Join(lines, "\n"))
}

// GlamourDisplay renders subcommand help as Markdown and falls back to
// plain text when rendering fails. A leading "Usage:" line is written as is,
// since Markdown would swallow placeholders such as <file>.
type GlamourDisplay struct {
	ColorDisplay
	Logger logrus.FieldLogger
}

func (g GlamourDisplay) DisplayHelp(w io.Writer, text string) error {
	usage, body := splitUsage(text)
	if err := g.RawDisplay.Display(w, usage); err != nil {
		return err
	}
	if strings.TrimSpace(body) == "" {
		return g.RawDisplay.Display(w, body)
	}
	pretty, err := glamour.RenderWithEnvironmentConfig(body)
	if err != nil {
		if g.Logger != nil {
			g.Logger.WithError(err).Warn("glamour rendering failed, falling back to raw display")
		}
		return g.RawDisplay.Display(w, body)
	}
	return g.RawDisplay.Display(w, pretty)
}

func splitUsage(text string) (usage, body string) {
	if !strings.HasPrefix(text, "Usage:") {
		return "", text
	}
	i := strings.IndexByte(text, '\n')
	if i < 0 {
		return text + "\n", ""
	}
	return text[:i+1], text[i+1:]
}
