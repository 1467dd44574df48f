// Package render draws the edited line on the terminal.
//
// Every frame rewrites the whole line: carriage return, erase line, mode
// indicator, tab-expanded text, then an absolute move to the cursor column.
// There is no diffing against the previous frame.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/sled/internal/editor"
	"github.com/zjrosen/sled/internal/log"
)

// indicatorStyles colour the mode indicator when colour output is enabled.
type indicatorStyles struct {
	navigation lipgloss.Style
	edit       lipgloss.Style
	append     lipgloss.Style
}

func newIndicatorStyles(lr *lipgloss.Renderer) indicatorStyles {
	return indicatorStyles{
		navigation: lr.NewStyle().Foreground(lipgloss.Color("8")),
		edit:       lr.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		append:     lr.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
	}
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithColor enables a coloured mode indicator.
func WithColor(enabled bool) Option {
	return func(r *Renderer) {
		r.color = enabled
	}
}

// WithOutput sets the writer frames are drawn on. Colour support is detected
// from it rather than from stdout, which usually carries the edited text.
func WithOutput(w io.Writer) Option {
	return func(r *Renderer) {
		r.lg = lipgloss.NewRenderer(w)
	}
}

// Renderer converts editor state into terminal updates.
type Renderer struct {
	tabs   *TabExpander
	color  bool
	lg     *lipgloss.Renderer
	styles indicatorStyles
}

// New creates a renderer expanding tabs to tabWidth spaces.
func New(tabWidth int, opts ...Option) *Renderer {
	r := &Renderer{tabs: NewTabExpander(tabWidth)}
	for _, opt := range opts {
		opt(r)
	}
	if r.lg == nil {
		r.lg = lipgloss.DefaultRenderer()
	}
	r.styles = newIndicatorStyles(r.lg)
	return r
}

// TabWidth returns the tab expansion width.
func (r *Renderer) TabWidth() int {
	return r.tabs.TabWidth()
}

// indicator returns the mode prefix as written to the terminal.
func (r *Renderer) indicator(mode editor.Mode) string {
	s := mode.Indicator()
	if !r.color {
		return s
	}
	switch mode {
	case editor.ModeEdit:
		return r.styles.edit.Render(s)
	case editor.ModeAppend:
		return r.styles.append.Render(s)
	default:
		return r.styles.navigation.Render(s)
	}
}

// CursorColumn returns the 0-based screen column of the logical cursor:
// the indicator width plus the expanded width of everything before the cursor.
func (r *Renderer) CursorColumn(mode editor.Mode, line []byte, cursor int) int {
	return ansi.StringWidth(r.indicator(mode)) + r.tabs.OffsetToColumn(line, cursor)
}

// Frame builds the complete escape sequence that redraws the line.
func (r *Renderer) Frame(mode editor.Mode, line []byte, cursor int) string {
	var sb strings.Builder
	sb.WriteByte('\r')
	sb.WriteString(ansi.EraseEntireLine)
	sb.WriteString(r.indicator(mode))
	sb.Write(r.tabs.Expand(line))
	sb.WriteByte('\r')
	sb.WriteString(ansi.CursorHorizontalAbsolute(r.CursorColumn(mode, line, cursor) + 1))
	return sb.String()
}

// Draw writes a frame to w. It implements editor.Drawer.
func (r *Renderer) Draw(w io.Writer, mode editor.Mode, line []byte, cursor int) error {
	frame := r.Frame(mode, line, cursor)
	if _, err := io.WriteString(w, frame); err != nil {
		return fmt.Errorf("drawing line: %w", err)
	}
	log.Debug(log.CatRender, "Frame drawn", "mode", mode, "cursor", cursor, "bytes", len(frame))
	return nil
}

// Clear erases the edit line and leaves the terminal cursor in column 1.
func (r *Renderer) Clear(w io.Writer) error {
	if _, err := io.WriteString(w, "\r"+ansi.EraseEntireLine); err != nil {
		return fmt.Errorf("clearing line: %w", err)
	}
	return nil
}
