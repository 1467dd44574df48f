package render

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/sled/internal/editor"
)

func TestTabExpander_DefaultWidth(t *testing.T) {
	require.Equal(t, DefaultTabWidth, NewTabExpander(0).TabWidth())
	require.Equal(t, DefaultTabWidth, NewTabExpander(-4).TabWidth())
	require.Equal(t, 8, NewTabExpander(8).TabWidth())
}

func TestTabExpander_Expand(t *testing.T) {
	tests := []struct {
		name  string
		width int
		line  string
		want  string
	}{
		{name: "no tabs", width: 3, line: "abc", want: "abc"},
		{name: "single tab", width: 3, line: "a\tb", want: "a   b"},
		{name: "leading tab", width: 2, line: "\tx", want: "  x"},
		{name: "adjacent tabs", width: 3, line: "\t\t", want: "      "},
		{name: "empty", width: 3, line: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			te := NewTabExpander(tt.width)
			require.Equal(t, tt.want, string(te.Expand([]byte(tt.line))))
			require.Equal(t, len(tt.want), te.ExpandedWidth([]byte(tt.line)))
		})
	}
}

func TestTabExpander_OffsetToColumn(t *testing.T) {
	te := NewTabExpander(3)
	line := []byte("a\tb")

	tests := []struct {
		offset int
		want   int
	}{
		{offset: 0, want: 0},
		{offset: 1, want: 1},
		{offset: 2, want: 4},
		{offset: 3, want: 5},
		{offset: 10, want: 5},
		{offset: -1, want: 0},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, te.OffsetToColumn(line, tt.offset), "offset %d", tt.offset)
	}
}

func TestRenderer_CursorColumn(t *testing.T) {
	r := New(3)
	require.Equal(t, 8, r.CursorColumn(editor.ModeNavigation, []byte("a\tb"), 3))
	require.Equal(t, 3, r.CursorColumn(editor.ModeEdit, []byte("abc"), 0))
}

func TestRenderer_Frame(t *testing.T) {
	r := New(3)

	got := r.Frame(editor.ModeEdit, []byte("a\tb"), 2)

	want := "\r" + ansi.EraseEntireLine + "[E]a   b\r" + ansi.CursorHorizontalAbsolute(8)
	require.Equal(t, want, got)
	require.Equal(t, "\r\x1b[2K[E]a   b\r\x1b[8G", got)
}

func TestRenderer_FrameEmptyLine(t *testing.T) {
	r := New(3)
	got := r.Frame(editor.ModeAppend, nil, 0)
	require.Equal(t, "\r\x1b[2K[A]\r\x1b[4G", got)
}

// colorRenderer returns a renderer whose output always supports ANSI colour.
func colorRenderer(t *testing.T, opts ...Option) *Renderer {
	t.Helper()
	r := New(3, append(opts, WithOutput(io.Discard))...)
	r.lg.SetColorProfile(termenv.ANSI)
	return r
}

func TestRenderer_ColorEmitsSGR(t *testing.T) {
	got := colorRenderer(t, WithColor(true)).Frame(editor.ModeEdit, []byte("ab"), 1)

	require.Contains(t, got, "\x1b[1;33m[E]", "bold yellow indicator")
	require.True(t, strings.HasSuffix(got, "ab\r\x1b[5G"), "frame %q", got)
}

func TestRenderer_ColorDisabledIgnoresProfile(t *testing.T) {
	got := colorRenderer(t).Frame(editor.ModeEdit, []byte("ab"), 1)
	require.Equal(t, "\r\x1b[2K[E]ab\r\x1b[5G", got)
}

func TestRenderer_ColorKeepsCursorColumn(t *testing.T) {
	plain := New(3)
	colored := colorRenderer(t, WithColor(true))

	for _, mode := range []editor.Mode{editor.ModeNavigation, editor.ModeEdit, editor.ModeAppend} {
		require.Equal(t,
			plain.CursorColumn(mode, []byte("x\ty"), 2),
			colored.CursorColumn(mode, []byte("x\ty"), 2),
			"mode %s", mode)
	}
}

func TestRenderer_Draw(t *testing.T) {
	var buf bytes.Buffer
	r := New(4)

	require.NoError(t, r.Draw(&buf, editor.ModeNavigation, []byte("hi"), 1))
	require.Equal(t, r.Frame(editor.ModeNavigation, []byte("hi"), 1), buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed")
}

func TestRenderer_DrawError(t *testing.T) {
	r := New(3)
	err := r.Draw(failingWriter{}, editor.ModeEdit, []byte("x"), 0)
	require.ErrorContains(t, err, "drawing line")

	err = r.Clear(failingWriter{})
	require.ErrorContains(t, err, "clearing line")
}

func TestRenderer_Clear(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(3).Clear(&buf))
	require.Equal(t, "\r\x1b[2K", buf.String())
}

// TestProperty_CursorColumnMonotonic verifies moving the cursor right never
// moves the screen column left.
func TestProperty_CursorColumnMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		width := rapid.IntRange(1, 8).Draw(t, "width")
		line := []byte(rapid.StringMatching(`[a-c\t]{0,12}`).Draw(t, "line"))
		r := New(width)

		prev := r.CursorColumn(editor.ModeEdit, line, 0)
		require.Equal(t, 3, prev)
		for i := 1; i <= len(line); i++ {
			col := r.CursorColumn(editor.ModeEdit, line, i)
			step := 1
			if line[i-1] == '\t' {
				step = width
			}
			require.Equal(t, prev+step, col)
			prev = col
		}
	})
}
