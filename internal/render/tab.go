package render

// DefaultTabWidth is the number of columns a tab occupies on screen.
const DefaultTabWidth = 3

// TabExpander expands tabs to a fixed number of spaces.
// Unlike tab stops, every tab has the same width wherever it appears.
type TabExpander struct {
	tabWidth int
}

// NewTabExpander creates a tab expander with the given tab width.
func NewTabExpander(tabWidth int) *TabExpander {
	if tabWidth < 1 {
		tabWidth = DefaultTabWidth
	}
	return &TabExpander{tabWidth: tabWidth}
}

// TabWidth returns the current tab width.
func (t *TabExpander) TabWidth() int {
	return t.tabWidth
}

// ExpandedWidth returns the number of columns line occupies once expanded.
func (t *TabExpander) ExpandedWidth(line []byte) int {
	col := 0
	for _, c := range line {
		if c == '\t' {
			col += t.tabWidth
		} else {
			col++
		}
	}
	return col
}

// Expand returns line with every tab replaced by TabWidth spaces.
func (t *TabExpander) Expand(line []byte) []byte {
	out := make([]byte, 0, len(line)+t.tabWidth)
	for _, c := range line {
		if c != '\t' {
			out = append(out, c)
			continue
		}
		for i := 0; i < t.tabWidth; i++ {
			out = append(out, ' ')
		}
	}
	return out
}

// OffsetToColumn converts a byte index in line to its on-screen column,
// counting the extra columns of every tab before it.
// Offsets past the end are clamped to the end of the line.
func (t *TabExpander) OffsetToColumn(line []byte, offset int) int {
	offset = max(min(offset, len(line)), 0)
	return t.ExpandedWidth(line[:offset])
}
