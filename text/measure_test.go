package text

import (
	"testing"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/language"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/loomui/loom/dom"
	"github.com/loomui/loom/style"
)

func regularMeasurer(t *testing.T) *Measurer {
	t.Helper()
	c := NewCollection()
	if err := c.Load("sans", goregular.TTF); err != nil {
		t.Fatalf("failed to load test font: %v", err)
	}
	return NewMeasurer(c)
}

// approxMeasurer has no fonts loaded, so every rune advances exactly
// 0.6 of the font size. That makes positions predictable.
func approxMeasurer() *Measurer {
	return NewMeasurer(NewCollection())
}

func approxStyle() *style.Style {
	st := style.Default()
	st.FontSize = 10
	return &st
}

func TestCollectionLoad(t *testing.T) {
	c := NewCollection()
	if err := c.Load("sans", goregular.TTF); err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	if c.lookup("sans") == nil {
		t.Error("lookup(sans) = nil, want font")
	}
	if c.lookup("unknown") == nil {
		t.Error("lookup(unknown) = nil, want fallback font")
	}

	if err := c.Load("bad", []byte("not a font")); err == nil {
		t.Error("Load(bad data) = nil, want error")
	}
	if err := c.LoadFile("missing", "testdata/nope.ttf"); err == nil {
		t.Error("LoadFile(missing path) = nil, want error")
	}
}

func TestMeasureTextEmpty(t *testing.T) {
	m := regularMeasurer(t)
	st := style.Default()
	size := m.MeasureText("", &st, 0)
	if size.Width != 0 || size.Height != 0 {
		t.Errorf("MeasureText(empty) = %+v, want zero size", size)
	}
}

func TestMeasureTextSingleLine(t *testing.T) {
	m := regularMeasurer(t)
	st := style.Default()

	hello := m.MeasureText("hello", &st, 0)
	if hello.Width <= 0 || hello.Height <= 0 {
		t.Fatalf("MeasureText(hello) = %+v, want positive size", hello)
	}
	longer := m.MeasureText("hello world", &st, 0)
	if longer.Width <= hello.Width {
		t.Errorf("longer text width = %v, want > %v", longer.Width, hello.Width)
	}
	if longer.Height != hello.Height {
		t.Errorf("single line heights differ: %v vs %v", longer.Height, hello.Height)
	}
}

func TestMeasureTextWraps(t *testing.T) {
	m := regularMeasurer(t)
	st := style.Default()
	text := "alpha beta gamma delta"

	one := m.MeasureText("alpha", &st, 0)
	unbounded := m.MeasureText(text, &st, 0)
	wrapped := m.MeasureText(text, &st, 60)

	if wrapped.Height <= one.Height {
		t.Errorf("wrapped height = %v, want > single line %v", wrapped.Height, one.Height)
	}
	if wrapped.Width >= unbounded.Width {
		t.Errorf("wrapped width = %v, want < unbounded %v", wrapped.Width, unbounded.Width)
	}
}

func TestMeasureTextWrapTilesRunes(t *testing.T) {
	m := regularMeasurer(t)
	st := style.Default()
	text := "alpha beta gamma"

	l := m.layout(text, &st, 50)
	if len(l.lines) < 2 {
		t.Fatalf("expected wrapping, got %d lines", len(l.lines))
	}
	if l.lines[0].start != 0 {
		t.Errorf("first line start = %d, want 0", l.lines[0].start)
	}
	last := l.lines[len(l.lines)-1]
	if last.end != len([]rune(text)) {
		t.Errorf("last line end = %d, want %d", last.end, len([]rune(text)))
	}
	for i := 1; i < len(l.lines); i++ {
		if l.lines[i].start != l.lines[i-1].end {
			t.Errorf("line %d starts at %d, previous ended at %d", i, l.lines[i].start, l.lines[i-1].end)
		}
	}
}

func TestMeasureTextNewlines(t *testing.T) {
	m := approxMeasurer()
	st := approxStyle()

	tests := []struct {
		name      string
		text      string
		wantLines int
		wantWidth float32
	}{
		{name: "three lines", text: "a\nb\nc", wantLines: 3, wantWidth: 6},
		{name: "trailing newline", text: "a\n", wantLines: 2, wantWidth: 6},
		{name: "blank middle", text: "a\n\nb", wantLines: 3, wantWidth: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			size := m.MeasureText(tt.text, st, 0)
			// Approx metrics at size 10 give a 12px line.
			wantH := float32(tt.wantLines) * 12
			if size.Height != wantH {
				t.Errorf("height = %v, want %v", size.Height, wantH)
			}
			if size.Width != tt.wantWidth {
				t.Errorf("width = %v, want %v", size.Width, tt.wantWidth)
			}
		})
	}
}

func TestCaretIndex(t *testing.T) {
	m := approxMeasurer()
	st := approxStyle()

	// Each rune is 6px wide, each line 12px tall.
	tests := []struct {
		name  string
		text  string
		point dom.Point
		want  int
	}{
		{name: "before start", text: "abcd", point: dom.Point{X: -1, Y: 5}, want: 0},
		{name: "first half of first rune", text: "abcd", point: dom.Point{X: 2, Y: 5}, want: 0},
		{name: "second half of first rune", text: "abcd", point: dom.Point{X: 4, Y: 5}, want: 1},
		{name: "inside second rune", text: "abcd", point: dom.Point{X: 7, Y: 5}, want: 1},
		{name: "past end", text: "abcd", point: dom.Point{X: 100, Y: 5}, want: 4},
		{name: "above clamps to first line", text: "ab\ncd", point: dom.Point{X: 1, Y: -20}, want: 0},
		{name: "second line", text: "ab\ncd", point: dom.Point{X: 1, Y: 18}, want: 3},
		{name: "below clamps to last line", text: "ab\ncd", point: dom.Point{X: 100, Y: 500}, want: 5},
		{name: "empty", text: "", point: dom.Point{X: 10, Y: 10}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.CaretIndex(tt.text, st, 0, tt.point)
			if got != tt.want {
				t.Errorf("CaretIndex(%q, %+v) = %d, want %d", tt.text, tt.point, got, tt.want)
			}
		})
	}
}

func TestCaretRect(t *testing.T) {
	m := approxMeasurer()
	st := approxStyle()

	tests := []struct {
		name  string
		text  string
		index int
		wantX float32
		wantY float32
	}{
		{name: "start", text: "abcd", index: 0, wantX: 0, wantY: 0},
		{name: "middle", text: "abcd", index: 2, wantX: 12, wantY: 0},
		{name: "end", text: "abcd", index: 4, wantX: 24, wantY: 0},
		{name: "second line", text: "ab\ncd", index: 4, wantX: 6, wantY: 12},
		{name: "line start after newline", text: "ab\ncd", index: 3, wantX: 0, wantY: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := m.CaretRect(tt.text, st, 0, tt.index)
			if r.X != tt.wantX || r.Y != tt.wantY {
				t.Errorf("CaretRect(%q, %d) = (%v, %v), want (%v, %v)", tt.text, tt.index, r.X, r.Y, tt.wantX, tt.wantY)
			}
			if r.Height != 12 {
				t.Errorf("caret height = %v, want 12", r.Height)
			}
		})
	}
}

func TestCaretRoundTrip(t *testing.T) {
	m := regularMeasurer(t)
	st := style.Default()
	text := "hello"

	for i := 0; i <= len(text); i++ {
		r := m.CaretRect(text, &st, 0, i)
		got := m.CaretIndex(text, &st, 0, dom.Point{X: r.X + 0.1, Y: r.Y + 1})
		if got != i {
			t.Errorf("round trip at %d: caret x %v maps back to %d", i, r.X, got)
		}
	}
}

func TestLayoutCached(t *testing.T) {
	m := regularMeasurer(t)
	st := style.Default()

	a := m.layout("cached", &st, 100)
	b := m.layout("cached", &st, 100)
	if a != b {
		t.Error("expected identical layout pointer on cache hit")
	}
	c := m.layout("cached", &st, 200)
	if a == c {
		t.Error("different wrap width should not share a cache entry")
	}
}

func TestBaseDirection(t *testing.T) {
	tests := []struct {
		name string
		text string
		want di.Direction
	}{
		{name: "latin", text: "hello", want: di.DirectionLTR},
		{name: "hebrew", text: "שלום", want: di.DirectionRTL},
		{name: "digits then hebrew", text: "123 שלום", want: di.DirectionRTL},
		{name: "latin then hebrew", text: "abc שלום", want: di.DirectionLTR},
		{name: "empty", text: "", want: di.DirectionLTR},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := baseDirection([]rune(tt.text)); got != tt.want {
				t.Errorf("baseDirection(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestDetectScript(t *testing.T) {
	if got := detectScript([]rune("  hello")); got != language.LookupScript('h') {
		t.Errorf("detectScript skipped to %v, want script of 'h'", got)
	}
	if got := detectScript([]rune("   ")); got != language.Latin {
		t.Errorf("detectScript(spaces) = %v, want Latin", got)
	}
}
