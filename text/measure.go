package text

import (
	"sort"
	"sync"
	"unicode"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/bidi"

	"github.com/loomui/loom/dom"
	"github.com/loomui/loom/style"
)

// cacheLimit bounds the layout cache; past it the whole cache drops,
// which is simpler than an eviction order and fine for UI-sized churn.
const cacheLimit = 1024

// Measurer shapes and wraps text, implementing dom.TextMeasurer.
// Results are pure functions of the inputs and cached per
// (text, family, size, line height, wrap width).
//
// HarfbuzzShaper instances carry mutable buffers and are pooled;
// font.Face values are created per shape around the shared read-only
// font.Font, which is the cheap direction.
type Measurer struct {
	collection *Collection

	shapers sync.Pool

	mu    sync.Mutex
	cache map[layoutKey]*textLayout
}

// NewMeasurer builds a measurer over a font collection.
func NewMeasurer(c *Collection) *Measurer {
	return &Measurer{
		collection: c,
		shapers: sync.Pool{
			New: func() any { return &shaping.HarfbuzzShaper{} },
		},
		cache: make(map[layoutKey]*textLayout),
	}
}

var _ dom.TextMeasurer = (*Measurer)(nil)

type layoutKey struct {
	text       string
	family     string
	size       float32
	lineHeight float32
	maxWidth   float32
}

// span is one cluster's horizontal extent within a line, line-relative.
type span struct {
	start int
	end   int
	x0    float32
	x1    float32
}

// line is a wrapped line covering the rune range [start, end). The
// newline that terminated a paragraph sits at end, outside the range.
type line struct {
	start int
	end   int
	width float32
	y     float32
	spans []span
}

type textLayout struct {
	lines      []line
	size       dom.Size
	lineHeight float32
}

// MeasureText returns the size of content wrapped to maxWidth.
func (m *Measurer) MeasureText(content string, st *style.Style, maxWidth float32) dom.Size {
	return m.layout(content, st, maxWidth).size
}

// CaretIndex maps a local point to the nearest rune boundary. Points
// above the first line clamp to its start, points below the last line
// to its end; within a line the nearest cluster edge wins.
func (m *Measurer) CaretIndex(content string, st *style.Style, maxWidth float32, local dom.Point) int {
	l := m.layout(content, st, maxWidth)
	if len(l.lines) == 0 {
		return 0
	}
	idx := 0
	if l.lineHeight > 0 {
		idx = int(local.Y / l.lineHeight)
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(l.lines) {
		idx = len(l.lines) - 1
	}
	ln := l.lines[idx]

	if local.X <= 0 || len(ln.spans) == 0 {
		return ln.start
	}
	for _, sp := range ln.spans {
		if local.X < (sp.x0+sp.x1)/2 {
			return sp.start
		}
		if local.X < sp.x1 {
			return sp.end
		}
	}
	return ln.end
}

// CaretRect returns the caret box before the rune at index, local to
// the text origin. Offsets inside a multi-rune cluster interpolate.
func (m *Measurer) CaretRect(content string, st *style.Style, maxWidth float32, index int) dom.Rect {
	l := m.layout(content, st, maxWidth)
	if len(l.lines) == 0 {
		return dom.Rect{Width: 1, Height: l.lineHeight}
	}
	ln := l.lines[len(l.lines)-1]
	for _, cand := range l.lines {
		if index >= cand.start && index <= cand.end {
			ln = cand
			break
		}
	}

	x := float32(0)
	for _, sp := range ln.spans {
		if index >= sp.end {
			x = sp.x1
			continue
		}
		if index <= sp.start {
			x = sp.x0
		} else if sp.end > sp.start {
			frac := float32(index-sp.start) / float32(sp.end-sp.start)
			x = sp.x0 + (sp.x1-sp.x0)*frac
		}
		break
	}
	return dom.Rect{X: x, Y: ln.y, Width: 1, Height: l.lineHeight}
}

// layout returns the cached wrap of content, computing it on miss.
func (m *Measurer) layout(content string, st *style.Style, maxWidth float32) *textLayout {
	family, size, lh := styleParams(st)
	key := layoutKey{text: content, family: family, size: size, lineHeight: lh, maxWidth: maxWidth}

	m.mu.Lock()
	if cached, ok := m.cache[key]; ok {
		m.mu.Unlock()
		return cached
	}
	m.mu.Unlock()

	l := m.computeLayout(content, family, size, lh, maxWidth)

	m.mu.Lock()
	if len(m.cache) >= cacheLimit {
		m.cache = make(map[layoutKey]*textLayout)
	}
	m.cache[key] = l
	m.mu.Unlock()
	return l
}

func styleParams(st *style.Style) (family string, size, lineHeight float32) {
	size = 14
	lineHeight = 1.2
	if st != nil {
		family = st.FontFamily
		if st.FontSize > 0 {
			size = st.FontSize
		}
		if st.LineHeight > 0 {
			lineHeight = st.LineHeight
		}
	}
	return family, size, lineHeight
}

func (m *Measurer) computeLayout(content string, family string, size, lineHeightMul, maxWidth float32) *textLayout {
	runes := []rune(content)
	f := m.collection.lookup(family)

	var (
		ascent, descent, gap float32
		haveMetrics          bool
	)

	l := &textLayout{}

	paraStart := 0
	for i := 0; i <= len(runes); i++ {
		if i < len(runes) && runes[i] != '\n' {
			continue
		}
		para := runes[paraStart:i]
		clusters, a, d, g := m.shapeParagraph(para, paraStart, f, size)
		if len(para) > 0 && !haveMetrics {
			ascent, descent, gap = a, d, g
			haveMetrics = true
		}
		l.lines = append(l.lines, wrapClusters(clusters, runes, paraStart, paraStart+len(para), maxWidth)...)
		paraStart = i + 1
	}

	if !haveMetrics {
		ascent, descent, gap = approxMetrics(size)
	}
	natural := ascent + descent + gap
	l.lineHeight = natural * lineHeightMul

	var maxW float32
	for i := range l.lines {
		l.lines[i].y = float32(i) * l.lineHeight
		if l.lines[i].width > maxW {
			maxW = l.lines[i].width
		}
	}
	l.size = dom.Size{Width: maxW, Height: float32(len(l.lines)) * l.lineHeight}
	if content == "" {
		l.size = dom.Size{}
	}
	return l
}

// shapeParagraph shapes one paragraph and returns its clusters in
// visual order with x positions accumulated across the paragraph,
// plus the font's line metrics at this size. Rune offsets in the
// returned clusters are content-absolute.
func (m *Measurer) shapeParagraph(para []rune, base int, f *font.Font, size float32) (clusters []span, ascent, descent, gap float32) {
	if len(para) == 0 {
		return nil, 0, 0, 0
	}
	if f == nil {
		return approxShape(para, base, size)
	}

	input := shaping.Input{
		Text:      para,
		RunStart:  0,
		RunEnd:    len(para),
		Direction: baseDirection(para),
		Face:      font.NewFace(f),
		Size:      fixed.Int26_6(size * 64),
		Script:    detectScript(para),
		Language:  language.NewLanguage("en"),
	}

	shaper := m.shapers.Get().(*shaping.HarfbuzzShaper)
	out := shaper.Shape(input)
	m.shapers.Put(shaper)

	ascent = fixedToFloat(out.LineBounds.Ascent)
	descent = fixedToFloat(out.LineBounds.Descent)
	if descent < 0 {
		descent = -descent
	}
	gap = fixedToFloat(out.LineBounds.Gap)

	// Group glyphs into clusters by text index, accumulating the pen.
	var x float32
	for _, g := range out.Glyphs {
		idx := base + g.TextIndex()
		adv := fixedToFloat(g.Advance)
		if n := len(clusters); n > 0 && clusters[n-1].start == idx {
			clusters[n-1].x1 += adv
		} else {
			clusters = append(clusters, span{start: idx, x0: x, x1: x + adv})
		}
		x += adv
	}

	// Cluster rune ranges end where the next logical cluster begins.
	starts := make([]int, len(clusters))
	for i, c := range clusters {
		starts[i] = c.start
	}
	sort.Ints(starts)
	next := make(map[int]int, len(starts))
	for i, s := range starts {
		if i+1 < len(starts) {
			next[s] = starts[i+1]
		} else {
			next[s] = base + len(para)
		}
	}
	for i := range clusters {
		clusters[i].end = next[clusters[i].start]
	}
	return clusters, ascent, descent, gap
}

// approxShape stands in when no font is loaded: every rune advances a
// fixed fraction of the size. Keeps measurement deterministic instead
// of failing.
func approxShape(para []rune, base int, size float32) (clusters []span, ascent, descent, gap float32) {
	adv := size * 0.6
	var x float32
	for i := range para {
		clusters = append(clusters, span{start: base + i, end: base + i + 1, x0: x, x1: x + adv})
		x += adv
	}
	ascent, descent, gap = approxMetrics(size)
	return clusters, ascent, descent, gap
}

func approxMetrics(size float32) (ascent, descent, gap float32) {
	return size * 0.8, size * 0.2, 0
}

// wrapClusters greedily packs clusters into lines no wider than
// maxWidth, breaking after whitespace when possible and mid-word when
// a single word exceeds the line. Wrap decisions run in logical order;
// each line's spans come out shifted to line-relative x and sorted
// visually.
func wrapClusters(clusters []span, runes []rune, paraStart, paraEnd int, maxWidth float32) []line {
	if len(clusters) == 0 {
		return []line{{start: paraStart, end: paraEnd}}
	}

	logical := append([]span(nil), clusters...)
	sort.Slice(logical, func(i, j int) bool { return logical[i].start < logical[j].start })

	var lines []line
	lineStart := 0
	lastBreak := -1
	var width float32

	flush := func(endIdx int) {
		lines = append(lines, buildLine(logical[lineStart:endIdx]))
		lineStart = endIdx
		lastBreak = -1
		width = 0
	}

	for i := 0; i < len(logical); i++ {
		w := logical[i].x1 - logical[i].x0
		if maxWidth > 0 && width > 0 && width+w > maxWidth {
			breakAt := i
			if lastBreak >= lineStart {
				breakAt = lastBreak + 1
			}
			flush(breakAt)
			i = breakAt - 1
			continue
		}
		width += w
		if clusterHasSpace(logical[i], runes) {
			lastBreak = i
		}
	}
	if lineStart < len(logical) {
		flush(len(logical))
	}
	lines[len(lines)-1].end = paraEnd
	return lines
}

// buildLine assembles a line from a logical run of clusters.
func buildLine(part []span) line {
	ln := line{start: part[0].start, end: part[0].end}
	minX, maxX := part[0].x0, part[0].x1
	for _, sp := range part {
		if sp.start < ln.start {
			ln.start = sp.start
		}
		if sp.end > ln.end {
			ln.end = sp.end
		}
		if sp.x0 < minX {
			minX = sp.x0
		}
		if sp.x1 > maxX {
			maxX = sp.x1
		}
	}
	spans := append([]span(nil), part...)
	for i := range spans {
		spans[i].x0 -= minX
		spans[i].x1 -= minX
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].x0 < spans[j].x0 })
	ln.spans = spans
	ln.width = maxX - minX
	return ln
}

func clusterHasSpace(sp span, runes []rune) bool {
	for i := sp.start; i < sp.end && i < len(runes); i++ {
		if unicode.IsSpace(runes[i]) {
			return true
		}
	}
	return false
}

// baseDirection resolves the paragraph's base direction from its
// first strong directional rune; shaping needs it for run ordering.
func baseDirection(para []rune) di.Direction {
	for _, r := range para {
		props, _ := bidi.LookupRune(r)
		switch props.Class() {
		case bidi.L:
			return di.DirectionLTR
		case bidi.R, bidi.AL:
			return di.DirectionRTL
		}
	}
	return di.DirectionLTR
}

// detectScript picks the script of the first non-space rune. Mixed
// scripts shape with the dominant one; splitting runs per script is
// not worth it for UI strings.
func detectScript(para []rune) language.Script {
	for _, r := range para {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}

func fixedToFloat(v fixed.Int26_6) float32 { return float32(v) / 64 }
