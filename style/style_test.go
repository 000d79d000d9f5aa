package style

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestDimUnmarshalYAML(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Dim
		wantErr bool
	}{
		{name: "auto", input: `"auto"`, want: Auto},
		{name: "integer pixels", input: `120`, want: Px(120)},
		{name: "float pixels", input: `12.5`, want: Px(12.5)},
		{name: "percent", input: `"50%"`, want: Percent(50)},
		{name: "quoted pixels", input: `"64"`, want: Px(64)},
		{name: "garbage", input: `"wide"`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Dim
			err := yaml.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", d)
				}
				return
			}
			if err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if d != tt.want {
				t.Errorf("got %+v, want %+v", d, tt.want)
			}
		})
	}
}

func TestDimResolve(t *testing.T) {
	tests := []struct {
		name     string
		dim      Dim
		parent   float32
		fallback float32
		want     float32
	}{
		{name: "auto uses fallback", dim: Auto, parent: 400, fallback: 25, want: 25},
		{name: "px ignores parent", dim: Px(80), parent: 400, fallback: 25, want: 80},
		{name: "percent of parent", dim: Percent(50), parent: 400, fallback: 25, want: 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dim.Resolve(tt.parent, tt.fallback); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEdgesUnmarshalYAML(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Edges
		wantErr bool
	}{
		{name: "scalar", input: `8`, want: Uniform(8)},
		{name: "vertical horizontal", input: `[4, 12]`, want: Edges{4, 12, 4, 12}},
		{name: "four sides", input: `[1, 2, 3, 4]`, want: Edges{1, 2, 3, 4}},
		{name: "three values", input: `[1, 2, 3]`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e Edges
			err := yaml.Unmarshal([]byte(tt.input), &e)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", e)
				}
				return
			}
			if err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if e != tt.want {
				t.Errorf("got %+v, want %+v", e, tt.want)
			}
		})
	}
}

func TestEdgesSums(t *testing.T) {
	e := Edges{1, 2, 3, 4}
	if got := e.Vertical(); got != 4 {
		t.Errorf("Vertical() = %v, want 4", got)
	}
	if got := e.Horizontal(); got != 6 {
		t.Errorf("Horizontal() = %v, want 6", got)
	}
}

func TestColorUnmarshalYAML(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Color
		wantErr bool
	}{
		{name: "short hex", input: `"#f0a"`, want: 0xFF00AAFF},
		{name: "hex rgb", input: `"#11223344"`, want: 0x11223344},
		{name: "hex rgb opaque", input: `"#102030"`, want: 0x102030FF},
		{name: "integer", input: `0x11223344`, want: 0x11223344},
		{name: "bad length", input: `"#12345"`, wantErr: true},
		{name: "bad digits", input: `"#zzzzzz"`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Color
			err := yaml.Unmarshal([]byte(tt.input), &c)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %08x", uint32(c))
				}
				return
			}
			if err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if c != tt.want {
				t.Errorf("got %08x, want %08x", uint32(c), uint32(tt.want))
			}
		})
	}
}

func TestColorRGBA(t *testing.T) {
	r, g, b, a := Color(0x11223344).RGBA()
	if r != 0x11 || g != 0x22 || b != 0x33 || a != 0x44 {
		t.Errorf("got (%02x %02x %02x %02x)", r, g, b, a)
	}
}

func TestPartialApplyTo(t *testing.T) {
	w := Px(100)
	gap := float32(6)
	p := Partial{Width: &w, Gap: &gap}

	st := Default()
	p.ApplyTo(&st)

	if st.Width != Px(100) {
		t.Errorf("Width = %+v, want %+v", st.Width, Px(100))
	}
	if st.Gap != 6 {
		t.Errorf("Gap = %v, want 6", st.Gap)
	}
	// Untouched fields keep defaults.
	if st.FontSize != 14 {
		t.Errorf("FontSize = %v, want 14", st.FontSize)
	}
	if st.Opacity != 1 {
		t.Errorf("Opacity = %v, want 1", st.Opacity)
	}
}

const testSheet = `
classes:
  card:
    width: 200
    padding: 8
    background-color: "#202830"
    hover:
      background-color: "#2a3440"
    press:
      background-color: "#101418"
  title:
    font-size: 22
    text-color: "#e8e8e8"
  wide:
    width: "80%"
`

func TestSheetResolve(t *testing.T) {
	sheet, err := ParseSheet([]byte(testSheet))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	t.Run("single class", func(t *testing.T) {
		st := sheet.Resolve("card", 0)
		if st.Width != Px(200) {
			t.Errorf("Width = %+v", st.Width)
		}
		if st.Padding != Uniform(8) {
			t.Errorf("Padding = %+v", st.Padding)
		}
		if st.BackgroundColor != 0x202830FF {
			t.Errorf("BackgroundColor = %08x", uint32(st.BackgroundColor))
		}
	})

	t.Run("later class wins", func(t *testing.T) {
		st := sheet.Resolve("card wide", 0)
		if st.Width != Percent(80) {
			t.Errorf("Width = %+v, want 80%%", st.Width)
		}
		// Non-conflicting properties survive from the earlier class.
		if st.Padding != Uniform(8) {
			t.Errorf("Padding = %+v", st.Padding)
		}
	})

	t.Run("unknown class ignored", func(t *testing.T) {
		st := sheet.Resolve("nope title", 0)
		if st.FontSize != 22 {
			t.Errorf("FontSize = %v, want 22", st.FontSize)
		}
	})

	t.Run("empty class is default", func(t *testing.T) {
		st := sheet.Resolve("", 0)
		def := Default()
		if *st != def {
			t.Errorf("got %+v, want default", *st)
		}
	})
}

func TestSheetResolveStates(t *testing.T) {
	sheet, err := ParseSheet([]byte(testSheet))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	base := sheet.Resolve("card", 0)
	hover := sheet.Resolve("card", StateHover)
	press := sheet.Resolve("card", StateHover|StatePress)

	if hover.BackgroundColor == base.BackgroundColor {
		t.Error("hover variant did not apply")
	}
	if hover.BackgroundColor != 0x2A3440FF {
		t.Errorf("hover background = %08x", uint32(hover.BackgroundColor))
	}
	// Press layers after hover, so its background wins.
	if press.BackgroundColor != 0x101418FF {
		t.Errorf("press background = %08x", uint32(press.BackgroundColor))
	}
	// Variant never disturbs unrelated fields.
	if hover.Width != base.Width {
		t.Errorf("hover width changed: %+v vs %+v", hover.Width, base.Width)
	}
}

func TestSheetResolveCached(t *testing.T) {
	sheet, err := ParseSheet([]byte(testSheet))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	a := sheet.Resolve("card title", StateHover)
	b := sheet.Resolve("card title", StateHover)
	if a != b {
		t.Error("expected cached pointer for identical key")
	}
	c := sheet.Resolve("card title", 0)
	if a == c {
		t.Error("distinct states must not share a cache entry")
	}
}

func TestSheetDefineInvalidatesCache(t *testing.T) {
	sheet := NewSheet()
	w := Px(10)
	sheet.Define("box", Class{Base: Partial{Width: &w}})

	first := sheet.Resolve("box", 0)
	if first.Width != Px(10) {
		t.Fatalf("Width = %+v", first.Width)
	}

	w2 := Px(40)
	sheet.Define("box", Class{Base: Partial{Width: &w2}})
	second := sheet.Resolve("box", 0)
	if second.Width != Px(40) {
		t.Errorf("Width after redefine = %+v, want 40px", second.Width)
	}
}

func TestParseSheetErrors(t *testing.T) {
	if _, err := ParseSheet([]byte("classes: [not, a, map]")); err == nil {
		t.Error("expected error for malformed sheet")
	}
	if _, err := ParseSheet([]byte("classes:\n  bad:\n    width: {}")); err == nil {
		t.Error("expected error for malformed dimension")
	}
}
