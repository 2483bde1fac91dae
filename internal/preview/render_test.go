package preview

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"testing"
)

type decoded struct{ image.Image }

func decode(t *testing.T, b []byte) decoded {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	return decoded{img}
}

func (d decoded) rgba(x, y int) color.RGBA {
	r, g, b, a := d.At(x, y).RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}

func TestRenderDimensions(t *testing.T) {
	b, err := Render(Params{Title: "Cuba Street", Subtitle: "Cafe - Te Aro", Kind: "place"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if cfg.Width != Width || cfg.Height != Height {
		t.Fatalf("expected %dx%d, got %dx%d", Width, Height, cfg.Width, cfg.Height)
	}
}

func TestRenderDeterministic(t *testing.T) {
	p := Params{Title: "Jazz at Meow", Subtitle: "Friday 14 March at Meow", Kind: "event"}
	first, err := Render(p)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	second, err := Render(p)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("identical params rendered different bytes")
	}
}

func TestRenderConcurrent(t *testing.T) {
	p := Params{Title: "Mount Victoria Summit", Kind: "trail"}
	want, err := Render(p)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := Render(p)
			if err != nil || !bytes.Equal(got, want) {
				errs <- "concurrent render diverged"
			}
		}()
	}
	wg.Wait()
	close(errs)
	for msg := range errs {
		t.Fatal(msg)
	}
}

func TestRenderUsesKindBackground(t *testing.T) {
	for kind, pal := range palettes {
		b, err := Render(Params{Title: "x", Kind: kind})
		if err != nil {
			t.Fatalf("render %s: %v", kind, err)
		}
		if got := decode(t, b).rgba(Width-10, Height-10); got != pal.bg {
			t.Fatalf("kind %s: expected background %v, got %v", kind, pal.bg, got)
		}
	}
}

func TestRenderUnknownKindFallsBack(t *testing.T) {
	unknown, err := Render(Params{Title: "x", Subtitle: "y", Kind: "spaceship"})
	if err != nil {
		t.Fatalf("unknown kind should not error: %v", err)
	}
	post, err := Render(Params{Title: "x", Subtitle: "y", Kind: "post"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.Equal(unknown, post) {
		t.Fatalf("unknown kind should render with the post palette")
	}
}

func TestRenderDefaults(t *testing.T) {
	empty, err := Render(Params{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	explicit, err := Render(Params{Title: DefaultTitle, Subtitle: DefaultSubtitle, Kind: "post"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.Equal(empty, explicit) {
		t.Fatalf("missing params should use defaults")
	}
}

func TestRenderBrandBar(t *testing.T) {
	b, err := Render(Params{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	img := decode(t, b)
	if got := img.rgba(0, 0); got != brand {
		t.Fatalf("bar start: expected %v, got %v", brand, got)
	}
	if got := img.rgba(Width-1, 5); got != brandDark {
		t.Fatalf("bar end: expected %v, got %v", brandDark, got)
	}
}

func TestTitleFontSize(t *testing.T) {
	if got := titleFontSize(strings.Repeat("a", 60)); got != titleSize {
		t.Fatalf("60 chars: expected %d, got %v", titleSize, got)
	}
	if got := titleFontSize(strings.Repeat("a", 61)); got != longTitleSize {
		t.Fatalf("61 chars: expected %d, got %v", longTitleSize, got)
	}
	// counted in characters, not bytes
	if got := titleFontSize(strings.Repeat("ā", 40)); got != titleSize {
		t.Fatalf("multi-byte title: expected %d, got %v", titleSize, got)
	}
}

func TestLineHeight(t *testing.T) {
	cases := map[float64]int{titleSize: 57, longTitleSize: 43, subtitleSize: 28}
	for px, want := range cases {
		if got := lineHeight(px); got != want {
			t.Fatalf("lineHeight(%v): expected %d, got %d", px, want, got)
		}
	}
}

func TestRenderLongTitle(t *testing.T) {
	title := strings.Repeat("Wellington waterfront walk ", 20)
	if _, err := Render(Params{Title: title, Kind: "guide"}); err != nil {
		t.Fatalf("render long title: %v", err)
	}
}

func TestWrapRespectsWidth(t *testing.T) {
	if err := loadFonts(); err != nil {
		t.Fatalf("fonts: %v", err)
	}
	fs, err := newFaces(titleSize)
	if err != nil {
		t.Fatalf("faces: %v", err)
	}
	defer fs.Close()

	lines := wrap(fs.title, "Supercalifragilisticexpialidocious"+strings.Repeat("x", 60)+" tail", 300, 10)
	if len(lines) < 2 {
		t.Fatalf("expected hard-broken lines, got %v", lines)
	}
	lines = wrap(fs.title, strings.Repeat("word ", 200), textWidth, maxTitleLines)
	if len(lines) != maxTitleLines {
		t.Fatalf("expected %d lines, got %d", maxTitleLines, len(lines))
	}
	if !strings.HasSuffix(lines[len(lines)-1], "…") {
		t.Fatalf("expected truncated last line, got %q", lines[len(lines)-1])
	}
}

func TestParamsKey(t *testing.T) {
	a := Params{Title: " Welly ", Kind: "POST"}.Key()
	b := Params{}.Key()
	if a != b {
		t.Fatalf("normalized params should share a key")
	}
	if a == (Params{Title: "Other"}).Key() {
		t.Fatalf("different titles should not share a key")
	}
}

func TestNormalizeKind(t *testing.T) {
	cases := map[string]string{" Trail ": "trail", "GUIDE": "guide", "comment": "post", "": "post"}
	for in, want := range cases {
		if got := (Params{Kind: in}).Normalize().Kind; got != want {
			t.Fatalf("kind %q: expected %q, got %q", in, want, got)
		}
	}
}
