// Package preview renders the branded 1200x630 social preview image used when
// an entity has no image of its own.
package preview

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"
	"sync"
	"unicode/utf8"

	"welly-web/internal/deeplink"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	Width  = 1200
	Height = 630

	DefaultTitle    = "Welly"
	DefaultSubtitle = "Discover Wellington"
	defaultKind     = "post"

	longTitleRunes = 60
	titleSize      = 48
	longTitleSize  = 36
	subtitleSize   = 24
	maxTitleLines  = 5

	padX       = 80
	textWidth  = 900
	logoSize   = 48
	logoRadius = 12
)

type palette struct {
	bg, accent color.RGBA
}

var (
	brand     = rgb(0x00, 0xA5, 0xE0)
	brandDark = rgb(0x00, 0x86, 0xB8)
	ink       = rgb(0x1A, 0x1A, 0x1A)
	muted     = rgb(0x66, 0x66, 0x66)
	faint     = rgb(0x99, 0x99, 0x99)
	white     = rgb(0xFF, 0xFF, 0xFF)
)

var palettes = map[string]palette{
	"post":  {bg: rgb(0xFA, 0xFA, 0xFA), accent: brand},
	"event": {bg: rgb(0xFF, 0xF7, 0xED), accent: rgb(0xE8, 0x5D, 0x04)},
	"place": {bg: rgb(0xF0, 0xFD, 0xF4), accent: rgb(0x2D, 0x6A, 0x4F)},
	"user":  {bg: rgb(0xEF, 0xF6, 0xFF), accent: rgb(0x00, 0x77, 0xB6)},
	"trail": {bg: rgb(0xEC, 0xFD, 0xF5), accent: rgb(0x15, 0x80, 0x3D)},
	"guide": {bg: rgb(0xFD, 0xF4, 0xFF), accent: rgb(0xA2, 0x1C, 0xAF)},
}

// Params are the three inputs of a render.
type Params struct {
	Title    string
	Subtitle string
	Kind     string
}

// Normalize applies the documented fallbacks.
func (p Params) Normalize() Params {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		p.Title = DefaultTitle
	}
	p.Subtitle = strings.TrimSpace(p.Subtitle)
	if p.Subtitle == "" {
		p.Subtitle = DefaultSubtitle
	}
	kind, ok := deeplink.ParseKind(strings.TrimSpace(p.Kind))
	if !ok {
		kind = defaultKind
	}
	p.Kind = string(kind)
	return p
}

// Key identifies a render by its normalized inputs.
func (p Params) Key() string {
	n := p.Normalize()
	sum := sha256.Sum256([]byte(n.Title + "\x00" + n.Subtitle + "\x00" + n.Kind))
	return hex.EncodeToString(sum[:])
}

func paletteFor(kind string) palette {
	if pal, ok := palettes[kind]; ok {
		return pal
	}
	return palettes[defaultKind]
}

func titleFontSize(title string) float64 {
	if utf8.RuneCountInString(title) > longTitleRunes {
		return longTitleSize
	}
	return titleSize
}

var (
	fontsOnce sync.Once
	fontsErr  error
	regular   *opentype.Font
	bold      *opentype.Font
)

func loadFonts() error {
	fontsOnce.Do(func() {
		if regular, fontsErr = opentype.Parse(goregular.TTF); fontsErr != nil {
			return
		}
		bold, fontsErr = opentype.Parse(gobold.TTF)
	})
	return fontsErr
}

// faces are not safe for concurrent use, so each render builds its own.
type faces struct {
	logo, brandName, title, subtitle, footer font.Face
}

// lineHeight is the baseline step for a face of size px.
func lineHeight(px float64) int {
	return int(px * 1.2)
}

func newFaces(titlePx float64) (*faces, error) {
	mk := func(f *opentype.Font, size float64) (font.Face, error) {
		return opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	}
	var (
		fs  faces
		err error
	)
	if fs.logo, err = mk(bold, 24); err != nil {
		return nil, err
	}
	if fs.brandName, err = mk(bold, 28); err != nil {
		return nil, err
	}
	if fs.title, err = mk(bold, titlePx); err != nil {
		return nil, err
	}
	if fs.subtitle, err = mk(regular, subtitleSize); err != nil {
		return nil, err
	}
	if fs.footer, err = mk(regular, 18); err != nil {
		return nil, err
	}
	return &fs, nil
}

func (fs *faces) Close() {
	for _, f := range []font.Face{fs.logo, fs.brandName, fs.title, fs.subtitle, fs.footer} {
		if f != nil {
			_ = f.Close()
		}
	}
}

// Render draws the preview as PNG. Identical params give identical bytes.
func Render(p Params) ([]byte, error) {
	p = p.Normalize()
	if err := loadFonts(); err != nil {
		return nil, err
	}
	titlePx := titleFontSize(p.Title)
	fs, err := newFaces(titlePx)
	if err != nil {
		return nil, err
	}
	defer fs.Close()

	pal := paletteFor(p.Kind)
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(pal.bg), image.Point{}, draw.Src)
	drawBrandBar(img)

	titleLines := wrap(fs.title, p.Title, textWidth, maxTitleLines)
	titleLH := lineHeight(titlePx)
	subtitleLH := lineHeight(subtitleSize)

	blockH := logoSize + 40 + len(titleLines)*titleLH + 16 + subtitleLH
	top := (Height - blockH) / 2
	if top < 60 {
		top = 60
	}

	// logo tile and app name
	fillRoundedRect(img, image.Rect(padX, top, padX+logoSize, top+logoSize), logoRadius, brand)
	drawCentered(img, fs.logo, "W", image.Rect(padX, top, padX+logoSize, top+logoSize), white)
	drawText(img, fs.brandName, DefaultTitle, padX+logoSize+12, middleBaseline(fs.brandName, top, logoSize), muted)

	y := top + logoSize + 40
	for _, line := range titleLines {
		drawText(img, fs.title, line, padX, y+fs.title.Metrics().Ascent.Ceil(), ink)
		y += titleLH
	}

	y += 16
	fillCircle(img, padX+4, y+subtitleLH/2, 4, pal.accent)
	subtitle := ellipsize(fs.subtitle, p.Subtitle, Width-2*padX-16)
	drawText(img, fs.subtitle, subtitle, padX+16, middleBaseline(fs.subtitle, y, subtitleLH), muted)

	drawText(img, fs.footer, "welly.nz", padX, Height-40-fs.footer.Metrics().Descent.Ceil(), faint)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawBrandBar(img *image.RGBA) {
	for x := 0; x < Width; x++ {
		c := lerp(brand, brandDark, float64(x)/float64(Width-1))
		for y := 0; y < 6; y++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func drawText(img *image.RGBA, face font.Face, s string, x, baseline int, c color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(s)
}

func drawCentered(img *image.RGBA, face font.Face, s string, box image.Rectangle, c color.RGBA) {
	w := font.MeasureString(face, s).Ceil()
	x := box.Min.X + (box.Dx()-w)/2
	drawText(img, face, s, x, middleBaseline(face, box.Min.Y, box.Dy()), c)
}

// middleBaseline centres the face's ascent+descent within [top, top+height).
func middleBaseline(face font.Face, top, height int) int {
	m := face.Metrics()
	return top + (height+m.Ascent.Ceil()-m.Descent.Ceil())/2
}

// wrap breaks s into lines no wider than width, keeping at most maxLines.
func wrap(face font.Face, s string, width, maxLines int) []string {
	var lines []string
	var cur string
	for _, word := range strings.Fields(s) {
		candidate := word
		if cur != "" {
			candidate = cur + " " + word
		}
		if font.MeasureString(face, candidate).Ceil() <= width {
			cur = candidate
			continue
		}
		if cur != "" {
			lines = append(lines, cur)
		}
		// a single word wider than the box is hard-broken by rune
		for font.MeasureString(face, word).Ceil() > width {
			cut := fitRunes(face, word, width)
			lines = append(lines, word[:cut])
			word = word[cut:]
		}
		cur = word
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[maxLines-1] = ellipsize(face, lines[maxLines-1]+"…", width)
	}
	return lines
}

// fitRunes returns the byte length of the longest prefix of s that fits width.
func fitRunes(face font.Face, s string, width int) int {
	cut := 0
	for i, r := range s {
		next := i + utf8.RuneLen(r)
		if font.MeasureString(face, s[:next]).Ceil() > width {
			break
		}
		cut = next
	}
	if cut == 0 {
		_, size := utf8.DecodeRuneInString(s)
		cut = size
	}
	return cut
}

func ellipsize(face font.Face, s string, width int) string {
	if font.MeasureString(face, s).Ceil() <= width {
		return s
	}
	s = strings.TrimSuffix(s, "…")
	for len(s) > 0 {
		_, size := utf8.DecodeLastRuneInString(s)
		s = s[:len(s)-size]
		if font.MeasureString(face, s+"…").Ceil() <= width {
			break
		}
	}
	return s + "…"
}

func fillRoundedRect(img *image.RGBA, r image.Rectangle, radius int, c color.RGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			cx, cy := x, y
			switch {
			case x < r.Min.X+radius:
				cx = r.Min.X + radius
			case x >= r.Max.X-radius:
				cx = r.Max.X - radius - 1
			}
			switch {
			case y < r.Min.Y+radius:
				cy = r.Min.Y + radius
			case y >= r.Max.Y-radius:
				cy = r.Max.Y - radius - 1
			}
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= radius*radius {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

func fillCircle(img *image.RGBA, cx, cy, radius int, c color.RGBA) {
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= radius*radius {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 { return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5) }
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 0xFF}
}

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}
