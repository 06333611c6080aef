package certificate

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	// Декодеры фона.
	_ "image/jpeg"
	"image/png"
	"strconv"
	"strings"
	"sync"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/math/fixed"
)

// ErrInvalidTemplate — фон не декодируется или размеры нулевые.
var ErrInvalidTemplate = errors.New("invalid certificate template")

var bufPool = sync.Pool{New: func() any { return new(bytes.Buffer) }}

// Renderer рисует сертификаты одним шрифтом OpenType. Арабский текст
// собирается в контекстные формы и выводится справа налево.
type Renderer struct {
	shaper *shaper
}

// NewRenderer разбирает шрифт TTF/OTF.
func NewRenderer(fontData []byte) (*Renderer, error) {
	const op = "certificate.NewRenderer"
	s, err := newShaper(fontData)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Renderer{shaper: s}, nil
}

// Render рисует шаблон с данными d и возвращает PDF размером с шаблон.
func (r *Renderer) Render(tpl Template, d Data) ([]byte, error) {
	const op = "certificate.Render"

	bg, _, err := image.Decode(bytes.NewReader(tpl.Background))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidTemplate, err)
	}
	w, h := tpl.Width, tpl.Height
	if w == 0 || h == 0 {
		w, h = bg.Bounds().Dx(), bg.Bounds().Dy()
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidTemplate)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), bg, bg.Bounds().Min, draw.Src)

	raster := bufPool.Get().(*bytes.Buffer)
	defer func() {
		raster.Reset()
		bufPool.Put(raster)
	}()

	for _, field := range tpl.Fields {
		r.drawField(canvas, field, Substitute(field.Text, d))
	}

	if err := png.Encode(raster, canvas); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	out, err := embedPDF(raster, float64(w), float64(h))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func (r *Renderer) drawField(canvas *image.RGBA, f Field, text string) {
	if strings.TrimSpace(text) == "" || f.FontSize <= 0 {
		return
	}
	w := float64(canvas.Bounds().Dx())
	h := float64(canvas.Bounds().Dy())

	size := f.FontSize * h
	line := r.shaper.layout(text, size)
	width := fixedToFloat(line.advance)
	if maxW := f.MaxWidth * w; f.MaxWidth > 0 && width > maxW {
		size *= maxW / width
		line = r.shaper.layout(text, size)
		width = fixedToFloat(line.advance)
	}

	x := f.X * w
	switch f.Align {
	case AlignCenter:
		x -= width / 2
	case AlignRight:
		x -= width
	}
	fill(canvas, line, x, f.Y*h, parseColor(f.Color))
}

func embedPDF(raster *bytes.Buffer, w, h float64) ([]byte, error) {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("certificate", opts, raster)
	pdf.ImageOptions("certificate", 0, 0, w, h, false, opts, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func parseColor(hex string) color.Color {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return color.Black
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.Black
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

func floatToFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}
