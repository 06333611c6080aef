package certificate

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
	"golang.org/x/text/unicode/bidi"
)

// shapedLine строка после шейпинга. Прогоны упорядочены слева направо.
type shapedLine struct {
	runs    []shaping.Output
	advance fixed.Int26_6
}

// shaper раскладывает строку: bidi-сегментация, шейпинг HarfBuzz и визуальный
// порядок прогонов. Состояние HarfBuzz не потокобезопасно, поэтому под mu.
type shaper struct {
	mu   sync.Mutex
	face *font.Face
	hb   shaping.HarfbuzzShaper
	seg  shaping.Segmenter
	wrap shaping.LineWrapper
}

func newShaper(fontData []byte) (*shaper, error) {
	face, err := font.ParseTTF(bytes.NewReader(fontData))
	if err != nil {
		return nil, err
	}
	return &shaper{face: face}, nil
}

type singleFace struct{ face *font.Face }

func (f singleFace) ResolveFace(rune) *font.Face { return f.face }

// paragraphDirection берёт направление первого сильного символа. Строка без
// сильных символов считается арабской.
func paragraphDirection(text []rune) di.Direction {
	for _, r := range text {
		p, _ := bidi.LookupRune(r)
		switch p.Class() {
		case bidi.R, bidi.AL:
			return di.DirectionRTL
		case bidi.L:
			return di.DirectionLTR
		}
	}
	return di.DirectionRTL
}

// layout шейпит text в одну строку кеглем size пикселей.
func (s *shaper) layout(text string, size float64) shapedLine {
	runes := []rune(strings.Join(strings.Fields(text), " "))
	var line shapedLine
	if len(runes) == 0 {
		return line
	}
	dir := paragraphDirection(runes)

	s.mu.Lock()
	defer s.mu.Unlock()

	inputs := s.seg.Split(shaping.Input{
		Text:      runes,
		RunEnd:    len(runes),
		Direction: dir,
		Face:      s.face,
		Size:      floatToFixed(size),
		Language:  language.NewLanguage("ar"),
	}, singleFace{face: s.face})
	outs := make([]shaping.Output, 0, len(inputs))
	for _, in := range inputs {
		outs = append(outs, s.hb.Shape(in))
	}

	lines, _ := s.wrap.WrapParagraph(shaping.WrapConfig{Direction: dir}, math.MaxInt32, runes, shaping.NewSliceIterator(outs))
	for _, l := range lines {
		line.runs = append(line.runs, l...)
	}
	sort.SliceStable(line.runs, func(i, j int) bool {
		return line.runs[i].VisualIndex < line.runs[j].VisualIndex
	})
	for _, run := range line.runs {
		line.advance += run.Advance
	}
	return line
}

// fill рисует строку, начиная с x по базовой линии baseline.
func fill(dst *image.RGBA, line shapedLine, x, baseline float64, c color.Color) {
	b := dst.Bounds()
	ras := vector.NewRasterizer(b.Dx(), b.Dy())
	pen := x
	for _, run := range line.runs {
		scale := fixedToFloat(run.Size) / float64(run.Face.Upem())
		for _, g := range run.Glyphs {
			if outline, ok := run.Face.GlyphData(g.GlyphID).(font.GlyphOutline); ok {
				addOutline(ras, outline,
					pen+fixedToFloat(g.XOffset)-float64(b.Min.X),
					baseline-fixedToFloat(g.YOffset)-float64(b.Min.Y),
					scale)
			}
			pen += fixedToFloat(g.Advance)
		}
	}
	ras.Draw(dst, b, image.NewUniform(c), b.Min)
}

// addOutline переводит контур из единиц шрифта (ось Y вверх) в пиксели холста.
func addOutline(ras *vector.Rasterizer, o font.GlyphOutline, ox, oy, scale float64) {
	px := func(p font.SegmentPoint) float32 { return float32(ox + float64(p.X)*scale) }
	py := func(p font.SegmentPoint) float32 { return float32(oy - float64(p.Y)*scale) }

	open := false
	for _, seg := range o.Segments {
		a := seg.Args
		switch seg.Op {
		case ot.SegmentOpMoveTo:
			if open {
				ras.ClosePath()
			}
			ras.MoveTo(px(a[0]), py(a[0]))
			open = true
		case ot.SegmentOpLineTo:
			ras.LineTo(px(a[0]), py(a[0]))
		case ot.SegmentOpQuadTo:
			ras.QuadTo(px(a[0]), py(a[0]), px(a[1]), py(a[1]))
		case ot.SegmentOpCubeTo:
			ras.CubeTo(px(a[0]), py(a[0]), px(a[1]), py(a[1]), px(a[2]), py(a[2]))
		}
	}
	if open {
		ras.ClosePath()
	}
}
