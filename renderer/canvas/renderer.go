package canvasrenderer

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/roster/fonts"
	"github.com/ByLCY/roster/layout"
	"github.com/ByLCY/roster/renderer"
)

const defaultLineWidth = 1.0 // pt

var (
	errNoPage   = errors.New("没有打开的页面")
	errPageOpen = errors.New("上一页尚未关闭")
	errSaved    = errors.New("文档已经保存")
)

// Sink draws table primitives onto github.com/tdewolff/canvas pages and writes a PDF.
// 对外坐标为 pt（原点左下角），与 canvas 交互时换算为 mm。
type Sink struct {
	width     float64 // mm
	height    float64 // mm
	lineWidth float64 // mm

	fontBlobs map[string][]byte // custom families by name

	fontMu   sync.Mutex
	families map[string]*canvas.FontFamily

	meta   layout.DocumentMeta
	buf    bytes.Buffer
	writer *pdf.PDF
	page   *canvas.Canvas
	ctx    *canvas.Context
	pages  int
	saved  bool
}

var (
	_ renderer.Document   = (*Sink)(nil)
	_ layout.TextMeasurer = (*Sink)(nil)
)

// Options configures the canvas sink. 页面尺寸单位为 pt。
type Options struct {
	PageWidth  float64
	PageHeight float64
	LineWidth  float64
	Fonts      map[string]Resource // 自定义字体族：名称 → TTF/OTF 数据
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// New creates a canvas sink. 未提供的字体族一律回退到内置 Go 字体。
func New(opts Options) (*Sink, error) {
	if !(opts.PageWidth > 0) || !(opts.PageHeight > 0) {
		return nil, fmt.Errorf("页面尺寸必须为正数: %gx%g", opts.PageWidth, opts.PageHeight)
	}
	lineWidth := opts.LineWidth
	if lineWidth <= 0 {
		lineWidth = defaultLineWidth
	}
	s := &Sink{
		width:     toMm(opts.PageWidth),
		height:    toMm(opts.PageHeight),
		lineWidth: toMm(lineWidth),
		fontBlobs: map[string][]byte{},
		families:  map[string]*canvas.FontFamily{},
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			s.fontBlobs[strings.ToLower(name)] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, err := os.ReadFile(res.Path)
			if err != nil {
				return nil, fmt.Errorf("读取字体 %s 失败: %w", name, err)
			}
			s.fontBlobs[strings.ToLower(name)] = data
		}
	}
	return s, nil
}

// MeasureText 实现 layout.TextMeasurer，返回宽度单位为 pt。
func (s *Sink) MeasureText(text string, font layout.Font, size float64) (float64, error) {
	face, err := s.fontFace(font, size)
	if err != nil {
		return 0, err
	}
	return toPt(face.TextWidth(text)), nil
}

func (s *Sink) BeginPage() error {
	if s.saved {
		return errSaved
	}
	if s.page != nil {
		return errPageOpen
	}
	s.page = canvas.New(s.width, s.height)
	s.ctx = canvas.NewContext(s.page)
	s.ctx.SetStrokeColor(color.Black)
	s.ctx.SetStrokeWidth(s.lineWidth)
	return nil
}

// EndPage 把当前画布写入 PDF；第一页同时创建 PDF writer。
func (s *Sink) EndPage() error {
	if s.page == nil {
		return errNoPage
	}
	if s.writer == nil {
		s.writer = pdf.New(&s.buf, s.width, s.height, nil)
		s.applyMeta()
	} else {
		s.writer.NewPage(s.width, s.height)
	}
	s.page.RenderTo(s.writer)
	s.page, s.ctx = nil, nil
	s.pages++
	return nil
}

func (s *Sink) DrawRect(x, y, width, height float64) error {
	if s.ctx == nil {
		return errNoPage
	}
	s.ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
	s.ctx.DrawPath(toMm(x), toMm(y), canvas.Rectangle(toMm(width), toMm(height)))
	return nil
}

func (s *Sink) DrawLine(x1, y1, x2, y2 float64) error {
	if s.ctx == nil {
		return errNoPage
	}
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(toMm(x2-x1), toMm(y2-y1))
	s.ctx.DrawPath(toMm(x1), toMm(y1), p)
	return nil
}

// DrawText 以 (x, y) 为基线左端绘制单行文本。
func (s *Sink) DrawText(x, y float64, text string, font layout.Font, size float64) error {
	if s.ctx == nil {
		return errNoPage
	}
	face, err := s.fontFace(font, size)
	if err != nil {
		return err
	}
	s.ctx.DrawText(toMm(x), toMm(y), canvas.NewTextLine(face, text, canvas.Left))
	return nil
}

func (s *Sink) SetMeta(meta layout.DocumentMeta) {
	s.meta = meta
	if s.writer != nil {
		s.applyMeta()
	}
}

// Pages returns the number of pages written so far.
func (s *Sink) Pages() int { return s.pages }

// Save 关闭 PDF writer 并把完整文档写入 w。
func (s *Sink) Save(w io.Writer) error {
	if s.saved {
		return errSaved
	}
	if s.page != nil {
		return errPageOpen
	}
	if s.writer == nil {
		return fmt.Errorf("缺少可输出的页面")
	}
	s.saved = true
	if err := s.writer.Close(); err != nil {
		return fmt.Errorf("写入 PDF 失败: %w", err)
	}
	if _, err := io.Copy(w, &s.buf); err != nil {
		return fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return nil
}

func (s *Sink) applyMeta() {
	s.writer.SetInfo(s.meta.Title, s.meta.Subject, s.meta.KeywordString(), s.meta.Author, s.meta.Creator)
}

func (s *Sink) fontFace(font layout.Font, sizePt float64) (*canvas.FontFace, error) {
	family, err := s.ensureFontFamily(font)
	if err != nil {
		return nil, err
	}
	return family.Face(sizePt, color.Black, canvas.FontRegular, canvas.FontNormal), nil
}

// ensureFontFamily 每个（字体族, 样式）组合对应一个只装载了一种字重的 FontFamily。
func (s *Sink) ensureFontFamily(font layout.Font) (*canvas.FontFamily, error) {
	variant := fonts.Variant(font.Bold(), font.Italic())
	key := strings.ToLower(font.Family) + "|" + variant

	s.fontMu.Lock()
	defer s.fontMu.Unlock()
	if family, ok := s.families[key]; ok {
		return family, nil
	}

	data, ok := s.fontBlobs[strings.ToLower(font.Family)]
	if !ok {
		var err error
		data, err = fonts.Load(variant)
		if err != nil {
			return nil, err
		}
	}
	family := canvas.NewFontFamily(key)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", key, err)
	}
	s.families[key] = family
	return family, nil
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * layout.MmToPt }

// toMm 将点(pt)转换为毫米(mm)。
func toMm(pt float64) float64 { return pt * layout.PtToMm }
