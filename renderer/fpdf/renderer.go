// Package fpdfrenderer writes table primitives through codeberg.org/go-pdf/fpdf using
// the PDF core fonts, so text widths follow the standard Helvetica/Times/Courier metrics.
package fpdfrenderer

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"codeberg.org/go-pdf/fpdf"

	"github.com/ByLCY/roster/layout"
	"github.com/ByLCY/roster/renderer"
)

var (
	errNoPage   = errors.New("no open page")
	errPageOpen = errors.New("previous page is still open")
)

// coreFamilies maps accepted family names to fpdf core font names.
var coreFamilies = map[string]string{
	"helvetica": "Helvetica",
	"arial":     "Helvetica",
	"times":     "Times",
	"courier":   "Courier",
}

// Sink implements renderer.Document on top of fpdf. Coordinates are points with a
// bottom-left origin; fpdf's top-left origin is handled internally.
type Sink struct {
	pdf        *fpdf.Fpdf
	tr         func(string) string
	pageHeight float64
	open       bool
}

var (
	_ renderer.Document   = (*Sink)(nil)
	_ layout.TextMeasurer = (*Sink)(nil)
)

// Options configures the fpdf sink. Sizes are in points.
type Options struct {
	PageWidth   float64
	PageHeight  float64
	LineWidth   float64
	Compression bool
}

// New creates an empty document with the given page size.
func New(opts Options) (*Sink, error) {
	if !(opts.PageWidth > 0) || !(opts.PageHeight > 0) {
		return nil, fmt.Errorf("invalid page size %gx%g", opts.PageWidth, opts.PageHeight)
	}
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: opts.PageWidth, Ht: opts.PageHeight},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(opts.Compression)
	if opts.LineWidth > 0 {
		pdf.SetLineWidth(opts.LineWidth)
	} else {
		pdf.SetLineWidth(1)
	}
	return &Sink{
		pdf:        pdf,
		tr:         pdf.UnicodeTranslatorFromDescriptor(""),
		pageHeight: opts.PageHeight,
	}, nil
}

// MeasureText returns the width of text in points using core font metrics.
func (s *Sink) MeasureText(text string, font layout.Font, size float64) (float64, error) {
	s.setFont(font, size)
	w := s.pdf.GetStringWidth(s.tr(text))
	return w, s.pdf.Error()
}

func (s *Sink) BeginPage() error {
	if s.open {
		return errPageOpen
	}
	s.pdf.AddPage()
	s.open = true
	return s.pdf.Error()
}

func (s *Sink) EndPage() error {
	if !s.open {
		return errNoPage
	}
	s.open = false
	return s.pdf.Error()
}

func (s *Sink) DrawRect(x, y, width, height float64) error {
	if !s.open {
		return errNoPage
	}
	s.pdf.Rect(x, s.flip(y+height), width, height, "D")
	return s.pdf.Error()
}

func (s *Sink) DrawLine(x1, y1, x2, y2 float64) error {
	if !s.open {
		return errNoPage
	}
	s.pdf.Line(x1, s.flip(y1), x2, s.flip(y2))
	return s.pdf.Error()
}

func (s *Sink) DrawText(x, y float64, text string, font layout.Font, size float64) error {
	if !s.open {
		return errNoPage
	}
	s.setFont(font, size)
	s.pdf.Text(x, s.flip(y), s.tr(text))
	return s.pdf.Error()
}

func (s *Sink) SetMeta(meta layout.DocumentMeta) {
	s.pdf.SetTitle(meta.Title, true)
	s.pdf.SetAuthor(meta.Author, true)
	s.pdf.SetSubject(meta.Subject, true)
	s.pdf.SetCreator(meta.Creator, true)
	s.pdf.SetKeywords(meta.KeywordString(), true)
}

// Pages returns the number of pages added so far.
func (s *Sink) Pages() int { return s.pdf.PageNo() }

// Save finalizes the document and writes it to w.
func (s *Sink) Save(w io.Writer) error {
	if s.open {
		return errPageOpen
	}
	if s.pdf.PageNo() == 0 {
		return fmt.Errorf("document has no pages")
	}
	if err := s.pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func (s *Sink) setFont(font layout.Font, size float64) {
	family, ok := coreFamilies[strings.ToLower(font.Family)]
	if !ok {
		family = "Helvetica"
	}
	style := ""
	if font.Bold() {
		style += "B"
	}
	if font.Italic() {
		style += "I"
	}
	s.pdf.SetFont(family, style, size)
}

func (s *Sink) flip(y float64) float64 { return s.pageHeight - y }
