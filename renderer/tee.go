package renderer

import "github.com/ByLCY/roster/layout"

// Tee 把每条指令依次转发给所有输出端，遇到第一个错误即返回。
func Tee(sinks ...DocumentSink) DocumentSink {
	return teeSink(sinks)
}

type teeSink []DocumentSink

// BeginPage 失败时会关闭已经成功打开页面的输出端。
func (t teeSink) BeginPage() error {
	for i, s := range t {
		if err := s.BeginPage(); err != nil {
			for _, opened := range t[:i] {
				_ = opened.EndPage()
			}
			return err
		}
	}
	return nil
}

// EndPage 对所有输出端都会调用，保证每个输出端的页面都被释放。
func (t teeSink) EndPage() error {
	var first error
	for _, s := range t {
		if err := s.EndPage(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (t teeSink) DrawRect(x, y, width, height float64) error {
	return t.each(func(s DocumentSink) error { return s.DrawRect(x, y, width, height) })
}

func (t teeSink) DrawLine(x1, y1, x2, y2 float64) error {
	return t.each(func(s DocumentSink) error { return s.DrawLine(x1, y1, x2, y2) })
}

func (t teeSink) DrawText(x, y float64, text string, font layout.Font, size float64) error {
	return t.each(func(s DocumentSink) error { return s.DrawText(x, y, text, font, size) })
}

func (t teeSink) each(fn func(DocumentSink) error) error {
	for _, s := range t {
		if err := fn(s); err != nil {
			return err
		}
	}
	return nil
}
