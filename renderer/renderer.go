package renderer

import (
	"io"

	"github.com/ByLCY/roster/layout"
)

// DocumentSink 接收绘制指令并负责具体的输出格式。坐标单位为 pt，原点在页面左下角。
// 所有操作都是同步的，返回错误即表示本次导出失败。
type DocumentSink interface {
	BeginPage() error
	EndPage() error
	DrawRect(x, y, width, height float64) error
	DrawLine(x1, y1, x2, y2 float64) error
	DrawText(x, y float64, text string, font layout.Font, size float64) error
}

// Document 是可以在所有页面关闭后落盘的输出端，例如 PDF 文档。
type Document interface {
	DocumentSink
	SetMeta(meta layout.DocumentMeta)
	Save(w io.Writer) error
}

// RecordSource 按顺序提供记录，结束时返回 io.EOF。
type RecordSource interface {
	Next() (layout.Record, error)
}
