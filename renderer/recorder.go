package renderer

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/ByLCY/roster/layout"
)

var (
	errNoPage    = errors.New("没有打开的页面")
	errPageOpen  = errors.New("上一页尚未关闭")
	errFinalized = errors.New("页面仍处于打开状态，无法保存")
)

// Command 是一条记录下来的绘制指令。
type Command struct {
	Op     string       `json:"op"`
	X      float64      `json:"x"`
	Y      float64      `json:"y"`
	Width  float64      `json:"width,omitempty"`
	Height float64      `json:"height,omitempty"`
	X2     float64      `json:"x2,omitempty"`
	Y2     float64      `json:"y2,omitempty"`
	Text   string       `json:"text,omitempty"`
	Font   *layout.Font `json:"font,omitempty"`
	Size   float64      `json:"size,omitempty"`
}

// RecordedPage 保存一页上的全部指令。
type RecordedPage struct {
	Commands []Command `json:"commands"`
}

// Texts 返回本页所有文本指令的内容，便于断言。
func (p RecordedPage) Texts() []string {
	var out []string
	for _, c := range p.Commands {
		if c.Op == "text" {
			out = append(out, c.Text)
		}
	}
	return out
}

// Count 统计本页某类指令的数量。
func (p RecordedPage) Count(op string) int {
	n := 0
	for _, c := range p.Commands {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Recorder 把绘制指令保存在内存中，用于测试与输出调试 JSON。
type Recorder struct {
	Meta  layout.DocumentMeta `json:"meta"`
	Pages []RecordedPage      `json:"pages"`
	open  bool
}

var _ Document = (*Recorder)(nil)

// NewRecorder 创建一个空的 Recorder。
func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) BeginPage() error {
	if r.open {
		return errPageOpen
	}
	r.Pages = append(r.Pages, RecordedPage{})
	r.open = true
	return nil
}

func (r *Recorder) EndPage() error {
	if !r.open {
		return errNoPage
	}
	r.open = false
	return nil
}

func (r *Recorder) DrawRect(x, y, width, height float64) error {
	return r.add(Command{Op: "rect", X: x, Y: y, Width: width, Height: height})
}

func (r *Recorder) DrawLine(x1, y1, x2, y2 float64) error {
	return r.add(Command{Op: "line", X: x1, Y: y1, X2: x2, Y2: y2})
}

func (r *Recorder) DrawText(x, y float64, text string, font layout.Font, size float64) error {
	f := font
	return r.add(Command{Op: "text", X: x, Y: y, Text: text, Font: &f, Size: size})
}

func (r *Recorder) SetMeta(meta layout.DocumentMeta) { r.Meta = meta }

// Open reports whether a page is currently open.
func (r *Recorder) Open() bool { return r.open }

// Save 以缩进 JSON 输出全部页面与指令。
func (r *Recorder) Save(w io.Writer) error {
	if r.open {
		return errFinalized
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func (r *Recorder) add(c Command) error {
	if !r.open {
		return errNoPage
	}
	page := &r.Pages[len(r.Pages)-1]
	page.Commands = append(page.Commands, c)
	return nil
}
