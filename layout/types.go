package layout

import "strings"

// 该文件定义表格导出所需的数据模型，供列宽计算、折行、行布局与分页渲染共用。
// 所有长度单位均为 pt，坐标原点位于页面左下角，y 轴向上。

// ColumnSpec 描述表格的一列：表头文字与相对权重。导出期间列的顺序固定不变。
type ColumnSpec struct {
	Header string  `json:"header" yaml:"header"`
	Weight float64 `json:"weight" yaml:"weight"`
}

// Record 是一行记录的单元格文本，长度必须与列数一致。
// 缺失数据由调用方在进入渲染器之前替换为占位符（例如 "-"）。
type Record []string

// TableGeometry 保存表格在页面上的绝对几何信息。
// 列宽之和始终等于 TableWidth，由 ComputeWidths 保证。
type TableGeometry struct {
	MarginLeft       float64 `json:"marginLeft"`
	TopOfTableY      float64 `json:"topOfTableY"`
	TableWidth       float64 `json:"tableWidth"`
	PageBottomMargin float64 `json:"pageBottomMargin"`
	RowMinHeight     float64 `json:"rowMinHeight"`
	LineHeight       float64 `json:"lineHeight"`
	HeaderRowHeight  float64 `json:"headerRowHeight"`
}

// UsableHeight 返回每页表头下方可用于数据行的高度。
func (g TableGeometry) UsableHeight() float64 {
	return g.TopOfTableY - g.HeaderRowHeight - g.PageBottomMargin
}

// Font 标识字体族与样式；样式沿用 PDF 核心字体的写法（""、"B"、"I"、"BI"）。
type Font struct {
	Family string `json:"family" yaml:"family"`
	Style  string `json:"style,omitempty" yaml:"style"`
}

// Bold reports whether the style asks for a bold face.
func (f Font) Bold() bool { return containsStyle(f.Style, 'B') }

// Italic reports whether the style asks for an italic face.
func (f Font) Italic() bool { return containsStyle(f.Style, 'I') }

func containsStyle(style string, flag rune) bool {
	for _, r := range style {
		if r == flag || r == flag+('a'-'A') {
			return true
		}
	}
	return false
}

// TextLine 表示折行后的一行文本及其测量宽度。
type TextLine struct {
	Content string  `json:"content"`
	Width   float64 `json:"width"`
}

// WrappedCell 是单元格折行的结果，至少包含一行（空单元格为一行空字符串）。
type WrappedCell struct {
	Lines       []TextLine `json:"lines"`
	ColumnWidth float64    `json:"columnWidth"`
}

// LineCount 返回折行后的行数。
func (c WrappedCell) LineCount() int { return len(c.Lines) }

// RowPlan 是单行的布局结果，按行临时计算，不做持久化。
type RowPlan struct {
	Cells      []WrappedCell `json:"cells"`
	RowHeight  float64       `json:"rowHeight"`
	LineHeight float64       `json:"lineHeight"`
}

// Point 是页面上的一个坐标点。
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DocumentMeta 保存 PDF 元信息。
type DocumentMeta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}

// KeywordString 把关键字拼成 PDF Keywords 字段使用的单个字符串，各后端共用同一分隔符。
func (m DocumentMeta) KeywordString() string {
	return strings.Join(m.Keywords, ", ")
}
