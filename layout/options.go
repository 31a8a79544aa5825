package layout

import "math"

// TextMeasurer 返回字符串在给定字体与字号下的渲染宽度（pt）。
// 实现应当是无副作用的纯函数，相同输入必须得到相同结果。
type TextMeasurer interface {
	MeasureText(text string, font Font, size float64) (float64, error)
}

// Typography 描述标题、表头与正文的字体，以及单元格内边距等排版常量。
type Typography struct {
	TitleFont  Font    `json:"titleFont"`
	TitleSize  float64 `json:"titleSize"`
	HeaderFont Font    `json:"headerFont"`
	HeaderSize float64 `json:"headerSize"`
	BodyFont   Font    `json:"bodyFont"`
	BodySize   float64 `json:"bodySize"`
	// InteriorPadding 是折行时从列宽中扣除的水平留白（左右合计）。nil 表示使用默认值，
	// 需要零留白时显式写 Points(0)。
	InteriorPadding *float64 `json:"interiorPadding,omitempty"`
	// DescentAdjustment 决定首行基线相对文本块顶部的位置：lineHeight - DescentAdjustment。
	// nil 表示使用默认值。
	DescentAdjustment *float64 `json:"descentAdjustment,omitempty"`
}

// Points 返回 v 的指针，用于显式设置 Typography 中的可选长度。
func Points(v float64) *float64 { return &v }

// DefaultTypography 与原始导出保持一致：Helvetica 12pt 正文、粗体表头与 16pt 标题。
func DefaultTypography() Typography {
	return Typography{
		TitleFont:         Font{Family: "Helvetica", Style: "B"},
		TitleSize:         16,
		HeaderFont:        Font{Family: "Helvetica", Style: "B"},
		HeaderSize:        12,
		BodyFont:          Font{Family: "Helvetica"},
		BodySize:          12,
		InteriorPadding:   Points(10),
		DescentAdjustment: Points(3),
	}
}

// WithDefaults 用默认值补齐未设置（零值）的字段。
func (t Typography) WithDefaults() Typography {
	def := DefaultTypography()
	if t.TitleFont.Family == "" {
		t.TitleFont = def.TitleFont
	}
	if t.TitleSize <= 0 {
		t.TitleSize = def.TitleSize
	}
	if t.HeaderFont.Family == "" {
		t.HeaderFont = def.HeaderFont
	}
	if t.HeaderSize <= 0 {
		t.HeaderSize = def.HeaderSize
	}
	if t.BodyFont.Family == "" {
		t.BodyFont = def.BodyFont
	}
	if t.BodySize <= 0 {
		t.BodySize = def.BodySize
	}
	if t.InteriorPadding == nil {
		t.InteriorPadding = def.InteriorPadding
	}
	if t.DescentAdjustment == nil {
		t.DescentAdjustment = def.DescentAdjustment
	}
	return t
}

// Padding 返回折行留白，未设置时为默认值。
func (t Typography) Padding() float64 {
	if t.InteriorPadding == nil {
		return *DefaultTypography().InteriorPadding
	}
	return *t.InteriorPadding
}

// Descent 返回基线调整量，未设置时为默认值。
func (t Typography) Descent() float64 {
	if t.DescentAdjustment == nil {
		return *DefaultTypography().DescentAdjustment
	}
	return *t.DescentAdjustment
}

// Validate 拒绝负数或非有限的留白与基线调整量。
func (t Typography) Validate() error {
	for _, f := range []struct {
		name  string
		value *float64
	}{
		{"padding", t.InteriorPadding},
		{"descent", t.DescentAdjustment},
	} {
		if f.value == nil {
			continue
		}
		if v := *f.value; !(v >= 0) || math.IsInf(v, 0) {
			return ConfigError("typography", "%s 必须为非负的有限数，实际为 %g", f.name, v)
		}
	}
	return nil
}
