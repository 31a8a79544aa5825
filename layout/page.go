package layout

import (
	"math"
	"strings"
)

// DefaultTitleGap 是标题基线到表格顶部的距离（pt）。
const DefaultTitleGap = 40

// PageConfig 是页面几何配置，所有长度单位为 pt。
// TableWidth 不会根据边距重新推导，是否超出可打印宽度由调用方负责。
type PageConfig struct {
	PageWidth       float64 `json:"pageWidth" yaml:"page-width"`
	PageHeight      float64 `json:"pageHeight" yaml:"page-height"`
	MarginLeft      float64 `json:"marginLeft" yaml:"margin-left"`
	MarginRight     float64 `json:"marginRight" yaml:"margin-right"`
	MarginTop       float64 `json:"marginTop" yaml:"margin-top"`
	MarginBottom    float64 `json:"marginBottom" yaml:"margin-bottom"`
	RowMinHeight    float64 `json:"rowMinHeight" yaml:"row-min-height"`
	LineHeight      float64 `json:"lineHeight" yaml:"line-height"`
	HeaderRowHeight float64 `json:"headerRowHeight" yaml:"header-row-height"`
	TableWidth      float64 `json:"tableWidth" yaml:"table-width"`
	// TitleGap 为 0 时使用 DefaultTitleGap。
	TitleGap float64 `json:"titleGap,omitempty" yaml:"title-gap"`
}

// Validate 检查所有必填项均为有限正数。
func (c PageConfig) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"page-width", c.PageWidth},
		{"page-height", c.PageHeight},
		{"margin-left", c.MarginLeft},
		{"margin-right", c.MarginRight},
		{"margin-top", c.MarginTop},
		{"margin-bottom", c.MarginBottom},
		{"row-min-height", c.RowMinHeight},
		{"line-height", c.LineHeight},
		{"header-row-height", c.HeaderRowHeight},
		{"table-width", c.TableWidth},
	}
	for _, f := range fields {
		if !(f.value > 0) || math.IsInf(f.value, 0) {
			return ConfigError("page", "%s 必须为正数，实际为 %g", f.name, f.value)
		}
	}
	if c.TitleGap < 0 {
		return ConfigError("page", "title-gap 不能为负数，实际为 %g", c.TitleGap)
	}
	g := c.Geometry()
	if g.TopOfTableY-g.HeaderRowHeight <= g.PageBottomMargin {
		return ConfigError("page", "表头底部 %g 低于下边距 %g，页面没有可用空间", g.TopOfTableY-g.HeaderRowHeight, g.PageBottomMargin)
	}
	return nil
}

// PrintableWidth 返回左右边距之间的宽度。
func (c PageConfig) PrintableWidth() float64 {
	return c.PageWidth - c.MarginLeft - c.MarginRight
}

// TitleBaselineY 返回标题基线的 y 坐标：页面顶部向下 MarginTop。
func (c PageConfig) TitleBaselineY() float64 {
	return c.PageHeight - c.MarginTop
}

func (c PageConfig) titleGap() float64 {
	if c.TitleGap > 0 {
		return c.TitleGap
	}
	return DefaultTitleGap
}

// Geometry 推导表格几何：表格顶部位于标题基线下方 TitleGap 处。
func (c PageConfig) Geometry() TableGeometry {
	return TableGeometry{
		MarginLeft:       c.MarginLeft,
		TopOfTableY:      c.TitleBaselineY() - c.titleGap(),
		TableWidth:       c.TableWidth,
		PageBottomMargin: c.MarginBottom,
		RowMinHeight:     c.RowMinHeight,
		LineHeight:       c.LineHeight,
		HeaderRowHeight:  c.HeaderRowHeight,
	}
}

// pagePresets 以 pt 记录常见纸张尺寸（纵向）。
var pagePresets = map[string][2]float64{
	"A3":     {841.89, 1190.55},
	"A4":     {595.28, 841.89},
	"A5":     {419.53, 595.28},
	"LETTER": {612, 792},
	"LEGAL":  {612, 1008},
}

// PageSize 返回命名纸张的宽高（pt），landscape 为 true 时交换宽高。
func PageSize(name string, landscape bool) (float64, float64, bool) {
	size, ok := pagePresets[strings.ToUpper(name)]
	if !ok {
		return 0, 0, false
	}
	if landscape {
		return size[1], size[0], true
	}
	return size[0], size[1], true
}

// DefaultPageConfig 复现原始导出的版式：A4、表格宽 500pt、行高 25pt、行距 15pt。
func DefaultPageConfig() PageConfig {
	w, h, _ := PageSize("A4", false)
	return PageConfig{
		PageWidth:       w,
		PageHeight:      h,
		MarginLeft:      50,
		MarginRight:     45,
		MarginTop:       72,
		MarginBottom:    50,
		RowMinHeight:    25,
		LineHeight:      15,
		HeaderRowHeight: 25,
		TableWidth:      500,
		TitleGap:        DefaultTitleGap,
	}
}
