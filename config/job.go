// Package config 把 DSL 或 YAML 编写的导出任务解析为渲染器可以直接使用的配置。
package config

import (
	"math"
	"strconv"
	"strings"

	"github.com/ByLCY/roster/layout"
	"github.com/ByLCY/roster/renderer"
)

// DefaultPlaceholder 用于替换缺失的单元格数据。
const DefaultPlaceholder = "-"

// DefaultCreator 写入 PDF 元信息的默认生成者。
const DefaultCreator = "Roster"

// Column 描述一列：表头、权重，以及从记录中取值的字段路径。
type Column struct {
	Header string  `yaml:"header"`
	Weight float64 `yaml:"weight"`
	// Field 为空时使用 Header。
	Field string `yaml:"field"`
}

// Job 是一次导出任务的完整描述。
type Job struct {
	Name        string
	Meta        layout.DocumentMeta
	Page        layout.PageConfig
	Typography  layout.Typography
	Columns     []Column
	Placeholder string
}

// NewJob 返回带有默认版式的任务。
func NewJob(name string) *Job {
	return &Job{
		Name:        name,
		Meta:        layout.DocumentMeta{Creator: DefaultCreator},
		Page:        layout.DefaultPageConfig(),
		Typography:  layout.DefaultTypography(),
		Placeholder: DefaultPlaceholder,
	}
}

// SetPageSize 按纸张名称设置页面宽高。
func (j *Job) SetPageSize(name string, landscape bool) error {
	w, h, ok := layout.PageSize(name, landscape)
	if !ok {
		return layout.ConfigError("page", "暂不支持的纸张尺寸：%s", name)
	}
	j.Page.PageWidth, j.Page.PageHeight = w, h
	return nil
}

// SetPage 设置一个页面几何属性，长度可以带单位（pt/mm/cm/in），裸数字按 pt 处理。
func (j *Job) SetPage(key, value string) error {
	if key == "margin" {
		v, err := parsePoints(key, value)
		if err != nil {
			return err
		}
		j.Page.MarginLeft, j.Page.MarginRight, j.Page.MarginTop, j.Page.MarginBottom = v, v, v, v
		return nil
	}
	target := j.pageField(key)
	if target == nil {
		return layout.ConfigError("page", "未知的页面属性 %q", key)
	}
	v, err := parsePoints(key, value)
	if err != nil {
		return err
	}
	*target = v
	return nil
}

func (j *Job) pageField(key string) *float64 {
	switch key {
	case "page-width":
		return &j.Page.PageWidth
	case "page-height":
		return &j.Page.PageHeight
	case "margin-left":
		return &j.Page.MarginLeft
	case "margin-right":
		return &j.Page.MarginRight
	case "margin-top":
		return &j.Page.MarginTop
	case "margin-bottom":
		return &j.Page.MarginBottom
	case "row-min-height":
		return &j.Page.RowMinHeight
	case "line-height":
		return &j.Page.LineHeight
	case "header-row-height":
		return &j.Page.HeaderRowHeight
	case "table-width":
		return &j.Page.TableWidth
	case "title-gap":
		return &j.Page.TitleGap
	default:
		return nil
	}
}

// SetTypography 设置字体相关属性，例如 body-font: Times、header-style: B、title-size: 18。
func (j *Job) SetTypography(key, value string) error {
	t := &j.Typography
	switch key {
	case "title-font":
		t.TitleFont.Family = value
	case "title-style":
		t.TitleFont.Style = value
	case "header-font":
		t.HeaderFont.Family = value
	case "header-style":
		t.HeaderFont.Style = value
	case "body-font":
		t.BodyFont.Family = value
	case "body-style":
		t.BodyFont.Style = value
	case "title-size", "header-size", "body-size", "padding", "descent":
		v, err := parsePoints(key, value)
		if err != nil {
			return err
		}
		switch key {
		case "title-size":
			t.TitleSize = v
		case "header-size":
			t.HeaderSize = v
		case "body-size":
			t.BodySize = v
		case "padding":
			t.InteriorPadding = layout.Points(v)
		case "descent":
			t.DescentAdjustment = layout.Points(v)
		}
	default:
		return layout.ConfigError("typography", "未知的字体属性 %q", key)
	}
	return nil
}

// IsTypographyKey 判断 key 是否属于字体设置。
func IsTypographyKey(key string) bool {
	switch key {
	case "title-font", "title-style", "header-font", "header-style", "body-font", "body-style",
		"title-size", "header-size", "body-size", "padding", "descent":
		return true
	}
	return false
}

// SetMeta 设置 PDF 元信息；keywords 以逗号分隔。
func (j *Job) SetMeta(key, value string) error {
	switch strings.ToLower(key) {
	case "title":
		j.Meta.Title = value
	case "author":
		j.Meta.Author = value
	case "subject":
		j.Meta.Subject = value
	case "creator":
		j.Meta.Creator = value
	case "keywords":
		j.Meta.Keywords = splitKeywords(value)
	default:
		return layout.ConfigError("meta", "未知的元信息 %q", key)
	}
	return nil
}

// AddColumn 追加一列，field 为空时取表头文字。
func (j *Job) AddColumn(header string, weight float64, field string) {
	j.Columns = append(j.Columns, Column{Header: header, Weight: weight, Field: field})
}

// Validate 补齐字段默认值，并检查列定义与页面几何。
func (j *Job) Validate() error {
	if len(j.Columns) == 0 {
		return layout.ConfigError("columns", "任务 %q 至少需要一列", j.Name)
	}
	for i := range j.Columns {
		col := &j.Columns[i]
		if strings.TrimSpace(col.Header) == "" {
			return layout.ConfigError("columns", "第 %d 列缺少表头", i+1)
		}
		if col.Field == "" {
			col.Field = col.Header
		}
	}
	return j.RendererConfig().Validate()
}

// Fields 返回每一列对应的取值字段。
func (j *Job) Fields() []string {
	out := make([]string, len(j.Columns))
	for i, col := range j.Columns {
		out[i] = col.Field
		if out[i] == "" {
			out[i] = col.Header
		}
	}
	return out
}

// ColumnSpecs 返回布局层使用的列定义。
func (j *Job) ColumnSpecs() []layout.ColumnSpec {
	out := make([]layout.ColumnSpec, len(j.Columns))
	for i, col := range j.Columns {
		out[i] = layout.ColumnSpec{Header: col.Header, Weight: col.Weight}
	}
	return out
}

// RendererConfig 组装表格渲染配置，标题取自元信息，标题中可以引用 ${name}。
func (j *Job) RendererConfig() renderer.Config {
	return renderer.Config{
		Title:      j.Meta.Title,
		Vars:       map[string]any{"name": j.Name},
		Columns:    j.ColumnSpecs(),
		Page:       j.Page,
		Typography: j.Typography,
	}
}

func parsePoints(key, value string) (float64, error) {
	v, err := layout.ParsePoints(value)
	if err != nil || math.IsNaN(v) {
		return 0, layout.ConfigError("job", "%s 的取值 %q 不是合法长度", key, value)
	}
	return v, nil
}

func parseWeight(value string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, layout.ConfigError("columns", "权重 %q 不是数字", value)
	}
	return v, nil
}

func splitKeywords(value string) []string {
	var out []string
	for _, k := range strings.Split(value, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
