package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ByLCY/roster/dsl"
	"github.com/ByLCY/roster/layout"
)

// ParseDSL 解析 DSL 任务文件并校验。
func ParseDSL(r io.Reader) (*Job, error) {
	doc, err := dsl.Parse(r)
	if err != nil {
		return nil, layout.ConfigError("parse", "解析 DSL 失败: %v", err)
	}
	job, err := FromDSL(doc)
	if err != nil {
		return nil, err
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}
	return job, nil
}

// FromDSL 将语法树转换为任务；未出现的段落保持默认值。
func FromDSL(doc *dsl.Document) (*Job, error) {
	if doc == nil {
		return nil, layout.ConfigError("parse", "文档为空")
	}
	job := NewJob(doc.Name)
	for _, section := range doc.Sections {
		var err error
		switch {
		case section.Meta != nil:
			err = applyMeta(job, section.Meta)
		case section.Page != nil:
			err = applyPage(job, section.Page)
		case section.Table != nil:
			err = applyTable(job, section.Table)
		}
		if err != nil {
			return nil, err
		}
	}
	return job, nil
}

func applyMeta(job *Job, meta *dsl.MetaSection) error {
	for _, a := range meta.Block.Assignments() {
		value := a.Value.Text()
		if strings.EqualFold(a.Key, "keywords") {
			value = strings.Join(a.Value.Strings(), ",")
		}
		if err := job.SetMeta(a.Key, value); err != nil {
			return at(a.Pos.String(), err)
		}
	}
	return nil
}

func applyPage(job *Job, page *dsl.PageSection) error {
	landscape := false
	for _, p := range page.Spec.Params {
		switch p.Value {
		case "landscape":
			landscape = true
		case "portrait":
			landscape = false
		default:
			return at(p.Pos.String(), layout.ConfigError("page", "未知的页面参数 %q", p.Value))
		}
	}
	if err := job.SetPageSize(page.Spec.Size, landscape); err != nil {
		return err
	}
	for _, a := range page.Block.Assignments() {
		if err := job.SetPage(a.Key, a.Value.Text()); err != nil {
			return at(a.Pos.String(), err)
		}
	}
	return nil
}

func applyTable(job *Job, table *dsl.TableSection) error {
	for _, a := range table.Block.Assignments() {
		var err error
		switch {
		case a.Key == "placeholder":
			job.Placeholder = a.Value.Text()
		case IsTypographyKey(a.Key):
			err = job.SetTypography(a.Key, a.Value.Text())
		default:
			err = layout.ConfigError("table", "未知的表格属性 %q", a.Key)
		}
		if err != nil {
			return at(a.Pos.String(), err)
		}
	}
	for _, cmd := range table.Block.Commands("") {
		if cmd.Name != "column" {
			return at(cmd.Pos.String(), layout.ConfigError("table", "未知的语句 %q", cmd.Name))
		}
		col, err := parseColumn(cmd)
		if err != nil {
			return at(cmd.Pos.String(), err)
		}
		job.Columns = append(job.Columns, col)
	}
	return nil
}

// parseColumn 解析 `column "表头" weight 190 field name { field: a.b }`，块内赋值优先。
func parseColumn(cmd *dsl.Command) (Column, error) {
	var col Column
	args := cmd.Args
	if len(args) > 0 && args[0].Type == "String" {
		col.Header = args[0].Value
		args = args[1:]
	}
	pairs, err := columnArgs(args)
	if err != nil {
		return col, err
	}
	for _, kv := range pairs {
		if err := setColumn(&col, kv[0], kv[1]); err != nil {
			return col, err
		}
	}
	for _, a := range cmd.Block.Assignments() {
		if err := setColumn(&col, a.Key, a.Value.Text()); err != nil {
			return col, err
		}
	}
	return col, nil
}

// columnArgs 把 `key value` 参数配对。值里的 `.` 与 `[...]` 会和相邻记号拼在一起，
// 所以 guardian.name、phones[0] 都算一个值。
func columnArgs(args []*dsl.Lexeme) ([][2]string, error) {
	var pairs [][2]string
	for i := 0; i < len(args); {
		key := args[i]
		if key.Type != "Ident" {
			return nil, layout.ConfigError("columns", "column 参数应为属性名，实际为 %q", key.Value)
		}
		i++
		if i >= len(args) {
			return nil, layout.ConfigError("columns", "column 属性 %q 缺少取值", key.Value)
		}
		var value strings.Builder
		value.WriteString(args[i].Value)
		i++
		for i < len(args) && (isPathSymbol(args[i], ".[]") || isPathSymbol(args[i-1], ".[")) {
			value.WriteString(args[i].Value)
			i++
		}
		if isPathSymbol(args[i-1], ".[") {
			return nil, layout.ConfigError("columns", "column 属性 %q 的取值 %q 不完整", key.Value, value.String())
		}
		pairs = append(pairs, [2]string{key.Value, value.String()})
	}
	return pairs, nil
}

func isPathSymbol(l *dsl.Lexeme, symbols string) bool {
	return l.Type == "Symbol" && len(l.Value) == 1 && strings.Contains(symbols, l.Value)
}

func setColumn(col *Column, key, value string) error {
	switch key {
	case "header":
		col.Header = value
	case "field":
		col.Field = value
	case "weight":
		w, err := parseWeight(value)
		if err != nil {
			return err
		}
		col.Weight = w
	default:
		return layout.ConfigError("columns", "未知的列属性 %q", key)
	}
	return nil
}

// at 在错误信息前加上源文件位置。
func at(pos string, err error) error {
	var lerr *layout.Error
	if !errors.As(err, &lerr) {
		return fmt.Errorf("%s: %w", pos, err)
	}
	return &layout.Error{Kind: lerr.Kind, Op: lerr.Op, Row: lerr.Row, Err: fmt.Errorf("%s: %w", pos, lerr.Err)}
}
