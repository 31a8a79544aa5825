package config

import (
	"errors"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ByLCY/roster/layout"
)

// yamlJob 是 YAML 任务文件的结构。页面与字体属性沿用 DSL 中的键名。
type yamlJob struct {
	Name        string            `yaml:"name"`
	Meta        yamlMeta          `yaml:"meta"`
	Page        yamlPage          `yaml:"page"`
	Typography  map[string]string `yaml:"typography"`
	Placeholder *string           `yaml:"placeholder"`
	Columns     []Column          `yaml:"columns"`
}

type yamlMeta struct {
	Title    string   `yaml:"title"`
	Author   string   `yaml:"author"`
	Subject  string   `yaml:"subject"`
	Creator  string   `yaml:"creator"`
	Keywords []string `yaml:"keywords"`
}

type yamlPage struct {
	Size        string            `yaml:"size"`
	Orientation string            `yaml:"orientation"`
	Settings    map[string]string `yaml:",inline"`
}

// ParseYAML 解析 YAML 任务文件并校验，未知字段视为错误。
func ParseYAML(r io.Reader) (*Job, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var raw yamlJob
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, layout.ConfigError("parse", "YAML 任务文件为空")
		}
		return nil, layout.ConfigError("parse", "解析 YAML 失败: %v", err)
	}
	job, err := raw.job()
	if err != nil {
		return nil, err
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}
	return job, nil
}

func (y yamlJob) job() (*Job, error) {
	job := NewJob(y.Name)
	if y.Meta.Title != "" {
		job.Meta.Title = y.Meta.Title
	}
	job.Meta.Author = y.Meta.Author
	job.Meta.Subject = y.Meta.Subject
	if y.Meta.Creator != "" {
		job.Meta.Creator = y.Meta.Creator
	}
	job.Meta.Keywords = y.Meta.Keywords

	if y.Page.Size != "" {
		landscape := false
		switch strings.ToLower(y.Page.Orientation) {
		case "", "portrait":
		case "landscape":
			landscape = true
		default:
			return nil, layout.ConfigError("page", "未知的页面方向 %q", y.Page.Orientation)
		}
		if err := job.SetPageSize(y.Page.Size, landscape); err != nil {
			return nil, err
		}
	}
	for _, key := range sortedKeys(y.Page.Settings) {
		if err := job.SetPage(key, y.Page.Settings[key]); err != nil {
			return nil, err
		}
	}
	for _, key := range sortedKeys(y.Typography) {
		if err := job.SetTypography(key, y.Typography[key]); err != nil {
			return nil, err
		}
	}
	if y.Placeholder != nil {
		job.Placeholder = *y.Placeholder
	}
	job.Columns = append(job.Columns, y.Columns...)
	return job, nil
}

// sortedKeys 保证 margin 先于具体的 margin-* 生效。
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
