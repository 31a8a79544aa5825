package renderer

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ByLCY/roster/binding"
	"github.com/ByLCY/roster/layout"
)

// Collect 读取 RecordSource 直到 io.EOF。
func Collect(src RecordSource) ([]layout.Record, error) {
	if src == nil {
		return nil, fmt.Errorf("记录来源不能为空")
	}
	var records []layout.Record
	for {
		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("读取第 %d 条记录失败: %w", len(records), err)
		}
		records = append(records, rec)
	}
}

// TitleVars 合并标题插值变量，records 为记录条数。
func TitleVars(vars map[string]any, records int) map[string]any {
	out := make(map[string]any, len(vars)+1)
	for k, v := range vars {
		out[k] = v
	}
	out["records"] = records
	return out
}

// Export 一次性完成整张表格的导出：校验配置与全部记录的列数，然后逐行渲染。
//
// 标题中的 ${records} 会替换为记录条数，其余变量取自 cfg.Vars。任何错误都会终止导出，
// 已打开的页面在返回前一定会被释放。
func Export(src RecordSource, sink DocumentSink, measurer layout.TextMeasurer, cfg Config, opts Options) (Summary, error) {
	log := opts.logger()
	if err := cfg.Validate(); err != nil {
		return Summary{}, err
	}
	records, err := Collect(src)
	if err != nil {
		return Summary{}, err
	}
	for i, rec := range records {
		if len(rec) != len(cfg.Columns) {
			return Summary{}, layout.RecordShapeError(i, len(rec), len(cfg.Columns))
		}
	}
	cfg.Title = binding.Interpolate(cfg.Title, TitleVars(cfg.Vars, len(records)))

	r, err := NewTableRenderer(sink, measurer, cfg, Options{Logger: log})
	if err != nil {
		return Summary{}, err
	}
	defer r.Abort()

	started := time.Now()
	if err := r.Start(); err != nil {
		return r.Summary(), err
	}
	for _, rec := range records {
		if err := r.EmitRow(rec); err != nil {
			return r.Summary(), err
		}
	}
	if err := r.Finish(); err != nil {
		return r.Summary(), err
	}

	summary := r.Summary()
	log.WithFields(logrus.Fields{
		"pages":   summary.Pages,
		"rows":    summary.Rows,
		"elapsed": time.Since(started).String(),
	}).Debug("表格渲染完成")
	return summary, nil
}
