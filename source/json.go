package source

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ByLCY/roster/binding"
	"github.com/ByLCY/roster/layout"
)

// JSON serves records from a JSON array of objects. Fields are paths such as
// "name" or "guardian.phone[0]".
type JSON struct {
	items       []any
	fields      []string
	placeholder string
	pos         int
}

// NewJSON decodes the whole array up front.
func NewJSON(r io.Reader, fields []string, placeholder string) (*JSON, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var items []any
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("解析 JSON 数据失败: %w", err)
	}
	for i, f := range fields {
		if f == "" {
			return nil, fmt.Errorf("第 %d 列缺少 field 定义", i)
		}
	}
	return &JSON{items: items, fields: fields, placeholder: placeholder}, nil
}

func (j *JSON) Next() (layout.Record, error) {
	if j.pos >= len(j.items) {
		return nil, io.EOF
	}
	item := j.items[j.pos]
	j.pos++
	rec := make(layout.Record, len(j.fields))
	for i, f := range j.fields {
		val, ok := binding.Lookup(item, f)
		if !ok {
			rec[i] = j.placeholder
			continue
		}
		rec[i] = Format(val, j.placeholder)
	}
	return rec, nil
}
