package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ByLCY/roster/layout"
)

// CSV reads records from comma separated text whose first row is a header.
type CSV struct {
	r           *csv.Reader
	index       []int
	placeholder string
	line        int
}

// NewCSV reads the header row and binds each field to a header column. Matching is
// case-insensitive; an empty field binds to the column at the same position.
func NewCSV(r io.Reader, fields []string, placeholder string) (*CSV, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("读取 CSV 表头失败: %w", err)
	}
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[strings.ToLower(strings.TrimSpace(h))] = i
	}
	index := make([]int, len(fields))
	for i, f := range fields {
		if f == "" {
			index[i] = i
			continue
		}
		pos, ok := byName[strings.ToLower(f)]
		if !ok {
			return nil, fmt.Errorf("CSV 表头中没有字段 %q", f)
		}
		index[i] = pos
	}
	return &CSV{r: reader, index: index, placeholder: placeholder, line: 1}, nil
}

func (c *CSV) Next() (layout.Record, error) {
	row, err := c.r.Read()
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	c.line++
	if err != nil {
		return nil, fmt.Errorf("读取 CSV 第 %d 行失败: %w", c.line, err)
	}
	rec := make(layout.Record, len(c.index))
	for i, pos := range c.index {
		if pos < len(row) {
			rec[i] = orPlaceholder(row[pos], c.placeholder)
		} else {
			rec[i] = c.placeholder
		}
	}
	return rec, nil
}
