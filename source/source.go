// Package source provides RecordSource implementations that turn CSV files, JSON
// documents, SQL queries or in-memory rows into table records.
//
// Every source maps missing, NULL and blank values to a caller-chosen placeholder
// so that the renderer never sees absent data.
package source

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ByLCY/roster/layout"
)

// DateLayout is used for time values coming from JSON or SQL sources.
const DateLayout = "2006-01-02"

// Slice serves records from memory.
type Slice struct {
	records []layout.Record
	pos     int
}

// NewSlice returns a source over records. The slice is not copied.
func NewSlice(records []layout.Record) *Slice {
	return &Slice{records: records}
}

func (s *Slice) Next() (layout.Record, error) {
	if s.pos >= len(s.records) {
		return nil, io.EOF
	}
	rec := s.records[s.pos]
	s.pos++
	return rec, nil
}

// Format renders a scalar value as cell text.
func Format(v any, placeholder string) string {
	switch val := v.(type) {
	case nil:
		return placeholder
	case string:
		return orPlaceholder(val, placeholder)
	case []byte:
		return orPlaceholder(string(val), placeholder)
	case json.Number:
		return orPlaceholder(val.String(), placeholder)
	case time.Time:
		if val.IsZero() {
			return placeholder
		}
		return val.Format(DateLayout)
	case float64:
		return formatFloat(val)
	case float32:
		return formatFloat(float64(val))
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case bool:
		return strconv.FormatBool(val)
	default:
		return orPlaceholder(fmt.Sprint(val), placeholder)
	}
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func orPlaceholder(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}
