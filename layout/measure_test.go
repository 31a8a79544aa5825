package layout

import (
	"errors"
	"unicode/utf8"
)

// stubMeasurer 给每个字符固定宽度，便于手算折行结果。
type stubMeasurer struct {
	perRune float64
	calls   int
	failOn  string
}

func (m *stubMeasurer) MeasureText(text string, _ Font, _ float64) (float64, error) {
	m.calls++
	if m.failOn != "" && text == m.failOn {
		return 0, errors.New("measure failed")
	}
	return float64(utf8.RuneCountInString(text)) * m.perRune, nil
}
