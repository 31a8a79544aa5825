package layout

import "strings"

// Wrap 将单元格文本按空白拆词，贪心地装入宽度为 columnWidth - padding 的行。
//
// 只要 measure(当前行 + " " + 下一个词) 严格小于可用宽度，就把词追加到当前行；
// 否则结束当前行，并以该词开始新行。单个超宽的词不再拆分，而是独占一行（允许溢出）。
// 空文本得到恰好一行空字符串，保证空单元格也占据一行。
func Wrap(text string, columnWidth float64, measurer TextMeasurer, font Font, size, padding float64) (WrappedCell, error) {
	cell := WrappedCell{ColumnWidth: columnWidth}
	words := strings.Fields(text)
	if len(words) == 0 {
		cell.Lines = []TextLine{{Content: ""}}
		return cell, nil
	}

	available := columnWidth - padding
	var current strings.Builder
	currentWidth := 0.0

	for _, word := range words {
		if current.Len() == 0 {
			w, err := measurer.MeasureText(word, font, size)
			if err != nil {
				return WrappedCell{}, err
			}
			current.WriteString(word)
			currentWidth = w
			continue
		}

		candidate := current.String() + " " + word
		w, err := measurer.MeasureText(candidate, font, size)
		if err != nil {
			return WrappedCell{}, err
		}
		if w < available {
			current.WriteString(" ")
			current.WriteString(word)
			currentWidth = w
			continue
		}

		cell.Lines = append(cell.Lines, TextLine{Content: current.String(), Width: currentWidth})
		current.Reset()
		current.WriteString(word)
		currentWidth, err = measurer.MeasureText(word, font, size)
		if err != nil {
			return WrappedCell{}, err
		}
	}
	cell.Lines = append(cell.Lines, TextLine{Content: current.String(), Width: currentWidth})
	return cell, nil
}

// WrapRecord 对一条记录的每个单元格按对应列宽折行。
func WrapRecord(record Record, widths []float64, measurer TextMeasurer, font Font, size, padding float64) ([]WrappedCell, error) {
	cells := make([]WrappedCell, len(record))
	for i, text := range record {
		cell, err := Wrap(text, widths[i], measurer, font, size, padding)
		if err != nil {
			return nil, err
		}
		cells[i] = cell
	}
	return cells, nil
}
