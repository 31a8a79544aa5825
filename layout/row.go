package layout

import "math"

// PlanRow 计算一行的高度：各单元格 max(rowMinHeight, 行数*lineHeight) 的最大值。
// columnWidths 用于校验单元格数量，并回填折行时未记录的列宽。
func PlanRow(cells []WrappedCell, columnWidths []float64, rowMinHeight, lineHeight float64) (RowPlan, error) {
	if len(cells) != len(columnWidths) {
		return RowPlan{}, RecordShapeError(-1, len(cells), len(columnWidths))
	}
	plan := RowPlan{
		Cells:      make([]WrappedCell, len(cells)),
		RowHeight:  rowMinHeight,
		LineHeight: lineHeight,
	}
	for i, cell := range cells {
		if cell.ColumnWidth == 0 {
			cell.ColumnWidth = columnWidths[i]
		}
		plan.Cells[i] = cell
		plan.RowHeight = math.Max(plan.RowHeight, blockHeight(cell, lineHeight))
	}
	return plan, nil
}

func blockHeight(cell WrappedCell, lineHeight float64) float64 {
	return float64(cell.LineCount()) * lineHeight
}

// TextOrigins 返回每个单元格每一行文本的绘制起点（基线左端）。
//
// 文本块在行内垂直居中：首行基线
//
//	startY = rowTop - (rowHeight - n*lineHeight)/2 - (lineHeight - descent)
//
// 之后每行下移 lineHeight；每行在列内水平居中：startX = columnLeft + (columnWidth - lineWidth)/2。
func (p RowPlan) TextOrigins(rowTop, tableLeft, descent float64) [][]Point {
	origins := make([][]Point, len(p.Cells))
	columnLeft := tableLeft
	for i, cell := range p.Cells {
		y := rowTop - (p.RowHeight-blockHeight(cell, p.LineHeight))/2 - (p.LineHeight - descent)
		points := make([]Point, len(cell.Lines))
		for j, line := range cell.Lines {
			points[j] = Point{
				X: columnLeft + (cell.ColumnWidth-line.Width)/2,
				Y: y,
			}
			y -= p.LineHeight
		}
		origins[i] = points
		columnLeft += cell.ColumnWidth
	}
	return origins
}
