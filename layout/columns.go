package layout

import "math"

// widthTolerance 是列宽之和与表格宽度之间允许的相对误差。
const widthTolerance = 1e-9

// ValidateColumns 检查列定义：至少一列，且每列权重为有限正数。
func ValidateColumns(columns []ColumnSpec) error {
	if len(columns) == 0 {
		return ConfigError("columns", "至少需要一列")
	}
	for i, col := range columns {
		if !(col.Weight > 0) || math.IsInf(col.Weight, 0) {
			return ConfigError("columns", "第 %d 列 %q 的权重必须为正数，实际为 %g", i, col.Header, col.Weight)
		}
	}
	return nil
}

// ComputeWidths 按权重比例把 tableWidth 分配给各列：width = weight / Σweight * tableWidth。
// 返回的列宽之和在浮点误差内等于 tableWidth。
func ComputeWidths(columns []ColumnSpec, tableWidth float64) ([]float64, error) {
	if err := ValidateColumns(columns); err != nil {
		return nil, err
	}
	if !(tableWidth > 0) || math.IsInf(tableWidth, 0) {
		return nil, ConfigError("columns", "表格宽度必须为正数，实际为 %g", tableWidth)
	}

	total := 0.0
	for _, col := range columns {
		total += col.Weight
	}
	widths := make([]float64, len(columns))
	sum := 0.0
	for i, col := range columns {
		widths[i] = col.Weight / total * tableWidth
		sum += widths[i]
	}
	if math.Abs(sum-tableWidth) > widthTolerance*tableWidth {
		return nil, ConfigError("columns", "列宽之和 %g 与表格宽度 %g 不一致", sum, tableWidth)
	}
	return widths, nil
}

// ColumnOffsets 返回每列左边界的 x 坐标，最后一个元素为表格右边界。
func ColumnOffsets(left float64, widths []float64) []float64 {
	offsets := make([]float64, len(widths)+1)
	offsets[0] = left
	for i, w := range widths {
		offsets[i+1] = offsets[i] + w
	}
	return offsets
}
