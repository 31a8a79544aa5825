package renderer

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/ByLCY/roster/layout"
)

// Config 描述一次表格导出：标题、列定义、页面几何与字体。
type Config struct {
	Title      string
	Columns    []layout.ColumnSpec
	Page       layout.PageConfig
	Typography layout.Typography
	// Vars 是 Export 插值标题时可用的额外变量；records 总是由 Export 提供。
	Vars map[string]any
}

// Validate 在打开任何页面之前检查列定义、页面几何与排版常量。
func (c Config) Validate() error {
	if err := layout.ValidateColumns(c.Columns); err != nil {
		return err
	}
	if err := c.Typography.Validate(); err != nil {
		return err
	}
	return c.Page.Validate()
}

// Options 配置渲染器的可选依赖。
type Options struct {
	Logger logrus.FieldLogger
}

func (o Options) logger() logrus.FieldLogger {
	if o.Logger != nil {
		return o.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type state int

const (
	awaitingPage state = iota
	pageOpen
	closed
)

func (s state) String() string {
	switch s {
	case awaitingPage:
		return "AwaitingPage"
	case pageOpen:
		return "PageOpen"
	default:
		return "Closed"
	}
}

// pageCursor 记录当前页序号与下一行的顶部 y 坐标。
type pageCursor struct {
	pageIndex int
	cursorY   float64
	rows      int
}

// Summary 汇总一次渲染的结果。
type Summary struct {
	Pages      int       `json:"pages"`
	Rows       int       `json:"rows"`
	RowHeights []float64 `json:"rowHeights"`
}

// TableRenderer 是分页表格的状态机：AwaitingPage → PageOpen → Closed。
// 每个实例只服务一次导出，不能并发使用。
type TableRenderer struct {
	sink     DocumentSink
	measurer layout.TextMeasurer
	log      logrus.FieldLogger

	title  string
	page   layout.PageConfig
	typo   layout.Typography
	geom   layout.TableGeometry
	widths []float64
	header layout.RowPlan

	state      state
	pageActive bool
	cursor     pageCursor
	rowHeights []float64
}

// NewTableRenderer 校验配置、计算列宽并预先排好表头；配置错误在这里直接返回，不会产生任何输出。
func NewTableRenderer(sink DocumentSink, measurer layout.TextMeasurer, cfg Config, opts Options) (*TableRenderer, error) {
	if sink == nil {
		return nil, layout.ConfigError("renderer", "输出端不能为空")
	}
	if measurer == nil {
		return nil, layout.ConfigError("renderer", "缺少文本测量实现 TextMeasurer")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	geom := cfg.Page.Geometry()
	widths, err := layout.ComputeWidths(cfg.Columns, geom.TableWidth)
	if err != nil {
		return nil, err
	}
	r := &TableRenderer{
		sink:     sink,
		measurer: measurer,
		log:      opts.logger(),
		title:    cfg.Title,
		page:     cfg.Page,
		typo:     cfg.Typography.WithDefaults(),
		geom:     geom,
		widths:   widths,
	}
	if err := r.planHeader(cfg.Columns); err != nil {
		return nil, err
	}
	if printable := cfg.Page.PrintableWidth(); geom.TableWidth > printable {
		r.log.WithFields(logrus.Fields{
			"tableWidth": geom.TableWidth,
			"printable":  printable,
		}).Warn("表格宽度超出左右边距之间的可打印宽度")
	}
	return r, nil
}

// planHeader 表头每列只占一行，在固定的表头高度内居中，不参与折行。
func (r *TableRenderer) planHeader(columns []layout.ColumnSpec) error {
	cells := make([]layout.WrappedCell, len(columns))
	for i, col := range columns {
		w, err := r.measurer.MeasureText(col.Header, r.typo.HeaderFont, r.typo.HeaderSize)
		if err != nil {
			return layout.ConfigError("header", "测量表头 %q 失败: %v", col.Header, err)
		}
		cells[i] = layout.WrappedCell{
			Lines:       []layout.TextLine{{Content: col.Header, Width: w}},
			ColumnWidth: r.widths[i],
		}
	}
	r.header = layout.RowPlan{
		Cells:      cells,
		RowHeight:  r.geom.HeaderRowHeight,
		LineHeight: r.geom.LineHeight,
	}
	return nil
}

// Widths 返回计算好的列宽。
func (r *TableRenderer) Widths() []float64 {
	return append([]float64(nil), r.widths...)
}

// Start 打开第一页并绘制标题与表头。
func (r *TableRenderer) Start() error {
	if r.state != awaitingPage {
		return layout.StateError("start", r.state.String())
	}
	return r.openPage(-1)
}

// EmitRow 折行、计算行高、必要时分页，然后绘制一整行。一行不会跨页拆分。
//
// 只有当前页已经有数据行时才分页：表头下的第一行即使放不下也直接绘制在本页，
// 越过下边距并记录警告，而不是先换一页（那样只会多出一张只有表头的空页）。
func (r *TableRenderer) EmitRow(record layout.Record) error {
	if r.state != pageOpen {
		return layout.StateError("emit row", r.state.String())
	}
	index := len(r.rowHeights)
	if len(record) != len(r.widths) {
		return layout.RecordShapeError(index, len(record), len(r.widths))
	}

	cells, err := layout.WrapRecord(record, r.widths, r.measurer, r.typo.BodyFont, r.typo.BodySize, r.typo.Padding())
	if err != nil {
		return r.fail("measure", index, err)
	}
	plan, err := layout.PlanRow(cells, r.widths, r.geom.RowMinHeight, r.geom.LineHeight)
	if err != nil {
		return err
	}

	if r.cursor.cursorY-plan.RowHeight < r.geom.PageBottomMargin {
		if r.cursor.rows > 0 {
			if err := r.pageBreak(index); err != nil {
				return err
			}
		}
		if r.cursor.cursorY-plan.RowHeight < r.geom.PageBottomMargin {
			r.log.WithFields(logrus.Fields{
				"row":       index,
				"rowHeight": plan.RowHeight,
				"usable":    r.geom.UsableHeight(),
			}).Warn("行高超过整页可用高度，越过下边距绘制")
		}
	}

	if err := r.drawRow(plan, r.cursor.cursorY, r.typo.BodyFont, r.typo.BodySize); err != nil {
		return r.fail("draw row", index, err)
	}
	r.cursor.cursorY -= plan.RowHeight
	r.cursor.rows++
	r.rowHeights = append(r.rowHeights, plan.RowHeight)
	return nil
}

// Finish 关闭当前页，渲染器进入终止状态。
func (r *TableRenderer) Finish() error {
	if r.state != pageOpen {
		return layout.StateError("finish", r.state.String())
	}
	r.pageActive = false
	if err := r.sink.EndPage(); err != nil {
		r.state = closed
		return layout.SinkError("end page", -1, err)
	}
	r.state = closed
	return nil
}

// Abort 释放仍然打开的页面（尽力而为）并进入终止状态；对已关闭的渲染器无副作用。
func (r *TableRenderer) Abort() {
	if r.state == closed {
		return
	}
	if r.pageActive {
		r.pageActive = false
		if err := r.sink.EndPage(); err != nil {
			r.log.WithError(err).Debug("释放页面失败")
		}
	}
	r.state = closed
}

// Summary 返回已渲染的页数与行高。
func (r *TableRenderer) Summary() Summary {
	pages := 0
	if r.state != awaitingPage {
		pages = r.cursor.pageIndex + 1
	}
	return Summary{
		Pages:      pages,
		Rows:       len(r.rowHeights),
		RowHeights: append([]float64(nil), r.rowHeights...),
	}
}

func (r *TableRenderer) pageBreak(row int) error {
	r.pageActive = false
	if err := r.sink.EndPage(); err != nil {
		return r.fail("end page", row, err)
	}
	r.log.WithFields(logrus.Fields{
		"page": r.cursor.pageIndex + 1,
		"rows": r.cursor.rows,
	}).Debug("分页")
	r.cursor.pageIndex++
	return r.openPage(row)
}

func (r *TableRenderer) openPage(row int) error {
	if err := r.sink.BeginPage(); err != nil {
		return r.fail("begin page", row, err)
	}
	r.pageActive = true
	r.state = pageOpen
	if err := r.drawTitle(); err != nil {
		return r.fail("draw title", row, err)
	}
	top := r.geom.TopOfTableY
	if err := r.drawRow(r.header, top, r.typo.HeaderFont, r.typo.HeaderSize); err != nil {
		return r.fail("draw header", row, err)
	}
	r.cursor.cursorY = top - r.geom.HeaderRowHeight
	r.cursor.rows = 0
	return nil
}

func (r *TableRenderer) drawTitle() error {
	if r.title == "" {
		return nil
	}
	w, err := r.measurer.MeasureText(r.title, r.typo.TitleFont, r.typo.TitleSize)
	if err != nil {
		return err
	}
	x := (r.page.PageWidth - w) / 2
	return r.sink.DrawText(x, r.page.TitleBaselineY(), r.title, r.typo.TitleFont, r.typo.TitleSize)
}

// drawRow 绘制外框矩形、列间竖线与每个单元格的文本。
func (r *TableRenderer) drawRow(plan layout.RowPlan, top float64, font layout.Font, size float64) error {
	left := r.geom.MarginLeft
	bottom := top - plan.RowHeight
	if err := r.sink.DrawRect(left, bottom, r.geom.TableWidth, plan.RowHeight); err != nil {
		return err
	}
	offsets := layout.ColumnOffsets(left, r.widths)
	for _, x := range offsets[1 : len(offsets)-1] {
		if err := r.sink.DrawLine(x, top, x, bottom); err != nil {
			return err
		}
	}
	origins := plan.TextOrigins(top, left, r.typo.Descent())
	for i, cell := range plan.Cells {
		for j, line := range cell.Lines {
			if line.Content == "" {
				continue
			}
			p := origins[i][j]
			if err := r.sink.DrawText(p.X, p.Y, line.Content, font, size); err != nil {
				return err
			}
		}
	}
	return nil
}

// fail 把错误包装为终止性错误，并尽力释放打开的页面。
func (r *TableRenderer) fail(op string, row int, err error) error {
	r.Abort()
	return layout.SinkError(op, row, err)
}
