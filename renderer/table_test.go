package renderer_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/ByLCY/roster/layout"
	"github.com/ByLCY/roster/renderer"
	"github.com/ByLCY/roster/source"
)

// runeMeasurer 每个字符宽 5pt。
type runeMeasurer struct{}

func (runeMeasurer) MeasureText(text string, _ layout.Font, _ float64) (float64, error) {
	return float64(utf8.RuneCountInString(text)) * 5, nil
}

// testConfig: 表格顶部 755，表头 25，下边距 50，数据区可用高度 680。
func testConfig() renderer.Config {
	return renderer.Config{
		Title:   "Students (${records})",
		Columns: []layout.ColumnSpec{{Header: "Name", Weight: 1}, {Header: "Note", Weight: 1}},
		Page: layout.PageConfig{
			PageWidth:       595,
			PageHeight:      842,
			MarginLeft:      50,
			MarginRight:     45,
			MarginTop:       47,
			MarginBottom:    50,
			RowMinHeight:    25,
			LineHeight:      15,
			HeaderRowHeight: 25,
			TableWidth:      500,
			TitleGap:        40,
		},
	}
}

func studentRecords(n int) []layout.Record {
	out := make([]layout.Record, n)
	for i := range out {
		out[i] = layout.Record{fmt.Sprintf("Student %d", i), "ok"}
	}
	return out
}

func export(t *testing.T, records []layout.Record, cfg renderer.Config, opts renderer.Options) (*renderer.Recorder, renderer.Summary, error) {
	t.Helper()
	rec := renderer.NewRecorder()
	summary, err := renderer.Export(source.NewSlice(records), rec, runeMeasurer{}, cfg, opts)
	return rec, summary, err
}

func TestExportPaginatesWithoutSplittingRows(t *testing.T) {
	rec, summary, err := export(t, studentRecords(50), testConfig(), renderer.Options{})
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if summary.Pages != 2 || len(rec.Pages) != 2 {
		t.Fatalf("expected 2 pages, got summary=%d recorded=%d", summary.Pages, len(rec.Pages))
	}
	// 每页的矩形 = 1 个表头 + 数据行
	if got := rec.Pages[0].Count("rect") - 1; got != 27 {
		t.Fatalf("expected 27 rows on page 1, got %d", got)
	}
	if got := rec.Pages[1].Count("rect") - 1; got != 23 {
		t.Fatalf("expected 23 rows on page 2, got %d", got)
	}
	for i, page := range rec.Pages {
		for _, c := range page.Commands {
			if c.Op == "rect" && c.Y < 50 {
				t.Fatalf("page %d: row crosses the bottom margin at y=%g", i+1, c.Y)
			}
		}
	}
	if rec.Open() {
		t.Fatalf("last page should be closed")
	}
}

func TestTitleAndHeaderOnEveryPage(t *testing.T) {
	rec, _, err := export(t, studentRecords(50), testConfig(), renderer.Options{})
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	for i, page := range rec.Pages {
		texts := page.Texts()
		if len(texts) < 3 {
			t.Fatalf("page %d has too few texts: %v", i+1, texts)
		}
		if diff := cmp.Diff([]string{"Students (50)", "Name", "Note"}, texts[:3]); diff != "" {
			t.Fatalf("page %d must start with title and header (-want +got):\n%s", i+1, diff)
		}
	}
	if got := rec.Pages[1].Texts()[3]; got != "Student 27" {
		t.Fatalf("page 2 should continue with Student 27, got %q", got)
	}
}

func TestRowGeometry(t *testing.T) {
	rec, _, err := export(t, studentRecords(1), testConfig(), renderer.Options{})
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	page := rec.Pages[0]
	var rects, lines []renderer.Command
	texts := map[string]renderer.Command{}
	for _, c := range page.Commands {
		switch c.Op {
		case "rect":
			rects = append(rects, c)
		case "line":
			lines = append(lines, c)
		case "text":
			texts[c.Text] = c
		}
	}
	wantRects := []renderer.Command{
		{Op: "rect", X: 50, Y: 730, Width: 500, Height: 25},
		{Op: "rect", X: 50, Y: 705, Width: 500, Height: 25},
	}
	if diff := cmp.Diff(wantRects, rects); diff != "" {
		t.Fatalf("rects mismatch (-want +got):\n%s", diff)
	}
	wantLines := []renderer.Command{
		{Op: "line", X: 300, Y: 755, X2: 300, Y2: 730},
		{Op: "line", X: 300, Y: 730, X2: 300, Y2: 705},
	}
	if diff := cmp.Diff(wantLines, lines); diff != "" {
		t.Fatalf("dividers mismatch (-want +got):\n%s", diff)
	}
	title := texts["Students (1)"]
	if title.X != (595-60)/2.0 || title.Y != 795 || title.Size != 16 || !title.Font.Bold() {
		t.Fatalf("unexpected title placement %+v", title)
	}
	cell := texts["Student 0"]
	if cell.X != 50+(250-45)/2.0 || cell.Y != 713 || cell.Font.Bold() {
		t.Fatalf("unexpected cell placement %+v", cell)
	}
}

func TestExportRejectsBadRecordBeforeDrawing(t *testing.T) {
	records := studentRecords(5)
	records[3] = layout.Record{"Student 3", "ok", "extra", "cells"}
	rec, summary, err := export(t, records, testConfig(), renderer.Options{})
	if !errors.Is(err, layout.ErrRecordShape) {
		t.Fatalf("expected record shape error, got %v", err)
	}
	var lerr *layout.Error
	if !errors.As(err, &lerr) || lerr.Row != 3 {
		t.Fatalf("expected error for row 3, got %v", err)
	}
	if len(rec.Pages) != 0 || summary.Pages != 0 {
		t.Fatalf("nothing should be drawn, got %d pages", len(rec.Pages))
	}
}

func TestExportConfigurationErrors(t *testing.T) {
	cfg := testConfig()
	cfg.Columns[1].Weight = 0
	rec, _, err := export(t, studentRecords(2), cfg, renderer.Options{})
	if !errors.Is(err, layout.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if len(rec.Pages) != 0 {
		t.Fatalf("configuration errors must not produce output")
	}
}

func TestExportIsDeterministic(t *testing.T) {
	records := studentRecords(40)
	records[7][1] = "Peanut allergy and dairy intolerance, carries an epinephrine pen at all times"
	a, _, err := export(t, records, testConfig(), renderer.Options{})
	if err != nil {
		t.Fatalf("first export failed: %v", err)
	}
	b, _, err := export(t, records, testConfig(), renderer.Options{})
	if err != nil {
		t.Fatalf("second export failed: %v", err)
	}
	if diff := cmp.Diff(a.Pages, b.Pages); diff != "" {
		t.Fatalf("exports differ (-first +second):\n%s", diff)
	}
}

func TestExportEmptyInputDrawsHeaderPage(t *testing.T) {
	rec, summary, err := export(t, nil, testConfig(), renderer.Options{})
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if summary.Pages != 1 || summary.Rows != 0 {
		t.Fatalf("expected one empty page, got %+v", summary)
	}
	if diff := cmp.Diff([]string{"Students (0)", "Name", "Note"}, rec.Pages[0].Texts()); diff != "" {
		t.Fatalf("unexpected texts (-want +got):\n%s", diff)
	}
}

// tallRecord 生成一个每个词独占一行的单元格，共 words 行。
func tallRecord(words int) layout.Record {
	word := strings.Repeat("w", 50)
	parts := make([]string, words)
	for i := range parts {
		parts[i] = word
	}
	return layout.Record{strings.Join(parts, " "), "tall"}
}

func TestOversizedRowGetsItsOwnPage(t *testing.T) {
	logger, hook := test.NewNullLogger()
	records := []layout.Record{{"first", "ok"}, tallRecord(50), {"last", "ok"}}
	rec, summary, err := export(t, records, testConfig(), renderer.Options{Logger: logger})
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if summary.Pages != 3 || len(rec.Pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", summary.Pages)
	}
	if diff := cmp.Diff([]float64{25, 750, 25}, summary.RowHeights); diff != "" {
		t.Fatalf("row heights mismatch (-want +got):\n%s", diff)
	}
	warnings := 0
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warnings++
		}
	}
	if warnings != 1 {
		t.Fatalf("expected one overflow warning, got %d", warnings)
	}
}

func TestOversizedFirstRowDoesNotLeaveEmptyPage(t *testing.T) {
	rec, summary, err := export(t, []layout.Record{tallRecord(60)}, testConfig(), renderer.Options{})
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if summary.Pages != 1 || len(rec.Pages) != 1 {
		t.Fatalf("expected a single page, got %d", summary.Pages)
	}
}

func TestRendererStateMachine(t *testing.T) {
	rec := renderer.NewRecorder()
	r, err := renderer.NewTableRenderer(rec, runeMeasurer{}, testConfig(), renderer.Options{})
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if diff := cmp.Diff([]float64{250, 250}, r.Widths()); diff != "" {
		t.Fatalf("widths mismatch (-want +got):\n%s", diff)
	}
	if err := r.EmitRow(layout.Record{"a", "b"}); !errors.Is(err, layout.ErrInvalidState) {
		t.Fatalf("emit before start should fail, got %v", err)
	}
	if err := r.Finish(); !errors.Is(err, layout.ErrInvalidState) {
		t.Fatalf("finish before start should fail, got %v", err)
	}
	if err := r.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := r.Start(); !errors.Is(err, layout.ErrInvalidState) {
		t.Fatalf("second start should fail, got %v", err)
	}
	if err := r.EmitRow(layout.Record{"only one"}); !errors.Is(err, layout.ErrRecordShape) {
		t.Fatalf("short record should fail, got %v", err)
	}
	if err := r.EmitRow(layout.Record{"a", "b"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if err := r.Finish(); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if err := r.EmitRow(layout.Record{"a", "b"}); !errors.Is(err, layout.ErrInvalidState) {
		t.Fatalf("emit after finish should fail, got %v", err)
	}
	r.Abort()
	if got := r.Summary(); got.Pages != 1 || got.Rows != 1 {
		t.Fatalf("unexpected summary %+v", got)
	}
	if rec.Open() {
		t.Fatalf("page left open")
	}
}

func TestNewTableRendererRequiresCollaborators(t *testing.T) {
	if _, err := renderer.NewTableRenderer(nil, runeMeasurer{}, testConfig(), renderer.Options{}); !errors.Is(err, layout.ErrConfiguration) {
		t.Fatalf("nil sink should be a configuration error, got %v", err)
	}
	if _, err := renderer.NewTableRenderer(renderer.NewRecorder(), nil, testConfig(), renderer.Options{}); !errors.Is(err, layout.ErrConfiguration) {
		t.Fatalf("nil measurer should be a configuration error, got %v", err)
	}
}

// failingSink 在绘制指定文本、第 failBegin 次 BeginPage 或第 failEnd 次 EndPage 时失败。
// EndPage 失败时页面仍会在 Recorder 中关闭，模拟写出失败但句柄已释放。
type failingSink struct {
	*renderer.Recorder
	failText   string
	failBegin  int
	failEnd    int
	beginCalls int
	endCalls   int
}

func (f *failingSink) BeginPage() error {
	f.beginCalls++
	if f.beginCalls == f.failBegin {
		return errors.New("out of paper")
	}
	return f.Recorder.BeginPage()
}

func (f *failingSink) DrawText(x, y float64, text string, font layout.Font, size float64) error {
	if text == f.failText {
		return errors.New("device unavailable")
	}
	return f.Recorder.DrawText(x, y, text, font, size)
}

func (f *failingSink) EndPage() error {
	f.endCalls++
	err := f.Recorder.EndPage()
	if f.endCalls == f.failEnd {
		return errors.New("disk full")
	}
	return err
}

func TestSinkFailuresCloseRenderer(t *testing.T) {
	cases := map[string]struct {
		sink       *failingSink
		wantOp     string
		wantRow    int
		wantBegins int
		wantEnds   int
	}{
		"header on first page": {
			sink:   &failingSink{failText: "Note"},
			wantOp: "draw header", wantRow: -1, wantBegins: 1, wantEnds: 1,
		},
		"begin page on break": {
			sink:   &failingSink{failBegin: 2},
			wantOp: "begin page", wantRow: 27, wantBegins: 2, wantEnds: 1,
		},
		"end page on break": {
			sink:   &failingSink{failEnd: 1},
			wantOp: "end page", wantRow: 27, wantBegins: 1, wantEnds: 1,
		},
		"end page on finish": {
			sink:   &failingSink{failEnd: 2},
			wantOp: "end page", wantRow: -1, wantBegins: 2, wantEnds: 2,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			sink := tc.sink
			sink.Recorder = renderer.NewRecorder()
			r, err := renderer.NewTableRenderer(sink, runeMeasurer{}, testConfig(), renderer.Options{})
			if err != nil {
				t.Fatalf("new renderer: %v", err)
			}
			err = r.Start()
			for _, rec := range studentRecords(50) {
				if err != nil {
					break
				}
				err = r.EmitRow(rec)
			}
			if err == nil {
				err = r.Finish()
			}

			if !errors.Is(err, layout.ErrSinkFailure) {
				t.Fatalf("expected sink failure, got %v", err)
			}
			var lerr *layout.Error
			if !errors.As(err, &lerr) || lerr.Op != tc.wantOp || lerr.Row != tc.wantRow {
				t.Fatalf("expected %s at row %d, got %v", tc.wantOp, tc.wantRow, err)
			}
			if err := r.EmitRow(layout.Record{"a", "b"}); !errors.Is(err, layout.ErrInvalidState) {
				t.Fatalf("renderer should be closed after a sink failure, got %v", err)
			}
			if err := r.Finish(); !errors.Is(err, layout.ErrInvalidState) {
				t.Fatalf("finish after failure should be rejected, got %v", err)
			}
			r.Abort()
			if sink.Open() {
				t.Fatalf("page left open")
			}
			if sink.beginCalls != tc.wantBegins || sink.endCalls != tc.wantEnds {
				t.Fatalf("expected %d BeginPage / %d EndPage calls, got %d / %d",
					tc.wantBegins, tc.wantEnds, sink.beginCalls, sink.endCalls)
			}
		})
	}
}

func TestZeroTypographyUsesDefaultPadding(t *testing.T) {
	// 两个 24 字符的词合计 245pt：可用宽度 250-10=240 放不下，折成两行。
	word := strings.Repeat("x", 24)
	records := []layout.Record{{word + " " + word, "ok"}}

	_, summary, err := export(t, records, testConfig(), renderer.Options{})
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if diff := cmp.Diff([]float64{30}, summary.RowHeights); diff != "" {
		t.Fatalf("default padding should wrap the cell (-want +got):\n%s", diff)
	}

	cfg := testConfig()
	cfg.Typography.InteriorPadding = layout.Points(0)
	_, summary, err = export(t, records, cfg, renderer.Options{})
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if diff := cmp.Diff([]float64{25}, summary.RowHeights); diff != "" {
		t.Fatalf("explicit zero padding should keep one line (-want +got):\n%s", diff)
	}
}

func TestNegativePaddingIsConfigurationError(t *testing.T) {
	cfg := testConfig()
	cfg.Typography.InteriorPadding = layout.Points(-4)
	rec, _, err := export(t, studentRecords(1), cfg, renderer.Options{})
	if !errors.Is(err, layout.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if len(rec.Pages) != 0 {
		t.Fatalf("configuration errors must not produce output")
	}
}

func TestSinkFailureReleasesPage(t *testing.T) {
	sink := &failingSink{Recorder: renderer.NewRecorder(), failText: "Student 30"}
	summary, err := renderer.Export(source.NewSlice(studentRecords(50)), sink, runeMeasurer{}, testConfig(), renderer.Options{})
	if !errors.Is(err, layout.ErrSinkFailure) {
		t.Fatalf("expected sink failure, got %v", err)
	}
	var lerr *layout.Error
	if !errors.As(err, &lerr) || lerr.Row != 30 {
		t.Fatalf("expected failure on row 30, got %v", err)
	}
	if sink.Open() {
		t.Fatalf("open page must be released after a sink failure")
	}
	if sink.endCalls != 2 {
		t.Fatalf("expected page 1 end and page 2 release, got %d EndPage calls", sink.endCalls)
	}
	if summary.Rows != 30 {
		t.Fatalf("expected 30 rows drawn before failure, got %d", summary.Rows)
	}
}

type errSource struct{ n int }

func (s *errSource) Next() (layout.Record, error) {
	if s.n == 0 {
		return nil, errors.New("connection reset")
	}
	s.n--
	return layout.Record{"a", "b"}, nil
}

func TestExportSourceError(t *testing.T) {
	rec := renderer.NewRecorder()
	_, err := renderer.Export(&errSource{n: 2}, rec, runeMeasurer{}, testConfig(), renderer.Options{})
	if err == nil || !strings.Contains(err.Error(), "connection reset") {
		t.Fatalf("expected source error, got %v", err)
	}
	if len(rec.Pages) != 0 {
		t.Fatalf("source errors must not produce output")
	}
}
