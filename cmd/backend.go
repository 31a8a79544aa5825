package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ByLCY/roster/config"
	"github.com/ByLCY/roster/layout"
	"github.com/ByLCY/roster/renderer"
	canvasrenderer "github.com/ByLCY/roster/renderer/canvas"
	fpdfrenderer "github.com/ByLCY/roster/renderer/fpdf"
	"github.com/ByLCY/roster/source"
)

const (
	backendCanvas = "canvas"
	backendFpdf   = "fpdf"
)

// backend 既是输出文档，也负责测量文本宽度。
type backend interface {
	renderer.Document
	layout.TextMeasurer
	Pages() int
}

func newBackend(name string, page layout.PageConfig, fontPaths map[string]string) (backend, error) {
	switch name {
	case backendFpdf:
		if len(fontPaths) > 0 {
			return nil, fmt.Errorf("--font is only supported by the %s backend", backendCanvas)
		}
		return fpdfrenderer.New(fpdfrenderer.Options{
			PageWidth:   page.PageWidth,
			PageHeight:  page.PageHeight,
			Compression: true,
		})
	case backendCanvas, "":
		fonts := make(map[string]canvasrenderer.Resource, len(fontPaths))
		for family, path := range fontPaths {
			fonts[family] = canvasrenderer.Resource{Path: path}
		}
		return canvasrenderer.New(canvasrenderer.Options{
			PageWidth:  page.PageWidth,
			PageHeight: page.PageHeight,
			Fonts:      fonts,
		})
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}
}

type recordSource struct {
	renderer.RecordSource
	close func() error
}

func (s recordSource) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// openSource 按数据文件扩展名选择记录来源；SQLite 需要同时提供 --query。
func openSource(ctx context.Context, path, query string, job *config.Job) (recordSource, error) {
	if path == "" {
		return recordSource{}, fmt.Errorf("missing --data")
	}
	fields := job.Fields()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".db", ".sqlite", ".sqlite3":
		if query == "" {
			return recordSource{}, fmt.Errorf("--query is required for SQLite data")
		}
		db, err := source.OpenSQLite(path)
		if err != nil {
			return recordSource{}, err
		}
		src, err := source.NewSQL(ctx, db, query, job.Placeholder)
		if err != nil {
			db.Close()
			return recordSource{}, err
		}
		return recordSource{RecordSource: src, close: func() error {
			src.Close()
			return db.Close()
		}}, nil
	case ".csv", ".json":
		if query != "" {
			return recordSource{}, fmt.Errorf("--query only applies to SQLite data")
		}
		f, err := os.Open(path)
		if err != nil {
			return recordSource{}, fmt.Errorf("open data file %s: %w", path, err)
		}
		var src renderer.RecordSource
		if ext == ".csv" {
			src, err = source.NewCSV(f, fields, job.Placeholder)
		} else {
			src, err = source.NewJSON(f, fields, job.Placeholder)
		}
		if err != nil {
			f.Close()
			return recordSource{}, err
		}
		return recordSource{RecordSource: src, close: f.Close}, nil
	default:
		return recordSource{}, fmt.Errorf("unsupported data file %s: expected .csv, .json or .db/.sqlite", path)
	}
}
