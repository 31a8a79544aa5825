package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ByLCY/roster/binding"
	"github.com/ByLCY/roster/config"
	"github.com/ByLCY/roster/renderer"
)

type exportCommandParams struct {
	job     string
	data    string
	query   string
	out     string
	trace   string
	fonts   []string
	backend *enumFlag
	log     logParams
}

func newExportCommandParams() exportCommandParams {
	return exportCommandParams{
		out:     "output/table.pdf",
		backend: newEnumFlag(backendCanvas, []string{backendCanvas, backendFpdf}),
		log:     newLogParams(),
	}
}

func init() {
	params := newExportCommandParams()

	exportCommand := &cobra.Command{
		Use:   "export",
		Short: "Export records as a paginated PDF table",
		Long: `Export records as a paginated PDF table.

The job file declares the title, the columns and their weights, and the page geometry.
Records are read from a CSV file with a header row, a JSON array of objects, or a
SQLite database queried with --query. Every page repeats the title and the header row;
rows are never split across pages.

Example:

  $ roster export --job students.roster --data students.csv --out output/students.pdf
`,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			if params.job == "" {
				return fmt.Errorf("missing --job")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return doExport(cmd.Context(), params, cmd.ErrOrStderr())
		},
	}

	fs := exportCommand.Flags()
	addJobFlag(fs, &params.job)
	fs.StringVarP(&params.data, "data", "d", "", "data file (.csv, .json, .db/.sqlite)")
	fs.StringVarP(&params.query, "query", "q", "", "SQL query for SQLite data")
	fs.StringVarP(&params.out, "out", "o", params.out, "PDF output path")
	fs.StringVar(&params.trace, "trace", "", "write the recorded drawing commands as JSON to this path")
	fs.StringArrayVar(&params.fonts, "font", nil, "custom font family for the canvas backend, as Family=path (repeatable)")
	addBackendFlag(fs, params.backend)
	addLogFlags(fs, params.log)
	RootCommand.AddCommand(exportCommand)
}

// doExport 串联任务加载、数据读取、分页渲染与文件输出。
func doExport(ctx context.Context, params exportCommandParams, logOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log, err := newLogger(params.log, logOut)
	if err != nil {
		return err
	}
	job, err := config.Load(params.job)
	if err != nil {
		return fmt.Errorf("加载任务失败: %w", err)
	}
	log = log.WithFields(logrus.Fields{"job": job.Name, "backend": params.backend.String()})

	fontPaths, err := parseFontFlags(params.fonts)
	if err != nil {
		return err
	}
	doc, err := newBackend(params.backend.String(), job.Page, fontPaths)
	if err != nil {
		return err
	}
	src, err := openSource(ctx, params.data, params.query, job)
	if err != nil {
		return err
	}
	defer src.Close()

	var sink renderer.DocumentSink = doc
	var rec *renderer.Recorder
	if params.trace != "" {
		rec = renderer.NewRecorder()
		sink = renderer.Tee(doc, rec)
	}

	cfg := job.RendererConfig()
	summary, err := renderer.Export(src, sink, doc, cfg, renderer.Options{Logger: log})
	if err != nil {
		return fmt.Errorf("导出表格失败: %w", err)
	}

	meta := job.Meta
	meta.Title = binding.Interpolate(meta.Title, renderer.TitleVars(cfg.Vars, summary.Rows))
	doc.SetMeta(meta)
	if err := writeOutput(params.out, doc.Save); err != nil {
		return err
	}
	if rec != nil {
		rec.SetMeta(meta)
		if err := writeOutput(params.trace, rec.Save); err != nil {
			return err
		}
	}

	log.WithFields(logrus.Fields{
		"pages": summary.Pages,
		"rows":  summary.Rows,
		"out":   params.out,
	}).Info("已生成 PDF")
	return nil
}

// writeOutput 创建目录后把 save 的输出写入 path。
func writeOutput(path string, save func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建文件 %s 失败: %w", path, err)
	}
	if err := save(f); err != nil {
		f.Close()
		return fmt.Errorf("写入 %s 失败: %w", path, err)
	}
	return f.Close()
}
