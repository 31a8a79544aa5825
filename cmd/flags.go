package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// enumFlag 是只接受固定取值的字符串参数。
type enumFlag struct {
	defaultValue string
	vs           []string
	i            int
}

var _ pflag.Value = (*enumFlag)(nil)

func newEnumFlag(defaultValue string, vs []string) *enumFlag {
	f := &enumFlag{i: -1, vs: vs, defaultValue: defaultValue}
	return f
}

// Type returns the valid enumeration values.
func (f *enumFlag) Type() string {
	return "{" + strings.Join(f.vs, ",") + "}"
}

// String returns the currently selected value, or the default.
func (f *enumFlag) String() string {
	if f.i == -1 {
		return f.defaultValue
	}
	return f.vs[f.i]
}

// Set selects one of the enumeration values.
func (f *enumFlag) Set(s string) error {
	for i := range f.vs {
		if f.vs[i] == s {
			f.i = i
			return nil
		}
	}
	return fmt.Errorf("must be one of %v", f.Type())
}

func addJobFlag(fs *pflag.FlagSet, job *string) {
	fs.StringVarP(job, "job", "j", "", "job file (.roster DSL or .yaml)")
}

func addLogFlags(fs *pflag.FlagSet, p logParams) {
	fs.Var(p.level, "log-level", "set log level")
	fs.Var(p.format, "log-format", "set log format")
}

func addBackendFlag(fs *pflag.FlagSet, backend *enumFlag) {
	fs.VarP(backend, "backend", "b", "PDF backend: canvas uses embedded Go fonts, fpdf uses PDF core fonts")
}

// parseFontFlags 解析 --font Family=path 形式的参数。
func parseFontFlags(values []string) (map[string]string, error) {
	out := make(map[string]string, len(values))
	for _, v := range values {
		name, path, ok := strings.Cut(v, "=")
		if !ok || strings.TrimSpace(name) == "" || strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("invalid --font %q, expected Family=path", v)
		}
		out[strings.TrimSpace(name)] = strings.TrimSpace(path)
	}
	return out, nil
}
