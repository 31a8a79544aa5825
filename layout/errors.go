package layout

import (
	"errors"
	"fmt"
)

// 导出过程中可区分的错误类别。三类错误对当前导出都是终止性的，不做重试。
var (
	ErrConfiguration = errors.New("configuration error")
	ErrRecordShape   = errors.New("record shape error")
	ErrSinkFailure   = errors.New("sink failure")
	ErrInvalidState  = errors.New("invalid renderer state")
)

// Error 携带错误类别、发生的操作与可选的记录序号（从 0 开始，-1 表示与记录无关）。
type Error struct {
	Kind error
	Op   string
	Row  int
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Row >= 0 {
		msg = fmt.Sprintf("%s (row %d)", msg, e.Row)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is 使 errors.Is(err, ErrRecordShape) 之类的判断可以命中 Kind。
func (e *Error) Is(target error) bool { return e.Kind == target }

// ConfigError 构造一个配置错误。
func ConfigError(op, format string, args ...any) *Error {
	return &Error{Kind: ErrConfiguration, Op: op, Row: -1, Err: fmt.Errorf(format, args...)}
}

// RecordShapeError 构造一个记录列数不匹配的错误。
func RecordShapeError(row, got, want int) *Error {
	return &Error{
		Kind: ErrRecordShape,
		Op:   "emit row",
		Row:  row,
		Err:  fmt.Errorf("记录包含 %d 个单元格，表格有 %d 列", got, want),
	}
}

// SinkError 包装输出端返回的错误。
func SinkError(op string, row int, err error) *Error {
	return &Error{Kind: ErrSinkFailure, Op: op, Row: row, Err: err}
}

// StateError 表示在错误的渲染状态下调用了操作。
func StateError(op, state string) *Error {
	return &Error{Kind: ErrInvalidState, Op: op, Row: -1, Err: fmt.Errorf("当前状态为 %s", state)}
}
