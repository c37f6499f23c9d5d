package desensitize

import "io"

// Writer 写入前对内容脱敏
type Writer struct {
	w    io.Writer
	hook *Hook
}

// NewWriter 包装 w
func NewWriter(w io.Writer, hook *Hook) *Writer {
	return &Writer{w: w, hook: hook}
}

// Write 返回值始终为 len(p)，避免上游把脱敏后的长度变化当成短写
func (w *Writer) Write(p []byte) (int, error) {
	if len(p) == 0 || w.hook.Len() == 0 {
		return w.w.Write(p)
	}
	if _, err := w.w.Write([]byte(w.hook.Desensitize(string(p)))); err != nil {
		return 0, err
	}
	return len(p), nil
}
