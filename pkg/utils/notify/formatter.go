package notify

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// TimestampLayout renders times as 2006-01-02 15:04:05,000.
const TimestampLayout = "2006-01-02 15:04:05,000"

// LineFormatter renders a logrus entry as "time - name - LEVEL - message".
type LineFormatter struct{}

// Format implements logrus.Formatter.
func (f *LineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	name, _ := entry.Data[nameField].(string)
	if name == "" {
		name = DefaultName
	}

	var buf bytes.Buffer

	_, err := fmt.Fprintf(
		&buf,
		"%s - %s - %s - %s\n",
		entry.Time.Format(TimestampLayout),
		name,
		strings.ToUpper(entry.Level.String()),
		entry.Message,
	)
	if err != nil {
		return nil, fmt.Errorf("format log record: %w", err)
	}

	return buf.Bytes(), nil
}

// fatalWriter turns a failed write into process termination. Records are
// never retried.
type fatalWriter struct {
	out  io.Writer
	exit func(int)
}

func (w *fatalWriter) Write(p []byte) (int, error) {
	n, err := w.out.Write(p)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "notify: failed to write log record: %v\n", err)
		w.exit(1)

		return n, fmt.Errorf("write log record: %w", err)
	}

	return n, nil
}
