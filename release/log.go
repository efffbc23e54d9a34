package release

import (
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// logger mirrors progress lines to the orchestrator's output and, when a log
// file is configured, appends timestamped copies to a rotating file so a
// failed run leaves a trace after the working directory is cleared. The file
// is created lazily on the first line, never during a dry run.
type logger struct {
	out  io.Writer
	file io.WriteCloser
}

func newLogger(out io.Writer, path string) *logger {
	l := &logger{out: out}
	if path != "" {
		l.file = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    5, // megabytes
			MaxBackups: 3,
		}
	}
	return l
}

// Printf writes one progress line.
func (l *logger) Printf(format string, args ...any) {
	line := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	fmt.Fprintf(l.out, ": %s\n", line)
	if l.file != nil {
		fmt.Fprintf(l.file, "[%s] %s\n", time.Now().Format(time.RFC3339), line)
	}
}

// Close releases the log file, if any.
func (l *logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
