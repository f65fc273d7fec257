package utils

import (
	"bytes"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"
)

type LogLevel int

// LogFile adds the calling file and line to every line
var LogFile bool

const (
	LogLevelError = LogLevel(1 << iota)
	LogLevelInfo
	LogLevelNotice
	LogLevelDebug
)

var GlobalLogLevel = LogLevelError | LogLevelInfo

// ParseLogLevel maps a level name to the mask of that level and every level above it
func ParseLogLevel(name string) (LogLevel, error) {
	switch strings.ToLower(name) {
	case "error":
		return LogLevelError, nil
	case "info", "":
		return LogLevelError | LogLevelInfo, nil
	case "notice":
		return LogLevelError | LogLevelInfo | LogLevelNotice, nil
	case "debug":
		return LogLevelError | LogLevelInfo | LogLevelNotice | LogLevelDebug, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", name)
	}
}

var logBufPool = sync.Pool{
	New: func() any {
		return make([]byte, 0, 512)
	},
}

func getLogBuf() []byte {
	//nolint:forcetypeassert
	return logBufPool.Get().([]byte)[:0]
}

func returnLogBuf(buf []byte) {
	//nolint:staticcheck
	logBufPool.Put(buf)
}

func Panicf(format string, v ...any) {
	buf := getLogBuf()
	defer returnLogBuf(buf)
	buf = fmt.Appendf(innerPrint(buf, "", "PANIC"), format, v...)
	_println(buf)
	panic(string(buf))
}

func Fatalf(format string, v ...any) {
	buf := getLogBuf()
	defer returnLogBuf(buf)
	_println(fmt.Appendf(innerPrint(buf, "", "FATAL"), format, v...))
	//nolint:revive,gocritic
	os.Exit(1)
}

func Errorf(prefix, format string, v ...any) {
	logf(LogLevelError, prefix, "ERROR", format, v...)
}

func Logf(prefix, format string, v ...any) {
	logf(LogLevelInfo, prefix, "INFO", format, v...)
}

func Noticef(prefix, format string, v ...any) {
	logf(LogLevelNotice, prefix, "NOTICE", format, v...)
}

func IsLogLevelDebug() bool {
	return GlobalLogLevel&LogLevelDebug > 0
}

func Debugf(prefix, format string, v ...any) {
	logf(LogLevelDebug, prefix, "DEBUG", format, v...)
}

func logf(level LogLevel, prefix, class, format string, v ...any) {
	if GlobalLogLevel&level == 0 {
		return
	}
	buf := getLogBuf()
	defer returnLogBuf(buf)
	_println(fmt.Appendf(innerPrint(buf, prefix, class), format, v...))
}

func _println(buf []byte) {
	buf = bytes.TrimSpace(buf)
	buf = append(buf, '\n')

	_, _ = os.Stdout.Write(buf)
}

func innerPrint(buf []byte, prefix, class string) []byte {
	buf = time.Now().UTC().AppendFormat(buf, "2006-01-02 15:04:05.000")
	if !LogFile {
		return fmt.Appendf(buf, " [%s] %s ", prefix, class)
	}

	// skip innerPrint, logf and the exported wrapper
	_, file, line, ok := runtime.Caller(3)
	if !ok {
		file = "???"
		line = 0
	}
	if i := strings.LastIndexByte(file, '/'); i >= 0 {
		file = file[i+1:]
	}
	return fmt.Appendf(buf, " %s:%d [%s] %s ", file, line, prefix, class)
}
