package logger

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"runtime"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ohmynofan/token-balances/pkg/utils"
)

var (
	mu         sync.RWMutex
	fileLogger = zerolog.Nop()
	logFile    *os.File
)

// Init truncates path and makes it the destination of every ClassLogger.
func Init(path string) error {
	os.Remove(path)
	if err := os.MkdirAll(dirOf(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	fileLogger = newZerolog(f)
	return nil
}

// InitWriter sends all log output to w.
func InitWriter(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	fileLogger = newZerolog(w)
}

func Close() error {
	mu.Lock()
	defer mu.Unlock()
	fileLogger = zerolog.Nop()
	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		return err
	}
	return nil
}

func newZerolog(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}

func current() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	zl := fileLogger
	return &zl
}

func dirOf(path string) string {
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return "."
	}
	return path[:i]
}

type ClassLogger struct {
	class string
}

func NewLogger(v interface{}) *ClassLogger {
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return &ClassLogger{class: t.Name()}
}

func NewNamed(name string) *ClassLogger {
	return &ClassLogger{class: name}
}

func (l *ClassLogger) Log(msg string) {
	l.event(current().Info(), msg)
}

func (l *ClassLogger) Warn(msg string) {
	l.event(current().Warn(), msg)
}

func (l *ClassLogger) JustLog(msg string) {
	l.event(current().Debug(), msg)
}

func (l *ClassLogger) LogObject(msg string, obj interface{}) {
	formattedString, err := utils.FormatObject(obj)
	if err != nil {
		l.JustLog(fmt.Sprintf("Error formatting object: %v", err))
		return
	}
	l.JustLog(fmt.Sprintf("%s : \n%v", msg, formattedString))
}

func (l *ClassLogger) event(e *zerolog.Event, msg string) {
	if e == nil {
		return
	}
	e.Str("class", l.class).Str("func", callerFunc(3)).Msg(msg)
}

func callerFunc(skip int) string {
	pc, _, _, ok := runtime.Caller(skip)
	if !ok {
		return "unknown"
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return "unknown"
	}
	parts := strings.Split(fn.Name(), ".")
	return parts[len(parts)-1]
}
