package lgr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mdobak/go-xerrors"
	"github.com/natefinch/lumberjack"
	"go.opentelemetry.io/otel/trace"
)

// Logger is the shared application logger. Console output is colorized,
// a JSON copy of every record goes to a rotating file.
var Logger = slog.New(newHandler(os.Stdout, &lumberjack.Logger{
	Filename:   "pm.log",
	MaxSize:    10, // MB
	MaxBackups: 5,
	MaxAge:     7,    // days
	Compress:   true, // compress old logs
}, levelFromEnv()))

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type stackFrame struct {
	Func   string `json:"func"`
	Source string `json:"source"`
	Line   int    `json:"line"`
}

// marshalStack extracts stack frames from errors created with go-xerrors.
func marshalStack(err error) []stackFrame {
	trace := xerrors.StackTrace(err)
	if len(trace) == 0 {
		return nil
	}

	frames := trace.Frames()
	s := make([]stackFrame, len(frames))
	for i, v := range frames {
		s[i] = stackFrame{
			Func:   filepath.Base(v.Function),
			Source: filepath.Join(filepath.Base(filepath.Dir(v.File)), filepath.Base(v.File)),
			Line:   v.Line,
		}
	}

	return s
}

type handler struct {
	console io.Writer
	file    io.Writer
	level   slog.Level
	attrs   []slog.Attr
	mu      *sync.Mutex
}

func newHandler(console io.Writer, file io.Writer, level slog.Level) slog.Handler {
	return &handler{
		console: console,
		file:    file,
		level:   level,
		mu:      &sync.Mutex{},
	}
}

func (h *handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &handler{
		console: h.console,
		file:    h.file,
		level:   h.level,
		attrs:   append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...),
		mu:      h.mu,
	}
}

func (h *handler) WithGroup(_ string) slog.Handler {
	// Groups are not used anywhere in this codebase
	return h
}

func (h *handler) Handle(ctx context.Context, r slog.Record) error {
	fields := map[string]interface{}{}
	for _, a := range h.attrs {
		fields[a.Key] = resolveAttr(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		fields[a.Key] = resolveAttr(a)
		return true
	})

	// Correlate with the active span when there is one
	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.HasTraceID() {
		fields["trace_id"] = spanCtx.TraceID().String()
	}
	if spanCtx.HasSpanID() {
		fields["span_id"] = spanCtx.SpanID().String()
	}

	var attrText string
	if len(fields) > 0 {
		b, err := json.Marshal(fields)
		if err != nil {
			return err
		}
		attrText = string(b)
	}

	entry := map[string]interface{}{
		"time":  r.Time.Format(time.RFC3339Nano),
		"level": r.Level.String(),
		"msg":   r.Message,
	}
	for k, v := range fields {
		entry[k] = v
	}
	fileLine, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	fmt.Fprintln(h.console,
		r.Time.Format("15:04:05.000"),
		colorizeLevel(r.Level),
		color.WhiteString(r.Message),
		color.CyanString(attrText),
	)

	_, err = h.file.Write(append(fileLine, '\n'))
	return err
}

func colorizeLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return color.RedString(level.String() + ":")
	case level >= slog.LevelWarn:
		return color.YellowString(level.String() + ":")
	case level >= slog.LevelInfo:
		return color.BlueString(level.String() + ":")
	default:
		return color.MagentaString(level.String() + ":")
	}
}

// resolveAttr renders attribute values, expanding errors into a
// message plus a stack trace when one is available.
func resolveAttr(a slog.Attr) interface{} {
	v := a.Value.Resolve()
	if v.Kind() != slog.KindAny {
		return v.Any()
	}

	if err, ok := v.Any().(error); ok {
		out := map[string]interface{}{"msg": err.Error()}
		if st := marshalStack(err); st != nil {
			out["trace"] = st
		}
		return out
	}

	return v.Any()
}
