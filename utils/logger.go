package utils

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/awantoch/trellis-mcp/constants"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Internal logs go to stderr through zap. stdout is reserved for User output
// and, on the stdio transport, for the protocol itself.
var (
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	mu    sync.RWMutex
	sugar *zap.SugaredLogger

	userMu   sync.Mutex
	userSink io.Writer = os.Stdout
)

type requestIDKeyType struct{}

var requestIDKey = requestIDKeyType{}

func init() {
	if on, _ := strconv.ParseBool(os.Getenv(constants.EnvDebug)); on {
		level.SetLevel(zapcore.DebugLevel)
	}
	setSink(zapcore.Lock(os.Stderr), zapcore.CapitalColorLevelEncoder)
}

func setSink(ws zapcore.WriteSyncer, levelEncoder zapcore.LevelEncoder) {
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeLevel = levelEncoder
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), ws, level)

	mu.Lock()
	defer mu.Unlock()
	sugar = zap.New(core).Sugar()
}

func internal() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// User prints CLI output for humans. A trailing newline is added when missing.
func User(format string, v ...any) {
	msg := fmt.Sprintf(format, v...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	userMu.Lock()
	defer userMu.Unlock()
	_, _ = io.WriteString(userSink, msg)
}

func Info(format string, v ...any) { internal().Infof(format, v...) }
func Warn(format string, v ...any) { internal().Warnf(format, v...) }
func Error(format string, v ...any) { internal().Errorf(format, v...) }
func Debug(format string, v ...any) { internal().Debugf(format, v...) }

// SetUserOutput redirects User output. nil restores stdout.
func SetUserOutput(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	userMu.Lock()
	defer userMu.Unlock()
	userSink = w
}

// SetInternalOutput redirects internal logs to w without color codes. nil
// restores stderr. The level is left as is.
func SetInternalOutput(w io.Writer) {
	if w == nil {
		setSink(zapcore.Lock(os.Stderr), zapcore.CapitalColorLevelEncoder)
		return
	}
	setSink(zapcore.AddSync(w), zapcore.CapitalLevelEncoder)
}

// SetLevel changes the internal log level ("debug", "info", "warn", "error").
// Unknown names leave the level unchanged.
func SetLevel(name string) {
	lvl, err := zapcore.ParseLevel(name)
	if err != nil {
		internal().Warnf("unknown log level %q", name)
		return
	}
	level.SetLevel(lvl)
}

// Sync flushes buffered log entries. main calls it before exiting.
func Sync() {
	_ = internal().Sync()
}

// Errorf logs the error message and returns it as an error value.
func Errorf(format string, v ...any) error {
	err := fmt.Errorf(format, v...)
	internal().Error(err.Error())
	return err
}

// LoggerWriter adapts a printf-style log function to io.Writer so it can back
// a *log.Logger, such as http.Server.ErrorLog. Each non-blank line is one entry.
type LoggerWriter struct {
	Fn     func(string, ...any)
	Prefix string
}

func (w *LoggerWriter) Write(p []byte) (int, error) {
	for line := range strings.SplitSeq(string(p), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) != "" {
			w.Fn("%s%s", w.Prefix, line)
		}
	}
	return len(p), nil
}

// NewRequestID returns a fresh id for one tool invocation.
func NewRequestID() string {
	return uuid.NewString()
}

// WithRequestID returns a new context with the given request ID.
func WithRequestID(ctx context.Context, reqID string) context.Context {
	return context.WithValue(ctx, requestIDKey, reqID)
}

// RequestIDFromContext extracts the request ID from context, if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(requestIDKey).(string)
	return s, ok
}

// logCtx writes a structured entry, tagged with the request ID when ctx
// carries one.
func logCtx(ctx context.Context, lvl zapcore.Level, msg string, fields []any) {
	if reqID, ok := RequestIDFromContext(ctx); ok {
		fields = append(fields, "request_id", reqID)
	}
	internal().Logw(lvl, msg, fields...)
}

func InfoCtx(ctx context.Context, msg string, fields ...any) {
	logCtx(ctx, zapcore.InfoLevel, msg, fields)
}

func WarnCtx(ctx context.Context, msg string, fields ...any) {
	logCtx(ctx, zapcore.WarnLevel, msg, fields)
}

func ErrorCtx(ctx context.Context, msg string, fields ...any) {
	logCtx(ctx, zapcore.ErrorLevel, msg, fields)
}

func DebugCtx(ctx context.Context, msg string, fields ...any) {
	logCtx(ctx, zapcore.DebugLevel, msg, fields)
}
