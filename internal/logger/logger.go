// Package logger is the leveled, structured message sink every ldep
// component reports through, shaped after esbuild's internal/logger:
// messages carry a Kind and accumulate in a Log rather than being
// fprintf'd inline, so the CLI layer decides, once, how to present them.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// MsgKind classifies one reported message.
type MsgKind uint8

const (
	Error MsgKind = iota
	Warning
	Info
)

func (kind MsgKind) String() string {
	switch kind {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	default:
		return "?"
	}
}

// Msg is one reported diagnostic: the §4 ingest/link/unlink warnings
// and the §4.7 multiple-definition and undefined-symbol reports all
// funnel through this shape. Fatal parse errors are returned as errors
// instead and never become a Msg.
type Msg struct {
	Kind MsgKind
	Text string
}

// Log collects every message reported during a run and mirrors it,
// synchronously, to a zap.Logger, which is also the sink for the "-o"
// log-file option (§6). Log is not safe for concurrent use; ldep's
// ingest/link/unlink passes are single-threaded by design (§1
// Non-goals).
type Log struct {
	zap  *zap.Logger
	msgs []Msg
}

// NewLog builds a Log. sink is the destination for every message (set
// it with NewFileSink/NewStderrSink); quiet suppresses Info-level
// messages from the sink while still recording them in Done().
func NewLog(sink zapcore.WriteSyncer, quiet bool) *Log {
	level := zapcore.InfoLevel
	if quiet {
		level = zapcore.WarnLevel
	}
	enc := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey:  "msg",
		LevelKey:    "level",
		EncodeLevel: zapcore.CapitalLevelEncoder,
	})
	core := zapcore.NewCore(enc, sink, level)
	return &Log{zap: zap.New(core)}
}

// NewStderrSink returns the default sink: os.Stderr wrapped as a
// zapcore.WriteSyncer.
func NewStderrSink() zapcore.WriteSyncer {
	return zapcore.Lock(zapcore.AddSync(os.Stderr))
}

// NewFileSink opens path for writing (the "-o" flag, §6) and returns it
// as a zapcore.WriteSyncer alongside the file itself, which the caller
// must Close when the run finishes.
func NewFileSink(path string) (zapcore.WriteSyncer, *os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return zapcore.AddSync(f), f, nil
}

// AddMsg records msg and mirrors it to the zap sink at the matching
// level.
func (l *Log) AddMsg(msg Msg) {
	l.msgs = append(l.msgs, msg)
	switch msg.Kind {
	case Error:
		l.zap.Error(msg.Text)
	case Warning:
		l.zap.Warn(msg.Text)
	default:
		l.zap.Info(msg.Text)
	}
}

// Errorf is a convenience wrapper around AddMsg for Error-kind messages.
func (l *Log) Errorf(format string, args ...any) {
	l.AddMsg(Msg{Kind: Error, Text: fmt.Sprintf(format, args...)})
}

// Warnf is a convenience wrapper around AddMsg for Warning-kind
// messages.
func (l *Log) Warnf(format string, args ...any) {
	l.AddMsg(Msg{Kind: Warning, Text: fmt.Sprintf(format, args...)})
}

// Infof is a convenience wrapper around AddMsg for Info-kind messages.
func (l *Log) Infof(format string, args ...any) {
	l.AddMsg(Msg{Kind: Info, Text: fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any Error-kind message has been recorded.
func (l *Log) HasErrors() bool {
	for _, m := range l.msgs {
		if m.Kind == Error {
			return true
		}
	}
	return false
}

// Done returns every message recorded so far, in report order.
func (l *Log) Done() []Msg {
	return l.msgs
}

// Sync flushes the underlying zap core.
func (l *Log) Sync() error {
	return l.zap.Sync()
}
