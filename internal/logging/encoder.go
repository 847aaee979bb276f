package logging

import (
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const timeLayout = "[2006-01-02] [15:04:05]"

var pool = buffer.NewPool()

// lineEncoder renders
//
//	[2006-01-02] [15:04:05] [host:port] [LEVEL] message {"field": ...}
//
// The logger name carries the probe target. Message and fields are left to
// the wrapped console encoder.
type lineEncoder struct {
	zapcore.Encoder
	color bool
}

func NewLineEncoder(color bool) zapcore.Encoder {
	return lineEncoder{
		Encoder: zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
			MessageKey:       "msg",
			ConsoleSeparator: " ",
			LineEnding:       zapcore.DefaultLineEnding,
			EncodeDuration:   zapcore.StringDurationEncoder,
			EncodeTime:       zapcore.ISO8601TimeEncoder,
		}),
		color: color,
	}
}

func (e lineEncoder) Clone() zapcore.Encoder {
	return lineEncoder{Encoder: e.Encoder.Clone(), color: e.color}
}

func (e lineEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	body, err := e.Encoder.EncodeEntry(ent, fields)
	if err != nil {
		return nil, err
	}
	defer body.Free()

	line := pool.Get()
	line.AppendString(ent.Time.Format(timeLayout))
	line.AppendByte(' ')
	if ent.LoggerName != "" {
		line.AppendByte('[')
		line.AppendString(ent.LoggerName)
		line.AppendString("] ")
	}
	line.AppendByte('[')
	if e.color {
		line.AppendString(levelColor(ent.Level))
		line.AppendString(LevelName(ent.Level))
		line.AppendString("\x1b[0m")
	} else {
		line.AppendString(LevelName(ent.Level))
	}
	line.AppendString("] ")
	_, _ = line.Write(body.Bytes())
	return line, nil
}

// LevelName spells levels the way the console output names them.
func LevelName(l zapcore.Level) string {
	switch l {
	case zapcore.DebugLevel:
		return "DEBUG"
	case zapcore.InfoLevel:
		return "INFO"
	case zapcore.WarnLevel:
		return "WARNING"
	case zapcore.ErrorLevel:
		return "ERROR"
	default:
		return "CRITICAL"
	}
}

func levelColor(l zapcore.Level) string {
	switch l {
	case zapcore.DebugLevel:
		return "\x1b[35m"
	case zapcore.InfoLevel:
		return "\x1b[32m"
	case zapcore.WarnLevel:
		return "\x1b[33m"
	default:
		return "\x1b[31m"
	}
}
