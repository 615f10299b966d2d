// Inspiration came from a project known as zap-pretty: https://github.com/maoueh/zap-pretty
// Instead of a cli tool however, this is a native encoder implementing the zapcore.Encoder interface.

package zappretty

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const timeFormat = "2006-01-02 15:04:05 MST"

var levelColor = map[zapcore.Level]color.Attribute{
	zapcore.DebugLevel:  color.FgBlue,
	zapcore.InfoLevel:   color.FgGreen,
	zapcore.WarnLevel:   color.FgYellow,
	zapcore.ErrorLevel:  color.FgRed,
	zapcore.DPanicLevel: color.FgRed,
	zapcore.PanicLevel:  color.FgRed,
	zapcore.FatalLevel:  color.FgRed,
}

// Register makes the encoder available to zap.Config under the name "cli".
func Register() error {
	return zap.RegisterEncoder("cli", func(cfg zapcore.EncoderConfig) (zapcore.Encoder, error) {
		return NewCLIEncoder(cfg), nil
	})
}

// EncoderConfig returns the development encoder config with a single space
// between elements.
func EncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.ConsoleSeparator = " "
	return cfg
}

// NewLogger builds a named logger writing colorized lines to w.
func NewLogger(w zapcore.WriteSyncer, level zapcore.LevelEnabler, name string) *zap.Logger {
	core := zapcore.NewCore(NewCLIEncoder(EncoderConfig()), w, level)
	return zap.New(core, zap.AddCaller()).Named(name)
}

// ParseLevel parses a level name, falling back to info.
func ParseLevel(s string) zapcore.Level {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return zapcore.InfoLevel
	}
	return level
}

type cliEncoder struct {
	zapcore.Encoder
}

// NewCLIEncoder returns a console encoder that colorizes the timestamp,
// level, logger name, caller and message.
func NewCLIEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	cfg.EncodeTime = encodeTimestamp
	cfg.EncodeLevel = encodeLevel
	cfg.EncodeName = encodeLoggerName
	cfg.EncodeCaller = encodeCaller

	if cfg.SkipLineEnding {
		cfg.LineEnding = ""
	} else if cfg.LineEnding == "" {
		cfg.LineEnding = zapcore.DefaultLineEnding
	}

	return &cliEncoder{Encoder: zapcore.NewConsoleEncoder(cfg)}
}

func (enc *cliEncoder) Clone() zapcore.Encoder {
	return &cliEncoder{Encoder: enc.Encoder.Clone()}
}

func (enc *cliEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	entry.Message = colorize(entry.Message, color.FgHiWhite)
	return enc.Encoder.EncodeEntry(entry, fields)
}

func encodeTimestamp(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(colorize(fmt.Sprintf("[%s]", t.Format(timeFormat)), color.FgWhite))
}

func encodeLevel(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(colorize(fmt.Sprintf("%-5s", level.CapitalString()), levelColor[level]))
}

func encodeLoggerName(name string, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(colorize(name, color.FgHiBlack))
}

func encodeCaller(caller zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(colorize(fmt.Sprintf("(%s)", caller.TrimmedPath()), color.FgHiBlack))
}

func colorize(s string, attributes ...color.Attribute) string {
	return color.New(attributes...).Sprint(s)
}
