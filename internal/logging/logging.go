// Package logging builds the zap logger shared by the twirer commands.
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a console logger writing to out (stderr when nil). Debug
// enables debug output; otherwise only warnings and errors are logged.
func New(debug bool, out io.Writer) *zap.Logger {
	if out == nil {
		out = os.Stderr
	}

	level := zapcore.WarnLevel
	if debug {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(out), level)
	opts := []zap.Option{zap.ErrorOutput(zapcore.AddSync(out))}
	if debug {
		opts = append(opts, zap.AddCaller())
	}
	return zap.New(core, opts...)
}

// GitDebugFunc adapts logger to the printf-style hook of the git package.
func GitDebugFunc(logger *zap.Logger) func(format string, args ...any) {
	sugar := logger.Sugar()
	return sugar.Debugf
}
