// Package logging builds the zap logger used by the driver and the CLI.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// Options selects the console and file sinks. Levels are none, normal or
// debug.
type Options struct {
	Level string
	File  string
	// Console receives console output; stderr when nil. Stdout is reserved
	// for derived fragments.
	Console io.Writer
	Color   bool
}

func levelEnabler(level string) (zapcore.LevelEnabler, bool, error) {
	switch level {
	case "", "none":
		return nil, false, nil
	case "normal":
		return zap.NewAtomicLevelAt(zap.InfoLevel), true, nil
	case "debug":
		return zap.NewAtomicLevelAt(zap.DebugLevel), true, nil
	default:
		return nil, false, fmt.Errorf("unknown log level %q (want none, normal or debug)", level)
	}
}

// New returns the program logger and a function releasing its file.
func New(opts Options) (*zap.Logger, func() error, error) {
	closeFn := func() error { return nil }

	consoleCore := zapcore.NewNopCore()
	lvl, on, err := levelEnabler(opts.Level)
	if err != nil {
		return nil, closeFn, err
	}
	if on {
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeCaller = nil
		ec.TimeKey = zapcore.OmitKey
		if opts.Color {
			ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		} else {
			ec.EncodeLevel = zapcore.CapitalLevelEncoder
		}
		out := opts.Console
		if out == nil {
			out = os.Stderr
		}
		consoleCore = zapcore.NewCore(newEncoder(ec), zapcore.Lock(zapcore.AddSync(out)), lvl)
	}

	fileCore := zapcore.NewNopCore()
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return nil, closeFn, fmt.Errorf("unable to open log file %s: %w", opts.File, err)
		}
		closeFn = f.Close
		// The file log always records everything.
		fileCore = zapcore.NewCore(zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()), zapcore.Lock(f), zap.NewAtomicLevelAt(zap.DebugLevel))
	}

	return zap.New(zapcore.NewTee(consoleCore, fileCore)).Named("recforge"), closeFn, nil
}

// consoleEnc flattens wrapped errors so the console shows one line per
// entry.
type consoleEnc struct {
	zapcore.Encoder
}

func newEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	return consoleEnc{zapcore.NewConsoleEncoder(cfg)}
}

func (c consoleEnc) Clone() zapcore.Encoder {
	return consoleEnc{c.Encoder.Clone()}
}

func (c consoleEnc) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	out := make([]zapcore.Field, 0, len(fields))
	for _, f := range fields {
		if f.Type == zapcore.ErrorType {
			if e, ok := f.Interface.(error); ok {
				f.Interface = errors.New(e.Error())
			}
		}
		out = append(out, f)
	}
	return c.Encoder.EncodeEntry(ent, out)
}
