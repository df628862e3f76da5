package config

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

type LoggerConfig struct {
	Level       string `yaml:"level" validate:"required,oneof=none debug normal"`
	Destination string `yaml:"destination,omitempty" validate:"omitempty,filepath"`
	Mode        string `yaml:"mode,omitempty" validate:"omitempty,oneof=append overwrite"`
}

type LoggingConfig struct {
	File    LoggerConfig `yaml:"file"`
	Console LoggerConfig `yaml:"console"`
}

// Prepare builds the program logger. Console output goes to stderr so that
// command output on stdout stays clean.
func (conf *LoggingConfig) Prepare() (*zap.Logger, error) {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.TimeKey = zapcore.OmitKey
	ec.EncodeLevel = zapcore.CapitalLevelEncoder

	var consoleCore zapcore.Core
	switch conf.Console.Level {
	case "debug":
		consoleCore = zapcore.NewCore(newEncoder(ec), zapcore.Lock(os.Stderr), zap.DebugLevel)
	case "normal":
		consoleCore = zapcore.NewCore(newEncoder(ec), zapcore.Lock(os.Stderr), zap.InfoLevel)
	default:
		consoleCore = zapcore.NewNopCore()
	}

	var fileLevel zapcore.Level
	switch conf.File.Level {
	case "debug":
		fileLevel = zap.DebugLevel
	case "normal":
		fileLevel = zap.InfoLevel
	default:
		return zap.New(consoleCore).Named("optionbuilder"), nil
	}

	flags := os.O_CREATE | os.O_WRONLY
	if conf.File.Mode == "append" {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(conf.File.Destination, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("unable to access file log destination (%s): %w", conf.File.Destination, err)
	}
	fileCore := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.Lock(f),
		fileLevel,
	)
	return zap.New(zapcore.NewTee(consoleCore, fileCore), zap.AddCaller()).Named("optionbuilder"), nil
}

// consoleEnc flattens error fields so the console does not print verbose
// stack output.
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
