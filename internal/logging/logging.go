// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging builds the zap loggers used by the rind binaries.
package logging

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLevel is used if no level is given.
const DefaultLevel = "info"

// ErrUnknownLevel is returned for level names zap does not know.
var ErrUnknownLevel = errors.New("unknown log level")

// ParseLevel parses the given level name. An empty name is [DefaultLevel].
func ParseLevel(level string) (zapcore.Level, error) {
	if level == "" {
		level = DefaultLevel
	}

	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return parsed, fmt.Errorf("%w: %s", ErrUnknownLevel, level)
	}

	return parsed, nil
}

// New creates a console encoded logger writing to the given writer.
func New(level string, writer io.Writer) (*zap.Logger, error) {
	parsed, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(zapcore.AddSync(writer)),
		parsed,
	)

	return zap.New(core, zap.AddStacktrace(zapcore.DPanicLevel)), nil
}
